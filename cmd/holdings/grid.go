package main

import (
	"fmt"

	"github.com/findosh/holdings/internal/models"
	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/spf13/cobra"
)

func gridCmd(a *app) *cobra.Command {
	var (
		accountInfo bool
		asCSV       bool
	)

	cmd := &cobra.Command{
		Use:   "grid FILE",
		Short: "Print the aggregated positions as flat rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			svc, err := a.analytics(accountInfo, false)
			if err != nil {
				return err
			}

			holdings := svc.Aggregate(res.Table)
			table := analytics.HoldingsTable(holdings)
			out := cmd.OutOrStdout()
			if asCSV {
				return writeCSV(out, table)
			}

			valueCol := table.Index(models.ColValue)
			fmt.Fprintln(out, renderTable(table, map[int]bool{valueCol: true}))
			fmt.Fprintf(out, "%d positions, total %s\n", len(holdings), models.FormatMoney(analytics.Total(holdings)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&accountInfo, "account-info", false, "group accounts by custodian and account info")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}
