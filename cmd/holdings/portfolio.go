package main

import (
	"fmt"

	"github.com/findosh/holdings/internal/services/analytics"
	"github.com/spf13/cobra"
)

func portfolioCmd(a *app) *cobra.Command {
	var (
		accountInfo bool
		dropNetZero bool
		asCSV       bool
	)

	cmd := &cobra.Command{
		Use:   "portfolio FILE",
		Short: "Print the security-by-account cross-tab",
		Long: `portfolio aggregates the cleaned records by security and account and
prints one row per security with one column per account. Cells with no
holding are blank.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			svc, err := a.analytics(accountInfo, dropNetZero)
			if err != nil {
				return err
			}

			m := svc.PivotTable(res.Table)
			out := cmd.OutOrStdout()
			if asCSV {
				return analytics.WritePivotCSV(out, m)
			}

			fmt.Fprintln(out, renderPivot(m))
			return nil
		},
	}

	cmd.Flags().BoolVar(&accountInfo, "account-info", false, "label columns by custodian and account info")
	cmd.Flags().BoolVar(&dropNetZero, "drop-net-zero", false, "also drop securities whose accounts net to zero")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}
