package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func processCmd(a *app) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "process FILE",
		Short: "Print the processing log and the cleaned, sorted records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asCSV {
				return writeCSV(out, res.Table)
			}

			fmt.Fprintln(out, renderLog(res.Log))
			fmt.Fprintln(out, renderTable(res.Table, nil))
			fmt.Fprintf(out, "%d rows\n", res.Table.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}
