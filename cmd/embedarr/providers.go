package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/pkg/sources"
)

func newProvidersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the known hosting providers",
		Long: `List the URL patterns used to name hosting providers, in match order.
URLs matching none of them are named after their host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := sources.Providers()
			if flags.jsonOutput {
				return printJSON(cmd.OutOrStdout(), table)
			}
			rows := make([][]string, 0, len(table))
			for _, p := range table {
				rows = append(rows, []string{p.Pattern, p.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"PATTERN", "PROVIDER"}, rows, nil))
			return nil
		},
	}
}
