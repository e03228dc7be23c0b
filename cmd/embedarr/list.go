package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sources of a catalog entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags)
		},
	}
	cmd.Flags().Int64("catalog", 0, "Catalog entry ID (required)")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runList(cmd *cobra.Command, flags *globalFlags) error {
	catalogID, _ := cmd.Flags().GetInt64("catalog")

	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.session(catalogID)
	if err := s.Load(cmd.Context()); err != nil {
		return err
	}
	srcs := s.Sources()

	w := cmd.OutOrStdout()
	if flags.jsonOutput {
		return printJSON(w, srcs)
	}
	if len(srcs) == 0 {
		fmt.Fprintf(w, "No sources for catalog %d.\n", s.CatalogID())
		return nil
	}
	fmt.Fprintf(w, "Catalog %d (%d sources):\n", s.CatalogID(), len(srcs))
	printSources(w, srcs)
	return nil
}
