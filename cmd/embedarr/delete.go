package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id...]",
		Short: "Delete sources of a catalog entry",
		Long: `Delete the given sources, or every source of the catalog entry with --all.
Sources that cannot be deleted are listed and left in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args, flags)
		},
	}
	cmd.Flags().Int64("catalog", 0, "Catalog entry ID (required)")
	cmd.Flags().Bool("all", false, "Delete every source of the catalog entry")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string, flags *globalFlags) error {
	catalogID, _ := cmd.Flags().GetInt64("catalog")
	all, _ := cmd.Flags().GetBool("all")
	if all == (len(args) > 0) {
		return errors.New("pass source ids or --all, but not both")
	}

	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.session(catalogID)
	if err := s.Load(cmd.Context()); err != nil {
		return err
	}
	if all {
		s.SelectAll()
	} else {
		s.Select(args...)
	}

	stop := a.watch(cmd, flags, s.CatalogID())
	res, err := s.Delete(cmd.Context(), nil)
	stop()
	a.writeMetrics()
	if res.Summary.JobID == "" {
		return err
	}

	w := cmd.OutOrStdout()
	if flags.jsonOutput {
		if jerr := printJSON(w, res); jerr != nil {
			return jerr
		}
	} else {
		printSummary(w, res.Summary)
		for _, id := range res.Pending {
			fmt.Fprintf(w, "  still present: %s\n", id)
		}
	}
	if err != nil {
		return err
	}
	if res.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d sources not deleted", res.Summary.Failed, res.Summary.Total)
	}
	return nil
}
