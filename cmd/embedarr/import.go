package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/importer"
)

func newImportCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file|-]",
		Short: "Import the episode URLs in a paste",
		Long: `Parse a paste, build one source per URL and insert them.

Each array's URLs are numbered from episode 1 in the order they appear.
Sources that fail to insert, such as URLs already stored for the catalog
entry, are reported and the rest are kept.`,
		Example: `  embedarr import --catalog 42 --title "Show" --season 1 --kind anime eps.txt
  pbpaste | embedarr import --catalog 42 --title "Show" --season 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, flags)
		},
	}
	addMetaFlags(cmd, true)
	return cmd
}

func runImport(cmd *cobra.Command, args []string, flags *globalFlags) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	meta := metaFromFlags(cmd)

	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	s := a.session(meta.CatalogID)
	stop := a.watch(cmd, flags, s.CatalogID())
	res, err := s.Import(cmd.Context(), text, meta)
	stop()
	a.writeMetrics()
	if res.Summary.JobID == "" {
		return err
	}
	return reportInsert(cmd, flags, res, err)
}

func reportInsert(cmd *cobra.Command, flags *globalFlags, res importer.ImportResult, runErr error) error {
	w := cmd.OutOrStdout()
	if flags.jsonOutput {
		if err := printJSON(w, res); err != nil {
			return err
		}
	} else {
		printSkips(w, res.Parse, res.Payload)
		printSummary(w, res.Summary)
	}
	if runErr != nil {
		return runErr
	}
	if res.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d sources not inserted", res.Summary.Failed, res.Summary.Total)
	}
	return nil
}
