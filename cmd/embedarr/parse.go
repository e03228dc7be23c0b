package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/ingest"
	"github.com/vmunix/embedarr/pkg/sources"
)

func newParseCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Show what a paste would import, without storing anything",
		Long: `Parse a paste and show the URL arrays found in it. With --title and
--catalog the records that import would create are listed too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, flags)
		},
	}
	addMetaFlags(cmd, false)
	return cmd
}

type parseOutput struct {
	Parse   sources.Result  `json:"parse"`
	Payload *ingest.Payload `json:"payload,omitempty"`
}

func runParse(cmd *cobra.Command, args []string, flags *globalFlags) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	out := parseOutput{Parse: sources.Parse(text)}

	title, _ := cmd.Flags().GetString("title")
	if title != "" {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		meta, err := metaFromFlags(cmd).Validate(cfg.Import.DefaultLanguage)
		if err != nil {
			return err
		}
		p := ingest.Build(out.Parse.Arrays, meta)
		out.Payload = &p
	}

	w := cmd.OutOrStdout()
	if flags.jsonOutput {
		return printJSON(w, out)
	}

	if len(out.Parse.Arrays) == 0 {
		fmt.Fprintln(w, "No URLs found.")
		return nil
	}
	printArrays(w, out.Parse)
	if out.Payload != nil {
		printSources(w, out.Payload.Records)
		printSkips(w, out.Parse, *out.Payload)
	} else {
		printSkips(w, out.Parse, ingest.Payload{})
	}
	return nil
}
