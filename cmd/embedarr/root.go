package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

type globalFlags struct {
	configPath string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "embedarr",
		Short: "Bulk import and removal of episode sources",
		Long: `embedarr - bulk import and removal of episode sources

Paste the episode arrays copied from a player page and embedarr extracts the
URLs, names each hosting provider and stores one labelled source per episode.
Large imports and deletions run in chunks; failed chunks are retried item by
item and the run reports exactly what succeeded.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("embedarr {{.Version}}\n")

	rootCmd.AddCommand(
		newInitCmd(flags),
		newParseCmd(flags),
		newImportCmd(flags),
		newAddCmd(flags),
		newListCmd(flags),
		newDeleteCmd(flags),
		newProvidersCmd(flags),
		newEventsCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "embedarr %s\n", version)
		},
	}
}
