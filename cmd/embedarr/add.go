package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, flags)
		},
	}
	addMetaFlags(cmd, true)
	cmd.Flags().String("url", "", "Embed URL (required)")
	cmd.Flags().Int("episode", 1, "Episode number")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func runAdd(cmd *cobra.Command, flags *globalFlags) error {
	meta := metaFromFlags(cmd)
	url, _ := cmd.Flags().GetString("url")
	episode, _ := cmd.Flags().GetInt("episode")

	a, err := openApp(cmd.Context(), flags)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.session(meta.CatalogID).AddOne(cmd.Context(), meta, url, episode)
	a.writeMetrics()
	if res.Summary.JobID == "" {
		return err
	}
	return reportInsert(cmd, flags, res, err)
}
