package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/embedarr/internal/config"
)

func newInitCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long: `Write the commented default config. With --resolved, write the config
currently in effect instead, with environment references expanded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
	cmd.Flags().String("path", "", "Where to write the config (default: XDG config dir)")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	cmd.Flags().Bool("resolved", false, "Write the effective config instead of the template")
	return cmd
}

func runInit(cmd *cobra.Command, flags *globalFlags) error {
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")
	resolved, _ := cmd.Flags().GetBool("resolved")
	if path == "" {
		path = config.DefaultPath()
	}

	if resolved {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		if err := cfg.Write(path, force); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
	} else if err := config.WriteDefault(path, force); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
