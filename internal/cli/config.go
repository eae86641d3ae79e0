package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/studytime/internal/config"
)

func newConfigCommand(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the studytime config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := *cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.WriteFile(path, config.DefaultRuntimeConfig(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config with secrets redacted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			raw, err := config.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
