package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/config"
	"github.com/raphi011/branch-cleanup/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage branch-cleanup configuration.

Config file: ~/.config/branch-cleanup/config.toml
Override the location with BRANCH_CLEANUP_CONFIG and the roots with
BRANCH_CLEANUP_ROOTS.`,
		Example: `  branch-cleanup config init   # Create default config
  branch-cleanup config show   # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  branch-cleanup config init      # Create config
  branch-cleanup config init -f   # Overwrite existing config
  branch-cleanup config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the configuration after applying the config file, environment and flags.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := effectiveConfig()
			if err != nil {
				return err
			}
			text, err := config.Encode(settings)
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Print(text)
			return nil
		},
	}
}
