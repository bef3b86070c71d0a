package config

import (
	"fmt"

	"nathanbeddoewebdev/skyglass/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Aliases: []string{"settings"},
		Short:   "View and change skyglass settings",
		Long: "View and change persistent skyglass settings. Subscriptions and their\n" +
			"tokens are managed with 'skyglass subscription'.\n\n" +
			config.KeysHelp(),
		SilenceUsage: true,
	}

	cmd.AddCommand(
		GetCommand(),
		SetCommand(),
		ListCommand(),
		PathCommand(),
	)

	return cmd
}

// PathCommand returns the "config path" command.
func PathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
