package config

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/tui"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided and running in a terminal, opens an interactive\n" +
			"settings editor where you can browse, edit and reset every key.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  skyglass config get                    # interactive viewer\n" +
			"  skyglass config get refresh-interval   # print a single value",
		Args: cobra.MaximumNArgs(1),
		RunE: runGet,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if cmdutil.Interactive() {
			if err := tui.RunSettings(); err != nil {
				return fmt.Errorf("settings editor failed: %w", err)
			}
			return nil
		}
		return runList(cmd, args)
	}

	spec := config.Lookup(args[0])
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", args[0], strings.Join(config.KeyNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}
