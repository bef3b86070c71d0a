package config

import (
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/internal/config"

	"github.com/spf13/cobra"
)

// ListCommand returns the "config list" command.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every configuration value",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, spec := range config.Keys {
		value := spec.Get(cfg)
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(w, "%s:\t%s\n", spec.Name, value)
	}
	return w.Flush()
}
