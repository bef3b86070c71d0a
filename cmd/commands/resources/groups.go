package resources

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/inventory"

	"github.com/spf13/cobra"
)

func GroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List resource groups",
		Long: `List the resource groups of a subscription.

Examples:
  skyglass resources groups
  skyglass resources groups -o json`,
		Args: cobra.NoArgs,
		RunE: runGroups,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runGroups(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	output, err := cmdutil.CheckOutput(output)
	if err != nil {
		return err
	}
	sub, err := cmdutil.RequireSubscription(cmd)
	if err != nil {
		return err
	}

	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	var groups inventory.GroupList
	err = cmdutil.Fetch(cmd, "Listing resource groups...", func(ctx context.Context) error {
		var err error
		groups, err = a.Inventory.Groups(ctx, sub)
		return err
	})
	if err != nil {
		return fmt.Errorf("listing resource groups: %w", err)
	}
	if groups.Notice != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Notice: %s\n", groups.Notice)
	}

	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), groups.Names)
	}
	if len(groups.Names) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No resource groups found.")
		return nil
	}
	for _, name := range groups.Names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
