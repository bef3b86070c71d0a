package resources

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/inventory"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		Long: `List every resource in the subscription in the provider's order.

When the cloud API cannot be reached the last-known-good inventory (or the
built-in sample set) is shown instead and a notice is printed to stderr.

Examples:
  skyglass resources list
  skyglass resources list --status warning
  skyglass resources list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().String("group", "", "Only show resources in this resource group")
	cmd.Flags().String("status", "", "Only show resources with this status (healthy, warning, error, unknown)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	output, err := cmdutil.CheckOutput(output)
	if err != nil {
		return err
	}
	group, _ := cmd.Flags().GetString("group")
	statusFilter, _ := cmd.Flags().GetString("status")
	statusFilter = strings.ToLower(strings.TrimSpace(statusFilter))
	if statusFilter != "" && !domain.Status(statusFilter).Valid() {
		return fmt.Errorf("unknown status %q", statusFilter)
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

	var inv inventory.Inventory
	err = cmdutil.Fetch(cmd, "Listing resources...", func(ctx context.Context) error {
		var err error
		inv, err = a.Inventory.List(ctx, sub)
		return err
	})
	if err != nil {
		return fmt.Errorf("listing resources: %w", err)
	}
	if inv.Notice != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Notice: %s\n", inv.Notice)
	}

	resources := filter(inv.Resources, group, domain.Status(statusFilter))

	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), resources)
	}

	if len(resources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No resources found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tLOCATION\tGROUP\tSTATUS")
	fmt.Fprintln(w, "----\t----\t--------\t-----\t------")
	for _, r := range resources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Name,
			domain.ShortType(r.Type),
			r.Location,
			r.ResourceGroup,
			r.Status,
		)
	}
	w.Flush()
	return nil
}

func filter(resources []domain.Resource, group string, status domain.Status) []domain.Resource {
	if group == "" && status == "" {
		return resources
	}
	out := make([]domain.Resource, 0, len(resources))
	for _, r := range resources {
		if group != "" && !strings.EqualFold(r.ResourceGroup, group) {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out
}
