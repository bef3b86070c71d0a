package alerts

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/alerts"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/dashboard"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		Long: `List the subscription's alerts, newest first. Resolved alerts are hidden
unless --all is given.

Examples:
  skyglass alerts list
  skyglass alerts list --all
  skyglass alerts list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().Bool("all", false, "Include resolved alerts")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	output, err := cmdutil.CheckOutput(output)
	if err != nil {
		return err
	}
	filter := alerts.FilterUnresolved
	if all, _ := cmd.Flags().GetBool("all"); all {
		filter = alerts.FilterAll
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

	vm, err := buildViewModel(cmd, a, sub)
	if err != nil {
		return err
	}
	printNotices(cmd.ErrOrStderr(), vm)

	visible := vm.VisibleAlerts(filter)
	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), visible)
	}

	c := vm.AlertCounts
	fmt.Fprintf(cmd.OutOrStdout(), "%d total, %d unresolved, %d critical\n\n", c.Total, c.Unresolved, c.CriticalUnresolved)
	if len(visible) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No alerts found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEVERITY\tTITLE\tRESOURCE\tTIME\tRESOLVED")
	fmt.Fprintln(w, "--\t--------\t-----\t--------\t----\t--------")
	for _, alert := range visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			alert.ID,
			alert.Severity,
			alert.Title,
			orDash(alert.Resource),
			alert.Timestamp.Local().Format("2006-01-02 15:04"),
			yesNo(alert.Resolved),
		)
	}
	w.Flush()
	return nil
}

// buildViewModel fetches the current alert batch so the feed knows every
// alert the source reports.
func buildViewModel(cmd *cobra.Command, a *app.App, sub string) (dashboard.ViewModel, error) {
	var vm dashboard.ViewModel
	err := cmdutil.Fetch(cmd, "Fetching alerts...", func(ctx context.Context) error {
		vm = a.Aggregator.BuildViewModel(ctx, sub)
		return ctx.Err()
	})
	return vm, err
}

func printNotices(w io.Writer, vm dashboard.ViewModel) {
	for _, n := range vm.Notices {
		fmt.Fprintf(w, "Notice: %s\n", n)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
