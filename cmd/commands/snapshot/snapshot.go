package snapshot

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/spf13/cobra"
)

// NewCommand returns the "snapshot" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a one-shot dashboard view",
		Long: `Fetch every dashboard section once for a subscription and print it.

Examples:
  skyglass snapshot
  skyglass snapshot --subscription my-project -o json`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: cmdutil.ResolveSubscription,
		RunE:              runSnapshot,
		SilenceUsage:      true,
	}

	cmdutil.AddSubscriptionFlag(cmd)
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
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

	var vm dashboard.ViewModel
	err = cmdutil.Fetch(cmd, "Fetching "+sub+"...", func(ctx context.Context) error {
		vm = a.Aggregator.BuildViewModel(ctx, sub)
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), vm)
	}
	printSnapshot(cmd.OutOrStdout(), vm)
	return nil
}

func printSnapshot(out io.Writer, vm dashboard.ViewModel) {
	fmt.Fprintf(out, "Subscription: %s\n", vm.Subscription)
	fmt.Fprintf(out, "Generated:    %s\n\n", vm.GeneratedAt.Local().Format("2006-01-02 15:04:05"))

	if snap := vm.Metrics; snap != nil && !snap.NoData {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tVALUE\tTREND")
		fmt.Fprintln(w, "------\t-----\t-----")
		fmt.Fprintf(w, "Total traffic\t%.1f GB/h\t%s\n", snap.TotalTraffic, FormatTrend(snap.TrafficTrend))
		fmt.Fprintf(w, "Active connections\t%d\t%s\n", snap.ActiveConnections, FormatTrend(snap.ConnectionsTrend))
		fmt.Fprintf(w, "Error rate\t%.2f%%\t%s\n", snap.ErrorRate, FormatTrend(snap.ErrorRateTrend))
		fmt.Fprintf(w, "Latency\t%.0f ms\t%s\n", snap.Latency, FormatTrend(snap.LatencyTrend))
		w.Flush()
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "No metrics available.")
		fmt.Fprintln(out)
	}

	healthy, total := vm.HealthyResources()
	fmt.Fprintf(out, "Resources:    %d/%d healthy (%s)\n", healthy, total, vm.Resources.Source)
	c := vm.AlertCounts
	fmt.Fprintf(out, "Alerts:       %d total, %d unresolved, %d critical\n", c.Total, c.Unresolved, c.CriticalUnresolved)
	healthy, total = vm.HealthyConnections()
	fmt.Fprintf(out, "Connections:  %d/%d healthy\n", healthy, total)

	if len(vm.Notices) > 0 {
		fmt.Fprintln(out, "\nNotices:")
		for _, n := range vm.Notices {
			fmt.Fprintf(out, "  - %s\n", n)
		}
	}
}

// FormatTrend renders a trend as a signed percentage.
func FormatTrend(t domain.Trend) string {
	if t.Direction == domain.TrendNeutral {
		return fmt.Sprintf("%.1f%%", t.Change)
	}
	return fmt.Sprintf("%+.1f%%", t.Change)
}
