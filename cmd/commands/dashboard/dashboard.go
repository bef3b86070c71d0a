package dashboard

import (
	"fmt"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/tui"

	"github.com/spf13/cobra"
)

// NewCommand returns the "dashboard" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive telemetry dashboard",
		Long: `Open the interactive dashboard: metric cards, traffic chart, connection
status, alerts and the resource inventory for one subscription.

Keys: tab switches panel, j/k move, enter resolves the selected alert,
f toggles resolved alerts, [ and ] switch subscription, r refreshes, q quits.

Examples:
  skyglass
  skyglass dashboard --subscription my-project --interval 10s`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: cmdutil.ResolveSubscription,
		RunE:              Run,
		SilenceUsage:      true,
	}

	cmdutil.AddSubscriptionFlag(cmd)
	AddFlags(cmd)

	return cmd
}

// AddFlags registers the dashboard's own flags on cmd so the root
// command can run the dashboard directly.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("interval", 0, "Refresh interval (defaults to the refresh-interval setting)")
}

// Run starts the dashboard for the resolved subscription. With no
// subscription the dashboard opens with nothing selected.
func Run(cmd *cobra.Command, args []string) error {
	if !cmdutil.Interactive() {
		return fmt.Errorf("the dashboard needs an interactive terminal; use 'skyglass snapshot' instead")
	}

	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = a.Config.Refresh()
	}

	session := dashboard.NewSession()
	if sub := cmdutil.Subscription(cmd); sub != "" {
		if err := session.Select(sub); err != nil {
			return err
		}
	}

	return tui.RunDashboard(tui.DashboardOptions{
		Backend:       a.Aggregator,
		Session:       session,
		Subscriptions: a.Config.AllSubscriptions(),
		Interval:      interval,
	})
}
