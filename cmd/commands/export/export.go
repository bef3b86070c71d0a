package export

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/exporter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewCommand returns the "export" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Serve dashboard data as Prometheus metrics",
		Long: `Refresh subscriptions on an interval without a UI and publish resource,
alert, connection and traffic gauges on /metrics.

Every visible subscription is exported unless --subscription is given.

Examples:
  skyglass export
  skyglass export --listen :9464 --interval 30s
  skyglass export --subscription my-project`,
		Args:         cobra.NoArgs,
		RunE:         runExport,
		SilenceUsage: true,
	}

	cmdutil.AddSubscriptionFlag(cmd)
	cmd.Flags().String("listen", ":9464", "Address of the metrics server")
	cmd.Flags().Duration("interval", 0, "Refresh interval (defaults to the refresh-interval setting)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("listen")
	interval, _ := cmd.Flags().GetDuration("interval")

	a, err := app.Load()
	if err != nil {
		return err
	}
	defer a.Close()

	if interval <= 0 {
		interval = a.Config.Refresh()
	}
	subs := a.SubscriptionIDs()
	if sub := cmdutil.Subscription(cmd); sub != "" {
		if _, ok := a.Config.Subscription(sub); !ok {
			return fmt.Errorf("unknown subscription %q", sub)
		}
		subs = []string{sub}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exp := exporter.New(a.Aggregator, subs, exporter.NewMetrics(reg),
		exporter.WithBreakerStates(a.Router.BreakerStates))

	fmt.Fprintf(cmd.OutOrStdout(), "Exporting %d subscription(s) on %s/metrics every %s\n", len(subs), addr, interval)
	log.Info().Str("addr", addr).Dur("interval", interval).Strs("subscriptions", subs).Msg("exporter started")

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return exp.Run(ctx, interval) })
	g.Go(func() error { return exporter.Serve(ctx, addr, reg) })

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
