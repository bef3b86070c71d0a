package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"nathanbeddoewebdev/skyglass/cmd/commands/alerts"
	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	cfgcmd "nathanbeddoewebdev/skyglass/cmd/commands/config"
	"nathanbeddoewebdev/skyglass/cmd/commands/dashboard"
	"nathanbeddoewebdev/skyglass/cmd/commands/export"
	"nathanbeddoewebdev/skyglass/cmd/commands/resources"
	"nathanbeddoewebdev/skyglass/cmd/commands/snapshot"
	"nathanbeddoewebdev/skyglass/cmd/commands/subscription"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/logging"
	"nathanbeddoewebdev/skyglass/internal/providers"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

// cli holds state that outlives a single command run.
type cli struct {
	logCloser io.Closer
}

// rootCmd represents the base command. Without a subcommand it opens the
// dashboard.
func (c *cli) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "skyglass",
		Version: version,
		Short:   "A terminal dashboard for cloud resource telemetry",
		Long: `skyglass shows traffic metrics, connection status, alerts and the resource
inventory of a cloud subscription in your terminal.

When no subscription is configured it runs against built-in sample data,
so you can try it right away.

Quick start:
  skyglass                                   # Open the dashboard
  skyglass subscription add my-project       # Add a Hetzner project
  skyglass snapshot -o json                  # One-shot view for scripts
  skyglass export --listen :9464             # Prometheus exporter`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			closer, err := setup(debug)
			if err != nil {
				return err
			}
			c.logCloser = closer

			if cmd == cmd.Root() {
				return cmdutil.ResolveSubscription(cmd, args)
			}
			return nil
		},
		RunE:         dashboard.Run,
		SilenceUsage: true,
	}

	cmdutil.AddSubscriptionFlag(cmd)
	dashboard.AddFlags(cmd)
	cmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr instead of the log file")

	cmd.AddCommand(alerts.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(dashboard.NewCommand())
	cmd.AddCommand(export.NewCommand())
	cmd.AddCommand(resources.NewCommand())
	cmd.AddCommand(snapshot.NewCommand())
	cmd.AddCommand(subscription.NewCommand())

	return cmd
}

func (c *cli) close() {
	if c.logCloser != nil {
		c.logCloser.Close()
	}
}

// setup configures logging and registers the built-in providers from the
// saved configuration.
func setup(debug bool) (io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	closer, err := logging.Setup(logging.Options{Debug: debug, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	providers.Reset()
	providers.RegisterDefaults(providers.WithProbePort(cfg.Port()))
	log.Debug().Strs("providers", providers.List()).Msg("providers registered")
	return closer, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableTraverseRunHooks = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := &cli{}
	err := c.rootCmd().ExecuteContext(ctx)
	stop()
	c.close()

	if err != nil {
		os.Exit(1)
	}
}
