package alerts

import (
	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// NewCommand returns the "alerts" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "View and resolve alerts",
		Long: "List a subscription's alerts, resolve them and manage the resolution history.\n\n" +
			"Resolutions are stored locally in ~/.config/skyglass/state.db, so a\n" +
			"resolved alert stays resolved across runs.",
		PersistentPreRunE: cmdutil.ResolveSubscription,
		SilenceUsage:      true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ResolveCommand())
	cmd.AddCommand(HistoryCommand())
	cmd.AddCommand(PruneCommand())

	cmdutil.AddSubscriptionFlag(cmd)

	return cmd
}
