package resources

import (
	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// NewCommand returns the "resources" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "resources",
		Short:             "Inspect a subscription's resource inventory",
		Long:              `List the resources and resource groups of a subscription with their derived health status.`,
		PersistentPreRunE: cmdutil.ResolveSubscription,
		SilenceUsage:      true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(GroupsCommand())

	cmdutil.AddSubscriptionFlag(cmd)

	return cmd
}
