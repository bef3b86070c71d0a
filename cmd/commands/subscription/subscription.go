package subscription

import "github.com/spf13/cobra"

// NewCommand returns the "subscription" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Manage subscriptions",
		Long: "Add, remove and select the subscriptions skyglass monitors.\n\n" +
			"A subscription is a cloud project (for Hetzner, one API token). When none\n" +
			"are configured, three sample subscriptions backed by built-in data are\n" +
			"offered instead. API tokens are kept in the OS keychain.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(AddCommand())
	cmd.AddCommand(RemoveCommand())
	cmd.AddCommand(SelectCommand())

	return cmd
}
