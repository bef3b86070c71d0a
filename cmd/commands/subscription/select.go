package subscription

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/tui"

	"github.com/spf13/cobra"
)

func SelectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [id]",
		Short: "Set the default subscription",
		Long: `Set the subscription used when --subscription is not given.

Without an ID in an interactive terminal, a picker lists every subscription.

Examples:
  skyglass subscription select
  skyglass subscription select Production-Subscription-001`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSelect,
	}

	return cmd
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var id string
	if len(args) == 1 {
		id = strings.TrimSpace(args[0])
	} else {
		if !cmdutil.Interactive() {
			return fmt.Errorf("subscription ID is required")
		}
		id, err = tui.PickSubscription(cfg.AllSubscriptions(), cfg.DefaultSubscription)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			return err
		}
	}

	sub, ok := cfg.Subscription(id)
	if !ok {
		return fmt.Errorf("subscription %q: %w", id, domain.ErrNotFound)
	}
	cfg.DefaultSubscription = sub.ID
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Default subscription set to %s\n", sub.Label())
	return nil
}
