package alerts

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/spf13/cobra"
)

func ResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark an alert as resolved",
		Long: `Mark an alert as resolved. Resolving an already resolved alert is a no-op.

Example:
  skyglass alerts resolve 1`,
		Args: cobra.ExactArgs(1),
		RunE: runResolve,
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return fmt.Errorf("alert ID is required")
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

	if _, err := buildViewModel(cmd, a, sub); err != nil {
		return err
	}

	if err := a.Aggregator.Resolve(sub, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("alert %q not found in subscription %s", id, sub)
		}
		return err
	}

	counts := a.Aggregator.Feed(sub).Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "Resolved alert %s (%d unresolved, %d critical remaining)\n",
		id, counts.Unresolved, counts.CriticalUnresolved)
	return nil
}
