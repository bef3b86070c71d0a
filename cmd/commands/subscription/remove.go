package subscription

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/skyglass/internal/cache"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/inventory"
	"nathanbeddoewebdev/skyglass/internal/services/auth"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func RemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a subscription",
		Long: `Remove a subscription, delete its stored API token and drop its
cached inventory.

Example:
  skyglass subscription remove my-project`,
		Args: cobra.ExactArgs(1),
		RunE: runRemove,
	}

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RemoveSubscription(id); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if err := auth.DefaultStore().DeleteToken(id); err != nil && !errors.Is(err, auth.ErrTokenNotFound) {
		log.Warn().Err(err).Str("subscription", id).Msg("failed to delete token")
	}
	if err := inventory.Forget(cache.NewDefault(), id); err != nil {
		log.Warn().Err(err).Str("subscription", id).Msg("failed to drop cached inventory")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed subscription %s\n", id)
	return nil
}
