package alerts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/skyglass/internal/alerthistory"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete alert resolutions older than a duration",
		Long: `Delete alert resolutions older than a duration. A pruned alert shows as
unresolved again if its source still reports it.

Examples:
  skyglass alerts prune --older-than 30d
  skyglass alerts prune --older-than 72h`,
		Args: cobra.NoArgs,
		RunE: runPrune,
	}

	cmd.Flags().String("older-than", "", "Remove resolutions older than this duration (e.g. 30d, 72h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	olderThanRaw, _ := cmd.Flags().GetString("older-than")
	olderThanRaw = strings.TrimSpace(olderThanRaw)
	if olderThanRaw == "" {
		return fmt.Errorf("--older-than is required")
	}

	olderThan, err := parseDuration(olderThanRaw)
	if err != nil {
		return err
	}

	repo, err := alerthistory.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d resolution(s).\n", removed)
	return nil
}

// parseDuration accepts Go durations plus a whole-day "d" suffix.
func parseDuration(input string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(input, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		if n < 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", input)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
