package subscription

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"

	"github.com/spf13/cobra"
)

// listEntry is one subscription row in JSON output.
type listEntry struct {
	domain.Subscription
	Default bool   `json:"default"`
	Token   string `json:"token"`
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Long: `List the configured subscriptions and whether an API token is stored.

Examples:
  skyglass subscription list
  skyglass subscription list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	output, err := cmdutil.CheckOutput(output)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := auth.DefaultStore()
	subs := cfg.AllSubscriptions()
	entries := make([]listEntry, len(subs))
	for i, s := range subs {
		entries[i] = listEntry{
			Subscription: s,
			Default:      s.ID == cfg.DefaultSubscription,
			Token:        tokenState(store, s),
		}
	}

	if output == "json" {
		return cmdutil.WriteJSON(cmd.OutOrStdout(), entries)
	}

	if len(cfg.Subscriptions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No subscriptions configured; showing built-in samples.")
		fmt.Fprintln(cmd.OutOrStdout())
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "\tID\tPROVIDER\tNAME\tTOKEN")
	fmt.Fprintln(w, "\t--\t--------\t----\t-----")
	for _, e := range entries {
		marker := ""
		if e.Default {
			marker = "*"
		}
		name := e.DisplayName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, e.ID, e.Provider, name, e.Token)
	}
	w.Flush()
	return nil
}

// tokenState reports "env", "stored", "missing" or "-" for providers
// without tokens.
func tokenState(store auth.Store, sub domain.Subscription) string {
	if sub.Provider == "sample" {
		return "-"
	}
	if v, ok := os.LookupEnv(auth.EnvVar(sub.ID)); ok && strings.TrimSpace(v) != "" {
		return "env"
	}
	_, err := store.GetToken(sub.ID)
	switch {
	case err == nil:
		return "stored"
	case errors.Is(err, auth.ErrTokenNotFound):
		return "missing"
	default:
		return "error"
	}
}
