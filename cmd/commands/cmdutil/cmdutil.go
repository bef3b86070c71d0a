// Package cmdutil holds helpers shared by the command groups.
package cmdutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"nathanbeddoewebdev/skyglass/internal/app"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

const subscriptionFlag = "subscription"

// AddSubscriptionFlag registers the persistent --subscription flag.
func AddSubscriptionFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(subscriptionFlag, "s", "", "Subscription to use (overrides default)")
}

// ResolveSubscription fills --subscription from the configured default
// when the flag was not explicitly passed. It leaves the flag empty when
// no default can be chosen; use RequireSubscription to reject that.
func ResolveSubscription(cmd *cobra.Command, args []string) error {
	flag := cmd.Flag(subscriptionFlag)
	if flag == nil || flag.Changed {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if id := app.DefaultSubscription(cfg); id != "" {
		return flag.Value.Set(id)
	}
	return nil
}

// Subscription returns the resolved --subscription value.
func Subscription(cmd *cobra.Command) string {
	flag := cmd.Flag(subscriptionFlag)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// RequireSubscription returns the resolved subscription or an error
// explaining how to pick one.
func RequireSubscription(cmd *cobra.Command) (string, error) {
	if id := Subscription(cmd); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no subscription specified: use --subscription or set a default with 'skyglass subscription select'")
}

// CheckOutput validates an -o/--output value.
func CheckOutput(output string) (string, error) {
	switch output {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported output format %q", output)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Fetch runs fn behind a spinner when stderr is a terminal, and directly
// otherwise.
func Fetch(cmd *cobra.Command, title string, fn func(ctx context.Context) error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return fn(cmd.Context())
	}
	return tui.WithSpinner(title, fn)
}
