package subscription

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdutil"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/providers"
	"nathanbeddoewebdev/skyglass/internal/services/auth"
	"nathanbeddoewebdev/skyglass/internal/tui"
	"nathanbeddoewebdev/skyglass/internal/util"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [id]",
		Short: "Add a subscription",
		Long: `Add a subscription and store its API token in the OS keychain.

Without an ID in an interactive terminal, a form asks for every field.
Otherwise the token is taken from --token, a hidden prompt, or the first
line of stdin when stdin is not a terminal. Where no keychain is
available, SKYGLASS_TOKEN_<ID> (ID upper-cased, other characters as _)
supplies the token at run time instead.

Examples:
  skyglass subscription add
  skyglass subscription add my-project --provider hetzner
  echo "$HCLOUD_TOKEN" | skyglass subscription add my-project`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().String("provider", "hetzner", "Cloud provider of the subscription")
	cmd.Flags().String("display-name", "", "Human-friendly name shown in the dashboard")
	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	providerName, _ := cmd.Flags().GetString("provider")
	displayName, _ := cmd.Flags().GetString("display-name")
	token, _ := cmd.Flags().GetString("token")

	in := tui.SubscriptionInput{
		Provider:    util.ProviderName(providerName),
		DisplayName: strings.TrimSpace(displayName),
		Token:       strings.TrimSpace(token),
	}
	if len(args) == 1 {
		in.ID = strings.TrimSpace(args[0])
	}

	if in.ID == "" {
		if !cmdutil.Interactive() {
			return fmt.Errorf("subscription ID is required")
		}
		filled, err := tui.SubscriptionForm(providers.List(), in)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			return err
		}
		in = *filled
	}

	if err := util.ValidateSubscriptionID(in.ID); err != nil {
		return err
	}
	if !providers.Registered(in.Provider) {
		return fmt.Errorf("unknown provider %q (registered: %s)", in.Provider, strings.Join(providers.List(), ", "))
	}

	if in.NeedsToken() && in.Token == "" {
		t, err := readToken(cmd)
		if err != nil {
			return err
		}
		in.Token = t
	}
	if in.NeedsToken() && in.Token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sub := domain.Subscription{ID: in.ID, Provider: in.Provider, DisplayName: in.DisplayName}
	if err := cfg.AddSubscription(sub); err != nil {
		return err
	}
	if cfg.DefaultSubscription == "" {
		cfg.DefaultSubscription = sub.ID
	}

	if in.NeedsToken() {
		if err := auth.DefaultStore().SetToken(sub.ID, in.Token); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added subscription %s (%s)\n", sub.ID, sub.Provider)
	return nil
}

// readToken prompts without echo on a terminal and reads one line from
// the command's input otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Enter API token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
