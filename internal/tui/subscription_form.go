package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/util"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// SubscriptionInput is what the add-subscription form collects.
type SubscriptionInput struct {
	ID          string
	Provider    string
	DisplayName string
	Token       string
}

// NeedsToken reports whether the provider authenticates with an API token.
func (in SubscriptionInput) NeedsToken() bool {
	return in.Provider != "" && in.Provider != "sample"
}

// SubscriptionForm asks for a new subscription's ID, provider, display
// name and, for real providers, its API token. Fields already set in
// prefill are offered as defaults.
func SubscriptionForm(providerNames []string, prefill SubscriptionInput) (*SubscriptionInput, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""
	in := prefill

	providerOpts := buildProviderOptions(providerNames, in.Provider)
	if len(providerOpts) == 0 {
		return nil, fmt.Errorf("no providers registered")
	}

	idField := huh.NewInput().
		Title("Subscription ID").
		Description("Hetzner project name or any identifier you like").
		Value(&in.ID).
		Validate(func(value string) error {
			return util.ValidateSubscriptionID(strings.TrimSpace(value))
		})

	providerField := huh.NewSelect[string]().
		Title("Provider").
		Options(providerOpts...).
		Value(&in.Provider).
		Height(selectHeight(len(providerOpts), 8))

	nameField := huh.NewInput().
		Title("Display name").
		Description("Optional").
		Value(&in.DisplayName)

	tokenField := huh.NewInput().
		Title("API token").
		EchoMode(huh.EchoModePassword).
		Value(&in.Token).
		Validate(func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("token cannot be empty")
			}
			return nil
		})

	var confirmed bool
	confirmField := huh.NewConfirm().
		TitleFunc(func() string { return "Add " + strings.TrimSpace(in.ID) + "?" }, &in.ID).
		Affirmative("Add").
		Negative("Cancel").
		Value(&confirmed)

	if err := runForm(accessible,
		huh.NewGroup(idField, providerField, nameField),
		huh.NewGroup(tokenField).WithHideFunc(func() bool { return !in.NeedsToken() }),
		huh.NewGroup(confirmField),
	); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrAborted
	}

	in.ID = strings.TrimSpace(in.ID)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Token = strings.TrimSpace(in.Token)
	return &in, nil
}

// PickSubscription lets the user choose one of subs. The current
// selection, if any, is preselected.
func PickSubscription(subs []domain.Subscription, current string) (string, error) {
	if len(subs) == 0 {
		return "", fmt.Errorf("no subscriptions configured")
	}

	selected := current
	options := buildSubscriptionOptions(subs, current)
	field := huh.NewSelect[string]().
		Title("Subscription").
		Options(options...).
		Value(&selected).
		Height(selectHeight(len(options), 12))

	if err := runForm(os.Getenv("ACCESSIBLE") != "", huh.NewGroup(field)); err != nil {
		return "", err
	}
	return selected, nil
}

// WithSpinner runs fn while showing a spinner on stderr.
func WithSpinner(title string, fn func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(os.Stderr).
		ActionWithErr(fn).
		Run()
	if err != nil && (errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled)) {
		return ErrAborted
	}
	return err
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// --- Option builders ---

func buildProviderOptions(names []string, selected string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(providerLabel(name), name).Selected(name == selected))
	}
	return options
}

func providerLabel(name string) string {
	switch name {
	case "hetzner":
		return "Hetzner Cloud"
	case "sample":
		return "Sample data (no credentials)"
	default:
		return name
	}
}

func buildSubscriptionOptions(subs []domain.Subscription, current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(subs))
	for _, s := range subs {
		label := s.Label()
		if label != s.ID {
			label += " (" + s.ID + ")"
		}
		if s.Provider != "" {
			label += " - " + s.Provider
		}
		if s.ID == current {
			label += " *"
		}
		options = append(options, huh.NewOption(label, s.ID))
	}
	return options
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
