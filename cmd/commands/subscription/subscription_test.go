package subscription

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdtest"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func TestList_ShowsSamplesWhenEmpty(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "showing built-in samples") {
		t.Errorf("expected sample note, got:\n%s", stdout)
	}
	for _, s := range domain.SampleSubscriptions {
		if !strings.Contains(stdout, s.ID) {
			t.Errorf("expected %s in output", s.ID)
		}
	}
}

func TestAdd_WithTokenFlag(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "add", "my-project", "--display-name", "My Project", "--token", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Added subscription my-project (hetzner)") {
		t.Errorf("unexpected output: %s", stdout)
	}

	cfg := loadConfig(t)
	want := []domain.Subscription{{ID: "my-project", Provider: "hetzner", DisplayName: "My Project"}}
	if diff := cmp.Diff(want, cfg.Subscriptions); diff != "" {
		t.Errorf("subscriptions mismatch (-want +got):\n%s", diff)
	}
	if cfg.DefaultSubscription != "my-project" {
		t.Errorf("first subscription should become the default, got %q", cfg.DefaultSubscription)
	}

	token, err := auth.DefaultStore().GetToken("my-project")
	if err != nil || token != "secret" {
		t.Errorf("stored token = %q, %v; want secret", token, err)
	}
}

func TestAdd_TokenFromStdin(t *testing.T) {
	cmdtest.Setup(t)

	cmd := NewCommand()
	cmd.SetIn(strings.NewReader("piped-token\n"))
	if _, _, err := cmdtest.Exec(t, cmd, "add", "proj-b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := auth.DefaultStore().GetToken("proj-b")
	if err != nil || token != "piped-token" {
		t.Errorf("stored token = %q, %v; want piped-token", token, err)
	}
}

func TestAdd_Errors(t *testing.T) {
	tests := map[string][]string{
		"missing id":       {"add"},
		"invalid id":       {"add", "-bad", "--token", "x"},
		"unknown provider": {"add", "proj", "--provider", "nimbus", "--token", "x"},
		"empty token":      {"add", "proj"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmdtest.Setup(t)
			cmd := NewCommand()
			cmd.SetIn(strings.NewReader(""))
			if _, _, err := cmdtest.Exec(t, cmd, args...); err == nil {
				t.Fatal("expected an error")
			}
			if len(loadConfig(t).Subscriptions) != 0 {
				t.Error("nothing should be saved on error")
			}
		})
	}
}

func TestAdd_SampleNeedsNoToken(t *testing.T) {
	cmdtest.Setup(t)

	if _, _, err := cmdtest.Exec(t, NewCommand(), "add", "demo", "--provider", "sample"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := auth.DefaultStore().GetToken("demo"); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("sample subscriptions should not store a token, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	cmdtest.Setup(t)

	if _, _, err := cmdtest.Exec(t, NewCommand(), "add", "proj", "--token", "x"); err != nil {
		t.Fatalf("add: %v", err)
	}
	stdout, _, err := cmdtest.Exec(t, NewCommand(), "remove", "proj")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(stdout, "Removed subscription proj") {
		t.Errorf("unexpected output: %s", stdout)
	}

	cfg := loadConfig(t)
	if len(cfg.Subscriptions) != 0 || cfg.DefaultSubscription != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
	if _, err := auth.DefaultStore().GetToken("proj"); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Errorf("token should be deleted, got %v", err)
	}

	if _, _, err := cmdtest.Exec(t, NewCommand(), "remove", "proj"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "select", "Development-Subscription-002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Development-Subscription-002") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if got := loadConfig(t).DefaultSubscription; got != "Development-Subscription-002" {
		t.Errorf("DefaultSubscription = %q", got)
	}

	if _, _, err := cmdtest.Exec(t, NewCommand(), "select", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_JSONMarksDefaultAndToken(t *testing.T) {
	cmdtest.Setup(t)

	if _, _, err := cmdtest.Exec(t, NewCommand(), "add", "proj", "--token", "x"); err != nil {
		t.Fatalf("add: %v", err)
	}
	cfg := loadConfig(t)
	cfg.Subscriptions = append(cfg.Subscriptions, domain.Subscription{ID: "other", Provider: "hetzner"})
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "list", "-o", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []listEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := []listEntry{
		{Subscription: domain.Subscription{ID: "proj", Provider: "hetzner"}, Default: true, Token: "stored"},
		{Subscription: domain.Subscription{ID: "other", Provider: "hetzner"}, Token: "missing"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestList_EnvTokenReported(t *testing.T) {
	cmdtest.Setup(t)

	cfg := loadConfig(t)
	cfg.Subscriptions = []domain.Subscription{{ID: "ci-proj", Provider: "hetzner"}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	t.Setenv(auth.EnvVar("ci-proj"), "from-env")

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "list", "-o", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []listEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Token != "env" {
		t.Errorf("expected env token state, got %+v", got)
	}
}
