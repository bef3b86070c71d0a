package resources

import (
	"encoding/json"
	"strings"
	"testing"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdtest"
	"nathanbeddoewebdev/skyglass/internal/config"
	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/google/go-cmp/cmp"
)

const sampleSub = "Production-Subscription-001"

func TestList_Table(t *testing.T) {
	cmdtest.Setup(t)

	stdout, stderr, err := cmdtest.Exec(t, NewCommand(), "list", "-s", sampleSub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header, separator and 3 rows, got %d lines:\n%s", len(lines), stdout)
	}
	for _, want := range []string{"Production Database", "servers", "applicationGateways", "Redis", "warning"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestList_FilterByStatus(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "list", "-s", sampleSub, "--status", "warning", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []domain.Resource
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Production Cache" {
		t.Errorf("expected only Production Cache, got %+v", got)
	}
}

func TestList_InvalidStatus(t *testing.T) {
	cmdtest.Setup(t)

	_, _, err := cmdtest.Exec(t, NewCommand(), "list", "-s", sampleSub, "--status", "sleepy")
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestList_FallbackPrintsNotice(t *testing.T) {
	cmdtest.Setup(t)
	cfg := &config.Config{Subscriptions: []domain.Subscription{{ID: "proj", Provider: "hetzner"}}}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stdout, stderr, err := cmdtest.Exec(t, NewCommand(), "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Notice: Showing sample") {
		t.Errorf("expected sample notice on stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Production Gateway") {
		t.Errorf("expected sample resources in output:\n%s", stdout)
	}
}

func TestGroups(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "groups", "-s", sampleSub, "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if diff := cmp.Diff(domain.SampleResourceGroups(), got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}
