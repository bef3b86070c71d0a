package snapshot

import (
	"encoding/json"
	"strings"
	"testing"

	"nathanbeddoewebdev/skyglass/cmd/commands/cmdtest"
	"nathanbeddoewebdev/skyglass/internal/dashboard"
	"nathanbeddoewebdev/skyglass/internal/domain"
)

func TestSnapshot_Table(t *testing.T) {
	cmdtest.Setup(t)

	stdout, stderr, err := cmdtest.Exec(t, NewCommand(), "--subscription", "Production-Subscription-001")
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	for _, want := range []string{
		"Subscription: Production-Subscription-001",
		"Total traffic",
		"Resources:    2/3 healthy (sample)",
		"Alerts:       4 total, 3 unresolved, 1 critical",
		"Connections:  2/5 healthy",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}
}

func TestSnapshot_JSON(t *testing.T) {
	cmdtest.Setup(t)

	stdout, _, err := cmdtest.Exec(t, NewCommand(), "-s", "Testing-Subscription-003", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var vm dashboard.ViewModel
	if err := json.Unmarshal([]byte(stdout), &vm); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if vm.Subscription != "Testing-Subscription-003" {
		t.Errorf("subscription = %q", vm.Subscription)
	}
	if len(vm.Resources.Resources) != 3 {
		t.Errorf("resources = %d, want 3", len(vm.Resources.Resources))
	}
}

func TestSnapshot_NoSubscription(t *testing.T) {
	cmdtest.Setup(t)

	_, _, err := cmdtest.Exec(t, NewCommand())
	if err == nil || !strings.Contains(err.Error(), "no subscription specified") {
		t.Fatalf("expected missing subscription error, got %v", err)
	}
}

func TestSnapshot_BadOutput(t *testing.T) {
	cmdtest.Setup(t)

	_, _, err := cmdtest.Exec(t, NewCommand(), "-s", "Production-Subscription-001", "-o", "yaml")
	if err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}

func TestFormatTrend(t *testing.T) {
	tests := []struct {
		in   domain.Trend
		want string
	}{
		{domain.Trend{Direction: domain.TrendPositive, Change: 12.5}, "+12.5%"},
		{domain.Trend{Direction: domain.TrendNegative, Change: -3.26}, "-3.3%"},
		{domain.Trend{Direction: domain.TrendNeutral, Change: 0.4}, "0.4%"},
	}
	for _, tt := range tests {
		if got := FormatTrend(tt.in); got != tt.want {
			t.Errorf("FormatTrend(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
