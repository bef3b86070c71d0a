package domain

import "testing"

func TestResourceGroupFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Sql/servers/proddb", "production-rg"},
		{"/subscriptions/x/resourceGroups/dev-rg", "dev-rg"},
		{"servers/42", "Unknown"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := ResourceGroupFromID(tt.id); got != tt.want {
			t.Errorf("ResourceGroupFromID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestShortType(t *testing.T) {
	if got := ShortType("Microsoft.Network/applicationGateways"); got != "applicationGateways" {
		t.Errorf("got %q", got)
	}
	if got := ShortType("server"); got != "server" {
		t.Errorf("got %q", got)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := map[string]Category{
		"Microsoft.Sql/servers":                 CategoryDatabase,
		"Microsoft.Network/applicationGateways": CategoryNetwork,
		"Microsoft.Storage/storageAccounts":     CategoryStorage,
		"Microsoft.ServiceBus/namespaces":       CategoryMessaging,
		"Microsoft.Security/pricings":           CategorySecurity,
		"Microsoft.Cache/Redis":                 CategoryGeneric,
		"hetzner/volume":                        CategoryStorage,
	}
	for typ, want := range tests {
		if got := CategoryOf(typ); got != want {
			t.Errorf("CategoryOf(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusHealthy, StatusWarning, StatusError, StatusUnknown} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("degraded").Valid() {
		t.Error("unexpected valid status")
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]Resource{
		{Status: StatusHealthy}, {Status: StatusHealthy}, {Status: StatusWarning},
	})
	if counts[StatusHealthy] != 2 || counts[StatusWarning] != 1 || counts[StatusError] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestSampleResources_IDs(t *testing.T) {
	want := []string{
		"/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Sql/servers/proddb",
		"/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Network/applicationGateways/prod-gateway",
		"/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Cache/Redis/prod-cache",
	}
	got := SampleResources()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, r := range got {
		if r.ID != want[i] {
			t.Errorf("resource %d ID = %q, want %q", i, r.ID, want[i])
		}
		if g := ResourceGroupFromID(r.ID); g != r.ResourceGroup {
			t.Errorf("resource %d group from ID = %q, want %q", i, g, r.ResourceGroup)
		}
	}
}
