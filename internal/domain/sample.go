package domain

import "time"

// Built-in sample data. It backs the "sample" provider and is the last
// fallback when a live fetch fails and nothing is cached.

// SampleSubscriptions are offered when no subscription is configured.
var SampleSubscriptions = []Subscription{
	{ID: "Production-Subscription-001", Provider: "sample"},
	{ID: "Development-Subscription-002", Provider: "sample"},
	{ID: "Testing-Subscription-003", Provider: "sample"},
}

// SampleResourceGroups returns the fallback group names.
func SampleResourceGroups() []string {
	return []string{"production-rg", "development-rg", "testing-rg"}
}

// SampleResources returns the fallback inventory. A fresh slice is returned
// on every call so callers may keep it.
func SampleResources() []Resource {
	return []Resource{
		{
			ID:            "/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Sql/servers/proddb",
			Name:          "Production Database",
			Type:          "Microsoft.Sql/servers",
			Location:      "East US",
			ResourceGroup: "production-rg",
			Status:        StatusHealthy,
		},
		{
			ID:            "/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Network/applicationGateways/prod-gateway",
			Name:          "Production Gateway",
			Type:          "Microsoft.Network/applicationGateways",
			Location:      "East US",
			ResourceGroup: "production-rg",
			Status:        StatusHealthy,
		},
		{
			ID:            "/subscriptions/mock/resourceGroups/production-rg/providers/Microsoft.Cache/Redis/prod-cache",
			Name:          "Production Cache",
			Type:          "Microsoft.Cache/Redis",
			Location:      "East US",
			ResourceGroup: "production-rg",
			Status:        StatusWarning,
		},
	}
}

// SampleAlerts returns the four demo alerts with timestamps relative to now.
func SampleAlerts(now time.Time) []Alert {
	return []Alert{
		{
			ID:          "1",
			Title:       "High CPU Usage",
			Description: "CPU usage has exceeded 85% for the last 15 minutes",
			Severity:    SeverityWarning,
			Timestamp:   now.Add(-10 * time.Minute),
			Resource:    "Production Database",
		},
		{
			ID:          "2",
			Title:       "Connection Timeout",
			Description: "Multiple connection timeouts detected on Application Gateway",
			Severity:    SeverityCritical,
			Timestamp:   now.Add(-25 * time.Minute),
			Resource:    "Production Gateway",
		},
		{
			ID:          "3",
			Title:       "Storage Quota Warning",
			Description: "Storage account usage is at 90% capacity",
			Severity:    SeverityWarning,
			Timestamp:   now.Add(-2 * time.Hour),
			Resource:    "Storage Account",
			Resolved:    true,
		},
		{
			ID:          "4",
			Title:       "Network Latency Spike",
			Description: "Unusual network latency detected between regions",
			Severity:    SeverityInfo,
			Timestamp:   now.Add(-30 * time.Minute),
			Resource:    "Virtual Network",
		},
	}
}

// SampleConnections returns the demo connection panel.
func SampleConnections(now time.Time) []ConnectionCheck {
	return []ConnectionCheck{
		{ID: "1", Name: "Azure SQL Database", Type: "Database", State: ConnectionHealthy, Latency: 45 * time.Millisecond, LastChecked: now.Add(-2 * time.Minute)},
		{ID: "2", Name: "Application Gateway", Type: "Load Balancer", State: ConnectionHealthy, Latency: 28 * time.Millisecond, LastChecked: now.Add(-1 * time.Minute)},
		{ID: "3", Name: "Redis Cache", Type: "Cache", State: ConnectionWarning, Latency: 120 * time.Millisecond, LastChecked: now.Add(-3 * time.Minute)},
		{ID: "4", Name: "Storage Account", Type: "Storage", State: ConnectionError, LastChecked: now.Add(-5 * time.Minute)},
		{ID: "5", Name: "Service Bus", Type: "Messaging", State: ConnectionChecking},
	}
}
