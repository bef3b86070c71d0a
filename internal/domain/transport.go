package domain

import "context"

// Transport is the cloud collaborator behind the providers. Every method is
// fallible and may block; implementations must honour ctx cancellation.
type Transport interface {
	// Name identifies the backend in logs and notices (e.g. "hetzner").
	Name() string

	// ResourceGroups returns the group names in a subscription.
	ResourceGroups(ctx context.Context, subscriptionID string) ([]string, error)

	// Resources returns raw resource descriptors in provider order.
	Resources(ctx context.Context, subscriptionID string) ([]RawResource, error)

	// Metrics returns time-stamped samples for the named metrics of one
	// resource, oldest first.
	Metrics(ctx context.Context, subscriptionID, resourceID string, names []string) ([]MetricSample, error)
}
