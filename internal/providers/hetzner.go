package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/services/auth"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

const (
	hetznerServerType = "hetzner/server"
	hetznerVolumeType = "hetzner/volume"

	// groupLabel is the resource label used as the owning group.
	groupLabel   = "group"
	defaultGroup = "default"
)

// HetznerTransport implements domain.Transport using the Hetzner Cloud
// API. A Hetzner project is one subscription: the client's token already
// scopes every request, so the subscription ID is only used for errors.
type HetznerTransport struct {
	client     *hcloud.Client
	clientOpts []hcloud.ClientOption
	probePort  int
	window     time.Duration
	now        func() time.Time
}

// HetznerOption configures a HetznerTransport.
type HetznerOption func(*HetznerTransport)

// WithProbePort sets the port appended to server addresses for connection
// checks. Zero disables endpoints.
func WithProbePort(port int) HetznerOption {
	return func(h *HetznerTransport) { h.probePort = port }
}

// WithMetricsWindow sets how far back Metrics looks. Defaults to one hour.
func WithMetricsWindow(d time.Duration) HetznerOption {
	return func(h *HetznerTransport) { h.window = d }
}

// WithClientOptions passes options through to the hcloud client.
func WithClientOptions(opts ...hcloud.ClientOption) HetznerOption {
	return func(h *HetznerTransport) {
		h.clientOpts = append(h.clientOpts, opts...)
	}
}

// NewHetznerTransport creates a transport authenticated with token. Default
// client options (application name, token) are applied first; callers can
// override them with WithClientOptions.
func NewHetznerTransport(token string, opts ...HetznerOption) *HetznerTransport {
	h := &HetznerTransport{
		clientOpts: []hcloud.ClientOption{
			hcloud.WithApplication("skyglass", "0.1.0"),
			hcloud.WithToken(token),
		},
		probePort: 22,
		window:    time.Hour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.client = hcloud.NewClient(h.clientOpts...)
	return h
}

// RegisterHetzner registers the Hetzner transport factory with the global
// registry. Tokens are stored in the keyring under the subscription ID.
func RegisterHetzner(opts ...HetznerOption) {
	Register("hetzner", func(sub domain.Subscription, store auth.Store) (domain.Transport, error) {
		token, err := store.GetToken(sub.ID)
		if err != nil {
			return nil, fmt.Errorf("hetzner auth for %q: %w", sub.ID, err)
		}
		return NewHetznerTransport(token, opts...), nil
	})
}

func (h *HetznerTransport) Name() string { return "hetzner" }

// ResourceGroups returns the distinct "group" label values across servers
// and volumes, in first-seen order.
func (h *HetznerTransport) ResourceGroups(ctx context.Context, subscriptionID string) ([]string, error) {
	resources, err := h.Resources(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var groups []string
	for _, r := range resources {
		if !seen[r.ResourceGroup] {
			seen[r.ResourceGroup] = true
			groups = append(groups, r.ResourceGroup)
		}
	}
	return groups, nil
}

// Resources lists servers followed by volumes.
func (h *HetznerTransport) Resources(ctx context.Context, subscriptionID string) ([]domain.RawResource, error) {
	servers, err := h.client.Server.All(ctx)
	if err != nil {
		return nil, mapHetznerError("list servers", subscriptionID, err)
	}
	volumes, err := h.client.Volume.All(ctx)
	if err != nil {
		return nil, mapHetznerError("list volumes", subscriptionID, err)
	}

	out := make([]domain.RawResource, 0, len(servers)+len(volumes))
	for _, s := range servers {
		out = append(out, h.serverResource(s))
	}
	for _, v := range volumes {
		out = append(out, volumeResource(v))
	}
	return out, nil
}

// serverResource converts an hcloud.Server to a raw descriptor. The
// provisioning status is the health signal.
func (h *HetznerTransport) serverResource(s *hcloud.Server) domain.RawResource {
	r := domain.RawResource{
		ID:            "servers/" + strconv.FormatInt(s.ID, 10),
		Name:          s.Name,
		Type:          hetznerServerType,
		ResourceGroup: groupOf(s.Labels),
		Signal:        domain.Signal(s.Status),
	}

	switch {
	case s.Location != nil:
		r.Location = locationName(s.Location)
	case s.Datacenter != nil && s.Datacenter.Location != nil:
		r.Location = locationName(s.Datacenter.Location)
	}

	if h.probePort > 0 && !s.PublicNet.IPv4.IsUnspecified() {
		r.Endpoint = net.JoinHostPort(s.PublicNet.IPv4.IP.String(), strconv.Itoa(h.probePort))
	}

	return r
}

func volumeResource(v *hcloud.Volume) domain.RawResource {
	r := domain.RawResource{
		ID:            "volumes/" + strconv.FormatInt(v.ID, 10),
		Name:          v.Name,
		Type:          hetznerVolumeType,
		ResourceGroup: groupOf(v.Labels),
		Signal:        domain.Signal(v.Status),
	}
	if v.Location != nil {
		r.Location = locationName(v.Location)
	}
	return r
}

func locationName(l *hcloud.Location) string {
	if l.City != "" {
		return l.City
	}
	return l.Name
}

func groupOf(labels map[string]string) string {
	if g := strings.TrimSpace(labels[groupLabel]); g != "" {
		return g
	}
	return defaultGroup
}

// mapHetznerError translates hcloud API errors into domain errors wrapped
// in a *domain.FetchError.
func mapHetznerError(op, subscriptionID string, err error) error {
	fe := &domain.FetchError{Op: op, Subscription: subscriptionID, Err: err}
	switch {
	case hcloud.IsError(err, hcloud.ErrorCodeUnauthorized):
		fe.Err = fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	case hcloud.IsError(err, hcloud.ErrorCodeNotFound):
		fe.Err = fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case hcloud.IsError(err, hcloud.ErrorCodeRateLimitExceeded):
		fe.Err = fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		fe.Transient = true
	case hcloud.IsError(err, hcloud.ErrorCodeServiceError),
		hcloud.IsError(err, hcloud.ErrorCodeMaintenance):
		fe.Transient = true
	default:
		// Anything that is not an API error (DNS, refused connection,
		// timeout) may succeed on a later attempt.
		var apiErr hcloud.Error
		fe.Transient = !errors.As(err, &apiErr)
	}
	return fe
}
