package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"
	"nathanbeddoewebdev/skyglass/internal/status"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Store persists the last successful result per key. *cache.Cache
// satisfies it.
type Store interface {
	Get(key string, maxAge time.Duration, dest any) (time.Time, bool, error)
	Set(key string, data any) error
}

// DefaultFetchTimeout bounds one shared transport fetch.
const DefaultFetchTimeout = 30 * time.Second

// Provider lists resources through a Transport and derives each status
// with a Resolver.
type Provider struct {
	transport domain.Transport
	resolver  status.Resolver
	store     Store
	fallback  bool
	now       func() time.Time

	fetchTimeout time.Duration

	flights singleflight.Group

	mu      sync.Mutex
	started map[string]time.Time // start time of the newest stored fetch
}

// Option configures a Provider.
type Option func(*Provider)

// WithResolver sets the status resolver. Defaults to
// status.ProvisioningResolver.
func WithResolver(r status.Resolver) Option {
	return func(p *Provider) { p.resolver = r }
}

// WithStore sets the last-known-good store. Without one, failures fall
// straight through to sample data.
func WithStore(s Store) Option {
	return func(p *Provider) { p.store = s }
}

// FallbackOnFetchError controls whether a failed fetch is replaced by
// cached or sample data (true, the default) or returned to the caller.
func FallbackOnFetchError(enabled bool) Option {
	return func(p *Provider) { p.fallback = enabled }
}

// WithFetchTimeout bounds a shared fetch. A fetch that runs out of time
// is treated as a failed fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.fetchTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider returns an inventory provider backed by transport.
func NewProvider(transport domain.Transport, opts ...Option) *Provider {
	p := &Provider{
		transport: transport,
		resolver:  status.ProvisioningResolver{},
		fallback:  true,
		now:       time.Now,
		started:   make(map[string]time.Time),

		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func resourcesKey(subscriptionID string) string { return "inventory-" + subscriptionID }
func groupsKey(subscriptionID string) string    { return "groups-" + subscriptionID }

// Deleter removes stored entries. *cache.Cache satisfies it.
type Deleter interface {
	Delete(keys ...string) error
}

// Forget drops the last-known-good data kept for a subscription.
func Forget(store Deleter, subscriptionID string) error {
	return store.Delete(resourcesKey(subscriptionID), groupsKey(subscriptionID))
}

// List returns the subscription's resources in the transport's order.
//
// Concurrent calls for the same subscription share one fetch. On failure,
// with fallback enabled, the last-known-good set for the subscription is
// returned, or the built-in sample set when nothing is cached; the result
// carries a Notice and a non-live Source. With fallback disabled the
// *domain.FetchError is returned.
func (p *Provider) List(ctx context.Context, subscriptionID string) (Inventory, error) {
	if subscriptionID == "" {
		return Inventory{}, fmt.Errorf("inventory: %w", domain.ErrInvalidSelection)
	}

	if err := ctx.Err(); err != nil {
		return Inventory{}, err
	}

	// The shared fetch outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := p.flights.DoChan(resourcesKey(subscriptionID), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.fetchTimeout)
		defer cancel()
		return p.fetch(fctx, subscriptionID)
	})

	select {
	case <-ctx.Done():
		return Inventory{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			log.Debug().Str("subscription", subscriptionID).Msg("inventory fetch shared with concurrent caller")
		}
		if res.Err != nil {
			return Inventory{}, res.Err
		}
		return res.Val.(Inventory), nil
	}
}

func (p *Provider) fetch(ctx context.Context, subscriptionID string) (Inventory, error) {
	started := p.now()

	raw, err := p.transport.Resources(ctx, subscriptionID)
	if err == nil {
		inv := Inventory{
			Subscription: subscriptionID,
			Resources:    p.resolve(raw),
			Source:       SourceLive,
			AsOf:         started,
		}
		p.remember(subscriptionID, started, inv.Resources)
		return inv, nil
	}

	if !domain.IsFetchError(err) {
		err = &domain.FetchError{Op: "list resources", Subscription: subscriptionID, Err: err}
	}
	if !p.fallback {
		return Inventory{}, err
	}

	log.Warn().Err(err).Str("subscription", subscriptionID).Msg("inventory fetch failed, serving fallback")

	var cached []domain.Resource
	if p.store != nil {
		storedAt, hit, cacheErr := p.store.Get(resourcesKey(subscriptionID), 0, &cached)
		if cacheErr != nil {
			log.Debug().Err(cacheErr).Str("subscription", subscriptionID).Msg("inventory cache read failed")
		}
		if hit {
			return Inventory{
				Subscription: subscriptionID,
				Resources:    cached,
				Source:       SourceCached,
				Notice:       fmt.Sprintf("Showing resources cached at %s: %s", storedAt.Local().Format("2006-01-02 15:04"), domain.Cause(err)),
				AsOf:         storedAt,
			}, nil
		}
	}

	return Inventory{
		Subscription: subscriptionID,
		Resources:    domain.SampleResources(),
		Source:       SourceSample,
		Notice:       "Showing sample resources: " + domain.Cause(err),
		AsOf:         p.now(),
	}, nil
}

func (p *Provider) resolve(raw []domain.RawResource) []domain.Resource {
	out := make([]domain.Resource, 0, len(raw))
	for _, r := range raw {
		group := r.ResourceGroup
		if group == "" {
			group = domain.ResourceGroupFromID(r.ID)
		}
		out = append(out, domain.Resource{
			ID:            r.ID,
			Name:          r.Name,
			Type:          r.Type,
			Location:      r.Location,
			ResourceGroup: group,
			Status:        p.resolver.Resolve(r.Signal),
			Endpoint:      r.Endpoint,
		})
	}
	return out
}

// remember stores a successful result unless a fetch that started later
// has already been stored.
func (p *Provider) remember(subscriptionID string, started time.Time, resources []domain.Resource) {
	if p.store == nil {
		return
	}

	p.mu.Lock()
	if last, ok := p.started[subscriptionID]; ok && started.Before(last) {
		p.mu.Unlock()
		return
	}
	p.started[subscriptionID] = started
	p.mu.Unlock()

	if err := p.store.Set(resourcesKey(subscriptionID), resources); err != nil {
		log.Debug().Err(err).Str("subscription", subscriptionID).Msg("inventory cache write failed")
	}
}

// Groups returns the subscription's resource group names, with the same
// fallback policy as List.
func (p *Provider) Groups(ctx context.Context, subscriptionID string) (GroupList, error) {
	if subscriptionID == "" {
		return GroupList{}, fmt.Errorf("inventory: %w", domain.ErrInvalidSelection)
	}

	names, err := p.transport.ResourceGroups(ctx, subscriptionID)
	if err == nil {
		if p.store != nil {
			if err := p.store.Set(groupsKey(subscriptionID), names); err != nil {
				log.Debug().Err(err).Msg("groups cache write failed")
			}
		}
		return GroupList{Names: names, Source: SourceLive}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return GroupList{}, ctxErr
	}
	if !domain.IsFetchError(err) {
		err = &domain.FetchError{Op: "list resource groups", Subscription: subscriptionID, Err: err}
	}
	if !p.fallback {
		return GroupList{}, err
	}

	log.Warn().Err(err).Str("subscription", subscriptionID).Msg("resource group fetch failed, serving fallback")

	if p.store != nil {
		var cached []string
		if _, hit, _ := p.store.Get(groupsKey(subscriptionID), 0, &cached); hit {
			return GroupList{Names: cached, Source: SourceCached, Notice: "Showing cached resource groups: " + domain.Cause(err)}, nil
		}
	}
	return GroupList{
		Names:  domain.SampleResourceGroups(),
		Source: SourceSample,
		Notice: "Showing sample resource groups: " + domain.Cause(err),
	}, nil
}
