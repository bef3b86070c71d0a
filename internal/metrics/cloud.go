package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// trafficBuckets is the number of points in the traffic chart.
	trafficBuckets = 6

	// maxConcurrentFetches bounds per-resource metric requests.
	maxConcurrentFetches = 4
)

// CloudProvider builds snapshots from per-resource samples returned by a
// transport. Retry and circuit breaking belong to the transport (see
// providers.Reliable).
type CloudProvider struct {
	transport domain.Transport
	now       func() time.Time
}

// NewCloudProvider returns a provider backed by transport.
func NewCloudProvider(transport domain.Transport) *CloudProvider {
	return &CloudProvider{transport: transport, now: time.Now}
}

type resourceSamples struct {
	samples []domain.MetricSample
	elapsed time.Duration
	err     error
}

// Fetch lists the subscription's resources and aggregates their latest
// network and CPU samples:
//
//   - TotalTraffic is the summed latest in+out bandwidth, in GB/h.
//   - ActiveConnections counts resources that reported samples.
//   - ErrorRate is the share of per-resource requests that failed.
//   - Latency is the mean round-trip time of those requests, in ms.
func (p *CloudProvider) Fetch(ctx context.Context, subscriptionID string) (domain.Snapshot, error) {
	if err := requireSelection(subscriptionID); err != nil {
		return domain.Snapshot{}, err
	}

	resources, err := p.transport.Resources(ctx, subscriptionID)
	if err != nil {
		return domain.Snapshot{}, asFetchError("list resources", subscriptionID, err)
	}

	snap := domain.Snapshot{Subscription: subscriptionID, FetchedAt: p.now()}
	if len(resources) == 0 {
		snap.NoData = true
		return snap, nil
	}

	results := make([]resourceSamples, len(resources))
	names := []string{domain.MetricCPU, domain.MetricNetworkIn, domain.MetricNetworkOut}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, r := range resources {
		g.Go(func() error {
			start := time.Now()
			samples, err := p.transport.Metrics(gctx, subscriptionID, r.ID, names)
			for j := range samples {
				samples[j].Resource = r.Name
			}
			results[i] = resourceSamples{samples: samples, elapsed: time.Since(start), err: err}
			if err != nil {
				log.Debug().Err(err).Str("resource", r.ID).Msg("metrics fetch failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	var (
		failed   int
		reported int
		elapsed  time.Duration
		series   []domain.MetricSample
	)
	var firstTraffic, lastTraffic float64
	for _, res := range results {
		elapsed += res.elapsed
		if res.err != nil {
			failed++
			continue
		}
		if len(res.samples) > 0 {
			reported++
		}
		first, last := bandwidthEnds(res.samples)
		firstTraffic += first
		lastTraffic += last
		series = append(series, res.samples...)
	}

	if failed == len(results) {
		return domain.Snapshot{}, asFetchError("fetch metrics", subscriptionID,
			fmt.Errorf("all %d resource requests failed: %w", failed, firstError(results)))
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})

	snap.TotalTraffic = bytesPerSecondToGBPerHour(lastTraffic)
	snap.ActiveConnections = reported
	snap.ErrorRate = float64(failed) / float64(len(results)) * 100
	snap.Latency = float64(elapsed.Milliseconds()) / float64(len(results))
	snap.TrafficTrend = domain.TrendOf(firstTraffic, lastTraffic)
	snap.ConnectionsTrend = domain.Trend{Direction: domain.TrendNeutral}
	snap.ErrorRateTrend = domain.Trend{Direction: domain.TrendNeutral}
	snap.LatencyTrend = domain.Trend{Direction: domain.TrendNeutral}
	snap.Traffic = bucketTraffic(series, trafficBuckets)
	snap.Samples = series
	snap.NoData = reported == 0

	return snap, nil
}

// bandwidthEnds returns the combined in+out bandwidth of the oldest and
// newest samples in a resource's window.
func bandwidthEnds(samples []domain.MetricSample) (first, last float64) {
	seen := map[string]bool{}
	latest := map[string]float64{}
	for _, s := range samples {
		if s.Name != domain.MetricNetworkIn && s.Name != domain.MetricNetworkOut {
			continue
		}
		if !seen[s.Name] {
			seen[s.Name] = true
			first += s.Value
		}
		latest[s.Name] = s.Value
	}
	for _, v := range latest {
		last += v
	}
	return first, last
}

// bucketTraffic splits network samples into n equal time buckets and sums
// inbound/outbound per bucket in MB/s. The API exposes no error counter, so
// Errors stays zero.
func bucketTraffic(series []domain.MetricSample, n int) []domain.TrafficPoint {
	var start, end time.Time
	for _, s := range series {
		if s.Name != domain.MetricNetworkIn && s.Name != domain.MetricNetworkOut {
			continue
		}
		if start.IsZero() || s.Timestamp.Before(start) {
			start = s.Timestamp
		}
		if s.Timestamp.After(end) {
			end = s.Timestamp
		}
	}
	if start.IsZero() {
		return nil
	}

	width := end.Sub(start) / time.Duration(n)
	if width <= 0 {
		width = time.Second
	}

	points := make([]domain.TrafficPoint, n)
	for i := range points {
		points[i].Label = start.Add(time.Duration(i) * width).Local().Format("15:04")
	}
	for _, s := range series {
		idx := int(s.Timestamp.Sub(start) / width)
		if idx >= n {
			idx = n - 1
		}
		switch s.Name {
		case domain.MetricNetworkIn:
			points[idx].Inbound += s.Value / 1_000_000
		case domain.MetricNetworkOut:
			points[idx].Outbound += s.Value / 1_000_000
		}
	}
	return points
}

func bytesPerSecondToGBPerHour(v float64) float64 {
	return v * 3600 / 1_000_000_000
}

func firstError(results []resourceSamples) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}
	return nil
}

// asFetchError wraps err in a *domain.FetchError unless it already is one.
func asFetchError(op, subscriptionID string, err error) error {
	if domain.IsFetchError(err) {
		return err
	}
	return &domain.FetchError{Op: op, Subscription: subscriptionID, Err: err}
}
