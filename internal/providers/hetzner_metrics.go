package providers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/skyglass/internal/domain"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Metrics fetches samples for a server over the configured window. The step
// is calculated to produce approximately 60 data points per series. Volumes
// expose no metrics and return an empty batch.
func (h *HetznerTransport) Metrics(ctx context.Context, subscriptionID, resourceID string, names []string) ([]domain.MetricSample, error) {
	kind, rawID, ok := strings.Cut(resourceID, "/")
	if !ok {
		return nil, fmt.Errorf("invalid resource ID %q: %w", resourceID, domain.ErrNotFound)
	}
	if kind != "servers" {
		return nil, nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid server ID %q: %w", rawID, domain.ErrNotFound)
	}

	types, err := hcloudMetricTypes(names)
	if err != nil {
		return nil, err
	}

	end := h.now()
	start := end.Add(-h.window)
	step := int(h.window.Seconds() / 60)
	if step < 1 {
		step = 1
	}

	hzMetrics, _, err := h.client.Server.GetMetrics(ctx, &hcloud.Server{ID: id}, hcloud.ServerGetMetricsOpts{
		Types: types,
		Start: start,
		End:   end,
		Step:  step,
	})
	if err != nil {
		return nil, mapHetznerError("get server metrics", subscriptionID, err)
	}

	return toSamples(hzMetrics, names), nil
}

func hcloudMetricTypes(names []string) ([]hcloud.ServerMetricType, error) {
	var (
		types   []hcloud.ServerMetricType
		network bool
	)
	for _, n := range names {
		switch n {
		case domain.MetricCPU:
			types = append(types, hcloud.ServerMetricCPU)
		case domain.MetricNetworkIn, domain.MetricNetworkOut:
			if !network {
				types = append(types, hcloud.ServerMetricNetwork)
				network = true
			}
		default:
			return nil, fmt.Errorf("unsupported metric %q", n)
		}
	}
	return types, nil
}

// seriesNames maps Hetzner time series to canonical metric names and units.
var seriesNames = map[string]struct {
	name string
	unit string
}{
	"cpu":                     {domain.MetricCPU, "Percent"},
	"network.0.bandwidth.in":  {domain.MetricNetworkIn, "Bytes"},
	"network.0.bandwidth.out": {domain.MetricNetworkOut, "Bytes"},
}

// toSamples flattens the requested series into samples ordered by
// timestamp. Values that cannot be parsed as float64 are skipped.
func toSamples(hz *hcloud.ServerMetrics, names []string) []domain.MetricSample {
	if hz == nil {
		return nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []domain.MetricSample
	for series, values := range hz.TimeSeries {
		meta, ok := seriesNames[series]
		if !ok || !wanted[meta.name] {
			continue
		}
		for _, v := range values {
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				continue
			}
			out = append(out, domain.MetricSample{
				Name:      meta.name,
				Value:     f,
				Unit:      meta.unit,
				Timestamp: unixFloat(v.Timestamp),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Name < out[j].Name
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func unixFloat(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}
