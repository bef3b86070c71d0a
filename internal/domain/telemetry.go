package domain

import "time"

// MetricSample is a single named measurement.
type MetricSample struct {
	Name      string    `json:"name"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`

	// Resource names the resource the sample belongs to, when known.
	Resource string `json:"resource,omitempty"`
}

// TrendDirection describes which way a metric is moving.
type TrendDirection string

const (
	TrendPositive TrendDirection = "positive"
	TrendNegative TrendDirection = "negative"
	TrendNeutral  TrendDirection = "neutral"
)

// Trend is the display trend attached to a headline metric.
type Trend struct {
	Direction TrendDirection `json:"direction"`
	// Change is the relative change over the sampled window, in percent.
	Change float64 `json:"change"`
}

// TrafficPoint is one bucket of the traffic chart.
type TrafficPoint struct {
	Label    string  `json:"label"` // e.g. "04:00"
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
	Errors   float64 `json:"errors"`
}

// Snapshot is a point-in-time view of a subscription's traffic metrics.
// Each fetch produces a new Snapshot; nothing is carried between fetches.
type Snapshot struct {
	Subscription string    `json:"subscription"`
	FetchedAt    time.Time `json:"fetched_at"`

	TotalTraffic      float64 `json:"total_traffic"`      // GB/h
	ActiveConnections int     `json:"active_connections"` // reporting endpoints
	ErrorRate         float64 `json:"error_rate"`         // percent
	Latency           float64 `json:"latency"`            // ms

	TrafficTrend     Trend `json:"traffic_trend"`
	ConnectionsTrend Trend `json:"connections_trend"`
	ErrorRateTrend   Trend `json:"error_rate_trend"`
	LatencyTrend     Trend `json:"latency_trend"`

	Traffic []TrafficPoint `json:"traffic,omitempty"`
	Samples []MetricSample `json:"samples,omitempty"`

	// NoData is set when the subscription exists but reported nothing,
	// which is distinct from the provider being unavailable.
	NoData bool `json:"no_data,omitempty"`
}

// TrendOf derives a trend from the first and last values of a window.
// Changes smaller than 1% are reported as neutral.
func TrendOf(first, last float64) Trend {
	if first == 0 {
		if last == 0 {
			return Trend{Direction: TrendNeutral}
		}
		return Trend{Direction: TrendPositive, Change: 100}
	}
	change := (last - first) / first * 100
	switch {
	case change >= 1:
		return Trend{Direction: TrendPositive, Change: change}
	case change <= -1:
		return Trend{Direction: TrendNegative, Change: change}
	default:
		return Trend{Direction: TrendNeutral, Change: change}
	}
}

// Canonical metric names requested from a Transport.
const (
	MetricCPU        = "cpu"
	MetricNetworkIn  = "network.in"  // bytes/s
	MetricNetworkOut = "network.out" // bytes/s
)
