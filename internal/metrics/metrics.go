package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search holds the search path collectors and implements job.Recorder
type Search struct {
	ProviderRequests *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	Duration         *prometheus.HistogramVec
}

// NewSearch creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewSearch(reg prometheus.Registerer) *Search {
	m := &Search{
		ProviderRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobscout",
				Name:      "provider_requests_total",
				Help:      "Provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jobscout",
				Name:      "search_fallbacks_total",
				Help:      "Searches served from demo data after a provider failure",
			},
			[]string{"reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "jobscout",
				Name:      "search_duration_seconds",
				Help:      "End to end search latency by result source",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"source"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.ProviderRequests, m.Fallbacks, m.Duration)
	}
	return m
}

func (m *Search) ProviderCall(provider, outcome string) {
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Search) Fallback(reason string) {
	m.Fallbacks.WithLabelValues(reason).Inc()
}

func (m *Search) SearchDuration(source string, d time.Duration) {
	m.Duration.WithLabelValues(source).Observe(d.Seconds())
}
