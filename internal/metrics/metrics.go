// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service counters and histograms.
type Metrics struct {
	FlightsParsed  *prometheus.CounterVec
	ParseFailures  *prometheus.CounterVec
	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration *prometheus.HistogramVec
}

// New registers the service metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FlightsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flypoints",
			Name:      "flights_parsed_total",
			Help:      "Flight records extracted, by source.",
		}, []string{"source"}),

		ParseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flypoints",
			Name:      "parse_failures_total",
			Help:      "Snapshot loads or scrapes that yielded no usable data, by source.",
		}, []string{"source"}),

		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flypoints",
			Name:      "scrapes_total",
			Help:      "Scrape subprocess runs, by airline and outcome.",
		}, []string{"airline", "outcome"}),

		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flypoints",
			Name:      "scrape_duration_seconds",
			Help:      "Wall-clock duration of scrape subprocess runs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"airline"}),
	}
}
