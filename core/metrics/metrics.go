// Package metrics provides Prometheus metrics for entity construction,
// label lookups and reloads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/sparrow/core/entity"
)

const namespace = "sparrow"

// Collector holds all Prometheus metrics for sparrow.
type Collector struct {
	// Construction metrics
	ConstructionsTotal   *prometheus.CounterVec
	ConstructionDuration *prometheus.HistogramVec

	// Label metrics
	LabelLookups *prometheus.CounterVec

	// Reload metrics (config file, locale directory)
	Reloads    *prometheus.CounterVec
	LastReload *prometheus.GaugeVec
}

// New creates a collector registered with the default registry.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector with a custom registry.
// Useful for testing to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ConstructionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "constructions_total",
				Help:      "Total number of entity constructions by outcome",
			},
			[]string{"schema", "outcome"},
		),
		ConstructionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "construction_duration_seconds",
				Help:      "Entity construction duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"schema"},
		),
		LabelLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "label_lookups_total",
				Help:      "Total number of label lookups by outcome",
			},
			[]string{"outcome"},
		),
		Reloads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reloads_total",
				Help:      "Total number of reloads by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		LastReload: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_reload_timestamp",
				Help:      "Unix timestamp of the last successful reload",
			},
			[]string{"source"},
		),
	}
}

// ObserveConstruction records one construction.
func (c *Collector) ObserveConstruction(schemaName string, outcome entity.Outcome, d time.Duration) {
	c.ConstructionsTotal.WithLabelValues(schemaName, string(outcome)).Inc()
	c.ConstructionDuration.WithLabelValues(schemaName).Observe(d.Seconds())
}

// ObserveLabelLookup records one label lookup.
func (c *Collector) ObserveLabelLookup(outcome string) {
	c.LabelLookups.WithLabelValues(outcome).Inc()
}

// ObserveReload records one reload of source.
func (c *Collector) ObserveReload(source string, err error) {
	if err != nil {
		c.Reloads.WithLabelValues(source, "error").Inc()
		return
	}
	c.Reloads.WithLabelValues(source, "ok").Inc()
	c.LastReload.WithLabelValues(source).SetToCurrentTime()
}

var _ entity.Observer = (*Collector)(nil)
