// Package metrics records review engine activity. [Recorder] is what the
// engine calls; [Collector] backs it with Prometheus and [Nop] discards
// everything.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "docreview"

// Recorder receives engine events.
type Recorder interface {
	// ObserveExtraction records one structure extraction.
	ObserveExtraction(d time.Duration, tables int)

	// TableNamed records which rule named a table.
	TableNamed(source string)

	// GapsFound records n gaps with the given status.
	GapsFound(status string, n int)

	// DocumentWritten records one document write. mode is in_place,
	// rebuilt, text or failed.
	DocumentWritten(mode string)
}

// Nop is a Recorder that does nothing.
type Nop struct{}

func (Nop) ObserveExtraction(time.Duration, int) {}
func (Nop) TableNamed(string)                    {}
func (Nop) GapsFound(string, int)                {}
func (Nop) DocumentWritten(string)               {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	EnableProcessMetrics bool
	EnableGoMetrics      bool
	DurationBuckets      []float64
}

// Collector is a Prometheus-backed Recorder with its own registry.
type Collector struct {
	registry *prometheus.Registry

	extractions        prometheus.Counter
	extractionDuration prometheus.Histogram
	tablesExtracted    prometheus.Counter
	tablesNamed        *prometheus.CounterVec
	gaps               *prometheus.CounterVec
	writes             *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(cfg CollectorConfig) *Collector {
	if cfg.DurationBuckets == nil {
		cfg.DurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		extractions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "extractions_total",
			Help:      "Document structure extractions performed.",
		}),
		extractionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting document structure.",
			Buckets:   cfg.DurationBuckets,
		}),
		tablesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tables_extracted_total",
			Help:      "Tables found across all extractions.",
		}),
		tablesNamed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tables_named_total",
			Help:      "Tables named, by the rule that named them.",
		}, []string{"source"}),
		gaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "gaps_total",
			Help:      "Gaps reported, by status.",
		}, []string{"status"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "document_writes_total",
			Help:      "Round-trip document writes, by mode.",
		}, []string{"mode"}),
	}

	c.registry.MustRegister(c.extractions, c.extractionDuration, c.tablesExtracted, c.tablesNamed, c.gaps, c.writes)
	if cfg.EnableProcessMetrics {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}))
	}
	if cfg.EnableGoMetrics {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *Collector) ObserveExtraction(d time.Duration, tables int) {
	c.extractions.Inc()
	c.extractionDuration.Observe(d.Seconds())
	c.tablesExtracted.Add(float64(tables))
}

func (c *Collector) TableNamed(source string) {
	c.tablesNamed.WithLabelValues(source).Inc()
}

func (c *Collector) GapsFound(status string, n int) {
	if n <= 0 {
		return
	}
	c.gaps.WithLabelValues(status).Add(float64(n))
}

func (c *Collector) DocumentWritten(mode string) {
	c.writes.WithLabelValues(mode).Inc()
}
