// Package metrics exposes conversion pipeline metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ringtone"

// Collector records conversion outcomes and preview store growth
type Collector struct {
	registry     *prometheus.Registry
	conversions  *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	previews     prometheus.Counter
	previewBytes prometheus.Counter
	previewReads *prometheus.CounterVec
}

// New creates a Collector registered on its own registry
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by outcome (success or failure kind).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Wall time of a conversion request by outcome.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"outcome"}),
		previews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "previews_stored_total",
			Help:      "Previews written to the in-memory store.",
		}),
		previewBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_bytes_stored_total",
			Help:      "Bytes written to the in-memory store.",
		}),
		previewReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preview_reads_total",
			Help:      "Preview lookups by result (hit or miss).",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		c.conversions,
		c.duration,
		c.previews,
		c.previewBytes,
		c.previewReads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ConversionFinished records one conversion with its outcome label
func (c *Collector) ConversionFinished(outcome string, elapsed time.Duration) {
	c.conversions.WithLabelValues(outcome).Inc()
	c.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// PreviewStored records one preview of size bytes
func (c *Collector) PreviewStored(size int) {
	c.previews.Inc()
	c.previewBytes.Add(float64(size))
}

// PreviewRead records one preview lookup
func (c *Collector) PreviewRead(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.previewReads.WithLabelValues(result).Inc()
}

// RegisterGauge exposes a value sampled at scrape time
func (c *Collector) RegisterGauge(name, help string, fn func() float64) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn))
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
