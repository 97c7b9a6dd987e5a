// Package metrics exposes Prometheus instrumentation for Compile calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the Prometheus metrics recorded by a single Compile call.
// All metrics are namespaced "planc".
//
//  1. job_vertices (gauge): job vertices produced by the most recent compile.
//  2. job_edges (gauge): job edges wired by the most recent compile.
//  3. chained_operators (gauge): stream operators fused into chains rather
//     than materialized as their own vertex.
//  4. legacy_hashes_attached_total (counter): legacy hash entries attached
//     across all compiles, labeled by source graph id.
//  5. chainability_rejections_total (counter): candidate fusions rejected,
//     labeled by the rejecting condition (slot_sharing_group, parallelism, ...).
//  6. compile_duration_ms (histogram): wall-clock duration of Compile.
//
// Safe for concurrent use; a single Collector may back multiple Compile
// calls.
type Collector struct {
	jobVertices      prometheus.Gauge
	jobEdges         prometheus.Gauge
	chainedOperators prometheus.Gauge

	legacyHashesAttached    *prometheus.CounterVec
	chainabilityRejections  *prometheus.CounterVec
	compileDuration         prometheus.Histogram

	enabled bool
}

// New registers and returns a Collector against registry. A nil registry
// uses prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	c := &Collector{enabled: true}

	c.jobVertices = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "planc",
		Name:      "job_vertices",
		Help:      "Job vertices produced by the most recent compile",
	})
	c.jobEdges = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "planc",
		Name:      "job_edges",
		Help:      "Job edges wired by the most recent compile",
	})
	c.chainedOperators = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "planc",
		Name:      "chained_operators",
		Help:      "Stream operators fused into a chain rather than materialized standalone",
	})
	c.legacyHashesAttached = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planc",
		Name:      "legacy_hashes_attached_total",
		Help:      "Legacy hash entries attached to job vertices, labeled by source graph id",
	}, []string{"graph_id"})
	c.chainabilityRejections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planc",
		Name:      "chainability_rejections_total",
		Help:      "Candidate operator fusions rejected, labeled by the rejecting condition",
	}, []string{"condition"})
	c.compileDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: "planc",
		Name:      "compile_duration_ms",
		Help:      "Wall-clock duration of a Compile call in milliseconds",
		Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
	})

	return c
}

// RecordJobGraph sets the vertex/edge/chained-operator gauges from a
// completed compile.
func (c *Collector) RecordJobGraph(vertices, edges, chainedOperators int) {
	if !c.enabled {
		return
	}
	c.jobVertices.Set(float64(vertices))
	c.jobEdges.Set(float64(edges))
	c.chainedOperators.Set(float64(chainedOperators))
}

// IncrementLegacyHashesAttached records one legacy hash attached for graphID.
func (c *Collector) IncrementLegacyHashesAttached(graphID string) {
	if !c.enabled {
		return
	}
	c.legacyHashesAttached.WithLabelValues(graphID).Inc()
}

// IncrementChainabilityRejections records one candidate fusion rejected for
// the named condition, e.g. "slot_sharing_group", "parallelism", "partitioner".
func (c *Collector) IncrementChainabilityRejections(condition string) {
	if !c.enabled {
		return
	}
	c.chainabilityRejections.WithLabelValues(condition).Inc()
}

// RecordCompileDuration observes the duration of a Compile call.
func (c *Collector) RecordCompileDuration(d time.Duration) {
	if !c.enabled {
		return
	}
	c.compileDuration.Observe(float64(d.Milliseconds()))
}

// Disable stops recording without unregistering collectors.
func (c *Collector) Disable() { c.enabled = false }

// Enable resumes recording after Disable.
func (c *Collector) Enable() { c.enabled = true }
