// Package metrics collects and exposes Prometheus metrics for the
// chat core.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the recording interface used by the chat core. It keeps
// the core decoupled from the Prometheus client in tests.
type Collector interface {
	ConnectionOpened()
	ConnectionClosed()
	RecordMessagePersisted()
	RecordPersistFailure()
	RecordScorerFailure()
	RecordScoreLatency(d time.Duration)
	RecordDroppedFrame()
}

// PrometheusCollector registers and records chat metrics.
type PrometheusCollector struct {
	connections   prometheus.Gauge
	persisted     prometheus.Counter
	persistFail   prometheus.Counter
	scorerFail    prometheus.Counter
	scoreLatency  prometheus.Histogram
	droppedFrames prometheus.Counter
}

func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "moodchat_connections",
			Help: "Number of live websocket connections.",
		}),
		persisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodchat_messages_persisted_total",
			Help: "Messages successfully written to the store.",
		}),
		persistFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodchat_persist_failures_total",
			Help: "Message writes that failed.",
		}),
		scorerFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodchat_scorer_failures_total",
			Help: "Sentiment scorer calls that failed or timed out.",
		}),
		scoreLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "moodchat_score_latency_seconds",
			Help:    "Latency of sentiment scorer calls.",
			Buckets: prometheus.DefBuckets,
		}),
		droppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moodchat_dropped_frames_total",
			Help: "Outbound frames dropped because a connection's queue was full or closed.",
		}),
	}

	reg.MustRegister(
		c.connections,
		c.persisted,
		c.persistFail,
		c.scorerFail,
		c.scoreLatency,
		c.droppedFrames,
	)

	return c
}

func (c *PrometheusCollector) ConnectionOpened() { c.connections.Inc() }

func (c *PrometheusCollector) ConnectionClosed() { c.connections.Dec() }

func (c *PrometheusCollector) RecordMessagePersisted() { c.persisted.Inc() }

func (c *PrometheusCollector) RecordPersistFailure() { c.persistFail.Inc() }

func (c *PrometheusCollector) RecordScorerFailure() { c.scorerFail.Inc() }

func (c *PrometheusCollector) RecordScoreLatency(d time.Duration) {
	c.scoreLatency.Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordDroppedFrame() { c.droppedFrames.Inc() }

// Nop discards every metric. Used by tests.
type Nop struct{}

func (Nop) ConnectionOpened()                  {}
func (Nop) ConnectionClosed()                  {}
func (Nop) RecordMessagePersisted()            {}
func (Nop) RecordPersistFailure()              {}
func (Nop) RecordScorerFailure()               {}
func (Nop) RecordScoreLatency(time.Duration)   {}
func (Nop) RecordDroppedFrame()                {}
