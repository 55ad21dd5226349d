// metrics.go: Prometheus observability (§B domain stack, §C.18).
//
// Grounded on mdzesseis-log_capturer_go's pkg/tracing/metrics.go
// promauto.New*-at-construction pattern. ignite's own diagnostic/error
// taxonomy (errors.go) stays the mechanism for per-event self-reports;
// Metrics instead samples the aggregate, cheap-to-poll state a dashboard
// wants (queue depth, processed/dropped totals per sink) plus a running
// count of sink write errors observed through the diagnostic handler.
//
// Copyright (c) 2025 Ignite Authors
// SPDX-License-Identifier: MPL-2.0

package ignite

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agilira/go-errors"
)

// Metrics holds every Prometheus collector ignite exposes. It is safe to
// construct at most once per process per registerer: promauto panics on
// duplicate registration, matching the teacher's NewTracingMetrics.
type Metrics struct {
	queueDepth    *prometheus.GaugeVec
	queueCapacity *prometheus.GaugeVec
	processed     *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	sinkErrors    *prometheus.CounterVec

	mu     sync.Mutex
	sinks  map[string]*AsyncSink
	stop   chan struct{}
	once   sync.Once
	period time.Duration

	lastProcessed map[string]int64
	lastDropped   map[string]int64
}

// NewMetrics registers ignite's collectors against reg (pass nil for the
// default global registerer) and returns a Metrics ready to track sinks.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	m := &Metrics{
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ignite_queue_depth",
			Help: "Current number of buffered, not-yet-processed frames per async sink.",
		}, []string{"sink"}),

		queueCapacity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ignite_queue_capacity",
			Help: "Configured capacity of each async sink's queue.",
		}, []string{"sink"}),

		processed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ignite_frames_processed_total",
			Help: "Total number of frames dequeued and written by a sink's worker.",
		}, []string{"sink"}),

		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ignite_frames_dropped_total",
			Help: "Total number of frames dropped by a sink's overflow policy.",
		}, []string{"sink"}),

		sinkErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ignite_sink_errors_total",
			Help: "Total number of self-diagnostic reports by error code.",
		}, []string{"code"}),

		sinks:         make(map[string]*AsyncSink),
		period:        2 * time.Second,
		lastProcessed: make(map[string]int64),
		lastDropped:   make(map[string]int64),
	}
	return m
}

// Track registers s so its queue depth/processed/dropped counters are
// sampled by Start. Safe to call before or after Start.
func (m *Metrics) Track(s *AsyncSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks[s.Name()] = s
}

// ErrorHandler returns a DiagnosticFunc that increments sinkErrors and
// forwards to next (pass nil to only count). Install it with
// SetDiagnosticHandler to wire self-diagnostics into Prometheus.
func (m *Metrics) ErrorHandler(next DiagnosticFunc) DiagnosticFunc {
	return func(code errors.ErrorCode, message string, context map[string]interface{}) {
		m.sinkErrors.WithLabelValues(string(code)).Inc()
		if next != nil {
			next(code, message, context)
		}
	}
}

// Start begins periodically sampling every tracked sink's ring.Stats into
// the queue depth/processed/dropped gauges and counters, at the interval
// configured on m (default 2s). Call Stop to end sampling.
func (m *Metrics) Start() {
	m.once.Do(func() {
		m.stop = make(chan struct{})
		go m.sampleLoop()
	})
}

func (m *Metrics) sampleLoop() {
	t := time.NewTicker(m.period)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			m.sample()
		case <-m.stop:
			return
		}
	}
}

func (m *Metrics) sample() {
	m.mu.Lock()
	sinks := make(map[string]*AsyncSink, len(m.sinks))
	for k, v := range m.sinks {
		sinks[k] = v
	}
	m.mu.Unlock()

	for name, s := range sinks {
		st := s.Stats()
		m.queueDepth.WithLabelValues(name).Set(float64(st.Buffered))
		m.queueCapacity.WithLabelValues(name).Set(float64(st.Capacity))

		// The ring's Processed/Dropped are cumulative totals, but
		// prometheus.Counter only exposes Add, not Set; track the last
		// observed total per sink so each sample advances the counter by
		// the delta since the previous sample (§B).
		if delta := st.Processed - m.lastProcessed[name]; delta > 0 {
			m.processed.WithLabelValues(name).Add(float64(delta))
			m.lastProcessed[name] = st.Processed
		}
		if delta := st.Dropped - m.lastDropped[name]; delta > 0 {
			m.dropped.WithLabelValues(name).Add(float64(delta))
			m.lastDropped[name] = st.Dropped
		}
	}
}

// Stop ends periodic sampling. Safe to call even if Start was never
// called.
func (m *Metrics) Stop() {
	if m.stop != nil {
		select {
		case <-m.stop:
		default:
			close(m.stop)
		}
	}
}
