// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts pipeline outcomes and exports them in the
// Prometheus text format for the node_exporter textfile collector.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "longivity"

// Document outcomes.
const (
	Fetched      = "fetched"
	Irrelevant   = "irrelevant"
	Duplicate    = "duplicate"
	Known        = "known"
	Stored       = "stored"
	Unclassified = "unclassified"
)

// Article results.
const (
	Created = "created"
	Skipped = "skipped"
)

// Metrics holds one registry per process.
type Metrics struct {
	reg *prometheus.Registry

	documents   *prometheus.CounterVec
	articles    *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	duration    prometheus.Gauge
	lastRun     prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		documents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents seen by the pipeline, by outcome.",
		}, []string{"outcome"}),
		articles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_total",
			Help:      "Topic articles, by result.",
		}, []string{"result"}),
		fetchErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Fetchers that failed, by source family.",
		}, []string{"source"}),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last pipeline run.",
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last pipeline run finished.",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Documents adds n to the counter for outcome.
func (m *Metrics) Documents(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.documents.WithLabelValues(outcome).Add(float64(n))
}

// Articles adds n to the counter for result.
func (m *Metrics) Articles(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.articles.WithLabelValues(result).Add(float64(n))
}

func (m *Metrics) FetchError(family string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(family).Inc()
}

// RunFinished records the duration and completion time of a run.
func (m *Metrics) RunFinished(d time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.duration.Set(d.Seconds())
	m.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path, replacing it atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
