// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the
// orchestrator: request counters, ingestion and LLM latency
// histograms, and a calculation counter that distinguishes equation
// evaluation from the linear fallback.
//
// Metrics are exposed on /metrics. All operations are thread-safe via
// Prometheus's internal locking.
package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "causeway"

const apiSubsystem = "api"

// Calculation path labels.
const (
	PathEquation = "equation"
	PathFallback = "fallback"
)

// Metrics holds all Prometheus metrics for the orchestrator.
type Metrics struct {
	// RequestsTotal counts API requests by endpoint and status.
	RequestsTotal *prometheus.CounterVec

	// IngestDurationSeconds measures end-to-end document ingestion,
	// including extraction. Labels: source_type (text, topics)
	IngestDurationSeconds *prometheus.HistogramVec

	// ConceptsExtractedTotal counts extracted concepts by source.
	// Labels: source_type (text, topics)
	ConceptsExtractedTotal *prometheus.CounterVec

	// CalculationsTotal counts simulation calculations by result path.
	// Labels: path (equation, fallback)
	CalculationsTotal *prometheus.CounterVec

	// LLMCallsTotal counts LLM backend calls.
	// Labels: operation (extract, chat, simulation_params, quiz), status
	LLMCallsTotal *prometheus.CounterVec

	// LLMCallDurationSeconds measures LLM backend latency.
	// Labels: operation
	LLMCallDurationSeconds *prometheus.HistogramVec

	// ActiveChatSessions tracks open websocket chat connections.
	ActiveChatSessions prometheus.Gauge
}

var (
	defaultMetrics *Metrics
	metricsOnce    sync.Once
)

// InitMetrics initializes and registers the metrics exactly once;
// repeated calls return the same instance, so tests can share it.
func InitMetrics() *Metrics {
	metricsOnce.Do(func() {
		defaultMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "requests_total",
					Help:      "Total API requests by endpoint and status",
				},
				[]string{"endpoint", "status"},
			),

			IngestDurationSeconds: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "ingest_duration_seconds",
					Help:      "End-to-end document ingestion duration in seconds",
					Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
				},
				[]string{"source_type"},
			),

			ConceptsExtractedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "concepts_extracted_total",
					Help:      "Total concepts extracted by extraction method",
				},
				[]string{"source_type"},
			),

			CalculationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "calculations_total",
					Help:      "Total simulation calculations by result path",
				},
				[]string{"path"},
			),

			LLMCallsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "llm_calls_total",
					Help:      "Total LLM backend calls by operation and status",
				},
				[]string{"operation", "status"},
			),

			LLMCallDurationSeconds: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "llm_call_duration_seconds",
					Help:      "LLM backend call latency in seconds",
					Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
				},
				[]string{"operation"},
			),

			ActiveChatSessions: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: metricsNamespace,
					Subsystem: apiSubsystem,
					Name:      "active_chat_sessions",
					Help:      "Number of open websocket chat connections",
				},
			),
		}
	})
	return defaultMetrics
}

// RecordRequest records one completed API request.
func (m *Metrics) RecordRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// ObserveCalculation records one simulation calculation outcome.
func (m *Metrics) ObserveCalculation(approximated bool) {
	if m == nil {
		return
	}
	path := PathEquation
	if approximated {
		path = PathFallback
	}
	m.CalculationsTotal.WithLabelValues(path).Inc()
}
