// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import "github.com/prometheus/client_golang/prometheus"

var (
	generationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_generation_runs_total",
			Help: "Expediente generation passes by result",
		},
		[]string{"result"},
	)
	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expedientes_generation_duration_seconds",
			Help:    "Duration of complete generation passes",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
	documentsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_documents_generated_total",
			Help: "Generated documents by document code",
		},
		[]string{"code"},
	)
	departmentsVisited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expedientes_departments_visited_total",
			Help: "Departments processed across generation passes",
		},
	)
)

func init() {
	prometheus.MustRegister(generationRuns, generationDuration, documentsGenerated, departmentsVisited)
}
