// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package router

import "github.com/prometheus/client_golang/prometheus"

var (
	acquireTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_router_acquire_total",
			Help: "Tenant connection acquisitions by result (hit or miss)",
		},
		[]string{"result"},
	)
	connectionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expedientes_router_connections_created_total",
			Help: "Tenant connections successfully established",
		},
	)
	connectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_router_connect_failures_total",
			Help: "Failed tenant connection attempts by reason",
		},
		[]string{"reason"},
	)
	evictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_router_evictions_total",
			Help: "Tenant connections closed by reason",
		},
		[]string{"reason"},
	)
	openConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "expedientes_router_open_connections",
			Help: "Live tenant connections",
		},
	)
	connectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "expedientes_router_connect_duration_seconds",
			Help:    "Time to establish a tenant connection",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"engine"},
	)
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "expedientes_router_query_duration_seconds",
			Help:    "Tenant query latency",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"tenant"},
	)
	queryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expedientes_router_query_failures_total",
			Help: "Failed tenant queries",
		},
		[]string{"tenant"},
	)
)

func init() {
	prometheus.MustRegister(acquireTotal)
	prometheus.MustRegister(connectionsCreated)
	prometheus.MustRegister(connectFailures)
	prometheus.MustRegister(evictionsTotal)
	prometheus.MustRegister(openConnections)
	prometheus.MustRegister(connectDuration)
	prometheus.MustRegister(queryDuration)
	prometheus.MustRegister(queryFailures)
}
