// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package router multiplexes queries over the department (tenant) databases.

A Router holds at most one live pooled connection per tenant key. The
connection is created lazily on the first Acquire from a descriptor read from
the Directory; the descriptor is never cached apart from the live connection,
so every rebuild reflects the current directory row.

	r := router.New(directory, nil, router.Options{HealthCheckInterval: 30 * time.Second})
	defer r.Shutdown(context.Background())

	rows, err := r.QueryTenant(ctx, "sistemas",
	    "SELECT nombre FROM docentes WHERE id_docente = ?", professorKey)

Concurrent Acquire calls for the same unconnected key join a single connect
attempt through singleflight. A connection leaves the router through Release,
a failed health check, a failed query followed by a failed health check, or
Shutdown.
*/
package router
