// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

// Package api exposes expediente generation, requirement validation and
// tenant connection management over HTTP.
//
// Routes:
//
//	POST /api/v1/expedientes/{userKey}              generate
//	GET  /api/v1/expedientes/{professorKey}/{year}  read a stored expediente
//	GET  /api/v1/requirements/{userKey}             requirement checklist
//	GET  /api/v1/tenants                            directory and live connections (admin)
//	POST /api/v1/tenants/{tenantKey}/release        drop a tenant connection (admin)
//	GET  /health
//	GET  /metrics                                   Prometheus
//
// Every /api route requires an HS256 bearer token unless authentication is
// disabled. Errors are JSON: {"error": {"code": ..., "message": ...}}.
package api
