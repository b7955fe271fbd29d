// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Command orchestrator runs the expedientes service.

It assembles a professor's expediente from the departmental databases of an
institution and validates the professor's evaluation requirements. Each
department keeps its own MySQL or PostgreSQL database; the central
PostgreSQL database holds users, the activity catalog, the connection
directory and the generated expedientes.

# Usage

	orchestrator

# Environment Variables

Required:
  - DATABASE_URL: central PostgreSQL connection string
  - JWT_SECRET: bearer token secret (unless auth.disabled is set)

Optional:
  - CONFIG_FILE: YAML configuration file
  - PORT: HTTP server port (default: 8080)
  - REDIS_URL: Redis URL for the distributed regeneration lock
  - DIRECTORY_SOURCE: "database" (default) or "file"
  - SECRETS_PROVIDER: "aws", "env" or "local"
  - AWS_REGION: region for AWS Secrets Manager
  - ALLOWED_ORIGINS: comma-separated CORS origins
  - ROUTER_HEALTH_CHECK_INTERVAL: tenant health check period (e.g. 30s)

# Endpoints

	POST /api/v1/expedientes/{userKey}
	GET  /api/v1/expedientes/{professorKey}/{year}
	GET  /api/v1/requirements/{userKey}
	GET  /api/v1/tenants
	POST /api/v1/tenants/{tenantKey}/release
	GET  /health
	GET  /metrics
*/
package main
