// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package orchestrator wires the expedientes service.

Run builds the component graph from configuration:

  - the central PostgreSQL database (users, activity catalog, connection
    directory, persisted expedientes)
  - the tenant connection router over the directory, with credentials
    resolved through the configured secrets manager
  - the document engine, the expediente service and the requirements
    validator, all querying department databases through the router
  - the HTTP API (see package api)

Subpackages hold the domain: documents (document families and the dispatch
table), catalog (users and the activity catalog), expediente (generation and
persistence), requirements (the evaluation checklist) and api (HTTP).
*/
package orchestrator
