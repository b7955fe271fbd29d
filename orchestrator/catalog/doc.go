// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

// Package catalog adapts the central database tables the orchestrator
// consumes but does not own: users (usuarios) and the activity to document
// code catalog (actividad_documentos).
//
// Activity lookups are optionally cached for a short TTL since a generation
// pass asks for the same departments repeatedly and the catalog changes
// rarely.
package catalog
