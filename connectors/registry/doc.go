// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package registry is the connection directory: it maps a department (tenant)
key to the descriptor needed to open a connection to that department's
database.

Two implementations exist:

  - PostgresDirectory reads the directorio_conexiones table of the central
    database on every lookup.
  - FileDirectory serves the tenants list of the service configuration file,
    for development and tests.

Both resolve a descriptor's credentials_secret through a
config.SecretsManager before returning it, and both return
base.ErrTenantNotConfigured for unknown keys.

Descriptors are not cached here. The connection router re-reads the
directory every time it builds a connection, so a changed row takes effect
the next time the tenant connection is created.
*/
package registry
