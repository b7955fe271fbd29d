// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

/*
Package base defines the contract between the orchestration engine and the
department backends it queries.

# Connectors

Every department (tenant) backend is reached through a Connector, a pooled
handle that is created lazily by the router and owned exclusively by it:

	type Connector interface {
	    Connect(ctx context.Context, desc *Descriptor) error
	    Disconnect(ctx context.Context) error
	    HealthCheck(ctx context.Context) (*HealthStatus, error)
	    Query(ctx context.Context, query *Query) (*QueryResult, error)
	    Name() string
	    Type() string
	}

Statements are always parameterized. Values supplied by callers (professor
keys, years, levels) travel in Query.Args, never in the statement text:

	res, err := conn.Query(ctx, &Query{
	    Statement: "SELECT nombre FROM docentes WHERE id_docente = ?",
	    Args:      []interface{}{"D-1024"},
	})

# Descriptors

A Descriptor is the directory row for one tenant: engine, host, port,
credentials, database and display name. Descriptor.Validate returns a
ConfigurationError for rows that cannot be used.

# Errors

	ErrNotFound             missing user, professor or tenant entry
	ErrTenantNotConfigured  directory has no entry or endpoint (wraps ErrNotFound)
	*ConfigurationError     malformed descriptor
	*ConnectorError         connect or query failure against a tenant

None of them are retried by this package or its callers.
*/
package base
