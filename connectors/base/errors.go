// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every "does not exist" error: missing user,
	// professor or tenant descriptor.
	ErrNotFound = errors.New("not found")

	// ErrTenantNotConfigured is returned when the directory has no entry, or
	// no endpoint, for a tenant key.
	ErrTenantNotConfigured = fmt.Errorf("tenant not configured: %w", ErrNotFound)
)

// ConfigurationError reports a malformed connection descriptor. It is never
// retried.
type ConfigurationError struct {
	TenantKey string
	Field     string
	Message   string
}

func (e *ConfigurationError) Error() string {
	if e.TenantKey == "" {
		return "configuration error: " + e.Field + ": " + e.Message
	}
	return "configuration error for tenant " + e.TenantKey + ": " + e.Field + ": " + e.Message
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(tenantKey, field, message string) *ConfigurationError {
	return &ConfigurationError{TenantKey: tenantKey, Field: field, Message: message}
}

// ConnectorError reports a connect or query failure against one tenant
// (the TenantUnreachable class).
type ConnectorError struct {
	ConnectorName string
	Operation     string
	Message       string
	Cause         error
}

func (e *ConnectorError) Error() string {
	if e.Cause != nil {
		return e.ConnectorName + "." + e.Operation + ": " + e.Message + " (cause: " + e.Cause.Error() + ")"
	}
	return e.ConnectorName + "." + e.Operation + ": " + e.Message
}

func (e *ConnectorError) Unwrap() error {
	return e.Cause
}

// NewConnectorError creates a new ConnectorError
func NewConnectorError(connectorName, operation, message string, cause error) *ConnectorError {
	return &ConnectorError{
		ConnectorName: connectorName,
		Operation:     operation,
		Message:       message,
		Cause:         cause,
	}
}

// IsUnreachable reports whether err is, or wraps, a ConnectorError
func IsUnreachable(err error) bool {
	var connErr *ConnectorError
	return errors.As(err, &connErr)
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError
func IsConfiguration(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
