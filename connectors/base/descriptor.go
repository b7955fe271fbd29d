// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"strings"
	"time"
)

// Supported tenant engines
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DefaultTimeout bounds connect and query calls when a descriptor sets none
const DefaultTimeout = 30 * time.Second

// Descriptor is the connection description of one department backend, as
// stored in the central directory. It is immutable once read.
type Descriptor struct {
	TenantKey   string `json:"tenant_key" yaml:"tenant_key"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Engine      string `json:"engine" yaml:"engine"`
	Host        string `json:"host" yaml:"host"`
	Port        int    `json:"port" yaml:"port"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"-" yaml:"password"`
	Database    string `json:"database" yaml:"database"`

	// CredentialsSecret names a secret holding username/password; when set,
	// the directory resolves it before handing the descriptor out.
	CredentialsSecret string `json:"credentials_secret,omitempty" yaml:"credentials_secret,omitempty"`

	Options map[string]interface{} `json:"options,omitempty" yaml:"options,omitempty"`
	Timeout time.Duration          `json:"timeout" yaml:"timeout"`
}

// DefaultPort returns the conventional port for the descriptor engine
func (d *Descriptor) DefaultPort() int {
	if d.Engine == EnginePostgres {
		return 5432
	}
	return 3306
}

// EffectiveTimeout returns the descriptor timeout or DefaultTimeout
func (d *Descriptor) EffectiveTimeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

// Validate reports a ConfigurationError when the descriptor cannot be used to
// open a connection.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.TenantKey) == "" {
		return NewConfigurationError("", "tenant_key", "tenant key is empty")
	}
	switch d.Engine {
	case EngineMySQL, EnginePostgres:
	default:
		return NewConfigurationError(d.TenantKey, "engine", "unsupported engine "+quote(d.Engine))
	}
	if d.Port < 0 || d.Port > 65535 {
		return NewConfigurationError(d.TenantKey, "port", "port out of range")
	}
	if strings.TrimSpace(d.Database) == "" {
		return NewConfigurationError(d.TenantKey, "database", "database name is empty")
	}
	if strings.TrimSpace(d.Username) == "" {
		return NewConfigurationError(d.TenantKey, "username", "username is empty")
	}
	return nil
}

// HasEndpoint reports whether the descriptor names a host to connect to
func (d *Descriptor) HasEndpoint() bool {
	return d != nil && strings.TrimSpace(d.Host) != ""
}

func quote(s string) string {
	return "'" + s + "'"
}
