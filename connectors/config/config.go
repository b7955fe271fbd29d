// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// Directory sources
const (
	DirectorySourceDatabase = "database"
	DirectorySourceFile     = "file"
)

// Config is the orchestrator service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Directory DirectoryConfig `yaml:"directory"`
	Router    RouterConfig    `yaml:"router"`
	Redis     RedisConfig     `yaml:"redis"`
	Secrets   SecretsConfig   `yaml:"secrets"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`

	// Tenants is only read when Directory.Source is "file"
	Tenants []base.Descriptor `yaml:"tenants,omitempty"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins,omitempty"`
}

// DatabaseConfig points at the central PostgreSQL database holding users,
// the activity catalog, the connection directory and persisted expedientes.
type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DirectoryConfig selects where tenant descriptors are read from
type DirectoryConfig struct {
	Source string `yaml:"source"`
	Table  string `yaml:"table,omitempty"`
}

// RouterConfig tunes the tenant connection router
type RouterConfig struct {
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
	ConnectTimeout      time.Duration `yaml:"connect_timeout"`
}

// RedisConfig enables the distributed regeneration lock. An empty URL falls
// back to an in-process lock.
type RedisConfig struct {
	URL     string        `yaml:"url"`
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// SecretsConfig selects the secrets provider used for tenant credentials
type SecretsConfig struct {
	Provider string        `yaml:"provider"`
	Region   string        `yaml:"region,omitempty"`
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"`
}

// AuthConfig configures bearer token verification. Tokens are issued
// elsewhere; this service only verifies them.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Disabled  bool   `yaml:"disabled"`
}

// CatalogConfig tunes the activity catalog adapter. A zero CacheTTL
// disables caching.
type CatalogConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Directory: DirectoryConfig{
			Source: DirectorySourceDatabase,
			Table:  "directorio_conexiones",
		},
		Router: RouterConfig{
			HealthCheckInterval: 30 * time.Second,
			ConnectTimeout:      10 * time.Second,
		},
		Redis: RedisConfig{
			LockTTL: 2 * time.Minute,
		},
		Catalog: CatalogConfig{
			CacheTTL: time.Minute,
		},
	}
}

// ApplyEnv overrides file values with environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SECRETS_PROVIDER"); v != "" {
		c.Secrets.Provider = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" && c.Secrets.Region == "" {
		c.Secrets.Region = v
	}
	if v := os.Getenv("DIRECTORY_SOURCE"); v != "" {
		c.Directory.Source = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("ROUTER_HEALTH_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ROUTER_HEALTH_CHECK_INTERVAL %q: %w", v, err)
		}
		c.Router.HealthCheckInterval = d
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (set DATABASE_URL)")
	}

	switch c.Directory.Source {
	case DirectorySourceDatabase:
		if c.Directory.Table == "" {
			return fmt.Errorf("directory table is required for the database source")
		}
	case DirectorySourceFile:
		seen := make(map[string]bool, len(c.Tenants))
		for i := range c.Tenants {
			t := &c.Tenants[i]
			if err := t.Validate(); err != nil {
				return fmt.Errorf("tenant #%d: %w", i, err)
			}
			if seen[t.TenantKey] {
				return fmt.Errorf("duplicate tenant key %q", t.TenantKey)
			}
			seen[t.TenantKey] = true
		}
	default:
		return fmt.Errorf("invalid directory source %q (want %q or %q)",
			c.Directory.Source, DirectorySourceDatabase, DirectorySourceFile)
	}

	switch strings.ToLower(c.Secrets.Provider) {
	case "", SecretsProviderAWS, SecretsProviderEnv, SecretsProviderLocal:
	default:
		return fmt.Errorf("invalid secrets provider %q", c.Secrets.Provider)
	}

	if !c.Auth.Disabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required unless auth is disabled")
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
