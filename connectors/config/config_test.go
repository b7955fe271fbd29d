// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Database.URL = "postgres://localhost/expedientes"
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DirectorySourceDatabase, cfg.Directory.Source)
	assert.Equal(t, "directorio_conexiones", cfg.Directory.Table)
	assert.Equal(t, 30*time.Second, cfg.Router.HealthCheckInterval)
	assert.Equal(t, 2*time.Minute, cfg.Redis.LockTTL)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://central/db")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SECRETS_PROVIDER", "aws")
	t.Setenv("AWS_REGION", "us-west-2")
	t.Setenv("ALLOWED_ORIGINS", "https://a.edu, https://b.edu,")
	t.Setenv("ROUTER_HEALTH_CHECK_INTERVAL", "1m")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://central/db", cfg.Database.URL)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "aws", cfg.Secrets.Provider)
	assert.Equal(t, "us-west-2", cfg.Secrets.Region)
	assert.Equal(t, []string{"https://a.edu", "https://b.edu"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Router.HealthCheckInterval)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	assert.Error(t, Default().ApplyEnv())

	t.Setenv("PORT", "")
	t.Setenv("ROUTER_HEALTH_CHECK_INTERVAL", "often")
	assert.Error(t, Default().ApplyEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "out of range"},
		{"missing database", func(c *Config) { c.Database.URL = "" }, "database url"},
		{"bad source", func(c *Config) { c.Directory.Source = "ldap" }, "invalid directory source"},
		{"missing table", func(c *Config) { c.Directory.Table = "" }, "directory table"},
		{"bad provider", func(c *Config) { c.Secrets.Provider = "vault" }, "invalid secrets provider"},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt secret"},
		{"auth disabled", func(c *Config) { c.Auth.JWTSecret = ""; c.Auth.Disabled = true }, ""},
		{"file source bad tenant", func(c *Config) {
			c.Directory.Source = DirectorySourceFile
			c.Tenants = []base.Descriptor{{TenantKey: "x", Engine: "oracle"}}
		}, "tenant #0"},
		{"file source duplicate", func(c *Config) {
			c.Directory.Source = DirectorySourceFile
			d := base.Descriptor{TenantKey: "x", Engine: base.EngineMySQL, Host: "h", Database: "d", Username: "u"}
			c.Tenants = []base.Descriptor{d, d}
		}, "duplicate tenant key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
