// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/connectors/config"
)

// Directory maps tenant keys to connection descriptors. Every call returns a
// fresh descriptor; callers may keep it but must not expect it to change.
type Directory interface {
	ConnectionDescriptor(ctx context.Context, tenantKey string) (*base.Descriptor, error)
	ListTenants(ctx context.Context) ([]TenantSummary, error)
}

// TenantSummary is the public view of a directory entry
type TenantSummary struct {
	TenantKey   string `json:"tenant_key"`
	DisplayName string `json:"display_name"`
	Engine      string `json:"engine"`
	Host        string `json:"host"`
	Database    string `json:"database"`
}

func summarize(d *base.Descriptor) TenantSummary {
	return TenantSummary{
		TenantKey:   d.TenantKey,
		DisplayName: d.DisplayName,
		Engine:      d.Engine,
		Host:        d.Host,
		Database:    d.Database,
	}
}

// FileDirectory serves descriptors loaded from the service configuration
// file. Thread-safe for concurrent access.
type FileDirectory struct {
	tenants map[string]base.Descriptor
	secrets config.SecretsManager
	mu      sync.RWMutex
	logger  *log.Logger
}

// NewFileDirectory creates a directory over descriptors. secrets may be nil.
func NewFileDirectory(descriptors []base.Descriptor, secrets config.SecretsManager) *FileDirectory {
	d := &FileDirectory{
		tenants: make(map[string]base.Descriptor, len(descriptors)),
		secrets: secrets,
		logger:  log.New(os.Stdout, "[TENANT_DIRECTORY] ", log.LstdFlags),
	}
	for _, desc := range descriptors {
		d.tenants[desc.TenantKey] = desc
	}
	d.logger.Printf("Loaded %d tenant descriptors from file", len(descriptors))
	return d
}

// Put adds or replaces a descriptor
func (d *FileDirectory) Put(desc base.Descriptor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[desc.TenantKey] = desc
}

// Remove deletes a descriptor
func (d *FileDirectory) Remove(tenantKey string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.tenants, tenantKey)
}

// ConnectionDescriptor returns a copy of the descriptor for tenantKey with
// credentials resolved.
func (d *FileDirectory) ConnectionDescriptor(ctx context.Context, tenantKey string) (*base.Descriptor, error) {
	d.mu.RLock()
	desc, ok := d.tenants[tenantKey]
	d.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", base.ErrTenantNotConfigured, tenantKey)
	}

	out := copyDescriptor(&desc)
	if err := ResolveCredentials(ctx, out, d.secrets); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTenants returns every configured tenant ordered by key
func (d *FileDirectory) ListTenants(ctx context.Context) ([]TenantSummary, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]TenantSummary, 0, len(d.tenants))
	for _, desc := range d.tenants {
		desc := desc
		out = append(out, summarize(&desc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantKey < out[j].TenantKey })
	return out, nil
}

func copyDescriptor(src *base.Descriptor) *base.Descriptor {
	out := *src
	if src.Options != nil {
		out.Options = make(map[string]interface{}, len(src.Options))
		for k, v := range src.Options {
			out.Options[k] = v
		}
	}
	return &out
}

// ResolveCredentials fills username, password and any missing endpoint
// fields of desc from its credentials secret. Descriptors without a secret
// are left untouched.
func ResolveCredentials(ctx context.Context, desc *base.Descriptor, secrets config.SecretsManager) error {
	if desc.CredentialsSecret == "" {
		return nil
	}
	if secrets == nil {
		return base.NewConfigurationError(desc.TenantKey, "credentials_secret",
			"credentials secret set but no secrets provider is configured")
	}

	creds, err := secrets.GetSecret(ctx, desc.CredentialsSecret)
	if err != nil {
		return base.NewConfigurationError(desc.TenantKey, "credentials_secret", err.Error())
	}

	if v := creds["username"]; v != "" {
		desc.Username = v
	}
	if v := creds["password"]; v != "" {
		desc.Password = v
	}
	if v := creds["host"]; v != "" && desc.Host == "" {
		desc.Host = v
	}
	if v := creds["database"]; v != "" && desc.Database == "" {
		desc.Database = v
	}
	if v := creds["port"]; v != "" && desc.Port == 0 {
		port, err := strconv.Atoi(v)
		if err != nil {
			return base.NewConfigurationError(desc.TenantKey, "port", "secret port is not a number")
		}
		desc.Port = port
	}
	return nil
}
