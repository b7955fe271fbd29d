// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package base

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorValidate(t *testing.T) {
	valid := func() *Descriptor {
		return &Descriptor{
			TenantKey: "sistemas",
			Engine:    EngineMySQL,
			Host:      "10.0.0.5",
			Port:      3306,
			Username:  "expedientes",
			Database:  "sistemas",
		}
	}

	tests := []struct {
		name      string
		mutate    func(d *Descriptor)
		wantField string
	}{
		{"valid", func(d *Descriptor) {}, ""},
		{"empty key", func(d *Descriptor) { d.TenantKey = " " }, "tenant_key"},
		{"bad engine", func(d *Descriptor) { d.Engine = "oracle" }, "engine"},
		{"bad port", func(d *Descriptor) { d.Port = 70000 }, "port"},
		{"no database", func(d *Descriptor) { d.Database = "" }, "database"},
		{"no username", func(d *Descriptor) { d.Username = "" }, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			err := d.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
			assert.True(t, IsConfiguration(err))
		})
	}
}

func TestDescriptorDefaults(t *testing.T) {
	d := &Descriptor{Engine: EnginePostgres}
	assert.Equal(t, 5432, d.DefaultPort())
	assert.Equal(t, DefaultTimeout, d.EffectiveTimeout())

	d = &Descriptor{Engine: EngineMySQL, Timeout: 3 * time.Second}
	assert.Equal(t, 3306, d.DefaultPort())
	assert.Equal(t, 3*time.Second, d.EffectiveTimeout())

	assert.False(t, (*Descriptor)(nil).HasEndpoint())
	assert.True(t, (&Descriptor{Host: "db"}).HasEndpoint())
}

func TestErrorTaxonomy(t *testing.T) {
	assert.True(t, errors.Is(ErrTenantNotConfigured, ErrNotFound))

	wrapped := fmt.Errorf("acquire posgrado: %w", ErrTenantNotConfigured)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	cause := errors.New("dial tcp: connection refused")
	connErr := NewConnectorError("sistemas", "Connect", "failed to ping database", cause)
	assert.Equal(t, "sistemas.Connect: failed to ping database (cause: dial tcp: connection refused)", connErr.Error())
	assert.True(t, errors.Is(connErr, cause))
	assert.True(t, IsUnreachable(fmt.Errorf("generate: %w", connErr)))
	assert.False(t, IsUnreachable(cause))

	noCause := NewConnectorError("rh", "Query", "database not connected", nil)
	assert.Equal(t, "rh.Query: database not connected", noCause.Error())
}

func TestRowAccessors(t *testing.T) {
	row := Row{
		"nombre":   "Ana",
		"bytes":    []byte("texto"),
		"horas":    int64(22),
		"horasTxt": "18",
		"calif":    "87.5",
		"flag":     int64(1),
		"flagTxt":  "true",
		"fecha":    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"nulo":     nil,
	}

	s, ok := row.String("nombre")
	assert.True(t, ok)
	assert.Equal(t, "Ana", s)

	s, ok = row.String("bytes")
	assert.True(t, ok)
	assert.Equal(t, "texto", s)

	_, ok = row.String("nulo")
	assert.False(t, ok)
	assert.False(t, row.Has("nulo"))
	assert.False(t, row.Has("missing"))

	n, ok := row.Int("horas")
	assert.True(t, ok)
	assert.EqualValues(t, 22, n)

	n, ok = row.Int("horasTxt")
	assert.True(t, ok)
	assert.EqualValues(t, 18, n)

	f, ok := row.Float("calif")
	assert.True(t, ok)
	assert.InDelta(t, 87.5, f, 0.001)

	assert.True(t, row.Bool("flag"))
	assert.True(t, row.Bool("flagTxt"))
	assert.False(t, row.Bool("nulo"))

	assert.Equal(t, "2024-03-01", row.Normalize("fecha"))
	assert.Equal(t, "texto", row.Normalize("bytes"))
	assert.Nil(t, row.Normalize("missing"))
}

func TestConnectorIsReadOnly(t *testing.T) {
	iface := reflect.TypeOf((*Connector)(nil)).Elem()

	var methods []string
	for i := 0; i < iface.NumMethod(); i++ {
		methods = append(methods, iface.Method(i).Name)
	}
	assert.ElementsMatch(t, []string{"Connect", "Disconnect", "HealthCheck", "Query", "Name", "Type"}, methods)
}
