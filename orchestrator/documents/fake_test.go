// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package documents

import (
	"context"
	"strings"
	"sync"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

type call struct {
	tenant    string
	statement string
	args      []interface{}
}

// fakeQuerier answers by tenant and statement prefix
type fakeQuerier struct {
	mu      sync.Mutex
	results map[string][]base.Row
	errs    map[string]error
	calls   []call
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{results: map[string][]base.Row{}, errs: map[string]error{}}
}

func (f *fakeQuerier) on(tenant, prefix string, rows ...base.Row) {
	f.results[tenant+"|"+prefix] = rows
}

func (f *fakeQuerier) fail(tenant, prefix string, err error) {
	f.errs[tenant+"|"+prefix] = err
}

func (f *fakeQuerier) QueryTenant(ctx context.Context, tenant, statement string, args ...interface{}) ([]base.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{tenant: tenant, statement: statement, args: args})

	for k, err := range f.errs {
		t, prefix, _ := strings.Cut(k, "|")
		if t == tenant && strings.HasPrefix(statement, prefix) {
			return nil, err
		}
	}
	for k, rows := range f.results {
		t, prefix, _ := strings.Cut(k, "|")
		if t == tenant && strings.HasPrefix(statement, prefix) {
			return rows, nil
		}
	}
	return nil, nil
}

func (f *fakeQuerier) callsTo(tenant string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.tenant == tenant {
			out = append(out, c)
		}
	}
	return out
}
