// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package expediente

import (
	"context"
	"sort"
	"sync"
)

// Repository persists expedientes. Delete must be committed before it
// returns; Save stores header and documents atomically.
type Repository interface {
	Delete(ctx context.Context, key string) error
	Save(ctx context.Context, exp *Expediente) error
	Get(ctx context.Context, key string) (*Expediente, error)
	Ping(ctx context.Context) error
}

// MemoryRepository keeps expedientes in memory
type MemoryRepository struct {
	mu          sync.RWMutex
	expedientes map[string]*Expediente
	documentIDs map[string]string

	// Error injection for testing
	DeleteErr error
	SaveErr   error
	GetErr    error
	PingErr   error
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		expedientes: make(map[string]*Expediente),
		documentIDs: make(map[string]string),
	}
}

// Ensure MemoryRepository implements Repository
var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if exp, ok := r.expedientes[key]; ok {
		for _, d := range exp.Documents {
			delete(r.documentIDs, d.ID)
		}
		delete(r.expedientes, key)
	}
	return nil
}

// Save rejects an existing key or a duplicate document id the same way
// the primary keys of the SQL schema do.
func (r *MemoryRepository) Save(ctx context.Context, exp *Expediente) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.expedientes[exp.Key]; ok {
		return ErrAlreadyExists
	}
	seen := make(map[string]bool, len(exp.Documents))
	for _, d := range exp.Documents {
		if _, ok := r.documentIDs[d.ID]; ok || seen[d.ID] {
			return ErrAlreadyExists
		}
		seen[d.ID] = true
	}

	cp := *exp
	cp.Documents = append([]Document(nil), exp.Documents...)
	r.expedientes[exp.Key] = &cp
	for _, d := range exp.Documents {
		r.documentIDs[d.ID] = exp.Key
	}
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, key string) (*Expediente, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	exp, ok := r.expedientes[key]
	if !ok {
		return nil, notFound("expediente %s", key)
	}
	cp := *exp
	cp.Documents = append([]Document(nil), exp.Documents...)
	return &cp, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return r.PingErr
}

// Keys returns the stored expediente keys in order
func (r *MemoryRepository) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.expedientes))
	for k := range r.expedientes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DocumentCount returns the number of stored documents across expedientes
func (r *MemoryRepository) DocumentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.documentIDs)
}
