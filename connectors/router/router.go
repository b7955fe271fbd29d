// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kostasense/software-back-sub000/connectors/base"
)

// ErrRouterClosed is returned by Acquire after Shutdown
var ErrRouterClosed = errors.New("connection router is closed")

// Directory resolves tenant keys to connection descriptors
type Directory interface {
	ConnectionDescriptor(ctx context.Context, tenantKey string) (*base.Descriptor, error)
}

// ConnectorFactory creates an unconnected connector for an engine
type ConnectorFactory func(engine string) (base.Connector, error)

// tenantEntry is a live connection and the descriptor it was built from
type tenantEntry struct {
	connector   base.Connector
	descriptor  *base.Descriptor
	createdAt   time.Time
	lastAccess  time.Time
	lastHealthy time.Time
}

// Router owns one pooled connection per tenant. Connections are created on
// first demand, shared by every caller, and rebuilt from a fresh directory
// read after eviction.
type Router struct {
	mu      sync.RWMutex
	entries map[string]*tenantEntry
	closed  bool

	group     singleflight.Group
	directory Directory

	// generations counts releases per tenant key. A connect attempt that
	// started under an older generation does not install its connection.
	generations map[string]uint64
	factory   ConnectorFactory

	healthCheckInterval time.Duration
	connectTimeout      time.Duration

	now    func() time.Time
	logger *log.Logger
	stats  RouterStats
}

// RouterStats tracks router activity
type RouterStats struct {
	mu           sync.Mutex
	Hits         int64
	Misses       int64
	Creations    int64
	Failures     int64
	Evictions    int64
	LastEviction time.Time
	LastCreation time.Time
}

// Options holds options for creating a Router
type Options struct {
	// HealthCheckInterval makes Acquire ping a connection whose last
	// successful check is older than the interval. Zero disables it.
	HealthCheckInterval time.Duration

	// ConnectTimeout bounds Connect when set; otherwise the descriptor
	// timeout applies.
	ConnectTimeout time.Duration

	Logger *log.Logger
}

// New creates a Router reading descriptors from directory and building
// connectors with factory. A nil factory selects NewConnector.
func New(directory Directory, factory ConnectorFactory, opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[CONNECTION_ROUTER] ", log.LstdFlags)
	}
	if factory == nil {
		factory = NewConnector
	}

	return &Router{
		entries:             make(map[string]*tenantEntry),
		generations:         make(map[string]uint64),
		directory:           directory,
		factory:             factory,
		healthCheckInterval: opts.HealthCheckInterval,
		connectTimeout:      opts.ConnectTimeout,
		now:                 time.Now,
		logger:              logger,
	}
}

// Acquire returns the live connection for tenantKey, creating it when absent.
// Concurrent calls for the same unconnected key share one connection attempt.
// The shared attempt is not tied to any caller's cancellation; a caller whose
// ctx ends stops waiting and gets ctx.Err() while the attempt completes for
// the others.
//
// Errors: base.ErrTenantNotConfigured when the directory has no entry or no
// endpoint, *base.ConfigurationError for a malformed descriptor,
// *base.ConnectorError when the connection cannot be established.
func (r *Router) Acquire(ctx context.Context, tenantKey string) (base.Connector, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrRouterClosed
	}
	entry := r.entries[tenantKey]
	r.mu.RUnlock()

	if entry != nil {
		if !r.needsHealthCheck(entry) || r.checkHealth(ctx, tenantKey, entry) {
			r.touch(tenantKey, entry)
			r.recordHit()
			acquireTotal.WithLabelValues("hit").Inc()
			return entry.connector, nil
		}
		r.evict(ctx, tenantKey, entry, "unhealthy")
	}

	flight := r.group.DoChan(tenantKey, func() (interface{}, error) {
		return r.connect(context.WithoutCancel(ctx), tenantKey)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(base.Connector), nil
	}
}

// connect builds the connection for tenantKey. Only one call per key runs at
// a time. When the key is released while the attempt is in flight, the new
// connection is closed and rebuilt from a fresh directory read.
func (r *Router) connect(ctx context.Context, tenantKey string) (base.Connector, error) {
	for {
		connector, stale, err := r.connectOnce(ctx, tenantKey)
		if err != nil || !stale {
			return connector, err
		}
		r.logger.Printf("Tenant '%s' released while connecting, rebuilding", tenantKey)
	}
}

// connectOnce makes one connection attempt. stale reports that a Release
// happened during the attempt; the connection was then closed, not installed.
func (r *Router) connectOnce(ctx context.Context, tenantKey string) (_ base.Connector, stale bool, _ error) {
	// Double-check if a previous flight already installed it
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, false, ErrRouterClosed
	}
	if entry, ok := r.entries[tenantKey]; ok {
		r.mu.RUnlock()
		r.recordHit()
		acquireTotal.WithLabelValues("hit").Inc()
		return entry.connector, false, nil
	}
	generation := r.generations[tenantKey]
	r.mu.RUnlock()

	r.recordMiss()
	acquireTotal.WithLabelValues("miss").Inc()

	lookupCtx, cancelLookup := context.WithTimeout(ctx, r.lookupTimeout())
	desc, err := r.directory.ConnectionDescriptor(lookupCtx, tenantKey)
	cancelLookup()
	if err != nil {
		r.recordFailure(failureReason(err))
		r.logger.Printf("Failed to read descriptor for tenant '%s': %v", tenantKey, err)
		return nil, false, err
	}
	if !desc.HasEndpoint() {
		r.recordFailure("not_configured")
		return nil, false, fmt.Errorf("%w: %s has no endpoint", base.ErrTenantNotConfigured, tenantKey)
	}
	if err := desc.Validate(); err != nil {
		r.recordFailure("configuration")
		return nil, false, err
	}

	connector, err := r.factory(desc.Engine)
	if err != nil {
		r.recordFailure("configuration")
		return nil, false, base.NewConfigurationError(tenantKey, "engine", err.Error())
	}

	timeout := desc.EffectiveTimeout()
	if r.connectTimeout > 0 {
		timeout = r.connectTimeout
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := r.now()
	if err := connector.Connect(connectCtx, desc); err != nil {
		r.recordFailure("unreachable")
		r.logger.Printf("Failed to connect tenant '%s' (%s at %s): %v", tenantKey, desc.Engine, desc.Host, err)
		if !base.IsUnreachable(err) {
			err = base.NewConnectorError(tenantKey, "Connect", "connection failed", err)
		}
		return nil, false, err
	}
	connectDuration.WithLabelValues(desc.Engine).Observe(r.now().Sub(start).Seconds())

	now := r.now()
	entry := &tenantEntry{
		connector:   connector,
		descriptor:  desc,
		createdAt:   now,
		lastAccess:  now,
		lastHealthy: now,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = connector.Disconnect(context.Background())
		return nil, false, ErrRouterClosed
	}
	if r.generations[tenantKey] != generation {
		r.mu.Unlock()
		_ = r.disconnect(ctx, tenantKey, entry)
		return nil, true, nil
	}
	r.entries[tenantKey] = entry
	open := len(r.entries)
	r.mu.Unlock()

	r.recordCreation()
	openConnections.Set(float64(open))
	r.logger.Printf("Connected tenant '%s' (%s, %s/%s)", tenantKey, desc.Engine, desc.Host, desc.Database)

	return connector, false, nil
}

// lookupTimeout bounds the directory read of a connect attempt
func (r *Router) lookupTimeout() time.Duration {
	if r.connectTimeout > 0 {
		return r.connectTimeout
	}
	return base.DefaultTimeout
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, base.ErrNotFound):
		return "not_configured"
	case base.IsConfiguration(err):
		return "configuration"
	default:
		return "directory"
	}
}

func (r *Router) needsHealthCheck(entry *tenantEntry) bool {
	if r.healthCheckInterval <= 0 {
		return false
	}
	r.mu.RLock()
	last := entry.lastHealthy
	r.mu.RUnlock()
	return r.now().Sub(last) > r.healthCheckInterval
}

// checkHealth pings the connection and records success on the entry
func (r *Router) checkHealth(ctx context.Context, tenantKey string, entry *tenantEntry) bool {
	status, err := entry.connector.HealthCheck(ctx)
	if err != nil || status == nil || !status.Healthy {
		r.logger.Printf("Tenant '%s' failed health check", tenantKey)
		return false
	}

	r.mu.Lock()
	entry.lastHealthy = r.now()
	r.mu.Unlock()
	return true
}

func (r *Router) touch(tenantKey string, entry *tenantEntry) {
	r.mu.Lock()
	entry.lastAccess = r.now()
	r.mu.Unlock()
}

// evict removes entry if it is still the live entry for tenantKey and
// closes it. A newer entry installed concurrently is left alone.
func (r *Router) evict(ctx context.Context, tenantKey string, entry *tenantEntry, reason string) bool {
	r.mu.Lock()
	current, ok := r.entries[tenantKey]
	if !ok || current != entry {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, tenantKey)
	open := len(r.entries)
	r.mu.Unlock()

	openConnections.Set(float64(open))
	r.recordEvictions(1, reason)
	r.disconnect(ctx, tenantKey, entry)
	r.logger.Printf("Evicted tenant '%s' (%s)", tenantKey, reason)
	return true
}

func (r *Router) disconnect(ctx context.Context, tenantKey string, entry *tenantEntry) error {
	disconnectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := entry.connector.Disconnect(disconnectCtx); err != nil {
		r.logger.Printf("Warning: Failed to disconnect tenant '%s': %v", tenantKey, err)
		return err
	}
	return nil
}

// Release evicts and closes the connection for tenantKey. The next Acquire
// rebuilds it from a fresh directory read. An attempt already connecting
// tenantKey discards its connection and reconnects with a fresh descriptor.
func (r *Router) Release(ctx context.Context, tenantKey string) error {
	r.mu.Lock()
	r.generations[tenantKey]++
	entry, ok := r.entries[tenantKey]
	if ok {
		delete(r.entries, tenantKey)
	}
	open := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	openConnections.Set(float64(open))
	r.recordEvictions(1, "release")
	r.logger.Printf("Released tenant '%s'", tenantKey)
	return r.disconnect(ctx, tenantKey, entry)
}

// Shutdown closes every live connection. Later acquisitions fail with
// ErrRouterClosed.
func (r *Router) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.entries
	r.entries = make(map[string]*tenantEntry)
	r.mu.Unlock()

	r.logger.Printf("Disconnecting %d tenant connections...", len(entries))

	var errs []error
	for key, entry := range entries {
		if err := r.disconnect(ctx, key, entry); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", key, err))
		}
	}
	if len(entries) > 0 {
		r.recordEvictions(len(entries), "shutdown")
	}
	openConnections.Set(0)

	r.logger.Println("All tenant connections disconnected")
	return errors.Join(errs...)
}

// QueryTenant runs statement against tenantKey with positional args. When
// the query fails and the connection also fails a health check, the
// connection is evicted so the next call rebuilds it.
func (r *Router) QueryTenant(ctx context.Context, tenantKey, statement string, args ...interface{}) ([]base.Row, error) {
	connector, err := r.Acquire(ctx, tenantKey)
	if err != nil {
		return nil, err
	}

	start := r.now()
	result, err := connector.Query(ctx, &base.Query{Statement: statement, Args: args})
	queryDuration.WithLabelValues(tenantKey).Observe(r.now().Sub(start).Seconds())

	if err != nil {
		queryFailures.WithLabelValues(tenantKey).Inc()
		status, herr := connector.HealthCheck(ctx)
		if herr != nil || status == nil || !status.Healthy {
			r.mu.RLock()
			entry := r.entries[tenantKey]
			r.mu.RUnlock()
			if entry != nil && entry.connector == connector {
				r.evict(ctx, tenantKey, entry, "query_failure")
			}
		}
		if !base.IsUnreachable(err) {
			err = base.NewConnectorError(tenantKey, "Query", "query failed", err)
		}
		return nil, err
	}

	return result.Rows, nil
}

// CheckAll pings every live connection and evicts the unhealthy ones. It
// returns the number of evictions.
func (r *Router) CheckAll(ctx context.Context) int {
	r.mu.RLock()
	snapshot := make(map[string]*tenantEntry, len(r.entries))
	for k, e := range r.entries {
		snapshot[k] = e
	}
	r.mu.RUnlock()

	evicted := 0
	for key, entry := range snapshot {
		if !r.checkHealth(ctx, key, entry) && r.evict(ctx, key, entry, "unhealthy") {
			evicted++
		}
	}
	return evicted
}

// StartPeriodicHealthCheck runs CheckAll every interval until ctx is done
func (r *Router) StartPeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Println("Stopping periodic tenant health checks")
				return
			case <-ticker.C:
				r.CheckAll(ctx)
			}
		}
	}()
}

// ConnectionInfo describes a live tenant connection
type ConnectionInfo struct {
	TenantKey   string    `json:"tenant_key"`
	Engine      string    `json:"engine"`
	Host        string    `json:"host"`
	Database    string    `json:"database"`
	CreatedAt   time.Time `json:"created_at"`
	LastAccess  time.Time `json:"last_access"`
	LastHealthy time.Time `json:"last_healthy"`
}

// Connected returns the live connections ordered by tenant key
func (r *Router) Connected() []ConnectionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ConnectionInfo, 0, len(r.entries))
	for key, e := range r.entries {
		out = append(out, ConnectionInfo{
			TenantKey:   key,
			Engine:      e.descriptor.Engine,
			Host:        e.descriptor.Host,
			Database:    e.descriptor.Database,
			CreatedAt:   e.createdAt,
			LastAccess:  e.lastAccess,
			LastHealthy: e.lastHealthy,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantKey < out[j].TenantKey })
	return out
}

// Count returns the number of live connections
func (r *Router) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// GetStats returns router statistics
func (r *Router) GetStats() RouterStats {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()

	// Return a copy of stats values to avoid copying the mutex
	return RouterStats{
		Hits:         r.stats.Hits,
		Misses:       r.stats.Misses,
		Creations:    r.stats.Creations,
		Failures:     r.stats.Failures,
		Evictions:    r.stats.Evictions,
		LastEviction: r.stats.LastEviction,
		LastCreation: r.stats.LastCreation,
	}
}

// HitRate returns the share of acquisitions served by a live connection (0-100)
func (r *Router) HitRate() float64 {
	r.stats.mu.Lock()
	defer r.stats.mu.Unlock()

	total := r.stats.Hits + r.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(r.stats.Hits) / float64(total) * 100
}

func (r *Router) recordHit() {
	r.stats.mu.Lock()
	r.stats.Hits++
	r.stats.mu.Unlock()
}

func (r *Router) recordMiss() {
	r.stats.mu.Lock()
	r.stats.Misses++
	r.stats.mu.Unlock()
}

func (r *Router) recordCreation() {
	r.stats.mu.Lock()
	r.stats.Creations++
	r.stats.LastCreation = r.now()
	r.stats.mu.Unlock()
	connectionsCreated.Inc()
}

func (r *Router) recordFailure(reason string) {
	r.stats.mu.Lock()
	r.stats.Failures++
	r.stats.mu.Unlock()
	connectFailures.WithLabelValues(reason).Inc()
}

func (r *Router) recordEvictions(count int, reason string) {
	r.stats.mu.Lock()
	r.stats.Evictions += int64(count)
	r.stats.LastEviction = r.now()
	r.stats.mu.Unlock()
	evictionsTotal.WithLabelValues(reason).Add(float64(count))
}
