// Package ratelimit provides fixed-window request admission keyed by an
// opaque string (client IP, or client:document for per-resource limits).
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CleanupInterval is the cadence of the background janitor.
const CleanupInterval = 5 * time.Minute

// UnknownClient is the shared fail-safe bucket for requests whose origin
// cannot be identified from forwarding headers. Unidentified clients all
// compete for the same budget rather than each getting their own.
const UnknownClient = "unknown"

// Limiter is the admission contract. Check returns true when the request
// must be rejected. Implementations are constructed once at startup and
// injected into the handler layer.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (limited bool, err error)
	Cleanup()
}

type entry struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local fixed-window counter. Counters reset at fixed
// boundaries, so bursts straddling a reset can reach 2x the limit; that is
// an accepted trade-off against casual abuse, not adversarial precision.
// State does not survive restarts and is not shared across instances; use
// Redis for multi-instance deployments.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time // overridable in tests
}

// NewMemory returns an empty in-memory limiter.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check admits or rejects one request against the key's current window.
// A missing or expired entry starts a fresh window; a saturated entry is
// rejected without incrementing further.
func (m *Memory) Check(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || now.After(e.resetAt) {
		m.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return false, nil
	}
	if e.count >= limit {
		return true, nil
	}
	e.count++
	return false, nil
}

// Cleanup drops expired entries to bound memory. Safe to run concurrently
// with Check: it only removes windows that have already passed.
func (m *Memory) Cleanup() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if now.After(e.resetAt) {
			delete(m.entries, key)
		}
	}
}

// StartJanitor runs Cleanup every CleanupInterval until ctx is canceled.
func (m *Memory) StartJanitor(ctx context.Context) {
	go func() {
		t := time.NewTicker(CleanupInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
