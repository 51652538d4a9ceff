// Package keylock serializes work per string key inside one process.
//
// Orchestrators wrap every load-mutate-save cycle for a party or a solo
// player in a section keyed by that identity. Stores add version checks on
// top, so writers in other processes are still rejected when stale.
package keylock

import (
	"context"
	"sync"
)

// Locker runs functions one at a time per key.
type Locker interface {
	// Do runs fn while holding the lock for key. It returns ctx.Err() without
	// running fn if the context ends while waiting.
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type entry struct {
	sem  chan struct{}
	refs int
}

// Map is a Locker backed by one channel semaphore per active key. Entries
// are dropped when no caller holds or waits on them.
type Map struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty Map
func New() *Map {
	return &Map{entries: make(map[string]*entry)}
}

var _ Locker = (*Map)(nil)

// Do implements Locker
func (m *Map) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	e := m.acquire(key)
	defer m.release(key, e)

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-e.sem }()

	return fn(ctx)
}

// Len reports the number of keys currently held or waited on.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Map) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Map) release(key string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}
