package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Cache holding at most maxEntries values, each
// for ttl. When full it drops expired entries first, then the entry
// closest to expiry.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memEntry
	ttl        time.Duration
	maxEntries int
	closed     bool
	stats      Stats

	now func() time.Time
}

func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		entries:    make(map[string]memEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	closed := m.closed
	m.mu.RUnlock()

	if closed {
		m.stats.fail()
		return false, ErrClosed
	}
	if !ok || !m.now().Before(e.expires) {
		m.stats.miss()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		m.stats.fail()
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	m.stats.hit()
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		m.stats.fail()
		return fmt.Errorf("cache marshal error: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		m.stats.fail()
		return ErrClosed
	}
	now := m.now()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.makeRoom(now)
	}
	m.entries[key] = memEntry{data: data, expires: now.Add(m.ttl)}
	m.stats.set()
	return nil
}

// makeRoom must be called with mu held.
func (m *Memory) makeRoom(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
			m.stats.evict()
		}
	}
	if len(m.entries) < m.maxEntries {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range m.entries {
		if victim == "" || e.expires.Before(soonest) {
			victim, soonest = k, e.expires
		}
	}
	delete(m.entries, victim)
	m.stats.evict()
}

func (m *Memory) Stats() StatsSnapshot {
	m.mu.RLock()
	n := len(m.entries)
	m.mu.RUnlock()
	return m.stats.snapshot("memory", n)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.entries = nil
	return nil
}
