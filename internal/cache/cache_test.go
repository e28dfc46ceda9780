package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answer struct {
	Question string `json:"question"`
	Output   string `json:"output"`
}

func TestKeyFor(t *testing.T) {
	k := KeyFor("Integrate x^2 dx")
	assert.True(t, strings.HasPrefix(k, "solve:"))
	assert.Equal(t, k, KeyFor("  integrate   X^2\tdx "))
	assert.NotEqual(t, k, KeyFor("integrate x^3 dx"))
}

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 10)

	var got answer
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := answer{Question: "integrate x", Output: "x^2/2"}
	require.NoError(t, m.Set(ctx, "k", want))

	found, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	s := m.Stats()
	assert.Equal(t, "memory", s.Backend)
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, uint64(1), s.Sets)
	assert.Equal(t, uint64(2), s.TotalGets)
	assert.Equal(t, 50.0, s.HitRate)
	assert.Equal(t, 1, s.Entries)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 10)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", answer{Output: "1"}))

	var got answer
	now = now.Add(59 * time.Second)
	found, _ := m.Get(ctx, "k", &got)
	assert.True(t, found)

	now = now.Add(time.Second)
	found, _ = m.Get(ctx, "k", &got)
	assert.False(t, found)
}

func TestMemory_Eviction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 2)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "a", answer{Output: "a"}))
	now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", answer{Output: "b"}))
	now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "c", answer{Output: "c"}))

	var got answer
	found, _ := m.Get(ctx, "a", &got)
	assert.False(t, found, "oldest entry is evicted")
	found, _ = m.Get(ctx, "c", &got)
	assert.True(t, found)

	// Overwriting an existing key never evicts.
	require.NoError(t, m.Set(ctx, "c", answer{Output: "c2"}))
	assert.Equal(t, 2, m.Stats().Entries)
	assert.Equal(t, uint64(1), m.Stats().Evicts)
}

func TestMemory_EvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 2)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "a", answer{}))
	require.NoError(t, m.Set(ctx, "b", answer{}))
	now = now.Add(2 * time.Minute)
	require.NoError(t, m.Set(ctx, "c", answer{}))

	assert.Equal(t, 1, m.Stats().Entries)
	assert.Equal(t, uint64(2), m.Stats().Evicts)
}

func TestMemory_Closed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 10)
	require.NoError(t, m.Close())

	_, err := m.Get(ctx, "k", &answer{})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(ctx, "k", answer{}), ErrClosed)
}

func TestMemory_UnmarshalError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 10)
	require.NoError(t, m.Set(ctx, "k", "a string"))

	var got answer
	_, err := m.Get(ctx, "k", &got)
	assert.Error(t, err)
	assert.Equal(t, uint64(1), m.Stats().Errors)
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i*100+j)%80)
				_ = m.Set(ctx, key, answer{Output: key})
				var got answer
				_, _ = m.Get(ctx, key, &got)
			}
		}(i)
	}
	wg.Wait()

	s := m.Stats()
	assert.LessOrEqual(t, s.Entries, 50)
	assert.Equal(t, uint64(800), s.Sets)
	assert.Equal(t, uint64(800), s.TotalGets)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	n := NewNoop()
	require.NoError(t, n.Set(ctx, "k", answer{}))

	found, err := n.Get(ctx, "k", &answer{})
	require.NoError(t, err)
	assert.False(t, found)

	s := n.Stats()
	assert.Equal(t, "none", s.Backend)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 0.0, s.HitRate)
	assert.NoError(t, n.Close())
}
