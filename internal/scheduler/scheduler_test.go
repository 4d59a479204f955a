package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherstack-dashboard/internal/observability"
	"github.com/i474232898/weatherstack-dashboard/internal/store"
	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

type countingEvictor struct {
	calls   atomic.Int32
	maxIdle atomic.Int64
}

func (c *countingEvictor) EvictIdle(maxIdle time.Duration) int {
	c.calls.Add(1)
	c.maxIdle.Store(int64(maxIdle))
	return 0
}

func TestSweep_EvictsIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	registry := store.NewRegistry(10, weather.SearchFilters{}, clock, observability.NewMetricsForTesting())

	stale := registry.Create()
	clock.Advance(20 * time.Minute)
	fresh := registry.Create()
	clock.Advance(15 * time.Minute)

	s := New(registry, 30*time.Minute, time.Minute, observability.NopLogger())
	s.Sweep()

	_, err := registry.Get(stale.ID())
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = registry.Get(fresh.ID())
	assert.NoError(t, err)
	assert.Equal(t, 1, registry.Len())
}

func TestStart_RunsSweepPeriodically(t *testing.T) {
	evictor := &countingEvictor{}
	s := New(evictor, time.Hour, 50*time.Millisecond, observability.NopLogger())

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return evictor.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(time.Hour), evictor.maxIdle.Load())
}

func TestStart_DisabledExpiry(t *testing.T) {
	evictor := &countingEvictor{}
	s := New(evictor, 0, time.Minute, observability.NopLogger())

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, evictor.calls.Load())
}

func TestStart_InvalidInterval(t *testing.T) {
	s := New(&countingEvictor{}, time.Minute, 0, observability.NopLogger())
	assert.Error(t, s.Start())
}
