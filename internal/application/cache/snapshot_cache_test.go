package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Henri-Funes/Vault-DTE/internal/application/cache"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct{ n int32 }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}

// ── Single-flight ───────────────────────────────────────────────────────────

func TestGet_ConcurrentesComparteUnSoloCalculo(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c := cache.New(func(context.Context) (*snapshot, error) {
		n := calls.Add(1)
		<-release
		return &snapshot{n: n}, nil
	}, cache.DefaultTTL, zerolog.Nop())

	const callers = 10
	results := make([]*snapshot, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Get(context.Background())
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}

	require.Eventually(t, func() bool { return c.State() == cache.StateComputing }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "un solo cálculo para todas las solicitudes")
	for _, s := range results {
		assert.Same(t, results[0], s, "todas reciben la misma instantánea")
	}
	assert.Equal(t, cache.StateFresh, c.State())
}

// ── TTL ─────────────────────────────────────────────────────────────────────

func TestGet_RespetaTTL(t *testing.T) {
	clock := newClock()
	var calls atomic.Int32
	c := cache.New(func(context.Context) (*snapshot, error) {
		return &snapshot{n: calls.Add(1)}, nil
	}, 5*time.Minute, zerolog.Nop()).WithClock(clock.Now)

	assert.Equal(t, cache.StateEmpty, c.State())

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	again, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again, "dentro del TTL no recalcula")
	assert.Equal(t, cache.StateFresh, c.State())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, cache.StateStale, c.State())

	third, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, clock.Now(), c.ComputedAt())
}

// ── Errores ─────────────────────────────────────────────────────────────────

func TestGet_ErrorNoSePublica(t *testing.T) {
	boom := errors.New("mongo caído")
	var fail atomic.Bool
	fail.Store(true)
	c := cache.New(func(context.Context) (*snapshot, error) {
		if fail.Load() {
			return nil, boom
		}
		return &snapshot{n: 1}, nil
	}, cache.DefaultTTL, zerolog.Nop())

	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, cache.StateEmpty, c.State())

	fail.Store(false)
	s, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.n)
}

// ── Invalidación ────────────────────────────────────────────────────────────

func TestInvalidate_ObligaARecalcular(t *testing.T) {
	var calls atomic.Int32
	c := cache.New(func(context.Context) (*snapshot, error) {
		return &snapshot{n: calls.Add(1)}, nil
	}, cache.DefaultTTL, zerolog.Nop())

	_, err := c.Get(context.Background())
	require.NoError(t, err)

	c.Invalidate()
	assert.Equal(t, cache.StateEmpty, c.State())
	assert.True(t, c.ComputedAt().IsZero())

	s, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), s.n)
}

func TestInvalidate_DuranteCalculoNoPublica(t *testing.T) {
	release := make(chan struct{})
	c := cache.New(func(context.Context) (*snapshot, error) {
		<-release
		return &snapshot{n: 1}, nil
	}, cache.DefaultTTL, zerolog.Nop())

	done := make(chan *snapshot)
	go func() {
		s, _ := c.Get(context.Background())
		done <- s
	}()

	require.Eventually(t, func() bool { return c.State() == cache.StateComputing }, time.Second, time.Millisecond)
	c.Invalidate()
	close(release)

	s := <-done
	require.NotNil(t, s, "quien esperaba recibe el resultado")
	assert.Equal(t, cache.StateEmpty, c.State(), "el resultado invalidado no se publica")
}

// ── Cancelación ─────────────────────────────────────────────────────────────

func TestGet_CancelacionDelClienteNoCortaElCalculo(t *testing.T) {
	release := make(chan struct{})
	c := cache.New(func(ctx context.Context) (*snapshot, error) {
		<-release
		return &snapshot{n: 1}, ctx.Err()
	}, cache.DefaultTTL, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error)
	go func() {
		_, err := c.Get(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return c.State() == cache.StateComputing }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return c.State() == cache.StateFresh }, time.Second, time.Millisecond)
}
