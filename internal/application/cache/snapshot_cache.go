// Package cache mantiene en memoria el último resultado de un cálculo costoso
// (estructura y estadísticas globales) con un TTL fijo.
//
// El valor se publica como una instantánea inmutable mediante un puntero atómico:
// los lectores nunca ven un estado a medio escribir. Las solicitudes que llegan
// mientras se calcula esperan el mismo resultado (single-flight).
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL vigencia de una instantánea.
const DefaultTTL = 5 * time.Minute

// State estado observable de la caché.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateComputing State = "COMPUTING"
	StateFresh     State = "FRESH"
	StateStale     State = "STALE"
)

const flightKey = "snapshot"

type entry[T any] struct {
	value      T
	computedAt time.Time
}

// ComputeFunc calcula un valor nuevo. Recibe un contexto sin cancelación: el cálculo
// termina aunque el cliente que lo disparó se desconecte.
type ComputeFunc[T any] func(ctx context.Context) (T, error)

// SnapshotCache caché de lectura con una sola instantánea.
type SnapshotCache[T any] struct {
	compute ComputeFunc[T]
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger

	current   atomic.Pointer[entry[T]]
	computing atomic.Int32
	group     singleflight.Group

	mu         sync.Mutex // serializa publicar e invalidar
	generation uint64
}

// New crea la caché vacía.
func New[T any](compute ComputeFunc[T], ttl time.Duration, log zerolog.Logger) *SnapshotCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotCache[T]{compute: compute, ttl: ttl, now: time.Now, log: log}
}

// WithClock reemplaza el reloj (pruebas).
func (c *SnapshotCache[T]) WithClock(now func() time.Time) *SnapshotCache[T] {
	c.now = now
	return c
}

// Get devuelve la instantánea vigente o espera un cálculo nuevo.
// Un error de cálculo no se guarda: el siguiente Get vuelve a intentar.
func (c *SnapshotCache[T]) Get(ctx context.Context) (T, error) {
	if e := c.current.Load(); e != nil && c.fresh(e) {
		return e.value, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(*entry[T]).value, nil
	}
}

func (c *SnapshotCache[T]) refresh(ctx context.Context) (*entry[T], error) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	c.computing.Add(1)
	defer c.computing.Add(-1)

	start := c.now()
	value, err := c.compute(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("error calculando instantánea")
		return nil, err
	}
	e := &entry[T]{value: value, computedAt: c.now()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		// invalidada durante el cálculo: se entrega a quienes esperaban pero no se publica
		c.log.Debug().Msg("instantánea descartada por invalidación")
		return e, nil
	}
	c.current.Store(e)
	c.log.Info().Dur("duration", e.computedAt.Sub(start)).Msg("instantánea publicada")
	return e, nil
}

// Invalidate descarta la instantánea. Un cálculo en curso no llega a publicarse y
// el próximo Get inicia uno nuevo.
func (c *SnapshotCache[T]) Invalidate() {
	c.mu.Lock()
	c.generation++
	c.current.Store(nil)
	c.group.Forget(flightKey)
	c.mu.Unlock()
}

// State EMPTY, COMPUTING, FRESH o STALE.
func (c *SnapshotCache[T]) State() State {
	if c.computing.Load() > 0 {
		return StateComputing
	}
	e := c.current.Load()
	switch {
	case e == nil:
		return StateEmpty
	case c.fresh(e):
		return StateFresh
	default:
		return StateStale
	}
}

// ComputedAt momento de la instantánea publicada (cero si no hay).
func (c *SnapshotCache[T]) ComputedAt() time.Time {
	if e := c.current.Load(); e != nil {
		return e.computedAt
	}
	return time.Time{}
}

// TTL vigencia configurada.
func (c *SnapshotCache[T]) TTL() time.Duration { return c.ttl }

func (c *SnapshotCache[T]) fresh(e *entry[T]) bool {
	return c.now().Sub(e.computedAt) < c.ttl
}
