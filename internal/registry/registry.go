// Package registry holds the caches generated during a session.
//
// A cache is created the first time its cell is requested and the spawner
// says one belongs there. After that the same *entity.Cache is returned for
// the rest of the session, so coins moved in or out are never regenerated.
package registry

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/cachequest/internal/entity"
	"github.com/samdwyer/cachequest/internal/telemetry"
	"github.com/samdwyer/cachequest/internal/world"
)

// Spawner decides cache presence and starting stock for a cell.
// world.Generator is the production implementation.
type Spawner interface {
	ShouldSpawn(cell world.CellID) bool
	InitialItemCount(cell world.CellID) int
}

// Registry maps cells to their caches.
type Registry struct {
	spawner Spawner
	tracer  trace.Tracer

	caches map[world.CellID]*entity.Cache
	order  []world.CellID // creation order, for rendering

	memoAbsent bool
	absent     map[world.CellID]struct{}

	subs      []subscription
	nextSubID int
}

// Option configures a Registry.
type Option func(*Registry)

// WithNegativeMemo remembers cells that did not spawn so the spawner is asked once per cell.
// The spawner is deterministic, so this never changes an outcome.
func WithNegativeMemo() Option {
	return func(r *Registry) {
		r.memoAbsent = true
	}
}

// WithTracer replaces the default "registry" tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = t
	}
}

// New creates an empty registry backed by spawner.
func New(spawner Spawner, opts ...Option) *Registry {
	r := &Registry{
		spawner: spawner,
		tracer:  telemetry.Tracer("registry"),
		caches:  make(map[world.CellID]*entity.Cache),
		absent:  make(map[world.CellID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the cache at cell, generating it on first request.
// It returns nil when no cache belongs at cell; that is an answer, not an error.
func (r *Registry) GetOrCreate(ctx context.Context, cell world.CellID) *entity.Cache {
	if c, ok := r.caches[cell]; ok {
		return c
	}
	if _, ok := r.absent[cell]; ok {
		return nil
	}

	_, span := r.tracer.Start(ctx, "cache.get_or_create")
	defer span.End()
	span.SetAttributes(
		attribute.Int("cell.row", cell.Row),
		attribute.Int("cell.col", cell.Col),
	)

	if !r.spawner.ShouldSpawn(cell) {
		if r.memoAbsent {
			r.absent[cell] = struct{}{}
		}
		span.SetAttributes(attribute.Bool("cache.spawned", false))
		return nil
	}

	c := entity.NewCache(cell, r.spawner.InitialItemCount(cell))
	r.caches[cell] = c
	r.order = append(r.order, cell)

	span.SetAttributes(
		attribute.Bool("cache.spawned", true),
		attribute.Int("cache.items", c.Len()),
	)
	log.Debug("cache created", "cell", cell, "items", c.Len())

	r.Publish(Event{Kind: EventCacheCreated, Cell: cell})
	return c
}

// Get returns the cache at cell if it has already been created, without generating one.
func (r *Registry) Get(cell world.CellID) *entity.Cache {
	return r.caches[cell]
}

// All returns every created cache in creation order.
func (r *Registry) All() []*entity.Cache {
	out := make([]*entity.Cache, 0, len(r.order))
	for _, cell := range r.order {
		out = append(out, r.caches[cell])
	}
	return out
}

// Within returns created caches whose cell corner lies inside b, in creation order.
func (r *Registry) Within(b orb.Bound, grid world.Grid) []*entity.Cache {
	var out []*entity.Cache
	for _, cell := range r.order {
		if b.Contains(grid.ToPosition(cell).Point()) {
			out = append(out, r.caches[cell])
		}
	}
	return out
}

// Len returns the number of created caches.
func (r *Registry) Len() int {
	return len(r.caches)
}
