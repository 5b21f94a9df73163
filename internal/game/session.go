package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/cachequest/internal/entity"
	"github.com/samdwyer/cachequest/internal/registry"
	"github.com/samdwyer/cachequest/internal/telemetry"
	"github.com/samdwyer/cachequest/internal/world"
)

// Session errors. Callers match them with errors.Is and skip dependent UI updates.
var (
	ErrNoCache        = errors.New("no cache at this cell")
	ErrOutOfRange     = errors.New("cache is out of range")
	ErrCacheEmpty     = errors.New("cache is empty")
	ErrInventoryEmpty = errors.New("inventory is empty")
	ErrItemNotFound   = errors.New("coin not found")
	ErrNotDiscovered  = errors.New("cache not discovered yet")
)

// SessionConfig holds everything needed to start a session.
type SessionConfig struct {
	Grid             world.Grid
	Generator        world.Generator
	Start            world.Position
	VisibilityRadius int  // Cells generated and shown around the player
	MemoizeAbsent    bool // Remember cells without a cache
	HideEmptyCaches  bool // Leave caches with no coins out of Visible
}

// Validate checks the configuration before a session is built from it.
func (c SessionConfig) Validate() error {
	if c.Grid.CellSize <= 0 {
		return fmt.Errorf("cell size %v must be positive", c.Grid.CellSize)
	}
	if c.VisibilityRadius < 0 {
		return fmt.Errorf("visibility radius %d is negative", c.VisibilityRadius)
	}
	return c.Generator.Validate()
}

// Session owns the cache registry and the player for one play-through.
// All methods run on the caller's goroutine; a session is not shared.
type Session struct {
	cfg      SessionConfig
	registry *registry.Registry
	player   *entity.Player
	tracer   trace.Tracer
}

// NewSession creates a session with the player at cfg.Start. Call Refresh to generate
// the caches around the start.
func NewSession(cfg SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	var opts []registry.Option
	if cfg.MemoizeAbsent {
		opts = append(opts, registry.WithNegativeMemo())
	}

	return &Session{
		cfg:      cfg,
		registry: registry.New(cfg.Generator, opts...),
		player:   entity.NewPlayer(cfg.Start),
		tracer:   telemetry.Tracer("session"),
	}, nil
}

// Player returns the session's player.
func (s *Session) Player() *entity.Player { return s.player }

// Registry returns the session's cache registry.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Grid returns the session grid.
func (s *Session) Grid() world.Grid { return s.cfg.Grid }

// Config returns the configuration the session was built with.
func (s *Session) Config() SessionConfig { return s.cfg }

// PlayerCell returns the cell the player stands in.
func (s *Session) PlayerCell() world.CellID {
	return s.cfg.Grid.ToCell(s.player.Position)
}

// Move steps the player by whole cells and generates the caches that came into view.
func (s *Session) Move(ctx context.Context, dRow, dCol int) {
	ctx, span := s.tracer.Start(ctx, "session.move")
	defer span.End()

	grid := s.cfg.Grid
	from := s.PlayerCell()
	cell := from.Offset(dRow, dCol)

	// The new position is the target corner plus the offset inside the current cell,
	// or the target center when that sum rounds out of the target.
	fromCorner, toCorner := grid.ToPosition(from), grid.ToPosition(cell)
	pos := world.Position{
		Lat: toCorner.Lat + (s.player.Position.Lat - fromCorner.Lat),
		Lng: toCorner.Lng + (s.player.Position.Lng - fromCorner.Lng),
	}
	if grid.ToCell(pos) != cell {
		pos = grid.Center(cell)
	}
	s.player.MoveTo(pos)

	span.SetAttributes(
		attribute.String("player.id", s.player.ID.String()),
		attribute.Int("cell.row", cell.Row),
		attribute.Int("cell.col", cell.Col),
	)

	s.Refresh(ctx)
	s.registry.Publish(registry.Event{Kind: registry.EventPlayerMoved, Cell: cell})
}

// Refresh generates every cache within the visibility radius of the player.
func (s *Session) Refresh(ctx context.Context) {
	for _, cell := range s.cfg.Grid.CellsAround(s.PlayerCell(), s.cfg.VisibilityRadius) {
		s.registry.GetOrCreate(ctx, cell)
	}
}

// ViewBounds returns the map area currently in view.
func (s *Session) ViewBounds() orb.Bound {
	center := s.PlayerCell()
	r := s.cfg.VisibilityRadius
	lo := s.cfg.Grid.ToPosition(center.Offset(-r, -r))
	hi := s.cfg.Grid.ToPosition(center.Offset(r, r))
	return orb.Bound{Min: lo.Point(), Max: hi.Point()}
}

// Visible returns the created caches in view, in creation order.
func (s *Session) Visible() []*entity.Cache {
	var out []*entity.Cache
	for _, c := range s.registry.Within(s.ViewBounds(), s.cfg.Grid) {
		if s.cfg.HideEmptyCaches && c.Empty() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// InRange returns true if cell is inside the visibility window.
func (s *Session) InRange(cell world.CellID) bool {
	center := s.PlayerCell()
	r := s.cfg.VisibilityRadius
	return abs(cell.Row-center.Row) <= r && abs(cell.Col-center.Col) <= r
}

// Open returns the cache at cell, generating it if needed, and marks it discovered.
func (s *Session) Open(ctx context.Context, cell world.CellID) (*entity.Cache, error) {
	if !s.InRange(cell) {
		return nil, ErrOutOfRange
	}
	c := s.registry.GetOrCreate(ctx, cell)
	if c == nil {
		return nil, ErrNoCache
	}
	if s.player.Discover(cell) {
		log.Debug("cache discovered", "player", s.player.ID, "cell", cell)
	}
	return c, nil
}

// Collect moves a coin from the cache at cell into the inventory.
// A nil item takes the most recently added coin.
func (s *Session) Collect(ctx context.Context, cell world.CellID, item *entity.Item) (entity.Item, error) {
	ctx, span := s.tracer.Start(ctx, "session.collect")
	defer span.End()
	span.SetAttributes(attribute.Int("cell.row", cell.Row), attribute.Int("cell.col", cell.Col))

	c, err := s.Open(ctx, cell)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}

	coin, err := pick(c, item, ErrCacheEmpty)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}
	if !entity.Transfer(c, s.player.Inventory, coin) {
		err := fmt.Errorf("collect %s: %w", coin, ErrItemNotFound)
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}

	span.SetAttributes(attribute.String("item", coin.String()), attribute.Int("cache.items", c.Len()))
	log.Debug("coin collected", "item", coin, "cache_items", c.Len(), "inventory", s.player.Inventory.Len())
	s.registry.Publish(registry.Event{Kind: registry.EventItemCollected, Cell: cell, Item: &coin})
	return coin, nil
}

// Deposit moves a coin from the inventory into the cache at cell.
// A nil item deposits the most recently collected coin.
// Only discovered caches accept deposits.
func (s *Session) Deposit(ctx context.Context, cell world.CellID, item *entity.Item) (entity.Item, error) {
	ctx, span := s.tracer.Start(ctx, "session.deposit")
	defer span.End()
	span.SetAttributes(attribute.Int("cell.row", cell.Row), attribute.Int("cell.col", cell.Col))

	c, err := s.depositTarget(ctx, cell)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}

	coin, err := pick(s.player.Inventory, item, ErrInventoryEmpty)
	if err != nil {
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}
	if !entity.Transfer(s.player.Inventory, c, coin) {
		err := fmt.Errorf("deposit %s: %w", coin, ErrItemNotFound)
		span.SetAttributes(attribute.String("error", err.Error()))
		return entity.Item{}, err
	}

	span.SetAttributes(attribute.String("item", coin.String()), attribute.Int("cache.items", c.Len()))
	log.Debug("coin deposited", "item", coin, "cache_items", c.Len(), "inventory", s.player.Inventory.Len())
	s.registry.Publish(registry.Event{Kind: registry.EventItemDeposited, Cell: cell, Item: &coin})
	return coin, nil
}

// depositTarget returns the cache at cell if it may receive a deposit.
func (s *Session) depositTarget(ctx context.Context, cell world.CellID) (*entity.Cache, error) {
	if !s.InRange(cell) {
		return nil, ErrOutOfRange
	}
	c := s.registry.GetOrCreate(ctx, cell)
	if c == nil {
		return nil, ErrNoCache
	}
	if !s.player.HasDiscovered(cell) {
		return nil, ErrNotDiscovered
	}
	return c, nil
}

// source is a collection a transfer intent can pick from.
type source interface {
	Contains(item entity.Item) bool
	Last() (entity.Item, bool)
}

// pick resolves the coin a transfer intent refers to.
func pick(from source, item *entity.Item, errEmpty error) (entity.Item, error) {
	if item != nil {
		if !from.Contains(*item) {
			return entity.Item{}, fmt.Errorf("%s: %w", item, ErrItemNotFound)
		}
		return *item, nil
	}
	last, ok := from.Last()
	if !ok {
		return entity.Item{}, errEmpty
	}
	return last, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
