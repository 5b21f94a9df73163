package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/samdwyer/cachequest/internal/entity"
	"github.com/samdwyer/cachequest/internal/registry"
	"github.com/samdwyer/cachequest/internal/world"
)

var (
	startCell = world.CellID{Row: 369895, Col: -1220627} // no cache
	westCell  = world.CellID{Row: 369895, Col: -1220628} // one coin
	eastCell  = world.CellID{Row: 369894, Col: -1220625} // one coin at max 3
	emptyNE   = world.CellID{Row: 369898, Col: -1220625} // cache with no coins
)

func testConfig(radius int) SessionConfig {
	grid := world.NewGrid(world.DefaultCellSize)
	return SessionConfig{
		Grid:             grid,
		Generator:        world.NewGenerator(0.1, 3),
		Start:            grid.Center(startCell),
		VisibilityRadius: radius,
	}
}

func newTestSession(t *testing.T, cfg SessionConfig) *Session {
	t.Helper()
	s, err := NewSession(cfg)
	require.NoError(t, err)
	s.Refresh(context.Background())
	return s
}

func TestNewSessionValidates(t *testing.T) {
	cfg := testConfig(2)
	cfg.Grid.CellSize = 0
	_, err := NewSession(cfg)
	assert.Error(t, err)

	cfg = testConfig(-1)
	_, err = NewSession(cfg)
	assert.Error(t, err)

	cfg = testConfig(2)
	cfg.Generator.SpawnProbability = 3
	_, err = NewSession(cfg)
	assert.Error(t, err)
}

func TestRefreshGeneratesWindow(t *testing.T) {
	s := newTestSession(t, testConfig(2))

	assert.Equal(t, startCell, s.PlayerCell())
	assert.Equal(t, 2, s.Registry().Len())
	assert.NotNil(t, s.Registry().Get(westCell))
	assert.NotNil(t, s.Registry().Get(eastCell))
	assert.Len(t, s.Visible(), 2)
}

func TestVisibleHidesEmptyCaches(t *testing.T) {
	shown := newTestSession(t, testConfig(3))
	assert.Len(t, shown.Visible(), 6)

	cfg := testConfig(3)
	cfg.HideEmptyCaches = true
	hidden := newTestSession(t, cfg)
	visible := hidden.Visible()
	assert.Len(t, visible, 5)
	for _, c := range visible {
		assert.NotEqual(t, emptyNE, c.Cell)
	}
	// Hidden from view, still registered
	assert.NotNil(t, hidden.Registry().Get(emptyNE))
}

func TestCollectDepositRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))
	cache := s.Registry().Get(westCell)
	require.NotNil(t, cache)
	before := cache.Items()
	require.Len(t, before, 1)

	var events []registry.Event
	s.Registry().Subscribe(func(ev registry.Event) { events = append(events, ev) })

	coin, err := s.Collect(ctx, westCell, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.Item{Cell: westCell, Serial: 0}, coin)
	assert.True(t, cache.Empty())
	assert.Equal(t, []entity.Item{coin}, s.Player().Inventory.Items())
	assert.True(t, s.Player().HasDiscovered(westCell))

	deposited, err := s.Deposit(ctx, westCell, nil)
	require.NoError(t, err)
	assert.Equal(t, coin, deposited)
	assert.Equal(t, before, cache.Items())
	assert.Zero(t, s.Player().Inventory.Len())

	require.Len(t, events, 2)
	assert.Equal(t, registry.EventItemCollected, events[0].Kind)
	assert.Equal(t, registry.EventItemDeposited, events[1].Kind)
	assert.Equal(t, coin, *events[1].Item)
}

func TestCollectErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(3))

	_, err := s.Collect(ctx, startCell, nil)
	assert.ErrorIs(t, err, ErrNoCache)

	_, err = s.Collect(ctx, startCell.Offset(10, 0), nil)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = s.Collect(ctx, emptyNE, nil)
	assert.ErrorIs(t, err, ErrCacheEmpty)

	missing := entity.Item{Cell: westCell, Serial: 7}
	_, err = s.Collect(ctx, westCell, &missing)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, 1, s.Registry().Get(westCell).Len())
	assert.Zero(t, s.Player().Inventory.Len())
}

func TestCollectSpecificItem(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(3)
	s := newTestSession(t, cfg)

	twoCoins := world.CellID{Row: 369893, Col: -1220624}
	c := s.Registry().Get(twoCoins)
	require.NotNil(t, c)
	require.Equal(t, 2, c.Len())

	first := entity.Item{Cell: twoCoins, Serial: 0}
	got, err := s.Collect(ctx, twoCoins, &first)
	require.NoError(t, err)
	assert.Equal(t, first, got)
	assert.Equal(t, []entity.Item{{Cell: twoCoins, Serial: 1}}, c.Items())
}

func TestDepositRequiresDiscovery(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))

	_, err := s.Deposit(ctx, eastCell, nil)
	assert.ErrorIs(t, err, ErrNotDiscovered)

	coin, err := s.Collect(ctx, westCell, nil)
	require.NoError(t, err)

	_, err = s.Deposit(ctx, eastCell, nil)
	assert.ErrorIs(t, err, ErrNotDiscovered)
	assert.Equal(t, 1, s.Player().Inventory.Len())

	_, err = s.Open(ctx, eastCell)
	require.NoError(t, err)
	_, err = s.Deposit(ctx, eastCell, nil)
	require.NoError(t, err)

	// The coin keeps its origin identity in its new cache
	east := s.Registry().Get(eastCell)
	assert.True(t, east.Contains(coin))
	assert.Equal(t, westCell, coin.Cell)
	assert.Equal(t, 2, east.Len())
}

func TestDepositErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))

	_, err := s.Open(ctx, westCell)
	require.NoError(t, err)

	_, err = s.Deposit(ctx, westCell, nil)
	assert.ErrorIs(t, err, ErrInventoryEmpty)

	_, err = s.Deposit(ctx, startCell, nil)
	assert.ErrorIs(t, err, ErrNoCache)

	_, err = s.Deposit(ctx, westCell.Offset(0, -20), nil)
	assert.ErrorIs(t, err, ErrOutOfRange)

	stranger := entity.Item{Cell: eastCell, Serial: 0}
	_, err = s.Deposit(ctx, westCell, &stranger)
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))

	_, err := s.Open(ctx, startCell)
	assert.ErrorIs(t, err, ErrNoCache)
	assert.False(t, s.Player().HasDiscovered(startCell))

	_, err = s.Open(ctx, startCell.Offset(3, 0))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMoveAndRevisit(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))

	var moved []world.CellID
	s.Registry().Subscribe(func(ev registry.Event) {
		if ev.Kind == registry.EventPlayerMoved {
			moved = append(moved, ev.Cell)
		}
	})

	_, err := s.Collect(ctx, westCell, nil)
	require.NoError(t, err)
	west := s.Registry().Get(westCell)

	s.Move(ctx, 0, 2)
	assert.Equal(t, startCell.Offset(0, 2), s.PlayerCell())
	// westCell is now three columns away
	_, err = s.Collect(ctx, westCell, nil)
	assert.ErrorIs(t, err, ErrOutOfRange)

	for i := 0; i < 20; i++ {
		s.Move(ctx, 1, 0)
	}
	for i := 0; i < 20; i++ {
		s.Move(ctx, -1, 0)
	}
	s.Move(ctx, 0, -2)

	assert.Equal(t, startCell, s.PlayerCell())
	assert.Len(t, moved, 42)
	assert.Same(t, west, s.Registry().GetOrCreate(ctx, westCell))
	assert.True(t, west.Empty(), "revisiting must not restock a cache")
	assert.Greater(t, s.Registry().Len(), 2)
}

func TestInRange(t *testing.T) {
	s := newTestSession(t, testConfig(2))

	assert.True(t, s.InRange(startCell))
	assert.True(t, s.InRange(startCell.Offset(2, -2)))
	assert.False(t, s.InRange(startCell.Offset(3, 0)))
	assert.False(t, s.InRange(startCell.Offset(0, -3)))
}

func TestMemoizedSessionMatches(t *testing.T) {
	cfg := testConfig(3)
	plain := newTestSession(t, cfg)
	cfg.MemoizeAbsent = true
	memo := newTestSession(t, cfg)

	require.Equal(t, plain.Registry().Len(), memo.Registry().Len())
	for i, c := range plain.Registry().All() {
		other := memo.Registry().All()[i]
		assert.Equal(t, c.Cell, other.Cell)
		assert.Equal(t, c.Items(), other.Items())
	}
}

func TestMoveStepsExactlyOneCell(t *testing.T) {
	tests := []struct {
		name     string
		cellSize float64
		start    world.Position
	}{
		{"corner coarse", 0.1, world.Position{Lat: 10, Lng: 10}},
		{"corner 0.001", 0.001, world.Position{Lat: 10, Lng: 10}},
		{"corner 0.0001", 0.0001, world.Position{Lat: 10, Lng: 10}},
		{"origin", 0.0001, world.Position{Lat: 0, Lng: 0}},
		{"negative corner", 0.0001, world.Position{Lat: -36.9, Lng: -122.06}},
		{"inside cell", 0.0001, world.Position{Lat: 36.98953, Lng: -122.06269}},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SessionConfig{
				Grid:      world.NewGrid(tt.cellSize),
				Generator: world.NewGenerator(0.1, 3),
				Start:     tt.start,
			}
			s, err := NewSession(cfg)
			require.NoError(t, err)

			var moved []world.CellID
			s.Registry().Subscribe(func(ev registry.Event) {
				if ev.Kind == registry.EventPlayerMoved {
					moved = append(moved, ev.Cell)
				}
			})

			steps := []struct{ dRow, dCol int }{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
			for _, step := range steps {
				for i := 0; i < 40; i++ {
					before := s.PlayerCell()
					s.Move(ctx, step.dRow, step.dCol)
					want := before.Offset(step.dRow, step.dCol)
					require.Equal(t, want, s.PlayerCell(), "step %d of %+v", i, step)
					require.Equal(t, want, moved[len(moved)-1])
				}
			}
			assert.Equal(t, cfg.Grid.ToCell(tt.start), s.PlayerCell())
			assert.Len(t, moved, 160)
		})
	}
}

func TestDepositErrorsAreTraced(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, testConfig(2))
	recorder := tracetest.NewSpanRecorder()
	s.tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)).Tracer("session")

	cases := []struct {
		cell world.CellID
		want error
	}{
		{westCell.Offset(0, -20), ErrOutOfRange},
		{startCell, ErrNoCache},
		{eastCell, ErrNotDiscovered},
	}
	for _, c := range cases {
		_, err := s.Deposit(ctx, c.cell, nil)
		require.ErrorIs(t, err, c.want)
	}

	spans := recorder.Ended()
	require.Len(t, spans, len(cases))
	for i, span := range spans {
		assert.Equal(t, "session.deposit", span.Name())
		assert.Contains(t, span.Attributes(), attribute.String("error", cases[i].want.Error()))
	}
}
