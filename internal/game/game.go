package game

import (
	"context"
	"errors"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cachequest/internal/gamedata"
	"github.com/samdwyer/cachequest/internal/registry"
	"github.com/samdwyer/cachequest/internal/telemetry"
	"github.com/samdwyer/cachequest/internal/ui"
)

// Game holds the entire game state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	session  *Session
	colors   gamedata.Palette
	state    State
	running  bool

	// dirty is set by registry notifications and message changes; the loop
	// redraws only when it is set.
	dirty       bool
	message     string
	unsubscribe func()
}

// New creates a new game instance on the terminal.
func New(cfg SessionConfig, colors gamedata.Palette) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := NewWithScreen(screen, cfg, colors)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithScreen creates a game drawing to an already initialized screen.
func NewWithScreen(screen *ui.Screen, cfg SessionConfig, colors gamedata.Palette) (*Game, error) {
	session, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}

	g := &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		session:  session,
		colors:   colors,
		state:    StateExplore,
		running:  true,
		dirty:    true,
	}
	g.unsubscribe = session.Registry().Subscribe(g.onEvent)
	return g, nil
}

// Session returns the game's session.
func (g *Game) Session() *Session { return g.session }

// State returns the current game state.
func (g *Game) State() State { return g.state }

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	ctx, initSpan := tracer.Start(ctx, "game.init")
	g.session.Refresh(ctx)
	g.enterCell(ctx)

	start := g.session.PlayerCell()
	initSpan.SetAttributes(
		attribute.String("player.id", g.session.Player().ID.String()),
		attribute.Int("player.start_row", start.Row),
		attribute.Int("player.start_col", start.Col),
		attribute.Int("visibility.radius", g.session.Config().VisibilityRadius),
		attribute.Int("caches.created", g.session.Registry().Len()),
	)
	initSpan.End()
	log.Info("session started", "player", g.session.Player().ID, "cell", start, "caches", g.session.Registry().Len())

	for g.running {
		if g.dirty {
			g.render()
		}
		g.handleInput(ctx)
	}

	log.Info("session ended",
		"inventory", g.session.Player().Inventory.Len(),
		"caches", g.session.Registry().Len(),
		"discovered", len(g.session.Player().Discovered()),
	)
	g.Close()
	return nil
}

// onEvent marks the screen stale. Rendering happens on the loop, after the
// operation that published the event has finished.
func (g *Game) onEvent(ev registry.Event) {
	g.dirty = true
	log.Debug("event", "kind", ev.Kind, "cell", ev.Cell)
}

func (g *Game) render() {
	g.renderer.Render(g.view())
	g.dirty = false
}

// view snapshots the session for the renderer.
func (g *Game) view() ui.View {
	s := g.session
	cell := s.PlayerCell()
	return ui.View{
		Grid:      s.Grid(),
		Center:    cell,
		Player:    s.Player().Position,
		Radius:    s.Config().VisibilityRadius,
		Caches:    s.Visible(),
		Here:      s.Registry().Get(cell),
		Inventory: s.Player().Inventory.Items(),
		State:     g.state.String(),
		Message:   g.message,
		Colors:    g.colors,
	}
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
		g.dirty = true
	case nil:
		// Screen finalized
		g.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyUp:
		g.move(ctx, 1, 0)
	case tcell.KeyDown:
		g.move(ctx, -1, 0)
	case tcell.KeyLeft:
		g.move(ctx, 0, -1)
	case tcell.KeyRight:
		g.move(ctx, 0, 1)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			g.move(ctx, 1, 0)
		case 'j':
			g.move(ctx, -1, 0)
		case 'h':
			g.move(ctx, 0, -1)
		case 'l':
			g.move(ctx, 0, 1)
		case 'c', 'C':
			g.collect(ctx)
		case 'd', 'D':
			g.deposit(ctx)
		case 'q', 'Q':
			g.running = false
		}
	}
}

// move steps the player; rows grow northward.
func (g *Game) move(ctx context.Context, dRow, dCol int) {
	g.session.Move(ctx, dRow, dCol)
	g.setMessage("")
	g.enterCell(ctx)
}

// enterCell opens the cache under the player, if there is one.
func (g *Game) enterCell(ctx context.Context) {
	cache, err := g.session.Open(ctx, g.session.PlayerCell())
	switch {
	case err == nil:
		g.state = StateCacheOpen
		g.setMessage("Found a cache with " + strconv.Itoa(cache.Len()) + " coin(s)")
	case errors.Is(err, ErrNoCache):
		g.state = StateExplore
	default:
		log.Warn("open cache", "err", err)
		g.state = StateExplore
	}
}

func (g *Game) collect(ctx context.Context) {
	coin, err := g.session.Collect(ctx, g.session.PlayerCell(), nil)
	if err != nil {
		g.setMessage("Cannot collect: " + err.Error())
		return
	}
	g.setMessage("Collected " + coin.String())
}

func (g *Game) deposit(ctx context.Context) {
	coin, err := g.session.Deposit(ctx, g.session.PlayerCell(), nil)
	if err != nil {
		g.setMessage("Cannot deposit: " + err.Error())
		return
	}
	g.setMessage("Deposited " + coin.String())
}

func (g *Game) setMessage(msg string) {
	if msg != g.message {
		g.message = msg
		g.dirty = true
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
