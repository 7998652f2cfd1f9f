package game

import (
	"io"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/command"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/enemy"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/systems"
)

// State is the outcome of the current game
type State uint8

const (
	StatePlaying State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	}
	return "unknown"
}

// Game wires the board, enemies, towers and scenario together and advances
// them in a fixed order every tick
type Game struct {
	ID uuid.UUID

	cfg Config
	log *slog.Logger
	rng *rand.Rand
	bus *core.EventBus

	contents  *maplib.ContentFactory
	board     *board.Board
	enemies   *core.Collection[*enemy.Enemy]
	factory   *enemy.Factory
	targeting *systems.Targeting
	war       *systems.War
	armory    *systems.Armory
	player    *core.Player
	scenario  *systems.ScenarioState
	recorder  *command.Replay
	playback  *command.Replay

	pending      []command.Command
	wave, cycle  int
	tick         uint64
	state        State
	scenarioDone bool
}

// Option configures a Game
type Option func(*Game)

func WithLogger(l *slog.Logger) Option {
	return func(g *Game) { g.log = l }
}

// WithRand replaces the seeded random source
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.rng = r }
}

func WithEventBus(bus *core.EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// WithRecorder records every applied command
func WithRecorder(r *command.Replay) Option {
	return func(g *Game) { g.recorder = r }
}

// WithReplay feeds the recorded commands of each tick back into the game
func WithReplay(r *command.Replay) Option {
	return func(g *Game) { g.playback = r }
}

// New builds a game from cfg and begins the first round
func New(cfg Config, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Game{
		ID:  uuid.New(),
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		bus: core.NewEventBus(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	g.log = g.log.With("game", g.ID.String())

	g.contents = maplib.NewContentFactory()
	b, err := board.New(cfg.Level, g.contents, board.WithLogger(g.log.With("component", "board")))
	if err != nil {
		return nil, err
	}
	g.board = b
	g.factory = enemy.NewFactory(cfg.Enemies, g.rng)
	g.enemies = core.NewCollection(g.enemyFinished)
	g.targeting = systems.NewTargeting(g, g.rng)
	g.war = systems.NewWar(systems.NewWarFactory(), g.targeting)
	g.war.EventBus = g.bus
	g.armory = systems.NewArmory(cfg.Towers, g.targeting, g.war)
	g.armory.EventBus = g.bus
	g.player = core.NewPlayer(cfg.Level.StartingHealth)

	g.BeginNewGame()
	return g, nil
}

func (g *Game) Board() *board.Board             { return g.board }
func (g *Game) Config() Config                  { return g.cfg }
func (g *Game) Events() *core.EventBus          { return g.bus }
func (g *Game) State() State                    { return g.state }
func (g *Game) CurrentTick() uint64             { return g.tick }
func (g *Game) PlaySpeed() float64              { return g.cfg.PlaySpeed }
func (g *Game) EnemyCount() int                 { return g.enemies.Len() }
func (g *Game) Player() *core.Player            { return g.player }
func (g *Game) Armory() *systems.Armory         { return g.armory }
func (g *Game) War() *systems.War               { return g.war }
func (g *Game) EachEnemy(fn func(*enemy.Enemy)) { g.enemies.Each(fn) }

// EachTarget exposes live enemies to tower targeting
func (g *Game) EachTarget(fn func(systems.Target)) {
	g.enemies.Each(func(e *enemy.Enemy) { fn(e) })
}

// BeginNewGame clears enemies, war entities and the board, restores player
// health and restarts the scenario
func (g *Game) BeginNewGame() {
	g.enemies.Clear()
	g.war.Clear()
	g.armory.Reset()
	g.board.Clear()
	g.player.Reset()
	g.scenario = g.cfg.Scenario.Begin()
	g.scenarioDone = false
	g.wave, g.cycle = 0, 0
	g.pending = g.pending[:0]
	g.tick = 0
	g.state = StatePlaying
	g.emit(core.EvtGameStart, nil)
	g.bus.Dispatch()
	g.log.Info("new game", "level", g.cfg.Level.Name,
		"size", g.cfg.Level.Width*g.cfg.Level.Height, "health", g.player.Health)
}

// Apply executes a placement command immediately
func (g *Game) Apply(cmd command.Command) (board.Counters, error) {
	cmd.Tick = g.tick
	c, err := cmd.Apply(g.board)
	if err != nil {
		g.log.Debug("command rejected", "cmd", cmd.String(), "err", err)
		g.emit(core.EvtPlacementRejected, cmd)
		return c, err
	}
	g.emit(core.EvtPlacement, cmd)
	if g.recorder != nil {
		if rerr := g.recorder.Record(cmd); rerr != nil {
			g.log.Warn("replay record failed", "err", rerr)
		}
	}
	return c, nil
}

// Enqueue defers a command to the start of the next tick so no agent sees
// a board that is only partly updated
func (g *Game) Enqueue(cmd command.Command) {
	cmd.Tick = g.tick
	g.pending = append(g.pending, cmd)
}

// SpawnEnemy puts a new enemy of kind k on a random spawn point
func (g *Game) SpawnEnemy(k enemy.Kind) {
	n := g.board.SpawnPointCount()
	if n == 0 {
		panic("game: board has no spawn point")
	}
	tile := g.board.SpawnPointAt(g.rng.Intn(n))
	e := g.factory.Get(k)
	e.SpawnOn(g.board.Graph(), tile.ID())
	g.enemies.Add(e)
	g.emit(core.EvtEnemySpawned, e)
}

// AdvanceAgents moves every enemy and recycles finished ones
func (g *Game) AdvanceAgents(dt float64) {
	g.enemies.GameUpdate(dt)
}

// AdvanceTowers lets every tower aim and fire, then moves shells and
// explosions
func (g *Game) AdvanceTowers(dt float64) {
	g.armory.GameUpdate(dt, g.board.Towers())
	g.war.GameUpdate(dt)
}

// Tick advances the simulation by dt: queued commands, scenario, enemies,
// towers, war entities, then the win and loss checks
func (g *Game) Tick(dt float64) {
	if g.state != StatePlaying {
		return
	}
	if g.playback != nil {
		g.pending = append(g.pending, g.playback.CommandsForTick(g.tick)...)
	}
	for _, cmd := range g.pending {
		g.Apply(cmd)
	}
	g.pending = g.pending[:0]

	if !g.scenarioDone && !g.scenario.Progress(dt, g) {
		g.scenarioDone = true
		g.log.Debug("scenario exhausted", "tick", g.tick)
	}
	if w, c := g.scenario.Wave(), g.scenario.Cycle(); !g.scenarioDone && (w != g.wave || c != g.cycle) {
		g.wave, g.cycle = w, c
		g.emit(core.EvtWaveStarted, w)
		g.log.Debug("wave started", "wave", w, "cycle", c)
	}
	g.AdvanceAgents(dt)
	g.AdvanceTowers(dt)

	switch {
	case g.player.Defeated():
		g.finish(StateLost, core.EvtGameLost)
	case g.scenarioDone && g.enemies.IsEmpty():
		g.finish(StateWon, core.EvtGameWon)
	}
	g.tick++
	g.bus.Dispatch()
}

func (g *Game) finish(s State, evt core.EventType) {
	g.state = s
	g.emit(evt, nil)
	g.log.Info("game over", "state", s.String(), "tick", g.tick, "health", g.player.Health)
}

func (g *Game) enemyFinished(e *enemy.Enemy) {
	g.armory.Forget(e)
	switch e.Outcome() {
	case enemy.OutcomeArrived:
		g.player.Damage(1)
		g.emit(core.EvtEnemyArrived, e.Kind())
	case enemy.OutcomeKilled:
		g.emit(core.EvtEnemyKilled, e.Kind())
	case enemy.OutcomeExhausted:
		g.log.Debug("enemy path exhausted", "kind", e.Kind().String(), "tile", e.TileFrom())
		g.emit(core.EvtEnemyExhausted, e.Kind())
	}
}

func (g *Game) emit(t core.EventType, payload any) {
	g.bus.Emit(core.Event{Type: t, Tick: g.tick, Payload: payload})
}

// Snapshot is a read-only summary for a UI layer
type Snapshot struct {
	ID             string
	Tick           uint64
	State          State
	Health         int
	StartingHealth int
	Enemies        int
	WarEntities    int
	Counters       board.Counters
	Wave           int
	Cycle          int
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		ID:             g.ID.String(),
		Tick:           g.tick,
		State:          g.state,
		Health:         g.player.Health,
		StartingHealth: g.player.StartingHealth,
		Enemies:        g.enemies.Len(),
		WarEntities:    g.war.Len(),
		Counters:       g.board.Counters(),
		Wave:           g.scenario.Wave(),
		Cycle:          g.scenario.Cycle(),
	}
}
