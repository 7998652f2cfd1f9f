package game

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/command"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/enemy"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/systems"
)

const dt = 1.0 / 30

func smallScenarioConfig(amount int) Config {
	cfg := DefaultConfig()
	cfg.Scenario = systems.Scenario{
		Waves: []systems.Wave{{Sequences: []systems.SpawnSequence{
			{Kind: enemy.KindSmall, Amount: amount, Cooldown: 1},
		}}},
		Cycles: 1,
	}
	return cfg
}

func newGame(t *testing.T, cfg Config, opts ...Option) *Game {
	t.Helper()
	g, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func runToEnd(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 20000; i++ {
		if g.State() != StatePlaying {
			return
		}
		g.Tick(dt)
	}
	t.Fatalf("game still running after 20000 ticks: %+v", g.Snapshot())
}

func countEvents(bus *core.EventBus, types ...core.EventType) map[core.EventType]int {
	counts := make(map[core.EventType]int)
	for _, et := range types {
		bus.On(et, func(e core.Event) { counts[e.Type]++ })
	}
	return counts
}

func TestArrivalsCostHealthAndScenarioEndWins(t *testing.T) {
	bus := core.NewEventBus()
	counts := countEvents(bus, core.EvtEnemySpawned, core.EvtEnemyArrived, core.EvtGameWon)
	g := newGame(t, smallScenarioConfig(3), WithEventBus(bus))
	runToEnd(t, g)

	if g.State() != StateWon {
		t.Fatalf("state = %v", g.State())
	}
	s := g.Snapshot()
	if s.Health != 7 || s.Enemies != 0 {
		t.Fatalf("snapshot after run: %+v", s)
	}
	if counts[core.EvtEnemySpawned] != 3 || counts[core.EvtEnemyArrived] != 3 || counts[core.EvtGameWon] != 1 {
		t.Fatalf("event counts: %v", counts)
	}
}

func TestHealthRunningOutLoses(t *testing.T) {
	cfg := smallScenarioConfig(5)
	cfg.Level.StartingHealth = 2
	g := newGame(t, cfg)
	runToEnd(t, g)
	if g.State() != StateLost {
		t.Fatalf("state = %v", g.State())
	}
	if g.Player().Health != 0 {
		t.Fatalf("health = %d", g.Player().Health)
	}
	tick := g.CurrentTick()
	g.Tick(dt)
	if g.CurrentTick() != tick {
		t.Fatal("finished game kept ticking")
	}
}

func TestLightningTowersDefendDestination(t *testing.T) {
	cfg := smallScenarioConfig(3)
	cfg.Towers.Lightning.DamagePerSecond = 100
	bus := core.NewEventBus()
	counts := countEvents(bus, core.EvtEnemyKilled, core.EvtEnemyArrived)
	g := newGame(t, cfg, WithEventBus(bus))
	for _, p := range [][2]int{{4, 4}, {6, 6}, {4, 6}, {6, 4}} {
		if _, err := g.Apply(command.Tower(p[0], p[1], maplib.TowerLightning)); err != nil {
			t.Fatalf("tower at %v: %v", p, err)
		}
	}
	runToEnd(t, g)
	if g.State() != StateWon {
		t.Fatalf("state = %v", g.State())
	}
	if counts[core.EvtEnemyKilled] != 3 || counts[core.EvtEnemyArrived] != 0 {
		t.Fatalf("event counts: %v", counts)
	}
	if g.Player().Health != cfg.Level.StartingHealth {
		t.Fatalf("health = %d", g.Player().Health)
	}
}

func TestEnqueuedCommandsApplyAtNextTick(t *testing.T) {
	g := newGame(t, smallScenarioConfig(1))
	g.Enqueue(command.Wall(2, 2))
	if g.Board().Counters().Walls != 0 {
		t.Fatal("enqueued command applied immediately")
	}
	g.Tick(dt)
	if g.Board().Counters().Walls != 1 {
		t.Fatal("enqueued command not applied on tick")
	}
	_, err := g.Apply(command.Wall(5, 5))
	if !errors.Is(err, board.ErrInvalidPlacement) || !errors.Is(err, board.ErrOccupied) {
		t.Fatalf("wall on destination: %v", err)
	}
}

func TestBeginNewGameResets(t *testing.T) {
	g := newGame(t, smallScenarioConfig(3))
	g.Apply(command.Wall(1, 1))
	for i := 0; i < 90; i++ {
		g.Tick(dt)
	}
	if g.EnemyCount() == 0 {
		t.Fatal("expected enemies on the board")
	}
	g.BeginNewGame()
	s := g.Snapshot()
	if s.Enemies != 0 || s.Counters.Walls != 0 || s.Tick != 0 || s.Health != 10 || s.State != StatePlaying {
		t.Fatalf("snapshot after reset: %+v", s)
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := DefaultConfig()
	a, b := newGame(t, cfg), newGame(t, cfg)
	for _, g := range []*Game{a, b} {
		g.Apply(command.Wall(3, 3))
		g.Apply(command.Tower(4, 3, maplib.TowerMortar))
		g.Apply(command.Tower(2, 5, maplib.TowerLightning))
	}
	for i := 0; i < 1500; i++ {
		a.Tick(dt)
		b.Tick(dt)
		sa, sb := a.Snapshot(), b.Snapshot()
		sa.ID, sb.ID = "", ""
		if sa != sb {
			t.Fatalf("tick %d: runs diverged:\n%+v\n%+v", i, sa, sb)
		}
	}
	var pa, pb []float64
	a.EachEnemy(func(e *enemy.Enemy) { pa = append(pa, e.Position().X, e.Position().Y, e.Health()) })
	b.EachEnemy(func(e *enemy.Enemy) { pb = append(pb, e.Position().X, e.Position().Y, e.Health()) })
	if len(pa) != len(pb) {
		t.Fatalf("enemy counts differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("enemy state differs at %d: %v vs %v", i, pa[i], pb[i])
		}
	}
	if a.ID == b.ID {
		t.Fatal("games share an ID")
	}
}

func TestRecorderCapturesAppliedCommands(t *testing.T) {
	var buf bytes.Buffer
	rec := command.NewRecorder(&buf)
	g := newGame(t, smallScenarioConfig(1), WithRecorder(rec))
	g.Apply(command.Wall(1, 1))
	g.Tick(dt)
	g.Enqueue(command.Tower(2, 2, maplib.TowerMortar))
	g.Tick(dt)
	g.Apply(command.Wall(5, 5)) // rejected, not recorded
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	replay, err := command.ReadReplay(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(replay.Commands) != 2 {
		t.Fatalf("recorded %d commands, want 2", len(replay.Commands))
	}
	if c := replay.Commands[1]; c.Type != command.CmdToggleTower || c.Tick != 1 {
		t.Fatalf("second command = %v", c)
	}
}

func TestConfigValidateAndLoad(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	bad := DefaultConfig()
	bad.PlaySpeed = 11
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("play speed 11: %v", err)
	}
	bad = DefaultConfig()
	bad.Level.Width = 1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, maplib.ErrInvalidLevel) {
		t.Fatalf("width 1: %v", err)
	}
	if _, err := New(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New with bad config: %v", err)
	}

	cfg, err := ParseConfig([]byte(`{"level": {"name": "tiny", "width": 4, "height": 4,
		"destination": {"x": 3, "y": 3}, "spawn_point": {"x": 0, "y": 0},
		"max_walls": 2, "starting_health": 3}, "play_speed": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Level.Width != 4 || cfg.PlaySpeed != 2 || cfg.TickRate != 30 {
		t.Fatalf("parsed config: %+v", cfg)
	}
	if _, err := ParseConfig([]byte(`{"play_speed": "fast"}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("malformed json: %v", err)
	}

	path := filepath.Join(t.TempDir(), "level.json")
	if err := cfg.SaveJSON(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Level != cfg.Level || loaded.PlaySpeed != cfg.PlaySpeed || len(loaded.Scenario.Waves) != len(cfg.Scenario.Waves) {
		t.Fatalf("round trip changed config: %+v", loaded)
	}
}

func TestReplayReproducesRun(t *testing.T) {
	var buf bytes.Buffer
	rec := command.NewRecorder(&buf)
	cfg := DefaultConfig()
	live := newGame(t, cfg, WithRecorder(rec))
	script := map[int][]command.Command{
		0:   {command.Tower(4, 4, maplib.TowerLightning), command.Wall(3, 0)},
		40:  {command.Tower(1, 2, maplib.TowerMortar)},
		200: {command.Wall(3, 0), command.SpawnPoint(10, 10)},
	}
	for i := 0; i < 600; i++ {
		for _, c := range script[i] {
			live.Enqueue(c)
		}
		live.Tick(dt)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	replay, err := command.ReadReplay(&buf)
	if err != nil {
		t.Fatal(err)
	}

	waves := 0
	bus := core.NewEventBus()
	bus.On(core.EvtWaveStarted, func(core.Event) { waves++ })
	played := newGame(t, cfg, WithReplay(replay), WithEventBus(bus))
	for i := 0; i < 600; i++ {
		played.Tick(dt)
	}
	a, b := live.Snapshot(), played.Snapshot()
	a.ID, b.ID = "", ""
	if a != b {
		t.Fatalf("replay diverged:\n%+v\n%+v", a, b)
	}
	if played.Board().SpawnPointCount() != 2 {
		t.Fatalf("spawn points = %d", played.Board().SpawnPointCount())
	}
	if waves == 0 {
		t.Fatal("no wave started in 20 seconds")
	}
}
