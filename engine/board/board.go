package board

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/pathfind"
)

var (
	// ErrInvalidPlacement wraps every rejected placement
	ErrInvalidPlacement = errors.New("invalid placement")

	ErrDisconnects    = errors.New("placement would leave tiles without a path")
	ErrCapacity       = errors.New("placement limit reached")
	ErrOccupied       = errors.New("tile is occupied")
	ErrLastSpawnPoint = errors.New("at least one spawn point must remain")
	ErrOutOfBounds    = errors.New("position is off the board")
)

func rejected(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidPlacement, cause)
}

// Counters tracks placed obstacles against their limits
type Counters struct {
	Walls     int
	MaxWalls  int
	Towers    [maplib.TowerKindCount]int
	MaxTowers [maplib.TowerKindCount]int
}

// WallsLeft returns remaining wall placements
func (c Counters) WallsLeft() int { return c.MaxWalls - c.Walls }

// TowersLeft returns remaining placements for a tower kind
func (c Counters) TowersLeft(k maplib.TowerKind) int { return c.MaxTowers[k] - c.Towers[k] }

// Board gates every content mutation through capacity checks and a path
// recompute, rolling back anything that would break routing
type Board struct {
	level    maplib.Level
	graph    *maplib.Graph
	field    *pathfind.PathField
	contents *maplib.ContentFactory
	counters Counters
	version  uint64
	log      *slog.Logger

	spawnPoints []maplib.TileID
	towers      []maplib.TileID
}

// Option configures a Board
type Option func(*Board)

// WithLogger sets the logger used for placement diagnostics
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.log = l }
}

// New builds a board for the level and clears it to its initial layout
func New(level maplib.Level, contents *maplib.ContentFactory, opts ...Option) (*Board, error) {
	if err := level.Validate(); err != nil {
		return nil, err
	}
	g, err := maplib.NewGraph(level.Width, level.Height)
	if err != nil {
		return nil, err
	}
	b := &Board{
		level:    level,
		graph:    g,
		field:    pathfind.New(g),
		contents: contents,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	b.counters.MaxWalls = level.MaxWalls
	for k := maplib.TowerKind(0); k < maplib.TowerKindCount; k++ {
		b.counters.MaxTowers[k] = level.MaxTowers(k)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Clear()
	return b, nil
}

func (b *Board) Graph() *maplib.Graph            { return b.graph }
func (b *Board) Field() *pathfind.PathField      { return b.field }
func (b *Board) Counters() Counters              { return b.counters }
func (b *Board) Level() maplib.Level             { return b.level }
func (b *Board) SpawnPointCount() int            { return len(b.spawnPoints) }
func (b *Board) SpawnPointAt(i int) *maplib.Tile { return b.graph.Tile(b.spawnPoints[i]) }

// Version increases on every successful mutation
func (b *Board) Version() uint64 { return b.version }

// TileAt returns the tile at p, or false when p is off the board
func (b *Board) TileAt(p maplib.Point) (*maplib.Tile, bool) {
	if !b.graph.InBounds(p) {
		return nil, false
	}
	return b.graph.At(p), true
}

// Towers returns the tiles currently holding towers, in placement order
func (b *Board) Towers() []*maplib.Tile {
	out := make([]*maplib.Tile, len(b.towers))
	for i, id := range b.towers {
		out[i] = b.graph.Tile(id)
	}
	return out
}

// Clear empties the board and restores the level's destination and spawn
// point. Counters reset to zero.
func (b *Board) Clear() {
	b.counters.Walls = 0
	b.counters.Towers = [maplib.TowerKindCount]int{}
	for i := 0; i < b.graph.Len(); i++ {
		b.graph.SetContent(maplib.TileID(i), b.contents.Acquire(maplib.ContentEmpty))
	}
	b.spawnPoints = b.spawnPoints[:0]
	b.towers = b.towers[:0]

	dest := b.graph.Index(b.level.Destination)
	b.graph.SetContent(dest, b.contents.Acquire(maplib.ContentDestination))
	spawn := b.graph.Index(b.level.SpawnPoint)
	b.graph.SetContent(spawn, b.contents.Acquire(maplib.ContentSpawnPoint))
	b.spawnPoints = append(b.spawnPoints, spawn)

	if !b.field.Recompute() {
		panic("board: cleared board has no valid path")
	}
	b.version++
}

func (b *Board) tile(p maplib.Point) (*maplib.Tile, error) {
	t, ok := b.TileAt(p)
	if !ok {
		return nil, rejected(ErrOutOfBounds)
	}
	return t, nil
}

func (b *Board) set(t *maplib.Tile, c *maplib.Content) {
	b.graph.SetContent(t.ID(), c)
}

func (b *Board) setType(t *maplib.Tile, ct maplib.ContentType) {
	b.set(t, b.contents.Acquire(ct))
}

// recompute restores paths after a rollback or after adding a destination,
// both of which return to or extend a board that was valid
func (b *Board) recompute() {
	if !b.field.Recompute() {
		panic("board: rollback left the board without valid paths")
	}
}

func (b *Board) commit(op string, p maplib.Point) (Counters, error) {
	b.version++
	b.log.Debug("placement", "op", op, "x", p.X, "y", p.Y,
		"walls", b.counters.Walls, "version", b.version)
	return b.counters, nil
}

func (b *Board) reject(op string, p maplib.Point, cause error) (Counters, error) {
	b.log.Debug("placement rejected", "op", op, "x", p.X, "y", p.Y, "reason", cause)
	return b.counters, rejected(cause)
}

// ToggleWall removes a wall or places one on an empty tile. Removing a wall
// whose tile would then have no way out is rejected.
func (b *Board) ToggleWall(p maplib.Point) (Counters, error) {
	t, err := b.tile(p)
	if err != nil {
		return b.counters, err
	}
	switch t.Content().Type {
	case maplib.ContentWall:
		b.setType(t, maplib.ContentEmpty)
		if !b.field.Recompute() {
			b.setType(t, maplib.ContentWall)
			b.recompute()
			return b.reject("wall-remove", p, ErrDisconnects)
		}
		b.decrementWalls()
		return b.commit("wall-remove", p)
	case maplib.ContentEmpty:
		if b.counters.WallsLeft() <= 0 {
			return b.reject("wall", p, ErrCapacity)
		}
		b.setType(t, maplib.ContentWall)
		if !b.field.Recompute() {
			b.setType(t, maplib.ContentEmpty)
			b.recompute()
			return b.reject("wall", p, ErrDisconnects)
		}
		b.counters.Walls++
		return b.commit("wall", p)
	}
	return b.reject("wall", p, ErrOccupied)
}

// ToggleTower removes a tower of the same kind, swaps a tower of another
// kind, converts a wall, or places a tower on an empty tile. Removal is
// rejected like a wall's when the freed tile would be enclosed.
func (b *Board) ToggleTower(p maplib.Point, kind maplib.TowerKind) (Counters, error) {
	if kind >= maplib.TowerKindCount {
		panic(fmt.Sprintf("board: unsupported tower kind %d", kind))
	}
	t, err := b.tile(p)
	if err != nil {
		return b.counters, err
	}
	c := t.Content()
	switch c.Type {
	case maplib.ContentTower:
		if c.Tower == kind {
			b.setType(t, maplib.ContentEmpty)
			if !b.field.Recompute() {
				b.set(t, b.contents.AcquireTower(kind))
				b.recompute()
				return b.reject("tower-remove", p, ErrDisconnects)
			}
			b.removeTower(t.ID())
			b.decrementTowers(kind)
			return b.commit("tower-remove", p)
		}
		if b.counters.TowersLeft(kind) <= 0 {
			return b.reject("tower-swap", p, ErrCapacity)
		}
		// both kinds block, so paths are unchanged
		b.decrementTowers(c.Tower)
		b.counters.Towers[kind]++
		b.set(t, b.contents.AcquireTower(kind))
		return b.commit("tower-swap", p)
	case maplib.ContentWall:
		if b.counters.TowersLeft(kind) <= 0 {
			return b.reject("tower", p, ErrCapacity)
		}
		b.decrementWalls()
		b.counters.Towers[kind]++
		b.set(t, b.contents.AcquireTower(kind))
		b.towers = append(b.towers, t.ID())
		return b.commit("tower-over-wall", p)
	case maplib.ContentEmpty:
		if b.counters.TowersLeft(kind) <= 0 {
			return b.reject("tower", p, ErrCapacity)
		}
		b.set(t, b.contents.AcquireTower(kind))
		if !b.field.Recompute() {
			b.setType(t, maplib.ContentEmpty)
			b.recompute()
			return b.reject("tower", p, ErrDisconnects)
		}
		b.counters.Towers[kind]++
		b.towers = append(b.towers, t.ID())
		return b.commit("tower", p)
	}
	return b.reject("tower", p, ErrOccupied)
}

// ToggleDestination adds a destination on an empty tile or removes one as
// long as every tile can still reach a remaining destination
func (b *Board) ToggleDestination(p maplib.Point) (Counters, error) {
	t, err := b.tile(p)
	if err != nil {
		return b.counters, err
	}
	switch t.Content().Type {
	case maplib.ContentDestination:
		b.setType(t, maplib.ContentEmpty)
		if !b.field.Recompute() {
			b.setType(t, maplib.ContentDestination)
			b.recompute()
			return b.reject("destination-remove", p, ErrDisconnects)
		}
		return b.commit("destination-remove", p)
	case maplib.ContentEmpty:
		b.setType(t, maplib.ContentDestination)
		b.recompute()
		return b.commit("destination", p)
	}
	return b.reject("destination", p, ErrOccupied)
}

// ToggleSpawnPoint adds or removes a spawn point. The last one stays.
func (b *Board) ToggleSpawnPoint(p maplib.Point) (Counters, error) {
	t, err := b.tile(p)
	if err != nil {
		return b.counters, err
	}
	switch t.Content().Type {
	case maplib.ContentSpawnPoint:
		if len(b.spawnPoints) <= 1 {
			return b.reject("spawn-remove", p, ErrLastSpawnPoint)
		}
		b.spawnPoints = removeID(b.spawnPoints, t.ID())
		b.setType(t, maplib.ContentEmpty)
		return b.commit("spawn-remove", p)
	case maplib.ContentEmpty:
		b.setType(t, maplib.ContentSpawnPoint)
		b.spawnPoints = append(b.spawnPoints, t.ID())
		return b.commit("spawn", p)
	}
	return b.reject("spawn", p, ErrOccupied)
}

func (b *Board) removeTower(id maplib.TileID) {
	b.towers = removeID(b.towers, id)
}

func (b *Board) decrementWalls() {
	b.counters.Walls--
	if b.counters.Walls < 0 {
		panic("board: wall count below zero")
	}
}

func (b *Board) decrementTowers(k maplib.TowerKind) {
	b.counters.Towers[k]--
	if b.counters.Towers[k] < 0 {
		panic(fmt.Sprintf("board: %v tower count below zero", k))
	}
}

func removeID(ids []maplib.TileID, id maplib.TileID) []maplib.TileID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
