package maplib

import (
	"errors"
	"testing"

	"github.com/1siamBot/td-engine/engine/geom"
)

func newFilledGraph(t *testing.T, w, h int) (*Graph, *ContentFactory) {
	t.Helper()
	g, err := NewGraph(w, h)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	f := NewContentFactory()
	for i := 0; i < g.Len(); i++ {
		g.SetContent(TileID(i), f.Acquire(ContentEmpty))
	}
	return g, f
}

func TestNewGraphRejectsDegenerateSizes(t *testing.T) {
	for _, size := range [][2]int{{1, 5}, {5, 1}, {0, 0}, {-3, 4}} {
		if _, err := NewGraph(size[0], size[1]); !errors.Is(err, ErrDegenerateSize) {
			t.Fatalf("%v: expected ErrDegenerateSize, got %v", size, err)
		}
	}
}

func TestNeighboursAreSymmetricGridLinks(t *testing.T) {
	g, err := NewGraph(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 12 {
		t.Fatalf("expected 12 tiles, got %d", g.Len())
	}
	for i := 0; i < g.Len(); i++ {
		tile := g.Tile(TileID(i))
		for d := geom.North; d < geom.DirectionCount; d++ {
			dx, dy := d.Offset()
			p := Point{tile.Pos().X + dx, tile.Pos().Y + dy}
			nid := tile.Neighbor(d)
			if !g.InBounds(p) {
				if nid != NoTile {
					t.Fatalf("tile %v has wraparound neighbour %v", tile.Pos(), d)
				}
				continue
			}
			if nid != g.Index(p) {
				t.Fatalf("tile %v %v neighbour = %d, want %d", tile.Pos(), d, nid, g.Index(p))
			}
			if back := g.Tile(nid).Neighbor(d.Opposite()); back != tile.ID() {
				t.Fatalf("link %v -> %v is not symmetric", tile.Pos(), d)
			}
		}
	}
}

func TestAlternativeParity(t *testing.T) {
	g, _ := NewGraph(3, 3)
	want := map[Point]bool{
		{0, 0}: false, {1, 0}: true, {2, 0}: false,
		{0, 1}: true, {1, 1}: false,
	}
	for p, alt := range want {
		if got := g.At(p).IsAlternative(); got != alt {
			t.Fatalf("%v: alternative = %v, want %v", p, got, alt)
		}
	}
}

func TestIndexPanicsOutOfRange(t *testing.T) {
	g, _ := NewGraph(3, 3)
	if g.Index(Point{2, 1}) != 5 {
		t.Fatalf("row-major index wrong: %d", g.Index(Point{2, 1}))
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range position")
		}
	}()
	g.Index(Point{3, 0})
}

func TestSetContentReclaimsPrevious(t *testing.T) {
	g, f := newFilledGraph(t, 2, 2)
	if f.Live() != 4 {
		t.Fatalf("expected 4 live contents, got %d", f.Live())
	}
	old := g.ContentAt(Point{0, 0})
	g.SetContent(0, f.Acquire(ContentWall))
	if f.Live() != 4 {
		t.Fatalf("replacing content leaked: %d live", f.Live())
	}
	if f.pool.IsLive(old) {
		t.Fatal("previous content still live after replacement")
	}
	if !g.ContentAt(Point{0, 0}).BlocksPath() {
		t.Fatal("wall should block pathing")
	}
}

func TestForeignContentReclaimPanics(t *testing.T) {
	a, b := NewContentFactory(), NewContentFactory()
	c := a.Acquire(ContentWall)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reclaiming through the wrong factory")
		}
	}()
	b.Reclaim(c)
}

func TestGrowPathSkipsBlockingNeighbours(t *testing.T) {
	g, f := newFilledGraph(t, 3, 2)
	g.SetContent(g.Index(Point{1, 0}), f.Acquire(ContentWall))
	for i := 0; i < g.Len(); i++ {
		g.Tile(TileID(i)).ClearPath()
	}
	src := g.Index(Point{0, 0})
	g.Tile(src).BecomeDestination()

	if got := g.GrowPath(src, geom.East); got != NoTile {
		t.Fatalf("wall neighbour should not be reached, got %d", got)
	}
	if g.At(Point{1, 0}).HasPath() {
		t.Fatal("blocking tile received a distance")
	}
	north := g.GrowPath(src, geom.North)
	if north != g.Index(Point{0, 1}) {
		t.Fatalf("north neighbour not reached: %d", north)
	}
	n := g.Tile(north)
	if n.Distance() != 1 || n.NextOnPath() != src || n.PathDirection() != geom.South {
		t.Fatalf("grown tile: dist=%d next=%d dir=%v", n.Distance(), n.NextOnPath(), n.PathDirection())
	}
	if want := geom.V2(0.5, 1); n.ExitPoint() != want {
		t.Fatalf("exit point = %v, want %v", n.ExitPoint(), want)
	}
	if g.GrowPath(src, geom.North) != NoTile {
		t.Fatal("tile reached twice")
	}
}

func TestLevelValidate(t *testing.T) {
	if err := DefaultLevel().Validate(); err != nil {
		t.Fatalf("default level invalid: %v", err)
	}
	bad := []func(*Level){
		func(l *Level) { l.Width = 1 },
		func(l *Level) { l.Destination = Point{11, 0} },
		func(l *Level) { l.SpawnPoint = l.Destination },
		func(l *Level) { l.MaxWalls = -1 },
		func(l *Level) { l.StartingHealth = -2 },
	}
	for i, mutate := range bad {
		l := DefaultLevel()
		mutate(&l)
		if err := l.Validate(); !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("case %d: expected ErrInvalidLevel, got %v", i, err)
		}
	}
}
