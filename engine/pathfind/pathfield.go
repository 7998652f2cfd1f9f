package pathfind

import (
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

// Expansion orders. Alternating by tile parity changes which of several
// equally short paths is chosen, never their length.
var (
	alternativeOrder = [geom.DirectionCount]geom.Direction{geom.North, geom.South, geom.East, geom.West}
	regularOrder     = [geom.DirectionCount]geom.Direction{geom.West, geom.East, geom.South, geom.North}
)

// PathField computes, for every tile, the hop distance to the nearest
// destination and the neighbour that realizes it
type PathField struct {
	graph *maplib.Graph
	valid bool
	runs  int

	// Reusable BFS queue
	frontier []maplib.TileID
}

// New creates a path field over g. Nothing is computed until Recompute.
func New(g *maplib.Graph) *PathField {
	return &PathField{
		graph:    g,
		frontier: make([]maplib.TileID, 0, g.Len()),
	}
}

// Graph returns the graph the field is computed over
func (f *PathField) Graph() *maplib.Graph { return f.graph }

// Valid reports whether the last recompute succeeded
func (f *PathField) Valid() bool { return f.valid }

// Recomputes counts completed passes
func (f *PathField) Recomputes() int { return f.runs }

// Recompute runs a multi-source BFS seeded with every destination tile. It
// fails when there is no destination or some non-blocking tile cannot reach
// one; the caller is expected to roll back whatever caused the failure.
func (f *PathField) Recompute() bool {
	g := f.graph
	n := g.Len()
	f.runs++

	f.frontier = f.frontier[:0]
	for i := 0; i < n; i++ {
		t := g.Tile(maplib.TileID(i))
		if c := t.Content(); c != nil && c.Type == maplib.ContentDestination {
			t.BecomeDestination()
			f.frontier = append(f.frontier, t.ID())
		} else {
			t.ClearPath()
		}
	}
	if len(f.frontier) == 0 {
		f.valid = false
		return false
	}

	for head := 0; head < len(f.frontier); head++ {
		id := f.frontier[head]
		order := &regularOrder
		if g.Tile(id).IsAlternative() {
			order = &alternativeOrder
		}
		for _, dir := range order {
			if next := g.GrowPath(id, dir); next != maplib.NoTile {
				f.frontier = append(f.frontier, next)
			}
		}
	}

	for i := 0; i < n; i++ {
		t := g.Tile(maplib.TileID(i))
		if t.Content() == nil || t.Content().BlocksPath() {
			continue
		}
		if !t.HasPath() {
			f.valid = false
			return false
		}
	}
	f.valid = true
	return true
}

// Route follows next hops from a tile and returns the tiles visited, ending
// at a destination. It returns nil when from has no path.
func (f *PathField) Route(from maplib.TileID) []maplib.TileID {
	t := f.graph.Tile(from)
	if !t.HasPath() {
		return nil
	}
	route := make([]maplib.TileID, 0, t.Distance()+1)
	for id := from; id != maplib.NoTile; id = f.graph.Tile(id).NextOnPath() {
		route = append(route, id)
		if len(route) > f.graph.Len() {
			panic("pathfind: next-hop chain longer than the board")
		}
	}
	return route
}
