package maplib

import (
	"errors"
	"fmt"

	"github.com/1siamBot/td-engine/engine/geom"
)

var ErrDegenerateSize = errors.New("maplib: graph needs at least 2x2 tiles")

// Graph owns the tile grid and its 4-directional adjacency
type Graph struct {
	width, height int
	tiles         []Tile
}

// NewGraph allocates width*height tiles in row-major order and links
// interior neighbours. Tiles start with no content and no path.
func NewGraph(width, height int) (*Graph, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDegenerateSize, width, height)
	}
	g := &Graph{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
	for i, y := 0, 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := &g.tiles[i]
			t.id = TileID(i)
			t.pos = Point{x, y}
			t.center = geom.V2(float64(x)+0.5, float64(y)+0.5)
			for d := range t.neighbors {
				t.neighbors[d] = NoTile
			}
			t.alternative = (x%2 == 0) != (y%2 == 0)
			t.ClearPath()

			if x > 0 {
				g.link(TileID(i-1), t.id, geom.East)
			}
			if y > 0 {
				g.link(TileID(i-width), t.id, geom.North)
			}
			i++
		}
	}
	return g, nil
}

// link makes b the dir-neighbour of a and a the opposite neighbour of b
func (g *Graph) link(a, b TileID, dir geom.Direction) {
	ta, tb := &g.tiles[a], &g.tiles[b]
	if ta.neighbors[dir] != NoTile || tb.neighbors[dir.Opposite()] != NoTile {
		panic("maplib: redefining neighbours is not allowed")
	}
	ta.neighbors[dir] = b
	tb.neighbors[dir.Opposite()] = a
}

func (g *Graph) Width() int  { return g.width }
func (g *Graph) Height() int { return g.height }
func (g *Graph) Len() int    { return len(g.tiles) }

// InBounds checks if a grid position lies on the graph
func (g *Graph) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// Index linearizes p. Panics if p is out of bounds.
func (g *Graph) Index(p Point) TileID {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("maplib: position (%d,%d) outside %dx%d graph", p.X, p.Y, g.width, g.height))
	}
	return TileID(p.Y*g.width + p.X)
}

// Tile returns the tile with the given id
func (g *Graph) Tile(id TileID) *Tile {
	return &g.tiles[id]
}

// At returns the tile at p. Panics if p is out of bounds.
func (g *Graph) At(p Point) *Tile {
	return &g.tiles[g.Index(p)]
}

// ContentAt returns the occupant of the tile at p
func (g *Graph) ContentAt(p Point) *Content {
	return g.At(p).content
}

// SetContent installs c on tile id, recycling the previous occupant first.
// It does not recompute paths.
func (g *Graph) SetContent(id TileID, c *Content) {
	if c == nil {
		panic("maplib: nil content assigned")
	}
	t := &g.tiles[id]
	if t.content != nil {
		t.content.Recycle()
	}
	t.content = c
}

// GrowPath extends the path of tile from into its neighbour in dir. The
// neighbour is returned when it was newly reached; NoTile when it is off the
// board, already has a path, or blocks pathing.
func (g *Graph) GrowPath(from TileID, dir geom.Direction) TileID {
	t := &g.tiles[from]
	if !t.HasPath() {
		panic("maplib: growing path from a tile that is not on a path")
	}
	nid := t.neighbors[dir]
	if nid == NoTile {
		return NoTile
	}
	n := &g.tiles[nid]
	if n.HasPath() || n.content == nil || n.content.BlocksPath() {
		return NoTile
	}
	travel := dir.Opposite()
	n.distance = t.distance + 1
	n.next = from
	n.pathDir = travel
	n.exit = n.center.Add(travel.HalfVector())
	return nid
}
