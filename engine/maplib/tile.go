package maplib

import (
	"math"

	"github.com/1siamBot/td-engine/engine/geom"
)

// TileID indexes a tile inside its graph (row-major)
type TileID int32

// NoTile marks an absent neighbour or next hop
const NoTile TileID = -1

// Unreachable is the distance of a tile with no path to a destination
const Unreachable = math.MaxInt

// Point is an integer grid coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is one grid cell. Neighbour links are set once when the graph is
// built; path fields are rewritten by every recompute.
type Tile struct {
	id          TileID
	pos         Point
	center      geom.Vec2
	neighbors   [geom.DirectionCount]TileID
	alternative bool
	content     *Content

	distance int
	next     TileID
	exit     geom.Vec2
	pathDir  geom.Direction
}

func (t *Tile) ID() TileID           { return t.id }
func (t *Tile) Pos() Point           { return t.pos }
func (t *Tile) Center() geom.Vec2    { return t.center }
func (t *Tile) Content() *Content    { return t.content }
func (t *Tile) IsAlternative() bool  { return t.alternative }
func (t *Tile) Distance() int        { return t.distance }
func (t *Tile) HasPath() bool        { return t.distance != Unreachable }
func (t *Tile) NextOnPath() TileID   { return t.next }
func (t *Tile) ExitPoint() geom.Vec2 { return t.exit }

// PathDirection is the direction of travel out of the tile toward its next hop
func (t *Tile) PathDirection() geom.Direction { return t.pathDir }

// Neighbor returns the adjacent tile in dir, or NoTile at the board edge
func (t *Tile) Neighbor(dir geom.Direction) TileID { return t.neighbors[dir] }

// ClearPath forgets the tile's distance and next hop
func (t *Tile) ClearPath() {
	t.distance = Unreachable
	t.next = NoTile
}

// BecomeDestination seeds the tile as a path terminal
func (t *Tile) BecomeDestination() {
	t.distance = 0
	t.next = NoTile
	t.exit = t.center
}
