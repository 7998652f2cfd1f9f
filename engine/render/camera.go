package render

import (
	"math"

	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

// Camera maps board coordinates (tile units, +Y north) to screen pixels
type Camera struct {
	X, Y    float64 // world point at the screen center
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	ScreenW int
	ScreenH int
	TilePx  float64 // pixels per tile at zoom 1
}

// NewCamera creates a camera with default settings
func NewCamera(screenW, screenH int, tilePx float64) *Camera {
	return &Camera{
		Zoom:    1.0,
		MinZoom: 0.25,
		MaxZoom: 4.0,
		ScreenW: screenW,
		ScreenH: screenH,
		TilePx:  tilePx,
	}
}

// Pan moves the camera by a pixel delta
func (c *Camera) Pan(dx, dy float64) {
	s := c.scale()
	c.X += dx / s
	c.Y -= dy / s
}

func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms while keeping the world point under the cursor fixed
func (c *Camera) ZoomAt(delta float64, screenX, screenY int) {
	before := c.ScreenToWorld(screenX, screenY)
	c.SetZoom(c.Zoom + delta)
	after := c.ScreenToWorld(screenX, screenY)
	c.X += before.X - after.X
	c.Y += before.Y - after.Y
}

func (c *Camera) CenterOn(p geom.Vec2) {
	c.X, c.Y = p.X, p.Y
}

// FitBoard centers on a width x height board and zooms so it fills the
// screen with a one tile margin
func (c *Camera) FitBoard(width, height int) {
	c.CenterOn(geom.V2(float64(width)/2, float64(height)/2))
	zx := float64(c.ScreenW) / (float64(width+2) * c.TilePx)
	zy := float64(c.ScreenH) / (float64(height+2) * c.TilePx)
	c.SetZoom(math.Min(zx, zy))
}

// TileSize is the on-screen size of one tile in pixels
func (c *Camera) TileSize() float64 { return c.scale() }

func (c *Camera) scale() float64 { return c.TilePx * c.Zoom }

// WorldToScreen converts a board position to screen pixels
func (c *Camera) WorldToScreen(p geom.Vec2) (float64, float64) {
	s := c.scale()
	sx := (p.X-c.X)*s + float64(c.ScreenW)/2
	sy := (c.Y-p.Y)*s + float64(c.ScreenH)/2
	return sx, sy
}

// ScreenToWorld converts screen pixels to a board position
func (c *Camera) ScreenToWorld(sx, sy int) geom.Vec2 {
	s := c.scale()
	return geom.V2(
		(float64(sx)-float64(c.ScreenW)/2)/s+c.X,
		c.Y-(float64(sy)-float64(c.ScreenH)/2)/s,
	)
}

// TileUnder returns the grid point under a screen pixel. The point may be
// off the board.
func (c *Camera) TileUnder(sx, sy int) maplib.Point {
	w := c.ScreenToWorld(sx, sy)
	return maplib.Point{X: int(math.Floor(w.X)), Y: int(math.Floor(w.Y))}
}
