package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

// Tile colors (placeholder until real sprites)
var (
	DestinationColor = color.RGBA{60, 200, 90, 255}
	WallColor        = color.RGBA{90, 90, 100, 255}
	SpawnColor       = color.RGBA{220, 160, 40, 255}
	UnreachableColor = color.RGBA{60, 20, 20, 255}
	PathMarkColor    = color.RGBA{20, 20, 30, 255}

	TowerColors = [maplib.TowerKindCount]color.RGBA{
		maplib.TowerLightning: {80, 160, 255, 255},
		maplib.TowerMortar:    {200, 80, 60, 255},
	}
)

// TileColor returns the fill color of a tile. Empty tiles get lighter the
// closer they are to a destination.
func TileColor(t *maplib.Tile, maxDist int) color.RGBA {
	c := t.Content()
	switch c.Type {
	case maplib.ContentDestination:
		return DestinationColor
	case maplib.ContentWall:
		return WallColor
	case maplib.ContentSpawnPoint:
		return SpawnColor
	case maplib.ContentTower:
		return TowerColors[c.Tower]
	}
	if !t.HasPath() {
		return UnreachableColor
	}
	v := uint8(210)
	if maxDist > 0 {
		v = uint8(210 - 130*float64(t.Distance())/float64(maxDist))
	}
	return color.RGBA{v, v, v, 255}
}

// BoardImage renders the board and its path field, cellPx pixels per tile.
// North is up. Tiles with a next hop get a short mark from their center
// toward their exit point.
func BoardImage(b *board.Board, cellPx int) *image.RGBA {
	if cellPx < 1 {
		panic("render: cell size must be positive")
	}
	g := b.Graph()
	w, h := g.Width(), g.Height()

	maxDist := 0
	for id := maplib.TileID(0); int(id) < g.Len(); id++ {
		if t := g.Tile(id); t.HasPath() {
			maxDist = max(maxDist, t.Distance())
		}
	}

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	for id := maplib.TileID(0); int(id) < g.Len(); id++ {
		t := g.Tile(id)
		p := t.Pos()
		small.SetRGBA(p.X, h-1-p.Y, TileColor(t, maxDist))
	}

	out := image.NewRGBA(image.Rect(0, 0, w*cellPx, h*cellPx))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)

	if cellPx < 4 {
		return out
	}
	steps := cellPx / 2
	for id := maplib.TileID(0); int(id) < g.Len(); id++ {
		t := g.Tile(id)
		if t.NextOnPath() == maplib.NoTile {
			continue
		}
		for i := 0; i < steps; i++ {
			p := t.Center().Lerp(t.ExitPoint(), float64(i)/float64(steps))
			x, y := worldToPixel(p, h, cellPx)
			out.SetRGBA(x, y, PathMarkColor)
		}
	}
	return out
}

func worldToPixel(p geom.Vec2, height, cellPx int) (int, int) {
	x := int(math.Floor(p.X * float64(cellPx)))
	y := int(math.Floor((float64(height) - p.Y) * float64(cellPx)))
	return x, y
}

// SavePNG writes img to path
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode image: %w", err)
	}
	return f.Close()
}
