package render

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

func newBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(maplib.DefaultLevel(), maplib.NewContentFactory())
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBoardImageLayout(t *testing.T) {
	b := newBoard(t)
	if _, err := b.ToggleWall(maplib.Point{X: 2, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.ToggleTower(maplib.Point{X: 7, Y: 3}, maplib.TowerMortar); err != nil {
		t.Fatal(err)
	}
	const cell = 8
	img := BoardImage(b, cell)
	if got := img.Bounds().Size(); got.X != 11*cell || got.Y != 11*cell {
		t.Fatalf("image size = %v", got)
	}

	corner := func(x, y int) [4]uint8 {
		c := img.RGBAAt(x*cell, (10-y)*cell)
		return [4]uint8{c.R, c.G, c.B, c.A}
	}
	rgba := func(c interface{ RGBA() (r, g, b, a uint32) }) [4]uint8 {
		r, g, bb, a := c.RGBA()
		return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(bb >> 8), uint8(a >> 8)}
	}
	cases := []struct {
		x, y int
		want [4]uint8
	}{
		{5, 5, rgba(DestinationColor)},
		{0, 0, rgba(SpawnColor)},
		{2, 2, rgba(WallColor)},
		{7, 3, rgba(TowerColors[maplib.TowerMortar])},
	}
	for _, tc := range cases {
		if got := corner(tc.x, tc.y); got != tc.want {
			t.Errorf("tile (%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}

	near, far := corner(5, 6), corner(10, 10)
	if near[0] <= far[0] {
		t.Errorf("tile next to destination (%v) should be lighter than a far one (%v)", near, far)
	}
}

func TestBoardImageMarksPath(t *testing.T) {
	b := newBoard(t)
	img := BoardImage(b, 8)
	// spawn (0,0) center
	if c := img.RGBAAt(4, 84); c != PathMarkColor {
		t.Fatalf("spawn center = %v, want path mark", c)
	}
	// the destination has no next hop
	if c := img.RGBAAt(5*8+4, 5*8+4); c != DestinationColor {
		t.Fatalf("destination center = %v", c)
	}
	small := BoardImage(b, 2)
	if c := small.RGBAAt(1, 21); c != SpawnColor {
		t.Fatalf("small image spawn = %v", c)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.png")
	if err := SavePNG(path, BoardImage(newBoard(t), 4)); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 44 || cfg.Height != 44 {
		t.Fatalf("png size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(800, 600, 32)
	c.FitBoard(11, 11)
	if c.Zoom <= 0 || c.Zoom > c.MaxZoom {
		t.Fatalf("zoom = %v", c.Zoom)
	}
	sx, sy := c.WorldToScreen(geom.V2(5.5, 5.5))
	if sx != 400 || sy != 300 {
		t.Fatalf("board center at (%v,%v), want screen center", sx, sy)
	}
	// north is up
	_, north := c.WorldToScreen(geom.V2(5.5, 6.5))
	if north >= sy {
		t.Fatalf("north maps below center: %v >= %v", north, sy)
	}

	p := c.ScreenToWorld(100, 250)
	bx, by := c.WorldToScreen(p)
	if math.Abs(bx-100) > 1e-9 || math.Abs(by-250) > 1e-9 {
		t.Fatalf("round trip = (%v,%v)", bx, by)
	}
	if got := c.TileUnder(400, 300); got != (maplib.Point{X: 5, Y: 5}) {
		t.Fatalf("tile under center = %v", got)
	}

	before := c.ScreenToWorld(120, 80)
	c.ZoomAt(0.5, 120, 80)
	after := c.ScreenToWorld(120, 80)
	if !before.ApproxEqual(after, 1e-9) {
		t.Fatalf("zoom moved cursor point: %v -> %v", before, after)
	}
	x, y := c.X, c.Y
	c.Pan(c.TileSize(), c.TileSize())
	if math.Abs(c.X-(x+1)) > 1e-9 || math.Abs(c.Y-(y-1)) > 1e-9 {
		t.Fatalf("pan by one tile moved camera to (%v,%v) from (%v,%v)", c.X, c.Y, x, y)
	}
}
