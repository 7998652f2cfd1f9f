package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/td-engine/engine/command"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/enemy"
	"github.com/1siamBot/td-engine/engine/game"
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/render"
	"github.com/1siamBot/td-engine/engine/systems"
)

var (
	enemyColors = [enemy.KindCount]color.RGBA{
		enemy.KindSmall:  {255, 120, 200, 255},
		enemy.KindMedium: {230, 60, 60, 255},
		enemy.KindLarge:  {140, 20, 20, 255},
	}
	shellColor     = color.RGBA{250, 250, 210, 255}
	explosionColor = color.RGBA{255, 170, 40, 140}
	beamColor      = color.RGBA{160, 220, 255, 220}
	gridColor      = color.RGBA{0, 0, 0, 60}
)

// viewer hosts a game in an ebiten window. The loop advances on wall time
// scaled by the play speed.
type viewer struct {
	game  *game.Game
	loop  *core.GameLoop
	cam   *render.Camera
	tower maplib.TowerKind
	hover maplib.Point
}

func newViewer(g *game.Game, loop *core.GameLoop) *viewer {
	v := &viewer{
		game: g,
		loop: loop,
		cam:  render.NewCamera(ScreenWidth, ScreenHeight, 48),
	}
	l := g.Board().Level()
	v.cam.FitBoard(l.Width, l.Height)
	loop.Play()
	return v
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.loop.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		v.loop.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		v.game.BeginNewGame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		v.loop.Speed = min(v.loop.Speed+1, 10)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		v.loop.Speed = max(v.loop.Speed-1, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		v.tower = maplib.TowerLightning
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		v.tower = maplib.TowerMortar
	}

	mx, my := ebiten.CursorPosition()
	v.hover = v.cam.TileUnder(mx, my)
	if _, wy := ebiten.Wheel(); wy != 0 {
		v.cam.ZoomAt(wy*0.1, mx, my)
	}
	v.handleCamera()
	v.handleClicks()

	v.loop.Update()
	return nil
}

func (v *viewer) handleCamera() {
	speed := 8.0
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		v.cam.Pan(0, -speed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		v.cam.Pan(0, speed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		v.cam.Pan(-speed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		v.cam.Pan(speed, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		l := v.game.Board().Level()
		v.cam.FitBoard(l.Width, l.Height)
	}
}

// handleClicks queues placements for the tile under the cursor. Commands go
// through the game queue so they land on a tick boundary.
func (v *viewer) handleClicks() {
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.game.Enqueue(command.Clear())
	}
	if _, ok := v.game.Board().TileAt(v.hover); !ok {
		return
	}
	x, y := v.hover.X, v.hover.Y
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && shift:
		v.game.Enqueue(command.Destination(x, y))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.game.Enqueue(command.Wall(x, y))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && shift:
		v.game.Enqueue(command.SpawnPoint(x, y))
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		v.game.Enqueue(command.Tower(x, y, v.tower))
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})
	v.drawBoard(screen)
	v.drawBeams(screen)
	v.game.EachEnemy(func(e *enemy.Enemy) {
		x, y := v.cam.WorldToScreen(e.ModelPosition())
		r := e.ColliderRadius() * v.cam.TileSize()
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), enemyColors[e.Kind()], true)
	})
	v.game.War().Each(func(w systems.WarEntity) {
		switch w := w.(type) {
		case *systems.Shell:
			p, h := w.Position()
			x, y := v.cam.WorldToScreen(p)
			r := float32(0.06*v.cam.TileSize()) * float32(1+h*0.25)
			vector.DrawFilledCircle(screen, float32(x), float32(y), r, shellColor, true)
		case *systems.Explosion:
			x, y := v.cam.WorldToScreen(w.Position())
			r := w.Radius() * v.cam.TileSize() * (0.5 + 0.5*w.Progress())
			vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), explosionColor, true)
		}
	})
	v.drawHUD(screen)
}

func (v *viewer) drawBoard(screen *ebiten.Image) {
	b := v.game.Board()
	g := b.Graph()
	maxDist := 0
	for id := maplib.TileID(0); int(id) < g.Len(); id++ {
		if t := g.Tile(id); t.HasPath() {
			maxDist = max(maxDist, t.Distance())
		}
	}
	size := float32(v.cam.TileSize())
	for id := maplib.TileID(0); int(id) < g.Len(); id++ {
		t := g.Tile(id)
		p := t.Pos()
		x, y := v.cam.WorldToScreen(geom.V2(float64(p.X), float64(p.Y+1)))
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, render.TileColor(t, maxDist), false)
		vector.StrokeRect(screen, float32(x), float32(y), size, size, 1, gridColor, false)
		if t.NextOnPath() != maplib.NoTile {
			cx, cy := v.cam.WorldToScreen(t.Center())
			ex, ey := v.cam.WorldToScreen(t.Center().Lerp(t.ExitPoint(), 0.6))
			vector.StrokeLine(screen, float32(cx), float32(cy), float32(ex), float32(ey), 2, render.PathMarkColor, true)
		}
	}
	if t, ok := b.TileAt(v.hover); ok {
		x, y := v.cam.WorldToScreen(geom.V2(float64(t.Pos().X), float64(t.Pos().Y+1)))
		vector.StrokeRect(screen, float32(x), float32(y), size, size, 2, color.RGBA{255, 255, 0, 200}, false)
	}
}

func (v *viewer) drawBeams(screen *ebiten.Image) {
	for _, tile := range v.game.Board().Towers() {
		target, ok := v.game.Armory().TargetOf(tile.Content())
		if !ok || tile.Content().Tower != maplib.TowerLightning {
			continue
		}
		x0, y0 := v.cam.WorldToScreen(tile.Center())
		x1, y1 := v.cam.WorldToScreen(target.ModelPosition())
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, beamColor, true)
	}
}

func (v *viewer) drawHUD(screen *ebiten.Image) {
	s := v.game.Snapshot()
	c := s.Counters
	status := s.State.String()
	if v.loop.State == core.StatePaused && s.State == game.StatePlaying {
		status = "paused"
	}
	info := fmt.Sprintf(
		"TD Engine | FPS: %.0f | Tick: %d | Speed: %.0fx | %s\n"+
			"Health: %d/%d | Wave %d Cycle %d | Enemies: %d\n"+
			"Walls %d/%d | Lightning %d/%d | Mortar %d/%d | Tower: %s\n"+
			"[LClick] Wall [RClick] Tower [1/2] Tower kind [Shift] Dest/Spawn\n"+
			"[WASD] Pan [Scroll] Zoom [F] Fit [Space] Pause [.] Step [+/-] Speed [C] Clear [N] New",
		ebiten.ActualFPS(), s.Tick, v.loop.Speed, status,
		s.Health, s.StartingHealth, s.Wave+1, s.Cycle+1, s.Enemies,
		c.Walls, c.MaxWalls,
		c.Towers[maplib.TowerLightning], c.MaxTowers[maplib.TowerLightning],
		c.Towers[maplib.TowerMortar], c.MaxTowers[maplib.TowerMortar],
		v.tower,
	)
	ebitenutil.DebugPrint(screen, info)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
