package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/1siamBot/td-engine/engine/board"
	"github.com/1siamBot/td-engine/engine/game"
	"github.com/1siamBot/td-engine/engine/maplib"
	"github.com/1siamBot/td-engine/engine/render"
)

// pointFlag parses "x,y"
type pointFlag struct {
	p   maplib.Point
	set bool
}

func (f *pointFlag) String() string { return fmt.Sprintf("%d,%d", f.p.X, f.p.Y) }

func (f *pointFlag) Set(s string) error {
	if _, err := fmt.Sscanf(s, "%d,%d", &f.p.X, &f.p.Y); err != nil {
		return fmt.Errorf("want x,y: %w", err)
	}
	f.set = true
	return nil
}

func main() {
	var dest, spawn pointFlag
	var (
		in        = flag.String("config", "", "config to start from (default level when empty)")
		out       = flag.String("out", "", "write the resulting config here")
		pngPath   = flag.String("png", "", "write the initial path field to this PNG")
		name      = flag.String("name", "", "level name")
		width     = flag.Int("width", 0, "board width")
		height    = flag.Int("height", 0, "board height")
		walls     = flag.Int("walls", -1, "maximum walls")
		lightning = flag.Int("lightning", -1, "maximum lightning towers")
		mortar    = flag.Int("mortar", -1, "maximum mortar towers")
		health    = flag.Int("health", -1, "starting health, 0 disables defeat")
		speed     = flag.Float64("speed", 0, "play speed 1..10")
		seed      = flag.Int64("seed", 0, "random seed")
	)
	flag.Var(&dest, "dest", "destination tile x,y")
	flag.Var(&spawn, "spawn", "spawn point tile x,y")
	flag.Parse()

	cfg := game.DefaultConfig()
	if *in != "" {
		var err error
		if cfg, err = game.LoadConfig(*in); err != nil {
			log.Fatal(err)
		}
	}

	l := &cfg.Level
	if *name != "" {
		l.Name = *name
	}
	if *width > 0 {
		l.Width = *width
	}
	if *height > 0 {
		l.Height = *height
	}
	if dest.set {
		l.Destination = dest.p
	}
	if spawn.set {
		l.SpawnPoint = spawn.p
	}
	if *walls >= 0 {
		l.MaxWalls = *walls
	}
	if *lightning >= 0 {
		l.MaxLightningTowers = *lightning
	}
	if *mortar >= 0 {
		l.MaxMortarTowers = *mortar
	}
	if *health >= 0 {
		l.StartingHealth = *health
	}
	if *speed > 0 {
		cfg.PlaySpeed = *speed
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	b, err := board.New(cfg.Level, maplib.NewContentFactory())
	if err != nil {
		log.Fatal(err)
	}
	spawnTile := b.SpawnPointAt(0)
	fmt.Printf("%s: %dx%d, spawn (%d,%d) is %d steps from the destination, %d enemies per cycle\n",
		l.Name, l.Width, l.Height, l.SpawnPoint.X, l.SpawnPoint.Y, spawnTile.Distance(), cfg.Scenario.Total())

	if *out != "" {
		if err := cfg.SaveJSON(*out); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Saved to %s\n", *out)
	}
	if *pngPath != "" {
		if err := render.SavePNG(*pngPath, render.BoardImage(b, 24)); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Path field written to %s\n", *pngPath)
	}
}
