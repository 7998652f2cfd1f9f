package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/td-engine/engine/command"
	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/enemy"
	"github.com/1siamBot/td-engine/engine/game"
	"github.com/1siamBot/td-engine/engine/render"
)

const (
	ScreenWidth  = 1024
	ScreenHeight = 768
)

func main() {
	var (
		configPath = flag.String("config", "", "level config JSON (default level when empty)")
		ticks      = flag.Uint64("ticks", 9000, "headless: maximum ticks to simulate")
		window     = flag.Bool("window", false, "open an ebiten window instead of running headless")
		seed       = flag.Int64("seed", 0, "override the config seed when non-zero")
		recordPath = flag.String("record", "", "record applied commands to this replay file")
		replayPath = flag.String("replay", "", "play back commands from this replay file")
		pngPath    = flag.String("png", "", "write the final path field to this PNG")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("bad -log-level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithRand(rand.New(rand.NewSource(cfg.Seed))),
	}
	var recorder *command.Replay
	if *recordPath != "" {
		var err error
		if recorder, err = command.NewReplayRecorder(*recordPath); err != nil {
			log.Fatal(err)
		}
		opts = append(opts, game.WithRecorder(recorder))
	}
	if *replayPath != "" {
		replay, err := command.LoadReplay(*replayPath)
		if err != nil {
			log.Fatal(err)
		}
		logger.Info("replay loaded", "commands", len(replay.Commands), "last_tick", replay.LastTick())
		opts = append(opts, game.WithReplay(replay))
	}

	g, err := game.New(cfg, opts...)
	if err != nil {
		log.Fatal(err)
	}
	watch(g, logger)

	loop := core.NewGameLoop(g, cfg.TickRate)
	loop.Speed = cfg.PlaySpeed
	if *window {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle("TD Engine | " + cfg.Level.Name)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		if err := ebiten.RunGame(newViewer(g, loop)); err != nil {
			log.Fatal(err)
		}
	} else {
		runHeadless(g, loop, *ticks)
	}

	if recorder != nil {
		if err := recorder.Close(); err != nil {
			log.Fatal(err)
		}
	}
	if *pngPath != "" {
		if err := render.SavePNG(*pngPath, render.BoardImage(g.Board(), 16)); err != nil {
			log.Fatal(err)
		}
	}

	s := g.Snapshot()
	fmt.Printf("%s after %d ticks: health %d/%d, wave %d, cycle %d, %d enemies left\n",
		s.State, s.Tick, s.Health, s.StartingHealth, s.Wave, s.Cycle, s.Enemies)
}

// runHeadless steps the loop as fast as possible until the game ends
func runHeadless(g *game.Game, loop *core.GameLoop, maxTicks uint64) {
	loop.Play()
	for loop.CurrentTick() < maxTicks && g.State() == game.StatePlaying {
		loop.Step()
	}
}

// watch logs the notable game events
func watch(g *game.Game, logger *slog.Logger) {
	bus := g.Events()
	bus.On(core.EvtWaveStarted, func(e core.Event) {
		logger.Info("wave started", "tick", e.Tick, "wave", e.Payload)
	})
	bus.On(core.EvtEnemyArrived, func(e core.Event) {
		logger.Info("enemy reached destination", "tick", e.Tick, "kind", e.Payload.(enemy.Kind).String(),
			"health", g.Player().Health)
	})
	bus.On(core.EvtPlacementRejected, func(e core.Event) {
		logger.Warn("placement rejected", "tick", e.Tick, "cmd", e.Payload.(command.Command).String())
	})
}
