package core

import "time"

// LoopState tells whether simulation time advances
type LoopState uint8

const (
	StatePaused LoopState = iota
	StatePlaying
)

// Ticker is advanced by the loop once per fixed step
type Ticker interface {
	Tick(dt float64)
}

// GameLoop manages the fixed-timestep game loop for deterministic simulation
type GameLoop struct {
	Target   Ticker
	State    LoopState
	TickRate float64 // fixed ticks per second
	// Speed scales simulation time against wall time
	Speed float64

	accumulator float64
	ticks       uint64
	lastTime    time.Time
}

// NewGameLoop creates a paused game loop with fixed tick rate
func NewGameLoop(target Ticker, tickRate float64) *GameLoop {
	if tickRate <= 0 {
		panic("core: tick rate must be positive")
	}
	return &GameLoop{
		Target:   target,
		TickRate: tickRate,
		Speed:    1,
		lastTime: time.Now(),
	}
}

// Update should be called every render frame. It measures wall time since
// the previous call and advances the simulation by it.
func (gl *GameLoop) Update() float64 {
	now := time.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance runs as many fixed steps as frameTime covers and returns the
// interpolation alpha for smooth rendering
func (gl *GameLoop) Advance(frameTime float64) float64 {
	// Cap frame time to avoid spiral of death
	if frameTime > 0.25 {
		frameTime = 0.25
	}
	dt := 1.0 / gl.TickRate
	if gl.State != StatePlaying {
		return gl.accumulator / dt
	}
	gl.accumulator += frameTime * gl.Speed

	for gl.accumulator >= dt {
		gl.Target.Tick(dt)
		gl.ticks++
		gl.accumulator -= dt
	}
	return gl.accumulator / dt
}

// Step runs exactly one fixed step regardless of state
func (gl *GameLoop) Step() {
	gl.Target.Tick(1.0 / gl.TickRate)
	gl.ticks++
}

// Play starts or resumes the game
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = time.Now()
}

// Pause pauses the game
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
}

// TogglePause flips between playing and paused
func (gl *GameLoop) TogglePause() {
	if gl.State == StatePlaying {
		gl.Pause()
	} else {
		gl.Play()
	}
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.ticks
}
