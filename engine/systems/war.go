package systems

import (
	"math"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/pool"
)

// Gravity in tiles per second squared
const Gravity = 9.81

// WarEntity is a short-lived combat effect
type WarEntity interface {
	core.Behavior
}

// Shell flies a ballistic arc from a mortar and explodes on touching the
// ground
type Shell struct {
	war *War

	launch   geom.Vec2
	height   float64
	target   geom.Vec2
	velocity geom.Vec2 // ground plane
	climb    float64   // vertical launch speed
	age      float64

	blastRadius float64
	damage      float64
}

// Position returns the ground position and height of the shell
func (s *Shell) Position() (geom.Vec2, float64) {
	p := s.launch.Add(s.velocity.Scale(s.age))
	h := s.height + s.climb*s.age - 0.5*Gravity*s.age*s.age
	return p, h
}

func (s *Shell) Target() geom.Vec2 { return s.target }

func (s *Shell) GameUpdate(dt float64) bool {
	s.age += dt
	if _, h := s.Position(); h <= 0 {
		s.war.Explode(s.target, s.blastRadius, s.damage)
		return false
	}
	return true
}

func (s *Shell) Recycle() { s.war.factory.reclaimShell(s) }

// Explosion damages everything within its radius once, then lingers for
// its duration
type Explosion struct {
	war *War

	position geom.Vec2
	radius   float64
	age      float64
	duration float64
}

func (e *Explosion) Position() geom.Vec2 { return e.position }
func (e *Explosion) Radius() float64     { return e.radius }

// Progress is the fraction of the explosion's lifetime already elapsed
func (e *Explosion) Progress() float64 { return e.age / e.duration }

func (e *Explosion) GameUpdate(dt float64) bool {
	e.age += dt
	return e.age < e.duration
}

func (e *Explosion) Recycle() { e.war.factory.reclaimExplosion(e) }

// WarFactory pools shells and explosions
type WarFactory struct {
	shells     *pool.Pool[*Shell]
	explosions *pool.Pool[*Explosion]
}

func NewWarFactory() *WarFactory {
	return &WarFactory{
		shells:     pool.New(func() *Shell { return &Shell{} }),
		explosions: pool.New(func() *Explosion { return &Explosion{} }),
	}
}

func (f *WarFactory) reclaimShell(s *Shell) {
	f.shells.Put(s)
}

func (f *WarFactory) reclaimExplosion(e *Explosion) {
	f.explosions.Put(e)
}

// Live returns the number of shells and explosions in flight
func (f *WarFactory) Live() (shells, explosions int) {
	return f.shells.Live(), f.explosions.Live()
}

// War owns all war entities and spawns new ones into its collection
type War struct {
	Targeting         *Targeting
	EventBus          *core.EventBus
	ExplosionDuration float64

	factory  *WarFactory
	entities *core.Collection[WarEntity]
}

func NewWar(factory *WarFactory, tg *Targeting) *War {
	return &War{
		Targeting:         tg,
		ExplosionDuration: 0.5,
		factory:           factory,
		entities:          core.NewCollection[WarEntity](nil),
	}
}

func (w *War) GameUpdate(dt float64) { w.entities.GameUpdate(dt) }
func (w *War) Clear()                { w.entities.Clear() }
func (w *War) Len() int              { return w.entities.Len() }

// Each calls fn for every live war entity
func (w *War) Each(fn func(WarEntity)) { w.entities.Each(fn) }

// LaunchSpeed is the minimum speed that lets a shell fired from
// launchHeight reach a ground target just beyond reach
func LaunchSpeed(reach, launchHeight float64) float64 {
	x := reach + 0.25001
	y := -launchHeight
	return math.Sqrt(Gravity * (y + math.Sqrt(x*x+y*y)))
}

// Launch fires a shell from a mortar at from toward the ground point target
func (w *War) Launch(from geom.Vec2, launchHeight float64, target geom.Vec2, reach, blastRadius, damage float64) *Shell {
	s := w.factory.shells.Get()
	*s = Shell{
		war:         w,
		launch:      from,
		height:      launchHeight,
		target:      target,
		blastRadius: blastRadius,
		damage:      damage,
	}

	speed := LaunchSpeed(reach, launchHeight)
	d := target.Sub(from)
	x := d.Len()
	if x < 1e-6 {
		s.climb = speed
	} else {
		dir := d.Scale(1 / x)
		y := -launchHeight
		s2 := speed * speed
		r := s2*s2 - Gravity*(Gravity*x*x+2*y*s2)
		if r < 0 {
			r = 0
		}
		tanTheta := (s2 + math.Sqrt(r)) / (Gravity * x)
		cosTheta := math.Cos(math.Atan(tanTheta))
		sinTheta := cosTheta * tanTheta
		s.velocity = dir.Scale(speed * cosTheta)
		s.climb = speed * sinTheta
	}

	w.entities.Add(s)
	if w.EventBus != nil {
		w.EventBus.Emit(core.Event{Type: core.EvtShellLaunched, Payload: target})
	}
	return s
}

// Explode damages every target in radius and leaves a lingering explosion
func (w *War) Explode(at geom.Vec2, radius, damage float64) *Explosion {
	if damage > 0 {
		for _, t := range w.Targeting.InRadius(at, radius) {
			t.ApplyDamage(damage)
		}
	}
	e := w.factory.explosions.Get()
	*e = Explosion{
		war:      w,
		position: at,
		radius:   radius,
		duration: w.ExplosionDuration,
	}
	w.entities.Add(e)
	if w.EventBus != nil {
		w.EventBus.Emit(core.Event{Type: core.EvtExplosion, Payload: at})
	}
	return e
}
