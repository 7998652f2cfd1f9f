package systems

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/1siamBot/td-engine/engine/core"
	"github.com/1siamBot/td-engine/engine/geom"
	"github.com/1siamBot/td-engine/engine/maplib"
)

var ErrInvalidTowerStats = errors.New("systems: invalid tower stats")

// Target is anything towers can shoot at
type Target interface {
	ModelPosition() geom.Vec2
	ColliderRadius() float64
	ApplyDamage(damage float64)
	Alive() bool
}

// TargetSource enumerates the current targets
type TargetSource interface {
	EachTarget(fn func(Target))
}

// Targeting answers radius queries against a target source
type Targeting struct {
	Source TargetSource
	rng    *rand.Rand
	buf    []Target
}

func NewTargeting(src TargetSource, rng *rand.Rand) *Targeting {
	return &Targeting{Source: src, rng: rng}
}

// InRadius returns live targets whose collider touches the circle. The
// slice is reused by the next query.
func (tg *Targeting) InRadius(center geom.Vec2, radius float64) []Target {
	tg.buf = tg.buf[:0]
	tg.Source.EachTarget(func(t Target) {
		if !t.Alive() {
			return
		}
		r := radius + t.ColliderRadius()
		if t.ModelPosition().Sub(center).LenSq() <= r*r {
			tg.buf = append(tg.buf, t)
		}
	})
	return tg.buf
}

// Acquire picks a random target in range
func (tg *Targeting) Acquire(center geom.Vec2, rangeRadius float64) (Target, bool) {
	hits := tg.InRadius(center, rangeRadius)
	if len(hits) == 0 {
		return nil, false
	}
	return hits[tg.rng.Intn(len(hits))], true
}

// Track reports whether t is still alive and in range
func (tg *Targeting) Track(center geom.Vec2, rangeRadius float64, t Target) bool {
	if t == nil || !t.Alive() {
		return false
	}
	r := rangeRadius + t.ColliderRadius()
	return t.ModelPosition().Sub(center).LenSq() <= r*r
}

// LightningStats configures the beam tower
type LightningStats struct {
	Range           float64 `json:"range"`
	DamagePerSecond float64 `json:"damage_per_second"`
}

// MortarStats configures the shell tower
type MortarStats struct {
	Range          float64 `json:"range"`
	ShotsPerSecond float64 `json:"shots_per_second"`
	BlastRadius    float64 `json:"blast_radius"`
	ShellDamage    float64 `json:"shell_damage"`
	LaunchHeight   float64 `json:"launch_height"`
}

// TowerStats holds the stats of every tower kind
type TowerStats struct {
	Lightning LightningStats `json:"lightning"`
	Mortar    MortarStats    `json:"mortar"`
}

func DefaultTowerStats() TowerStats {
	return TowerStats{
		Lightning: LightningStats{Range: 1.5, DamagePerSecond: 25},
		Mortar: MortarStats{
			Range:          3.5,
			ShotsPerSecond: 1,
			BlastRadius:    1,
			ShellDamage:    20,
			LaunchHeight:   1,
		},
	}
}

func (s TowerStats) Validate() error {
	switch {
	case s.Lightning.Range < 1.5 || s.Mortar.Range < 1.5:
		return fmt.Errorf("%w: range below 1.5", ErrInvalidTowerStats)
	case s.Lightning.DamagePerSecond <= 0:
		return fmt.Errorf("%w: lightning damage must be positive", ErrInvalidTowerStats)
	case s.Mortar.ShotsPerSecond <= 0:
		return fmt.Errorf("%w: mortar fire rate must be positive", ErrInvalidTowerStats)
	case s.Mortar.BlastRadius <= 0 || s.Mortar.ShellDamage <= 0:
		return fmt.Errorf("%w: mortar blast must be positive", ErrInvalidTowerStats)
	case s.Mortar.LaunchHeight < 0:
		return fmt.Errorf("%w: negative launch height", ErrInvalidTowerStats)
	}
	return nil
}

// turret is the runtime state of one placed tower
type turret struct {
	serial   uint64
	tile     maplib.TileID
	kind     maplib.TowerKind
	target   Target
	progress float64
	seen     uint64
}

// Armory runs every placed tower. Per-tower state is keyed by the tile
// content instance, reset when that instance is reacquired and dropped once
// it leaves the board.
type Armory struct {
	Stats     TowerStats
	Targeting *Targeting
	War       *War
	EventBus  *core.EventBus

	turrets map[*maplib.Content]*turret
	pass    uint64
}

func NewArmory(stats TowerStats, tg *Targeting, war *War) *Armory {
	return &Armory{
		Stats:     stats,
		Targeting: tg,
		War:       war,
		turrets:   make(map[*maplib.Content]*turret),
	}
}

// GameUpdate advances every tower on the given tiles by dt
func (a *Armory) GameUpdate(dt float64, towers []*maplib.Tile) {
	a.pass++
	for _, tile := range towers {
		c := tile.Content()
		if c.Type != maplib.ContentTower {
			panic("systems: armory given a tile without a tower")
		}
		t := a.turrets[c]
		if t == nil || t.serial != c.Serial() || t.tile != tile.ID() || t.kind != c.Tower {
			t = &turret{serial: c.Serial(), tile: tile.ID(), kind: c.Tower}
			a.turrets[c] = t
		}
		t.seen = a.pass
		switch c.Tower {
		case maplib.TowerLightning:
			a.updateLightning(t, tile.Center(), dt)
		case maplib.TowerMortar:
			a.updateMortar(t, tile.Center(), dt)
		}
	}
	for c, t := range a.turrets {
		if t.seen != a.pass {
			delete(a.turrets, c)
		}
	}
}

// Turrets returns the number of towers with runtime state
func (a *Armory) Turrets() int { return len(a.turrets) }

// TargetOf returns the current target of the tower on tile c, if any
func (a *Armory) TargetOf(c *maplib.Content) (Target, bool) {
	t := a.turrets[c]
	if t == nil || t.target == nil {
		return nil, false
	}
	return t.target, true
}

// Forget drops target from every tower aiming at it. Call it before the
// target is recycled.
func (a *Armory) Forget(target Target) {
	for _, t := range a.turrets {
		if t.target == target {
			t.target = nil
		}
	}
}

// Reset forgets all tower state
func (a *Armory) Reset() {
	clear(a.turrets)
}

func (a *Armory) updateLightning(t *turret, center geom.Vec2, dt float64) {
	s := a.Stats.Lightning
	if !a.Targeting.Track(center, s.Range, t.target) {
		var ok bool
		if t.target, ok = a.Targeting.Acquire(center, s.Range); !ok {
			return
		}
	}
	t.target.ApplyDamage(s.DamagePerSecond * dt)
}

func (a *Armory) updateMortar(t *turret, center geom.Vec2, dt float64) {
	s := a.Stats.Mortar
	t.progress += s.ShotsPerSecond * dt
	for t.progress >= 1 {
		target, ok := a.Targeting.Acquire(center, s.Range)
		if !ok {
			t.target = nil
			t.progress = 0.999
			return
		}
		t.target = target
		a.War.Launch(center, s.LaunchHeight, target.ModelPosition(), s.Range, s.BlastRadius, s.ShellDamage)
		t.progress--
	}
}
