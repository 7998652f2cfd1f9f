package enemy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/1siamBot/td-engine/engine/pool"
)

var ErrInvalidConfig = errors.New("enemy: invalid config")

// Kind selects an enemy archetype
type Kind uint8

const (
	KindSmall Kind = iota
	KindMedium
	KindLarge
	KindCount
)

func (k Kind) String() string {
	switch k {
	case KindSmall:
		return "small"
	case KindMedium:
		return "medium"
	case KindLarge:
		return "large"
	}
	return "unknown"
}

// FloatRange is an inclusive range sampled uniformly
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Fixed returns a range that always samples v
func Fixed(v float64) FloatRange { return FloatRange{v, v} }

// Sample draws a value from the range
func (r FloatRange) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// KindConfig holds the randomized attributes of one enemy kind
type KindConfig struct {
	Scale      FloatRange `json:"scale"`
	Speed      FloatRange `json:"speed"`
	LaneOffset FloatRange `json:"lane_offset"`
	Health     FloatRange `json:"health"`
}

func (c KindConfig) validate() error {
	switch {
	case c.Scale.Min > c.Scale.Max || c.Speed.Min > c.Speed.Max ||
		c.LaneOffset.Min > c.LaneOffset.Max || c.Health.Min > c.Health.Max:
		return errors.New("range min above max")
	case c.Scale.Min <= 0:
		return errors.New("scale must be positive")
	case c.Speed.Min <= 0:
		return errors.New("speed must be positive")
	case c.Health.Min <= 0:
		return errors.New("health must be positive")
	case c.LaneOffset.Min <= -0.5 || c.LaneOffset.Max >= 0.5:
		return errors.New("lane offset must stay inside (-0.5, 0.5)")
	}
	return nil
}

// Config maps every kind to its attributes
type Config struct {
	Small  KindConfig `json:"small"`
	Medium KindConfig `json:"medium"`
	Large  KindConfig `json:"large"`
}

// DefaultConfig returns fast fragile small enemies and slow sturdy large ones
func DefaultConfig() Config {
	return Config{
		Small: KindConfig{
			Scale:      FloatRange{0.5, 0.7},
			Speed:      FloatRange{1.5, 2},
			LaneOffset: FloatRange{-0.4, 0.4},
			Health:     FloatRange{10, 20},
		},
		Medium: KindConfig{
			Scale:      FloatRange{0.8, 1.2},
			Speed:      FloatRange{1, 1.5},
			LaneOffset: FloatRange{-0.3, 0.3},
			Health:     FloatRange{40, 60},
		},
		Large: KindConfig{
			Scale:      FloatRange{1.5, 2},
			Speed:      FloatRange{0.6, 0.8},
			LaneOffset: FloatRange{-0.2, 0.2},
			Health:     FloatRange{150, 250},
		},
	}
}

// For returns the attributes of kind k
func (c *Config) For(k Kind) *KindConfig {
	switch k {
	case KindSmall:
		return &c.Small
	case KindMedium:
		return &c.Medium
	case KindLarge:
		return &c.Large
	}
	panic(fmt.Sprintf("enemy: unsupported kind %d", k))
}

func (c Config) Validate() error {
	for k := Kind(0); k < KindCount; k++ {
		if err := c.For(k).validate(); err != nil {
			return fmt.Errorf("%w: %v: %v", ErrInvalidConfig, k, err)
		}
	}
	return nil
}

// Factory creates enemies from a pool and samples their attributes
type Factory struct {
	cfg  Config
	rng  *rand.Rand
	pool *pool.Pool[*Enemy]
}

var _ pool.Factory[Kind, *Enemy] = (*Factory)(nil)

func NewFactory(cfg Config, rng *rand.Rand) *Factory {
	f := &Factory{cfg: cfg, rng: rng}
	f.pool = pool.New(func() *Enemy { return &Enemy{origin: f} })
	return f
}

// Get returns an initialized enemy of kind k. It still has to be spawned.
func (f *Factory) Get(k Kind) *Enemy {
	kc := f.cfg.For(k)
	e := f.pool.Get()
	e.initialize(k,
		kc.Scale.Sample(f.rng),
		kc.Speed.Sample(f.rng),
		kc.LaneOffset.Sample(f.rng),
		kc.Health.Sample(f.rng),
	)
	return e
}

func (f *Factory) Acquire(k Kind) *Enemy { return f.Get(k) }

// Reclaim takes an enemy back. Enemies from another factory panic.
func (f *Factory) Reclaim(e *Enemy) {
	if e.origin != f {
		panic("enemy: reclaimed by the wrong factory")
	}
	e.graph = nil
	f.pool.Put(e)
}

// Live returns the number of enemies not yet reclaimed
func (f *Factory) Live() int { return f.pool.Live() }
