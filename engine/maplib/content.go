package maplib

import "github.com/1siamBot/td-engine/engine/pool"

// ContentType defines what occupies a tile
type ContentType uint8

const (
	ContentEmpty ContentType = iota
	ContentDestination
	ContentWall
	ContentSpawnPoint
	ContentTower
)

func (t ContentType) String() string {
	switch t {
	case ContentEmpty:
		return "empty"
	case ContentDestination:
		return "destination"
	case ContentWall:
		return "wall"
	case ContentSpawnPoint:
		return "spawn"
	case ContentTower:
		return "tower"
	}
	return "unknown"
}

// TowerKind selects the behaviour of a tower
type TowerKind uint8

const (
	TowerLightning TowerKind = iota
	TowerMortar
	TowerKindCount
)

func (k TowerKind) String() string {
	switch k {
	case TowerLightning:
		return "lightning"
	case TowerMortar:
		return "mortar"
	}
	return "unknown"
}

// Content is the occupant of a tile. Tower is meaningful only when Type is
// ContentTower.
type Content struct {
	Type  ContentType
	Tower TowerKind

	origin *ContentFactory
	serial uint64
}

// Serial is unique per acquisition, so a recycled instance does not look
// like the content it replaced
func (c *Content) Serial() uint64 { return c.serial }

// BlocksPath reports whether enemies must route around this content
func (c *Content) BlocksPath() bool {
	return c.Type == ContentWall || c.Type == ContentTower
}

// Recycle hands the content back to the factory that produced it
func (c *Content) Recycle() {
	c.origin.Reclaim(c)
}

// ContentFactory produces tile content from a pool
type ContentFactory struct {
	pool   *pool.Pool[*Content]
	serial uint64
}

var _ pool.Factory[ContentType, *Content] = (*ContentFactory)(nil)

func NewContentFactory() *ContentFactory {
	f := &ContentFactory{}
	f.pool = pool.New(func() *Content { return &Content{origin: f} })
	return f
}

// Acquire returns content of a non-tower type. Use AcquireTower for towers.
func (f *ContentFactory) Acquire(t ContentType) *Content {
	if t == ContentTower {
		panic("maplib: tower content needs a kind, use AcquireTower")
	}
	c := f.get()
	c.Type = t
	c.Tower = 0
	return c
}

// AcquireTower returns tower content of the given kind
func (f *ContentFactory) AcquireTower(k TowerKind) *Content {
	if k >= TowerKindCount {
		panic("maplib: unsupported tower kind")
	}
	c := f.get()
	c.Type = ContentTower
	c.Tower = k
	return c
}

func (f *ContentFactory) get() *Content {
	c := f.pool.Get()
	f.serial++
	c.serial = f.serial
	return c
}

// Reclaim takes content back. Content from another factory panics.
func (f *ContentFactory) Reclaim(c *Content) {
	if c.origin != f {
		panic("maplib: content reclaimed by the wrong factory")
	}
	f.pool.Put(c)
}

// Live returns how many content instances are currently installed
func (f *ContentFactory) Live() int { return f.pool.Live() }
