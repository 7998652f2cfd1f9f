package core

// Behavior is anything the simulation advances once per tick. GameUpdate
// returns false when the behavior is finished; its collection then recycles
// it after the current pass.
type Behavior interface {
	GameUpdate(dt float64) bool
	Recycle()
}

// Collection updates behaviors in insertion order. Removals are collected
// during a pass and applied afterwards, so behaviors added mid-pass are
// updated in the same pass and nothing is recycled while iterated.
type Collection[T Behavior] struct {
	items    []T
	finished []int
	removed  []T
	onRemove func(T)
	updating bool
}

// NewCollection creates a collection. onRemove, if set, sees every finished
// behavior before it is recycled.
func NewCollection[T Behavior](onRemove func(T)) *Collection[T] {
	return &Collection[T]{onRemove: onRemove}
}

func (c *Collection[T]) Add(v T) {
	c.items = append(c.items, v)
}

func (c *Collection[T]) Len() int      { return len(c.items) }
func (c *Collection[T]) IsEmpty() bool { return len(c.items) == 0 }

// At returns the i-th live behavior
func (c *Collection[T]) At(i int) T { return c.items[i] }

// Each calls fn for every live behavior
func (c *Collection[T]) Each(fn func(T)) {
	for _, v := range c.items {
		fn(v)
	}
}

// GameUpdate runs one pass, then drops and recycles finished behaviors
func (c *Collection[T]) GameUpdate(dt float64) {
	if c.updating {
		panic("core: collection updated re-entrantly")
	}
	c.updating = true
	for i := 0; i < len(c.items); i++ {
		if !c.items[i].GameUpdate(dt) {
			c.finished = append(c.finished, i)
		}
	}
	c.updating = false
	if len(c.finished) == 0 {
		return
	}

	n, f := 0, 0
	for i, v := range c.items {
		if f < len(c.finished) && c.finished[f] == i {
			c.removed = append(c.removed, v)
			f++
			continue
		}
		c.items[n] = v
		n++
	}
	var zero T
	for i := n; i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = c.items[:n]
	c.finished = c.finished[:0]

	for i, v := range c.removed {
		if c.onRemove != nil {
			c.onRemove(v)
		}
		v.Recycle()
		c.removed[i] = zero
	}
	c.removed = c.removed[:0]
}

// Clear recycles every behavior without calling onRemove
func (c *Collection[T]) Clear() {
	if c.updating {
		panic("core: collection cleared during update")
	}
	var zero T
	for i, v := range c.items {
		v.Recycle()
		c.items[i] = zero
	}
	c.items = c.items[:0]
}
