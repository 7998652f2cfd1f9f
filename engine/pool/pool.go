package pool

import "github.com/zyedidia/generic/mapset"

// Factory is the create/reclaim contract the simulation consumes. Every
// acquired instance is reclaimed exactly once and never used afterwards.
type Factory[K any, T any] interface {
	Acquire(kind K) T
	Reclaim(v T)
}

// Pool recycles instances of T. An instance is owned by at most one caller
// between Get and Put; reclaiming an instance that is not live panics.
type Pool[T comparable] struct {
	newFn     func() T
	free      []T
	live      mapset.Set[T]
	acquired  int
	reclaimed int
}

// New creates a pool that allocates with newFn when no free instance is left
func New[T comparable](newFn func() T) *Pool[T] {
	return &Pool[T]{
		newFn: newFn,
		live:  mapset.New[T](),
	}
}

// Get hands out a free instance, allocating if needed. The caller resets it.
func (p *Pool[T]) Get() T {
	var v T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		v = p.newFn()
	}
	p.live.Put(v)
	p.acquired++
	return v
}

// Put returns a live instance to the pool
func (p *Pool[T]) Put(v T) {
	if !p.live.Has(v) {
		panic("pool: reclaimed an instance that is not live")
	}
	p.live.Remove(v)
	p.free = append(p.free, v)
	p.reclaimed++
}

// IsLive reports whether v is currently handed out
func (p *Pool[T]) IsLive(v T) bool { return p.live.Has(v) }

// Live returns the number of instances currently handed out
func (p *Pool[T]) Live() int { return p.live.Size() }

// Stats returns lifetime acquire and reclaim totals
func (p *Pool[T]) Stats() (acquired, reclaimed int) {
	return p.acquired, p.reclaimed
}
