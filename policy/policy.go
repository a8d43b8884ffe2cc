package policy

import (
	"iter"
	"math"

	"github.com/graxinc/multilist"
)

// Based on https://github.com/dgryski/go-arc / https://github.com/hashicorp/golang-lru.
// Algo overview at https://en.wikipedia.org/wiki/Adaptive_replacement_cache.
// Details at https://www2.cs.uh.edu/~paris/7360/PAPERS03/arcfast.pdf.

// Not concurrent safe.
type Policy[T any] interface {
	Clear()
	Promote(T) (exists bool)
	Evict() (_ T, ok bool)

	// !ok if already exists.
	Add(T) (ok bool)

	// !ok if not resident.
	Remove(T) (ok bool)

	// Hottest to coldest.
	// Safe for RLock.
	Values() iter.Seq[T]
}

// ARC groups, all sharing one arena.
const (
	t1 = iota
	t2
	b1
	b2
	arcGroups
)

// Which group a key is in, handles carry no group.
type arcEntry struct {
	h multilist.Handle
	g uint8
}

type ARC[T comparable] struct {
	// immutable
	lists *multilist.MultiList[T]
	keys  map[T]arcEntry

	f float64
}

func NewARC[T comparable]() *ARC[T] {
	return &ARC[T]{
		lists: multilist.NewMultiList[T](arcGroups, multilist.Options[T]{}),
		keys:  make(map[T]arcEntry),
	}
}

func (c *ARC[T]) Clear() {
	c.lists.Reset()
	clear(c.keys)
	c.f = 0
}

func (c *ARC[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range c.lists.All(t2) {
			if !yield(v) {
				return
			}
		}
		for _, v := range c.lists.All(t1) {
			if !yield(v) {
				return
			}
		}
	}
}

func (c *ARC[T]) Promote(key T) bool {
	e, ok := c.keys[key]
	if !ok {
		return false
	}
	switch e.g {
	case t2:
		c.lists.MoveToFront(t2, e.h)
		return true
	case t1:
		c.move(t1, t2, key, e.h)
		return true
	}
	return false // ghost
}

func (c *ARC[T]) Evict() (evicted T, ok bool) {
	if c.len(t1) > 0 && (c.len(t1) > c.t1TargetLen() || c.len(t2) == 0) {
		return c.demoteTail(t1, b1), true
	}
	if c.len(t2) > 0 {
		return c.demoteTail(t2, b2), true
	}
	var zero T
	return zero, false
}

func (c *ARC[T]) Add(key T) (ok bool) {
	e, exists := c.keys[key]
	if exists {
		switch e.g {
		case t1, t2:
			return false
		case b2:
			c.b2Hit()
			c.move(b2, t2, key, e.h)
			return true
		case b1:
			c.b1Hit()
			c.move(b1, t2, key, e.h)
			return true
		}
	}

	// trim b tails, since total b+t increasing.
	t := c.t1TargetLen()
	for c.len(b1) > c.tLen()-t && c.len(b1) > 0 {
		c.dropTail(b1)
	}
	for c.len(b2) > t && c.len(b2) > 0 {
		c.dropTail(b2)
	}
	c.push(t1, key)
	return true
}

// Ghosts are left alone.
func (c *ARC[T]) Remove(key T) bool {
	e, ok := c.keys[key]
	if !ok || (e.g != t1 && e.g != t2) {
		return false
	}
	delete(c.keys, key)
	c.lists.Remove(int(e.g), e.h)
	return true
}

func (c *ARC[T]) push(g int, key T) {
	h := c.lists.PushFront(g, key)
	c.keys[key] = arcEntry{h, uint8(g)}
}

func (c *ARC[T]) move(from, to int, key T, h multilist.Handle) {
	c.lists.Transfer(from, to, h)
	c.keys[key] = arcEntry{h, uint8(to)}
}

// from must not be empty.
func (c *ARC[T]) demoteTail(from, to int) T {
	h := c.lists.Tail(from)
	key := *c.lists.Value(h)
	c.move(from, to, key, h)
	return key
}

// g must not be empty.
func (c *ARC[T]) dropTail(g int) {
	key := *c.lists.Value(c.lists.Tail(g))
	delete(c.keys, key)
	c.lists.RemoveLast(g)
}

// b1 must not be empty.
func (c *ARC[T]) b1Hit() {
	delta := 1
	if b1, b2 := c.len(b1), c.len(b2); b2 > b1 {
		delta = b2 / b1
	}
	c.setF(delta)
}

// b2 must not be empty.
func (c *ARC[T]) b2Hit() {
	delta := 1
	if b1, b2 := c.len(b1), c.len(b2); b1 > b2 {
		delta = b1 / b2
	}
	c.setF(-delta)
}

func (c *ARC[T]) t1TargetLen() int {
	f := math.RoundToEven(c.f * float64(c.tLen()))
	return int(f)
}

func (c *ARC[T]) setF(delta int) {
	t := c.t1TargetLen()
	t += delta
	t = min(max(t, 0), c.tLen()) // bound
	c.f = float64(t) / float64(c.tLen())
}

func (c *ARC[T]) tLen() int {
	return c.len(t1) + c.len(t2)
}

func (c *ARC[T]) len(g int) int {
	return c.lists.Len(g)
}

// Least recently used. Not concurrent safe.
type LRU[T comparable] struct {
	// immutable
	list *multilist.List[T]
	keys map[T]multilist.Handle
}

func NewLRU[T comparable]() *LRU[T] {
	return &LRU[T]{
		list: multilist.NewList(multilist.Options[T]{}),
		keys: make(map[T]multilist.Handle),
	}
}

func (c *LRU[T]) Clear() {
	c.list.Clear()
	clear(c.keys)
}

func (c *LRU[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range c.list.All() {
			if !yield(v) {
				return
			}
		}
	}
}

func (c *LRU[T]) Promote(key T) bool {
	h, ok := c.keys[key]
	if ok {
		c.list.MoveToFront(h)
	}
	return ok
}

func (c *LRU[T]) Evict() (evicted T, ok bool) {
	h := c.list.Tail()
	if !h.Valid() {
		return evicted, false
	}
	evicted = *c.list.Value(h)
	delete(c.keys, evicted)
	c.list.RemoveLast()
	return evicted, true
}

func (c *LRU[T]) Add(key T) bool {
	if _, ok := c.keys[key]; ok {
		return false
	}
	c.keys[key] = c.list.PushFront(key)
	return true
}

func (c *LRU[T]) Remove(key T) bool {
	h, ok := c.keys[key]
	if !ok {
		return false
	}
	delete(c.keys, key)
	c.list.Remove(h)
	return true
}
