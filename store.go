package multilist

import (
	"math"
	"slices"
	"strconv"

	"github.com/graxinc/errutil"
)

// Stable index of a slot. Only meaningful to the container that returned it.
type Handle uint32

// Sentinel meaning absent.
const Invalid Handle = math.MaxUint32

func InvalidHandle() Handle {
	return Invalid
}

func (h Handle) Valid() bool {
	return h != Invalid
}

func (h Handle) String() string {
	if h == Invalid {
		return "invalid"
	}
	return strconv.FormatUint(uint64(h), 10)
}

type Options[T any] struct {
	Capacity int     // Slots reserved up front. Defaults to none.
	Release  func(T) // Called with a payload right before its slot is recycled. Defaults to noop.
}

// Either an occupied node or a free link, selected by free.
type slot[T any] struct {
	prev Handle
	next Handle // next free slot when free.
	free bool
	v    T
}

// Append-only, slots never move so handles stay stable.
type store[T any] struct {
	slots    []slot[T]
	free     Handle // last released, head of the free chain.
	occupied int
	release  func(T)
}

func makeStore[T any](o Options[T]) store[T] {
	s := store[T]{free: Invalid, release: o.Release}
	if o.Capacity > 0 {
		s.slots = make([]slot[T], 0, o.Capacity)
	}
	return s
}

// LIFO from the free chain, otherwise appends.
func (s *store[T]) acquire(v T) Handle {
	if h := s.free; h != Invalid {
		n := &s.slots[h]
		s.free = n.next
		*n = slot[T]{prev: Invalid, next: Invalid, v: v}
		s.occupied++
		return h
	}

	if uint64(len(s.slots)) >= uint64(Invalid) {
		panic(errutil.New(errutil.Tags{"slotsExhausted": len(s.slots)}))
	}
	h := Handle(len(s.slots))
	s.slots = append(s.slots, slot[T]{prev: Invalid, next: Invalid, v: v})
	s.occupied++
	return h
}

// h must be occupied and already unlinked.
func (s *store[T]) releaseSlot(h Handle) {
	n := &s.slots[h]
	if s.release != nil {
		s.release(n.v)
	}
	// overwriting drops the payload before the free link is written.
	*n = slot[T]{prev: Invalid, next: s.free, free: true}
	s.free = h
	s.occupied--
}

// Unchecked, h must be occupied.
func (s *store[T]) node(h Handle) *slot[T] {
	return &s.slots[h]
}

func (s *store[T]) get(h Handle) (*slot[T], bool) {
	if uint64(h) >= uint64(len(s.slots)) {
		return nil, false
	}
	n := &s.slots[h]
	if n.free {
		return nil, false
	}
	return n, true
}

func (s *store[T]) grow(n int) {
	if n > 0 {
		s.slots = slices.Grow(s.slots, n)
	}
}

// Drops every slot but keeps the capacity.
func (s *store[T]) reset() {
	if s.release != nil {
		for i := range s.slots {
			if n := &s.slots[i]; !n.free {
				s.release(n.v)
			}
		}
	}
	clear(s.slots)
	s.slots = s.slots[:0]
	s.free = Invalid
	s.occupied = 0
}
