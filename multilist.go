package multilist

import (
	"iter"

	"github.com/graxinc/errutil"
)

// A fixed number of doubly linked lists (groups) sharing one slab of slots and one
// free chain, so a slot released by one group is reused by the next insertion into
// any group. Groups only hold head and tail handles, so moving a node between
// groups never copies its value.
//
// Group indices are checked and panic when out of range. Handles are not: a handle
// must be occupied and belong to the group it is presented with, otherwise the
// groups are corrupted. Nodes carry no group tag, callers that need membership
// track it themselves.
//
// Not concurrent safe.
type MultiList[T any] struct {
	s      store[T]
	chains []chain
}

// groups must be at least 1.
func NewMultiList[T any](groups int, o Options[T]) *MultiList[T] {
	if groups < 1 {
		panic(errutil.New(errutil.Tags{"groups": groups}))
	}
	chains := make([]chain, groups)
	for i := range chains {
		chains[i] = emptyChain()
	}
	return &MultiList[T]{s: makeStore(o), chains: chains}
}

func (l *MultiList[T]) PushFront(g int, v T) Handle {
	return l.s.pushFront(l.chain(g), v)
}

func (l *MultiList[T]) PushBack(g int, v T) Handle {
	return l.s.pushBack(l.chain(g), v)
}

func (l *MultiList[T]) InsertBefore(g int, at Handle, v T) Handle {
	return l.s.insertBefore(l.chain(g), at, v)
}

func (l *MultiList[T]) InsertAfter(g int, at Handle, v T) Handle {
	return l.s.insertAfter(l.chain(g), at, v)
}

func (l *MultiList[T]) Remove(g int, at Handle) {
	l.s.remove(l.chain(g), at)
}

// Group must not be empty.
func (l *MultiList[T]) RemoveFirst(g int) {
	l.s.removeFirst(l.chain(g))
}

// Group must not be empty.
func (l *MultiList[T]) RemoveLast(g int) {
	l.s.removeLast(l.chain(g))
}

func (l *MultiList[T]) MoveToFront(g int, at Handle) {
	l.s.moveToFront(l.chain(g), at)
}

func (l *MultiList[T]) MoveToBack(g int, at Handle) {
	l.s.moveToBack(l.chain(g), at)
}

// Moves at from the group from to the front of the group to. The handle is kept.
func (l *MultiList[T]) Transfer(from, to int, at Handle) {
	fc, tc := l.chain(from), l.chain(to)
	l.s.unlink(fc, at)
	l.s.linkFront(tc, at)
}

// Like Transfer but to the back.
func (l *MultiList[T]) TransferBack(from, to int, at Handle) {
	fc, tc := l.chain(from), l.chain(to)
	l.s.unlink(fc, at)
	l.s.linkBack(tc, at)
}

// Exchanges the contents of two groups.
func (l *MultiList[T]) SwapGroups(a, b int) {
	ac, bc := l.chain(a), l.chain(b)
	*ac, *bc = *bc, *ac
}

// Removes all from the group, keeping slots for reuse.
func (l *MultiList[T]) Clear(g int) {
	l.s.clear(l.chain(g))
}

// Removes all from every group. Capacity is kept, slots are not.
func (l *MultiList[T]) Reset() {
	l.s.reset()
	for i := range l.chains {
		l.chains[i] = emptyChain()
	}
}

// Unchecked. Pointer is valid until the next insertion.
func (l *MultiList[T]) Value(at Handle) *T {
	return &l.s.node(at).v
}

// !ok if at is out of range or not occupied. Says nothing of group membership.
func (l *MultiList[T]) Get(at Handle) (*T, bool) {
	n, ok := l.s.get(at)
	if !ok {
		return nil, false
	}
	return &n.v, true
}

// Invalid at the end of its group.
func (l *MultiList[T]) Next(at Handle) Handle {
	return l.s.node(at).next
}

// Invalid at the start of its group.
func (l *MultiList[T]) Prev(at Handle) Handle {
	return l.s.node(at).prev
}

func (l *MultiList[T]) Head(g int) Handle {
	return l.chain(g).head
}

func (l *MultiList[T]) Tail(g int) Handle {
	return l.chain(g).tail
}

func (l *MultiList[T]) Len(g int) int {
	return l.chain(g).len
}

func (l *MultiList[T]) Groups() int {
	return len(l.chains)
}

// Nodes across all groups.
func (l *MultiList[T]) Occupied() int {
	return l.s.occupied
}

// Slots in the backing store, free or occupied.
func (l *MultiList[T]) Slots() int {
	return len(l.s.slots)
}

// Reserves room for n more slots.
func (l *MultiList[T]) Grow(n int) {
	l.s.grow(n)
}

// Head to tail.
func (l *MultiList[T]) All(g int) iter.Seq2[Handle, T] {
	return l.s.forward(l.chain(g))
}

// Tail to head.
func (l *MultiList[T]) Backward(g int) iter.Seq2[Handle, T] {
	return l.s.backward(l.chain(g))
}

func (l *MultiList[T]) Cursor(g int) Cursor[T] {
	return l.s.cursor(l.chain(g))
}

func (l *MultiList[T]) chain(g int) *chain {
	if g < 0 || g >= len(l.chains) {
		panic(errutil.New(errutil.Tags{"group": g, "groups": len(l.chains)}))
	}
	return &l.chains[g]
}
