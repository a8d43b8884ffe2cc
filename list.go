package multilist

import (
	"iter"
)

// A doubly linked list backed by a slab of recycled slots. Handles stay valid
// until their node is removed.
//
// Handles passed in must be occupied and belong to this List, that is not checked.
// Not concurrent safe.
type List[T any] struct {
	s store[T]
	c chain
}

func NewList[T any](o Options[T]) *List[T] {
	return &List[T]{s: makeStore(o), c: emptyChain()}
}

func (l *List[T]) PushFront(v T) Handle {
	return l.s.pushFront(&l.c, v)
}

func (l *List[T]) PushBack(v T) Handle {
	return l.s.pushBack(&l.c, v)
}

func (l *List[T]) InsertBefore(at Handle, v T) Handle {
	return l.s.insertBefore(&l.c, at, v)
}

func (l *List[T]) InsertAfter(at Handle, v T) Handle {
	return l.s.insertAfter(&l.c, at, v)
}

func (l *List[T]) Remove(at Handle) {
	l.s.remove(&l.c, at)
}

// List must not be empty.
func (l *List[T]) RemoveFirst() {
	l.s.removeFirst(&l.c)
}

// List must not be empty.
func (l *List[T]) RemoveLast() {
	l.s.removeLast(&l.c)
}

func (l *List[T]) MoveToFront(at Handle) {
	l.s.moveToFront(&l.c, at)
}

func (l *List[T]) MoveToBack(at Handle) {
	l.s.moveToBack(&l.c, at)
}

// Removes all, keeping slots for reuse.
func (l *List[T]) Clear() {
	l.s.clear(&l.c)
}

// Unchecked. Pointer is valid until the next insertion.
func (l *List[T]) Value(at Handle) *T {
	return &l.s.node(at).v
}

// !ok if at is out of range or not occupied.
func (l *List[T]) Get(at Handle) (*T, bool) {
	n, ok := l.s.get(at)
	if !ok {
		return nil, false
	}
	return &n.v, true
}

// Invalid at the end.
func (l *List[T]) Next(at Handle) Handle {
	return l.s.node(at).next
}

// Invalid at the start.
func (l *List[T]) Prev(at Handle) Handle {
	return l.s.node(at).prev
}

func (l *List[T]) Head() Handle {
	return l.c.head
}

func (l *List[T]) Tail() Handle {
	return l.c.tail
}

func (l *List[T]) Len() int {
	return l.c.len
}

// Slots in the backing store, free or occupied.
func (l *List[T]) Slots() int {
	return len(l.s.slots)
}

// Reserves room for n more slots.
func (l *List[T]) Grow(n int) {
	l.s.grow(n)
}

// Head to tail.
func (l *List[T]) All() iter.Seq2[Handle, T] {
	return l.s.forward(&l.c)
}

// Tail to head.
func (l *List[T]) Backward() iter.Seq2[Handle, T] {
	return l.s.backward(&l.c)
}

func (l *List[T]) Cursor() Cursor[T] {
	return l.s.cursor(&l.c)
}
