package bucketq

import (
	"iter"

	"github.com/graxinc/multilist"
)

type Options struct {
	Levels   int // Defaults to 8.
	Capacity int // Slots reserved up front, shared by all levels.
}

// Priority queue over a fixed number of levels, lowest level pops first and
// each level is FIFO. Levels are groups of one multilist, so a slot freed by
// one level is reused by the next push to any level.
// Not concurrent safe.
type Queue[T any] struct {
	// immutable
	lists *multilist.MultiList[T]

	low int // no values below this level.
}

func New[T any](o Options) *Queue[T] {
	if o.Levels <= 0 {
		o.Levels = 8
	}
	lists := multilist.NewMultiList(o.Levels, multilist.Options[T]{Capacity: o.Capacity})
	return &Queue[T]{lists: lists, low: o.Levels}
}

// Panics if level is out of range. The handle stays valid until the value is
// popped or removed.
func (q *Queue[T]) Push(level int, v T) multilist.Handle {
	h := q.lists.PushBack(level, v)
	q.low = min(q.low, level)
	return h
}

// Lowest level first.
func (q *Queue[T]) Pop() (_ T, level int, ok bool) {
	level, ok = q.next()
	if !ok {
		var zero T
		return zero, 0, false
	}
	v := *q.lists.Value(q.lists.Head(level))
	q.lists.RemoveFirst(level)
	return v, level, true
}

func (q *Queue[T]) Peek() (_ T, level int, ok bool) {
	level, ok = q.next()
	if !ok {
		var zero T
		return zero, 0, false
	}
	return *q.lists.Value(q.lists.Head(level)), level, true
}

// h must be queued at level.
func (q *Queue[T]) Remove(level int, h multilist.Handle) {
	q.lists.Remove(level, h)
}

// Moves h to the back of level to. h must be queued at from.
func (q *Queue[T]) Requeue(from, to int, h multilist.Handle) {
	q.lists.TransferBack(from, to, h)
	q.low = min(q.low, to)
}

// Removes values of the level that match, returning how many.
func (q *Queue[T]) RemoveFunc(level int, f func(T) bool) int {
	var removed int
	c := q.lists.Cursor(level)
	for v, ok := c.Current(); ok; v, ok = c.Current() {
		if f(*v) {
			c.Remove()
			removed++
			continue
		}
		c.Next()
	}
	return removed
}

// Values of a level, oldest first.
func (q *Queue[T]) Level(level int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range q.lists.All(level) {
			if !yield(v) {
				return
			}
		}
	}
}

func (q *Queue[T]) LevelLen(level int) int {
	return q.lists.Len(level)
}

func (q *Queue[T]) Len() int {
	return q.lists.Occupied()
}

func (q *Queue[T]) Levels() int {
	return q.lists.Groups()
}

// Keeps reserved capacity.
func (q *Queue[T]) Clear() {
	q.lists.Reset()
	q.low = q.lists.Groups()
}

func (q *Queue[T]) next() (int, bool) {
	for ; q.low < q.lists.Groups(); q.low++ {
		if q.lists.Len(q.low) > 0 {
			return q.low, true
		}
	}
	return 0, false
}
