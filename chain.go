package multilist

import (
	"iter"
)

// Group descriptor. head and tail are both Invalid when empty.
type chain struct {
	head, tail Handle
	len        int
}

func emptyChain() chain {
	return chain{head: Invalid, tail: Invalid}
}

// Link helpers below assume handles are occupied and belong to c.

func (s *store[T]) pushFront(c *chain, v T) Handle {
	h := s.acquire(v)
	s.linkFront(c, h)
	return h
}

func (s *store[T]) pushBack(c *chain, v T) Handle {
	h := s.acquire(v)
	s.linkBack(c, h)
	return h
}

func (s *store[T]) linkFront(c *chain, h Handle) {
	n := s.node(h)
	n.prev = Invalid
	n.next = c.head
	if c.head != Invalid {
		s.node(c.head).prev = h
	} else {
		c.tail = h
	}
	c.head = h
	c.len++
}

func (s *store[T]) linkBack(c *chain, h Handle) {
	n := s.node(h)
	n.next = Invalid
	n.prev = c.tail
	if c.tail != Invalid {
		s.node(c.tail).next = h
	} else {
		c.head = h
	}
	c.tail = h
	c.len++
}

func (s *store[T]) insertBefore(c *chain, at Handle, v T) Handle {
	h := s.acquire(v) // may append, take node pointers after.

	mark := s.node(at)
	n := s.node(h)
	n.prev = mark.prev
	n.next = at
	if mark.prev != Invalid {
		s.node(mark.prev).next = h
	} else {
		c.head = h
	}
	mark.prev = h
	c.len++
	return h
}

func (s *store[T]) insertAfter(c *chain, at Handle, v T) Handle {
	h := s.acquire(v)

	mark := s.node(at)
	n := s.node(h)
	n.next = mark.next
	n.prev = at
	if mark.next != Invalid {
		s.node(mark.next).prev = h
	} else {
		c.tail = h
	}
	mark.next = h
	c.len++
	return h
}

func (s *store[T]) unlink(c *chain, h Handle) {
	n := s.node(h)
	if n.prev != Invalid {
		s.node(n.prev).next = n.next
	} else {
		c.head = n.next
	}
	if n.next != Invalid {
		s.node(n.next).prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = Invalid, Invalid
	c.len--
}

func (s *store[T]) remove(c *chain, h Handle) {
	s.unlink(c, h)
	s.releaseSlot(h)
}

// c must not be empty.
func (s *store[T]) removeFirst(c *chain) {
	h := c.head
	next := s.node(h).next
	c.head = next
	if next != Invalid {
		s.node(next).prev = Invalid
	} else {
		c.tail = Invalid
	}
	c.len--
	s.releaseSlot(h)
}

// c must not be empty.
func (s *store[T]) removeLast(c *chain) {
	h := c.tail
	prev := s.node(h).prev
	c.tail = prev
	if prev != Invalid {
		s.node(prev).next = Invalid
	} else {
		c.head = Invalid
	}
	c.len--
	s.releaseSlot(h)
}

func (s *store[T]) moveToFront(c *chain, h Handle) {
	if c.head == h {
		return
	}
	s.unlink(c, h)
	s.linkFront(c, h)
}

func (s *store[T]) moveToBack(c *chain, h Handle) {
	if c.tail == h {
		return
	}
	s.unlink(c, h)
	s.linkBack(c, h)
}

func (s *store[T]) clear(c *chain) {
	for h := c.head; h != Invalid; {
		next := s.node(h).next
		s.releaseSlot(h)
		h = next
	}
	*c = emptyChain()
}

// The yielded handle may be removed while iterating, nothing else.
func (s *store[T]) forward(c *chain) iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for h := c.head; h != Invalid; {
			n := s.node(h)
			next := n.next
			if !yield(h, n.v) {
				return
			}
			h = next
		}
	}
}

func (s *store[T]) backward(c *chain) iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for h := c.tail; h != Invalid; {
			n := s.node(h)
			prev := n.prev
			if !yield(h, n.v) {
				return
			}
			h = prev
		}
	}
}
