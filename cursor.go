package multilist

// Forward traversal of one chain that can remove as it goes. It remembers the
// predecessor of the current node so removal only patches one forward link.
//
// Only one Cursor per chain at a time. The chain must not be structurally changed
// by anything else while a Cursor is in use, which is not detected.
type Cursor[T any] struct {
	s    *store[T]
	c    *chain
	cur  Handle
	prev Handle
}

func (s *store[T]) cursor(c *chain) Cursor[T] {
	return Cursor[T]{s: s, c: c, cur: c.head, prev: Invalid}
}

// False once the chain is exhausted, or immediately if it was empty.
func (c *Cursor[T]) Valid() bool {
	return c.cur != Invalid
}

// Invalid when exhausted.
func (c *Cursor[T]) Handle() Handle {
	return c.cur
}

// Pointer is only valid until the next structural change.
func (c *Cursor[T]) Current() (*T, bool) {
	if c.cur == Invalid {
		return nil, false
	}
	return &c.s.node(c.cur).v, true
}

func (c *Cursor[T]) Next() {
	if c.cur == Invalid {
		return
	}
	c.prev = c.cur
	c.cur = c.s.node(c.cur).next
}

// Removes the current node and advances past it. Noop when exhausted.
func (c *Cursor[T]) Remove() {
	if c.cur == Invalid {
		return
	}
	if c.prev == Invalid {
		c.RemoveFirst()
		return
	}

	h := c.cur
	next := c.s.node(h).next

	c.s.node(c.prev).next = next
	if next != Invalid {
		c.s.node(next).prev = c.prev
	} else {
		c.c.tail = c.prev
	}
	c.c.len--
	c.s.releaseSlot(h)

	c.cur = next
}

// Like Remove, but the current node must be the head of the chain.
func (c *Cursor[T]) RemoveFirst() {
	c.cur = c.s.node(c.cur).next
	c.s.removeFirst(c.c)
}
