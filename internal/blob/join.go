package blob

import "fmt"

// Join merges two blobs into one holding one's text followed by two's text.
// The blobs need not be adjacent. The merged blob takes one's position in the
// chain; two's position is closed up. Both inputs become stale.
//
// If either handle is not a live blob, or both refer to the same blob, Join
// fails with ErrInvalidArgument and the chain is left unchanged.
//
//	(0)<->(1)<->(2)<->(3)<->(4)<->(5)
//	Join(1, 4)
//	(0)<->(1+4)<->(2)<->(3)<->(5)
func (c *Chain) Join(one, two Handle) (Handle, error) {
	a, ok := c.lookup(one)
	if !ok {
		return Handle{}, invalidHandle(one)
	}
	b, ok := c.lookup(two)
	if !ok {
		return Handle{}, invalidHandle(two)
	}
	if one == two {
		return Handle{}, fmt.Errorf("%w: cannot join blob %s with itself", ErrInvalidArgument, one)
	}

	text := a.text + b.text

	// Close the gap left by two first. When the blobs are adjacent this
	// rewrites one's link on that side, so one's neighbors must be read
	// afterwards.
	c.relink(b.previous, b.next, b.next, b.previous)

	previous, next := a.previous, a.next
	c.release(one)
	c.release(two)

	merged := c.alloc(text)
	m := c.at(merged)
	m.previous = previous
	m.next = next
	c.relink(previous, next, merged, merged)

	c.logger.Debug("join %s %s into %s", one, two, merged)
	return merged, nil
}
