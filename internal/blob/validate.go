package blob

import "fmt"

// Validate walks the chain and checks its structural invariants: links are
// symmetric, the walk from head ends at tail without revisiting a blob, and
// every live blob is reached exactly once.
func (c *Chain) Validate() error {
	if c.count == 0 {
		if !c.head.IsZero() || !c.tail.IsZero() {
			return fmt.Errorf("empty chain has head %s and tail %s", c.head, c.tail)
		}
		return nil
	}

	if s, ok := c.lookup(c.head); !ok {
		return fmt.Errorf("head %s is not a live blob", c.head)
	} else if !s.previous.IsZero() {
		return fmt.Errorf("head %s has predecessor %s", c.head, s.previous)
	}

	seen := make(map[Handle]bool, c.count)
	var previous Handle
	bytes := 0
	for h := c.head; !h.IsZero(); {
		s, ok := c.lookup(h)
		if !ok {
			return fmt.Errorf("blob %s links to dead handle %s", previous, h)
		}
		if seen[h] {
			return fmt.Errorf("cycle at blob %s", h)
		}
		seen[h] = true
		if s.previous != previous {
			return fmt.Errorf("blob %s has predecessor %s, want %s", h, s.previous, previous)
		}
		bytes += len(s.text)
		previous = h
		h = s.next
	}

	if previous != c.tail {
		return fmt.Errorf("walk ends at %s but tail is %s", previous, c.tail)
	}
	if len(seen) != c.count {
		return fmt.Errorf("walk reached %d blobs, chain holds %d", len(seen), c.count)
	}
	if bytes != c.bytes {
		return fmt.Errorf("walk counted %d bytes, chain holds %d", bytes, c.bytes)
	}
	return nil
}
