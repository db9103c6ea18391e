package blob

import (
	"fmt"
	"strings"
)

// Split divides the blob h at byte offset index. The left blob holds
// text[:index] and the right blob holds text[index:]; together they take the
// place of h, which becomes stale. index may equal 0 or the text length, in
// which case one of the halves is empty.
//
// On error the chain is left unchanged.
func (c *Chain) Split(h Handle, index int) (left, right Handle, err error) {
	s, ok := c.lookup(h)
	if !ok {
		return Handle{}, Handle{}, invalidHandle(h)
	}
	text := s.text
	if index < 0 || index > len(text) {
		return Handle{}, Handle{}, fmt.Errorf("%w: split at %d of blob %s with length %d",
			ErrIndexOutOfRange, index, h, len(text))
	}
	if !c.hasRoom(1) {
		return Handle{}, Handle{}, fmt.Errorf("%w: chain holds %d blobs", ErrAllocation, c.count)
	}

	previous, next := s.previous, s.next
	c.release(h)

	left = c.alloc(text[:index])
	right = c.alloc(text[index:])

	l, r := c.at(left), c.at(right)
	l.previous = previous
	l.next = right
	r.previous = left
	r.next = next
	c.relink(previous, next, left, right)

	c.logger.Debug("split %s at %d into %s %s", h, index, left, right)
	return left, right, nil
}

// SplitLines splits the blob h after every newline so that each resulting
// blob holds exactly one line. The newline stays with the line it ends. A
// blob without interior newlines is returned unchanged.
func (c *Chain) SplitLines(h Handle) ([]Handle, error) {
	s, ok := c.lookup(h)
	if !ok {
		return nil, invalidHandle(h)
	}

	cuts := lineCuts(s.text)
	if len(cuts) == 0 {
		return []Handle{h}, nil
	}
	if !c.hasRoom(len(cuts)) {
		return nil, fmt.Errorf("%w: chain holds %d blobs", ErrAllocation, c.count)
	}

	lines := make([]Handle, 0, len(cuts)+1)
	rest := h
	consumed := 0
	for _, cut := range cuts {
		left, right, err := c.Split(rest, cut-consumed)
		if err != nil {
			// Unreachable: offsets and room were checked above.
			return nil, err
		}
		lines = append(lines, left)
		rest = right
		consumed = cut
	}
	return append(lines, rest), nil
}

// Reflow rewrites the chain so that every blob holds exactly one line.
func (c *Chain) Reflow() error {
	for h := c.head; !h.IsZero(); {
		next := c.Next(h)
		if _, err := c.SplitLines(h); err != nil {
			return err
		}
		h = next
	}
	return nil
}

// lineCuts returns the offsets just past each newline that is followed by
// more text.
func lineCuts(text string) []int {
	var cuts []int
	offset := 0
	for {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			break
		}
		offset += i + 1
		if offset == len(text) {
			break
		}
		cuts = append(cuts, offset)
	}
	return cuts
}
