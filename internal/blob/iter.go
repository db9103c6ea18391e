package blob

import (
	"iter"
	"strings"
)

// From returns a sequence of blobs from start to the tail. The sequence is
// lazy: links are followed as it is consumed, so it must not be ranged over
// while the chain is being split or joined. A zero or stale start yields
// nothing. The sequence can be ranged over any number of times.
func (c *Chain) From(start Handle) iter.Seq2[Handle, string] {
	return func(yield func(Handle, string) bool) {
		for h := start; ; {
			s, ok := c.lookup(h)
			if !ok {
				return
			}
			if !yield(h, s.text) {
				return
			}
			h = s.next
		}
	}
}

// All returns a sequence over every blob from head to tail.
func (c *Chain) All() iter.Seq2[Handle, string] {
	return c.From(c.head)
}

// Backward returns a sequence of blobs from start to the head.
func (c *Chain) Backward(start Handle) iter.Seq2[Handle, string] {
	return func(yield func(Handle, string) bool) {
		for h := start; ; {
			s, ok := c.lookup(h)
			if !ok {
				return
			}
			if !yield(h, s.text) {
				return
			}
			h = s.previous
		}
	}
}

// ForEach calls visit for each blob from start to the tail until visit
// returns false.
func (c *Chain) ForEach(start Handle, visit func(Handle, string) bool) error {
	if !c.Valid(start) {
		return invalidHandle(start)
	}
	for h, text := range c.From(start) {
		if !visit(h, text) {
			break
		}
	}
	return nil
}

// Texts returns the text of each blob from start to the tail.
func (c *Chain) Texts(start Handle) []string {
	var texts []string
	for _, text := range c.From(start) {
		texts = append(texts, text)
	}
	return texts
}

// Handles returns each blob from start to the tail.
func (c *Chain) Handles(start Handle) []Handle {
	var handles []Handle
	for h := range c.From(start) {
		handles = append(handles, h)
	}
	return handles
}

// String returns the whole text of the chain.
func (c *Chain) String() string {
	var b strings.Builder
	b.Grow(c.bytes)
	for _, text := range c.All() {
		b.WriteString(text)
	}
	return b.String()
}
