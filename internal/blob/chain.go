package blob

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/textblob/internal/logging"
)

// Handle addresses one blob in a Chain. The zero Handle refers to no blob.
// A handle is only valid in the chain that issued it.
type Handle struct {
	chain uint32
	idx   uint32
	gen   uint32
}

// IsZero reports whether h refers to no blob.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// String returns a compact debug form such as "#3.2".
func (h Handle) String() string {
	if h.IsZero() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.idx, h.gen)
}

// slot is one arena cell. A slot is live while it holds a blob; a dead slot
// sits on the free list and its generation has moved past any handle that
// pointed at it.
type slot struct {
	gen      uint32
	live     bool
	text     string
	previous Handle
	next     Handle
}

// serials numbers chains so that handles carry their owner.
var serials atomic.Uint32

// Chain is a doubly linked list of text blobs backed by an arena.
type Chain struct {
	id     string
	serial uint32
	slots  []slot
	free   []uint32
	head   Handle
	tail   Handle
	count  int
	bytes  int
	logger *logging.Logger

	maxBlobs int
}

// New creates an empty chain.
func New(opts ...Option) *Chain {
	c := &Chain{
		id:     uuid.New().String(),
		serial: serials.Add(1),
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithField("chain", c.id)
	return c
}

// ID returns the chain identifier.
func (c *Chain) ID() string {
	return c.id
}

// Len returns the number of blobs in the chain.
func (c *Chain) Len() int {
	return c.count
}

// Size returns the total number of text bytes held by the chain.
func (c *Chain) Size() int {
	return c.bytes
}

// IsEmpty reports whether the chain has no blobs.
func (c *Chain) IsEmpty() bool {
	return c.count == 0
}

// Head returns the first blob, or the zero Handle if the chain is empty.
func (c *Chain) Head() Handle {
	return c.head
}

// Tail returns the last blob, or the zero Handle if the chain is empty.
func (c *Chain) Tail() Handle {
	return c.tail
}

// Valid reports whether h refers to a live blob of this chain. Handles
// issued by another chain are never valid.
func (c *Chain) Valid(h Handle) bool {
	_, ok := c.lookup(h)
	return ok
}

// Text returns the text held by h.
func (c *Chain) Text(h Handle) (string, error) {
	s, ok := c.lookup(h)
	if !ok {
		return "", invalidHandle(h)
	}
	return s.text, nil
}

// Next returns the successor of h, or the zero Handle if h is the tail or
// not a live blob.
func (c *Chain) Next(h Handle) Handle {
	s, ok := c.lookup(h)
	if !ok {
		return Handle{}
	}
	return s.next
}

// Previous returns the predecessor of h, or the zero Handle if h is the head
// or not a live blob.
func (c *Chain) Previous(h Handle) Handle {
	s, ok := c.lookup(h)
	if !ok {
		return Handle{}
	}
	return s.previous
}

// Create appends a blob holding text after the current tail. The new blob
// becomes the tail.
func (c *Chain) Create(text string) (Handle, error) {
	if !c.hasRoom(1) {
		return Handle{}, fmt.Errorf("%w: chain holds %d blobs", ErrAllocation, c.count)
	}

	h := c.alloc(text)
	s := c.at(h)
	s.previous = c.tail
	if t, ok := c.lookup(c.tail); ok {
		t.next = h
	} else {
		c.head = h
	}
	c.tail = h

	c.logger.Debug("create %s len=%d", h, len(text))
	return h, nil
}

// Reset discards every blob. Handles obtained before Reset become stale.
func (c *Chain) Reset() {
	for i := range c.slots {
		if c.slots[i].live {
			c.release(Handle{chain: c.serial, idx: uint32(i), gen: c.slots[i].gen})
		}
	}
	c.head = Handle{}
	c.tail = Handle{}
}

// lookup resolves h to its live slot.
func (c *Chain) lookup(h Handle) (*slot, bool) {
	if h.IsZero() || h.chain != c.serial || int(h.idx) >= len(c.slots) {
		return nil, false
	}
	s := &c.slots[h.idx]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

// at returns the slot for a handle already known to be live.
func (c *Chain) at(h Handle) *slot {
	return &c.slots[h.idx]
}

func (c *Chain) hasRoom(extra int) bool {
	return c.maxBlobs == 0 || c.count+extra <= c.maxBlobs
}

// alloc takes a slot from the free list, or grows the arena, and fills it
// with an unlinked blob.
func (c *Chain) alloc(text string) Handle {
	var idx uint32
	if n := len(c.free); n > 0 {
		idx = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, slot{})
		idx = uint32(len(c.slots) - 1)
	}

	s := &c.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.live = true
	s.text = text
	s.previous = Handle{}
	s.next = Handle{}

	c.count++
	c.bytes += len(text)
	return Handle{chain: c.serial, idx: idx, gen: s.gen}
}

// release tombstones the slot of h. Links are not touched.
func (c *Chain) release(h Handle) {
	s := c.at(h)
	c.count--
	c.bytes -= len(s.text)
	s.live = false
	s.text = ""
	s.previous = Handle{}
	s.next = Handle{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	c.free = append(c.free, h.idx)
}

// relink points the neighbors of a removed position at replacement blobs.
// The blob following the position gets first as its predecessor; the blob
// preceding the position gets last as its successor. Missing neighbors move
// the head or tail instead.
func (c *Chain) relink(previous, next, first, last Handle) {
	if p, ok := c.lookup(previous); ok {
		p.next = first
	} else {
		c.head = first
	}
	if n, ok := c.lookup(next); ok {
		n.previous = last
	} else {
		c.tail = last
	}
}

func invalidHandle(h Handle) error {
	return fmt.Errorf("%w: handle %s is not a live blob", ErrInvalidArgument, h)
}
