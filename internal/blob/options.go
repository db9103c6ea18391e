package blob

import "github.com/dshills/textblob/internal/logging"

// Option configures a Chain.
type Option func(*Chain)

// WithMaxBlobs limits the number of live blobs. Creating or splitting past
// the limit fails with ErrAllocation. Zero or negative means unlimited.
func WithMaxBlobs(n int) Option {
	return func(c *Chain) {
		if n < 0 {
			n = 0
		}
		c.maxBlobs = n
	}
}

// WithLogger sets the logger used for debug tracing of chain mutations.
func WithLogger(l *logging.Logger) Option {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithID sets the chain identifier. By default a random UUID is used.
func WithID(id string) Option {
	return func(c *Chain) {
		if id != "" {
			c.id = id
		}
	}
}

// WithCapacity preallocates arena slots.
func WithCapacity(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.slots = make([]slot, 0, n)
		}
	}
}
