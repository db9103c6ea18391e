// Package demo builds and prints the numbered-blob demonstration chain.
package demo

import (
	"errors"
	"fmt"

	"github.com/dshills/textblob/internal/blob"
)

// Options controls the shape of the demonstration.
type Options struct {
	// Count is the number of numbered blobs to create.
	Count int
	// Stride and Phase select the walk steps that join: a step k joins when
	// k % Stride == Phase.
	Stride int
	Phase  int
	// Reach is how many positions before the current blob its join partner
	// sits.
	Reach int
}

// DefaultOptions returns the classic demonstration: twenty blobs, joining
// with the blob two positions back on every fourth step.
func DefaultOptions() Options {
	return Options{
		Count:  20,
		Stride: 4,
		Phase:  1,
		Reach:  2,
	}
}

// ErrInvalidOptions is returned when Options cannot drive a demonstration.
var ErrInvalidOptions = errors.New("invalid demo options")

// Validate checks that the options are usable.
func (o Options) Validate() error {
	switch {
	case o.Count <= 0:
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidOptions, o.Count)
	case o.Stride <= 0:
		return fmt.Errorf("%w: stride %d must be positive", ErrInvalidOptions, o.Stride)
	case o.Phase < 0 || o.Phase >= o.Stride:
		return fmt.Errorf("%w: phase %d must be in [0, %d)", ErrInvalidOptions, o.Phase, o.Stride)
	case o.Reach <= 0:
		return fmt.Errorf("%w: reach %d must be positive", ErrInvalidOptions, o.Reach)
	}
	return nil
}

// Run appends Count numbered blobs to c and then walks backward from the
// tail, joining the current blob with the blob Reach positions before it on
// the selected steps. The walk continues from the merged blob's predecessor.
// Run returns the head of the chain.
func Run(c *blob.Chain, opts Options) (blob.Handle, error) {
	if err := opts.Validate(); err != nil {
		return blob.Handle{}, err
	}

	for i := range opts.Count {
		if _, err := c.CreateNumbered(i); err != nil {
			return blob.Handle{}, fmt.Errorf("creating blob %d: %w", i, err)
		}
	}

	step := 0
	for h := c.Tail(); !h.IsZero(); h = c.Previous(h) {
		k := step
		step++
		if k%opts.Stride != opts.Phase {
			continue
		}
		partner := back(c, h, opts.Reach)
		if partner.IsZero() {
			continue
		}
		merged, err := c.Join(h, partner)
		if err != nil {
			return blob.Handle{}, fmt.Errorf("joining at step %d: %w", k, err)
		}
		h = merged
	}

	return c.Head(), nil
}

// back returns the blob n positions before h, or the zero Handle if the
// chain is shorter than that.
func back(c *blob.Chain, h blob.Handle, n int) blob.Handle {
	for range n {
		h = c.Previous(h)
		if h.IsZero() {
			break
		}
	}
	return h
}
