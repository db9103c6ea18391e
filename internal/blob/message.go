package blob

import "strconv"

// MaxMessageNumber is the largest number NumberedMessage will format.
const MaxMessageNumber = 999

// NumberedMessage returns "message <n>" with n clamped to
// [0, MaxMessageNumber].
func NumberedMessage(n int) string {
	n = min(max(n, 0), MaxMessageNumber)
	return "message " + strconv.Itoa(n)
}

// CreateNumbered appends a blob holding NumberedMessage(n).
func (c *Chain) CreateNumbered(n int) (Handle, error) {
	return c.Create(NumberedMessage(n))
}
