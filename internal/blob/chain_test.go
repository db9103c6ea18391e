package blob

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textblob/internal/logging"
)

// build creates a chain holding texts in order.
func build(t *testing.T, texts ...string) (*Chain, []Handle) {
	t.Helper()
	c := New()
	handles := make([]Handle, len(texts))
	for i, text := range texts {
		h, err := c.Create(text)
		require.NoError(t, err)
		handles[i] = h
	}
	require.NoError(t, c.Validate())
	return c, handles
}

// numbered creates a chain of "message 0" .. "message n-1".
func numbered(t *testing.T, n int) (*Chain, []Handle) {
	t.Helper()
	c := New()
	handles := make([]Handle, n)
	for i := range n {
		h, err := c.CreateNumbered(i)
		require.NoError(t, err)
		handles[i] = h
	}
	require.NoError(t, c.Validate())
	return c, handles
}

func TestNew(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Head().IsZero())
	assert.True(t, c.Tail().IsZero())
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "", c.String())
	assert.NoError(t, c.Validate())
}

func TestNew_WithID(t *testing.T) {
	c := New(WithID("fixed"))
	assert.Equal(t, "fixed", c.ID())
	assert.NotEqual(t, New().ID(), New().ID())
}

func TestNew_WithCapacity(t *testing.T) {
	c := New(WithCapacity(8))
	assert.Equal(t, 8, cap(c.slots))
	assert.True(t, c.IsEmpty())

	for i := range 3 {
		_, err := c.CreateNumbered(i)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, cap(c.slots), "no regrowth within capacity")
	assert.Equal(t, 3, c.Len())
	assert.NoError(t, c.Validate())
}

func TestCreate_AppendsAtTail(t *testing.T) {
	c := New()

	a, err := c.Create("a")
	require.NoError(t, err)
	assert.Equal(t, a, c.Head())
	assert.Equal(t, a, c.Tail())

	b, err := c.Create("b")
	require.NoError(t, err)
	assert.Equal(t, a, c.Head())
	assert.Equal(t, b, c.Tail())
	assert.Equal(t, b, c.Next(a))
	assert.Equal(t, a, c.Previous(b))
	assert.True(t, c.Next(b).IsZero())
	assert.True(t, c.Previous(a).IsZero())

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, "ab", c.String())
	assert.NoError(t, c.Validate())
}

func TestCreate_EmptyText(t *testing.T) {
	c, hs := build(t, "", "x")
	text, err := c.Text(hs[0])
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, "x", c.String())
}

func TestCreate_MaxBlobs(t *testing.T) {
	c := New(WithMaxBlobs(2))
	_, err := c.Create("a")
	require.NoError(t, err)
	_, err = c.Create("b")
	require.NoError(t, err)

	_, err = c.Create("c")
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "ab", c.String())
	assert.NoError(t, c.Validate())
}

func TestNumberedMessage(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "message 0"},
		{7, "message 7"},
		{999, "message 999"},
		{1000, "message 999"},
		{123456, "message 999"},
		{-5, "message 0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NumberedMessage(tt.n), "NumberedMessage(%d)", tt.n)
	}
}

func TestCreateNumbered(t *testing.T) {
	c, _ := numbered(t, 3)
	assert.Equal(t, []string{"message 0", "message 1", "message 2"}, c.Texts(c.Head()))
}

func TestText_InvalidHandles(t *testing.T) {
	c, _ := build(t, "a")
	_, ohs := build(t, "b", "c")

	_, err := c.Text(Handle{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.Text(ohs[1])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.Text(Handle{idx: 0, gen: 9})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStaleHandleAfterRecycle(t *testing.T) {
	c, hs := build(t, "hello")

	left, right, err := c.Split(hs[0], 2)
	require.NoError(t, err)

	assert.False(t, c.Valid(hs[0]))
	assert.Equal(t, hs[0].idx, left.idx, "freed slot is recycled")
	assert.NotEqual(t, hs[0], left)

	_, err = c.Text(hs[0])
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, c.Next(hs[0]).IsZero())
	assert.True(t, c.Previous(hs[0]).IsZero())

	assert.True(t, c.Valid(left))
	assert.True(t, c.Valid(right))
}

func TestReset(t *testing.T) {
	c, hs := numbered(t, 4)
	c.Reset()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Size())
	assert.True(t, c.Head().IsZero())
	assert.False(t, c.Valid(hs[2]))
	assert.NoError(t, c.Validate())

	h, err := c.Create("again")
	require.NoError(t, err)
	assert.Equal(t, h, c.Head())
	assert.Equal(t, "again", c.String())
	assert.NoError(t, c.Validate())
}

func TestHandle_String(t *testing.T) {
	assert.Equal(t, "#nil", Handle{}.String())
	assert.Equal(t, "#3.2", Handle{idx: 3, gen: 2}.String())
}

func TestChain_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	c := New(WithLogger(logger), WithID("log-test"))

	a, err := c.Create("ab")
	require.NoError(t, err)
	_, _, err = c.Split(a, 1)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "split")
	assert.Contains(t, out, "chain=log-test")
}

func TestValidate_DetectsCorruption(t *testing.T) {
	c, hs := build(t, "a", "b", "c")

	c.at(hs[2]).previous = hs[0]
	err := c.Validate()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidArgument))

	c.at(hs[2]).previous = hs[1]
	require.NoError(t, c.Validate())

	c.at(hs[2]).next = hs[0]
	assert.Error(t, c.Validate())
}
