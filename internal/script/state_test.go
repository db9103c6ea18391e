package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(context.Background(), `x = 1 + 1`))
	assert.Equal(t, lua.LNumber(2), s.L.GetGlobal("x"))
}

func TestState_SyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	assert.Error(t, s.DoString(context.Background(), `invalid lua code !!!`))
}

func TestState_SandboxRemovesLoaders(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug"} {
		assert.Equal(t, lua.LNil, s.L.GetGlobal(name), name)
	}
	for _, name := range []string{"string", "table", "math", "pairs", "pcall"} {
		assert.NotEqual(t, lua.LNil, s.L.GetGlobal(name), name)
	}
}

func TestState_ContextCancel(t *testing.T) {
	s := NewState()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.DoString(ctx, `while true do end`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

	require.NoError(t, s.DoString(context.Background(), `y = 3`), "state is reusable after cancel")
}

func TestState_DoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.lua")
	require.NoError(t, os.WriteFile(path, []byte(`answer = 42`), 0o644))

	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoFile(context.Background(), path))
	assert.Equal(t, lua.LNumber(42), s.L.GetGlobal("answer"))

	assert.Error(t, s.DoFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")))
}

func TestState_Closed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.DoString(context.Background(), `x = 1`), ErrStateClosed)
}

func TestSandbox_Charge(t *testing.T) {
	s := NewState(WithOperationLimit(2))
	defer s.Close()

	sb := s.Sandbox()
	assert.True(t, sb.Charge())
	assert.True(t, sb.Charge())
	assert.False(t, sb.Charge())
	assert.True(t, sb.Exceeded())
	assert.Equal(t, int64(3), sb.Operations())

	sb.ResetOperations()
	assert.False(t, sb.Exceeded())

	unlimited := NewState(WithOperationLimit(0))
	defer unlimited.Close()
	for range 100 {
		assert.True(t, unlimited.Sandbox().Charge())
	}
}
