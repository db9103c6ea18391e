package script

import (
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations and meters chain
// operations.
type Sandbox struct {
	L *lua.LState

	operationLimit int64
	operations     int64
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, operationLimit int64) *Sandbox {
	return &Sandbox{
		L:              L,
		operationLimit: operationLimit,
	}
}

// Install removes globals that load code from outside the script.
func (s *Sandbox) Install() {
	for _, name := range []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"module",
	} {
		s.L.SetGlobal(name, lua.LNil)
	}
}

// RedirectPrint replaces the global print so that output goes to w. Values
// are separated by tabs and followed by a newline, as with the stock print.
func (s *Sandbox) RedirectPrint(w io.Writer) {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = L.ToStringMeta(L.Get(i)).String()
		}
		if _, err := io.WriteString(w, strings.Join(parts, "\t")+"\n"); err != nil {
			L.RaiseError("print: %v", err)
		}
		return 0
	}))
}

// ResetOperations resets the operation counter.
func (s *Sandbox) ResetOperations() {
	s.operations = 0
}

// Operations returns the number of operations charged in the current run.
func (s *Sandbox) Operations() int64 {
	return s.operations
}

// Charge counts one operation and reports whether it is still within the
// limit.
func (s *Sandbox) Charge() bool {
	s.operations++
	return !s.Exceeded()
}

// Exceeded reports whether the current run went past the limit.
func (s *Sandbox) Exceeded() bool {
	return s.operationLimit > 0 && s.operations > s.operationLimit
}
