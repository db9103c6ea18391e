package script

import (
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/textblob/internal/blob"
)

const handleTypeName = "textblob.handle"

// module exposes one chain to Lua.
type module struct {
	state *State
	chain *blob.Chain
	out   io.Writer

	// handles keeps one userdata per handle so that Lua equality on
	// handles matches blob identity.
	handles map[blob.Handle]*lua.LUserData
}

// Bind installs the global "chain" module operating on c. Script output
// from print and the chain printing functions goes to out.
func Bind(s *State, c *blob.Chain, out io.Writer) {
	bind(s, c, out)
}

func bind(s *State, c *blob.Chain, out io.Writer) *module {
	m := &module{
		state:   s,
		chain:   c,
		out:     out,
		handles: make(map[blob.Handle]*lua.LUserData),
	}

	s.mu.Lock()
	mt := s.L.NewTypeMetatable(handleTypeName)
	s.L.SetField(mt, "__tostring", s.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("blob" + m.check(L, 1).String()))
		return 1
	}))
	s.sandbox.RedirectPrint(out)
	s.mu.Unlock()

	s.RegisterModule("chain", map[string]lua.LGFunction{
		"create":   m.create,
		"numbered": m.numbered,
		"split":    m.split,
		"join":     m.join,
		"text":     m.text,
		"next":     m.next,
		"prev":     m.prev,
		"head":     m.head,
		"tail":     m.tail,
		"len":      m.length,
		"size":     m.size,
		"valid":    m.valid,
		"texts":    m.texts,
		"iter":     m.iter,
		"print":    m.print,
		"lines":    m.lines,
		"reflow":   m.reflow,
		"validate": m.validate,
	})
	return m
}

// push pushes h as userdata, or nil for the zero handle.
func (m *module) push(L *lua.LState, h blob.Handle) {
	if h.IsZero() {
		L.Push(lua.LNil)
		return
	}
	ud, ok := m.handles[h]
	if !ok {
		ud = L.NewUserData()
		ud.Value = h
		L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
		m.handles[h] = ud
	}
	L.Push(ud)
}

// check returns the handle at stack position n.
func (m *module) check(L *lua.LState, n int) blob.Handle {
	ud := L.CheckUserData(n)
	h, ok := ud.Value.(blob.Handle)
	if !ok {
		L.ArgError(n, "blob handle expected")
	}
	return h
}

// charge counts one chain operation against the sandbox limit.
func (m *module) charge(L *lua.LState) {
	if !m.state.sandbox.Charge() {
		L.RaiseError("%s", ErrOperationLimit.Error())
	}
}

// raise converts a Go error into a Lua error.
func (m *module) raise(L *lua.LState, err error) {
	L.RaiseError("%s", err.Error())
}

// forget drops cached userdata for consumed handles.
func (m *module) forget(hs ...blob.Handle) {
	for _, h := range hs {
		delete(m.handles, h)
	}
}

// prune drops cached userdata for every handle that is no longer live.
func (m *module) prune() {
	for h := range m.handles {
		if !m.chain.Valid(h) {
			delete(m.handles, h)
		}
	}
}

func (m *module) create(L *lua.LState) int {
	m.charge(L)
	h, err := m.chain.Create(L.CheckString(1))
	if err != nil {
		m.raise(L, err)
	}
	m.push(L, h)
	return 1
}

func (m *module) numbered(L *lua.LState) int {
	m.charge(L)
	h, err := m.chain.CreateNumbered(L.CheckInt(1))
	if err != nil {
		m.raise(L, err)
	}
	m.push(L, h)
	return 1
}

func (m *module) split(L *lua.LState) int {
	m.charge(L)
	h := m.check(L, 1)
	left, right, err := m.chain.Split(h, L.CheckInt(2))
	if err != nil {
		m.raise(L, err)
	}
	m.forget(h)
	m.push(L, left)
	m.push(L, right)
	return 2
}

func (m *module) join(L *lua.LState) int {
	m.charge(L)
	one, two := m.check(L, 1), m.check(L, 2)
	merged, err := m.chain.Join(one, two)
	if err != nil {
		m.raise(L, err)
	}
	m.forget(one, two)
	m.push(L, merged)
	return 1
}

func (m *module) text(L *lua.LState) int {
	text, err := m.chain.Text(m.check(L, 1))
	if err != nil {
		m.raise(L, err)
	}
	L.Push(lua.LString(text))
	return 1
}

func (m *module) next(L *lua.LState) int {
	m.push(L, m.chain.Next(m.check(L, 1)))
	return 1
}

func (m *module) prev(L *lua.LState) int {
	m.push(L, m.chain.Previous(m.check(L, 1)))
	return 1
}

func (m *module) head(L *lua.LState) int {
	m.push(L, m.chain.Head())
	return 1
}

func (m *module) tail(L *lua.LState) int {
	m.push(L, m.chain.Tail())
	return 1
}

func (m *module) length(L *lua.LState) int {
	L.Push(lua.LNumber(m.chain.Len()))
	return 1
}

func (m *module) size(L *lua.LState) int {
	L.Push(lua.LNumber(m.chain.Size()))
	return 1
}

func (m *module) valid(L *lua.LState) int {
	L.Push(lua.LBool(m.chain.Valid(m.check(L, 1))))
	return 1
}

func (m *module) texts(L *lua.LState) int {
	tbl := L.NewTable()
	for _, text := range m.chain.All() {
		tbl.Append(lua.LString(text))
	}
	L.Push(tbl)
	return 1
}

// iter returns a generic-for iterator over handle and text, starting at the
// optional handle argument or the head.
func (m *module) iter(L *lua.LState) int {
	cur := m.startArg(L)
	L.Push(L.NewFunction(func(L *lua.LState) int {
		text, err := m.chain.Text(cur)
		if err != nil {
			return 0
		}
		h := cur
		cur = m.chain.Next(cur)
		m.push(L, h)
		L.Push(lua.LString(text))
		return 2
	}))
	return 1
}

// startArg returns the optional start handle argument, defaulting to head.
func (m *module) startArg(L *lua.LState) blob.Handle {
	if L.GetTop() >= 1 && L.Get(1) != lua.LNil {
		return m.check(L, 1)
	}
	return m.chain.Head()
}

func (m *module) print(L *lua.LState) int {
	if err := m.chain.Print(m.out, m.startArg(L)); err != nil {
		m.raise(L, err)
	}
	return 0
}

func (m *module) lines(L *lua.LState) int {
	if err := m.chain.PrintLines(m.out, m.startArg(L)); err != nil {
		m.raise(L, err)
	}
	return 0
}

func (m *module) reflow(L *lua.LState) int {
	m.charge(L)
	err := m.chain.Reflow()
	m.prune()
	if err != nil {
		m.raise(L, err)
	}
	return 0
}

func (m *module) validate(L *lua.LState) int {
	if err := m.chain.Validate(); err != nil {
		m.raise(L, err)
	}
	return 0
}
