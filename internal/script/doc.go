// Package script runs Lua scripts against a blob chain.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and functions that load code from
// disk or strings are removed. Bind installs a global "chain" module:
//
//	local a = chain.create("hello ")
//	local b = chain.create("world")
//	local m = chain.join(a, b)
//	local l, r = chain.split(m, 5)
//	for h, text in chain.iter() do
//	    print(text)
//	end
//
// Handles are opaque userdata values. Chain errors are raised as Lua errors
// and can be caught with pcall.
package script
