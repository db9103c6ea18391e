// Package blob stores text as a doubly linked chain of variable-length
// string blobs.
//
// A Chain owns an arena of blob slots. Blobs are addressed by Handle values;
// links between blobs are handles, and the zero Handle means "none". When a
// blob is consumed by Split or Join its slot is tombstoned and later recycled,
// so any handle still referring to it becomes stale and is rejected with
// ErrInvalidArgument instead of aliasing a different blob.
//
// Basic usage:
//
//	c := blob.New()
//	a, _ := c.Create("hello ")
//	b, _ := c.Create("world")
//	m, _ := c.Join(a, b)           // chain: "hello world"
//	l, r, _ := c.Split(m, 5)       // chain: "hello" <-> " world"
//	c.PrintLines(os.Stdout, c.Head())
//
// All offsets are byte offsets. A Chain is not safe for concurrent use.
package blob
