// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"go4.org/mem"
)

// A lease tracks the lifetime of a region of storage that views may refer to.
// Each time the storage is released or reused, its generation advances and
// any view carrying an older generation becomes stale.
type lease struct {
	gen uint64
}

func (l *lease) expire() { l.gen++ }

// A View is a read-only, non-owning view of a contiguous run of bytes.  Views
// reported by a Tokenizer refer either to an input buffer supplied by the
// caller, or to storage the tokenizer uses to join a value that was split
// across buffers.
//
// A view remains usable only as long as its backing storage is live: for an
// input buffer, until the tokenizer releases that buffer; for joined values,
// until the next call to Next. Using a stale view panics. Use Valid to check
// whether a view may still be used.
//
// The zero View is empty and always valid.
type View struct {
	ro  mem.RO
	own *lease // nil for views with static lifetime
	gen uint64
}

// ViewOf returns a View of b. The caller must not modify b while the view is
// in use.
func ViewOf(b []byte) View { return View{ro: mem.B(b)} }

// ViewString returns a View of the bytes of s.
func ViewString(s string) View { return View{ro: mem.S(s)} }

func leasedView(b []byte, own *lease) View {
	return View{ro: mem.B(b), own: own, gen: own.gen}
}

// Valid reports whether the storage backing v is still live.
func (v View) Valid() bool { return v.own == nil || v.own.gen == v.gen }

func (v View) check() mem.RO {
	if !v.Valid() {
		panic("jstream: use of view after its buffer was released")
	}
	return v.ro
}

// RO returns the contents of v as a read-only mem.RO.
func (v View) RO() mem.RO { return v.check() }

// Len reports the length of v in bytes.
func (v View) Len() int { return v.check().Len() }

// IsEmpty reports whether v has length zero.
func (v View) IsEmpty() bool { return v.Len() == 0 }

// String returns a copy of the contents of v as a string.
func (v View) String() string { return v.check().StringCopy() }

// Copy returns a newly-allocated copy of the contents of v.
func (v View) Copy() []byte { return mem.Append(nil, v.check()) }

// Append appends the contents of v to dst and returns the updated slice.
func (v View) Append(dst []byte) []byte { return mem.Append(dst, v.check()) }

// Equal reports whether the contents of v are equal to s.
func (v View) Equal(s string) bool { return v.check().EqualString(s) }

// backedBy reports whether v refers to storage governed by own.
func (v View) backedBy(own *lease) bool { return v.own == own }
