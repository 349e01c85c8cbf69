// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"github.com/creachadair/jstream/debug"
)

// Style selects the layout of serialized output.
type Style int

const (
	Pretty  Style = iota // one token per line, indented by nesting depth
	Compact              // no whitespace
)

func (s Style) String() string {
	if s == Compact {
		return "compact"
	}
	return "pretty"
}

// Formatting controls how a Serializer renders tokens.
type Formatting struct {
	Style         Style
	AsciiAsString bool // quote values of kind Ascii
	Indent        int  // spaces per nesting level in Pretty style
}

// DefaultFormatting returns the formatting a Serializer uses unless
// configured otherwise.
func DefaultFormatting() Formatting {
	return Formatting{Style: Pretty, AsciiAsString: true, Indent: 4}
}

// An OutputBuffer is a caller-owned buffer a Serializer writes into. Buf is
// the whole buffer, of which the first Used bytes hold output.
type OutputBuffer struct {
	Buf  []byte
	Used int
}

// Bytes returns the portion of b holding output.
func (b OutputBuffer) Bytes() []byte { return b.Buf[:b.Used] }

// Free reports the number of unused bytes in b.
func (b OutputBuffer) Free() int { return len(b.Buf) - b.Used }

// A Serializer renders a sequence of tokens as JSON text into caller-owned
// output buffers. Each token is written entirely or not at all: if the
// buffers cannot hold it, the Serializer asks for more by calling the
// functions registered with OnNeedBuffers, and fails with ErrOutputFull if
// they do not supply enough room.
//
// The Serializer formats the tokens it is given. It does not check that they
// form a well-formed document.
type Serializer struct {
	bufs      []OutputBuffer
	cur       int // index of the first buffer with free space
	refill    []func(*Serializer)
	transform func(Token) Token
	dbg       debug.Debugger
	fmt       Formatting

	depth     int
	wrote     bool // at least one token has been written
	afterOpen bool // the last token written opened a container
	scratch   []byte
}

// NewSerializer constructs a Serializer with default formatting that writes
// into the given buffers in order.
func NewSerializer(bufs ...[]byte) *Serializer {
	s := &Serializer{dbg: debug.NewNoop(), fmt: DefaultFormatting()}
	for _, b := range bufs {
		s.AppendBuffer(b)
	}
	return s
}

// AppendBuffer adds b to the end of the output buffers of s. The full
// capacity of b is available for output.
func (s *Serializer) AppendBuffer(b []byte) {
	s.bufs = append(s.bufs, OutputBuffer{Buf: b[:cap(b)]})
}

// Buffers returns the output buffers of s, in order. The caller must not
// modify the result while s is in use.
func (s *Serializer) Buffers() []OutputBuffer { return s.bufs }

// ClearBuffers discards all the output buffers of s. The caller typically
// calls this after consuming the contents of Buffers, for example from a
// refill callback.
func (s *Serializer) ClearBuffers() { s.bufs, s.cur = nil, 0 }

// OnNeedBuffers registers f to be called when the output buffers of s do not
// have room for a token. The callback should supply buffers with
// AppendBuffer, optionally after consuming and clearing the existing ones.
func (s *Serializer) OnNeedBuffers(f func(*Serializer)) { s.refill = append(s.refill, f) }

// SetFormatting sets the formatting used for subsequent tokens.
func (s *Serializer) SetFormatting(f Formatting) {
	f.Indent = max(f.Indent, 0)
	s.fmt = f
}

// Formatting reports the current formatting of s.
func (s *Serializer) Formatting() Formatting { return s.fmt }

// SetTransform sets a function that is applied to each token before it is
// rendered. If f == nil, tokens are rendered unmodified.
func (s *Serializer) SetTransform(f func(Token) Token) { s.transform = f }

// SetDebugger sets the debugger that receives trace messages from s.
func (s *Serializer) SetDebugger(d debug.Debugger) {
	if d == nil {
		d = debug.NewNoop()
	}
	s.dbg = d.WithContext("serializer")
}

// Reset discards the formatting state of s so that the next token is
// rendered as the start of a new document. The buffers are not affected.
func (s *Serializer) Reset() { s.depth, s.wrote, s.afterOpen = 0, false, false }

// Write renders tok into the output buffers. If there is not enough room
// after consulting the refill callbacks, Write reports ErrOutputFull, and
// neither the buffers nor the formatting state of s are changed.
func (s *Serializer) Write(tok Token) error {
	if s.transform != nil {
		tok = s.transform(tok)
	}
	var depth int
	s.scratch, depth = s.render(s.scratch[:0], tok)
	if need := len(s.scratch); s.free() < need {
		s.requestBuffers(need)
		if s.free() < need {
			s.dbg.Log("output full", need, s.free())
			return ErrOutputFull
		}
	}
	s.copyOut(s.scratch)
	s.depth = depth
	s.wrote = true
	s.afterOpen = tok.ValueKind.IsOpen()
	return nil
}

// render appends the text of tok to buf, and reports the nesting depth that
// will be in effect after it is written.
func (s *Serializer) render(buf []byte, tok Token) ([]byte, int) {
	depth := s.depth
	isClose := tok.ValueKind.IsClose()
	if s.wrote && !s.afterOpen && !isClose && depth > 0 {
		buf = append(buf, ',')
	}
	if s.wrote && (s.fmt.Style == Pretty || depth == 0) {
		buf = append(buf, '\n')
	}
	if isClose && depth > 0 {
		depth--
	}
	if s.fmt.Style == Pretty {
		for range depth * s.fmt.Indent {
			buf = append(buf, ' ')
		}
	}
	if tok.HasName() {
		buf = appendQuoted(buf, tok.Name)
		if s.fmt.Style == Pretty {
			buf = append(buf, ": "...)
		} else {
			buf = append(buf, ':')
		}
	}
	switch tok.ValueKind {
	case String:
		buf = appendQuoted(buf, tok.Value)
	case Ascii:
		if s.fmt.AsciiAsString {
			buf = appendQuoted(buf, tok.Value)
		} else {
			buf = tok.Value.Append(buf)
		}
	default:
		buf = tok.Value.Append(buf)
	}
	if tok.ValueKind.IsOpen() {
		depth++
	}
	return buf, depth
}

func appendQuoted(buf []byte, v View) []byte {
	buf = append(buf, '"')
	buf = v.Append(buf)
	return append(buf, '"')
}

// free reports the total unused space in the buffers of s.
func (s *Serializer) free() int {
	var n int
	for _, b := range s.bufs[s.cur:] {
		n += b.Free()
	}
	return n
}

func (s *Serializer) requestBuffers(need int) {
	for len(s.refill) != 0 {
		before := s.free()
		s.dbg.Log("need buffers", need, before)
		for _, f := range s.refill {
			f(s)
		}
		if after := s.free(); after >= need || after <= before {
			return
		}
	}
}

// copyOut writes b into the buffers of s. The caller must ensure there is
// enough room.
func (s *Serializer) copyOut(b []byte) {
	for len(b) != 0 {
		ob := &s.bufs[s.cur]
		n := copy(ob.Buf[ob.Used:], b)
		ob.Used += n
		b = b[n:]
		if ob.Used == len(ob.Buf) {
			s.cur++
		}
	}
	for s.cur < len(s.bufs) && s.bufs[s.cur].Free() == 0 {
		s.cur++
	}
}
