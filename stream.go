// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"cmp"
	"io"
)

// A TokenSource produces a sequence of tokens. Next reports io.EOF after the
// last token. A *Tokenizer and a *Stream are both token sources.
type TokenSource interface {
	Next() (Token, error)
}

// A TokenSink consumes a sequence of tokens. A *Serializer is a token sink.
type TokenSink interface {
	Write(Token) error
}

// A Handler handles events from parsing a token sequence. If a method reports
// an error, parsing stops and that error is returned to the caller.
//
// The views in the Token argument to a Handler method are only valid for the
// duration of that method call. If the method needs to retain the contents
// after it returns, it must copy them.
type Handler interface {
	// Begin a new object. If the object is a member of an enclosing object,
	// tok carries the member name.
	BeginObject(tok Token) error

	// End the most-recently-opened object.
	EndObject(tok Token) error

	// Begin a new array. If the array is a member of an enclosing object,
	// tok carries the member name.
	BeginArray(tok Token) error

	// End the most-recently-opened array.
	EndArray(tok Token) error

	// Report a scalar value. String values are not unescaped; the handler is
	// responsible for decoding them if the plain string is required (see
	// Unescape).
	Value(tok Token) error

	// EndOfInput reports the end of the token sequence.
	EndOfInput()
}

// DefaultChunkSize is the size of the buffers a Stream reads from its input
// when no other size is specified.
const DefaultChunkSize = 4096

// maxEmptyReads bounds the number of consecutive empty reads a Stream will
// tolerate from its input before giving up.
const maxEmptyReads = 100

// Stream is a TokenSource that reads JSON text from an io.Reader in
// fixed-size chunks and tokenizes it. Chunk buffers are recycled once the
// tokenizer releases them.
type Stream struct {
	t     *Tokenizer
	r     io.Reader
	chunk int
	free  [][]byte
	rerr  error
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamSize(r, DefaultChunkSize) }

// NewStreamSize constructs a new Stream that consumes input from r in chunks
// of the given size. If size <= 0, DefaultChunkSize is used.
func NewStreamSize(r io.Reader, size int) *Stream {
	if size <= 0 {
		size = DefaultChunkSize
	}
	s := &Stream{t: NewTokenizer(), r: r, chunk: size}
	s.t.OnNeedMoreData(s.fill, false)
	s.t.OnRelease(s.recycle)
	return s
}

// Tokenizer returns the tokenizer used by s, so the caller may configure it.
func (s *Stream) Tokenizer() *Tokenizer { return s.t }

// Next returns the next token from the input. At the end of input it returns
// io.EOF. A syntax error has type *SyntaxError; a failure reading the input
// is returned as reported by the reader.
func (s *Stream) Next() (Token, error) {
	tok, err := s.t.Next()
	if err == NeedMoreData {
		// The reader failed without reaching EOF.
		return Token{}, cmp.Or(s.rerr, io.ErrNoProgress)
	}
	return tok, err
}

func (s *Stream) fill(t *Tokenizer) {
	if s.rerr != nil {
		return
	}
	var buf []byte
	if n := len(s.free); n != 0 {
		buf, s.free = s.free[n-1], s.free[:n-1]
	} else {
		buf = make([]byte, s.chunk)
	}

	var nr int
	var err error
	for try := 0; nr == 0 && err == nil; try++ {
		if try == maxEmptyReads {
			err = io.ErrNoProgress
			break
		}
		nr, err = s.r.Read(buf)
	}
	if nr > 0 {
		t.AddInput(buf[:nr])
	} else {
		s.free = append(s.free, buf)
	}
	if err == io.EOF {
		t.Finish()
	} else if err != nil {
		s.rerr = err
	}
}

func (s *Stream) recycle(buf []byte) {
	if cap(buf) == s.chunk {
		s.free = append(s.free, buf[:s.chunk])
	}
}

// Parse parses the input and delivers events to h until either an error
// occurs or the input is exhausted.
func (s *Stream) Parse(h Handler) error {
	for {
		if err := ParseValue(s, h); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// ParseOne parses a single value from the input and delivers events to h
// until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne returns io.EOF.
func (s *Stream) ParseOne(h Handler) error { return ParseValue(s, h) }

// ParseValue reads the tokens of one complete value from src and delivers
// them to h. If src is exhausted before the value begins, ParseValue calls
// h.EndOfInput and returns io.EOF. If src ends inside the value, ParseValue
// reports io.ErrUnexpectedEOF.
func ParseValue(src TokenSource, h Handler) error {
	depth := 0
	for {
		tok, err := src.Next()
		if err == io.EOF {
			if depth != 0 {
				return io.ErrUnexpectedEOF
			}
			h.EndOfInput()
			return io.EOF
		} else if err != nil {
			return err
		}

		switch tok.ValueKind {
		case ObjectStart:
			err = h.BeginObject(tok)
			depth++
		case ArrayStart:
			err = h.BeginArray(tok)
			depth++
		case ObjectEnd, ArrayEnd:
			if depth == 0 {
				if tok.ValueKind == ObjectEnd {
					return ExpectedObjectStart
				}
				return ExpectedArrayStart
			} else if tok.ValueKind == ObjectEnd {
				err = h.EndObject(tok)
			} else {
				err = h.EndArray(tok)
			}
			depth--
		default:
			err = h.Value(tok)
		}
		if err != nil {
			return err
		} else if depth == 0 {
			return nil
		}
	}
}

// Copy reads tokens from src and writes them to dst until src reports io.EOF
// or an error occurs. It returns the number of tokens copied.
func Copy(dst TokenSink, src TokenSource) (int, error) {
	var n int
	for {
		tok, err := src.Next()
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}
		if err := dst.Write(tok); err != nil {
			return n, err
		}
		n++
	}
}
