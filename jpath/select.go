package jpath

import (
	"github.com/creachadair/jstream"
)

// A Selector is a jstream.TokenSource that delivers only the tokens of the
// values selected by a path expression. Each selected value is delivered as
// an anonymous top-level value, so a sequence of selections can be written to
// a serializer directly.
//
// Values are selected in document order as they begin. A value nested inside
// a selected value is delivered as part of it, and is not selected again on
// its own.
type Selector struct {
	src   jstream.TokenSource
	expr  Expr
	stk   []frame
	loc   []Elem // scratch
	start int    // stack depth at which the current selection began, or -1
}

// A frame is an open container of the input.
type frame struct {
	elem  Elem // the location of the container in its parent
	root  bool // the container is a top-level value
	array bool
	next  int // the index of the next array element
}

// Select returns a Selector that reads tokens from src and delivers those
// belonging to values selected by e.
func Select(src jstream.TokenSource, e Expr) *Selector {
	return &Selector{src: src, expr: e, start: -1}
}

// Next returns the next token of a selected value. It reports io.EOF when src
// is exhausted, and passes through any other error from src.
func (s *Selector) Next() (jstream.Token, error) {
	for {
		tok, err := s.src.Next()
		if err != nil {
			return tok, err
		}
		if tok.ValueKind.IsClose() {
			if len(s.stk) != 0 {
				s.stk = s.stk[:len(s.stk)-1]
			}
			if s.start < 0 {
				continue
			}
			if len(s.stk) == s.start {
				s.start = -1
			}
			return tok, nil
		}

		elem := s.element(tok)
		selected := s.start >= 0
		if !selected && s.expr.Match(s.location(elem)) {
			selected = true
			s.start = len(s.stk)
			tok.NameKind, tok.Name = jstream.Ascii, jstream.View{}
		}
		if tok.ValueKind.IsOpen() {
			s.stk = append(s.stk, frame{
				elem:  elem,
				root:  len(s.stk) == 0,
				array: tok.ValueKind == jstream.ArrayStart,
			})
		} else if s.start == len(s.stk) {
			s.start = -1 // a scalar selection is complete
		}
		if selected {
			return tok, nil
		}
	}
}

// element returns the location element of the value of tok within the
// innermost open container, and advances the array index if necessary.
func (s *Selector) element(tok jstream.Token) Elem {
	if len(s.stk) == 0 {
		return Elem{Index: -1}
	}
	top := &s.stk[len(s.stk)-1]
	if top.array {
		top.next++
		return Index(top.next - 1)
	}
	return Member(memberName(tok))
}

// location returns the complete location of a value whose element in the
// innermost open container is elem.
func (s *Selector) location(elem Elem) []Elem {
	s.loc = s.loc[:0]
	if len(s.stk) == 0 {
		return s.loc
	}
	for _, f := range s.stk {
		if !f.root {
			s.loc = append(s.loc, f.elem)
		}
	}
	return append(s.loc, elem)
}

func memberName(tok jstream.Token) string {
	if tok.NameKind != jstream.String {
		return tok.Name.String()
	}
	if name, err := jstream.Unescape(tok.Name); err == nil {
		return string(name)
	}
	return tok.Name.String()
}
