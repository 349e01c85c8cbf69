// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"

	"github.com/creachadair/jstream"
	"github.com/goccy/go-json"
)

// A treeHandler implements the jstream.Handler interface to construct a
// generic value from a token sequence. Objects become map[string]any, arrays
// become []any, numbers become json.Number, strings are unescaped, and null
// becomes nil.
type treeHandler struct {
	stk []*frame
	out any
}

// A frame is a partially-built container, with the name it will have in its
// enclosing object.
type frame struct {
	name string
	obj  map[string]any
	arr  []any
}

func (f *frame) value() any {
	if f.obj != nil {
		return f.obj
	}
	if f.arr == nil {
		return []any{}
	}
	return f.arr
}

func (h *treeHandler) push(f *frame) { h.stk = append(h.stk, f) }

func (h *treeHandler) pop() *frame {
	last := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// reduceValue adds v to the container atop the stack, or makes it the result
// if the stack is empty.
func (h *treeHandler) reduceValue(name string, v any) {
	if len(h.stk) == 0 {
		h.out = v
		return
	}
	switch top := h.stk[len(h.stk)-1]; {
	case top.obj != nil:
		top.obj[name] = v
	default:
		top.arr = append(top.arr, v)
	}
}

func (h *treeHandler) reduce() error {
	f := h.pop()
	h.reduceValue(f.name, f.value())
	return nil
}

func (h *treeHandler) BeginObject(tok jstream.Token) error {
	name, err := memberName(tok)
	if err != nil {
		return err
	}
	h.push(&frame{name: name, obj: make(map[string]any)})
	return nil
}

func (h *treeHandler) EndObject(jstream.Token) error { return h.reduce() }

func (h *treeHandler) BeginArray(tok jstream.Token) error {
	name, err := memberName(tok)
	if err != nil {
		return err
	}
	h.push(&frame{name: name})
	return nil
}

func (h *treeHandler) EndArray(jstream.Token) error { return h.reduce() }

func (h *treeHandler) Value(tok jstream.Token) error {
	name, err := memberName(tok)
	if err != nil {
		return err
	}
	switch tok.ValueKind {
	case jstream.String:
		s, err := jstream.Unescape(tok.Value)
		if err != nil {
			return &Error{Kind: jstream.IlligalDataValue, Path: name, Err: err}
		}
		h.reduceValue(name, string(s))
	case jstream.Number:
		h.reduceValue(name, json.Number(tok.Value.String()))
	case jstream.Bool:
		h.reduceValue(name, tok.Value.Equal("true"))
	case jstream.Null:
		h.reduceValue(name, nil)
	case jstream.Ascii:
		h.reduceValue(name, tok.Value.String())
	default:
		return fmt.Errorf("unknown value kind %v", tok.ValueKind)
	}
	return nil
}

func (h *treeHandler) EndOfInput() {}

// memberName returns the plain text of the name of tok, or "" if tok has no
// name.
func memberName(tok jstream.Token) (string, error) {
	if !tok.HasName() {
		return "", nil
	} else if tok.NameKind != jstream.String {
		return tok.Name.String(), nil
	}
	s, err := jstream.Unescape(tok.Name)
	if err != nil {
		return "", &Error{Kind: jstream.IlligalPropertyName, Err: err}
	}
	return string(s), nil
}
