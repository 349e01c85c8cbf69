// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import "fmt"

// A Token is one lexical unit of a JSON document: a structural bracket, an
// object member with its name and value, or an anonymous value (an array
// element or a top-level value).
//
// For anonymous values Name is empty and NameKind is Ascii. For object
// members, Name holds the member name as written, with the quotes removed for
// String names. String values likewise exclude their quotes, but escape
// sequences are not decoded (see Unescape).
//
// The views in a Token are only valid until the next call to the Next method
// of the tokenizer that produced it. The caller must copy any data it needs
// to retain beyond that.
type Token struct {
	NameKind  Kind
	Name      View
	ValueKind Kind
	Value     View
}

// Anonymous constructs a token with no name.
func Anonymous(kind Kind, value View) Token {
	return Token{NameKind: Ascii, ValueKind: kind, Value: value}
}

// Member constructs a token for an object member with a string name.
func Member(name string, kind Kind, value View) Token {
	return Token{NameKind: String, Name: ViewString(name), ValueKind: kind, Value: value}
}

// HasName reports whether t carries a member name. A String name counts even
// when it is empty.
func (t Token) HasName() bool { return t.NameKind == String || t.Name.Len() != 0 }

func (t Token) String() string {
	if t.HasName() {
		return fmt.Sprintf("%v <%s>: %v <%s>", t.NameKind, t.Name.String(), t.ValueKind, t.Value.String())
	}
	return fmt.Sprintf("%v <%s>", t.ValueKind, t.Value.String())
}

var (
	objectStartText = ViewString("{")
	objectEndText   = ViewString("}")
	arrayStartText  = ViewString("[")
	arrayEndText    = ViewString("]")
)

// Structural returns a token for the given bracket kind, with the bracket
// character as its value. It panics if kind is not a bracket kind.
func Structural(kind Kind) Token {
	switch kind {
	case ObjectStart:
		return Anonymous(kind, objectStartText)
	case ObjectEnd:
		return Anonymous(kind, objectEndText)
	case ArrayStart:
		return Anonymous(kind, arrayStartText)
	case ArrayEnd:
		return Anonymous(kind, arrayEndText)
	default:
		panic(fmt.Sprintf("jstream: %v is not a structural kind", kind))
	}
}
