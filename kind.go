// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"go4.org/mem"
)

// Kind is the type of a token name or value.
type Kind byte

// Constants defining the valid Kind values.
const (
	Error       Kind = iota // no valid kind
	String                  // quoted string, quotes removed
	Ascii                   // unquoted bare word
	Number                  // number, as written
	ObjectStart             // left brace "{"
	ObjectEnd               // right brace "}"
	ArrayStart              // left square bracket "["
	ArrayEnd                // right square bracket "]"
	Bool                    // constant: true or false
	Null                    // constant: null
)

var kindStr = [...]string{
	Error:       "error",
	String:      "string",
	Ascii:       "ascii",
	Number:      "number",
	ObjectStart: `"{"`,
	ObjectEnd:   `"}"`,
	ArrayStart:  `"["`,
	ArrayEnd:    `"]"`,
	Bool:        "bool",
	Null:        "null",
}

func (k Kind) String() string {
	v := int(k)
	if v >= len(kindStr) {
		return kindStr[Error]
	}
	return kindStr[v]
}

// IsStructural reports whether k is one of the bracket kinds.
func (k Kind) IsStructural() bool { return k >= ObjectStart && k <= ArrayEnd }

// IsOpen reports whether k opens an object or array.
func (k Kind) IsOpen() bool { return k == ObjectStart || k == ArrayStart }

// IsClose reports whether k closes an object or array.
func (k Kind) IsClose() bool { return k == ObjectEnd || k == ArrayEnd }

var (
	litNull  = mem.S("null")
	litTrue  = mem.S("true")
	litFalse = mem.S("false")
)

// Classify resolves the kind of a scanned span. An Ascii span spelling one of
// the literals null, true, or false is reported as Null or Bool; any other
// Ascii span remains Ascii. Kinds other than Ascii are returned unchanged.
func Classify(kind Kind, text mem.RO) Kind {
	if kind != Ascii {
		return kind
	}
	switch text.Len() {
	case 4:
		if text.Equal(litNull) {
			return Null
		} else if text.Equal(litTrue) {
			return Bool
		}
	case 5:
		if text.Equal(litFalse) {
			return Bool
		}
	}
	return Ascii
}

// isLetterLike reports whether ch may begin a bare word. In addition to the
// ASCII letters this admits the symbols "^", "_", and "`".
func isLetterLike(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= '^' && ch <= 'z')
}

func isWordByte(ch byte) bool   { return isLetterLike(ch) || isDigit(ch) }
func isDigit(ch byte) bool      { return ch >= '0' && ch <= '9' }
func isNumStart(ch byte) bool   { return ch == '-' || ch == '+' || isDigit(ch) }
func isNumberByte(ch byte) bool { return isDigit(ch) || ch == '.' || ch == '+' || ch == '-' || ch == 'e' || ch == 'E' }

// isSpace reports whether ch is insignificant whitespace between tokens. A NUL
// byte is treated as padding and skipped.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == 0
}
