// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"github.com/creachadair/jstream/internal/escape"

	"go4.org/mem"
)

// ErrIncompleteEscape is reported by Unescape for text that ends inside an
// escape sequence.
var ErrIncompleteEscape = escape.ErrIncomplete

// Escape returns the escaped form of s, without quotation marks, suitable as
// the text of a String token.
func Escape(s string) []byte { return escape.Append(nil, mem.S(s)) }

// EscapedString returns a View of the escaped form of s.
func EscapedString(s string) View { return ViewOf(Escape(s)) }

// Quote encodes s as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	buf = escape.Append(buf, mem.S(s))
	return string(append(buf, '"'))
}

// Unescape decodes the text of a String token. Escape sequences are replaced
// with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unescape
// reports ErrIncompleteEscape for an incomplete escape sequence.
func Unescape(v View) ([]byte, error) {
	ro := v.RO()
	return escape.AppendUnescaped(make([]byte, 0, ro.Len()), ro)
}
