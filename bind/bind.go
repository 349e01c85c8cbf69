// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package bind maps Go values to and from jstream token sequences.
//
// Decode reads one complete value from a jstream.TokenSource and stores it
// into a Go value, using the "json" struct tags to match object members to
// fields. Encode emits a Go value as tokens to a jstream.TokenSink.
//
// A struct field whose tag includes the "required" option is reported as
// unassigned if the input object has no corresponding member:
//
//	type Config struct {
//	   Name  string `json:"name,required"`
//	   Debug bool   `json:"debug,omitempty"`
//	}
//
// A Decoder records unknown members and unassigned required fields. By
// default unknown members are tolerated and unassigned required fields are
// errors; see Options.
package bind

import (
	"errors"
	"fmt"

	"github.com/creachadair/jstream"
)

// Error is the concrete type of errors reported by this package. It unwraps
// to its Kind and, if present, its underlying error.
type Error struct {
	Kind jstream.ErrorKind
	Path string // dotted path of the member concerned, if known
	Err  error  // the underlying error, or nil
}

func (e *Error) Error() string {
	msg := "bind: " + e.Kind.String()
	if e.Path != "" {
		msg += fmt.Sprintf(" at %q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// asError converts err into an *Error of the given kind, unless it already
// carries one.
func asError(kind jstream.ErrorKind, path string, err error) error {
	var berr *Error
	if errors.As(err, &berr) {
		return err
	}
	var serr *jstream.SyntaxError
	if errors.As(err, &serr) {
		kind = serr.Kind
	}
	return &Error{Kind: kind, Path: path, Err: err}
}
