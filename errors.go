// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the results reported by a Tokenizer and by binding
// layers built on top of it. ErrorKind values satisfy the error interface, so
// callers can compare directly or use errors.Is against a *SyntaxError.
//
// NeedMoreData is not a failure: it reports that the tokenizer has consumed
// all the input available to it, and the caller should supply another buffer
// and call Next again.
type ErrorKind int

// Constants defining the valid ErrorKind values. The names follow the
// established diagnostic vocabulary of the format.
const (
	NoError ErrorKind = iota
	NeedMoreData
	InvalidToken
	ExpectedPropertyName
	ExpectedDelimiter
	ExpectedDataToken
	ExpectedObjectStart
	ExpectedObjectEnd
	ExpectedArrayStart
	ExpectedArrayEnd
	IlligalPropertyName
	IlligalPropertyType
	IlligalDataValue
	EncounteredIlligalChar
	MissingPropertyMember
	FailedToParseBool
	FailedToParseFloat
	FailedToParseInt
	UnassignedRequiredMember
	UnknownError
)

var errorStr = [...]string{
	NoError:                  "NoError",
	NeedMoreData:             "NeedMoreData",
	InvalidToken:             "InvalidToken",
	ExpectedPropertyName:     "ExpectedPropertyName",
	ExpectedDelimiter:        "ExpectedDelimiter",
	ExpectedDataToken:        "ExpectedDataToken",
	ExpectedObjectStart:      "ExpectedObjectStart",
	ExpectedObjectEnd:        "ExpectedObjectEnd",
	ExpectedArrayStart:       "ExpectedArrayStart",
	ExpectedArrayEnd:         "ExpectedArrayEnd",
	IlligalPropertyName:      "IlligalPropertyName",
	IlligalPropertyType:      "IlligalPropertyType",
	IlligalDataValue:         "IlligalDataValue",
	EncounteredIlligalChar:   "EncounteredIlligalChar",
	MissingPropertyMember:    "MissingPropertyMember",
	FailedToParseBool:        "FailedToParseBool",
	FailedToParseFloat:       "FailedToParseFloat",
	FailedToParseInt:         "FailedToParseInt",
	UnassignedRequiredMember: "UnassignedRequiredMember",
	UnknownError:             "UnknownError",
}

// String returns the diagnostic name of e.
func (e ErrorKind) String() string {
	if e < 0 || int(e) >= len(errorStr) {
		return errorStr[UnknownError]
	}
	return errorStr[e]
}

// Error satisfies the error interface.
func (e ErrorKind) Error() string { return e.String() }

// SyntaxError is the concrete type of hard errors reported by a Tokenizer.
// It unwraps to its Kind.
type SyntaxError struct {
	Kind    ErrorKind
	Offset  int          // absolute byte offset of the cursor
	Context ErrorContext // source lines surrounding the cursor
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %v", s.Offset, s.Kind)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.Kind }

// Diagnostic renders a human-readable description of s, including the source
// lines surrounding the error.
func (s *SyntaxError) Diagnostic() string { return s.Context.String() }

// ErrOutputFull is reported by Serializer.Write when no output buffer has
// room for a token and no more buffers were supplied.
var ErrOutputFull = errors.New("jstream: output buffers exhausted")
