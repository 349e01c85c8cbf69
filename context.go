// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// ErrorContext records a window of source text around the position where a
// tokenizer reported a hard error. It is used only for diagnostics.
type ErrorContext struct {
	Line      int       // index in Lines of the line containing the cursor
	Character int       // byte offset of the cursor within Lines[Line]
	Kind      ErrorKind // the error being described
	Lines     []string  // source lines surrounding the cursor, in order
}

// String renders c as a diagnostic: a header naming the error, followed by
// the captured lines with a caret marking the cursor position.
func (c ErrorContext) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Error %v:\n", c.Kind)
	for i, line := range c.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
		if i != c.Line {
			continue
		}

		// Copy tabs from the line so the caret lines up with the text.
		for j := 0; j < c.Character; j++ {
			if j < len(line) && line[j] == '\t' {
				sb.WriteByte('\t')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("^\n")
	}
	return sb.String()
}

// contextConfig carries the settings for capturing an ErrorContext.
type contextConfig struct {
	lines  int // lines to capture before and after the cursor line
	window int // bytes to search on either side of the cursor for newlines
	bytes  int // bytes to capture on either side when no newline is found
}

var defaultContext = contextConfig{lines: 3, window: 256, bytes: 38}

// newErrorContext captures the text of data surrounding cursor.
//
// If a newline occurs within the search window, the result holds the line
// containing the cursor plus up to cfg.lines lines on either side of it.
// Otherwise the result is a single raw window of up to cfg.bytes bytes on
// either side of the cursor.
func newErrorContext(kind ErrorKind, data []byte, cursor int, cfg contextConfig) ErrorContext {
	ec := ErrorContext{Kind: kind}
	if len(data) == 0 {
		return ec
	}
	cursor = min(max(cursor, 0), len(data))
	lo := max(0, cursor-cfg.window)
	hi := min(len(data), cursor+cfg.window)

	start, end := -1, -1
	if i := bytes.LastIndexByte(data[lo:cursor], '\n'); i >= 0 {
		start = lo + i + 1
	}
	if i := bytes.IndexByte(data[cursor:hi], '\n'); i >= 0 {
		end = cursor + i
	}
	if start < 0 && end < 0 {
		left := max(0, cursor-cfg.bytes)
		right := min(len(data), cursor+cfg.bytes)
		ec.Lines = []string{string(data[left:right])}
		ec.Character = cursor - left
		return ec
	}
	if start < 0 {
		start = lo
	}
	if end < 0 {
		end = hi
	}

	var before []string
	for p := start; len(before) < cfg.lines && p > lo; {
		s := lo
		if i := bytes.LastIndexByte(data[lo:p-1], '\n'); i >= 0 {
			s = lo + i + 1
		}
		before = append(before, lineText(data[s:p-1]))
		p = s
	}
	slices.Reverse(before)

	var after []string
	for p := end; len(after) < cfg.lines && p+1 < hi; {
		s, e := p+1, hi
		if i := bytes.IndexByte(data[s:hi], '\n'); i >= 0 {
			e = s + i
		}
		after = append(after, lineText(data[s:e]))
		p = e
	}

	ec.Lines = make([]string, 0, len(before)+1+len(after))
	ec.Lines = append(ec.Lines, before...)
	ec.Lines = append(ec.Lines, lineText(data[start:end]))
	ec.Lines = append(ec.Lines, after...)
	ec.Line = len(before)
	ec.Character = cursor - start
	return ec
}

// lineText returns the text of a line with any trailing carriage return
// removed.
func lineText(b []byte) string { return string(bytes.TrimSuffix(b, []byte("\r"))) }
