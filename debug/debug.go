// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package debug defines a minimal tracing interface used by the tokenizer and
// serializer to report buffer traffic and errors.
package debug

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gookit/color"
)

// A Debugger receives trace messages. Each call to Log emits one line made of
// its arguments separated by colons.
type Debugger interface {
	Log(main string, v ...any)

	// WithContext returns a Debugger that prefixes each line with context.
	WithContext(context string) Debugger
}

type noopDebugger struct{}

// NewNoop returns a Debugger that discards everything.
func NewNoop() Debugger { return noopDebugger{} }

func (noopDebugger) Log(string, ...any) {}

func (d noopDebugger) WithContext(string) Debugger { return d }

type printDebugger struct {
	mu      *sync.Mutex
	w       io.Writer
	context string
}

// NewPrint returns a Debugger that writes lines to w. The context prefix of
// each line is coloured when w is a terminal that supports it.
func NewPrint(w io.Writer) Debugger {
	return &printDebugger{mu: new(sync.Mutex), w: w}
}

func (d *printDebugger) Log(main string, v ...any) {
	parts := make([]string, 0, len(v)+2)
	if d.context != "" {
		parts = append(parts, color.Cyan.Sprint(d.context))
	}
	if main != "" {
		parts = append(parts, main)
	}
	for _, arg := range v {
		parts = append(parts, fmt.Sprint(arg))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.w, strings.Join(parts, ": "))
}

func (d *printDebugger) WithContext(context string) Debugger {
	if d.context != "" {
		context = d.context + "/" + context
	}
	return &printDebugger{mu: d.mu, w: d.w, context: context}
}
