// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

// An input is one buffer queued for scanning. Its lease expires when the
// tokenizer releases it back to the caller.
type input struct {
	data []byte
	own  lease
}

func (in *input) view(pos, end int) View { return leasedView(in.data[pos:end], &in.own) }

// An accumulator joins the text of a value (and, if necessary, the name of
// the member it belongs to) whose bytes span more than one input buffer.
// Views of the accumulator are invalidated when it is cleared at the start of
// the next token.
type accumulator struct {
	name   []byte
	data   []byte
	active bool
	own    lease
}

func (a *accumulator) clear() {
	if !a.active {
		return
	}
	a.name = a.name[:0]
	a.data = a.data[:0]
	a.active = false
	a.own.expire()
}

// add appends b to the name or data storage of a.
func (a *accumulator) add(toName bool, b []byte) {
	a.active = true
	if toName {
		a.name = append(a.name, b...)
	} else {
		a.data = append(a.data, b...)
	}
}

// join appends tail to the name or data storage of a, and returns a view of
// the complete result.
func (a *accumulator) join(toName bool, tail []byte) View {
	a.add(toName, tail)
	if toName {
		return leasedView(a.name, &a.own)
	}
	return leasedView(a.data, &a.own)
}
