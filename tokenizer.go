// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream

import (
	"io"
	"slices"

	"github.com/creachadair/jstream/debug"
)

// tokenState is the position of a Tokenizer within the grammar of a token.
type tokenState int

const (
	findingName      tokenState = iota // expecting a member name or "}"
	findingDelimiter                   // expecting ":" after a member name
	findingData                        // expecting a value or a close bracket
	findingTokenEnd                    // expecting "," or a close bracket
)

// valueState is the progress of the value scanner within one name or value.
type valueState int

const (
	noStartFound valueState = iota
	findingEnd
	foundEnd
)

type moreFunc struct {
	f    func(*Tokenizer)
	once bool
}

// A Tokenizer converts JSON text supplied as an ordered sequence of byte
// buffers into a sequence of tokens. Buffers are supplied with AddInput, and
// the caller pulls tokens with Next. When the queued input is exhausted in
// the middle of a token, Next returns NeedMoreData and resumes from the same
// point on the next call.
//
// Names and values that span a buffer boundary are joined into storage owned
// by the tokenizer before the earlier buffer is released, so every token the
// tokenizer reports carries its complete text.
type Tokenizer struct {
	in   []*input
	base int // absolute offset of the front buffer

	needMore  []moreFunc
	release   []func([]byte)
	transform func(Token) Token
	dbg       debug.Debugger
	ctx       contextConfig

	allowAscii    bool
	allowNewlines bool
	allowTrailing bool

	state      tokenState
	stack      []Kind // open containers, innermost last
	expectMore bool   // a comma was consumed and the next element is required
	sawNewline bool   // a newline was consumed while finding the token end

	// Value scanner.
	sub     valueState
	kind    Kind
	cursor  int // offset in the front buffer
	start   int // offset in the front buffer where the value text begins
	pos     int // absolute offset where the current value begins
	escaped bool
	spanned bool // part of the value was spilled into acc

	pending Token
	named   bool
	acc     accumulator
	resume  bool
	span    Span
	eof     bool
	err     error
}

// NewTokenizer constructs a new empty Tokenizer. The caller must supply input
// with AddInput or register an OnNeedMoreData callback.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{dbg: debug.NewNoop(), ctx: defaultContext, state: findingData}
}

// AllowAsciiType configures whether the tokenizer accepts bare words other
// than true, false, and null as values (reported with kind Ascii), and bare
// words as member names. By default bare words are rejected.
func (t *Tokenizer) AllowAsciiType(ok bool) { t.allowAscii = ok }

// AllowNewlineDelimiter configures whether a newline may stand in for the
// comma between members and elements. By default a comma is required.
func (t *Tokenizer) AllowNewlineDelimiter(ok bool) { t.allowNewlines = ok }

// AllowTrailingCommas configures whether a comma may follow the last member
// of an object or the last element of an array.
func (t *Tokenizer) AllowTrailingCommas(ok bool) { t.allowTrailing = ok }

// SetErrorContext sets the number of lines on either side of the error line,
// and the number of bytes on either side of the cursor when the input has no
// nearby newline, captured in the context of a SyntaxError. Values less than
// zero leave the corresponding setting unchanged.
func (t *Tokenizer) SetErrorContext(lines, bytes int) {
	if lines >= 0 {
		t.ctx.lines = lines
	}
	if bytes >= 0 {
		t.ctx.bytes = bytes
	}
}

// SetDebugger sets the debugger that receives trace messages from t.
// If d == nil, tracing is disabled.
func (t *Tokenizer) SetDebugger(d debug.Debugger) {
	if d == nil {
		d = debug.NewNoop()
	}
	t.dbg = d.WithContext("tokenizer")
}

// SetTransform sets a function that is applied to each token before Next
// returns it. If f == nil, tokens are returned unmodified.
func (t *Tokenizer) SetTransform(f func(Token) Token) { t.transform = f }

// OnNeedMoreData registers f to be called when t runs out of queued input.
// The callback may supply more input by calling AddInput or declare the end
// of input with Finish. If oneShot is true, f is discarded after the first
// time it is called. Callbacks run in registration order.
func (t *Tokenizer) OnNeedMoreData(f func(*Tokenizer), oneShot bool) {
	t.needMore = append(t.needMore, moreFunc{f: f, once: oneShot})
}

// OnRelease registers f to be called with each input buffer once t has
// finished with it. The slice passed to f is the one given to AddInput, and
// buffers are released in the order they were added. After f is called the
// caller may reuse the buffer.
func (t *Tokenizer) OnRelease(f func([]byte)) { t.release = append(t.release, f) }

// AddInput appends data to the input queue of t. The caller must not modify
// data until t releases it.
func (t *Tokenizer) AddInput(data []byte) {
	t.in = append(t.in, &input{data: data})
}

// Finish declares that no more input will be added. Once the queued input is
// consumed, Next completes any pending number or bare word and then reports
// io.EOF if the input ended at a value boundary.
func (t *Tokenizer) Finish() { t.eof = true }

// Buffered reports the number of input buffers queued and not yet released.
func (t *Tokenizer) Buffered() int { return len(t.in) }

// Depth reports the number of containers currently open.
func (t *Tokenizer) Depth() int { return len(t.stack) }

// Span reports the location of the value of the most recent token.
func (t *Tokenizer) Span() Span { return t.span }

// Err reports the sticky error of t, or nil.
func (t *Tokenizer) Err() error { return t.err }

// Reset releases all queued input and discards the parsing state of t,
// including any sticky error. Configuration and callbacks are retained.
func (t *Tokenizer) Reset() {
	for len(t.in) != 0 {
		t.releaseFront()
	}
	t.acc.active = true // force views of the accumulator to expire
	t.acc.clear()
	t.base = 0
	t.state = findingData
	t.stack = t.stack[:0]
	t.expectMore, t.sawNewline = false, false
	t.pending, t.named = Token{}, false
	t.resume, t.eof, t.err = false, false, nil
	t.span = Span{}
	t.resetForNewValue()
}

// Next returns the next token from the input. If the queued input is
// exhausted before a token is complete, Next returns NeedMoreData; the caller
// should add input (or call Finish) and call Next again. At the end of the
// input, Next returns io.EOF. Any other error is a *SyntaxError, and is
// reported again by every subsequent call until t is Reset.
func (t *Tokenizer) Next() (Token, error) {
	if t.err != nil {
		return Token{}, t.err
	}
	if !t.resume {
		t.resetForNewToken()
	}
	t.resume = false
	for {
		if len(t.in) == 0 {
			t.requestMoreData()
		}
		if len(t.in) == 0 {
			if t.eof {
				return t.endOfInput()
			}
			t.resume = true
			return Token{}, NeedMoreData
		}

		in := t.in[0]
		tok, err := t.scan(in)
		if err == nil {
			return t.deliver(tok), nil
		} else if err == NeedMoreData {
			t.spill(in)
			t.releaseFront()
			continue
		}
		return Token{}, t.fail(in, err.(ErrorKind))
	}
}

func (t *Tokenizer) resetForNewToken() {
	t.acc.clear()
	t.pending = Token{NameKind: Ascii}
	t.named = false
	t.resetForNewValue()
}

func (t *Tokenizer) resetForNewValue() {
	t.sub = noStartFound
	t.kind = Error
	t.escaped = false
	t.spanned = false
}

func (t *Tokenizer) deliver(tok Token) Token {
	if t.transform != nil {
		tok = t.transform(tok)
	}
	return tok
}

func (t *Tokenizer) requestMoreData() {
	n := len(t.needMore)
	if n == 0 {
		return
	}
	t.dbg.Log("need more data", t.base)

	// Callbacks may register further callbacks; those do not run until the
	// next request.
	for i := 0; i < n; i++ {
		t.needMore[i].f(t)
	}
	kept := slices.DeleteFunc(slices.Clone(t.needMore[:n]), func(m moreFunc) bool { return m.once })
	t.needMore = append(kept, t.needMore[n:]...)
}

func (t *Tokenizer) releaseFront() {
	in := t.in[0]
	t.in[0] = nil
	t.in = t.in[1:]
	t.base += len(in.data)
	t.cursor = 0
	in.own.expire()
	t.dbg.Log("release", len(in.data))
	for _, f := range t.release {
		f(in.data)
	}
}

// spill copies the partial name and value held in the front buffer into the
// accumulator, so that the buffer can be released.
func (t *Tokenizer) spill(in *input) {
	if t.named && !t.pending.Name.backedBy(&t.acc.own) {
		t.acc.name = t.pending.Name.Append(t.acc.name[:0])
		t.acc.active = true
		t.pending.Name = leasedView(t.acc.name, &t.acc.own)
	}
	if t.sub == findingEnd {
		t.acc.add(t.state == findingName, in.data[t.start:t.cursor])
		t.spanned = true
		t.start = 0
	}
}

// fail records a sticky syntax error of the given kind at the cursor, and
// releases the buffer in which it was found.
func (t *Tokenizer) fail(in *input, kind ErrorKind) error {
	var data []byte
	if in != nil {
		data = in.data
	}
	serr := &SyntaxError{
		Kind:    kind,
		Offset:  t.base + t.cursor,
		Context: newErrorContext(kind, data, t.cursor, t.ctx),
	}
	t.dbg.Log("error", kind, serr.Offset)
	if in != nil {
		t.releaseFront()
	}
	t.err = serr
	return serr
}

// scan advances the state machine over the front buffer until a token is
// complete, the buffer is exhausted (NeedMoreData), or an error occurs.
func (t *Tokenizer) scan(in *input) (Token, error) {
	for {
		switch t.state {
		case findingName, findingData:
			kind, v, err := t.scanValue(in)
			if err != nil {
				return Token{}, err
			}
			tok, done, err := t.complete(kind, v)
			if err != nil {
				// Point the diagnostic at the start of the offending text if it
				// is still in this buffer.
				t.cursor = max(t.pos-t.base, 0)
				return Token{}, err
			} else if done {
				return tok, nil
			}

		case findingDelimiter:
			data := in.data
			i := t.cursor
			for i < len(data) && isSpace(data[i]) {
				i++
			}
			t.cursor = i
			if i == len(data) {
				return Token{}, NeedMoreData
			} else if data[i] != ':' {
				return Token{}, ExpectedDelimiter
			}
			t.cursor++
			t.state = findingData

		case findingTokenEnd:
			if err := t.findTokenEnd(in.data); err != nil {
				return Token{}, err
			}
		}
	}
}

// scanValue runs the value scanner over the front buffer. It reports the
// kind and text of a complete name or value, or NeedMoreData if the buffer
// ended first.
func (t *Tokenizer) scanValue(in *input) (Kind, View, error) {
	data := in.data
	if t.sub == noStartFound {
		i := t.cursor
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		t.cursor = i
		if i == len(data) {
			return Error, View{}, NeedMoreData
		}
		t.pos = t.base + i
		switch ch := data[i]; {
		case ch == '"':
			t.kind, t.start, t.cursor = String, i+1, i+1
		case ch == '{' || ch == '}' || ch == '[' || ch == ']':
			t.cursor = i + 1
			t.sub = foundEnd
			t.span = Span{Pos: t.pos, End: t.pos + 1}
			return bracketKind(ch), in.view(i, i+1), nil
		case isNumStart(ch):
			t.kind, t.start, t.cursor = Number, i, i+1
		case isLetterLike(ch):
			t.kind, t.start, t.cursor = Ascii, i, i+1
		default:
			return Error, View{}, EncounteredIlligalChar
		}
		t.sub = findingEnd
	}

	end, next, ok := t.findEnd(data)
	if !ok {
		return Error, View{}, NeedMoreData
	}
	t.cursor = next
	t.sub = foundEnd
	t.span = Span{Pos: t.pos, End: t.base + next}
	if t.spanned {
		return t.kind, t.acc.join(t.state == findingName, data[t.start:end]), nil
	}
	return t.kind, in.view(t.start, end), nil
}

// findEnd scans data from the cursor for the end of the current value. If it
// is found, findEnd reports the offset where the value text ends and the
// offset where scanning should resume. Otherwise it leaves the cursor at the
// limit of the available text and reports false.
func (t *Tokenizer) findEnd(data []byte) (end, next int, ok bool) {
	switch t.kind {
	case String:
		for i := t.cursor; i < len(data); i++ {
			if t.escaped {
				t.escaped = false
			} else if data[i] == '\\' {
				t.escaped = true
			} else if data[i] == '"' {
				return i, i + 1, true
			}
		}
	case Number:
		for i := t.cursor; i < len(data); i++ {
			if !isNumberByte(data[i]) {
				return i, i, true
			}
		}
	case Ascii:
		for i := t.cursor; i < len(data); i++ {
			if isWordByte(data[i]) {
				continue
			} else if data[i] == 0 {
				// A NUL marks the end of the data available in this buffer.
				t.cursor = i
				return 0, 0, false
			}
			return i, i, true
		}
	}
	t.cursor = len(data)
	return 0, 0, false
}

// findTokenEnd consumes the separator following a value inside a container.
func (t *Tokenizer) findTokenEnd(data []byte) error {
	for i := t.cursor; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t', '\r', 0:
			// skip
		case '\n':
			t.sawNewline = t.sawNewline || t.allowNewlines
		case ',':
			t.cursor = i + 1
			t.expectMore = true
			t.nextElement()
			return nil
		case ']', '}':
			t.cursor = i // the close is reported as its own token
			t.nextElement()
			return nil
		default:
			t.cursor = i
			if t.sawNewline {
				t.nextElement()
				return nil
			}
			return InvalidToken
		}
	}
	t.cursor = len(data)
	return NeedMoreData
}

func (t *Tokenizer) nextElement() {
	t.sawNewline = false
	if t.stack[len(t.stack)-1] == ObjectStart {
		t.state = findingName
	} else {
		t.state = findingData
	}
}

// complete applies a finished name or value to the token under construction.
// It reports true if the token is ready to be returned.
func (t *Tokenizer) complete(kind Kind, v View) (Token, bool, error) {
	if t.state == findingName {
		switch {
		case kind == ObjectEnd:
			return t.closeContainer(kind, v)
		case kind == ArrayEnd:
			return Token{}, false, ExpectedObjectEnd
		case kind == String:
			t.pending.NameKind = String
		case kind == Ascii && t.allowAscii:
			t.pending.NameKind = Classify(kind, v.ro)
		default:
			return Token{}, false, IlligalPropertyName
		}
		t.pending.Name = v
		t.named = true
		t.expectMore = false
		t.state = findingDelimiter
		t.resetForNewValue()
		return Token{}, false, nil
	}

	switch {
	case kind.IsClose():
		if t.named {
			return Token{}, false, ExpectedDataToken
		} else if len(t.stack) == 0 {
			if kind == ObjectEnd {
				return Token{}, false, ExpectedObjectStart
			}
			return Token{}, false, ExpectedArrayStart
		}
		return t.closeContainer(kind, v)

	case kind.IsOpen():
		t.stack = append(t.stack, kind)
		tok := t.emit(kind, v)
		if kind == ObjectStart {
			t.state = findingName
		} else {
			t.state = findingData
		}
		t.expectMore = false
		t.resetForNewValue()
		return tok, true, nil
	}

	vk := Classify(kind, v.ro)
	if vk == Ascii && !t.allowAscii {
		return Token{}, false, IlligalDataValue
	}
	tok := t.emit(vk, v)
	t.afterValue()
	return tok, true, nil
}

func (t *Tokenizer) closeContainer(kind Kind, v View) (Token, bool, error) {
	if t.expectMore && !t.allowTrailing {
		return Token{}, false, ExpectedDataToken
	}
	switch top := t.stack[len(t.stack)-1]; {
	case top == ObjectStart && kind != ObjectEnd:
		return Token{}, false, ExpectedObjectEnd
	case top == ArrayStart && kind != ArrayEnd:
		return Token{}, false, ExpectedArrayEnd
	}
	t.stack = t.stack[:len(t.stack)-1]
	tok := t.emit(kind, v)
	t.afterValue()
	return tok, true, nil
}

func (t *Tokenizer) afterValue() {
	t.expectMore = false
	t.sawNewline = false
	if len(t.stack) == 0 {
		t.state = findingData
	} else {
		t.state = findingTokenEnd
	}
	t.resetForNewValue()
}

func (t *Tokenizer) emit(kind Kind, v View) Token {
	tok := t.pending
	tok.ValueKind = kind
	tok.Value = v
	return tok
}

// endOfInput finishes tokenizing after the last buffer has been released and
// Finish has been called.
func (t *Tokenizer) endOfInput() (Token, error) {
	for {
		if t.sub == findingEnd {
			// Errors about the pending value are reported at its start.
			t.cursor = t.pos - t.base
			if t.kind == String {
				return Token{}, t.fail(nil, InvalidToken)
			}

			// A number or bare word is terminated by the end of input.
			v := t.acc.join(t.state == findingName, nil)
			t.sub = foundEnd
			t.span = Span{Pos: t.pos, End: t.base}
			tok, done, err := t.complete(t.kind, v)
			if err != nil {
				return Token{}, t.fail(nil, err.(ErrorKind))
			} else if done {
				return t.deliver(tok), nil
			}
			continue // a member name is complete, but its value is missing
		}

		var kind ErrorKind
		switch t.state {
		case findingName:
			if t.expectMore {
				kind = ExpectedPropertyName
			} else {
				kind = ExpectedObjectEnd
			}
		case findingDelimiter:
			kind = ExpectedDelimiter
		case findingData:
			if t.named || t.expectMore {
				kind = ExpectedDataToken
			} else if len(t.stack) != 0 {
				kind = ExpectedArrayEnd
			} else {
				return Token{}, io.EOF
			}
		case findingTokenEnd:
			if t.stack[len(t.stack)-1] == ObjectStart {
				kind = ExpectedObjectEnd
			} else {
				kind = ExpectedArrayEnd
			}
		}
		t.cursor = 0
		return Token{}, t.fail(nil, kind)
	}
}

func bracketKind(ch byte) Kind {
	switch ch {
	case '{':
		return ObjectStart
	case '}':
		return ObjectEnd
	case '[':
		return ArrayStart
	default:
		return ArrayEnd
	}
}
