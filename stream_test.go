// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jstream"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Value bool <true>
Value bool <false>
Value null <null>
.`},

		{`0 5 -6.32 0.1e-2`, `
Value number <0>
Value number <5>
Value number <-6.32>
Value number <0.1e-2>
.`},

		{`"" "a b c" "a\tb" "a b"`, `
Value string <>
Value string <a b c>
Value string <a\tb>
Value string <a b>
.`},

		{`{}`, "BeginObject\nEndObject\n."},

		{`{"a":15}`, `
BeginObject
Value string <a>: number <15>
EndObject
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject
Value string <x>: null <null>
BeginArray <y>
Value bool <true>
EndArray
EndObject
.`},

		{`[]`, "BeginArray\nEndArray\n."},
	}

	for _, test := range tests {
		// A small chunk size splits most values across reads.
		st := jstream.NewStreamSize(strings.NewReader(test.input), 3)
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject`, `at offset 1: ExpectedObjectEnd`},
		{`}`, ``, `at offset 0: ExpectedObjectStart`},
		{`{false:1}`, `BeginObject`, `at offset 1: IlligalPropertyName`},
		{`{"true":}`, `BeginObject`, `at offset 8: ExpectedDataToken`},
		{`{"true":1,`, `
BeginObject
Value string <true>: number <1>`,
			`at offset 10: ExpectedPropertyName`},

		// Unbalanced array bits.
		{`[`, `BeginArray`, `at offset 1: ExpectedArrayEnd`},
		{`]`, ``, `at offset 0: ExpectedArrayStart`},
		{`[15,`, `
BeginArray
Value number <15>`,
			`at offset 4: ExpectedDataToken`},
		{`[15,]`, `
BeginArray
Value number <15>`,
			`at offset 4: ExpectedDataToken`},

		// Invalid values.
		{`1 2.0 forthright`, `
Value number <1>
Value number <2.0>`,
			`at offset 6: IlligalDataValue`},
		{`"what did you`, ``, `at offset 0: InvalidToken`},
	}

	for _, test := range tests {
		st := jstream.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject
Value string <love>: bool <true>
EndObject
---
BeginArray
EndArray
---
Value string <ok>
---
.`
	th := new(testHandler)

	st := jstream.NewStream(strings.NewReader(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func TestStreamReadError(t *testing.T) {
	bad := errors.New("bad reader")
	r := io.MultiReader(strings.NewReader(`[1, `), iotest.ErrReader(bad))
	st := jstream.NewStream(r)

	var got []string
	for {
		tok, err := st.Next()
		if err != nil {
			if !errors.Is(err, bad) {
				t.Errorf("Next: got error %v, want %v", err, bad)
			}
			break
		}
		got = append(got, tok.String())
	}
	if diff := diffStrings("\"[\" <[>\nnumber <1>", strings.Join(got, "\n")); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
}

func TestStreamOneByteReader(t *testing.T) {
	st := jstream.NewStream(iotest.OneByteReader(strings.NewReader(chunkInput)))
	got, err := serialize(st, compactFormat())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want, err := serialize(newTokenizer(chunkInput), compactFormat())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Output: got %#q, want %#q", got, want)
	}
}

type testHandler struct {
	buf bytes.Buffer
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) begin(kind string, tok jstream.Token) {
	if tok.HasName() {
		t.pr("%s <%s>", kind, tok.Name.String())
	} else {
		t.pr("%s", kind)
	}
}

func (t *testHandler) BeginObject(tok jstream.Token) error { t.begin("BeginObject", tok); return nil }
func (t *testHandler) EndObject(jstream.Token) error       { t.pr("EndObject"); return nil }
func (t *testHandler) BeginArray(tok jstream.Token) error  { t.begin("BeginArray", tok); return nil }
func (t *testHandler) EndArray(jstream.Token) error        { t.pr("EndArray"); return nil }
func (t *testHandler) Value(tok jstream.Token) error       { t.pr("Value %v", tok); return nil }
func (t *testHandler) EndOfInput()                         { t.pr(".") }
