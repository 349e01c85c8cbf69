// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"  \t\n ", ""},
		{"true false null", `
bool <true>
bool <false>
null <null>`},
		{`0 5 -6.32 0.1e-2 +3`, `
number <0>
number <5>
number <-6.32>
number <0.1e-2>
number <+3>`},
		{`"" "a b c" "a\tb" "say \"hi\""`, `
string <>
string <a b c>
string <a\tb>
string <say \"hi\">`},
		{`{}`, `
"{" <{>
"}" <}>`},
		{`[]`, `
"[" <[>
"]" <]>`},
		{`{"a":1,"b":[true,null]}`, `
"{" <{>
string <a>: number <1>
string <b>: "[" <[>
bool <true>
null <null>
"]" <]>
"}" <}>`},
		{`{ "x" : { "y" : [ [ ] , { } ] } , "" : "z" }`, `
"{" <{>
string <x>: "{" <{>
string <y>: "[" <[>
"[" <[>
"]" <]>
"{" <{>
"}" <}>
"]" <]>
"}" <}>
string <>: string <z>
"}" <}>`},
		{`{"a":1} [2] "three"`, `
"{" <{>
string <a>: number <1>
"}" <}>
"[" <[>
number <2>
"]" <]>
string <three>`},
	}
	for _, test := range tests {
		got, err := tokenize(jstream.NewTokenizer(), test.input)
		if err != nil {
			t.Errorf("Input %#q: unexpected error: %v", test.input, err)
		}
		if diff := diffStrings(test.want, strings.Join(got, "\n")); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestTokenizerErrors(t *testing.T) {
	tests := []struct {
		input  string
		kind   jstream.ErrorKind
		offset int
	}{
		{`[1 2]`, jstream.InvalidToken, 3},
		{`{"a" 1}`, jstream.ExpectedDelimiter, 5},
		{`{"a",1}`, jstream.ExpectedDelimiter, 4},
		{`{"a"]`, jstream.ExpectedDelimiter, 4},
		{`{1:2}`, jstream.IlligalPropertyName, 1},
		{`{[]:2}`, jstream.IlligalPropertyName, 1},
		{`{abc:2}`, jstream.IlligalPropertyName, 1},
		{`{"a":}`, jstream.ExpectedDataToken, 5},
		{`[1,]`, jstream.ExpectedDataToken, 3},
		{`{"a":1,}`, jstream.ExpectedDataToken, 7},
		{`[}`, jstream.ExpectedArrayEnd, 1},
		{`{]`, jstream.ExpectedObjectEnd, 1},
		{`}`, jstream.ExpectedObjectStart, 0},
		{` ]`, jstream.ExpectedArrayStart, 1},
		{`[abc]`, jstream.IlligalDataValue, 1},
		{`[#]`, jstream.EncounteredIlligalChar, 1},
		{`["ok" "no"]`, jstream.InvalidToken, 6},

		// Errors detected at the end of input.
		{`[1`, jstream.ExpectedArrayEnd, 2},
		{`[`, jstream.ExpectedArrayEnd, 1},
		{`[1,`, jstream.ExpectedDataToken, 3},
		{`{`, jstream.ExpectedObjectEnd, 1},
		{`{"a"`, jstream.ExpectedDelimiter, 4},
		{`{"a":`, jstream.ExpectedDataToken, 5},
		{`{"a":1`, jstream.ExpectedObjectEnd, 6},
		{`{"a":1,`, jstream.ExpectedPropertyName, 7},
		{`"what did you`, jstream.InvalidToken, 0},
		{`1 2.0 forthright`, jstream.IlligalDataValue, 6},
	}
	for _, test := range tests {
		_, err := tokenize(jstream.NewTokenizer(), test.input)
		var serr *jstream.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input %#q: got error %v, want *SyntaxError", test.input, err)
			continue
		}
		if serr.Kind != test.kind || serr.Offset != test.offset {
			t.Errorf("Input %#q: got %v at %d, want %v at %d",
				test.input, serr.Kind, serr.Offset, test.kind, test.offset)
		}
		if !errors.Is(err, test.kind) {
			t.Errorf("Input %#q: errors.Is(%v, %v) is false", test.input, err, test.kind)
		}
	}
}

func TestStickyError(t *testing.T) {
	tz := jstream.NewTokenizer()
	tz.AddInput([]byte(`[1 2] [3]`))
	tz.Finish()

	for _, want := range []string{`"[" <[>`, "number <1>"} {
		tok, err := tz.Next()
		if err != nil || tok.String() != want {
			t.Fatalf("Next: got %v, %v; want %s", tok, err, want)
		}
	}
	_, err1 := tz.Next()
	_, err2 := tz.Next()
	if err1 == nil || err1 != err2 {
		t.Errorf("Next: got errors %v, %v; want the same error twice", err1, err2)
	}
	if err := tz.Err(); err != err1 {
		t.Errorf("Err: got %v, want %v", err, err1)
	}

	tz.Reset()
	got, err := tokenize(tz, `[3]`)
	if err != nil {
		t.Fatalf("After Reset: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{`"[" <[>`, "number <3>", `"]" <]>`}, got); diff != "" {
		t.Errorf("After Reset: (-want, +got)\n%s", diff)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*jstream.Tokenizer)
		input string
		want  string
	}{
		{"TrailingArray", func(tz *jstream.Tokenizer) { tz.AllowTrailingCommas(true) },
			`[1,]`, `
"[" <[>
number <1>
"]" <]>`},
		{"TrailingObject", func(tz *jstream.Tokenizer) { tz.AllowTrailingCommas(true) },
			`{"a":[true,],}`, `
"{" <{>
string <a>: "[" <[>
bool <true>
"]" <]>
"}" <}>`},
		{"AsciiValues", func(tz *jstream.Tokenizer) { tz.AllowAsciiType(true) },
			`[abc, truee, nul, _x9]`, `
"[" <[>
ascii <abc>
ascii <truee>
ascii <nul>
ascii <_x9>
"]" <]>`},
		{"AsciiNames", func(tz *jstream.Tokenizer) { tz.AllowAsciiType(true) },
			`{abc: 1, null: 2, "q": x}`, `
"{" <{>
ascii <abc>: number <1>
null <null>: number <2>
string <q>: ascii <x>
"}" <}>`},
		{"NewlineArray", func(tz *jstream.Tokenizer) { tz.AllowNewlineDelimiter(true) },
			"[1\n2\n\"x\",3]", `
"[" <[>
number <1>
number <2>
string <x>
number <3>
"]" <]>`},
		{"NewlineObject", func(tz *jstream.Tokenizer) { tz.AllowNewlineDelimiter(true) },
			"{\n  \"a\": 1\n  \"b\": {}\n}", `
"{" <{>
string <a>: number <1>
string <b>: "{" <{>
"}" <}>
"}" <}>`},
		{"Transform", func(tz *jstream.Tokenizer) {
			tz.SetTransform(func(tok jstream.Token) jstream.Token {
				if tok.ValueKind == jstream.Number {
					tok.ValueKind = jstream.String
				}
				return tok
			})
		}, `[1, true]`, `
"[" <[>
string <1>
bool <true>
"]" <]>`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tz := jstream.NewTokenizer()
			test.setup(tz)
			got, err := tokenize(tz, test.input)
			if err != nil {
				t.Fatalf("Input %#q: unexpected error: %v", test.input, err)
			}
			if diff := diffStrings(test.want, strings.Join(got, "\n")); diff != "" {
				t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
			}
		})
	}

	t.Run("NewlineDisallowed", func(t *testing.T) {
		_, err := tokenize(jstream.NewTokenizer(), "[1\n2]")
		if !errors.Is(err, jstream.InvalidToken) {
			t.Errorf("Got error %v, want %v", err, jstream.InvalidToken)
		}
	})
}

const chunkInput = `{"name": "a \"quoted\" value", "list": [1, -2.5e+3, true, false, null],
  "nested": {"deeper": [[], {}, "x"], "empty": ""}, "last": 12345}`

func TestChunkBoundaries(t *testing.T) {
	want, err := tokenize(jstream.NewTokenizer(), chunkInput)
	if err != nil {
		t.Fatalf("Unsplit input: unexpected error: %v", err)
	}

	// Every two-way split yields the same tokens.
	for i := 1; i < len(chunkInput); i++ {
		got, err := tokenize(jstream.NewTokenizer(), chunkInput[:i], chunkInput[i:])
		if err != nil {
			t.Errorf("Split at %d: unexpected error: %v", i, err)
		} else if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Split at %d: (-want, +got)\n%s", i, diff)
		}
	}

	// So does a partition into single bytes.
	got, err := tokenize(jstream.NewTokenizer(), splitSizes(chunkInput, nil)...)
	if err != nil {
		t.Errorf("Single bytes: unexpected error: %v", err)
	} else if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Single bytes: (-want, +got)\n%s", diff)
	}
}

func TestChunkPartitions(t *testing.T) {
	want, err := tokenize(jstream.NewTokenizer(), chunkInput)
	if err != nil {
		t.Fatalf("Unsplit input: unexpected error: %v", err)
	}
	check := func(seed []uint8) bool {
		sizes := make([]int, len(seed))
		for i, s := range seed {
			sizes[i] = int(s%11) + 1
		}
		got, err := tokenize(jstream.NewTokenizer(), splitSizes(chunkInput, sizes)...)
		return err == nil && cmp.Equal(want, got)
	}
	if err := quick.Check(check, nil); err != nil {
		t.Error(err)
	}
}

func TestNulPadding(t *testing.T) {
	got, err := tokenize(jstream.NewTokenizer(), "[tr\x00\x00", "ue, \x00\x001]\x00")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{`"[" <[>`, "bool <true>", "number <1>", `"]" <]>`}, got); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
}

func TestRelease(t *testing.T) {
	tz := jstream.NewTokenizer()
	var released []string
	tz.OnRelease(func(b []byte) { released = append(released, string(b)) })

	chunks := []string{`{"ab`, `c": [1`, `0, 2`, `0]}`}
	for _, c := range chunks {
		tz.AddInput([]byte(c))
	}
	if n := tz.Buffered(); n != len(chunks) {
		t.Errorf("Buffered: got %d, want %d", n, len(chunks))
	}
	tz.Finish()

	var got []string
	for {
		tok, err := tz.Next()
		if err != nil {
			break
		}
		got = append(got, tok.String())
	}
	if diff := cmp.Diff([]string{
		`"{" <{>`, `string <abc>: "[" <[>`, "number <10>", "number <20>", `"]" <]>`, `"}" <}>`,
	}, got); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff(chunks, released); diff != "" {
		t.Errorf("Released: (-want, +got)\n%s", diff)
	}
	if n := tz.Buffered(); n != 0 {
		t.Errorf("Buffered: got %d, want 0", n)
	}
}

func TestNeedMoreDataCallback(t *testing.T) {
	tz := jstream.NewTokenizer()
	inputs := []string{`[1,`, ` 2`, `]`}
	var calls int
	tz.OnNeedMoreData(func(tz *jstream.Tokenizer) {
		calls++
		if len(inputs) == 0 {
			tz.Finish()
			return
		}
		tz.AddInput([]byte(inputs[0]))
		inputs = inputs[1:]
	}, false)

	var once int
	tz.OnNeedMoreData(func(*jstream.Tokenizer) { once++ }, true)

	got, err := tokenize(tz)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{`"[" <[>`, "number <1>", "number <2>", `"]" <]>`}, got); diff != "" {
		t.Errorf("Tokens: (-want, +got)\n%s", diff)
	}
	if calls != 4 {
		t.Errorf("Persistent callback: got %d calls, want 4", calls)
	}
	if once != 1 {
		t.Errorf("One-shot callback: got %d calls, want 1", once)
	}
}

func TestPullProtocol(t *testing.T) {
	tz := jstream.NewTokenizer()
	if _, err := tz.Next(); err != jstream.NeedMoreData {
		t.Fatalf("Next on empty input: got %v, want NeedMoreData", err)
	}
	tz.AddInput([]byte(`{"key": "val`))
	tok, err := tz.Next()
	if err != nil || tok.ValueKind != jstream.ObjectStart {
		t.Fatalf("Next: got %v, %v; want object start", tok, err)
	}
	if _, err := tz.Next(); err != jstream.NeedMoreData {
		t.Fatalf("Next on partial value: got %v, want NeedMoreData", err)
	}
	tz.AddInput([]byte(`ue"}`))
	tok, err = tz.Next()
	if err != nil {
		t.Fatalf("Next: unexpected error: %v", err)
	}
	if !tok.Name.Equal("key") || !tok.Value.Equal("value") {
		t.Errorf("Next: got %v, want key: value", tok)
	}
	if got, want := tz.Span(), (jstream.Span{Pos: 8, End: 15}); got != want {
		t.Errorf("Span: got %v, want %v", got, want)
	}
}
