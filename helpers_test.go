// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"io"
	"strings"

	"github.com/creachadair/jstream"
	"github.com/google/go-cmp/cmp"
)

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

// tokenize feeds chunks to tz one at a time as it asks for more input, and
// returns the string forms of the tokens it reports up to the end of input
// or the first error.
func tokenize(tz *jstream.Tokenizer, chunks ...string) ([]string, error) {
	var got []string
	for {
		tok, err := tz.Next()
		if err == jstream.NeedMoreData {
			if len(chunks) == 0 {
				tz.Finish()
			} else {
				tz.AddInput([]byte(chunks[0]))
				chunks = chunks[1:]
			}
			continue
		} else if err == io.EOF {
			return got, nil
		} else if err != nil {
			return got, err
		}
		got = append(got, tok.String())
	}
}

// splitSizes partitions s into consecutive chunks with the given sizes,
// cycling through sizes as needed. Zero sizes are treated as 1.
func splitSizes(s string, sizes []int) []string {
	var out []string
	for i := 0; len(s) != 0; i++ {
		n := 1
		if len(sizes) != 0 {
			n = max(sizes[i%len(sizes)], 1)
		}
		n = min(n, len(s))
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

// serialize writes the tokens of src to a Serializer with formatting f, and
// returns the resulting text. Output buffers are deliberately small so that
// tokens are frequently split across them.
func serialize(src jstream.TokenSource, f jstream.Formatting) (string, error) {
	ser := jstream.NewSerializer(make([]byte, 16))
	ser.SetFormatting(f)
	ser.OnNeedBuffers(func(s *jstream.Serializer) { s.AppendBuffer(make([]byte, 16)) })
	if _, err := jstream.Copy(ser, src); err != nil {
		return "", err
	}
	var out []byte
	for _, b := range ser.Buffers() {
		out = append(out, b.Bytes()...)
	}
	return string(out), nil
}

func compactFormat() jstream.Formatting {
	return jstream.Formatting{Style: jstream.Compact, AsciiAsString: true}
}
