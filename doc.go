// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package jstream implements an incremental JSON tokenizer and serializer
// that work on caller-owned byte buffers.
//
// # Tokenizing
//
// The Tokenizer type converts JSON text into a sequence of tokens. The input
// is supplied as an ordered sequence of byte buffers, which need not align
// with token boundaries. Add buffers with AddInput and pull tokens with Next.
// When the queued input runs out in the middle of a token, Next returns
// NeedMoreData; supply more input and call Next again:
//
//	t := jstream.NewTokenizer()
//	t.AddInput(chunk)
//	for {
//	   tok, err := t.Next()
//	   if err == jstream.NeedMoreData {
//	      t.AddInput(nextChunk()) // or t.Finish() at the end of input
//	      continue
//	   } else if err == io.EOF {
//	      break
//	   } else if err != nil {
//	      log.Fatalf("Next: %v", err)
//	   }
//	   log.Printf("Token: %v", tok)
//	}
//
// Alternatively, register a callback with OnNeedMoreData to supply input on
// demand, and a callback with OnRelease to learn when the tokenizer is done
// with each buffer. The Stream type does this for an io.Reader.
//
// Each token reports the kind and text of its value and, for object members,
// the kind and text of its name. The text is a View of the input, not a copy.
// String text excludes the quotation marks but is not unescaped (see
// Unescape). A View must not be used after the buffer it refers to has been
// released; doing so panics.
//
// Hard errors have concrete type *SyntaxError, which reports the absolute
// offset of the error and a window of the surrounding input:
//
//	var serr *jstream.SyntaxError
//	if errors.As(err, &serr) {
//	   fmt.Fprint(os.Stderr, serr.Diagnostic())
//	}
//
// # Serializing
//
// The Serializer type renders tokens as JSON text into caller-owned output
// buffers, either compactly or pretty-printed. When the buffers are full, the
// serializer calls the functions registered with OnNeedBuffers to obtain more
// room. A token is never partially written.
//
// # Handlers
//
// The Handler interface accepts events for the structure of a token sequence.
// ParseValue delivers the tokens of one value from any TokenSource to a
// handler:
//
//	Token kind              | Method
//	----------------------- | -----------------------
//	ObjectStart, ObjectEnd  | BeginObject, EndObject
//	ArrayStart, ArrayEnd    | BeginArray, EndArray
//	other kinds             | Value
//	--                      | EndOfInput
package jstream
