// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jstream_test

import (
	"testing"

	"github.com/creachadair/jstream"
	"go4.org/mem"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind jstream.Kind
		text string
		want jstream.Kind
	}{
		{jstream.Ascii, "null", jstream.Null},
		{jstream.Ascii, "true", jstream.Bool},
		{jstream.Ascii, "false", jstream.Bool},
		{jstream.Ascii, "truee", jstream.Ascii},
		{jstream.Ascii, "nul", jstream.Ascii},
		{jstream.Ascii, "False", jstream.Ascii},
		{jstream.Ascii, "", jstream.Ascii},
		{jstream.String, "true", jstream.String},
		{jstream.Number, "12", jstream.Number},
		{jstream.ObjectStart, "{", jstream.ObjectStart},
	}
	for _, test := range tests {
		if got := jstream.Classify(test.kind, mem.S(test.text)); got != test.want {
			t.Errorf("Classify(%v, %q): got %v, want %v", test.kind, test.text, got, test.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	for _, k := range []jstream.Kind{jstream.ObjectStart, jstream.ArrayStart} {
		if !k.IsOpen() || k.IsClose() || !k.IsStructural() {
			t.Errorf("Kind %v: wrong predicates", k)
		}
	}
	for _, k := range []jstream.Kind{jstream.ObjectEnd, jstream.ArrayEnd} {
		if k.IsOpen() || !k.IsClose() || !k.IsStructural() {
			t.Errorf("Kind %v: wrong predicates", k)
		}
	}
	for _, k := range []jstream.Kind{jstream.String, jstream.Ascii, jstream.Number, jstream.Bool, jstream.Null} {
		if k.IsStructural() {
			t.Errorf("Kind %v: reported as structural", k)
		}
	}
}

func TestStructural(t *testing.T) {
	if tok := jstream.Structural(jstream.ArrayEnd); tok.String() != `"]" <]>` || tok.HasName() {
		t.Errorf("Structural: got %v", tok)
	}
	tok := jstream.Member("", jstream.Number, jstream.ViewString("1"))
	if !tok.HasName() {
		t.Errorf("Member with empty name: HasName is false")
	}
}
