// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/creachadair/jstream"
	"github.com/fatih/structs"
	"github.com/goccy/go-json"
)

var (
	trueText  = jstream.ViewString("true")
	falseText = jstream.ViewString("false")
	nullText  = jstream.ViewString("null")

	marshalerType = reflect.TypeFor[json.Marshaler]()
	numberType    = reflect.TypeFor[json.Number]()
)

// Encode emits v to dst as a sequence of tokens.
//
// Structs are emitted as objects with their exported fields in declaration
// order, named and filtered by their "json" tags. Maps with string keys are
// emitted as objects in key order. Slices and arrays are emitted as arrays.
// Values that implement json.Marshaler are marshaled, and the result is
// tokenized and emitted in place.
func Encode(v any, dst jstream.TokenSink) error {
	e := encoder{dst: dst}
	return e.emit("", false, reflect.ValueOf(v))
}

type encoder struct {
	dst jstream.TokenSink
}

// emit writes the tokens for v. If named is true, the first token carries
// name as its member name.
func (e encoder) emit(name string, named bool, v reflect.Value) error {
	tok := func(kind jstream.Kind, text jstream.View) jstream.Token {
		if named {
			return jstream.Token{NameKind: jstream.String, Name: jstream.EscapedString(name), ValueKind: kind, Value: text}
		}
		return jstream.Anonymous(kind, text)
	}
	write := func(kind jstream.Kind, text jstream.View) error {
		if err := e.dst.Write(tok(kind, text)); err != nil {
			return &Error{Kind: jstream.UnknownError, Path: name, Err: err}
		}
		return nil
	}

	if !v.IsValid() {
		return write(jstream.Null, nullText)
	}
	if v.Type().Implements(marshalerType) {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return write(jstream.Null, nullText)
		}
		return e.emitMarshaler(tok(jstream.Error, jstream.View{}), v.Interface().(json.Marshaler))
	}
	if v.Type() == numberType {
		return write(jstream.Number, jstream.ViewString(v.String()))
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return write(jstream.Null, nullText)
		}
		return e.emit(name, named, v.Elem())

	case reflect.Bool:
		if v.Bool() {
			return write(jstream.Bool, trueText)
		}
		return write(jstream.Bool, falseText)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return write(jstream.Number, jstream.ViewOf(strconv.AppendInt(nil, v.Int(), 10)))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return write(jstream.Number, jstream.ViewOf(strconv.AppendUint(nil, v.Uint(), 10)))

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &Error{Kind: jstream.IlligalDataValue, Path: name, Err: fmt.Errorf("unsupported value %v", f)}
		}
		return write(jstream.Number, jstream.ViewOf(strconv.AppendFloat(nil, f, 'g', -1, v.Type().Bits())))

	case reflect.String:
		return write(jstream.String, jstream.EscapedString(v.String()))

	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return write(jstream.Null, nullText)
		}
		if err := write(jstream.ArrayStart, jstream.Structural(jstream.ArrayStart).Value); err != nil {
			return err
		}
		for i := range v.Len() {
			if err := e.emit(name, false, v.Index(i)); err != nil {
				return err
			}
		}
		return e.close(jstream.ArrayEnd)

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return &Error{Kind: jstream.IlligalPropertyType, Path: name, Err: fmt.Errorf("unsupported map key type %v", v.Type().Key())}
		}
		if v.IsNil() {
			return write(jstream.Null, nullText)
		}
		if err := write(jstream.ObjectStart, jstream.Structural(jstream.ObjectStart).Value); err != nil {
			return err
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			switch x, y := a.String(), b.String(); {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		})
		for _, key := range keys {
			if err := e.emit(key.String(), true, v.MapIndex(key)); err != nil {
				return err
			}
		}
		return e.close(jstream.ObjectEnd)

	case reflect.Struct:
		if err := write(jstream.ObjectStart, jstream.Structural(jstream.ObjectStart).Value); err != nil {
			return err
		}
		if err := e.emitFields(structs.New(v.Interface()).Fields()); err != nil {
			return err
		}
		return e.close(jstream.ObjectEnd)
	}
	return &Error{Kind: jstream.IlligalPropertyType, Path: name, Err: fmt.Errorf("unsupported type %v", v.Type())}
}

// emitFields emits the exported fields of a struct as object members.
// Untagged embedded structs are flattened into the enclosing object.
func (e encoder) emitFields(fields []*structs.Field) error {
	for _, f := range fields {
		if !f.IsExported() {
			continue
		}
		name, opts := parseTag(f.Tag("json"))
		if name == "-" {
			continue
		}
		if f.IsEmbedded() && name == "" && f.Kind() == reflect.Struct {
			if err := e.emitFields(f.Fields()); err != nil {
				return err
			}
			continue
		}
		if opts.has("omitempty") && f.IsZero() {
			continue
		}
		if name == "" {
			name = f.Name()
		}
		if err := e.emit(name, true, reflect.ValueOf(f.Value())); err != nil {
			return err
		}
	}
	return nil
}

func (e encoder) close(kind jstream.Kind) error {
	if err := e.dst.Write(jstream.Structural(kind)); err != nil {
		return &Error{Kind: jstream.UnknownError, Err: err}
	}
	return nil
}

// emitMarshaler marshals m and emits the tokens of the result. The first
// token takes the name carried by first.
func (e encoder) emitMarshaler(first jstream.Token, m json.Marshaler) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return &Error{Kind: jstream.IlligalDataValue, Err: err}
	}
	t := jstream.NewTokenizer()
	t.AddInput(raw)
	t.Finish()
	for i := 0; ; i++ {
		tok, err := t.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return asError(jstream.IlligalDataValue, "", err)
		}
		if i == 0 && first.HasName() {
			tok.NameKind, tok.Name = first.NameKind, first.Name
		}
		if err := e.dst.Write(tok); err != nil {
			return &Error{Kind: jstream.UnknownError, Err: err}
		}
	}
}
