// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package bind

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jstream"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/fatih/structs"
	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
)

// Options control the behavior of a Decoder. The zero value tolerates
// unknown members and rejects unassigned required fields.
type Options struct {
	// Report an error for object members that do not correspond to any field
	// of the target struct.
	DisallowUnknown bool

	// Do not report an error for required fields that have no corresponding
	// member in the input.
	AllowUnassigned bool
}

// A Decoder decodes values from token sequences. After each call to Decode,
// the Unknown and Unassigned methods report the members and fields that did
// not match.
type Decoder struct {
	opts       Options
	unknown    mapset.Set[string]
	unassigned mapset.Set[string]
	hookErr    error
}

// NewDecoder constructs a Decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{
		opts:       opts,
		unknown:    mapset.NewThreadUnsafeSet[string](),
		unassigned: mapset.NewThreadUnsafeSet[string](),
	}
}

// Decode reads one value from src and stores it into v, which must be a
// non-nil pointer, using a Decoder with default options.
func Decode(src jstream.TokenSource, v any) error { return NewDecoder(Options{}).Decode(src, v) }

// Unknown returns the dotted paths of the input members from the last call
// to Decode that had no corresponding field, in sorted order.
func (d *Decoder) Unknown() []string { return sortedSet(d.unknown) }

// Unassigned returns the dotted paths of the required fields from the last
// call to Decode that had no corresponding member, in sorted order.
func (d *Decoder) Unassigned() []string { return sortedSet(d.unassigned) }

// Decode reads one complete value from src and stores it into v, which must
// be a non-nil pointer. If src has no further values, Decode returns io.EOF.
//
// An object is expected if v points to a struct or map, and an array if v
// points to a slice or array. Other errors from Decode have type *Error.
func (d *Decoder) Decode(src jstream.TokenSource, v any) error {
	d.unknown.Clear()
	d.unassigned.Clear()
	d.hookErr = nil

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Kind: jstream.UnknownError, Err: fmt.Errorf("invalid decode target %T", v)}
	}

	var h treeHandler
	if err := jstream.ParseValue(src, &h); err == io.EOF {
		return err
	} else if err != nil {
		return asError(jstream.UnknownError, "", err)
	}
	target := rv.Elem().Type()
	if err := checkShape(target, h.out); err != nil {
		return err
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     v,
		TagName:    "json",
		Metadata:   &md,
		DecodeHook: d.decodeHook,
	})
	if err != nil {
		return &Error{Kind: jstream.UnknownError, Err: err}
	}
	if err := dec.Decode(h.out); err != nil {
		if d.hookErr != nil {
			return d.hookErr
		}
		return &Error{Kind: jstream.IlligalPropertyType, Err: err}
	}

	d.unknown.Append(md.Unused...)
	d.unassigned = requiredFields(target).Intersect(mapset.NewThreadUnsafeSet(md.Unset...))
	if d.opts.DisallowUnknown && d.unknown.Cardinality() != 0 {
		return &Error{Kind: jstream.MissingPropertyMember, Path: d.Unknown()[0]}
	}
	if !d.opts.AllowUnassigned && d.unassigned.Cardinality() != 0 {
		return &Error{Kind: jstream.UnassignedRequiredMember, Path: d.Unassigned()[0]}
	}
	return nil
}

// decodeHook converts the generic values built from the token stream into
// the types of the target fields. The first error it reports is recorded so
// that Decode can return it intact.
func (d *Decoder) decodeHook(_, to reflect.Type, data any) (any, error) {
	out, err := convert(to, data)
	if err != nil && d.hookErr == nil {
		d.hookErr = err
	}
	return out, err
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

func convert(to reflect.Type, data any) (any, error) {
	if reflect.PointerTo(to).Implements(unmarshalerType) {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, &Error{Kind: jstream.IlligalDataValue, Err: err}
		}
		p := reflect.New(to)
		if err := json.Unmarshal(raw, p.Interface()); err != nil {
			return nil, &Error{Kind: jstream.IlligalPropertyType, Err: err}
		}
		return p.Elem().Interface(), nil
	}

	n, isNum := data.(json.Number)
	switch to.Kind() {
	case reflect.Bool:
		if _, ok := data.(bool); !ok {
			return nil, &Error{Kind: jstream.FailedToParseBool, Err: fmt.Errorf("cannot decode %T as bool", data)}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isNum {
			v, err := strconv.ParseInt(string(n), 10, to.Bits())
			if err != nil {
				return nil, &Error{Kind: jstream.FailedToParseInt, Err: err}
			}
			return v, nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if isNum {
			v, err := strconv.ParseUint(string(n), 10, to.Bits())
			if err != nil {
				return nil, &Error{Kind: jstream.FailedToParseInt, Err: err}
			}
			return v, nil
		}
	case reflect.Float32, reflect.Float64:
		if isNum {
			v, err := strconv.ParseFloat(string(n), to.Bits())
			if err != nil {
				return nil, &Error{Kind: jstream.FailedToParseFloat, Err: err}
			}
			return v, nil
		}
	}
	return data, nil
}

// checkShape reports whether the top-level value v can be stored into a
// value of type t.
func checkShape(t reflect.Type, v any) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}
	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		if _, ok := v.(map[string]any); !ok {
			return &Error{Kind: jstream.ExpectedObjectStart, Err: fmt.Errorf("cannot decode %T into %v", v, t)}
		}
	case reflect.Slice, reflect.Array:
		if _, ok := v.([]any); !ok {
			return &Error{Kind: jstream.ExpectedArrayStart, Err: fmt.Errorf("cannot decode %T into %v", v, t)}
		}
	}
	return nil
}

// requiredFields returns the dotted paths of the fields of t, and of nested
// struct fields, whose tags carry the "required" option.
func requiredFields(t reflect.Type) mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	if t.Kind() == reflect.Struct {
		walkRequired(structs.New(reflect.New(t).Interface()).Fields(), "", out)
	}
	return out
}

func walkRequired(fields []*structs.Field, prefix string, out mapset.Set[string]) {
	for _, f := range fields {
		if !f.IsExported() {
			continue
		}
		name, opts := parseTag(f.Tag("json"))
		if name == "-" {
			continue
		} else if name == "" {
			name = f.Name()
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if opts.has("required") {
			out.Add(name)
		}
		if f.Kind() == reflect.Struct && !reflect.PointerTo(reflect.TypeOf(f.Value())).Implements(unmarshalerType) {
			walkRequired(f.Fields(), name, out)
		}
	}
}

// tagOptions is the comma-separated list of options following the name in a
// struct tag.
type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) has(opt string) bool {
	return slices.Contains(strings.Split(string(o), ","), opt)
}

func sortedSet(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
