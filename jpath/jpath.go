// Package jpath implements a subset of JSONPath that can be evaluated over a
// stream of tokens, without building the document in memory.
//
// Supported steps are member names (.name, .'name', ['name']), wildcards (.*
// and [*]), non-negative array indexes ([2] and [0,3]), forward slices
// ([1:4] and [2:]), and recursive descent (..name and ..*). Steps that need
// to look ahead of the current token, such as filters, scripts and negative
// indexes, are not supported.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = ".." "[" value "]"
  name = WORD
  name = "'" QTEXT "'"
  name = "*"
 value = name
 value = INDEX {"," INDEX}
 value = [INDEX] ":" [INDEX]

  WORD = RE `\w+`
 QTEXT = RE `[^']*`
 INDEX = RE `\d+`

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed path expression. The empty Expr selects each top-level
// value.
type Expr []Step

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var e Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at %q: %w", t, err)
		}
		e = append(e, step)
		t = rest
	}
	return e, nil
}

// MustParse is as Parse, but panics if s is not a valid expression.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Match reports whether e selects the value at the location described by
// loc, given from the outermost element inward.
func (e Expr) Match(loc []Elem) bool {
	if len(e) == 0 {
		return len(loc) == 0
	} else if len(loc) == 0 {
		return false
	}
	if e[0].matches(loc[0]) && e[1:].Match(loc[1:]) {
		return true
	}
	return e[0].Descend && e.Match(loc[1:])
}

// An Elem is one element of the location of a value: a member name for a
// value in an object, or an index for a value in an array.
type Elem struct {
	Name  string
	Index int // -1 for object members
}

// Member returns the location element for an object member.
func Member(name string) Elem { return Elem{Name: name, Index: -1} }

// Index returns the location element for an array element.
func Index(i int) Elem { return Elem{Index: i} }

func (e Elem) String() string {
	if e.Index < 0 {
		return "." + e.Name
	}
	return "[" + strconv.Itoa(e.Index) + "]"
}

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Name               // member name
	Wildcard           // any member or element (*)
	Indexes            // listed array indexes
	Slice              // range of array indexes
)

var opText = [...]string{
	Invalid:  "invalid",
	Name:     "name",
	Wildcard: "*",
	Indexes:  "index",
	Slice:    "slice",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op      Op
	Descend bool   // the step may match at any depth below its parent (..)
	Bracket bool   // the step was written in brackets
	Quoted  bool   // the name was quoted
	Name    string // for Name
	Index   []int  // for Indexes
	Lo, Hi  int    // for Slice; Hi < 0 means no upper bound
}

func (s Step) String() string {
	var buf strings.Builder
	if s.Descend {
		buf.WriteString("..")
	} else if !s.Bracket {
		buf.WriteString(".")
	}
	if s.Bracket {
		buf.WriteString("[")
	}
	switch s.Op {
	case Name:
		if s.Quoted {
			fmt.Fprintf(&buf, "'%s'", s.Name)
		} else {
			buf.WriteString(s.Name)
		}
	case Wildcard:
		buf.WriteString("*")
	case Indexes:
		for i, v := range s.Index {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(strconv.Itoa(v))
		}
	case Slice:
		if s.Lo != 0 {
			buf.WriteString(strconv.Itoa(s.Lo))
		}
		buf.WriteString(":")
		if s.Hi >= 0 {
			buf.WriteString(strconv.Itoa(s.Hi))
		}
	}
	if s.Bracket {
		buf.WriteString("]")
	}
	return buf.String()
}

func (s Step) matches(e Elem) bool {
	switch s.Op {
	case Name:
		return e.Index < 0 && e.Name == s.Name
	case Wildcard:
		return true
	case Indexes:
		return e.Index >= 0 && slices.Contains(s.Index, e.Index)
	case Slice:
		return e.Index >= s.Lo && (s.Hi < 0 || e.Index < s.Hi)
	}
	return false
}

func parseStep(s string) (Step, string, error) {
	var step Step
	if t, ok := strings.CutPrefix(s, ".."); ok {
		step.Descend = true
		s = t
	} else if t, ok := strings.CutPrefix(s, "."); ok {
		s = t
	} else if !strings.HasPrefix(s, "[") {
		return Step{}, s, errors.New("invalid path step")
	}

	if t, ok := strings.CutPrefix(s, "["); ok {
		step.Bracket = true
		rest, err := parseValue(&step, t)
		if err != nil {
			return Step{}, s, err
		}
		u, ok := strings.CutPrefix(rest, "]")
		if !ok {
			return Step{}, rest, errors.New("missing close bracket")
		}
		return step, u, nil
	}
	rest, err := parseName(&step, s)
	if err != nil {
		return Step{}, s, err
	}
	return step, rest, nil
}

func parseName(step *Step, s string) (string, error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		step.Op = Wildcard
		return t, nil
	}
	if m := wordRE.FindStringSubmatch(s); m != nil {
		step.Op, step.Name = Name, m[1]
		return s[len(m[0]):], nil
	}
	if m := quoteRE.FindStringSubmatch(s); m != nil {
		step.Op, step.Name, step.Quoted = Name, m[1], true
		return s[len(m[0]):], nil
	}
	return s, errors.New("invalid name")
}

func parseValue(step *Step, s string) (string, error) {
	if strings.HasPrefix(s, "?(") || strings.HasPrefix(s, "(") {
		return s, errors.New("filter and script expressions are not supported")
	}
	if strings.HasPrefix(s, "-") {
		return s, errors.New("negative indexes are not supported")
	}
	if m := indexRE.FindStringSubmatch(s); m != nil {
		rest := s[len(m[0]):]
		var index []int
		for _, v := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(v)
			if err != nil {
				return s, fmt.Errorf("invalid index: %w", err)
			}
			index = append(index, n)
		}
		if u, ok := strings.CutPrefix(rest, ":"); ok && len(index) == 1 {
			return parseSliceEnd(step, index[0], u)
		}
		step.Op, step.Index = Indexes, index
		return rest, nil
	}
	if u, ok := strings.CutPrefix(s, ":"); ok {
		return parseSliceEnd(step, 0, u)
	}
	if rest, err := parseName(step, s); err == nil {
		return rest, nil
	}
	return s, fmt.Errorf("invalid value: %q", s)
}

func parseSliceEnd(step *Step, lo int, s string) (string, error) {
	step.Op, step.Lo, step.Hi = Slice, lo, -1
	if strings.HasPrefix(s, "-") {
		return s, errors.New("negative indexes are not supported")
	}
	if m := endRE.FindStringSubmatch(s); m != nil {
		hi, err := strconv.Atoi(m[1])
		if err != nil {
			return s, fmt.Errorf("invalid index: %w", err)
		}
		step.Hi = hi
		return s[len(m[0]):], nil
	}
	return s, nil
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	indexRE = regexp.MustCompile(`^(\d+(?:,\d+)*)`)
	endRE   = regexp.MustCompile(`^(\d+)`)
	quoteRE = regexp.MustCompile(`^'([^']*)'`)
)
