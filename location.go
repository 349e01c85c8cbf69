package jstream

import "fmt"

// A Span describes a contiguous span of the input, measured in bytes from the
// beginning of the first buffer given to a tokenizer.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

func (s Span) String() string { return fmt.Sprintf("%d-%d", s.Pos, s.End) }
