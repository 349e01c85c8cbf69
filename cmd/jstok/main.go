// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jstok reads JSON text and either reformats it or prints the tokens
// it contains. Input is read from the named files, or from stdin if none are
// given, in fixed-size chunks. With --select, only the values matching a path
// such as $.items[*].id are output.
//
// Usage:
//
//	jstok [flags] [file ...]
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/creachadair/jstream"
	"github.com/creachadair/jstream/debug"
	"github.com/creachadair/jstream/jpath"
	"github.com/gookit/color"
	"github.com/spf13/pflag"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("jstok: ")
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type settings struct {
	compact       bool
	indent        int
	asciiAsString bool
	allowAscii    bool
	newlines      bool
	trailing      bool
	chunk         int
	outBuffer     int
	tokens        bool
	selectPath    string
	debug         bool
	noColor       bool
}

func (s *settings) bind(fs *pflag.FlagSet) {
	fs.BoolVarP(&s.compact, "compact", "c", false, "Write compact output without whitespace")
	fs.IntVarP(&s.indent, "indent", "i", 4, "Spaces per nesting level in pretty output")
	fs.BoolVar(&s.asciiAsString, "ascii-as-string", true, "Quote bare words in the output")
	fs.BoolVarP(&s.allowAscii, "allow-ascii", "a", false, "Accept bare words as values and member names")
	fs.BoolVar(&s.newlines, "newline-separators", false, "Accept newlines in place of commas")
	fs.BoolVar(&s.trailing, "trailing-commas", false, "Accept trailing commas in objects and arrays")
	fs.IntVar(&s.chunk, "chunk", jstream.DefaultChunkSize, "Input chunk size in bytes")
	fs.IntVar(&s.outBuffer, "out-buffer", 4096, "Output buffer size in bytes")
	fs.BoolVarP(&s.tokens, "tokens", "t", false, "Print tokens instead of reformatting")
	fs.StringVarP(&s.selectPath, "select", "s", "", "Output only the values selected by this path (e.g., $.items[*].id)")
	fs.BoolVar(&s.debug, "debug", false, "Trace buffer traffic to stderr")
	fs.BoolVar(&s.noColor, "no-color", false, "Disable coloured diagnostics")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("jstok", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: jstok [flags] [file ...]")
		fs.PrintDefaults()
	}
	var cfg settings
	cfg.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.chunk <= 0 || cfg.outBuffer <= 0 {
		return errors.New("--chunk and --out-buffer must be positive")
	}
	var sel jpath.Expr
	if cfg.selectPath != "" {
		e, err := jpath.Parse(cfg.selectPath)
		if err != nil {
			return fmt.Errorf("invalid --select path: %w", err)
		}
		sel = e
	}
	if cfg.noColor {
		color.Enable = false
	}

	if fs.NArg() == 0 {
		return cfg.process("<stdin>", stdin, sel, stdout, stderr)
	}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = cfg.process(path, f, sel, stdout, stderr)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *settings) process(name string, r io.Reader, sel jpath.Expr, stdout, stderr io.Writer) error {
	st := jstream.NewStreamSize(r, s.chunk)
	tz := st.Tokenizer()
	tz.AllowAsciiType(s.allowAscii)
	tz.AllowNewlineDelimiter(s.newlines)
	tz.AllowTrailingCommas(s.trailing)
	if s.debug {
		tz.SetDebugger(debug.NewPrint(stderr).WithContext(name))
	}

	var src jstream.TokenSource = st
	if s.selectPath != "" {
		src = jpath.Select(st, sel)
	}

	var err error
	if s.tokens {
		err = s.printTokens(src, stdout)
	} else {
		err = s.reformat(src, stdout, stderr)
	}
	var serr *jstream.SyntaxError
	if errors.As(err, &serr) {
		fmt.Fprint(stderr, color.Red.Sprint(serr.Diagnostic()))
		return fmt.Errorf("%s: %w", name, err)
	}
	return err
}

func (s *settings) printTokens(src jstream.TokenSource, w io.Writer) error {
	for {
		tok, err := src.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return err
		}
	}
}

func (s *settings) reformat(src jstream.TokenSource, w, stderr io.Writer) error {
	pool := [][]byte{make([]byte, s.outBuffer)}
	ser := jstream.NewSerializer(pool[0])
	style := jstream.Pretty
	if s.compact {
		style = jstream.Compact
	}
	ser.SetFormatting(jstream.Formatting{Style: style, AsciiAsString: s.asciiAsString, Indent: s.indent})
	if s.debug {
		ser.SetDebugger(debug.NewPrint(stderr))
	}

	var werr error
	flush := func(ser *jstream.Serializer) int {
		var used int
		for _, b := range ser.Buffers() {
			used += b.Used
			if _, err := w.Write(b.Bytes()); err != nil && werr == nil {
				werr = err
			}
		}
		ser.ClearBuffers()
		return used
	}
	ser.OnNeedBuffers(func(ser *jstream.Serializer) {
		if werr != nil {
			return
		}
		if flush(ser) == 0 {
			// The pool cannot hold the pending token even when empty.
			pool = append(pool, make([]byte, s.outBuffer))
		}
		for _, b := range pool {
			ser.AppendBuffer(b)
		}
	})

	n, err := jstream.Copy(ser, src)
	if werr != nil {
		return werr
	} else if err != nil {
		return err
	}
	flush(ser)
	if n != 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return werr
}
