// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc_test

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jdoc"
	"github.com/creachadair/jdoc/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

// sources returns a text source and chunked sources of several buffer sizes
// over the same input.
func sources(input string) map[string]jdoc.Source {
	return map[string]jdoc.Source{
		"text":     jdoc.NewTextSource(input),
		"chunk16":  jdoc.NewChunkSource(strings.NewReader(input), 16),
		"chunk1":   jdoc.NewChunkSource(strings.NewReader(input), 1),
		"trickle":  jdoc.NewChunkSource(&testutil.ChunkReader{S: input, N: 3}, 16),
		"oneByte":  jdoc.NewChunkSource(iotest.OneByteReader(strings.NewReader(input)), 20),
		"default":  jdoc.NewChunkSource(strings.NewReader(input), 0),
		"halfRead": jdoc.NewChunkSource(iotest.HalfReader(strings.NewReader(input)), 32),
	}
}

func TestSourceRead(t *testing.T) {
	const input = "  abc\n\tdefghijklmnopqrstuvwxyz 0123456789\n"
	for name, src := range sources(input) {
		t.Run(name, func(t *testing.T) {
			var got strings.Builder
			for !src.AtEnd() {
				if src.Peek() != src.Next() {
					t.Fatalf("Peek and Next disagree at offset %d", src.Offset())
				}
				src.BackUp()
				got.WriteByte(byte(src.Next()))
			}
			if got.String() != input {
				t.Errorf("Read: got %q, want %q", got.String(), input)
			}
			if c := src.Next(); c != jdoc.EOF {
				t.Errorf("Next at end: got %q, want EOF", c)
			}
			if src.Offset() != len(input) {
				t.Errorf("Offset: got %d, want %d", src.Offset(), len(input))
			}
			if err := src.Err(); err != nil {
				t.Errorf("Err: got %v, want nil", err)
			}
		})
	}
}

func TestSourceMatch(t *testing.T) {
	const input = "  true  ,false\n:null[\"x\"]"
	for name, src := range sources(input) {
		t.Run(name, func(t *testing.T) {
			src.SkipSpace()
			if src.MatchLiteral("false") {
				t.Error(`MatchLiteral("false") at "true": got true`)
			}
			if !src.MatchLiteral("true") {
				t.Fatal(`MatchLiteral("true") failed`)
			}
			if src.Peek() != ',' {
				t.Fatalf("After match: got %q, want ','", src.Peek())
			}
			if src.MatchChar(':', true) {
				t.Error(`MatchChar(':') at ",": got true`)
			}
			if !src.MatchChar(',', false) {
				t.Fatal(`MatchChar(',') failed`)
			}
			if !src.MatchLiteral("false") {
				t.Fatal(`MatchLiteral("false") failed`)
			}
			if !src.MatchChar(':', true) || !src.MatchLiteral("null") {
				t.Fatal(`MatchChar(':') or MatchLiteral("null") failed`)
			}
			if !src.MatchChar('[', true) || src.MatchLiteral(`"xy`) {
				t.Fatal("Match after null failed")
			}
			if got := src.Location(); got != (jdoc.LineCol{Line: 2, Column: 6}) {
				t.Errorf("Location: got %v, want 2:6", got)
			}
		})
	}
}

func TestSourceLocation(t *testing.T) {
	const input = "ab\ncd\n\nef"
	want := []jdoc.LineCol{
		{1, 0}, {1, 1}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
		{3, 0},
		{4, 0}, {4, 1}, {4, 2},
	}
	for name, src := range sources(input) {
		t.Run(name, func(t *testing.T) {
			var got []jdoc.LineCol
			for {
				got = append(got, src.Location())
				if src.Next() == jdoc.EOF {
					break
				}
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Locations (-want, +got):\n%s", diff)
			}
		})
	}

	// Backing up over a newline restores the previous line.
	src := jdoc.NewTextSource("a\nb")
	src.Next()
	src.Next()
	src.BackUp()
	if got := src.Location(); got != (jdoc.LineCol{Line: 1, Column: 1}) {
		t.Errorf("Location after BackUp: got %v, want 1:1", got)
	}
}

func TestChunkTokenTooLong(t *testing.T) {
	// A number longer than the buffer cannot be read.
	input := "[1, " + strings.Repeat("7", 40) + ".5]"
	_, err := jdoc.ParseReader(strings.NewReader(input), &jdoc.Options{ChunkSize: 16})
	if !errors.Is(err, jdoc.ErrTokenTooLong) {
		t.Errorf("Parse: got %v, want %v", err, jdoc.ErrTokenTooLong)
	}
	if !errors.Is(err, jdoc.ErrValue) {
		t.Errorf("Parse: got %v, want class %v", err, jdoc.ErrValue)
	}

	// A string of any length is fine.
	long := strings.Repeat("abcdefghij", 20)
	v, err := jdoc.ParseReader(strings.NewReader(`["`+long+`"]`), &jdoc.Options{ChunkSize: 16})
	if err != nil {
		t.Fatalf("Parse long string: unexpected error: %v", err)
	}
	if s, _ := v.At(0); s.AsString("") != long {
		t.Errorf("Long string: got %v", s)
	}
}

func TestChunkReadError(t *testing.T) {
	bad := errors.New("the bad thing happened")
	r := io.MultiReader(strings.NewReader(`{"a": [1, 2`), iotest.ErrReader(bad))

	_, err := jdoc.ParseReader(r, &jdoc.Options{ChunkSize: 16})
	if !errors.Is(err, bad) {
		t.Errorf("Parse: got %v, want %v", err, bad)
	}
	var se *jdoc.SyntaxError
	if !errors.As(err, &se) || se.Reason != jdoc.ReadFailed {
		t.Errorf("Parse: got %v, want reason %v", err, jdoc.ReadFailed)
	}
}
