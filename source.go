// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"strings"

	"go4.org/mem"
)

// EOF is the value reported by Source.Peek and Source.Next at the end of the
// input.
const EOF = -1

// A Source is a forward cursor over input text, read one byte at a time.
// The parsers in this package consume their input from a Source.
//
// A Source is not safe for concurrent use.
type Source interface {
	// Peek returns the next byte of input without consuming it, or EOF.
	Peek() int

	// Next consumes and returns the next byte of input, or EOF.
	Next() int

	// SkipSpace consumes any JSON whitespace at the cursor.
	SkipSpace()

	// MatchLiteral reports whether the input at the cursor begins with lit.
	// If so, it consumes lit and any whitespace following it.
	MatchLiteral(lit string) bool

	// MatchChar reports whether the next byte of input is c. If so, it
	// consumes c, and if skipSpace is true any whitespace following it.
	MatchChar(c byte, skipSpace bool) bool

	// BackUp un-consumes the byte returned by the most recent call to Next.
	// Only one step is supported.
	BackUp()

	// AtEnd reports whether the input is exhausted.
	AtEnd() bool

	// Offset reports the byte offset of the cursor from the start of input.
	Offset() int

	// Location reports the line and column of the cursor.
	Location() LineCol

	// Err reports the error that ended the input prematurely, if any.
	// It is nil if input ended normally.
	Err() error

	// mark records the cursor as the start of a token.
	mark()

	// span returns the bytes from the most recent mark to the cursor, and
	// clears the mark. The view is valid until the next call to any method.
	span() mem.RO

	// reserve returns a view of up to n bytes at the cursor without
	// consuming them. It is shorter than n only if the input ends sooner.
	reserve(n int) mem.RO

	// excerpt returns a short sample of the input around the cursor.
	excerpt() string
}

// excerptRadius is the number of bytes on either side of the cursor included
// in an error excerpt.
const excerptRadius = 16

// isSpace reports whether c is a JSON whitespace character.
func isSpace(c int) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// textSource is a Source over an in-memory string.
type textSource struct {
	text  string
	pos   int
	mk    int // start of the marked token, or -1
	last  int // bytes consumed by the most recent Next
	lines lineTracker
}

// NewTextSource returns a Source that reads from text.
func NewTextSource(text string) Source { return &textSource{text: text, mk: -1} }

func (s *textSource) Peek() int {
	if s.pos < len(s.text) {
		return int(s.text[s.pos])
	}
	return EOF
}

func (s *textSource) Next() int {
	if s.pos >= len(s.text) {
		s.last = 0
		return EOF
	}
	c := s.text[s.pos]
	s.lines.advance(c, s.pos)
	s.pos++
	s.last = 1
	return int(c)
}

func (s *textSource) SkipSpace() {
	for s.pos < len(s.text) && isSpace(int(s.text[s.pos])) {
		s.Next()
	}
}

func (s *textSource) MatchLiteral(lit string) bool {
	if !strings.HasPrefix(s.text[s.pos:], lit) {
		return false
	}
	for range len(lit) {
		s.Next()
	}
	s.SkipSpace()
	return true
}

func (s *textSource) MatchChar(c byte, skipSpace bool) bool {
	if s.Peek() != int(c) {
		return false
	}
	s.Next()
	if skipSpace {
		s.SkipSpace()
	}
	return true
}

func (s *textSource) BackUp() {
	if s.last != 0 {
		s.pos--
		s.lines.retreat(s.text[s.pos])
		s.last = 0
	}
}

func (s *textSource) AtEnd() bool { return s.pos >= len(s.text) }

func (s *textSource) Offset() int { return s.pos }

func (s *textSource) Location() LineCol { return s.lines.at(s.pos) }

func (s *textSource) Err() error { return nil }

func (s *textSource) mark() { s.mk = s.pos }

func (s *textSource) span() mem.RO {
	start := s.mk
	if start < 0 {
		start = s.pos
	}
	s.mk = -1
	return mem.S(s.text[start:s.pos])
}

func (s *textSource) reserve(n int) mem.RO {
	return mem.S(s.text[s.pos:min(len(s.text), s.pos+n)])
}

func (s *textSource) excerpt() string {
	lo := max(0, s.pos-excerptRadius)
	hi := min(len(s.text), s.pos+excerptRadius)
	return s.text[lo:hi]
}
