// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"go4.org/mem"
)

// chunkSource is a Source that reads from an io.Reader through a buffer of
// fixed capacity.
//
// When the buffer is exhausted, the unconsumed tail (or the marked token in
// progress, if any) is moved to the front and the remainder is refilled. A
// token that fills the whole buffer cannot be moved again, and is reported as
// ErrTokenTooLong.
type chunkSource struct {
	r    io.Reader
	buf  []byte
	pos  int // offset of the cursor in buf
	end  int // end of valid data in buf
	base int // absolute offset of buf[0]
	mk   int // offset of the marked token in buf, or -1
	last int // bytes consumed by the most recent Next
	err  error

	lines   lineTracker
	log     log.Logger
	reloads int
}

// NewChunkSource returns a Source that reads from r using a buffer of the
// given size. If size < MinChunkSize, MinChunkSize is used instead.
//
// The buffer must be large enough to hold the longest token that is read as
// a unit: numbers, literals, and \u escapes. Strings of any length are
// supported.
func NewChunkSource(r io.Reader, size int) Source {
	return newChunkSource(r, size, log.NewNopLogger())
}

func newChunkSource(r io.Reader, size int, logger log.Logger) *chunkSource {
	return &chunkSource{
		r:   r,
		buf: make([]byte, max(size, MinChunkSize)),
		mk:  -1,
		log: logger,
	}
}

// fill moves retained data to the front of the buffer and reads more input.
// It reports whether the buffer holds unconsumed data afterward.
func (s *chunkSource) fill() bool {
	if s.err != nil {
		return s.pos < s.end
	}
	keep := s.pos
	if s.mk >= 0 {
		keep = s.mk
	}
	if keep > 0 {
		n := copy(s.buf, s.buf[keep:s.end])
		s.base += keep
		s.pos -= keep
		s.end = n
		if s.mk >= 0 {
			s.mk = 0
		}
		s.last = 0
	} else if s.end == len(s.buf) {
		s.err = errors.Wrapf(ErrTokenTooLong, "token at offset %d exceeds %d bytes", s.base, len(s.buf))
		return s.pos < s.end
	}

	for s.end < len(s.buf) {
		nr, err := s.r.Read(s.buf[s.end:])
		s.end += nr
		if err == io.EOF {
			s.err = err
			break
		} else if err != nil {
			s.err = errors.Wrap(err, "read input")
			break
		} else if nr > 0 {
			break
		}
	}
	s.reloads++
	level.Debug(s.log).Log("msg", "reload input", "offset", s.base, "kept", s.pos, "have", s.end, "reloads", s.reloads)
	return s.pos < s.end
}

func (s *chunkSource) Peek() int {
	if s.pos >= s.end && !s.fill() {
		return EOF
	}
	return int(s.buf[s.pos])
}

func (s *chunkSource) Next() int {
	if s.pos >= s.end && !s.fill() {
		s.last = 0
		return EOF
	}
	c := s.buf[s.pos]
	s.lines.advance(c, s.base+s.pos)
	s.pos++
	s.last = 1
	return int(c)
}

func (s *chunkSource) SkipSpace() {
	for isSpace(s.Peek()) {
		s.Next()
	}
}

func (s *chunkSource) MatchLiteral(lit string) bool {
	if !s.reserve(len(lit)).EqualString(lit) {
		return false
	}
	for range len(lit) {
		s.Next()
	}
	s.SkipSpace()
	return true
}

func (s *chunkSource) MatchChar(c byte, skipSpace bool) bool {
	if s.Peek() != int(c) {
		return false
	}
	s.Next()
	if skipSpace {
		s.SkipSpace()
	}
	return true
}

func (s *chunkSource) BackUp() {
	if s.last != 0 {
		s.pos--
		s.lines.retreat(s.buf[s.pos])
		s.last = 0
	}
}

func (s *chunkSource) AtEnd() bool { return s.Peek() == EOF }

func (s *chunkSource) Offset() int { return s.base + s.pos }

func (s *chunkSource) Location() LineCol { return s.lines.at(s.base + s.pos) }

func (s *chunkSource) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

func (s *chunkSource) mark() { s.mk = s.pos }

func (s *chunkSource) span() mem.RO {
	start := s.mk
	if start < 0 {
		start = s.pos
	}
	s.mk = -1
	return mem.B(s.buf[start:s.pos])
}

func (s *chunkSource) reserve(n int) mem.RO {
	for s.end-s.pos < n && s.err == nil {
		before := s.end - s.pos
		s.fill()
		if s.end-s.pos == before && s.err == nil {
			break // no progress
		}
	}
	return mem.B(s.buf[s.pos:min(s.end, s.pos+n)])
}

func (s *chunkSource) excerpt() string {
	lo := max(0, s.pos-excerptRadius)
	hi := min(s.end, s.pos+excerptRadius)
	return string(s.buf[lo:hi])
}
