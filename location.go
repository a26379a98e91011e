// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// lineTracker maintains the line and column of a cursor moving through text.
// It supports undoing exactly one step, matching Source.BackUp.
type lineTracker struct {
	line      int // count of newlines consumed
	lineStart int // absolute offset of the first byte of the current line
	prevStart int // lineStart before the most recent newline
}

// advance records that the byte c at absolute offset off was consumed.
func (t *lineTracker) advance(c byte, off int) {
	if c == '\n' {
		t.line++
		t.prevStart = t.lineStart
		t.lineStart = off + 1
	}
}

// retreat undoes the most recent advance of c.
func (t *lineTracker) retreat(c byte) {
	if c == '\n' {
		t.line--
		t.lineStart = t.prevStart
	}
}

// at reports the location of absolute offset off on the current line.
func (t *lineTracker) at(off int) LineCol {
	return LineCol{Line: t.line + 1, Column: off - t.lineStart}
}
