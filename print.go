// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jdoc/internal/escape"
	"github.com/pkg/errors"
	"go4.org/mem"
)

// A Printer carries the settings for rendering values as text.
// A zero Printer is ready for use, and renders compact JSON on one line.
type Printer struct {
	// Indent, if non-empty, is the indentation for each level of nesting, and
	// each member or element of a non-empty container begins a new line.
	Indent string

	// MaxLineLength, if positive, is the line width after which a line break
	// is inserted before the next member or element. Lines are broken only
	// between tokens, so a long token may exceed the width.
	MaxLineLength int

	// Literal, if true, renders strings and keys as their raw contents with
	// no quotation marks or escapes. The result is not JSON in general.
	Literal bool
}

// Print renders v as text to w.
func (p Printer) Print(w io.Writer, v *Value) error {
	buf, err := p.appendValue(nil, v)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Format renders v as a string. It returns "" if v cannot be rendered; use
// Print to find out why.
func (p Printer) Format(v *Value) string {
	buf, err := p.appendValue(nil, v)
	if err != nil {
		return ""
	}
	return string(buf)
}

// Compact renders v as JSON with no insignificant whitespace. If maxLine > 0,
// lines are broken after they exceed maxLine bytes.
func Compact(v *Value, maxLine int) string {
	return Printer{MaxLineLength: maxLine}.Format(v)
}

// Pretty renders v as indented JSON, with each member or element on a
// separate line.
func Pretty(v *Value, maxLine int) string {
	return Printer{Indent: "  ", MaxLineLength: maxLine}.Format(v)
}

// Literal renders v compactly with strings and keys unquoted.
func Literal(v *Value, maxLine int) string {
	return Printer{MaxLineLength: maxLine, Literal: true}.Format(v)
}

// JSON renders v as compact JSON text.
func (v *Value) JSON() string { return Compact(v, 0) }

// String renders v as compact JSON text.
func (v *Value) String() string { return v.JSON() }

// A printState tracks the output of a single call to a Printer.
type printState struct {
	Printer
	buf       []byte
	lineStart int // offset in buf of the current line
}

func (p Printer) appendValue(buf []byte, v *Value) ([]byte, error) {
	ps := &printState{Printer: p, buf: buf, lineStart: len(buf)}
	if err := ps.value(v, 0); err != nil {
		return nil, err
	}
	return ps.buf, nil
}

func (ps *printState) value(v *Value, depth int) error {
	switch v.kind {
	case NullKind:
		ps.buf = append(ps.buf, "null"...)
	case BoolKind:
		ps.buf = strconv.AppendBool(ps.buf, v.bits != 0)
	case StringKind:
		ps.text(v.str)
	case DoubleKind:
		f := v.float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return errors.Errorf("cannot render non-finite number %v", f)
		}
		ps.buf = appendDouble(ps.buf, f)
	case Int64Kind:
		ps.buf = strconv.AppendInt(ps.buf, int64(v.bits), 10)
	case UInt64Kind:
		ps.buf = strconv.AppendUint(ps.buf, v.bits, 10)
	case BigIntKind:
		ps.buf = v.big.Append(ps.buf, 10)
	case ArrayKind, ObjectKind:
		return ps.container(v, depth)
	default:
		return errors.Errorf("cannot render %v", v.kind)
	}
	return nil
}

func (ps *printState) container(v *Value, depth int) error {
	open, close := byte('['), byte(']')
	if v.kind == ObjectKind {
		open, close = '{', '}'
	}
	kids := v.children()
	ps.buf = append(ps.buf, open)
	if len(kids) == 0 {
		ps.buf = append(ps.buf, close)
		return nil
	}
	for i, kid := range kids {
		if i > 0 {
			ps.buf = append(ps.buf, ',')
		}
		if ps.Indent != "" {
			ps.newline(depth + 1)
		} else if i > 0 {
			ps.softBreak(depth + 1)
		}
		if v.kind == ObjectKind {
			ps.text(kid.LiteralName())
			ps.buf = append(ps.buf, ':')
			if ps.Indent != "" {
				ps.buf = append(ps.buf, ' ')
			}
		}
		if err := ps.value(kid, depth+1); err != nil {
			return err
		}
	}
	if ps.Indent != "" {
		ps.newline(depth)
	}
	ps.buf = append(ps.buf, close)
	return nil
}

// text renders a string or key.
func (ps *printState) text(s string) {
	if ps.Literal {
		ps.buf = append(ps.buf, s...)
	} else {
		ps.buf = escape.AppendQuote(ps.buf, mem.S(s))
	}
}

// newline begins a new line indented to the given depth.
func (ps *printState) newline(depth int) {
	ps.buf = append(ps.buf, '\n')
	ps.lineStart = len(ps.buf)
	ps.buf = append(ps.buf, strings.Repeat(ps.Indent, depth)...)
}

// softBreak begins a new line if the current line exceeds the maximum width.
func (ps *printState) softBreak(depth int) {
	if ps.MaxLineLength > 0 && len(ps.buf)-ps.lineStart > ps.MaxLineLength {
		ps.newline(depth)
	}
}

// appendDouble appends the shortest representation of f that parses back to
// the same value. The result always includes a decimal point or an exponent.
func appendDouble(buf []byte, f float64) []byte {
	start := len(buf)
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		buf = strconv.AppendFloat(buf, f, 'e', -1, 64)
		// Trim a leading zero from a two-digit exponent, as 1e-07 to 1e-7.
		if n := len(buf); n-start >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
		return buf
	}
	buf = strconv.AppendFloat(buf, f, 'f', -1, 64)
	if !strings.ContainsAny(string(buf[start:]), ".e") {
		buf = append(buf, ".0"...)
	}
	return buf
}
