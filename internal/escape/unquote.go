// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A UTF-16
// surrogate pair written as two \u escapes decodes to a single rune. Invalid
// escapes and unpaired surrogates are replaced by the Unicode replacement
// rune. Unquote reports an error for an incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}

	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))

		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}
		b := src.At(0)
		src = src.SliceFrom(1)
		if c, ok := Simple(b); ok {
			dec = append(dec, c)
		} else if b == 'u' {
			if src.Len() < 4 {
				return nil, errors.New("incomplete Unicode escape")
			}
			r, ok := DecodeHex4(src)
			src = src.SliceFrom(4)
			if !ok {
				r = utf8.RuneError
			} else if utf16.IsSurrogate(r) {
				r, src = pairWith(r, src)
			}
			dec = utf8.AppendRune(dec, r)
		} else {
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// pairWith combines the high surrogate hi with a low surrogate escape at the
// front of rest, if there is one. It returns the decoded rune and the
// remaining input.
func pairWith(hi rune, rest mem.RO) (rune, mem.RO) {
	if lo, ok := LowSurrogate(rest); ok {
		if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
			return r, rest.SliceFrom(6)
		}
	}
	return utf8.RuneError, rest
}

// LowSurrogate reports whether src begins with a \uXXXX escape encoding a
// UTF-16 low surrogate, and if so returns its value.
func LowSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	r, ok := DecodeHex4(src.Slice(2, 6))
	if !ok || r < 0xdc00 || r > 0xdfff {
		return 0, false
	}
	return r, true
}

// Simple reports the byte denoted by the single-character escape \b, or false
// if b does not name such an escape.
func Simple(b byte) (byte, bool) {
	switch b {
	case '"', '\\', '/':
		return b, true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	}
	return 0, false
}

// DecodeHex4 decodes the first four bytes of src as hexadecimal digits.
// It reports false if src is too short or any of the digits is invalid.
func DecodeHex4(src mem.RO) (rune, bool) {
	if src.Len() < 4 {
		return 0, false
	}
	var v rune
	for i := range 4 {
		b := src.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += rune(b - '0')
		case 'a' <= b && b <= 'f':
			v += rune(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += rune(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}
