// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"math"
	"math/big"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/creachadair/jdoc/internal/escape"
	"go4.org/mem"
)

// A lexer reads individual values from a Source. It is shared by the tree and
// event parsers.
type lexer struct {
	src   Source
	flags ParseOptions
	limit int    // maximum decoded string length, or 0 for no limit
	buf   []byte // scratch space for strings, reused
}

// value reads the value at the cursor, which must not be whitespace, and
// skips any whitespace following it. Scalars are returned complete. For a
// container, only the opening bracket is consumed and an empty container is
// returned. If inArray is true, a "]" at the cursor is consumed and reported
// as an EndArrayKind marker.
func (lx *lexer) value(lvl int, inArray bool) (*Value, error) {
	src := lx.src
	c := src.Next()
	var v *Value
	switch c {
	case '{':
		v = &Value{kind: ObjectKind, obj: newMembers()}
	case '[':
		v = &Value{kind: ArrayKind}
	case ']':
		if !inArray {
			src.BackUp()
			return nil, lexErrorf(UnexpectedChar, `unexpected "]"`)
		}
		v = &Value{kind: EndArrayKind, level: lvl - 1}
		src.SkipSpace()
		return v, nil
	case '"':
		s, err := lx.readString(!lx.flags.Has(KeepEscapes))
		if err != nil {
			return nil, err
		}
		v = &Value{kind: StringKind, str: s}
	case 't', 'f', 'n':
		src.BackUp()
		switch {
		case src.MatchLiteral("true"):
			return &Value{kind: BoolKind, level: lvl, bits: 1}, nil
		case src.MatchLiteral("false"):
			return &Value{kind: BoolKind, level: lvl}, nil
		case src.MatchLiteral("null"):
			return &Value{kind: NullKind, level: lvl}, nil
		}
		return nil, lexErrorf(BadValue, "invalid literal")
	case '-':
		if !isDigit(src.Peek()) {
			return nil, lexErrorf(BadValue, `missing digits after "-"`)
		}
		n, err := lx.readNumber(true)
		if err != nil {
			return nil, err
		}
		v = n
	case EOF:
		return nil, lexErrorf(UnexpectedEnd, "expected value")
	default:
		src.BackUp()
		if !isDigit(c) {
			return nil, lexErrorf(UnexpectedChar, "unexpected %q", rune(c))
		}
		n, err := lx.readNumber(false)
		if err != nil {
			return nil, err
		}
		v = n
	}
	v.level = lvl
	src.SkipSpace()
	return v, nil
}

// key reads an object key. The opening quotation mark must already have been
// consumed. Keys are always decoded.
func (lx *lexer) key() (string, error) { return lx.readString(true) }

// readString reads the body of a string whose opening quotation mark has
// already been consumed, through its closing quotation mark. If decode is
// true, escape sequences are replaced by their values; otherwise they are
// kept as written. The result is accumulated in the scratch buffer.
func (lx *lexer) readString(decode bool) (string, error) {
	src, buf := lx.src, lx.buf[:0]
	defer func() { lx.buf = buf }()

	for {
		if lx.limit > 0 && len(buf) > lx.limit {
			return "", lexErrorf(BadValue, "string exceeds %d bytes", lx.limit)
		}
		c := src.Next()
		switch {
		case c == '"':
			return string(buf), nil
		case c == EOF:
			return "", lexErrorf(UnterminatedString, "missing closing quotation mark")
		case c < ' ':
			return "", lexErrorf(BadValue, "unescaped control character %q", rune(c))
		case c != '\\':
			buf = append(buf, byte(c))
			continue
		}

		e := src.Next()
		if e == EOF {
			return "", lexErrorf(UnterminatedString, "incomplete escape sequence")
		} else if b, ok := escape.Simple(byte(e)); ok {
			if decode {
				buf = append(buf, b)
			} else {
				buf = append(buf, '\\', byte(e))
			}
			continue
		} else if e != 'u' {
			return "", lexErrorf(BadValue, "invalid escape %q", "\\"+string(rune(e)))
		}

		hex := src.reserve(4)
		r, ok := escape.DecodeHex4(hex)
		if !ok {
			if hex.Len() < 4 {
				return "", lexErrorf(UnterminatedString, "incomplete Unicode escape")
			}
			return "", lexErrorf(BadValue, "invalid Unicode escape %q", `\u`+hex.StringCopy())
		}
		if !decode {
			buf = append(buf, '\\', 'u')
			buf = mem.Append(buf, hex)
			skip(src, 4)
			continue
		}
		skip(src, 4)
		if utf16.IsSurrogate(r) {
			r = lx.lowSurrogate(r)
		}
		buf = utf8.AppendRune(buf, r)
	}
}

// lowSurrogate completes a UTF-16 surrogate pair whose first half is hi. If
// the next escape at the cursor is a low surrogate, it is consumed and the
// pair is decoded. Otherwise the result is the replacement rune.
func (lx *lexer) lowSurrogate(hi rune) rune {
	if lo, ok := escape.LowSurrogate(lx.src.reserve(6)); ok {
		if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
			skip(lx.src, 6)
			return r
		}
	}
	return utf8.RuneError
}

// readNumber reads a number whose first digit is at the cursor. The sign, if
// any, has already been consumed.
//
// Digits accumulate into a 64-bit magnitude until it overflows, after which
// the number is wide and only its text is kept. A fraction or exponent makes
// the number a double, and consumes the rest of the run of numeric
// characters without backtracking.
func (lx *lexer) readNumber(neg bool) (*Value, error) {
	src := lx.src
	src.mark()
	var acc uint64
	var wide, float bool
	for {
		c := src.Peek()
		if isDigit(c) {
			d := uint64(c - '0')
			if !wide && acc > (math.MaxUint64-d)/10 {
				wide = true
			} else if !wide {
				acc = acc*10 + d
			}
			src.Next()
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			float = true
			for isFloatChar(src.Peek()) {
				src.Next()
			}
		}
		break
	}
	text := src.span()
	if err := src.Err(); err != nil {
		return nil, &lexError{reason: BadValue, msg: "reading number", err: err}
	}
	if text.Len() > 1 && text.At(0) == '0' && isDigit(int(text.At(1))) {
		return nil, lexErrorf(BadValue, "leading zero in %q", text.StringCopy())
	}

	switch {
	case float:
		if !isFloatSyntax(text) {
			return nil, lexErrorf(BadValue, "malformed number %q", text.StringCopy())
		}
		f, err := mem.ParseFloat(text, 64)
		if err != nil {
			return nil, lexErrorf(BadValue, "number %q out of range", text.StringCopy())
		}
		if neg {
			f = -f
		}
		return &Value{kind: DoubleKind, bits: math.Float64bits(f)}, nil

	case wide:
		if !lx.flags.Has(AllowBigInt) {
			return nil, lexErrorf(BadValue, "integer %q exceeds 64 bits", text.StringCopy())
		}
		z, _ := new(big.Int).SetString(text.StringCopy(), 10)
		if neg {
			z.Neg(z)
		}
		return &Value{kind: BigIntKind, big: z}, nil

	case acc <= math.MaxInt64:
		z := int64(acc)
		if neg {
			z = -z
		}
		return &Value{kind: Int64Kind, bits: uint64(z)}, nil

	case !neg:
		return &Value{kind: UInt64Kind, bits: acc}, nil

	case acc == 1<<63:
		return &Value{kind: Int64Kind, bits: acc}, nil // math.MinInt64

	case lx.flags.Has(AllowBigInt):
		z := new(big.Int).SetUint64(acc)
		return &Value{kind: BigIntKind, big: z.Neg(z)}, nil
	}
	return nil, lexErrorf(BadValue, "integer -%s exceeds 64 bits", text.StringCopy())
}

// isFloatSyntax reports whether text, which begins with a digit, is a number
// with a fraction or exponent in JSON syntax.
func isFloatSyntax(text mem.RO) bool {
	i, n := 0, text.Len()
	digits := func() int {
		start := i
		for i < n && isDigit(int(text.At(i))) {
			i++
		}
		return i - start
	}
	digits()
	if i < n && text.At(i) == '.' {
		i++
		if digits() == 0 {
			return false
		}
	}
	if i < n && (text.At(i) == 'e' || text.At(i) == 'E') {
		i++
		if i < n && (text.At(i) == '+' || text.At(i) == '-') {
			i++
		}
		if digits() == 0 {
			return false
		}
	}
	return i == n
}

func isDigit(c int) bool { return '0' <= c && c <= '9' }

func isFloatChar(c int) bool {
	return isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}

// skip consumes n bytes from src.
func skip(src Source, n int) {
	for range n {
		src.Next()
	}
}
