// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import "go4.org/mem"

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends the JSON string encoding of src to dst, including the
// enclosing double quotation marks, and returns the extended slice.
//
// Quotation marks and backslashes are escaped. Control characters use their
// short escape if one exists, and \u00XX otherwise. All other bytes are copied
// unmodified.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	dst = AppendEscaped(dst, src)
	return append(dst, '"')
}

// AppendEscaped is as AppendQuote, but does not add quotation marks.
func AppendEscaped(dst []byte, src mem.RO) []byte {
	start := 0
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		if b >= ' ' && b != '"' && b != '\\' {
			continue
		}
		dst = mem.Append(dst, src.Slice(start, i))
		start = i + 1
		switch {
		case b == '"' || b == '\\':
			dst = append(dst, '\\', b)
		case controlEsc[b] != 0:
			dst = append(dst, '\\', controlEsc[b])
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15])
		}
	}
	return mem.Append(dst, src.SliceFrom(start))
}
