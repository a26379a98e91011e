// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"strings"

	"github.com/go-kit/log"
)

// ParseOptions is a set of flags that modify the behavior of the parsers.
type ParseOptions uint32

// Constants defining the valid ParseOptions flags.
const (
	// AllowTrailingCommas accepts a comma immediately before "}" or "]".
	AllowTrailingCommas ParseOptions = 1 << iota

	// CheckEOL reports an error if anything other than whitespace follows
	// the top-level value.
	CheckEOL

	// ThrowOnError causes a parse failure to panic with its *SyntaxError
	// instead of returning it.
	ThrowOnError

	// IgnoreBadObjectValue skips an unparsable object member value by
	// scanning ahead to the next quotation mark or "}". The tree parser only.
	IgnoreBadObjectValue

	// IgnoreBadArrayValue replaces an unparsable array element with null and
	// resumes at the next "," or "]". The tree parser only.
	IgnoreBadArrayValue

	// AllowBigInt classifies integers outside the 64-bit ranges as BigInt
	// values. Without it, such integers are invalid.
	AllowBigInt

	// KeepEscapes stores string values with their escape sequences intact
	// rather than decoded. Object keys are always decoded.
	KeepEscapes

	// AllowComments accepts JWCC input (JSON with comments and trailing
	// commas). Comments are removed before parsing. The input is read fully
	// into memory.
	AllowComments
)

var flagNames = [...]string{
	"AllowTrailingCommas",
	"CheckEOL",
	"ThrowOnError",
	"IgnoreBadObjectValue",
	"IgnoreBadArrayValue",
	"AllowBigInt",
	"KeepEscapes",
	"AllowComments",
}

// Has reports whether all the flags in f are set in o.
func (o ParseOptions) Has(f ParseOptions) bool { return o&f == f }

func (o ParseOptions) String() string {
	if o == 0 {
		return "0"
	}
	var names []string
	for i, name := range flagNames {
		if o&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

const (
	// DefaultMaxDepth is the default capacity of the parsers' container stack.
	DefaultMaxDepth = 256

	// DefaultChunkSize is the default buffer size for reading a stream.
	DefaultChunkSize = 4096

	// MinChunkSize is the smallest buffer a chunked source will use.
	// Smaller requested sizes are rounded up.
	MinChunkSize = 16
)

// Options carry the settings for a parse. A nil *Options is ready for use and
// provides default settings.
type Options struct {
	// Flags modify the grammar and error handling.
	Flags ParseOptions

	// MaxDepth is the capacity of the explicit container stack. If zero,
	// DefaultMaxDepth is used.
	MaxDepth int

	// ChunkSize is the buffer size used when parsing from a reader. It must be
	// large enough to hold the longest number or escape run in the input. If
	// zero, DefaultChunkSize is used.
	ChunkSize int

	// MaxStringBytes, if positive, limits the decoded length of a single
	// string or object key.
	MaxStringBytes int

	// Logger receives diagnostic output. If nil, logs are discarded.
	Logger log.Logger
}

func (o *Options) flags() ParseOptions {
	if o == nil {
		return 0
	}
	return o.Flags
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o *Options) chunkSize() int {
	if o == nil || o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

func (o *Options) maxString() int {
	if o == nil {
		return 0
	}
	return o.MaxStringBytes
}

func (o *Options) logger() log.Logger {
	if o == nil || o.Logger == nil {
		return log.NewNopLogger()
	}
	return o.Logger
}
