// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jdoc implements a JSON document model with tree and streaming
// parsers and a printer.
//
// # Values
//
// A *Value is a node of a JSON document: null, a Boolean, a string, a number,
// an array, or an object. Numbers are classified by how they are written: a
// number with a fraction or exponent is a double, and an integer is an
// Int64, UInt64, or (with AllowBigInt) BigInt value, whichever is narrowest.
//
// Objects keep their members in the order they were added, and index them by
// name. Names are unique within an object: an empty key is given a name of
// the form "<empty-name>#n", and a repeated key a name of the form
// "<repeat>-key[n]". The key as written is available from LiteralName, and
// is what the printer emits.
//
// # Parsing
//
// Parse reads a single value from a Source and returns it as a tree. The
// parser keeps open containers on an explicit stack with a fixed capacity
// (Options.MaxDepth), so deeply nested input is reported as an error rather
// than exhausting the call stack:
//
//	v, err := jdoc.ParseString(`{"name": "x", "tags": [1, 2]}`, nil)
//	if err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//	tags, _ := v.Get("tags")
//
// A Source reads either from a string in memory (NewTextSource) or from an
// io.Reader through a fixed-size buffer (NewChunkSource). ParseString and
// ParseReader construct the appropriate source.
//
// Errors from the parsers have concrete type *SyntaxError, and match one of
// ErrSyntax, ErrDepthExceeded, or ErrValue under errors.Is.
//
// # Streaming
//
// The Events type parses the same grammar without building a tree. It
// reports the structure of its input as a sequence of *Value events:
//
//	ev := jdoc.EventsReader(input, nil)
//	for v := range ev.All() {
//	   log.Printf("%*s%v", 2*v.Level(), "", v.Kind())
//	}
//	if err := ev.Err(); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Printing
//
// A Printer renders a *Value as compact or indented JSON, or as literal
// text. See also Compact, Pretty, and Literal.
package jdoc
