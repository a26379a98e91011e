// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason classifies the cause of a parse failure.
type Reason byte

// Constants defining the valid Reason values.
const (
	UnexpectedEnd      Reason = iota + 1 // input ended inside a value
	UnexpectedChar                       // a character that cannot appear here
	NoComma                              // missing "," between members or elements
	MissingColon                         // missing ":" after an object key
	UnterminatedString                   // input ended before a closing quote
	StackOverflow                        // nesting exceeds the container stack capacity
	TrailingComma                        // "," before "}" or "]"
	BadValue                             // a scalar could not be read or classified
	ExtraCharacters                      // data after the top-level value
	ReadFailed                           // the underlying reader failed
)

var reasonStr = [...]string{
	0:                  "unknown error",
	UnexpectedEnd:      "unexpected end of input",
	UnexpectedChar:     "unexpected character",
	NoComma:            "missing comma",
	MissingColon:       "missing colon",
	UnterminatedString: "unterminated string",
	StackOverflow:      "stack overflow",
	TrailingComma:      "trailing comma",
	BadValue:           "bad value",
	ExtraCharacters:    "extra characters",
	ReadFailed:         "read failed",
}

func (r Reason) String() string {
	if int(r) >= len(reasonStr) {
		return reasonStr[0]
	}
	return reasonStr[r]
}

// Error classes. Every *SyntaxError matches exactly one of ErrSyntax,
// ErrDepthExceeded, or ErrValue under errors.Is.
var (
	// ErrSyntax is the class of grammar violations.
	ErrSyntax = errors.New("syntax error")

	// ErrDepthExceeded is the class of errors for input nested more deeply
	// than the parser's container stack allows.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrValue is the class of errors for scalars that could not be read.
	ErrValue = errors.New("invalid value")

	// ErrTokenTooLong is reported when a single token does not fit in the
	// buffer of a chunked source.
	ErrTokenTooLong = errors.New("token exceeds buffer capacity")
)

func (r Reason) class() error {
	switch r {
	case StackOverflow:
		return ErrDepthExceeded
	case BadValue, UnterminatedString:
		return ErrValue
	default:
		return ErrSyntax
	}
}

// SyntaxError is the concrete type of errors reported by the parsers.
type SyntaxError struct {
	Reason   Reason
	Offset   int     // byte offset of the failure, 0-based
	Location LineCol // line and column of the failure
	Excerpt  string  // source text surrounding the failure
	Message  string

	err error
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("at %s: %s", e.Location, e.Reason)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Excerpt != "" {
		msg += fmt.Sprintf(" (near %q)", e.Excerpt)
	}
	return msg
}

// Unwrap supports error wrapping. The result includes the class of the error
// and the underlying cause, if any.
func (e *SyntaxError) Unwrap() []error {
	if e.err != nil {
		return []error{e.Reason.class(), e.err}
	}
	return []error{e.Reason.class()}
}

// newSyntaxError constructs a *SyntaxError at the current position of src.
// A pending read error on src takes precedence over the reported reason.
func newSyntaxError(src Source, reason Reason, msg string, cause error) *SyntaxError {
	if rerr := src.Err(); rerr != nil {
		if errors.Is(rerr, ErrTokenTooLong) {
			reason = BadValue
		} else {
			reason = ReadFailed
		}
		cause = rerr
	}
	return &SyntaxError{
		Reason:   reason,
		Offset:   src.Offset(),
		Location: src.Location(),
		Excerpt:  src.excerpt(),
		Message:  msg,
		err:      cause,
	}
}

// A lexError reports a failure to read a single value.
type lexError struct {
	reason Reason
	msg    string
	err    error
}

func (e *lexError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *lexError) Unwrap() error { return e.err }

func lexErrorf(reason Reason, msg string, args ...any) *lexError {
	return &lexError{reason: reason, msg: fmt.Sprintf(msg, args...)}
}
