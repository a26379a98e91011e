// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

// Parse reads a single JSON value from src and returns it as a tree.
//
// On success, the input is consumed through the end of the value and any
// whitespace following it. If opts includes CheckEOL, the remainder of the
// input must be empty.
//
// If the input is not valid, Parse reports an error of concrete type
// *SyntaxError, or if opts includes ThrowOnError, panics with that value.
// A nil opts provides default settings.
func Parse(src Source, opts *Options) (*Value, error) {
	p := newParser(src, opts)
	return p.parse()
}

// ParseString parses a single JSON value from text. See Parse.
func ParseString(text string, opts *Options) (*Value, error) {
	if opts.flags().Has(AllowComments) {
		text = standardize(text, opts.logger())
	}
	return Parse(NewTextSource(text), opts)
}

// ParseReader parses a single JSON value from r. Unless opts includes
// AllowComments, the input is read incrementally through a buffer of size
// opts.ChunkSize. See Parse.
func ParseReader(r io.Reader, opts *Options) (*Value, error) {
	if opts.flags().Has(AllowComments) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "read input")
		}
		return ParseString(string(data), opts)
	}
	return Parse(newChunkSource(r, opts.chunkSize(), opts.logger()), opts)
}

// ParseFile parses a single JSON value from the contents of the named file.
// See ParseReader.
func ParseFile(path string, opts *Options) (*Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer f.Close()
	return ParseReader(f, opts)
}

// standardize converts JWCC text to standard JSON by removing comments and
// trailing commas. If text cannot be converted, it is returned unmodified so
// the parser can report the error.
func standardize(text string, logger log.Logger) string {
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		level.Debug(logger).Log("msg", "standardize input failed", "err", err)
		return text
	}
	return string(std)
}

// A frame is the parse state of an open container.
type frame struct {
	v      *Value
	count  int  // members or elements read so far
	resync bool // a bad member value was skipped; no comma is due
}

// parser builds a tree from its input. It holds the open containers on an
// explicit stack of fixed capacity, so that the depth of the input does not
// affect the depth of the Go call stack.
type parser struct {
	lexer
	stack []frame
	log   log.Logger
}

func newParser(src Source, opts *Options) *parser {
	return &parser{
		lexer: lexer{src: src, flags: opts.flags(), limit: opts.maxString()},
		stack: make([]frame, 0, opts.maxDepth()),
		log:   opts.logger(),
	}
}

func (p *parser) parse() (_ *Value, err error) {
	if !p.flags.Has(ThrowOnError) {
		defer func() {
			if x := recover(); x != nil {
				if se, ok := x.(*SyntaxError); ok {
					err = se
					level.Debug(p.log).Log("msg", "parse failed", "err", err)
					return
				}
				panic(x)
			}
		}()
	}
	v := p.run()
	level.Debug(p.log).Log("msg", "parse complete", "kind", v.kind, "bytes", p.src.Offset())
	return v, nil
}

func (p *parser) run() *Value {
	p.src.SkipSpace()
	v, err := p.value(0, false)
	if err != nil {
		p.failLex(err)
	}
	if v.IsContainer() {
		p.push(v)
		v = p.loop()
	}
	if p.flags.Has(CheckEOL) && !p.src.AtEnd() {
		p.fail(ExtraCharacters, "data after value")
	}
	return v
}

// loop reads members and elements into the containers on the stack until the
// outermost container is closed, and returns it.
func (p *parser) loop() *Value {
	for {
		top := &p.stack[len(p.stack)-1]
		var closed bool
		if top.v.kind == ObjectKind {
			closed = p.object(top)
		} else {
			closed = p.array(top)
		}
		if closed {
			p.stack = p.stack[:len(p.stack)-1]
			if len(p.stack) == 0 {
				return top.v
			}
		}
	}
}

// object reads members of the object in f. It reports true when the object is
// closed, or false after a nested container has been pushed.
func (p *parser) object(f *frame) bool {
	src := p.src
	for {
		if f.count > 0 && !f.resync {
			if src.MatchChar('}', true) {
				return true
			} else if !src.MatchChar(',', true) {
				p.fail(NoComma, `expected "," or "}" after object member`)
			} else if src.Peek() == '}' {
				if !p.flags.Has(AllowTrailingCommas) {
					p.fail(TrailingComma, `"," before "}"`)
				}
				src.MatchChar('}', true)
				return true
			}
		} else if src.MatchChar('}', true) {
			return true
		}
		f.resync = false

		if !src.MatchChar('"', false) {
			p.fail(UnexpectedChar, "expected object key")
		}
		key, err := p.key()
		if err != nil {
			p.failLex(err)
		}
		src.SkipSpace()
		if !src.MatchChar(':', true) {
			p.fail(MissingColon, fmt.Sprintf("expected \":\" after key %q", key))
		}

		f.count++
		v, err := p.value(f.v.level+1, false)
		if err != nil {
			if !p.flags.Has(IgnoreBadObjectValue) {
				p.failLex(err)
			}
			p.skipped("object", key, err)
			if p.skipTo(`"}`) == '"' {
				f.resync = true
			}
			continue
		}
		f.v.obj.add(key, v)
		if v.IsContainer() {
			p.push(v)
			return false
		}
	}
}

// array reads elements of the array in f. It reports true when the array is
// closed, or false after a nested container has been pushed.
func (p *parser) array(f *frame) bool {
	src := p.src
	for {
		if f.count > 0 {
			if src.MatchChar(']', true) {
				return true
			} else if !src.MatchChar(',', true) {
				p.fail(NoComma, `expected "," or "]" after array element`)
			}
		}

		v, err := p.value(f.v.level+1, true)
		if err == nil && v.kind == EndArrayKind {
			if f.count > 0 && !p.flags.Has(AllowTrailingCommas) {
				p.fail(TrailingComma, `"," before "]"`)
			}
			return true
		}
		f.count++
		if err != nil {
			if !p.flags.Has(IgnoreBadArrayValue) {
				p.failLex(err)
			}
			p.skipped("array", fmt.Sprint(f.count-1), err)
			v = &Value{kind: NullKind, level: f.v.level + 1}
			p.skipTo(",]")
		}
		f.v.elems = append(f.v.elems, v)
		if v.IsContainer() {
			p.push(v)
			return false
		}
	}
}

// push adds an empty container to the stack.
func (p *parser) push(v *Value) {
	if len(p.stack) == cap(p.stack) {
		p.fail(StackOverflow, fmt.Sprintf("nesting exceeds %d levels", cap(p.stack)))
	}
	p.stack = append(p.stack, frame{v: v})
}

// skipTo consumes input up to the first occurrence of one of the bytes in
// stops, or the end of input. It returns the stop byte found, or EOF.
func (p *parser) skipTo(stops string) int {
	for {
		c := p.src.Peek()
		if c == EOF || strings.IndexByte(stops, byte(c)) >= 0 {
			return c
		}
		p.src.Next()
	}
}

func (p *parser) skipped(in, at string, err error) {
	level.Warn(p.log).Log("msg", "skipped bad value", "in", in, "at", at,
		"offset", p.src.Offset(), "err", err)
}

// fail aborts the parse with a syntax error at the cursor. A structural error
// at the end of input is reported as UnexpectedEnd.
func (p *parser) fail(reason Reason, msg string) {
	panic(structural(p.src, reason, msg))
}

// failLex aborts the parse with an error reported by the lexer.
func (p *parser) failLex(err error) {
	panic(lexSyntaxError(p.src, err))
}

func structural(src Source, reason Reason, msg string) *SyntaxError {
	switch reason {
	case NoComma, MissingColon, UnexpectedChar:
		if src.AtEnd() {
			reason = UnexpectedEnd
		}
	}
	return newSyntaxError(src, reason, msg, nil)
}

func lexSyntaxError(src Source, err error) *SyntaxError {
	var le *lexError
	if errors.As(err, &le) {
		return newSyntaxError(src, le.reason, le.msg, le.err)
	}
	return newSyntaxError(src, BadValue, err.Error(), err)
}
