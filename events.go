// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"fmt"
	"io"
	"iter"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Events is a streaming parser that reports the structure of a single JSON
// value as a sequence of events, without building a tree.
//
// Each event is a *Value. A scalar is reported complete. An array or object
// is reported when it opens, as an empty container, and later by a value of
// kind EndArrayKind or EndObjectKind with the level of the container that
// closed. Members of an object carry their keys as written.
//
// To iterate over the events, call Next until it reports false, then check
// Err:
//
//	ev := jdoc.EventsString(input, nil)
//	for ev.Next() {
//	   log.Printf("Event: %v %q", ev.Value().Kind(), ev.Value().Name())
//	}
//	if err := ev.Err(); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// The options IgnoreBadObjectValue and IgnoreBadArrayValue do not apply:
// every error ends the sequence. If ThrowOnError is set, Next panics with the
// *SyntaxError instead.
type Events struct {
	lexer
	stack []frame
	log   log.Logger

	cur     *Value
	err     error
	started bool
	done    bool
}

// NewEvents returns an event parser that reads from src. A nil opts provides
// default settings.
func NewEvents(src Source, opts *Options) *Events {
	return &Events{
		lexer: lexer{src: src, flags: opts.flags(), limit: opts.maxString()},
		stack: make([]frame, 0, opts.maxDepth()),
		log:   opts.logger(),
	}
}

// EventsString returns an event parser that reads from text.
func EventsString(text string, opts *Options) *Events {
	if opts.flags().Has(AllowComments) {
		text = standardize(text, opts.logger())
	}
	return NewEvents(NewTextSource(text), opts)
}

// EventsReader returns an event parser that reads from r. Unless opts
// includes AllowComments, the input is read incrementally through a buffer of
// size opts.ChunkSize.
func EventsReader(r io.Reader, opts *Options) *Events {
	if opts.flags().Has(AllowComments) {
		data, err := io.ReadAll(r)
		if err != nil {
			ev := NewEvents(NewTextSource(""), opts)
			ev.err = errors.Wrap(err, "read input")
			return ev
		}
		return EventsString(string(data), opts)
	}
	return NewEvents(newChunkSource(r, opts.chunkSize(), opts.logger()), opts)
}

// Next advances to the next event and reports whether one is available.
// When Next returns false, the sequence is complete; call Err to find out
// whether it ended with an error.
func (e *Events) Next() bool {
	if e.err != nil || e.done {
		e.cur = nil
		return false
	}
	if !e.flags.Has(ThrowOnError) {
		defer func() {
			if x := recover(); x != nil {
				se, ok := x.(*SyntaxError)
				if !ok {
					panic(x)
				}
				e.cur, e.err = nil, se
				level.Debug(e.log).Log("msg", "events failed", "err", se)
			}
		}()
	}
	e.cur = e.step()
	return e.cur != nil
}

// Value returns the current event. It returns nil before the first call to
// Next, and after Next returns false.
func (e *Events) Value() *Value { return e.cur }

// Err reports the error that ended the sequence, or nil.
func (e *Events) Err() error { return e.err }

// Depth reports the number of containers open at the current event.
func (e *Events) Depth() int { return len(e.stack) }

// All returns an iterator over the remaining events. Check Err after the
// iteration ends.
func (e *Events) All() iter.Seq[*Value] {
	return func(yield func(*Value) bool) {
		for e.Next() {
			if !yield(e.cur) {
				return
			}
		}
	}
}

// Skip discards the events of the container opened by the current event,
// through its closing event. If the current event does not open a container,
// Skip does nothing.
func (e *Events) Skip() error {
	if e.cur == nil || !e.cur.IsContainer() {
		return e.err
	}
	depth := len(e.stack)
	for len(e.stack) >= depth {
		if !e.Next() {
			break
		}
	}
	return e.err
}

// ReadValue returns the value of the current event as a tree. If the current
// event opens a container, ReadValue consumes events through its close and
// fills in the container. Object members are named as by Parse.
func (e *Events) ReadValue() (*Value, error) {
	root := e.cur
	if root == nil {
		if e.err != nil {
			return nil, e.err
		}
		return nil, errors.New("no current event")
	} else if !root.IsContainer() {
		return root, nil
	}

	open := []*Value{root}
	for len(open) != 0 && e.Next() {
		v := e.cur
		if v.kind == EndArrayKind || v.kind == EndObjectKind {
			open = open[:len(open)-1]
			continue
		}
		parent := open[len(open)-1]
		if parent.kind == ObjectKind {
			parent.obj.add(v.name, v)
		} else {
			parent.elems = append(parent.elems, v)
		}
		if v.IsContainer() {
			open = append(open, v)
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	return root, nil
}

// step reads the next event, or returns nil at the end of the input.
func (e *Events) step() *Value {
	src := e.src
	if !e.started {
		e.started = true
		src.SkipSpace()
		v, err := e.value(0, false)
		if err != nil {
			e.failLex(err)
		}
		return e.open(v)
	}
	if len(e.stack) == 0 {
		if e.flags.Has(CheckEOL) && !src.AtEnd() {
			e.fail(ExtraCharacters, "data after value")
		}
		e.done = true
		return nil
	}

	top := &e.stack[len(e.stack)-1]
	lvl := top.v.level + 1
	if top.v.kind == ObjectKind {
		if top.count > 0 {
			if src.MatchChar('}', true) {
				return e.close()
			} else if !src.MatchChar(',', true) {
				e.fail(NoComma, `expected "," or "}" after object member`)
			} else if src.Peek() == '}' {
				if !e.flags.Has(AllowTrailingCommas) {
					e.fail(TrailingComma, `"," before "}"`)
				}
				src.MatchChar('}', true)
				return e.close()
			}
		} else if src.MatchChar('}', true) {
			return e.close()
		}

		if !src.MatchChar('"', false) {
			e.fail(UnexpectedChar, "expected object key")
		}
		key, err := e.key()
		if err != nil {
			e.failLex(err)
		}
		src.SkipSpace()
		if !src.MatchChar(':', true) {
			e.fail(MissingColon, fmt.Sprintf("expected \":\" after key %q", key))
		}
		v, err := e.value(lvl, false)
		if err != nil {
			e.failLex(err)
		}
		top.count++
		v.name = key
		return e.open(v)
	}

	if top.count > 0 {
		if src.MatchChar(']', true) {
			return e.close()
		} else if !src.MatchChar(',', true) {
			e.fail(NoComma, `expected "," or "]" after array element`)
		}
	}
	v, err := e.value(lvl, true)
	if err != nil {
		e.failLex(err)
	}
	if v.kind == EndArrayKind {
		if top.count > 0 && !e.flags.Has(AllowTrailingCommas) {
			e.fail(TrailingComma, `"," before "]"`)
		}
		return e.close()
	}
	top.count++
	return e.open(v)
}

// open pushes v on the stack if it is a container, and returns v.
func (e *Events) open(v *Value) *Value {
	if v.IsContainer() {
		if len(e.stack) == cap(e.stack) {
			e.fail(StackOverflow, fmt.Sprintf("nesting exceeds %d levels", cap(e.stack)))
		}
		e.stack = append(e.stack, frame{v: v})
	}
	return v
}

// close pops the innermost container and returns its end marker.
func (e *Events) close() *Value {
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return endMarker(f.v)
}

func (e *Events) fail(reason Reason, msg string) { panic(structural(e.src, reason, msg)) }

func (e *Events) failLex(err error) { panic(lexSyntaxError(e.src, err)) }

// endMarker returns the event that closes the container v.
func endMarker(v *Value) *Value {
	if v.kind == ObjectKind {
		return &Value{kind: EndObjectKind, level: v.level}
	}
	return &Value{kind: EndArrayKind, level: v.level}
}

// Walk returns an iterator over the events that an Events parser would report
// for the text of v. Containers are reported with their contents, rather than
// empty.
func Walk(v *Value) iter.Seq[*Value] {
	type item struct {
		v   *Value
		end bool
	}
	return func(yield func(*Value) bool) {
		stk := []item{{v: v}}
		for len(stk) != 0 {
			next := stk[len(stk)-1]
			stk = stk[:len(stk)-1]
			if next.end {
				if !yield(endMarker(next.v)) {
					return
				}
				continue
			}
			if !yield(next.v) {
				return
			}
			if next.v.IsContainer() {
				stk = append(stk, item{v: next.v, end: true})
				kids := next.v.children()
				for i := len(kids) - 1; i >= 0; i-- {
					stk = append(stk, item{v: kids[i]})
				}
			}
		}
	}
}
