// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

// Package path implements a restricted path syntax for locating values in a
// jdoc document.
package path

import (
	"strconv"
	"strings"

	"github.com/creachadair/jdoc"
	"github.com/pkg/errors"
)

/*
Grammar:

  expr  = [ "$" ] [ first ] { step }
  first = NAME
  step  = "." NAME
  step  = "[" INDEX "]"
  step  = "[" QUOTED "]"

  NAME   = one or more bytes other than "." and "["
  INDEX  = RE `-?\d+`
  QUOTED = a JSON string literal

A negative INDEX counts backward from the end of an array (-1 is the last
element). A QUOTED name may contain any text, including "." and "[".
*/

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // object member lookup
	Index             // array element lookup
)

var opText = [...]string{Invalid: "invalid", Member: "member", Index: "index"}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Name  string // for Member
	Index int    // for Index
}

func (s Step) String() string {
	switch s.Op {
	case Member:
		if isPlainName(s.Name) {
			return "." + s.Name
		}
		return "[" + jdoc.Quote(s.Name) + "]"
	case Index:
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return "<invalid>"
}

// An Expr is a parsed path expression. An empty Expr denotes the root.
type Expr []Step

// String renders e in canonical form, which Parse accepts.
func (e Expr) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range e {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	rest, _ := strings.CutPrefix(s, "$")
	var out Expr
	if rest != "" && rest[0] != '.' && rest[0] != '[' {
		name, tail := cutName(rest)
		out = append(out, Step{Op: Member, Name: name})
		rest = tail
	}
	for rest != "" {
		pos := len(s) - len(rest)
		step, tail, err := parseStep(rest)
		if err != nil {
			return nil, errors.Wrapf(err, "offset %d", pos)
		}
		out = append(out, step)
		rest = tail
	}
	return out, nil
}

// MustParse parses s as a path expression, and panics if it is invalid.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

func parseStep(s string) (Step, string, error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		name, rest := cutName(t)
		if name == "" {
			return Step{}, s, errors.New("missing name after .")
		}
		return Step{Op: Member, Name: name}, rest, nil
	}
	t, ok := strings.CutPrefix(s, "[")
	if !ok {
		return Step{}, s, errors.New("invalid path step")
	}
	if strings.HasPrefix(t, `"`) {
		end := quoteEnd(t)
		if end < 0 {
			return Step{}, s, errors.New("unterminated quoted name")
		}
		name, err := jdoc.Unquote(t[:end])
		if err != nil {
			return Step{}, s, errors.Wrap(err, "invalid quoted name")
		}
		rest, ok := strings.CutPrefix(t[end:], "]")
		if !ok {
			return Step{}, s, errors.New("missing close bracket")
		}
		return Step{Op: Member, Name: string(name)}, rest, nil
	}
	text, rest, ok := strings.Cut(t, "]")
	if !ok {
		return Step{}, s, errors.New("missing close bracket")
	}
	n, err := strconv.Atoi(text)
	if err != nil || text == "" || text[0] == '+' {
		return Step{}, s, errors.Errorf("invalid index %q", text)
	}
	return Step{Op: Index, Index: n}, rest, nil
}

// cutName splits s at the first "." or "[".
func cutName(s string) (name, rest string) {
	if i := strings.IndexAny(s, ".["); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// quoteEnd returns the offset just past the closing quote of the string
// literal at the front of s, or -1.
func quoteEnd(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return -1
}

func isPlainName(s string) bool {
	return s != "" && !strings.ContainsAny(s, `.[]"\$ `) && !strings.ContainsFunc(s, isControl)
}

func isControl(r rune) bool { return r < ' ' }

// Resolve locates the value denoted by e relative to root. It reports false
// if any step of e does not exist in root, or names a member of a value that
// is not an object, or an element of a value that is not an array.
func (e Expr) Resolve(root *jdoc.Value) (*jdoc.Value, bool) {
	cur := root
	for _, s := range e {
		next, ok := s.apply(cur)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

func (s Step) apply(v *jdoc.Value) (*jdoc.Value, bool) {
	if v == nil {
		return nil, false
	}
	switch s.Op {
	case Member:
		return member(v, s.Name)
	case Index:
		if v.Kind() != jdoc.ArrayKind {
			return nil, false
		}
		e, err := v.At(s.Index)
		return e, err == nil
	}
	return nil, false
}

// member finds the member of v with the given name. Synthesized names are
// matched first, then keys as written.
func member(v *jdoc.Value, name string) (*jdoc.Value, bool) {
	if m, ok := v.Get(name); ok {
		return m, true
	}
	return v.Lookup(name)
}

// Find parses s as a path expression and resolves it relative to root.
// It reports an error only if s is not a valid path.
func Find(root *jdoc.Value, s string) (*jdoc.Value, bool, error) {
	e, err := Parse(s)
	if err != nil {
		return nil, false, err
	}
	v, ok := e.Resolve(root)
	return v, ok, nil
}
