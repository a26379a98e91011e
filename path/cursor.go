// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package path

import (
	"math/big"

	"github.com/creachadair/jdoc"
	"github.com/pkg/errors"
)

// A Scalar is a type that At can extract from a value.
type Scalar interface {
	*jdoc.Value | bool | string | int64 | uint64 | float64 | *big.Int
}

// At traverses a sequential path into the structure of v where path elements
// are as documented for the Cursor.Down method, and converts the value it
// reaches to T. This is a convenience wrapper for creating a cursor, applying
// path, and retrieving its value.
func At[T Scalar](v *jdoc.Value, path ...any) (T, error) {
	var out T
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return out, err
	}
	w := c.Value()
	ok := true
	switch p := any(&out).(type) {
	case **jdoc.Value:
		*p = w
	case *bool:
		*p, ok = w.TryBool()
	case *string:
		*p, ok = w.TryString()
	case *int64:
		*p, ok = w.TryInt64()
	case *uint64:
		*p, ok = w.TryUint64()
	case *float64:
		*p, ok = w.TryFloat64()
	case **big.Int:
		*p, ok = w.TryBigInt()
	}
	if !ok {
		return out, errors.Errorf("cannot convert %v to %T", w.Kind(), out)
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of a value.
type Cursor struct {
	org *jdoc.Value
	stk []*jdoc.Value
	err error
}

// New constructs a new Cursor to traverse the structure of origin.
func New(origin *jdoc.Value) *Cursor { return &Cursor{org: origin} }

// Origin returns the origin value of c.
func (c *Cursor) Origin() *jdoc.Value { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current value under the cursor.
func (c *Cursor) Value() *jdoc.Value {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of values from the origin to the current
// location in c.
func (c *Cursor) Path() []*jdoc.Value {
	return append([]*jdoc.Value{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current value, where path elements are strings (denoting object keys),
// integers (denoting offsets into arrays or objects), path expressions, or
// functions (see below). If the path cannot be completely consumed, traversal
// stops at the last value reached and an error is recorded. Use Err to
// recover the error.
//
// If a path element is a string, the corresponding value must be an object,
// and the string resolves an object member with that name or key.
//
// If a path element is an integer, the corresponding value must be an array or
// object, and the integer resolves to an index in the array or object.
// Negative indices count backward from the end (-1 is last, -2 second last).
//
// If a path element is an Expr, each of its steps is applied in turn.
//
// If a path element is a function, the function is executed and its result
// becomes the next value in the sequence. The function must have a signature
//
//	func(*jdoc.Value) (*jdoc.Value, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if cur.Kind() != jdoc.ObjectKind {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), t)
			}
			m, ok := member(cur, t)
			if !ok {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(m)

		case int:
			if !cur.IsContainer() {
				return c.setErrorf("cannot traverse %v with %v", cur.Kind(), t)
			}
			e, err := cur.At(t)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(e)

		case Expr:
			for _, s := range t {
				next, ok := s.apply(cur)
				if !ok {
					return c.setErrorf("path step %v not found", s)
				}
				cur = c.push(next)
			}

		case func(*jdoc.Value) (*jdoc.Value, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(v *jdoc.Value) *jdoc.Value { c.stk = append(c.stk, v); return v }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = errors.Errorf(msg, args...)
	return c
}
