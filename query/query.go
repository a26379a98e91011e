// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package query implements structural queries over JSON values.
//
// A query describes a syntactic substructure of a JSON document, such as an
// object member, array element, or a path through the tree. Evaluating a query
// against a concrete value traverses the structure described by the query and
// returns the resulting value.
//
// The simplest query is for a "path", a sequence of object keys and/or array
// indices that describes a path from the root of a JSON value. For example,
// given the JSON value:
//
//	[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]
//
// the query
//
//	query.Path(1, "c", "d")
//
// yields the value "true".
//
// Queries do not modify their input. A query that constructs a new array or
// object fills it with copies of the selected values.
package query

import (
	"maps"
	"slices"

	"github.com/creachadair/jdoc"
	"github.com/pkg/errors"
)

// Eval evaluates the given query beginning from root, returning the resulting
// value or an error.
func Eval(root *jdoc.Value, q Query) (*jdoc.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a JSON value. The behavior of a query is
// defined in terms of how it maps its input to an output.
type Query interface {
	eval(*jdoc.Value) (*jdoc.Value, error)
}

// Path traverses a sequence of nested object keys or array indices from the
// input value. If no keys are specified, the input is returned. Each key must
// be a string (an object key), an int (an array offset), or a nested Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return Key(t)
	case int:
		return Index(t)
	case Query:
		return t
	default:
		panic(errors.Errorf("invalid path element %T", key))
	}
}

// Key selects the member of an object with the given key. A synthesized
// member name also matches.
func Key(name string) Query { return objKey(name) }

type objKey string

func (o objKey) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ObjectKind, func(obj *jdoc.Value) (*jdoc.Value, error) {
		if m, ok := obj.Get(string(o)); ok {
			return m, nil
		}
		if m, ok := obj.Lookup(string(o)); ok {
			return m, nil
		}
		return nil, errors.Errorf("key %q not found", string(o))
	})
}

// Index selects the element of an array at offset i. A negative offset
// selects from the end of the array.
func Index(i int) Query { return nthQuery(i) }

type nthQuery int

func (nq nthQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		return a.At(int(nq))
	})
}

// Selection constructs an array of the elements of its input array, for which
// the specified function returns true.
type Selection func(*jdoc.Value) bool

func (q Selection) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		out := jdoc.NewArray()
		for _, elt := range a.Elements() {
			if q(elt) {
				out.Append(elt.Clone())
			}
		}
		return out, nil
	})
}

// Mapping constructs an array in which each value is replaced by the result of
// calling the specified function on the corresponding input value.
type Mapping func(*jdoc.Value) *jdoc.Value

func (q Mapping) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		out := jdoc.NewArray()
		for _, elt := range a.Elements() {
			out.Append(q(elt.Clone()))
		}
		return out, nil
	})
}

// Slice selects a slice of an array from offsets lo to hi.  The range includes
// lo but excludes hi. Negative offsets select from the end of the array.
// If hi == 0, the length of the array is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		elts := a.Elements()
		lox := q.lo
		if lox < 0 {
			lox += len(elts)
		}
		hix := q.hi
		if hix <= 0 {
			hix += len(elts)
		}
		if lox < 0 || lox >= len(elts) {
			return nil, errors.Errorf("index %d out of range (0..%d)", q.lo, len(elts))
		} else if hix < 0 || hix > len(elts) {
			return nil, errors.Errorf("index %d out of range (0..%d)", q.hi, len(elts))
		} else if lox > hix {
			return nil, errors.Errorf("index start %d > end %d", q.lo, q.hi)
		}
		return cloneArray(elts[lox:hix]), nil
	})
}

// Pick constructs an array by picking the designated offsets from an array.
// Negative offsets select from the end of the input array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		out := jdoc.NewArray()
		for _, off := range q {
			elt, err := a.At(off)
			if err != nil {
				return nil, err
			}
			out.Append(elt.Clone())
		}
		return out, nil
	})
}

// Len returns an integer representing the length of the root.
//
// For an object, the length is the number of members.
// For an array, the length is the number of elements.
// For a string, the length is the length of the string in bytes.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	switch v.Kind() {
	case jdoc.ArrayKind, jdoc.ObjectKind:
		return jdoc.Int64(int64(v.Len())), nil
	case jdoc.StringKind:
		return jdoc.Int64(int64(len(v.AsString("")))), nil
	case jdoc.NullKind:
		return jdoc.Int64(0), nil
	}
	return nil, errors.Errorf("cannot take length of %v", v.Kind())
}

// Seq is a sequential composition of queries. An empty sequence selects the
// input value; otherwise, each query is applied to the result produced by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v *jdoc.Value) (*jdoc.Value, error) {
	cur := v
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives.  It returns
// the value of the first alternative that does not report an error. If there
// are no such alternatives, the query fails. An empty Alt fails on all inputs.
type Alt []Query

func (q Alt) eval(v *jdoc.Value) (*jdoc.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input, including
// the input itself, and returns an array of the resulting values in document
// order. It fails if the query matches nowhere. The arguments have the same
// constraints as Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	out := jdoc.NewArray()
	for next := range jdoc.Walk(v) {
		if k := next.Kind(); k == jdoc.EndObjectKind || k == jdoc.EndArrayKind {
			continue
		}
		if r, err := q.Query.eval(next); err == nil {
			out.Append(r.Clone())
		}
	}
	if out.Len() == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a query to each element of an array and returns an array of the
// resulting values. It fails if the input is not an array.  The arguments have
// the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	return with(v, jdoc.ArrayKind, func(a *jdoc.Value) (*jdoc.Value, error) {
		out := jdoc.NewArray()
		for i, elt := range a.Elements() {
			r, err := q.Query.eval(elt)
			if err != nil {
				return nil, errors.Wrapf(err, "index %d", i)
			}
			out.Append(r.Clone())
		}
		return out, nil
	})
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input. The members of the result are
// in lexicographic order by key.
type Object map[string]Query

func (o Object) eval(v *jdoc.Value) (*jdoc.Value, error) {
	out := jdoc.NewObject()
	for _, key := range slices.Sorted(maps.Keys(o)) {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, errors.Wrapf(err, "match %q", key)
		}
		out.Add(key, val.Clone())
	}
	return out, nil
}

// Array constructs an array containing the values produced by matching the
// given queries against its input.
type Array []Query

func (a Array) eval(v *jdoc.Value) (*jdoc.Value, error) {
	out := jdoc.NewArray()
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		out.Append(val.Clone())
	}
	return out, nil
}

// A Value query ignores its input and returns the given value.  The value must
// be a string, int, int64, uint64, float64, bool, nil, or *jdoc.Value.
func Value(v any) Query {
	switch t := v.(type) {
	case string:
		return constQuery{jdoc.String(t)}
	case int:
		return constQuery{jdoc.Int64(int64(t))}
	case int64:
		return constQuery{jdoc.Int64(t)}
	case uint64:
		return constQuery{jdoc.Uint64(t)}
	case float64:
		return constQuery{jdoc.Double(t)}
	case bool:
		return constQuery{jdoc.Bool(t)}
	case *jdoc.Value:
		return constQuery{t}
	case nil:
		return constQuery{jdoc.Null()}
	default:
		panic(errors.Errorf("invalid constant %T", v))
	}
}

type constQuery struct{ v *jdoc.Value }

func (c constQuery) eval(*jdoc.Value) (*jdoc.Value, error) { return c.v.Clone(), nil }

// A Glob query returns an array of its inputs. If the input is an array, the
// result is a copy of it. If the input is an object, the result is an array
// of all the object values.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	switch v.Kind() {
	case jdoc.ObjectKind:
		return cloneArray(v.Members()), nil
	case jdoc.ArrayKind:
		return cloneArray(v.Elements()), nil
	default:
		return nil, errors.New("no matching values")
	}
}

// Keys returns an array of the keys of an object as written, in order. The
// keys of null are an empty array.
func Keys() Query { return keysQuery{} }

type keysQuery struct{}

func (keysQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	out := jdoc.NewArray()
	switch v.Kind() {
	case jdoc.ObjectKind:
		for _, m := range v.Members() {
			out.Append(jdoc.String(m.LiteralName()))
		}
	case jdoc.NullKind:
	default:
		return nil, errors.Errorf("cannot list keys of %v", v.Kind())
	}
	return out, nil
}

// Set returns a copy of its input object with the member named by key set to
// the result of evaluating q on the input. If there is no such member, it is
// added at the end. A null input is treated as an empty object.
func Set(key string, q Query) Query { return setQuery{key, q} }

type setQuery struct {
	name string
	q    Query
}

func (s setQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	t, err := s.q.eval(v)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		v = jdoc.NewObject()
	}
	return with(v, jdoc.ObjectKind, func(o *jdoc.Value) (*jdoc.Value, error) {
		out := o.Clone()
		if err := out.Set(s.name, t.Clone()); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Del returns a copy of its input object without the member named by key.
// A null input is returned unchanged.
func Del(key string) Query { return delQuery{key} }

type delQuery struct{ name string }

func (d delQuery) eval(v *jdoc.Value) (*jdoc.Value, error) {
	if v.IsNull() {
		return v, nil
	}
	return with(v, jdoc.ObjectKind, func(o *jdoc.Value) (*jdoc.Value, error) {
		out := o.Clone()
		out.Remove(d.name)
		return out, nil
	})
}

func with(v *jdoc.Value, k jdoc.Kind, f func(*jdoc.Value) (*jdoc.Value, error)) (*jdoc.Value, error) {
	if v.Kind() == k {
		return f(v)
	}
	return nil, errors.Errorf("got %v, want %v", v.Kind(), k)
}

func cloneArray(vs []*jdoc.Value) *jdoc.Value {
	out := jdoc.NewArray()
	for _, v := range vs {
		out.Append(v.Clone())
	}
	return out
}
