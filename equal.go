// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import "math"

// epsilon is the tolerance for comparing numbers that are not both integers.
// It is absolute for magnitudes up to 1, and relative above.
const epsilon = 2.22e-12

// Equal reports whether a and b have the same content. The names and levels
// of a and b themselves are not compared, but the names of object members
// are.
//
// Numbers of different kinds are compared by value: integers exactly, and
// otherwise within a small relative tolerance. Objects are equal if they have
// the same number of members, and the members with corresponding names are
// equal, regardless of order.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalContent(a, b)
}

// DeepEqual reports whether a and b are Equal, and in addition have the same
// key as written and the same level.
func DeepEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.level == b.level && a.LiteralName() == b.LiteralName() && equalContent(a, b)
}

func equalContent(a, b *Value) bool {
	if a.kind.IsNumber() && b.kind.IsNumber() {
		return equalNumber(a, b)
	} else if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case BoolKind:
		return a.bits == b.bits
	case StringKind:
		return a.str == b.str
	case ArrayKind:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i, e := range a.elems {
			if !equalContent(e, b.elems[i]) {
				return false
			}
		}
		return true
	case ObjectKind:
		if len(a.obj.list) != len(b.obj.list) {
			return false
		}
		for _, m := range a.obj.list {
			n, ok := b.obj.index[m.name]
			if !ok || !equalContent(m, n) {
				return false
			}
		}
		return true
	}
	return true // null and end markers
}

func equalNumber(a, b *Value) bool {
	if a.kind != DoubleKind && b.kind != DoubleKind {
		if a.kind == BigIntKind || b.kind == BigIntKind {
			return a.AsBigInt().Cmp(b.AsBigInt()) == 0
		}
		return a.kind == b.kind && a.bits == b.bits
	}
	x, _ := a.TryFloat64()
	y, _ := b.TryFloat64()
	if x == y {
		return true
	}
	scale := max(1, math.Abs(x), math.Abs(y))
	return math.Abs(x-y) <= epsilon*scale
}
