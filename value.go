// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"math"
	"math/big"
)

// Kind identifies the variant of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind   Kind = iota // null
	BoolKind               // true, false
	StringKind             // "..."
	DoubleKind             // number with a fraction or exponent
	Int64Kind              // integer in the signed 64-bit range
	UInt64Kind             // integer above the signed range, in the unsigned 64-bit range
	BigIntKind             // integer outside both 64-bit ranges
	ArrayKind              // [ ... ]
	ObjectKind             // { ... }

	// Sentinels reported by Events when a container closes. They do not occur
	// in trees.
	EndObjectKind
	EndArrayKind
)

var kindStr = [...]string{
	NullKind:      "null",
	BoolKind:      "bool",
	StringKind:    "string",
	DoubleKind:    "double",
	Int64Kind:     "int64",
	UInt64Kind:    "uint64",
	BigIntKind:    "bigint",
	ArrayKind:     "array",
	ObjectKind:    "object",
	EndObjectKind: "end-object",
	EndArrayKind:  "end-array",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid kind"
	}
	return kindStr[k]
}

// IsNumber reports whether k is one of the numeric kinds.
func (k Kind) IsNumber() bool { return k >= DoubleKind && k <= BigIntKind }

// A Value is a single node of a JSON document. A Value is a scalar (null,
// bool, string, or number), or a container (array or object) that owns its
// children.
//
// Every Value has a level, its depth from the root of its tree, and if it is
// a member of an object, a name. Names are unique within an object: an empty
// or duplicate key is given a synthesized name, and the key as written is
// kept as the original name. See LiteralName.
type Value struct {
	kind  Kind
	level int
	name  string
	orig  *string // literal key text, if name was synthesized

	bits  uint64   // bool (0 or 1), double (IEEE 754), int64, uint64
	str   string   // string
	big   *big.Int // bigint
	elems []*Value // array
	obj   *members // object
}

// Null returns a new null value.
func Null() *Value { return &Value{kind: NullKind} }

// Bool returns a new Boolean value.
func Bool(b bool) *Value {
	v := &Value{kind: BoolKind}
	if b {
		v.bits = 1
	}
	return v
}

// String returns a new string value.
func String(s string) *Value { return &Value{kind: StringKind, str: s} }

// Double returns a new floating-point value.
func Double(f float64) *Value { return &Value{kind: DoubleKind, bits: math.Float64bits(f)} }

// Int64 returns a new integer value.
func Int64(z int64) *Value { return &Value{kind: Int64Kind, bits: uint64(z)} }

// Uint64 returns a new integer value. Its kind is Int64Kind if u fits in the
// signed range, otherwise UInt64Kind.
func Uint64(u uint64) *Value {
	if u <= math.MaxInt64 {
		return &Value{kind: Int64Kind, bits: u}
	}
	return &Value{kind: UInt64Kind, bits: u}
}

// BigInt returns a new integer value with a copy of z. Its kind is the
// narrowest integer kind that represents z exactly.
func BigInt(z *big.Int) *Value {
	switch {
	case z.IsInt64():
		return Int64(z.Int64())
	case z.IsUint64():
		return Uint64(z.Uint64())
	}
	return &Value{kind: BigIntKind, big: new(big.Int).Set(z)}
}

// NewArray returns a new array containing vs in order.
func NewArray(vs ...*Value) *Value {
	a := &Value{kind: ArrayKind}
	a.appendAll(vs)
	return a
}

// NewObject returns a new object containing the given members in order. The
// name of each member is its key; see Field.
func NewObject(fields ...*Value) *Value {
	o := &Value{kind: ObjectKind, obj: newMembers()}
	for _, f := range fields {
		o.obj.add(f.name, f)
		setLevel(f, 1)
	}
	return o
}

// Field sets the name of v to name and returns v. It is intended for use with
// NewObject, for example:
//
//	jdoc.NewObject(jdoc.Field("id", jdoc.Int64(1)), jdoc.Field("ok", jdoc.Bool(true)))
func Field(name string, v *Value) *Value {
	v.name = name
	v.orig = nil
	return v
}

// Kind reports the kind of v.
func (v *Value) Kind() Kind { return v.kind }

// Level reports the depth of v from the root of its tree. The root has level 0.
func (v *Value) Level() int { return v.level }

// Name reports the name of v in its enclosing object. This is the key as
// written unless the key was empty or a duplicate, in which case it is a
// synthesized name unique within the object.
func (v *Value) Name() string { return v.name }

// OriginalName reports the key as written, if it differs from Name.
func (v *Value) OriginalName() (string, bool) {
	if v.orig != nil {
		return *v.orig, true
	}
	return "", false
}

// LiteralName reports the key of v as written in its object.
func (v *Value) LiteralName() string {
	if v.orig != nil {
		return *v.orig
	}
	return v.name
}

// IsContainer reports whether v is an array or object.
func (v *Value) IsContainer() bool { return v.kind == ArrayKind || v.kind == ObjectKind }

// IsNull reports whether v is null.
func (v *Value) IsNull() bool { return v.kind == NullKind }

// TryBool reports the value of a Boolean.
func (v *Value) TryBool() (bool, bool) {
	if v.kind == BoolKind {
		return v.bits != 0, true
	}
	return false, false
}

// TryString reports the value of a string.
func (v *Value) TryString() (string, bool) {
	if v.kind == StringKind {
		return v.str, true
	}
	return "", false
}

// TryInt64 reports the value of a number that is an integer in the signed
// 64-bit range.
func (v *Value) TryInt64() (int64, bool) {
	switch v.kind {
	case Int64Kind:
		return int64(v.bits), true
	case DoubleKind:
		f := v.float()
		if f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 {
			return int64(f), true
		}
	}
	return 0, false
}

// TryUint64 reports the value of a number that is an integer in the unsigned
// 64-bit range.
func (v *Value) TryUint64() (uint64, bool) {
	switch v.kind {
	case Int64Kind:
		if z := int64(v.bits); z >= 0 {
			return uint64(z), true
		}
	case UInt64Kind:
		return v.bits, true
	case DoubleKind:
		f := v.float()
		if f == math.Trunc(f) && f >= 0 && f < 1<<64 {
			return uint64(f), true
		}
	}
	return 0, false
}

// TryFloat64 reports the value of a number as a float64. Integers outside the
// range that float64 represents exactly are rounded.
func (v *Value) TryFloat64() (float64, bool) {
	switch v.kind {
	case DoubleKind:
		return v.float(), true
	case Int64Kind:
		return float64(int64(v.bits)), true
	case UInt64Kind:
		return float64(v.bits), true
	case BigIntKind:
		f, _ := new(big.Float).SetInt(v.big).Float64()
		return f, true
	}
	return 0, false
}

// TryBigInt reports the value of an integer number as a new *big.Int.
func (v *Value) TryBigInt() (*big.Int, bool) {
	switch v.kind {
	case Int64Kind:
		return big.NewInt(int64(v.bits)), true
	case UInt64Kind:
		return new(big.Int).SetUint64(v.bits), true
	case BigIntKind:
		return new(big.Int).Set(v.big), true
	}
	return nil, false
}

// AsBool returns the value of a Boolean, or def.
func (v *Value) AsBool(def bool) bool {
	if b, ok := v.TryBool(); ok {
		return b
	}
	return def
}

// AsString returns the value of a string, or def.
func (v *Value) AsString(def string) string {
	if s, ok := v.TryString(); ok {
		return s
	}
	return def
}

// AsInt64 returns the value of an integer in the signed 64-bit range, or def.
func (v *Value) AsInt64(def int64) int64 {
	if z, ok := v.TryInt64(); ok {
		return z
	}
	return def
}

// AsUint64 returns the value of an integer in the unsigned 64-bit range, or
// def.
func (v *Value) AsUint64(def uint64) uint64 {
	if u, ok := v.TryUint64(); ok {
		return u
	}
	return def
}

// AsFloat64 returns the value of a number, or def.
func (v *Value) AsFloat64(def float64) float64 {
	if f, ok := v.TryFloat64(); ok {
		return f
	}
	return def
}

// AsBigInt returns the value of an integer, or nil.
func (v *Value) AsBigInt() *big.Int {
	z, _ := v.TryBigInt()
	return z
}

func (v *Value) float() float64 { return math.Float64frombits(v.bits) }

// Clone returns a deep copy of v. The copy has the same name and level as v.
func (v *Value) Clone() *Value {
	c := &Value{kind: v.kind, level: v.level, name: v.name, bits: v.bits, str: v.str}
	if v.orig != nil {
		s := *v.orig
		c.orig = &s
	}
	switch v.kind {
	case BigIntKind:
		c.big = new(big.Int).Set(v.big)
	case ArrayKind:
		c.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			c.elems[i] = e.Clone()
		}
	case ObjectKind:
		c.obj = v.obj.clone()
	}
	return c
}

// children returns the elements or members of a container in order.
func (v *Value) children() []*Value {
	switch v.kind {
	case ArrayKind:
		return v.elems
	case ObjectKind:
		return v.obj.list
	}
	return nil
}

// setLevel sets the level of v to lvl, and re-levels its descendants.
func setLevel(v *Value, lvl int) {
	v.level = lvl
	for _, c := range v.children() {
		setLevel(c, lvl+1)
	}
}
