// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jdoc

import (
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrNotContainer is reported when a container operation is applied to a
	// scalar value.
	ErrNotContainer = errors.New("value is not a container")

	// ErrWrongKind is reported when an array operation is applied to an
	// object, or vice versa.
	ErrWrongKind = errors.New("wrong container kind")

	// ErrNoSuchMember is reported when an operation names an object member
	// that does not exist.
	ErrNoSuchMember = errors.New("no such member")

	// ErrIndexRange is reported when an array index is out of range.
	ErrIndexRange = errors.New("index out of range")
)

// members is the representation of an object: members in insertion order,
// with an index by name.
type members struct {
	list  []*Value
	index map[string]*Value
	seq   map[string]int // last synthesis counter used, by literal key
}

func newMembers() *members { return &members{index: make(map[string]*Value)} }

// add appends v to m under the literal key, synthesizing a unique name if key
// is empty or already in use.
func (m *members) add(key string, v *Value) {
	v.name, v.orig = key, nil
	if key == "" || m.index[key] != nil {
		lit := key
		v.name, v.orig = m.synthesize(key), &lit
	}
	m.list = append(m.list, v)
	m.index[v.name] = v
}

// synthesize returns a name for key that is not in use in m.
func (m *members) synthesize(key string) string {
	if m.seq == nil {
		m.seq = make(map[string]int)
	}
	for n := m.seq[key] + 1; ; n++ {
		var name string
		if key == "" {
			name = "<empty-name>#" + strconv.Itoa(n)
		} else {
			name = "<repeat>-" + key + "[" + strconv.Itoa(n) + "]"
		}
		if m.index[name] == nil {
			m.seq[key] = n
			return name
		}
	}
}

// remove deletes and returns the member with the given name, or nil.
func (m *members) remove(name string) *Value {
	v := m.index[name]
	if v == nil {
		return nil
	}
	delete(m.index, name)
	i := slices.Index(m.list, v)
	m.list = slices.Delete(m.list, i, i+1)
	return v
}

func (m *members) clone() *members {
	c := &members{
		list:  make([]*Value, len(m.list)),
		index: make(map[string]*Value, len(m.list)),
	}
	for i, v := range m.list {
		cv := v.Clone()
		c.list[i] = cv
		c.index[cv.name] = cv
	}
	if m.seq != nil {
		c.seq = make(map[string]int, len(m.seq))
		for k, n := range m.seq {
			c.seq[k] = n
		}
	}
	return c
}

// checkKind reports an error if v is not a container of kind k.
func (v *Value) checkKind(k Kind, op string) error {
	if !v.IsContainer() {
		return errors.Wrapf(ErrNotContainer, "%s %v", op, v.kind)
	} else if v.kind != k {
		return errors.Wrapf(ErrWrongKind, "%s %v", op, v.kind)
	}
	return nil
}

// Len reports the number of elements of an array or members of an object.
// It returns 0 for a scalar.
func (v *Value) Len() int { return len(v.children()) }

// Elements returns the elements of an array in order, or nil if v is not an
// array. The caller must not modify the slice.
func (v *Value) Elements() []*Value {
	if v.kind == ArrayKind {
		return v.elems
	}
	return nil
}

// Members returns the members of an object in insertion order, or nil if v is
// not an object. The caller must not modify the slice.
func (v *Value) Members() []*Value {
	if v.kind == ObjectKind {
		return v.obj.list
	}
	return nil
}

// At returns the element of an array or member of an object at offset i.
// A negative offset counts backward from the end.
func (v *Value) At(i int) (*Value, error) {
	if !v.IsContainer() {
		return nil, errors.Wrapf(ErrNotContainer, "index %v", v.kind)
	}
	kids := v.children()
	if i < 0 {
		i += len(kids)
	}
	if i < 0 || i >= len(kids) {
		return nil, errors.Wrapf(ErrIndexRange, "index %d of %d", i, len(kids))
	}
	return kids[i], nil
}

// Get returns the member of an object with the given name. Synthesized names
// are matched exactly; see Lookup to match keys as written.
func (v *Value) Get(name string) (*Value, bool) {
	if v.kind != ObjectKind {
		return nil, false
	}
	m, ok := v.obj.index[name]
	return m, ok
}

// Lookup returns the first member of an object whose key as written is key.
func (v *Value) Lookup(key string) (*Value, bool) {
	if v.kind != ObjectKind {
		return nil, false
	}
	if m, ok := v.obj.index[key]; ok && m.orig == nil {
		return m, true
	}
	for _, m := range v.obj.list {
		if m.LiteralName() == key {
			return m, true
		}
	}
	return nil, false
}

// LookupAll returns all the members of an object whose key as written is key,
// in order.
func (v *Value) LookupAll(key string) []*Value {
	var out []*Value
	for _, m := range v.Members() {
		if m.LiteralName() == key {
			out = append(out, m)
		}
	}
	return out
}

// Append adds vs to the end of an array. The added values become children of
// v and are re-leveled accordingly.
func (v *Value) Append(vs ...*Value) error {
	if err := v.checkKind(ArrayKind, "append to"); err != nil {
		return err
	}
	v.appendAll(vs)
	return nil
}

func (v *Value) appendAll(vs []*Value) {
	for _, e := range vs {
		e.name, e.orig = "", nil
		setLevel(e, v.level+1)
	}
	v.elems = append(v.elems, vs...)
}

// Add adds w to the end of an object with the given key. If key is empty or
// is already in use, w is given a synthesized name.
func (v *Value) Add(key string, w *Value) error {
	if err := v.checkKind(ObjectKind, "add to"); err != nil {
		return err
	}
	v.obj.add(key, w)
	setLevel(w, v.level+1)
	return nil
}

// Set replaces the member of an object with the given name by w, keeping its
// position. If there is no such member, w is added with name as its key.
func (v *Value) Set(name string, w *Value) error {
	if err := v.checkKind(ObjectKind, "set in"); err != nil {
		return err
	}
	old := v.obj.index[name]
	if old == nil {
		v.obj.add(name, w)
	} else {
		w.name, w.orig = old.name, old.orig
		v.obj.list[slices.Index(v.obj.list, old)] = w
		v.obj.index[name] = w
	}
	setLevel(w, v.level+1)
	return nil
}

// Remove removes and returns the member of an object with the given name.
// It returns ErrNoSuchMember if there is no such member.
func (v *Value) Remove(name string) (*Value, error) {
	if err := v.checkKind(ObjectKind, "remove from"); err != nil {
		return nil, err
	}
	if old := v.obj.remove(name); old != nil {
		return old, nil
	}
	return nil, errors.Wrapf(ErrNoSuchMember, "remove %q", name)
}

// RemoveAt removes and returns the element of an array at offset i. A
// negative offset counts backward from the end.
func (v *Value) RemoveAt(i int) (*Value, error) {
	if err := v.checkKind(ArrayKind, "remove from"); err != nil {
		return nil, err
	}
	old, err := v.At(i)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		i += len(v.elems)
	}
	v.elems = slices.Delete(v.elems, i, i+1)
	return old, nil
}

// Rename changes the key of the member of an object named old to key, keeping
// its position. If key is empty or in use by another member, the member is
// given a synthesized name.
func (v *Value) Rename(old, key string) error {
	if err := v.checkKind(ObjectKind, "rename in"); err != nil {
		return err
	}
	m := v.obj.index[old]
	if m == nil {
		return errors.Wrapf(ErrNoSuchMember, "rename %q", old)
	}
	delete(v.obj.index, old)
	m.name, m.orig = key, nil
	if key == "" || v.obj.index[key] != nil {
		lit := key
		m.name, m.orig = v.obj.synthesize(key), &lit
	}
	v.obj.index[m.name] = m
	return nil
}

// Merge adds copies of the contents of other to v. Both must be arrays or
// both must be objects. Elements of an array are appended. Members of an
// object replace members of v with the same name, and are otherwise added.
func (v *Value) Merge(other *Value) error {
	if !other.IsContainer() {
		return errors.Wrapf(ErrNotContainer, "merge from %v", other.kind)
	} else if err := v.checkKind(other.kind, "merge into"); err != nil {
		return err
	}
	if v.kind == ArrayKind {
		cp := make([]*Value, len(other.elems))
		for i, e := range other.elems {
			cp[i] = e.Clone()
		}
		v.appendAll(cp)
		return nil
	}
	for _, m := range other.obj.list {
		c := m.Clone()
		if m.orig != nil {
			v.obj.add(*m.orig, c)
			setLevel(c, v.level+1)
		} else {
			v.Set(m.name, c)
		}
	}
	return nil
}

// Clear removes all the contents of a container.
func (v *Value) Clear() error {
	switch v.kind {
	case ArrayKind:
		v.elems = nil
	case ObjectKind:
		v.obj = newMembers()
	default:
		return errors.Wrapf(ErrNotContainer, "clear %v", v.kind)
	}
	return nil
}
