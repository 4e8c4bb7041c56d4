// Package document holds the serializer output model and its encoders.
package document

import "iter"

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "bool", "int", "uint", "float", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Member is one key/value entry of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a document node. Object members keep insertion order.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	u       uint64
	f       float64
	s       string
	arr     []Value
	members []Member
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(n int64) Value { return Value{kind: KindInt, i: n} }

func Uint(n uint64) Value { return Value{kind: KindUint, u: n} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps items; a nil slice still encodes as an empty array.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object builds an object from members in the given order.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool { return v.b }

func (v Value) AsInt() int64 { return v.i }

func (v Value) AsUint() uint64 { return v.u }

func (v Value) AsFloat() float64 { return v.f }

func (v Value) AsString() string { return v.s }

// Items returns the array elements. The slice must not be modified.
func (v Value) Items() []Value { return v.arr }

// Members returns the object members. The slice must not be modified.
func (v Value) Members() []Member { return v.members }

// Len is the element count of an array or object, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get returns the first member with the given key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Keys iterates object keys in order.
func (v Value) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range v.members {
			if !yield(m.Key) {
				return
			}
		}
	}
}

// Append returns v with item added to the end of the array.
func (v Value) Append(item Value) Value {
	v.arr = append(v.arr, item)
	return v
}

// With returns v with a member added to the end of the object.
func (v Value) With(key string, val Value) Value {
	v.members = append(v.members, Member{Key: key, Value: val})
	return v
}
