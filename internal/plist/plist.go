// package plist decodes property-list markup trees into value trees.
//
// The input is an element tree produced by [etree] from an XML library
// export. Decoding produces a [Value] tagged union of text, integers,
// booleans, ordered records and lists.
package plist

import (
	"fmt"
)

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindBool
	KindDict
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindDict:
		return "dict"
	case KindArray:
		return "array"
	default:
		return ""
	}
}

// WrongVariantError is returned by [Value] accessors when the value holds
// a different variant than the one requested.
type WrongVariantError struct {
	Want Kind
	Got  Kind
}

func (e *WrongVariantError) Error() string {
	return fmt.Sprintf("plist: value is %s, not %s", e.Got, e.Want)
}

// Value is one node of a decoded property-list tree.
//
// Exactly one payload field is meaningful, selected by Kind. Values are
// immutable once returned by [Decode]; callers own the result outright.
type Value struct {
	kind Kind
	str  string
	num  int64
	b    bool
	dict *Dict
	arr  []Value
}

// Null is the absent value produced for unrecognized tags.
var Null = Value{kind: KindNull}

func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(n int64) Value     { return Value{kind: KindInt, num: n} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }

// DictValue wraps a Dict as a Value.
func DictValue(d *Dict) Value { return Value{kind: KindDict, dict: d} }

// ArrayValue wraps a list of values as a Value.
func ArrayValue(vs []Value) Value { return Value{kind: KindArray, arr: vs} }

// Kind reports the variant this value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether this is the absent value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the text payload, or a WrongVariantError.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", &WrongVariantError{Want: KindString, Got: v.kind}
	}
	return v.str, nil
}

// AsInt returns the integer payload, or a WrongVariantError.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, &WrongVariantError{Want: KindInt, Got: v.kind}
	}
	return v.num, nil
}

// AsBool returns the boolean payload, or a WrongVariantError.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &WrongVariantError{Want: KindBool, Got: v.kind}
	}
	return v.b, nil
}

// AsDict returns the record payload, or a WrongVariantError.
func (v Value) AsDict() (*Dict, error) {
	if v.kind != KindDict {
		return nil, &WrongVariantError{Want: KindDict, Got: v.kind}
	}
	return v.dict, nil
}

// AsArray returns the list payload, or a WrongVariantError.
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, &WrongVariantError{Want: KindArray, Got: v.kind}
	}
	return v.arr, nil
}

// Equal reports deep structural equality, including record key order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindDict:
		return v.dict.Equal(o.dict)
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Dict is an insertion-ordered mapping from string keys to values.
//
// Keys are unique; inserting an existing key overwrites the value in place,
// keeping the key's first-seen position.
type Dict struct {
	keys   []string
	values map[string]Value
}

// NewDict returns an empty ordered record.
func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

// Set inserts or overwrites an entry. First insertion fixes key order.
func (d *Dict) Set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

// Get returns the value for key and whether it is present.
func (d *Dict) Get(key string) (Value, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Keys returns the record's keys in insertion order.
func (d *Dict) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Equal reports deep equality including key order.
func (d *Dict) Equal(o *Dict) bool {
	if d == nil || o == nil {
		return d == o
	}
	if len(d.keys) != len(o.keys) {
		return false
	}
	for i, k := range d.keys {
		if o.keys[i] != k {
			return false
		}
		if !d.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}
