package model

import (
	"bytes"
	"encoding/json"
)

// Kind identifies which shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindArray
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value is a decoded API value: null, a scalar (string, number, bool), an
// array of values or a nested Record.
type Value struct {
	kind   Kind
	scalar any
	items  []Value
	record *Record
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Scalar wraps a string, number or bool. A nil argument yields Null.
func Scalar(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindScalar, scalar: v}
}

// Array wraps a list of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Nested wraps a record. A nil record is treated as empty.
func Nested(r *Record) Value {
	if r == nil {
		r = NewRecord()
	}
	return Value{kind: KindRecord, record: r}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) Scalar() any { return v.scalar }
func (v Value) Items() []Value { return v.items }
func (v Value) Record() *Record { return v.record }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsRecord() bool { return v.kind == KindRecord }

// Interface returns the plain Go form of the value: nil, the scalar, []any or *Record.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindArray:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Interface())
		}
		return out
	case KindRecord:
		return v.record
	default:
		return nil
	}
}

// MarshalJSON renders the value as JSON, keeping record key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindArray:
		items := v.items
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case KindRecord:
		return v.record.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}

// Record is an ordered mapping from field name to Value. Keys are unique;
// setting an existing key replaces its value without moving it.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores value under key and returns the record for chaining.
func (r *Record) Set(key string, value Value) *Record {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len reports the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Each calls fn for every key in insertion order.
func (r *Record) Each(fn func(key string, value Value)) {
	if r == nil {
		return
	}
	for _, key := range r.keys {
		fn(key, r.values[key])
	}
}

// MarshalJSON renders the record as a JSON object in key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
