package pipe

import (
	"fmt"
	"iter"
	"reflect"
	"sort"
	"time"
)

// Kind identifies the container shape of a Value.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSeq
	KindSet
	KindMap
)

// Value is the canonical container every combinator operates on. The zero
// Value is the nil scalar, which is what an absorbed fault collapses to.
type Value struct {
	kind   Kind
	scalar any
	seq    []Value
	set    map[any]struct{}
	keys   []string
	fields map[string]Value
}

// Scalar wraps v as an atomic value. Strings and byte slices are always
// atomic; they are never expanded into their elements.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// List builds a sequence, normalizing each element through Of.
func List(elems ...any) Value {
	seq := make([]Value, len(elems))
	for i, e := range elems {
		seq[i] = Of(e)
	}
	return Value{kind: KindSeq, seq: seq}
}

// SeqOf builds a sequence from already-canonical values.
func SeqOf(elems ...Value) Value {
	return Value{kind: KindSeq, seq: elems}
}

// NewSet builds a set of scalar elements. Elements that cannot serve as set
// members (non-comparable values) degrade the result to a sequence instead,
// mirroring the normalizer's fallback for such collections.
func NewSet(elems ...any) Value {
	set := make(map[any]struct{}, len(elems))
	for _, e := range elems {
		if e != nil && !reflect.TypeOf(e).Comparable() {
			return List(elems...)
		}
		set[e] = struct{}{}
	}
	return Value{kind: KindSet, set: set}
}

// Field is one key/value pair for MapOf.
type Field struct {
	Key string
	Val any
}

// MapOf builds a mapping preserving the given key order. Values are
// normalized through Of; a repeated key overwrites the earlier value.
func MapOf(fields ...Field) Value {
	keys := make([]string, 0, len(fields))
	m := make(map[string]Value, len(fields))
	for _, f := range fields {
		if _, seen := m[f.Key]; !seen {
			keys = append(keys, f.Key)
		}
		m[f.Key] = Of(f.Val)
	}
	return Value{kind: KindMap, keys: keys, fields: m}
}

// Of is the boundary adapter: it converts an arbitrary Go value into a
// canonical Value. Slices and arrays become sequences, maps become key-ordered
// mappings (keys sorted, since Go maps carry no order), struct{}-valued maps
// become sets, and iter.Seq sources are drained so single-use iterables turn
// into multi-use containers. Strings, byte slices and everything else atomic
// pass through as scalars. Already-canonical Values are returned unchanged.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case *Value:
		if x == nil {
			return Value{}
		}
		return *x
	case string, []byte, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, time.Time:
		return Scalar(x)
	case []Value:
		return SeqOf(x...)
	case []any:
		return List(x...)
	case []string:
		seq := make([]Value, len(x))
		for i, e := range x {
			seq[i] = Scalar(e)
		}
		return SeqOf(seq...)
	case []int:
		seq := make([]Value, len(x))
		for i, e := range x {
			seq[i] = Scalar(e)
		}
		return SeqOf(seq...)
	case []float64:
		seq := make([]Value, len(x))
		for i, e := range x {
			seq[i] = Scalar(e)
		}
		return SeqOf(seq...)
	case []map[string]any:
		seq := make([]Value, len(x))
		for i, e := range x {
			seq[i] = Of(e)
		}
		return SeqOf(seq...)
	case []map[string]string:
		seq := make([]Value, len(x))
		for i, e := range x {
			seq[i] = Of(e)
		}
		return SeqOf(seq...)
	case map[string]any:
		return ofStringMap(x, func(v any) Value { return Of(v) })
	case map[string]string:
		return ofStringMap(x, func(v string) Value { return Scalar(v) })
	case map[string]Value:
		return ofStringMap(x, func(v Value) Value { return v })
	case map[any]struct{}:
		elems := make([]any, 0, len(x))
		for e := range x {
			elems = append(elems, e)
		}
		return NewSet(elems...)
	case map[string]struct{}:
		elems := make([]any, 0, len(x))
		for e := range x {
			elems = append(elems, e)
		}
		return NewSet(elems...)
	case map[int]struct{}:
		elems := make([]any, 0, len(x))
		for e := range x {
			elems = append(elems, e)
		}
		return NewSet(elems...)
	case iter.Seq[any]:
		var seq []Value
		for e := range x {
			seq = append(seq, Of(e))
		}
		return SeqOf(seq...)
	}
	return ofReflect(v)
}

func ofStringMap[T any](m map[string]T, conv func(T) Value) Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make(map[string]Value, len(m))
	for _, k := range keys {
		fields[k] = conv(m[k])
	}
	return Value{kind: KindMap, keys: keys, fields: fields}
}

// ofReflect handles named slice/map types the explicit switch misses.
func ofReflect(v any) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(v)
		}
		seq := make([]Value, rv.Len())
		for i := range seq {
			seq[i] = Of(rv.Index(i).Interface())
		}
		return SeqOf(seq...)
	case reflect.Map:
		if rv.Type().Elem() == reflect.TypeOf(struct{}{}) {
			elems := make([]any, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				elems = append(elems, k.Interface())
			}
			return NewSet(elems...)
		}
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]Value, rv.Len())
		for _, k := range rv.MapKeys() {
			key := fmt.Sprint(k.Interface())
			keys = append(keys, key)
			vals[key] = Of(rv.MapIndex(k).Interface())
		}
		sort.Strings(keys)
		return Value{kind: KindMap, keys: keys, fields: vals}
	}
	return Scalar(v)
}

// Kind reports the container kind.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil scalar.
func (v Value) IsNil() bool { return v.kind == KindScalar && v.scalar == nil }

// ScalarValue returns the wrapped scalar, or nil for containers.
func (v Value) ScalarValue() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the elements of a sequence; nil for other kinds.
func (v Value) Items() []Value {
	if v.kind != KindSeq {
		return nil
	}
	return v.seq
}

// Len returns the number of contained elements; scalars have length zero.
func (v Value) Len() int {
	switch v.kind {
	case KindSeq:
		return len(v.seq)
	case KindSet:
		return len(v.set)
	case KindMap:
		return len(v.keys)
	}
	return 0
}

// Keys returns a copy of the mapping's keys in order; nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Get looks up a mapping key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	val, ok := v.fields[key]
	return val, ok
}

// Elems returns the set's elements as scalar values, sorted by their printed
// form so iteration order is stable.
func (v Value) Elems() []Value {
	if v.kind != KindSet {
		return nil
	}
	elems := make([]any, 0, len(v.set))
	for e := range v.set {
		elems = append(elems, e)
	}
	sort.Slice(elems, func(i, j int) bool {
		fi, iok := toFloat(elems[i])
		fj, jok := toFloat(elems[j])
		if iok && jok {
			return fi < fj
		}
		return fmt.Sprint(elems[i]) < fmt.Sprint(elems[j])
	})
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = Scalar(e)
	}
	return out
}

// Has reports set membership for a scalar element.
func (v Value) Has(elem any) bool {
	if v.kind != KindSet {
		return false
	}
	if elem != nil && !reflect.TypeOf(elem).Comparable() {
		return false
	}
	if _, ok := v.set[elem]; ok {
		return true
	}
	for e := range v.set {
		if scalarEqual(e, elem) {
			return true
		}
	}
	return false
}

// Contains reports membership: sequence elements, set elements, or mapping
// keys, matching the source language's "in" semantics.
func (v Value) Contains(elem Value) bool {
	switch v.kind {
	case KindSeq:
		for _, e := range v.seq {
			if e.Equal(elem) {
				return true
			}
		}
	case KindSet:
		if elem.kind == KindScalar {
			return v.Has(elem.scalar)
		}
	case KindMap:
		if elem.kind == KindScalar {
			_, ok := v.fields[fmt.Sprint(elem.scalar)]
			return ok
		}
	}
	return false
}

// Equal performs deep structural comparison. Numeric scalars compare by
// value, so 1 and 1.0 are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return scalarEqual(v.scalar, other.scalar)
	case KindSeq:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case KindSet:
		if len(v.set) != len(other.set) {
			return false
		}
		for e := range v.set {
			if !other.Has(e) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for k, val := range v.fields {
			ov, ok := other.fields[k]
			if !ok || !val.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// Truthy reports whether v counts as true in a filter: non-empty containers,
// non-zero numbers, non-empty strings, true booleans.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindSeq, KindSet, KindMap:
		return v.Len() > 0
	}
	switch x := v.scalar.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	}
	if f, ok := toFloat(v.scalar); ok {
		return f != 0
	}
	return true
}

// Str returns the scalar string, if v wraps one.
func (v Value) Str() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	switch x := v.scalar.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	}
	return "", false
}

// Int returns the scalar as an int, coercing integral floats.
func (v Value) Int() (int, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	f, ok := toFloat(v.scalar)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Float returns the scalar as a float64.
func (v Value) Float() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return toFloat(v.scalar)
}

// Time returns the scalar time.Time, if v wraps one.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindScalar {
		return time.Time{}, false
	}
	t, ok := v.scalar.(time.Time)
	return t, ok
}

// Interface converts back to native Go containers: []any for sequences,
// map[string]any for mappings, map[any]struct{} for sets.
func (v Value) Interface() any {
	switch v.kind {
	case KindSeq:
		out := make([]any, len(v.seq))
		for i, e := range v.seq {
			out[i] = e.Interface()
		}
		return out
	case KindSet:
		out := make(map[any]struct{}, len(v.set))
		for e := range v.set {
			out[e] = struct{}{}
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].Interface()
		}
		return out
	}
	return v.scalar
}

func (v Value) String() string {
	return fmt.Sprint(v.Interface())
}

// elements enumerates a value for element-wise combinators: sequence items,
// set elements, mapping keys (in key order), and a scalar as its own
// singleton.
func elements(v Value) []Value {
	switch v.kind {
	case KindSeq:
		return v.seq
	case KindSet:
		return v.Elems()
	case KindMap:
		out := make([]Value, len(v.keys))
		for i, k := range v.keys {
			out[i] = Scalar(k)
		}
		return out
	}
	return []Value{v}
}

func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// Range builds the sequence [start, end), a convenience for chains that in
// the source language started from a lazy range.
func Range(start, end int) Value {
	if end < start {
		end = start
	}
	seq := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		seq = append(seq, Scalar(i))
	}
	return SeqOf(seq...)
}
