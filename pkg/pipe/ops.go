package pipe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// printCap limits how much of a value Print renders.
const printCap = 9999

// JoinPred decides whether an element of the second iterable is kept, given
// the flattened first iterable.
type JoinPred func(elem, first Value) (bool, error)

// ReduceFunc folds an accumulator with the next element.
type ReduceFunc func(acc, elem Value) (Value, error)

// Map applies f to each element, dropping elements whose call faulted or
// produced nil. Mappings feed their keys, scalars act as their own singleton,
// and input order is preserved.
func Map(f Func, opts ...Option) *Pipe {
	o := newOptions(opts)
	call := absorb(f, o.warns)
	return newPipe(o, func(v Value) (Value, error) {
		return mapElements(v, func(e Value) Outcome { return call(e) }), nil
	})
}

// MapPipe is Map over a full sub-pipe per element.
func MapPipe(inner *Pipe, opts ...Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		return mapElements(v, func(e Value) Outcome {
			return inner.ApplyOutcome(e)
		}), nil
	})
}

func mapElements(v Value, call func(Value) Outcome) Value {
	elems := elements(v)
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		r := call(e)
		if !r.IsSuccess() || r.Result().IsNil() {
			continue
		}
		out = append(out, r.Result())
	}
	return SeqOf(out...)
}

// Filter keeps the elements for which f yields a truthy, present result.
// Nil elements that pass are dropped as well, since they are almost always
// the residue of an earlier absorbed fault.
func Filter(f Func, opts ...Option) *Pipe {
	o := newOptions(opts)
	call := absorb(f, o.warns)
	return newPipe(o, func(v Value) (Value, error) {
		return filterElements(v, func(e Value) Outcome { return call(e) }), nil
	})
}

// FilterPipe is Filter with a full sub-pipe as the predicate.
func FilterPipe(inner *Pipe, opts ...Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		return filterElements(v, func(e Value) Outcome {
			return inner.ApplyOutcome(e)
		}), nil
	})
}

func filterElements(v Value, call func(Value) Outcome) Value {
	elems := elements(v)
	out := make([]Value, 0, len(elems))
	for _, e := range elems {
		r := call(e)
		if !r.IsSuccess() || !r.Result().Truthy() {
			continue
		}
		if e.IsNil() {
			continue
		}
		out = append(out, e)
	}
	return SeqOf(out...)
}

// FilterNone drops nil elements.
func FilterNone(opts ...Option) *Pipe {
	return New(func(v Value) (Value, error) {
		elems := elements(v)
		out := make([]Value, 0, len(elems))
		for _, e := range elems {
			if e.IsNil() {
				continue
			}
			out = append(out, e)
		}
		return SeqOf(out...), nil
	}, opts...)
}

// Reduce left-folds f over the elements. An empty input is a fault: it is
// absorbed into the nil scalar with exactly one warning rather than
// propagated.
func Reduce(f ReduceFunc, opts ...Option) *Pipe {
	return New(func(v Value) (Value, error) {
		return reduceValue(v, f)
	}, opts...)
}

func reduceValue(v Value, f ReduceFunc) (Value, error) {
	elems := elements(v)
	if v.kind != KindScalar && len(elems) == 0 {
		return Value{}, errors.New("reduce of empty sequence")
	}
	acc := elems[0]
	for _, e := range elems[1:] {
		next, err := f(acc, e)
		if err != nil {
			return Value{}, err
		}
		acc = next
	}
	return acc, nil
}

// Join concatenates the piped-in iterable with other, first filtering other
// by pred against the flattened left side. A nil pred keeps everything.
func Join(other any, pred JoinPred, opts ...Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		return joinValues(v, Of(other), pred, o.warns)
	})
}

func joinValues(left, right Value, pred JoinPred, warns *Warnings) (Value, error) {
	first := Flatten(left)
	if first.kind == KindSet || first.kind == KindMap {
		return Value{}, fmt.Errorf("join: left side of kind %d is not a sequence", first.kind)
	}
	if first.kind == KindScalar {
		first = SeqOf(first)
	}
	out := make([]Value, 0, first.Len()+right.Len())
	out = append(out, first.seq...)
	for _, e := range elements(right) {
		if pred != nil {
			keep, err := pred(e, first)
			if err != nil {
				warns.Warn(err)
				continue
			}
			if !keep {
				continue
			}
		}
		out = append(out, e)
	}
	return SeqOf(out...), nil
}

// Concat merges a collection of iterables. Without a predicate it chains all
// inner sequences into one flat sequence when the first element is itself a
// sequence, and otherwise returns the input unchanged. With a predicate it
// left-folds Join pairwise, so each iterable is filtered against the running
// concatenation.
func Concat(pred JoinPred, opts ...Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		if pred == nil {
			return chainValue(v)
		}
		return reduceValue(v, func(acc, e Value) (Value, error) {
			return joinValues(acc, e, pred, o.warns)
		})
	})
}

func chainValue(v Value) (Value, error) {
	if v.kind != KindSeq || len(v.seq) == 0 || v.seq[0].kind != KindSeq {
		return v, nil
	}
	var out []Value
	for _, inner := range v.seq {
		if inner.kind == KindScalar {
			return Value{}, fmt.Errorf("concat: element %s is not iterable", inner)
		}
		out = append(out, elements(inner)...)
	}
	return SeqOf(out...), nil
}

// ToSet converts the piped-in iterable into a set of its scalar elements.
func ToSet(opts ...Option) *Pipe {
	return New(func(v Value) (Value, error) {
		return toSetValue(v)
	}, opts...)
}

func toSetValue(v Value) (Value, error) {
	switch v.kind {
	case KindSet:
		return v, nil
	case KindSeq, KindMap:
		elems := elements(v)
		raw := make([]any, 0, len(elems))
		for _, e := range elems {
			if e.kind != KindScalar {
				return Value{}, fmt.Errorf("unhashable set element of kind %d", e.kind)
			}
			raw = append(raw, e.scalar)
		}
		return NewSet(raw...), nil
	}
	return Value{}, fmt.Errorf("cannot build a set from scalar %s", v)
}

// SetUnion converts each inner iterable to a set and folds with union.
func SetUnion(opts ...Option) *Pipe {
	return foldSets(func(acc, next map[any]struct{}) map[any]struct{} {
		for e := range next {
			acc[e] = struct{}{}
		}
		return acc
	}, opts)
}

// SetInter converts each inner iterable to a set and folds with
// intersection.
func SetInter(opts ...Option) *Pipe {
	return foldSets(func(acc, next map[any]struct{}) map[any]struct{} {
		out := make(map[any]struct{})
		for e := range acc {
			if _, ok := next[e]; ok {
				out[e] = struct{}{}
			}
		}
		return out
	}, opts)
}

func foldSets(fold func(acc, next map[any]struct{}) map[any]struct{}, opts []Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		var sets []map[any]struct{}
		for _, e := range elements(v) {
			sv, err := toSetValue(e)
			if err != nil {
				o.warns.Warn(err)
				continue
			}
			sets = append(sets, sv.set)
		}
		if len(sets) == 0 {
			return Value{}, errors.New("reduce of empty sequence")
		}
		acc := make(map[any]struct{}, len(sets[0]))
		for e := range sets[0] {
			acc[e] = struct{}{}
		}
		for _, next := range sets[1:] {
			acc = fold(acc, next)
		}
		return Value{kind: KindSet, set: acc}, nil
	})
}

// Print writes a truncated rendering of the value to w (stdout when nil) and
// passes the value through unchanged, for inline inspection mid-chain.
func Print(w io.Writer, opts ...Option) *Pipe {
	if w == nil {
		w = os.Stdout
	}
	return New(func(v Value) (Value, error) {
		s := v.String()
		if len(s) > printCap {
			s = s[:printCap]
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return Value{}, err
		}
		return v, nil
	}, opts...)
}

// Get extracts a nested value by a dotted path, where each step is a
// sequence index or a mapping key. A missing mapping key yields nil; an
// invalid index is a fault.
func Get(path string, opts ...Option) *Pipe {
	return New(func(v Value) (Value, error) {
		return getPath(v, path)
	}, opts...)
}

func getPath(v Value, path string) (Value, error) {
	cur := v
	for _, step := range strings.Split(path, ".") {
		switch cur.kind {
		case KindSeq:
			idx, err := strconv.Atoi(step)
			if err != nil {
				return Value{}, fmt.Errorf("step %q indexes a sequence", step)
			}
			if idx < 0 || idx >= len(cur.seq) {
				return Value{}, fmt.Errorf("index %d out of range", idx)
			}
			cur = cur.seq[idx]
		case KindMap:
			next, ok := cur.Get(step)
			if !ok {
				return Value{}, nil
			}
			cur = next
		default:
			return Value{}, fmt.Errorf("step %q indexes a scalar", step)
		}
	}
	return cur, nil
}

// WarnIfEmpty passes the value through, emitting a warning when it is empty.
// Meant as a chain checkpoint after a download or parse stage.
func WarnIfEmpty(opts ...Option) *Pipe {
	o := newOptions(opts)
	return newPipe(o, func(v Value) (Value, error) {
		if !v.Truthy() {
			o.warns.Warn(errors.New("no registers were found"))
		}
		return v, nil
	})
}

// DedupeBy concatenates groups of record mappings, keeping a record only if
// its id was not seen in any earlier group. Ids may repeat within a group;
// only cross-group repetition is filtered.
func DedupeBy(idKey string, opts ...Option) *Pipe {
	return New(func(v Value) (Value, error) {
		var out []Value
		seen := make([]Value, 0)
		for _, group := range elements(v) {
			var groupIDs []Value
			for _, rec := range elements(group) {
				id, err := getPath(rec, idKey)
				if err != nil {
					return Value{}, err
				}
				if containsValue(seen, id) {
					continue
				}
				groupIDs = append(groupIDs, id)
				out = append(out, rec)
			}
			seen = append(seen, groupIDs...)
		}
		return SeqOf(out...), nil
	}, opts...)
}

func containsValue(vs []Value, v Value) bool {
	for _, e := range vs {
		if e.Equal(v) {
			return true
		}
	}
	return false
}
