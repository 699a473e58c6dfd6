package pipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addElem(extra int) *Pipe {
	return New(func(v Value) (Value, error) {
		out := append([]Value{}, elements(v)...)
		return SeqOf(append(out, Scalar(extra))...), nil
	})
}

func TestApplyNormalizesAndFlattens(t *testing.T) {
	wrap := New(func(v Value) (Value, error) {
		return SeqOf(SeqOf(SeqOf(v))), nil
	})
	// 3 | Pipe(x -> [[[x]]]) yields [3].
	out := wrap.Apply(3)
	require.Equal(t, KindSeq, out.Kind())
	assert.True(t, out.Equal(List(3)))
}

func TestApplyAbsorbsErrors(t *testing.T) {
	warns := NewWarnings(nil)
	boom := New(func(Value) (Value, error) {
		return Value{}, errors.New("bad record")
	}, WithWarnings(warns))

	out := boom.Apply("anything")
	assert.True(t, out.IsNil())
	assert.Equal(t, 1, warns.Count())
	require.Len(t, warns.Reasons(), 1)
	assert.EqualError(t, warns.Reasons()[0], "bad record")
}

func TestApplyAbsorbsPanics(t *testing.T) {
	warns := NewWarnings(nil)
	boom := New(func(v Value) (Value, error) {
		var xs []int
		return Scalar(xs[3]), nil
	}, WithWarnings(warns))

	assert.NotPanics(t, func() {
		out := boom.Apply(Range(0, 3))
		assert.True(t, out.IsNil())
	})
	assert.Equal(t, 1, warns.Count())
}

func TestApplyOutcome(t *testing.T) {
	ok := New(func(v Value) (Value, error) { return v, nil })
	out := ok.ApplyOutcome(Range(0, 3))
	require.True(t, out.IsSuccess())
	assert.Equal(t, 3, out.Result().Len())

	bad := New(func(Value) (Value, error) { return Value{}, errors.New("nope") })
	res := bad.ApplyOutcome(1)
	assert.False(t, res.IsSuccess())
	assert.EqualError(t, res.Err(), "nope")
}

func TestThenComposesSequentially(t *testing.T) {
	p := addElem(10).Then(addElem(11))
	out := p.Apply(Range(0, 2))
	assert.True(t, out.Equal(List(0, 1, 10, 11)))
}

func TestComposeAssociative(t *testing.T) {
	a, b, c := addElem(7), addElem(8), addElem(9)
	in := Range(0, 3)

	left := a.Then(b).Then(c).Apply(in)
	right := a.Then(b.Then(c)).Apply(in)
	folded := Compose(a, b, c).Apply(in)

	assert.True(t, left.Equal(right))
	assert.True(t, left.Equal(folded))
}

func TestComposeEmptyIsIdentity(t *testing.T) {
	out := Compose().Apply(Range(0, 4))
	assert.True(t, out.Equal(Range(0, 4)))
}

func TestFaultMidChainContinuesWithNil(t *testing.T) {
	warns := NewWarnings(nil)
	fail := New(func(Value) (Value, error) {
		return Value{}, errors.New("stage down")
	}, WithWarnings(warns))
	count := New(func(v Value) (Value, error) {
		return Scalar(v.Len()), nil
	}, WithWarnings(warns))

	out := fail.Then(count).Apply(Range(0, 5))
	n, ok := out.Int()
	require.True(t, ok)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, warns.Count())
}

func TestBindCurriesTrailingArguments(t *testing.T) {
	times := Bind(func(v Value, args ...any) (Value, error) {
		factor := args[0].(int)
		n, ok := v.Int()
		if !ok {
			return Value{}, errors.New("not a number")
		}
		return Scalar(n * factor), nil
	}, 3)

	n, ok := times.Apply(7).Int()
	require.True(t, ok)
	assert.Equal(t, 21, n)
}
