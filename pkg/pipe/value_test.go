package pipe

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfScalarsStayAtomic(t *testing.T) {
	assert.Equal(t, KindScalar, Of("hello").Kind())
	assert.Equal(t, KindScalar, Of([]byte("hello")).Kind())
	assert.Equal(t, KindScalar, Of(42).Kind())
	assert.Equal(t, KindScalar, Of(nil).Kind())
	assert.True(t, Of(nil).IsNil())
}

func TestOfNormalizesNestedContainers(t *testing.T) {
	v := Of(map[string]any{
		"a": map[string]any{"deep": "dictionary"},
		"b": []any{2, 3, 4},
	})
	require.Equal(t, KindMap, v.Kind())
	assert.Equal(t, []string{"a", "b"}, v.Keys())

	a, ok := v.Get("a")
	require.True(t, ok)
	assert.Equal(t, KindMap, a.Kind())

	b, ok := v.Get("b")
	require.True(t, ok)
	assert.Equal(t, KindSeq, b.Kind())
	assert.Equal(t, 3, b.Len())
}

func TestOfDrainsIterators(t *testing.T) {
	var src iter.Seq[any] = func(yield func(any) bool) {
		for i := 0; i < 10; i++ {
			if !yield(i + 2) {
				return
			}
		}
	}
	v := Of(src)
	require.Equal(t, KindSeq, v.Kind())
	assert.Equal(t, 10, v.Len())
	// Draining makes it multi-use: the same Value enumerates twice.
	assert.Equal(t, v.Items()[0], v.Items()[0])
	first, ok := v.Items()[0].Int()
	require.True(t, ok)
	assert.Equal(t, 2, first)
}

func TestOfSets(t *testing.T) {
	v := Of(map[any]struct{}{1: {}, 2: {}, 3: {}})
	require.Equal(t, KindSet, v.Kind())
	assert.True(t, v.Has(2))
	assert.False(t, v.Has(4))
	assert.Equal(t, 3, v.Len())
}

func TestOfNamedSliceFallsBackToReflection(t *testing.T) {
	type ids []int64
	v := Of(ids{7, 8})
	require.Equal(t, KindSeq, v.Kind())
	assert.Equal(t, 2, v.Len())
}

func TestEqualCoercesNumerics(t *testing.T) {
	assert.True(t, Scalar(1).Equal(Scalar(1.0)))
	assert.True(t, Scalar(int64(5)).Equal(Scalar(5)))
	assert.False(t, Scalar(1).Equal(Scalar("1")))
}

func TestContains(t *testing.T) {
	seq := Range(0, 10)
	assert.True(t, seq.Contains(Scalar(9)))
	assert.False(t, seq.Contains(Scalar(10)))

	m := Of(map[string]any{"one": 1})
	assert.True(t, m.Contains(Scalar("one")))
	assert.False(t, m.Contains(Scalar(1)))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Value{}.Truthy())
	assert.False(t, Scalar(0).Truthy())
	assert.False(t, Scalar("").Truthy())
	assert.False(t, SeqOf().Truthy())
	assert.True(t, Scalar(-1).Truthy())
	assert.True(t, Scalar("x").Truthy())
	assert.True(t, Range(0, 1).Truthy())
}

func TestInterfaceRoundTrip(t *testing.T) {
	v := Of(map[string]any{"xs": []any{1, 2}, "name": "n"})
	back := v.Interface().(map[string]any)
	assert.Equal(t, "n", back["name"])
	assert.Len(t, back["xs"].([]any), 2)
}
