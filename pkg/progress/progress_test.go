package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachVisitsInOrder(t *testing.T) {
	var visited []int
	err := ForEach([]int{1, 2, 3}, func(n int) error {
		visited = append(visited, n)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, visited)
}

func TestForEachStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var visited []string
	err := ForEach([]string{"a", "b", "c"}, func(s string) error {
		visited = append(visited, s)
		if s == "b" {
			return boom
		}
		return nil
	}, WithDescribe(func(s string) string { return "processing " + s }))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, visited)
}
