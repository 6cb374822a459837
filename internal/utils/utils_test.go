package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertTo(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		index int
		value string
		want  []string
	}{
		{name: "empty", input: nil, index: 0, value: "a", want: []string{"a"}},
		{name: "front", input: []string{"b", "c"}, index: 0, value: "a", want: []string{"a", "b", "c"}},
		{name: "middle", input: []string{"a", "c"}, index: 1, value: "b", want: []string{"a", "b", "c"}},
		{name: "append", input: []string{"a", "b"}, index: 2, value: "c", want: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertTo(tt.input, tt.index, tt.value))
		})
	}
}

func TestFindAndRemove(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, FindAndRemove([]string{"a", "b", "c"}, "b"))
	assert.Equal(t, []string{"a"}, FindAndRemove([]string{"a"}, "x"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-1, 0, 3))
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 2, Clamp(2, 0, 3))
}

func TestSet(t *testing.T) {
	set := make(Set)
	set.Add("b")
	set.Add("b")
	assert.Len(t, set, 1)
	assert.True(t, set.Contains("b"))
	assert.False(t, set.Contains("a"))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 3, "a": 1, "b": 2}))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2, 3}, 2))
	assert.False(t, Contains([]int{1, 2, 3}, 4))
}
