package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"a": 1})
	b := maps.All(map[string]int{"b": 2})

	var keys []string
	for k, v := range Concat2(a, b, a) {
		keys = append(keys, k)
		assert.Equal(map[string]int{"a": 1, "b": 2}[k], v)
	}
	assert.Equal([]string{"a", "b", "a"}, keys)

	// Stops early.
	keys = nil
	for k := range Concat2(a, b) {
		keys = append(keys, k)
		break
	}
	assert.Equal([]string{"a"}, keys)

	assert.Empty(slices.Collect(func(yield func(string) bool) {
		for k := range Concat2[string, int]() {
			yield(k)
		}
	}))
}
