package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		nops  []int
		comp  []int
		value int
		text  string
	}{
		{nil, nil, 0, ""},
		{[]int{0}, []int{1}, 0, "A"},
		{[]int{2, 0}, []int{0, 1}, 6, "CA"},
		{[]int{1, 2, 2}, []int{2, 0, 0}, 17, "BCC"},
	}

	for _, entry := range table {
		label := MakeLabel(entry.nops...)
		comp := label.Complement(3)
		assert.Equal(len(entry.comp), comp.Len(), entry.text)
		if len(entry.comp) > 0 {
			assert.Equal(entry.comp, comp.Values(), entry.text)
		}
		assert.Equal(entry.value, label.AsInt(3), entry.text)
		assert.Equal(entry.text, label.String())

		// Rotating by the base restores the label.
		comp.Rotate(2, 3)
		assert.True(comp.Equal(&label), entry.text)
	}

	label := MakeLabel()
	for n := range MAX_LABEL_SIZE + 3 {
		label.Add(n % 3)
	}
	assert.Equal(MAX_LABEL_SIZE, label.Len())
	label.Clear()
	assert.Equal(0, label.Len())
}
