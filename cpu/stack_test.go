package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	assert := assert.New(t)

	stack := &Stack{Limit: 3}
	assert.True(stack.Empty())

	value, ok := stack.Pop()
	assert.False(ok)
	assert.Equal(int32(0), value)

	for n := range 5 {
		stack.Push(int32(n))
	}
	assert.True(stack.Full())
	assert.Equal([]int32{2, 3, 4}, stack.Data)

	clone := stack.Clone()
	stack.Flip()
	assert.Equal([]int32{4, 3, 2}, stack.Data)
	assert.Equal([]int32{2, 3, 4}, clone.Data)

	value, ok = stack.Pop()
	assert.True(ok)
	assert.Equal(int32(2), value)

	stack.Reset()
	assert.True(stack.Empty())

	stack = &Stack{}
	for n := range STACK_SIZE + 1 {
		stack.Push(int32(n))
	}
	assert.Len(stack.Data, STACK_SIZE)
}
