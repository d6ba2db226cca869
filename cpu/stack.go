package cpu

import (
	"slices"
)

const (
	STACK_SIZE = 10 // Default stack depth
)

// Stack is a bounded value stack. Pushing onto a full stack drops the
// oldest entry, and popping an empty stack yields zero.
type Stack struct {
	Limit int // Maximum depth, STACK_SIZE if zero.
	Data  []int32
}

func (s *Stack) limit() int {
	if s.Limit > 0 {
		return s.Limit
	}
	return STACK_SIZE
}

func (s *Stack) Push(value int32) {
	if s.Full() {
		copy(s.Data, s.Data[1:])
		s.Data = s.Data[:len(s.Data)-1]
	}
	s.Data = append(s.Data, value)
}

func (s *Stack) Pop() (value int32, ok bool) {
	value, ok = s.Peek()
	if ok {
		s.Data = s.Data[:len(s.Data)-1]
	}
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) >= s.limit()
}

func (s *Stack) Peek() (value int32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

// Flip reverses the stack, top to bottom.
func (s *Stack) Flip() {
	slices.Reverse(s.Data)
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}

// Clone returns an independent copy.
func (s *Stack) Clone() Stack {
	return Stack{Limit: s.Limit, Data: slices.Clone(s.Data)}
}
