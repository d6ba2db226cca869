package cpu

import (
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
)

// Head indices.
const (
	HEAD_IP    = 0 // Instruction pointer
	HEAD_READ  = 1 // Copy source
	HEAD_WRITE = 2 // Copy destination
	HEAD_FLOW  = 3 // Jump target
	NUM_HEADS  = 4
)

var headName = [NUM_HEADS]string{"ip", "read", "write", "flow"}

// Head is a cursor into a memory buffer. The position is normalized
// against the current buffer length before every dereference.
type Head struct {
	pos int
	mem *genome.Memory
}

// NewHead creates a head at a position of a memory.
func NewHead(mem *genome.Memory, pos int) (h Head) {
	h = Head{pos: pos, mem: mem}
	h.Adjust()
	return
}

// Memory returns the bound memory.
func (h *Head) Memory() *genome.Memory {
	return h.mem
}

// Position returns the raw position.
func (h *Head) Position() int {
	return h.pos
}

// Adjust wraps the position into the memory.
func (h *Head) Adjust() {
	size := h.mem.Len()
	if size == 0 {
		h.pos = 0
		return
	}
	h.pos %= size
	if h.pos < 0 {
		h.pos += size
	}
}

// Set the position, with wraparound.
func (h *Head) Set(pos int) {
	h.pos = pos
	h.Adjust()
}

// AbsSet sets the position without wraparound.
func (h *Head) AbsSet(pos int) {
	h.pos = pos
}

// Jump moves the position relatively, with wraparound.
func (h *Head) Jump(offset int) {
	h.pos += offset
	h.Adjust()
}

// AbsJump moves the position relatively, without wraparound.
func (h *Head) AbsJump(offset int) {
	h.pos += offset
}

// Advance moves to the next slot.
func (h *Head) Advance() {
	h.Jump(1)
}

// Retreat moves to the previous slot.
func (h *Head) Retreat() {
	h.Jump(-1)
}

// Inst returns the instruction under the head.
func (h *Head) Inst() inst.Instruction {
	h.Adjust()
	return h.mem.At(h.pos)
}

// NextInst returns the instruction after the head.
func (h *Head) NextInst() inst.Instruction {
	next := NewHead(h.mem, h.pos+1)
	return next.Inst()
}

// SetInst writes the instruction under the head.
func (h *Head) SetInst(ins inst.Instruction) {
	h.Adjust()
	h.mem.Set(h.pos, ins)
}

// InsertInst inserts an instruction at the head.
func (h *Head) InsertInst(ins inst.Instruction) {
	h.Adjust()
	h.mem.Insert(h.pos, ins)
}

// RemoveInst removes the instruction at the head. The last slot of a
// memory is never removed.
func (h *Head) RemoveInst() {
	if h.mem.Len() <= 1 {
		return
	}
	h.Adjust()
	h.mem.Remove(h.pos, 1)
}

// Flag tests a slot flag under the head.
func (h *Head) Flag(flag genome.Flag) bool {
	h.Adjust()
	return h.mem.Flag(h.pos, flag)
}

// SetFlag sets a slot flag under the head.
func (h *Head) SetFlag(flag genome.Flag) {
	h.Adjust()
	h.mem.SetFlag(h.pos, flag)
}

// ClearFlag clears a slot flag under the head.
func (h *Head) ClearFlag(flag genome.Flag) {
	h.Adjust()
	h.mem.ClearFlag(h.pos, flag)
}
