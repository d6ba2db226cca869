package genome

import (
	"slices"
	"strings"

	"github.com/ezrec/evocpu/inst"
)

// Flag is a per-slot memory flag.
type Flag uint8

const (
	FLAG_EXECUTED = Flag(1 << 0) // Slot was executed.
	FLAG_MUTATED  = Flag(1 << 1) // Slot was changed by any mutation.
	FLAG_COPY_MUT = Flag(1 << 2) // Slot was changed by a copy mutation.
	FLAG_COPIED   = Flag(1 << 3) // Slot was written by a copy.
)

// Genome is a sequence of instructions.
type Genome []inst.Instruction

// Clone returns an independent copy.
func (g Genome) Clone() Genome {
	return slices.Clone(g)
}

// Equal is true if both genomes hold the same instructions.
func (g Genome) Equal(other Genome) bool {
	return slices.Equal(g, other)
}

// Format renders the genome as instruction names, one per line.
func (g Genome) Format(set *inst.Set) string {
	var sb strings.Builder
	for _, ins := range g {
		sb.WriteString(set.Symbol(ins))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the genome as opcode symbols.
func (g Genome) String() string {
	buf := make([]byte, len(g))
	for n, ins := range g {
		buf[n] = inst.Symbol(ins)
	}
	return string(buf)
}

// Memory is the mutable instruction buffer of one CPU.
type Memory struct {
	code  Genome
	flags []Flag
}

// NewMemory creates a memory holding a copy of a genome.
func NewMemory(g Genome) (mem *Memory) {
	mem = &Memory{}
	mem.Load(g)
	return
}

// Load replaces the contents with a copy of a genome and clears all flags.
func (mem *Memory) Load(g Genome) {
	mem.code = append(mem.code[:0], g...)
	mem.flags = slices.Grow(mem.flags[:0], len(g))[:len(g)]
	clear(mem.flags)
}

// Len returns the number of slots.
func (mem *Memory) Len() int {
	return len(mem.code)
}

// At returns the instruction at a slot.
func (mem *Memory) At(pos int) inst.Instruction {
	return mem.code[pos]
}

// Set writes the instruction at a slot.
func (mem *Memory) Set(pos int, ins inst.Instruction) {
	mem.code[pos] = ins
}

// Flag tests a flag at a slot.
func (mem *Memory) Flag(pos int, flag Flag) bool {
	return mem.flags[pos]&flag != 0
}

// SetFlag sets flags at a slot.
func (mem *Memory) SetFlag(pos int, flag Flag) {
	mem.flags[pos] |= flag
}

// ClearFlag clears flags at a slot.
func (mem *Memory) ClearFlag(pos int, flag Flag) {
	mem.flags[pos] &^= flag
}

// ClearFlags clears every flag of every slot.
func (mem *Memory) ClearFlags() {
	clear(mem.flags)
}

// Count returns the number of slots in [from, to) with a flag set.
func (mem *Memory) Count(flag Flag, from, to int) (count int) {
	from = max(from, 0)
	to = min(to, len(mem.flags))
	for pos := from; pos < to; pos++ {
		if mem.flags[pos]&flag != 0 {
			count++
		}
	}
	return
}

// Insert places instructions before a slot; the new slots have no flags.
func (mem *Memory) Insert(pos int, ins ...inst.Instruction) {
	mem.code = slices.Insert(mem.code, pos, ins...)
	mem.flags = slices.Insert(mem.flags, pos, make([]Flag, len(ins))...)
}

// Remove deletes count slots starting at pos.
func (mem *Memory) Remove(pos int, count int) {
	mem.code = slices.Delete(mem.code, pos, pos+count)
	mem.flags = slices.Delete(mem.flags, pos, pos+count)
}

// Resize changes the number of slots. Growth within the previous capacity
// exposes whatever instructions were last stored there; callers that need a
// defined fill must write it. New slots have no flags.
func (mem *Memory) Resize(size int) {
	old := len(mem.code)
	if size <= cap(mem.code) {
		mem.code = mem.code[:size]
	} else {
		mem.code = append(mem.code, make(Genome, size-old)...)
	}
	if size <= cap(mem.flags) {
		mem.flags = mem.flags[:size]
	} else {
		mem.flags = append(mem.flags, make([]Flag, size-len(mem.flags))...)
	}
	if size > old {
		clear(mem.flags[old:])
	}
}

// Genome returns a snapshot of the whole memory.
func (mem *Memory) Genome() Genome {
	return mem.code.Clone()
}

// Slice returns a snapshot of the slots [from, to).
func (mem *Memory) Slice(from, to int) Genome {
	return slices.Clone(mem.code[from:to])
}

// Clone returns an independent copy, flags included.
func (mem *Memory) Clone() *Memory {
	return &Memory{
		code:  mem.code.Clone(),
		flags: slices.Clone(mem.flags),
	}
}

// Flags returns a snapshot of the per-slot flags.
func (mem *Memory) Flags() []Flag {
	return slices.Clone(mem.flags)
}
