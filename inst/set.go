package inst

import (
	"iter"
	"slices"
)

// Intner is the random source used to draw instructions.
type Intner interface {
	IntN(n int) int
}

// Set is an immutable instruction table.
type Set struct {
	name     string
	entries  []Entry
	index    map[string]Instruction
	nops     int
	weight   []int // Cumulative redundancy.
	hasCosts bool
}

// NewSet creates a Set from its entries; opcodes are assigned in order.
func NewSet(name string, entries []Entry) (set *Set, err error) {
	if len(entries) == 0 {
		err = ErrSetEmpty
		return
	}
	if len(entries) > MAX_SET_SIZE {
		err = ErrSetTooLarge
		return
	}

	set = &Set{
		name:    name,
		entries: slices.Clone(entries),
		index:   make(map[string]Instruction, len(entries)),
		weight:  make([]int, len(entries)),
	}

	total := 0
	for n := range set.entries {
		entry := &set.entries[n]
		if _, ok := set.index[entry.Name]; ok {
			set, err = nil, ErrDuplicate(entry.Name)
			return
		}
		set.index[entry.Name] = Instruction(n)
		if entry.Redundancy < 0 {
			set, err = nil, ErrRedundancy
			return
		}
		if entry.ProbFail < 0 || entry.ProbFail > 1 {
			set, err = nil, ErrProbFail
			return
		}
		if entry.Flags&FLAG_NOP != 0 {
			set.nops++
		}
		if entry.Cost > 0 || entry.FtCost > 0 || entry.EnergyCost > 0 {
			entry.Flags |= FLAG_STALL
		}
		if entry.Flags&FLAG_STALL != 0 {
			set.hasCosts = true
		}
		total += entry.Redundancy
		set.weight[n] = total
	}

	// Nop modifiers must address within the nop count, since label
	// complements rotate modulo that count.
	for _, entry := range set.entries {
		if entry.Flags&FLAG_NOP != 0 && (entry.NopMod < 0 || entry.NopMod >= set.nops) {
			set, err = nil, ErrNopMod
			return
		}
	}

	return
}

// Name of the set.
func (set *Set) Name() string {
	return set.name
}

// Len returns the number of opcodes.
func (set *Set) Len() int {
	return len(set.entries)
}

// NumNops returns the number of nop modifier opcodes.
func (set *Set) NumNops() int {
	return set.nops
}

// HasCosts is true if any opcode is flagged STALL.
func (set *Set) HasCosts() bool {
	return set.hasCosts
}

// Entry returns the attributes of an opcode.
func (set *Set) Entry(ins Instruction) *Entry {
	return &set.entries[int(ins)%len(set.entries)]
}

// Lookup an opcode by name.
func (set *Set) Lookup(name string) (ins Instruction, ok bool) {
	ins, ok = set.index[name]
	return
}

// Symbol returns the name of an opcode.
func (set *Set) Symbol(ins Instruction) string {
	return set.Entry(ins).Name
}

// IsNop is true for nop modifier opcodes.
func (set *Set) IsNop(ins Instruction) bool {
	return set.Entry(ins).Flags&FLAG_NOP != 0
}

// NopMod returns the register/head index of a nop modifier.
func (set *Set) NopMod(ins Instruction) int {
	return set.Entry(ins).NopMod
}

// ShouldStall is true if the opcode must pay costs before executing.
func (set *Set) ShouldStall(ins Instruction) bool {
	return set.Entry(ins).Flags&FLAG_STALL != 0
}

// ShouldSleep is true if the opcode idles the organism.
func (set *Set) ShouldSleep(ins Instruction) bool {
	return set.Entry(ins).Flags&FLAG_SLEEP != 0
}

// Code returns the promoter bit code of an opcode.
func (set *Set) Code(ins Instruction) uint32 {
	return set.Entry(ins).Code
}

// Default returns the fill instruction for newly allocated memory.
func (set *Set) Default() Instruction {
	return 0
}

// Random draws an opcode weighted by redundancy.
func (set *Set) Random(rc Intner) Instruction {
	total := set.weight[len(set.weight)-1]
	if total == 0 {
		return Instruction(rc.IntN(len(set.entries)))
	}
	pick := rc.IntN(total)
	n, _ := slices.BinarySearch(set.weight, pick+1)
	return Instruction(n)
}

// All iterates over every opcode and its entry.
func (set *Set) All() iter.Seq2[Instruction, *Entry] {
	return func(yield func(Instruction, *Entry) bool) {
		for n := range set.entries {
			if !yield(Instruction(n), &set.entries[n]) {
				return
			}
		}
	}
}
