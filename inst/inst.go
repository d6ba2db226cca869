package inst

import (
	"fmt"
	"strings"
)

// Instruction is a single genome slot, an opcode into a Set.
type Instruction uint8

// MAX_SET_SIZE is the largest number of opcodes a Set can hold.
const MAX_SET_SIZE = 256

// Class is the execution class of an instruction.
type Class int

const (
	CLASS_NOP         = Class(0) // nop
	CLASS_CONDITIONAL = Class(1) // cond
	CLASS_FLOW        = Class(2) // flow
	CLASS_DATA        = Class(3) // data
	CLASS_ARITHMETIC  = Class(4) // arith
	CLASS_LIFECYCLE   = Class(5) // life
	CLASS_ENVIRONMENT = Class(6) // env
	CLASS_OTHER       = Class(7) // other
)

var className = [...]string{"nop", "cond", "flow", "data", "arith", "life", "env", "other"}

func (cl Class) String() string {
	if cl < 0 || int(cl) >= len(className) {
		return fmt.Sprintf("Class(%d)", int(cl))
	}
	return className[cl]
}

// Flag is the set of behavioural flags of an instruction.
type Flag uint8

const (
	FLAG_DEFAULT = Flag(1 << 0) // Included in the baseline instruction set.
	FLAG_NOP     = Flag(1 << 1) // Register/head modifier for the preceding instruction.
	FLAG_STALL   = Flag(1 << 2) // Must pay its costs before it may execute.
	FLAG_SLEEP   = Flag(1 << 3) // Execution idles the organism.
)

// String returns the flags as a compact 'DNTS' style string.
func (fl Flag) String() string {
	var sb strings.Builder
	for n, ch := range "DNTS" {
		if fl&(1<<n) != 0 {
			sb.WriteRune(ch)
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// Entry is the flat attribute record of one opcode.
type Entry struct {
	Name       string  // Symbolic name, ie 'h-copy'.
	Class      Class   // Execution class.
	Flags      Flag    // Behavioural flags.
	NopMod     int     // Register or head index encoded by a nop.
	Redundancy int     // Weight when drawing a random instruction.
	Cost       int     // Cycles stalled on every use.
	FtCost     int     // Cycles stalled on first use only.
	EnergyCost float64 // Energy paid through the organism.
	AddlTime   int     // Additional time charged after execution.
	ProbFail   float64 // Probability that execution is skipped.
	Code       uint32  // Bit code read by promoter numberation.
}

// Symbol returns the single character display symbol of an opcode.
func Symbol(ins Instruction) byte {
	const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	if int(ins) < len(symbols) {
		return symbols[ins]
	}
	return '?'
}
