package config

import (
	"slices"
)

// option maps the TOML spelling of an enumerated option to its index.
func parseOption(option string, names []string, text []byte) (index int, err error) {
	index = slices.Index(names, string(text))
	if index < 0 {
		err = ErrOption{Option: option, Value: string(text)}
	}
	return
}

// Slicing is the thread slicing discipline.
type Slicing int

const (
	SLICING_SERIAL   = Slicing(0) // One instruction per step, rotating threads.
	SLICING_PARALLEL = Slicing(1) // One instruction per thread per step.
)

var slicingNames = []string{"serial", "parallel"}

func (v Slicing) String() string { return slicingNames[v] }

func (v Slicing) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Slicing) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("thread_slicing", slicingNames, text)
	*v = Slicing(n)
	return
}

// AllocMethod selects the fill of newly allocated memory.
type AllocMethod int

const (
	ALLOC_DEFAULT = AllocMethod(0) // Fill with the default instruction.
	ALLOC_RANDOM  = AllocMethod(1) // Fill with random instructions.
	ALLOC_NECRO   = AllocMethod(2) // Keep whatever was last stored there.
)

var allocNames = []string{"default", "random", "necro"}

func (v AllocMethod) String() string { return allocNames[v] }

func (v AllocMethod) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *AllocMethod) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("alloc_method", allocNames, text)
	*v = AllocMethod(n)
	return
}

// DivideMethod selects what happens to the parent after a divide.
type DivideMethod int

const (
	DIVIDE_OFFSPRING = DivideMethod(0) // Parent keeps its execution state.
	DIVIDE_SPLIT     = DivideMethod(1) // Parent resets to its birth genome.
)

var divideNames = []string{"offspring", "split"}

func (v DivideMethod) String() string { return divideNames[v] }

func (v DivideMethod) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *DivideMethod) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("divide_method", divideNames, text)
	*v = DivideMethod(n)
	return
}

// SlipMode selects the target of a copy slip mutation.
type SlipMode int

const (
	SLIP_READ   = SlipMode(0) // The read head jumps to a random slot.
	SLIP_BUFFER = SlipMode(1) // A random segment of memory is duplicated or deleted.
)

var slipNames = []string{"read", "buffer"}

func (v SlipMode) String() string { return slipNames[v] }

func (v SlipMode) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *SlipMode) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("copy_slip", slipNames, text)
	*v = SlipMode(n)
	return
}

// SlipFill selects the contents of a slip duplication.
type SlipFill int

const (
	FILL_DUPLICATE = SlipFill(0) // Copy the skipped segment.
	FILL_RANDOM    = SlipFill(1) // Random instructions.
	FILL_DEFAULT   = SlipFill(2) // The default instruction.
)

var fillNames = []string{"duplicate", "random", "default"}

func (v SlipFill) String() string { return fillNames[v] }

func (v SlipFill) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *SlipFill) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("slip_fill", fillNames, text)
	*v = SlipFill(n)
	return
}

// NoActive is the policy when no promoter is active.
type NoActive int

const (
	NO_ACTIVE_RESET = NoActive(0) // Restart execution at position 0.
	NO_ACTIVE_DIE   = NoActive(1) // Kill the organism.
	NO_ACTIVE_HALT  = NoActive(2) // Execute nothing until a promoter activates.
)

var noActiveNames = []string{"reset", "die", "halt"}

func (v NoActive) String() string { return noActiveNames[v] }

func (v NoActive) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *NoActive) UnmarshalText(text []byte) (err error) {
	n, err := parseOption("no_active_promoter", noActiveNames, text)
	*v = NoActive(n)
	return
}
