package cpu

import (
	"errors"

	"github.com/ezrec/evocpu/translate"
)

var f = translate.From

var (
	// Soft faults
	ErrNoLabel        = errors.New(f("no complement label"))
	ErrDivideByZero   = errors.New(f("divide by zero"))
	ErrModuloByZero   = errors.New(f("modulo by zero"))
	ErrOverflow       = errors.New(f("arithmetic overflow"))
	ErrNegativeSqrt   = errors.New(f("square root of a negative value"))
	ErrNegativeLog    = errors.New(f("logarithm of a negative value"))
	ErrAllocActive    = errors.New(f("allocate already active"))
	ErrAllocTooSmall  = errors.New(f("allocate too small"))
	ErrAllocTooLarge  = errors.New(f("allocate too large"))
	ErrAllocSize      = errors.New(f("invalid post-allocate size"))
	ErrThreadFork     = errors.New(f("thread table full"))
	ErrThreadKill     = errors.New(f("cannot kill the last thread"))
	ErrUnsupported    = errors.New(f("unsupported by the organism"))
	ErrMessageMissing = errors.New(f("no message to retrieve"))
	ErrOpinionMissing = errors.New(f("no opinion"))

	// Policy rejections
	ErrRejected       = errors.New(f("rejected"))
	ErrOffspringSize  = errors.New(f("invalid offspring length"))
	ErrParentSize     = errors.New(f("invalid post-divide length"))
	ErrExecutedLines  = errors.New(f("too few executed lines"))
	ErrCopiedLines    = errors.New(f("too few copied lines"))
	ErrNoAllocate     = errors.New(f("must allocate before divide"))
	ErrNotExactCopy   = errors.New(f("offspring is not an exact copy"))
	ErrEnvironmentNak = errors.New(f("refused by the environment"))

	// Construction errors
	ErrGenomeEmpty = errors.New(f("genome empty"))
	ErrTableEmpty  = errors.New(f("instruction set has no nop modifiers"))

	// Internal consistency
	ErrThreadCount = errors.New(f("thread count changed without a declared effect"))
)

// reject wraps a policy rejection reason.
func reject(reason error) error {
	return errors.Join(ErrRejected, reason)
}

// FaultLocation is the subsystem that raised a fault.
type FaultLocation int

const (
	FAULT_LOC_JUMP        = FaultLocation(0) // jump
	FAULT_LOC_MATH        = FaultLocation(1) // math
	FAULT_LOC_ALLOC       = FaultLocation(2) // alloc
	FAULT_LOC_DIVIDE      = FaultLocation(3) // divide
	FAULT_LOC_THREAD_FORK = FaultLocation(4) // fork
	FAULT_LOC_THREAD_KILL = FaultLocation(5) // kill
	FAULT_LOC_ENVIRONMENT = FaultLocation(6) // env
	FAULT_LOC_INSTRUCTION = FaultLocation(7) // inst
)

var faultLocationName = [...]string{"jump", "math", "alloc", "divide", "fork", "kill", "env", "inst"}

func (loc FaultLocation) String() string {
	if loc < 0 || int(loc) >= len(faultLocationName) {
		return "unknown"
	}
	return faultLocationName[loc]
}

// FaultType is the severity of a fault.
type FaultType int

const (
	FAULT_TYPE_ERROR = FaultType(0) // error
)

func (ft FaultType) String() string {
	return "error"
}

// Fault is a non-fatal instruction failure reported to the organism.
type Fault struct {
	Location FaultLocation
	Type     FaultType
	Inst     string // Filled in by the dispatcher.
	Err      error
}

func (fault *Fault) Error() string {
	return f("%v %v: %v: %v", fault.Location, fault.Type, fault.Inst, fault.Err)
}

func (fault *Fault) Unwrap() error {
	return fault.Err
}

// fault creates a soft fault.
func fault(loc FaultLocation, err error) *Fault {
	return &Fault{Location: loc, Type: FAULT_TYPE_ERROR, Err: err}
}
