package inst

import (
	"errors"

	"github.com/ezrec/evocpu/translate"
)

var f = translate.From

var (
	ErrSetEmpty    = errors.New(f("instruction set empty"))
	ErrSetTooLarge = errors.New(f("instruction set too large"))
	ErrNopMod      = errors.New(f("nop modifier out of range"))
	ErrRedundancy  = errors.New(f("redundancy negative"))
	ErrProbFail    = errors.New(f("failure probability out of range"))
)

// ErrDuplicate is returned when an instruction name appears twice in a set.
type ErrDuplicate string

func (err ErrDuplicate) Error() string {
	return f("instruction %v duplicated", string(err))
}

// ErrUnknown is returned when an instruction name is not known.
type ErrUnknown string

func (err ErrUnknown) Error() string {
	return f("instruction %v unknown", string(err))
}

// ErrCode is returned when an instruction bit code is not a binary string.
type ErrCode string

func (err ErrCode) Error() string {
	return f("'%v' is not a binary code", string(err))
}
