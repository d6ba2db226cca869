package config

import (
	"errors"

	"github.com/ezrec/evocpu/translate"
)

var f = translate.From

var (
	ErrRegisters   = errors.New(f("registers must be at least 3"))
	ErrStackSize   = errors.New(f("stack size must be positive"))
	ErrLabelSize   = errors.New(f("label size out of range"))
	ErrMaxThreads  = errors.New(f("thread limit out of range"))
	ErrGenomeSize  = errors.New(f("genome size bounds invalid"))
	ErrSizeRange   = errors.New(f("size range must be at least 1.0"))
	ErrFraction    = errors.New(f("fraction out of range"))
	ErrProbability = errors.New(f("probability out of range"))
	ErrPromoter    = errors.New(f("promoter parameters invalid"))
	ErrRetries     = errors.New(f("resample retries negative"))
)

// ErrUnknownKey is returned for configuration keys that match no field.
type ErrUnknownKey string

func (err ErrUnknownKey) Error() string {
	return f("unknown configuration key %v", string(err))
}

// ErrOption is returned for an unknown enumerated option.
type ErrOption struct {
	Option string
	Value  string
}

func (err ErrOption) Error() string {
	return f("%v: '%v' is not a valid choice", err.Option, err.Value)
}
