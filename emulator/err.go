package emulator

import (
	"errors"

	"github.com/ezrec/evocpu/translate"
)

var f = translate.From

var (
	ErrDead = errors.New(f("organism is dead"))
)

// ErrRuntime indicates the cycle of a runtime error.
type ErrRuntime struct {
	Cycle int
	Err   error
}

func (err *ErrRuntime) Error() string {
	return f("cycle %d %v", err.Cycle, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
