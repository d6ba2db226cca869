package emulator

import (
	"fmt"
	"io"
)

// Tape provides sequential task I/O over text streams of decimal values,
// one value per whitespace separated word.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	eof bool
}

// Read returns the next input value, and false once the input is
// exhausted or unset.
func (tc *Tape) Read() (value int32, ok bool) {
	if tc.Input == nil || tc.eof {
		return
	}

	_, err := fmt.Fscan(tc.Input, &value)
	if err != nil {
		tc.eof = true
		return
	}

	ok = true
	return
}

// Write records an output value, if an output is set.
func (tc *Tape) Write(value int32) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = fmt.Fprintln(tc.Output, value)
	return
}
