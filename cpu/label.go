package cpu

import (
	"slices"
	"strings"

	"github.com/ezrec/evocpu/config"
)

const (
	MAX_LABEL_SIZE = config.MAX_LABEL_SIZE // Longest storable label
)

// Label is a sequence of nop modifier values.
type Label struct {
	nops []int
}

// Len returns the number of nops.
func (l *Label) Len() int {
	return len(l.nops)
}

// At returns the nop value at an index.
func (l *Label) At(n int) int {
	return l.nops[n]
}

// Add appends a nop value, up to MAX_LABEL_SIZE values.
func (l *Label) Add(nop int) {
	if len(l.nops) < MAX_LABEL_SIZE {
		l.nops = append(l.nops, nop)
	}
}

// Clear empties the label.
func (l *Label) Clear() {
	l.nops = l.nops[:0]
}

// Rotate adds rot to every value, modulo base.
func (l *Label) Rotate(rot int, base int) {
	if base <= 0 {
		return
	}
	for n, nop := range l.nops {
		l.nops[n] = ((nop+rot)%base + base) % base
	}
}

// Complement returns the label rotated by one, modulo base.
func (l *Label) Complement(base int) (comp Label) {
	comp = l.Clone()
	comp.Rotate(1, base)
	return
}

// Equal is true if both labels hold the same values.
func (l *Label) Equal(other *Label) bool {
	return slices.Equal(l.nops, other.nops)
}

// AsInt interprets the label as a base-N number, most significant first.
func (l *Label) AsInt(base int) (value int) {
	for _, nop := range l.nops {
		value = value*base + nop
	}
	return
}

// Clone returns an independent copy.
func (l *Label) Clone() Label {
	return Label{nops: slices.Clone(l.nops)}
}

// Values returns a copy of the nop values.
func (l *Label) Values() []int {
	return slices.Clone(l.nops)
}

// String renders the label as nop letters, ie 'CA'.
func (l *Label) String() string {
	var sb strings.Builder
	for _, nop := range l.nops {
		sb.WriteByte(byte('A' + nop))
	}
	return sb.String()
}

// MakeLabel creates a label from nop values.
func MakeLabel(nops ...int) Label {
	return Label{nops: slices.Clone(nops)}
}
