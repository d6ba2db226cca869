// Package inst implements the instruction tables of the evocpu virtual CPU.
//
// An instruction Set maps opcodes to flat Entry records: the symbolic name,
// an execution class, the DEFAULT/NOP/STALL/SLEEP flag set, the register or
// head index carried by nop modifiers, and the per-instruction costs used by
// the dispatch engine. Sets are built once and then only read.
package inst
