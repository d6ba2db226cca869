// Package cpu implements the self-replicating virtual CPU of an evocpu
// organism.
//
// The CPU executes a genome held in a mutable memory buffer. Each thread
// has a register file (AX, BX, CX), four heads (IP, read, write and flow)
// into the shared memory, and two bounded stacks. Instructions take no
// operands: a nop instruction following an instruction modifies its
// default register or head, and runs of nops form labels that jumps and
// searches match against their complements.
//
// Offspring are produced by the copy, allocate and divide instructions,
// with copy and divide time mutations drawn from an rng.Source. An
// optional promoter model gates which regions of the genome execute.
//
// Instructions are looked up in a Table built once per instruction set
// name by LoadTable, and shared read-only by every CPU.
package cpu
