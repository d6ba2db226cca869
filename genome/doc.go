// Package genome implements the self-modifying memory of an evocpu organism
// and the assembler for genome listings.
//
// A Memory is an owned, resizable sequence of instructions with four flag
// bits per slot (executed, mutated, copy-mutated, copied). A Genome is an
// immutable snapshot of such a sequence, used for offspring and for the
// birth state of an organism.
package genome
