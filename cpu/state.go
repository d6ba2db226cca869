package cpu

import (
	"slices"

	"github.com/ezrec/evocpu/genome"
)

// ThreadState is a snapshot of a thread.
type ThreadState struct {
	ID                   int
	Reg                  []int32
	Heads                [NUM_HEADS]int
	Stacks               [2][]int32
	CurStack             int
	CurHead              int
	Label                []int
	ReadLabel            []int
	PromoterInstExecuted int
	MessageTrigger       int32
	Waiting              bool
}

// State is a snapshot of the complete CPU state, suitable for comparison
// and status printing.
type State struct {
	Memory         genome.Genome
	Flags          []genome.Flag
	Threads        []ThreadState
	CurThread      int
	Cycles         int
	Time           int
	MalActive      bool
	Promoters      []Promoter
	PromoterIndex  int
	PromoterOffset int
}

// State returns a deep snapshot of the CPU.
func (cpu *Cpu) State() (state State) {
	state = State{
		Memory:         cpu.memory.Genome(),
		Flags:          cpu.memory.Flags(),
		Threads:        make([]ThreadState, len(cpu.threads)),
		CurThread:      cpu.curThread,
		Cycles:         cpu.cycles,
		Time:           cpu.time,
		MalActive:      cpu.malActive,
		Promoters:      slices.Clone(cpu.promoters),
		PromoterIndex:  cpu.promoterIndex,
		PromoterOffset: cpu.promoterOffset,
	}

	for n := range cpu.threads {
		th := &cpu.threads[n]
		ts := &state.Threads[n]
		ts.ID = th.ID
		ts.Reg = slices.Clone(th.Reg)
		for h := range th.Heads {
			ts.Heads[h] = th.Heads[h].Position()
		}
		for s := range th.Stacks {
			ts.Stacks[s] = slices.Clone(th.Stacks[s].Data)
		}
		ts.CurStack = th.CurStack
		ts.CurHead = th.CurHead
		ts.Label = th.Label.Values()
		ts.ReadLabel = th.ReadLabel.Values()
		ts.PromoterInstExecuted = th.PromoterInstExecuted
		ts.MessageTrigger = th.MessageTrigger
		ts.Waiting = th.Waiting
	}

	return
}
