// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/cpu"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/rng"
)

const (
	NEIGHBORHOOD_SIZE = 8 // Cells around the organism.
	INPUT_COUNT       = 3 // Generated task inputs, cycled.

	INPUT_TAG = 0x0f000000 // High bits set in every generated input.
)

// Emulator state. A single organism hosting a CPU.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Rand *rng.Random // Random source of the CPU and the generated inputs.

	Tape      Tape    // Task I/O streams.
	Inputs    []int32 // Generated inputs, used once the tape input is exhausted.
	Outputs   []int32 // Every output value.
	nextInput int

	Offspring []*cpu.Offspring // Offspring in birth order.
	Faults    []*cpu.Fault     // Every reported fault.
	Mailbox   Mailbox          // Messages to and from the faced neighbor.

	Energy    float64                     // Energy available, +Inf for unlimited.
	Facing    int                         // Faced neighbor cell.
	Neighbors [NEIGHBORHOOD_SIZE]*cpu.Cpu // Neighbor CPUs, nil for empty cells.
	Resources []float64                   // Resource levels at the organism's cell.
	Deme      int                         // Organisms in the deme.
	Groups    map[int32]int               // Group membership counts.

	Moves     int // Successful moves.
	Donations int // Successful donations.
	Sleeps    int // Sleep instructions executed.
	Died      bool

	opinion    int32
	hasOpinion bool
}

var _ cpu.Organism = (*Emulator)(nil)
var _ cpu.Population = (*Emulator)(nil)

// NewEmulator creates a new emulator running a genome.
func NewEmulator(cfg *config.Config, table *cpu.Table, g genome.Genome, seed uint64) (emu *Emulator, err error) {
	emu = &Emulator{
		Rand: rng.New(seed),
	}

	emu.Cpu, err = cpu.New(cfg, table, g, emu)
	if err != nil {
		emu = nil
		return
	}
	emu.Cpu.Population = emu

	emu.reset()

	return
}

func (emu *Emulator) reset() {
	emu.Inputs = make([]int32, INPUT_COUNT)
	for n := range emu.Inputs {
		emu.Inputs[n] = INPUT_TAG | int32(emu.Rand.IntN(1<<24))
	}
	emu.nextInput = 0
	emu.Outputs = nil
	emu.Offspring = nil
	emu.Faults = nil
	emu.Mailbox.Reset()

	emu.Energy = math.Inf(1)
	emu.Facing = 0
	emu.Deme = 1
	emu.Groups = map[int32]int{}

	emu.Moves = 0
	emu.Donations = 0
	emu.Sleeps = 0
	emu.Died = false

	emu.opinion = 0
	emu.hasOpinion = false
}

// Reset restarts the organism as a newborn of its birth genome, and clears
// the host records.
func (emu *Emulator) Reset() (err error) {
	old := emu.Cpu

	emu.Cpu, err = cpu.New(old.Config, old.Table, old.BirthGenome(), emu)
	if err != nil {
		emu.Cpu = old
		return
	}
	emu.Cpu.Population = emu
	emu.Cpu.Trace = old.Trace

	emu.reset()

	return
}

// Step performs a single step of the emulator.
func (emu *Emulator) Step() (err error) {
	_, err = emu.Run(1)
	return
}

// Run steps the CPU until it dies or n steps have passed.
func (emu *Emulator) Run(n int) (steps int, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Dead() {
		err = ErrDead
		return
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		perr, ok := r.(error)
		if !ok {
			perr = errors.New(fmt.Sprint(r))
		}
		err = &ErrRuntime{Cycle: emu.Cpu.Cycles(), Err: perr}
	}()

	for ; steps < n && !emu.Cpu.Dead(); steps++ {
		emu.Cpu.SingleProcess(emu.Rand, false)
	}

	return
}

// Deliver a message from the faced neighbor. A thread waiting for the
// message label takes it directly, otherwise it is queued.
func (emu *Emulator) Deliver(msg cpu.Message) {
	if emu.Cpu.Interrupt(msg) {
		return
	}
	emu.Mailbox.Deliver(msg)
}

// Fault implements cpu.Organism.
func (emu *Emulator) Fault(fault *cpu.Fault) {
	if emu.Verbose {
		log.Printf("emulator: fault: %v", fault)
	}
	emu.Faults = append(emu.Faults, fault)
}

// Die implements cpu.Organism.
func (emu *Emulator) Die() {
	if emu.Verbose {
		log.Printf("emulator: died at cycle %d", emu.Cpu.Cycles())
	}
	emu.Died = true
}

// Divide implements cpu.Organism. The parent always survives.
func (emu *Emulator) Divide(child *cpu.Offspring) bool {
	if emu.Verbose {
		log.Printf("emulator: offspring %d, %d instructions, %d mutations", len(emu.Offspring), len(child.Genome), child.Mutations)
	}
	emu.Offspring = append(emu.Offspring, child)
	return true
}

// Input implements cpu.Organism.
func (emu *Emulator) Input() (value int32) {
	value, ok := emu.Tape.Read()
	if ok {
		return
	}

	value = emu.Inputs[emu.nextInput]
	emu.nextInput = (emu.nextInput + 1) % len(emu.Inputs)
	return
}

// Output implements cpu.Organism.
func (emu *Emulator) Output(value int32) {
	emu.Outputs = append(emu.Outputs, value)
	err := emu.Tape.Write(value)
	if err != nil && emu.Verbose {
		log.Printf("emulator: output: %v", err)
	}
}

// Sleep implements cpu.Sleeper.
func (emu *Emulator) Sleep() {
	emu.Sleeps++
}

// PayEnergy implements cpu.Energizer.
func (emu *Emulator) PayEnergy(cost float64) bool {
	if cost > emu.Energy {
		return false
	}
	emu.Energy -= cost
	return true
}

// Rotate implements cpu.Mover.
func (emu *Emulator) Rotate(dir int) {
	emu.Facing = ((emu.Facing+dir)%NEIGHBORHOOD_SIZE + NEIGHBORHOOD_SIZE) % NEIGHBORHOOD_SIZE
}

// Move implements cpu.Mover. Only an empty cell can be moved into.
func (emu *Emulator) Move() bool {
	if emu.Neighbors[emu.Facing] != nil {
		return false
	}
	emu.Moves++
	return true
}

// NeighborhoodSize implements cpu.Mover.
func (emu *Emulator) NeighborhoodSize() int {
	return NEIGHBORHOOD_SIZE
}

// Neighbor implements cpu.Mover.
func (emu *Emulator) Neighbor() *cpu.Cpu {
	return emu.Neighbors[emu.Facing]
}

// SendMessage implements cpu.Messenger. There must be a faced neighbor.
func (emu *Emulator) SendMessage(msg cpu.Message) bool {
	if emu.Neighbor() == nil {
		return false
	}
	emu.Mailbox.Send(msg)
	return true
}

// RetrieveMessage implements cpu.Messenger.
func (emu *Emulator) RetrieveMessage() (cpu.Message, bool) {
	return emu.Mailbox.Receive()
}

// Donate implements cpu.Donor. There must be a faced neighbor.
func (emu *Emulator) Donate() bool {
	if emu.Neighbor() == nil {
		return false
	}
	emu.Donations++
	return true
}

// SetOpinion implements cpu.Opinionated.
func (emu *Emulator) SetOpinion(opinion int32) {
	emu.opinion = opinion
	emu.hasOpinion = true
}

// Opinion implements cpu.Opinionated.
func (emu *Emulator) Opinion() (int32, bool) {
	return emu.opinion, emu.hasOpinion
}

// JoinGroup implements cpu.Grouper, leaving the current group.
func (emu *Emulator) JoinGroup(group int32) bool {
	if emu.hasOpinion {
		emu.Groups[emu.opinion]--
		if emu.Groups[emu.opinion] <= 0 {
			delete(emu.Groups, emu.opinion)
		}
	}
	emu.Groups[group]++
	emu.SetOpinion(group)
	return true
}

// Resource implements cpu.Population.
func (emu *Emulator) Resource(id int) float64 {
	if id < 0 || id >= len(emu.Resources) {
		return 0
	}
	return emu.Resources[id]
}

// DemeSize implements cpu.Population.
func (emu *Emulator) DemeSize() int {
	return emu.Deme
}

// GroupSize implements cpu.Population.
func (emu *Emulator) GroupSize(group int32) int {
	return emu.Groups[group]
}
