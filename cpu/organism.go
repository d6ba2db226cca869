package cpu

import (
	"github.com/ezrec/evocpu/genome"
)

// Offspring is a finished offspring genome handed to the organism.
type Offspring struct {
	Genome    genome.Genome // Offspring instructions.
	Mutations int           // Divide time mutations applied.
	Sterile   bool          // The offspring may not reproduce.
}

// Message is an organism to organism message.
type Message struct {
	Label int32
	Data  int32
}

// Organism is the host of a CPU. Every CPU has exactly one.
type Organism interface {
	// Fault reports a non-fatal instruction fault.
	Fault(fault *Fault)
	// Die is called once when the CPU dies.
	Die()
	// Divide hands over an offspring, and returns false if the parent
	// did not survive the birth.
	Divide(child *Offspring) (parentAlive bool)
	// Input returns the next task input value.
	Input() int32
	// Output submits a task output value.
	Output(value int32)
}

// The optional capabilities below are discovered with a type assertion
// on the Organism. Instructions that need a missing capability fault.

// Energizer pays per-instruction energy costs.
type Energizer interface {
	PayEnergy(cost float64) (ok bool)
}

// Sleeper idles the organism after a SLEEP flagged instruction.
type Sleeper interface {
	Sleep()
}

// Mover has a facing in a spatial neighborhood.
type Mover interface {
	Rotate(dir int)
	Move() (ok bool)
	NeighborhoodSize() int
	Neighbor() *Cpu // The faced neighbor, nil if the cell is empty.
}

// Messenger exchanges messages with the faced neighbor.
type Messenger interface {
	SendMessage(msg Message) (ok bool)
	RetrieveMessage() (msg Message, ok bool)
}

// Donor donates merit to the faced neighbor.
type Donor interface {
	Donate() (ok bool)
}

// Opinionated holds an opinion, which is also its group membership.
type Opinionated interface {
	SetOpinion(opinion int32)
	Opinion() (opinion int32, ok bool)
}

// Grouper joins groups.
type Grouper interface {
	JoinGroup(group int32) (ok bool)
}

// Evaluator decides whether a mutated offspring reverted to a fitness
// equal to or better than its parent, for the resampling divides.
type Evaluator interface {
	Reverted(parent genome.Genome, child genome.Genome) bool
}

// Population is the view of the surrounding population.
type Population interface {
	Resource(id int) float64 // Resource level at the organism's cell.
	DemeSize() int
	GroupSize(group int32) int
}
