package cpu

import (
	"log"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
)

// allocate grows memory by size slots for an offspring.
func (x *Exec) allocate(size int) error {
	gn := &x.Config.Genome

	if gn.RequireAllocate && x.malActive {
		return fault(FAULT_LOC_ALLOC, ErrAllocActive)
	}
	if size < 1 {
		return fault(FAULT_LOC_ALLOC, ErrAllocTooSmall)
	}

	oldSize := x.memory.Len()
	newSize := oldSize + size
	if newSize > gn.MaxSize || newSize < gn.MinSize {
		return fault(FAULT_LOC_ALLOC, ErrAllocSize)
	}
	if size > int(float64(oldSize)*gn.ChildSizeRange) {
		return fault(FAULT_LOC_ALLOC, ErrAllocTooLarge)
	}
	if oldSize > int(float64(size)*gn.ChildSizeRange) {
		return fault(FAULT_LOC_ALLOC, ErrAllocTooSmall)
	}

	x.memory.Resize(newSize)
	switch gn.AllocMethod {
	case config.ALLOC_DEFAULT:
		for pos := oldSize; pos < newSize; pos++ {
			x.memory.Set(pos, x.Table.Default())
		}
	case config.ALLOC_RANDOM:
		for pos := oldSize; pos < newSize; pos++ {
			x.memory.Set(pos, x.Table.Random(x.Rand))
		}
	case config.ALLOC_NECRO:
		// Keep whatever the slots held last.
	}

	x.malActive = true

	if x.Verbose {
		log.Printf("cpu: allocate %d, memory %d", size, newSize)
	}

	return nil
}

// DivideSpec parameterizes a divide.
type DivideSpec struct {
	MaxMutations int  // Divide time mutation cap, -1 for none.
	Resample     bool // Resample mutations that revert the offspring.
	RequireExact bool // The unmutated offspring must equal the parent.
}

var (
	divideMain  = DivideSpec{MaxMutations: -1}
	divideExact = DivideSpec{MaxMutations: -1, RequireExact: true}
)

// checkViable applies the divide policy to the parent and offspring
// sizes. A repro divide does not need an allocate or copied lines.
func (x *Exec) checkViable(parentSize int, childSize int, repro bool) error {
	gn := &x.Config.Genome
	dv := &x.Config.Divide

	birth := float64(len(x.birth))
	minSize := max(gn.MinSize, int(birth/gn.OffspringSizeRange))
	maxSize := min(gn.MaxSize, int(birth*gn.OffspringSizeRange))

	if childSize < minSize || childSize > maxSize {
		return reject(ErrOffspringSize)
	}
	if parentSize < minSize || parentSize > maxSize {
		return reject(ErrParentSize)
	}

	executed := x.memory.Count(genome.FLAG_EXECUTED, 0, parentSize)
	if executed < int(float64(parentSize)*dv.MinExeLines) {
		return reject(ErrExecutedLines)
	}

	if repro {
		return nil
	}

	copied := x.memory.Count(genome.FLAG_COPIED, parentSize, parentSize+childSize)
	if copied < int(float64(childSize)*dv.MinCopiedLines) {
		return reject(ErrCopiedLines)
	}

	if gn.RequireAllocate && !x.malActive {
		return reject(ErrNoAllocate)
	}

	return nil
}

// divide splits memory at split: the parent keeps [0, split), and the
// offspring is the following region, less extra trailing slots.
func (x *Exec) divide(split int, extra int, spec DivideSpec) error {
	size := x.memory.Len()
	childSize := size - split - extra
	if split < 0 || extra < 0 || childSize < 0 {
		return reject(ErrOffspringSize)
	}

	err := x.checkViable(split, childSize, false)
	if err != nil {
		return err
	}

	child := x.memory.Slice(split, split+childSize)
	if spec.RequireExact || x.Config.Divide.RequireExact {
		if !child.Equal(x.memory.Slice(0, split)) {
			return reject(ErrNotExactCopy)
		}
	}

	x.memory.Resize(split)

	return x.birthOffspring(child, spec)
}

// birthOffspring mutates the offspring, hands it to the organism, and
// applies the divide method to the parent.
func (x *Exec) birthOffspring(child genome.Genome, spec DivideSpec) error {
	dv := &x.Config.Divide

	offspring := &Offspring{}
	parent := x.memory.Genome()
	var reverted bool
	for try := 0; ; try++ {
		offspring.Genome = child.Clone()
		offspring.Mutations = x.divideMutations(&offspring.Genome, spec.MaxMutations)

		eval, ok := x.Organism.(Evaluator)
		if !spec.Resample || !ok || offspring.Mutations == 0 {
			break
		}
		reverted = eval.Reverted(parent, offspring.Genome)
		if !reverted {
			break
		}
		if try >= dv.ResampleRetries {
			if x.Verbose {
				log.Printf("cpu: resampling failed, sterilized")
			}
			x.sterile = true
			break
		}
		// Undo parent mutations before resampling.
		for pos, ins := range parent {
			x.memory.Set(pos, ins)
		}
	}
	offspring.Sterile = x.sterile

	x.malActive = false
	x.divides++
	x.time = 0
	if dv.Method == config.DIVIDE_SPLIT {
		for ins, entry := range x.Table.All() {
			x.ftCost[ins] = entry.FtCost
		}
	}

	if x.Verbose {
		log.Printf("cpu: divide, offspring %d, %d mutations", len(offspring.Genome), offspring.Mutations)
	}

	alive := x.Organism.Divide(offspring)
	if !alive {
		x.toDie = true
		return nil
	}

	if dv.Method == config.DIVIDE_SPLIT {
		x.Reset()
		x.advanceIP = false
		return nil
	}

	x.memory.ClearFlags()
	x.AdjustHeads()
	return nil
}

// headDivide divides between the read head and the write head.
func (x *Exec) headDivide(spec DivideSpec) error {
	x.AdjustHeads()

	split := x.Head(HEAD_READ).Position()
	childEnd := x.Head(HEAD_WRITE).Position()
	if childEnd == 0 {
		childEnd = x.memory.Len()
	}
	extra := x.memory.Len() - childEnd

	err := x.divide(split, extra, spec)
	x.AdjustHeads()
	return err
}

// repro copies the whole memory as an offspring, with per-site copy
// mutations.
func (x *Exec) repro() error {
	size := x.memory.Len()
	err := x.checkViable(size, size, true)
	if err != nil {
		return err
	}

	child := x.memory.Genome()
	for pos, ins := range child {
		if !x.noMutate[ins] && x.Rand.P(x.Config.Mutation.CopyMut) {
			child[pos] = x.Table.Random(x.Rand)
		}
	}

	return x.birthOffspring(child, divideMain)
}
