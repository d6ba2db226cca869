package cpu

import (
	"slices"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
)

// copyInst writes a copied instruction at the write head, applying the
// copy error, insertion, deletion and buffer slip mutations.
func (x *Exec) copyInst(ins inst.Instruction, write *Head) {
	mu := &x.Config.Mutation

	if !x.noMutate[ins] && x.Rand.P(mu.CopyMut) {
		write.SetInst(x.Table.Random(x.Rand))
		write.SetFlag(genome.FLAG_MUTATED | genome.FLAG_COPY_MUT)
	} else {
		write.SetInst(ins)
	}
	write.SetFlag(genome.FLAG_COPIED)

	if x.Rand.P(mu.CopyIns) && x.memory.Len() < x.Config.Genome.MaxSize {
		write.InsertInst(x.Table.Random(x.Rand))
		write.SetFlag(genome.FLAG_MUTATED)
	}
	if x.Rand.P(mu.CopyDel) {
		write.RemoveInst()
	}
	if mu.SlipMode == config.SLIP_BUFFER && x.Rand.P(mu.CopySlip) {
		x.slipMemory(write.Position())
	}
}

// slipPoints draws the ends of a slip. From beyond to duplicates the
// segment [to, from) at from; to beyond from deletes [from, to).
func (x *Exec) slipPoints(size int, from int) (int, int) {
	if from < 0 {
		from = x.Rand.IntN(size + 1)
	}
	var to int
	if from == 0 {
		to = x.Rand.IntN(size)
	} else {
		to = x.Rand.IntN(size + 1)
	}
	return from, to
}

// slipFill returns the instructions inserted by a slip duplication.
func (x *Exec) slipFill(segment genome.Genome) (fill genome.Genome) {
	fill = segment.Clone()
	switch x.Config.Mutation.SlipFill {
	case config.FILL_RANDOM:
		for n := range fill {
			fill[n] = x.Table.Random(x.Rand)
		}
	case config.FILL_DEFAULT:
		for n := range fill {
			fill[n] = x.Table.Default()
		}
	}
	return
}

// slipGenome applies a slip mutation to a genome.
func (x *Exec) slipGenome(g genome.Genome, from int) genome.Genome {
	from, to := x.slipPoints(len(g), from)
	switch {
	case from > to:
		return slices.Insert(g, from, x.slipFill(g[to:from])...)
	case to > from && len(g)-(to-from) > 0:
		return slices.Delete(g, from, to)
	}
	return g
}

// slipMemory applies a slip mutation to memory, at a position.
func (x *Exec) slipMemory(from int) {
	mem := x.memory
	from, to := x.slipPoints(mem.Len(), from)
	switch {
	case from > to:
		if mem.Len()+(from-to) > x.Config.Genome.MaxSize {
			return
		}
		fill := x.slipFill(mem.Slice(to, from))
		mem.Insert(from, fill...)
		for pos := from; pos < from+len(fill); pos++ {
			mem.SetFlag(pos, genome.FLAG_MUTATED)
		}
	case to > from && mem.Len()-(to-from) > 0:
		mem.Remove(from, to-from)
	}
}

// divideMutations applies divide time mutations to an offspring, and the
// parent per-site mutations to memory, applying at most limit mutations
// (no limit if negative). It returns the number applied.
func (x *Exec) divideMutations(child *genome.Genome, limit int) (count int) {
	mu := &x.Config.Mutation
	bounds := &x.Config.Genome
	if limit < 0 {
		limit = len(*child) + x.memory.Len() + bounds.MaxSize
	}
	room := func() bool { return count < limit }

	if x.Rand.P(mu.DivideMut) && room() && len(*child) > 0 {
		(*child)[x.Rand.IntN(len(*child))] = x.Table.Random(x.Rand)
		count++
	}
	if x.Rand.P(mu.DivideIns) && room() && len(*child) < bounds.MaxSize {
		*child = slices.Insert(*child, x.Rand.IntN(len(*child)+1), x.Table.Random(x.Rand))
		count++
	}
	if x.Rand.P(mu.DivideDel) && room() && len(*child) > bounds.MinSize {
		pos := x.Rand.IntN(len(*child))
		*child = slices.Delete(*child, pos, pos+1)
		count++
	}
	if x.Rand.P(mu.DivideSlip) && room() && len(*child) > 0 {
		*child = x.slipGenome(*child, -1)
		count++
	}

	if mu.DivMut > 0 && room() {
		hits := x.Rand.Binomial(len(*child), mu.DivMut)
		for ; hits > 0 && room(); hits-- {
			(*child)[x.Rand.IntN(len(*child))] = x.Table.Random(x.Rand)
			count++
		}
	}

	if mu.DivIns > 0 && room() {
		hits := x.Rand.Binomial(len(*child), mu.DivIns)
		hits = min(hits, bounds.MaxSize-len(*child), limit-count)
		if hits > 0 {
			sites := make([]int, hits)
			for n := range sites {
				sites[n] = x.Rand.IntN(len(*child) + 1)
			}
			slices.Sort(sites)
			for n := len(sites) - 1; n >= 0; n-- {
				*child = slices.Insert(*child, sites[n], x.Table.Random(x.Rand))
			}
			count += hits
		}
	}

	if mu.DivDel > 0 && room() {
		hits := x.Rand.Binomial(len(*child), mu.DivDel)
		hits = min(hits, len(*child)-bounds.MinSize, limit-count)
		for range max(hits, 0) {
			pos := x.Rand.IntN(len(*child))
			*child = slices.Delete(*child, pos, pos+1)
			count++
		}
	}

	if mu.ParentMut > 0 && room() {
		hits := x.Rand.Binomial(x.memory.Len(), mu.ParentMut)
		for ; hits > 0 && room(); hits-- {
			pos := x.Rand.IntN(x.memory.Len())
			x.memory.Set(pos, x.Table.Random(x.Rand))
			x.memory.SetFlag(pos, genome.FLAG_MUTATED)
			count++
		}
	}

	return
}
