package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
	"github.com/ezrec/evocpu/rng"
)

// SingleProcess executes one step: one instruction in serial slicing, or
// one instruction per thread in parallel slicing. It returns false if the
// organism is dead, or if a speculative step was abandoned. An abandoned
// speculative step leaves the CPU unchanged.
func (cpu *Cpu) SingleProcess(rc rng.Source, speculative bool) bool {
	if cpu.dead {
		return false
	}
	if cpu.specDie {
		if speculative {
			return false
		}
		cpu.die()
		return false
	}

	parallel := cpu.Config.Hardware.ThreadSlicing == config.SLICING_PARALLEL
	scheduled := cpu.scheduled(parallel)
	if speculative && cpu.stalls(scheduled) {
		return false
	}

	x := &Exec{Cpu: cpu, Rand: rc}

	cpu.cycles++
	cpu.time++

	if parallel {
		// Threads forked during the step run from the next step on.
		for _, id := range scheduled {
			index := cpu.threadIndex(id)
			if index < 0 || cpu.threads[index].Waiting {
				continue
			}
			cpu.curThread = index
			cpu.slot(x)
			if cpu.toDie || cpu.dead {
				break
			}
		}
	} else if cpu.threadNext() {
		cpu.slot(x)
	}

	hw := &cpu.Config.Hardware
	if hw.MaxExecuted > 0 && cpu.cycles >= hw.MaxExecuted {
		if cpu.Verbose {
			log.Printf("cpu: executed %d cycles, maximum reached", cpu.cycles)
		}
		cpu.toDie = true
	}

	if !cpu.toDie {
		implicit := hw.ImplicitReproEnd && cpu.reproEnd
		implicit = implicit || (hw.ImplicitReproTime > 0 && cpu.time >= hw.ImplicitReproTime)
		if implicit {
			cpu.reproEnd = false
			cpu.report(x.repro())
		}
	}

	if cpu.toDie {
		if speculative {
			cpu.specDie = true
			return false
		}
		cpu.die()
		return false
	}

	return true
}

// scheduled returns the IDs of the threads the next step runs, in order.
func (cpu *Cpu) scheduled(parallel bool) (ids []int) {
	for n := range len(cpu.threads) {
		th := &cpu.threads[(cpu.curThread+1+n)%len(cpu.threads)]
		if th.Waiting {
			continue
		}
		ids = append(ids, th.ID)
		if !parallel {
			break
		}
	}
	return
}

// stalls is true if a speculative step must be abandoned before any slot
// runs: a death is pending, execution waits for a promoter, or a scheduled
// thread is on a STALL instruction.
func (cpu *Cpu) stalls(ids []int) bool {
	if cpu.toDie || cpu.halted() {
		return true
	}
	for _, id := range ids {
		ip := cpu.threads[cpu.threadIndex(id)].Heads[HEAD_IP]
		if cpu.Table.ShouldStall(ip.Inst()) {
			return true
		}
	}
	return false
}

// slot runs the instruction under the IP of the current thread.
func (cpu *Cpu) slot(x *Exec) {
	cpu.advanceIP = true

	ip := cpu.ip()
	ip.Adjust()

	if cpu.halted() {
		cpu.terminate(REG_BX)
		if cpu.halted() {
			return
		}
		cpu.advanceIP = true
		ip = cpu.ip()
	}

	ins := ip.Inst()
	entry := cpu.Table.Entry(ins)
	ip.SetFlag(genome.FLAG_EXECUTED)

	exec := true
	if cpu.hasCosts {
		exec = cpu.payCosts(x, ins, entry)
	}
	if !exec {
		return
	}

	if cpu.Config.Hardware.ProbFail && entry.ProbFail > 0 {
		exec = !x.Rand.P(entry.ProbFail)
	}

	if cpu.Trace != nil {
		fmt.Fprintln(cpu.Trace, cpu.TraceLine())
	}

	if exec {
		err := cpu.execute(x, ins)
		if err == nil && cpu.Table.ShouldSleep(ins) {
			if sleeper, ok := cpu.Organism.(Sleeper); ok {
				sleeper.Sleep()
			}
		}
	}

	if cpu.advanceIP {
		ip := cpu.ip()
		if ip.Position() == cpu.memory.Len()-1 {
			cpu.reproEnd = true
		}
		ip.Advance()
	}

	cpu.time += entry.AddlTime

	pr := &cpu.Config.Promoter
	if pr.Enabled {
		th := cpu.thread()
		th.PromoterInstExecuted++
		end := pr.Processivity < 1 && x.Rand.P(1-pr.Processivity)
		end = end || (pr.InstMax > 0 && th.PromoterInstExecuted >= pr.InstMax)
		if end {
			cpu.terminate(REG_BX)
		}
	}
}

// payCosts pays the switch, first time, per-use and energy costs of an
// instruction, in that order. It returns false while any remain owed.
func (cpu *Cpu) payCosts(x *Exec, ins inst.Instruction, entry *inst.Entry) bool {
	if cpu.Config.Cost.Switch > 0 && cpu.lastOp != int(ins) {
		if cpu.switchPaid < cpu.Config.Cost.Switch {
			cpu.switchPaid++
			return false
		}
	}

	if cpu.ftCost[ins] > 0 {
		cpu.ftCost[ins]--
		return false
	}

	th := cpu.thread()
	if entry.Cost > 0 {
		if th.costOp != int(ins) {
			th.costOp = int(ins)
			th.costLeft = entry.Cost
		}
		if th.costLeft > 0 {
			th.costLeft--
			return false
		}
	}

	if entry.EnergyCost > 0 {
		if energizer, ok := cpu.Organism.(Energizer); ok && !energizer.PayEnergy(entry.EnergyCost) {
			return false
		}
	}

	th.costOp = -1
	cpu.lastOp = int(ins)
	cpu.switchPaid = 0
	return true
}

// execute runs an instruction behaviour, counting successful executions
// and reporting faults to the organism.
func (cpu *Cpu) execute(x *Exec, ins inst.Instruction) (err error) {
	before := len(cpu.threads)
	cpu.threadDelta = 0
	cpu.threadReset = false

	cpu.instCount[ins]++
	err = cpu.Table.Func(ins)(x)

	if !cpu.threadReset && len(cpu.threads) != before+cpu.threadDelta {
		panic(fmt.Errorf("%w: %d to %d, %s", ErrThreadCount, before, len(cpu.threads), cpu.Table.Symbol(ins)))
	}

	if err != nil {
		cpu.instCount[ins]--
		var flt *Fault
		if errors.As(err, &flt) {
			flt.Inst = cpu.Table.Symbol(ins)
		}
		cpu.report(err)
	}

	return
}

// report forwards a soft fault to the organism. Policy rejections are
// expected, and are only logged.
func (cpu *Cpu) report(err error) {
	if err == nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %v", err)
	}

	var flt *Fault
	if errors.As(err, &flt) {
		cpu.Organism.Fault(flt)
	}
}

// ProcessBonusInst executes an instruction outside the normal stepping,
// without advancing the IP. It returns true if the instruction succeeded.
func (cpu *Cpu) ProcessBonusInst(rc rng.Source, ins inst.Instruction) bool {
	if cpu.dead || int(ins) >= cpu.Table.Len() {
		return false
	}

	x := &Exec{Cpu: cpu, Rand: rc}
	cpu.advanceIP = true
	err := cpu.execute(x, ins)

	if cpu.toDie {
		cpu.die()
	}

	return err == nil
}

// die kills the CPU, notifying the organism once.
func (cpu *Cpu) die() {
	if cpu.dead {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: died after %d cycles", cpu.cycles)
	}

	cpu.dead = true
	cpu.toDie = false
	cpu.specDie = false
	cpu.Organism.Die()
}
