package cpu

import (
	"github.com/ezrec/evocpu/inst"
)

func instMaxAlloc(x *Exec) error {
	dst := x.FindModifiedRegister(REG_AX)
	size := x.memory.Len()
	alloc := min(int(x.Config.Genome.ChildSizeRange*float64(size)), x.Config.Genome.MaxSize-size)
	err := x.allocate(alloc)
	if err != nil {
		return err
	}
	*x.reg(dst) = int32(size)
	return nil
}

func instAllocate(x *Exec) error {
	src := x.FindModifiedRegister(REG_BX)
	size := x.memory.Len()
	err := x.allocate(int(*x.reg(src)))
	if err != nil {
		return err
	}
	*x.reg(REG_AX) = int32(size)
	return nil
}

func instCAlloc(x *Exec) error {
	return x.allocate(x.memory.Len())
}

func instDivide(x *Exec) error {
	src := x.FindModifiedRegister(REG_AX)
	return x.divide(int(*x.reg(src)), 0, divideMain)
}

func instCDivide(x *Exec) error {
	return x.divide(x.memory.Len()/2, 0, divideMain)
}

func instHeadDivide(x *Exec) error {
	return x.headDivide(divideMain)
}

func instHeadDivide0(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: 0})
}

func instHeadDivide1(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: 1})
}

func instHeadDivide2(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: 2})
}

func instHeadDivideRS(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: -1, Resample: true})
}

func instHeadDivide1RS(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: 1, Resample: true})
}

func instHeadDivide2RS(x *Exec) error {
	return x.headDivide(DivideSpec{MaxMutations: 2, Resample: true})
}

func instHeadDivideExact(x *Exec) error {
	return x.headDivide(divideExact)
}

func instRepro(x *Exec) error {
	return x.repro()
}

// copyHeads returns heads at IP+BX and IP+BX+AX, the source and target of
// the classic copy instructions.
func (x *Exec) copyHeads() (from Head, to Head) {
	ip := x.ip().Position()
	bx := int(*x.reg(REG_BX))
	ax := int(*x.reg(REG_AX))

	from = NewHead(x.memory, ip+bx)
	to = NewHead(x.memory, ip+bx+ax)
	return
}

func instCopy(x *Exec) error {
	from, to := x.copyHeads()
	x.copyInst(from.Inst(), &to)
	return nil
}

func instRead(x *Exec) error {
	dst := x.FindModifiedRegister(REG_CX)
	from, _ := x.copyHeads()

	ins := from.Inst()
	if !x.noMutate[ins] && x.Rand.P(x.Config.Mutation.CopyMut) {
		ins = x.Table.Random(x.Rand)
	}
	*x.reg(dst) = int32(ins)
	return nil
}

func instWrite(x *Exec) error {
	src := x.FindModifiedRegister(REG_CX)
	_, to := x.copyHeads()

	value := *x.reg(src)
	if value < 0 || int(value) >= x.Table.Len() {
		value = 0
	}
	x.copyInst(inst.Instruction(value), &to)
	return nil
}

func instCompare(x *Exec) error {
	dst := x.FindModifiedRegister(REG_CX)
	from, to := x.copyHeads()
	*x.reg(dst) = int32(from.Inst()) - int32(to.Inst())
	return nil
}

func instIfNCpy(x *Exec) error {
	from, to := x.copyHeads()
	x.skipUnless(from.Inst() != to.Inst())
	return nil
}

// instForkThread starts the new thread just past the fork, and the
// forking thread one instruction further on.
func instForkThread(x *Exec) error {
	x.ip().Advance()
	if !x.ForkThread() {
		return fault(FAULT_LOC_THREAD_FORK, ErrThreadFork)
	}
	return nil
}

func instKillThread(x *Exec) error {
	if !x.KillThread() {
		return fault(FAULT_LOC_THREAD_KILL, ErrThreadKill)
	}
	x.advanceIP = false
	return nil
}

func instThreadID(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	*x.reg(dst) = int32(x.thread().ID)
	return nil
}

// instWaitMessage parks the thread until a message with the label in the
// modified register is delivered by Interrupt.
func instWaitMessage(x *Exec) error {
	src := x.FindModifiedRegister(REG_BX)
	th := x.thread()
	th.MessageTrigger = *x.reg(src)
	th.Waiting = true
	return nil
}
