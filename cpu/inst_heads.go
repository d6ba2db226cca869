package cpu

import (
	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
)

// activeHead returns the head moved by jumps, set by set-head.
func (x *Exec) activeHead() *Head {
	th := x.thread()
	return &th.Heads[th.CurHead]
}

// jumpLabel moves the active head to the complement of the label after
// the IP, searching in direction. With no label it jumps by +/-BX.
func (x *Exec) jumpLabel(direction int) error {
	label := x.readComplement()
	if label.Len() == 0 {
		x.activeHead().Jump(direction * int(*x.reg(REG_BX)))
		return nil
	}

	found := x.FindLabel(direction)
	if found < 0 {
		return fault(FAULT_LOC_JUMP, ErrNoLabel)
	}

	// The IP lands on the last nop of the match, and advances past it.
	x.activeHead().Set(found - 1)
	return nil
}

func instJumpF(x *Exec) error {
	return x.jumpLabel(1)
}

func instJumpB(x *Exec) error {
	return x.jumpLabel(-1)
}

func instCall(x *Exec) error {
	x.stackPush(int32(x.ip().Position()))
	return x.jumpLabel(1)
}

func instReturn(x *Exec) error {
	x.ip().Set(int(x.stackPop()))
	return nil
}

func instSetHead(x *Exec) error {
	x.thread().CurHead = x.FindModifiedHead(HEAD_IP)
	return nil
}

func instIfLabel(x *Exec) error {
	label := x.readComplement()
	x.skipUnless(label.Equal(&x.thread().ReadLabel))
	return nil
}

func instMoveHead(x *Exec) error {
	head := x.FindModifiedHead(HEAD_IP)
	flow := x.Head(HEAD_FLOW).Position()
	x.Head(head).Set(flow)
	if head == HEAD_IP {
		x.advanceIP = false
	}
	return nil
}

func instJumpHead(x *Exec) error {
	head := x.FindModifiedHead(HEAD_IP)
	x.Head(head).Jump(int(*x.reg(REG_CX)))
	return nil
}

func instGetHead(x *Exec) error {
	head := x.FindModifiedHead(HEAD_IP)
	*x.reg(REG_CX) = int32(x.Head(head).Position())
	return nil
}

func instSetFlow(x *Exec) error {
	op := x.FindModifiedRegister(REG_CX)
	x.Head(HEAD_FLOW).Set(int(*x.reg(op)))
	return nil
}

func instAdvanceHead(x *Exec) error {
	head := x.FindModifiedHead(HEAD_WRITE)
	x.Head(head).Advance()
	return nil
}

func instHeadPush(x *Exec) error {
	head := x.FindModifiedHead(HEAD_IP)
	x.stackPush(int32(x.Head(head).Position()))
	return nil
}

func instHeadPop(x *Exec) error {
	head := x.FindModifiedHead(HEAD_IP)
	x.Head(head).Set(int(x.stackPop()))
	return nil
}

// instHeadSearch finds the complement of the label after the IP, from the
// start of memory. BX receives the distance from the IP to the end of the
// match, CX the label size, and the flow head lands just past the match.
// Without a match the flow head lands just past the IP.
func instHeadSearch(x *Exec) error {
	label := x.readComplement()
	ip := x.ip().Position()

	found := x.FindLabel(0) - 1
	if found < 0 {
		found = ip
	}

	*x.reg(REG_BX) = int32(found - ip)
	*x.reg(REG_CX) = int32(label.Len())
	flow := x.Head(HEAD_FLOW)
	flow.Set(found)
	flow.Advance()
	return nil
}

func instHeadRead(x *Exec) error {
	head := x.Head(x.FindModifiedHead(HEAD_READ))
	head.Adjust()

	ins := head.Inst()
	if !x.noMutate[ins] && x.Rand.P(x.Config.Mutation.CopyMut) {
		ins = x.Table.Random(x.Rand)
	}
	*x.reg(REG_BX) = int32(ins)
	x.readInst(ins)
	head.Advance()
	return nil
}

func instHeadWrite(x *Exec) error {
	head := x.Head(x.FindModifiedHead(HEAD_WRITE))
	head.Adjust()

	value := *x.reg(REG_BX)
	if value < 0 || int(value) >= x.Table.Len() {
		value = 0
	}
	head.SetInst(inst.Instruction(value))
	head.SetFlag(genome.FLAG_COPIED)
	head.Advance()
	return nil
}

func instHeadCopy(x *Exec) error {
	read := x.Head(HEAD_READ)
	write := x.Head(HEAD_WRITE)
	read.Adjust()
	write.Adjust()

	ins := read.Inst()
	x.readInst(ins)
	x.copyInst(ins, write)

	read.Advance()
	write.Advance()

	if x.Config.Mutation.SlipMode == config.SLIP_READ && x.Rand.P(x.Config.Mutation.CopySlip) {
		read.Set(x.Rand.IntN(x.memory.Len()))
	}
	return nil
}
