package cpu

import (
	"math"
	"math/bits"
)

func instNop(x *Exec) error {
	return nil
}

// skipUnless skips the next instruction unless cond holds.
func (x *Exec) skipUnless(cond bool) {
	if !cond {
		x.ip().Advance()
	}
}

func instIfEqu0(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.skipUnless(*x.reg(op) == 0)
	return nil
}

func instIfNot0(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.skipUnless(*x.reg(op) != 0)
	return nil
}

func instIfGrt0(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.skipUnless(*x.reg(op) > 0)
	return nil
}

func instIfLess0(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.skipUnless(*x.reg(op) < 0)
	return nil
}

func instIfBit1(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.skipUnless(*x.reg(op)&1 != 0)
	return nil
}

// regPair returns a modified register and the register after it.
func (x *Exec) regPair(def int) (a int32, b int32) {
	op1 := x.FindModifiedRegister(def)
	op2 := x.NextRegister(op1)
	return *x.reg(op1), *x.reg(op2)
}

func instIfNEqu(x *Exec) error {
	a, b := x.regPair(REG_BX)
	x.skipUnless(a != b)
	return nil
}

func instIfEqu(x *Exec) error {
	a, b := x.regPair(REG_BX)
	x.skipUnless(a == b)
	return nil
}

func instIfGrt(x *Exec) error {
	a, b := x.regPair(REG_BX)
	x.skipUnless(a > b)
	return nil
}

func instIfLess(x *Exec) error {
	a, b := x.regPair(REG_BX)
	x.skipUnless(a < b)
	return nil
}

// Stack and register moves.

func instPush(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	x.stackPush(*x.reg(op))
	return nil
}

func instPop(x *Exec) error {
	op := x.FindModifiedRegister(REG_BX)
	*x.reg(op) = x.stackPop()
	return nil
}

func instSwapStk(x *Exec) error {
	th := x.thread()
	th.CurStack = 1 - th.CurStack
	return nil
}

func instFlipStk(x *Exec) error {
	x.thread().Stack().Flip()
	return nil
}

func instSwap(x *Exec) error {
	op1 := x.FindModifiedRegister(REG_BX)
	op2 := x.NextRegister(op1)
	a, b := x.reg(op1), x.reg(op2)
	*a, *b = *b, *a
	return nil
}

func instCopyReg(x *Exec) error {
	src := x.FindModifiedRegister(REG_BX)
	dst := x.NextRegister(src)
	*x.reg(dst) = *x.reg(src)
	return nil
}

func instSetNum(x *Exec) error {
	label := x.readLabel()
	*x.reg(REG_BX) = int32(label.AsInt(x.Table.NumNops()))
	return nil
}

// Single register arithmetic.

// unary applies op to a modified register, BX by default.
func (x *Exec) unary(op func(v int32) int32) error {
	reg := x.reg(x.FindModifiedRegister(REG_BX))
	*reg = op(*reg)
	return nil
}

func instShiftR(x *Exec) error { return x.unary(func(v int32) int32 { return v >> 1 }) }
func instShiftL(x *Exec) error { return x.unary(func(v int32) int32 { return v << 1 }) }
func instInc(x *Exec) error    { return x.unary(func(v int32) int32 { return v + 1 }) }
func instDec(x *Exec) error    { return x.unary(func(v int32) int32 { return v - 1 }) }
func instZero(x *Exec) error   { return x.unary(func(v int32) int32 { return 0 }) }
func instNeg(x *Exec) error    { return x.unary(func(v int32) int32 { return -v }) }
func instSquare(x *Exec) error { return x.unary(func(v int32) int32 { return v * v }) }
func instNot(x *Exec) error    { return x.unary(func(v int32) int32 { return ^v }) }

func instSqrt(x *Exec) error {
	reg := x.reg(x.FindModifiedRegister(REG_BX))
	switch {
	case *reg < 0:
		return fault(FAULT_LOC_MATH, ErrNegativeSqrt)
	case *reg > 1:
		*reg = int32(math.Sqrt(float64(*reg)))
	}
	return nil
}

func (x *Exec) logarithm(fn func(float64) float64) error {
	reg := x.reg(x.FindModifiedRegister(REG_BX))
	switch {
	case *reg < 0:
		return fault(FAULT_LOC_MATH, ErrNegativeLog)
	case *reg >= 1:
		*reg = int32(fn(float64(*reg)))
	}
	return nil
}

func instLog(x *Exec) error   { return x.logarithm(math.Log) }
func instLog10(x *Exec) error { return x.logarithm(math.Log10) }

// Two register arithmetic: dst (BX by default) = BX op CX.

func (x *Exec) binary(op func(a, b int32) (int32, error)) error {
	dst := x.FindModifiedRegister(REG_BX)
	value, err := op(*x.reg(REG_BX), *x.reg(REG_CX))
	if err != nil {
		return err
	}
	*x.reg(dst) = value
	return nil
}

func instAdd(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a + b, nil })
}

func instSub(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a - b, nil })
}

func instMult(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a * b, nil })
}

func instDiv(x *Exec) error {
	return x.binary(func(a, b int32) (value int32, err error) {
		switch {
		case b == 0:
			err = fault(FAULT_LOC_MATH, ErrDivideByZero)
		case a == math.MinInt32 && b == -1:
			err = fault(FAULT_LOC_MATH, ErrOverflow)
		default:
			value = a / b
		}
		return
	})
}

func instMod(x *Exec) error {
	return x.binary(func(a, b int32) (value int32, err error) {
		switch b {
		case 0:
			err = fault(FAULT_LOC_MATH, ErrModuloByZero)
		case -1:
			value = 0
		default:
			value = a % b
		}
		return
	})
}

func instNand(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return ^(a & b), nil })
}

func instNor(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return ^(a | b), nil })
}

func instAnd(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a & b, nil })
}

func instOr(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a | b, nil })
}

func instXor(x *Exec) error {
	return x.binary(func(a, b int32) (int32, error) { return a ^ b, nil })
}

func instOrder(x *Exec) error {
	op1 := x.FindModifiedRegister(REG_BX)
	op2 := x.NextRegister(op1)
	a, b := x.reg(op1), x.reg(op2)
	if *a > *b {
		*a, *b = *b, *a
	}
	return nil
}

// Bit consensus: 1 if at least half the bits of the next register are set.

func instBitConsensus(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	src := x.NextRegister(dst)
	*x.reg(dst) = b2i(bits.OnesCount32(uint32(*x.reg(src))) >= 16)
	return nil
}

func instBitConsensus24(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	src := x.NextRegister(dst)
	*x.reg(dst) = b2i(bits.OnesCount32(uint32(*x.reg(src))&0xffffff) >= 12)
	return nil
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
