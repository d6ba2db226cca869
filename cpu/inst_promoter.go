package cpu

func instTerminate(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	x.terminate(reg)
	return nil
}

// instRegulate sets the regulation mask of every promoter.
func instRegulate(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	x.regulate(uint32(*x.reg(reg)), nil)
	return nil
}

// instRegulateSpecific sets the regulation mask of the promoters whose bit
// code matches the next register.
func instRegulateSpecific(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	match := uint32(*x.reg(x.NextRegister(reg)))
	x.regulate(uint32(*x.reg(reg)), &match)
	return nil
}

// numberate reads the code of the instructions following the IP, which
// execute next.
func (x *Exec) numberate(bits int) error {
	reg := x.FindModifiedRegister(REG_BX)
	ip := x.ip()
	ip.Advance()
	x.advanceIP = false
	*x.reg(reg) = int32(x.Numberate(ip.Position(), 1, bits))
	return nil
}

func instNumberate(x *Exec) error {
	return x.numberate(32)
}

func instNumberate24(x *Exec) error {
	return x.numberate(24)
}

func instExecurate(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	*x.reg(reg) = int32(x.cycles)
	return nil
}

func instExecurate24(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	*x.reg(reg) = int32(x.cycles & 0xFFFFFF)
	return nil
}
