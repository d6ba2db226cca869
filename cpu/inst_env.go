package cpu

// capability returns the optional organism capability T, or a fault if
// the organism does not provide it.
func capability[T any](x *Exec) (c T, err error) {
	c, ok := x.Organism.(T)
	if !ok {
		err = fault(FAULT_LOC_ENVIRONMENT, ErrUnsupported)
	}
	return
}

func (x *Exec) population() (pop Population, err error) {
	pop = x.Population
	if pop == nil {
		err = fault(FAULT_LOC_ENVIRONMENT, ErrUnsupported)
	}
	return
}

func instTaskIO(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	x.Organism.Output(*x.reg(reg))
	*x.reg(reg) = x.Organism.Input()
	return nil
}

func instTaskGet(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	*x.reg(reg) = x.Organism.Input()
	return nil
}

func instTaskPut(x *Exec) error {
	reg := x.FindModifiedRegister(REG_BX)
	x.Organism.Output(*x.reg(reg))
	*x.reg(reg) = 0
	return nil
}

func instRotateL(x *Exec) error {
	mover, err := capability[Mover](x)
	if err != nil {
		return err
	}
	mover.Rotate(-1)
	return nil
}

func instRotateR(x *Exec) error {
	mover, err := capability[Mover](x)
	if err != nil {
		return err
	}
	mover.Rotate(1)
	return nil
}

// instRotateLabel turns towards the first neighbor whose memory holds the
// complement of the label after the instruction.
func instRotateLabel(x *Exec) error {
	label := x.readComplement().Clone()

	mover, err := capability[Mover](x)
	if err != nil {
		return err
	}
	if label.Len() == 0 {
		return nil
	}
	if !x.Config.Hardware.AllowParasites {
		return reject(ErrEnvironmentNak)
	}

	for range mover.NeighborhoodSize() {
		neighbor := mover.Neighbor()
		if neighbor != nil && neighbor.FindLabelFull(&label) >= 0 {
			return nil
		}
		mover.Rotate(1)
	}

	return fault(FAULT_LOC_ENVIRONMENT, ErrNoLabel)
}

func instMove(x *Exec) error {
	mover, err := capability[Mover](x)
	if err != nil {
		return err
	}
	if !mover.Move() {
		return reject(ErrEnvironmentNak)
	}
	return nil
}

// instSense reads the level of the resource numbered by CX into the
// modified register.
func instSense(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	pop, err := x.population()
	if err != nil {
		return err
	}
	*x.reg(dst) = int32(pop.Resource(int(*x.reg(REG_CX))))
	return nil
}

func instSendMessage(x *Exec) error {
	label := x.FindModifiedRegister(REG_BX)
	data := x.NextRegister(label)
	messenger, err := capability[Messenger](x)
	if err != nil {
		return err
	}
	if !messenger.SendMessage(Message{Label: *x.reg(label), Data: *x.reg(data)}) {
		return reject(ErrEnvironmentNak)
	}
	return nil
}

func instRetrieveMessage(x *Exec) error {
	label := x.FindModifiedRegister(REG_BX)
	data := x.NextRegister(label)
	messenger, err := capability[Messenger](x)
	if err != nil {
		return err
	}
	msg, ok := messenger.RetrieveMessage()
	if !ok {
		return fault(FAULT_LOC_ENVIRONMENT, ErrMessageMissing)
	}
	*x.reg(label) = msg.Label
	*x.reg(data) = msg.Data
	return nil
}

func instDonate(x *Exec) error {
	donor, err := capability[Donor](x)
	if err != nil {
		return err
	}
	if !donor.Donate() {
		return reject(ErrEnvironmentNak)
	}
	return nil
}

func instSetOpinion(x *Exec) error {
	src := x.FindModifiedRegister(REG_BX)
	op, err := capability[Opinionated](x)
	if err != nil {
		return err
	}
	op.SetOpinion(*x.reg(src))
	return nil
}

func instGetOpinion(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	op, err := capability[Opinionated](x)
	if err != nil {
		return err
	}
	opinion, ok := op.Opinion()
	if !ok {
		return fault(FAULT_LOC_ENVIRONMENT, ErrOpinionMissing)
	}
	*x.reg(dst) = opinion
	return nil
}

func instJoinGroup(x *Exec) error {
	src := x.FindModifiedRegister(REG_BX)
	grouper, err := capability[Grouper](x)
	if err != nil {
		return err
	}
	if !grouper.JoinGroup(*x.reg(src)) {
		return reject(ErrEnvironmentNak)
	}
	return nil
}

// instGroupSize reads the size of the organism's group, its opinion.
func instGroupSize(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	op, err := capability[Opinionated](x)
	if err != nil {
		return err
	}
	pop, err := x.population()
	if err != nil {
		return err
	}
	group, ok := op.Opinion()
	if !ok {
		return fault(FAULT_LOC_ENVIRONMENT, ErrOpinionMissing)
	}
	*x.reg(dst) = int32(pop.GroupSize(group))
	return nil
}

func instDemeSize(x *Exec) error {
	dst := x.FindModifiedRegister(REG_BX)
	pop, err := x.population()
	if err != nil {
		return err
	}
	*x.reg(dst) = int32(pop.DemeSize())
	return nil
}

func instDie(x *Exec) error {
	x.toDie = true
	return nil
}
