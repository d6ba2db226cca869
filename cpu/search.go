package cpu

import (
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
)

// ReadLabel reads the nops following the IP into the label of the current
// thread, advancing the IP to the last nop read. Nops within the first
// MaxLabelExeSize of the label are marked executed.
func (cpu *Cpu) ReadLabel(maxSize int) {
	th := cpu.thread()
	ip := &th.Heads[HEAD_IP]
	th.Label.Clear()

	for count := 0; count < maxSize && cpu.Table.IsNop(ip.NextInst()); count++ {
		ip.Advance()
		th.Label.Add(cpu.Table.NopMod(ip.Inst()))
		if th.Label.Len() <= cpu.Config.Hardware.MaxLabelExeSize {
			ip.SetFlag(genome.FLAG_EXECUTED)
		}
	}
}

// readLabel reads a label of the configured maximum size.
func (cpu *Cpu) readLabel() *Label {
	cpu.ReadLabel(cpu.Config.Hardware.MaxLabelSize)
	return &cpu.thread().Label
}

// readComplement reads a label, and replaces it by its complement.
func (cpu *Cpu) readComplement() *Label {
	label := cpu.readLabel()
	label.Rotate(1, cpu.Table.NumNops())
	return label
}

// readInst records a copied instruction in the read label.
func (cpu *Cpu) readInst(ins inst.Instruction) {
	th := cpu.thread()
	if int(ins) < cpu.Table.Len() && cpu.Table.IsNop(ins) {
		th.ReadLabel.Add(cpu.Table.NopMod(ins))
	} else {
		th.ReadLabel.Clear()
	}
}

// FindLabel searches for the current thread's label: forward from the IP
// (direction > 0), backward from the IP (direction < 0), or forward from
// the start of memory (direction 0). It returns the position just after
// the match, or -1 if the label is empty or not found.
func (cpu *Cpu) FindLabel(direction int) (pos int) {
	label := &cpu.thread().Label
	if label.Len() == 0 {
		return -1
	}

	ip := cpu.ip()
	ip.Adjust()

	switch {
	case direction < 0:
		pos = cpu.findLabelBackward(label, ip.Position()-label.Len())
	case direction > 0:
		pos = cpu.findLabelForward(label, ip.Position())
	default:
		pos = cpu.findLabelForward(label, 0)
	}

	return
}

// FindLabelFull searches the whole memory, from the start, for a label.
func (cpu *Cpu) FindLabelFull(label *Label) int {
	if label.Len() == 0 {
		return -1
	}
	return cpu.findLabelForward(label, 0)
}

// matchAt is true if the label matches the memory starting at pos.
func (cpu *Cpu) matchAt(label *Label, pos int) bool {
	for n := range label.Len() {
		if label.At(n) != cpu.Table.NopMod(cpu.memory.At(pos+n)) {
			return false
		}
	}
	return true
}

func (cpu *Cpu) isNopAt(pos int) bool {
	return cpu.Table.IsNop(cpu.memory.At(pos))
}

// findLabelForward scans from just past the label at start towards the
// end of memory. A label may match anywhere within a longer run of nops.
func (cpu *Cpu) findLabelForward(label *Label, start int) int {
	size := label.Len()
	length := cpu.memory.Len()

	for pos := start + size; pos < length; pos += size {
		if !cpu.isNopAt(pos) {
			continue
		}

		// Expand to the run of nops around pos.
		first, last := pos, pos
		for first > start && cpu.isNopAt(first-1) {
			first--
		}
		for last < length-1 && cpu.isNopAt(last+1) {
			last++
		}

		for offset := first; offset+size <= last+1; offset++ {
			if cpu.matchAt(label, offset) {
				return offset + size
			}
		}

		pos = last + 1
	}

	return -1
}

// findLabelBackward scans from just before start towards the start of
// memory.
func (cpu *Cpu) findLabelBackward(label *Label, start int) int {
	size := label.Len()
	length := cpu.memory.Len()

	for pos := start - size; pos >= 0; pos -= size {
		if pos >= length || !cpu.isNopAt(pos) {
			continue
		}

		first, last := pos, pos
		for first > 0 && cpu.isNopAt(first-1) {
			first--
		}
		for last < start && last < length-1 && cpu.isNopAt(last+1) {
			last++
		}

		for offset := first; offset+size <= last+1; offset++ {
			if cpu.matchAt(label, offset) {
				return offset + size
			}
		}

		pos = first - 1
	}

	return -1
}
