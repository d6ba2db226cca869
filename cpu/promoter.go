package cpu

import (
	"log"

	"github.com/ezrec/evocpu/config"
)

// Promoter is a promoter instruction and its decoded bit code.
type Promoter struct {
	Pos        int    // Position of the promoter instruction.
	BitCode    uint32 // Code read from the preceding instructions.
	Regulation uint32 // Regulation mask, XORed with the bit code.
}

// Regulated returns the bit code under its regulation mask.
func (p *Promoter) Regulated() uint32 {
	return p.BitCode ^ p.Regulation
}

// PromoterActive is true if at least threshold bits of code are set within
// the window of width bits starting at offset, wrapping within size bits.
func PromoterActive(code uint32, offset int, width int, size int, threshold int) bool {
	count := 0
	for n := range width {
		bit := (offset + n) % size
		count += int((code >> bit) & 1)
	}
	return count >= threshold
}

// Promoters returns the promoters found at the last reset.
func (cpu *Cpu) Promoters() []Promoter {
	return cpu.promoters
}

// PromoterCursor returns the promoter index and bit offset of the scan.
func (cpu *Cpu) PromoterCursor() (index int, offset int) {
	return cpu.promoterIndex, cpu.promoterOffset
}

// Numberate reads a bit code of bits length from the instruction codes
// starting at pos. Each instruction contributes InstCodeLength bits. A
// negative direction reads backwards, filling the code from the top.
func (cpu *Cpu) Numberate(pos int, direction int, bits int) (code uint32) {
	if bits <= 0 || bits > 32 {
		bits = 32
	}
	instBits := cpu.Config.Promoter.InstCodeLength
	size := cpu.memory.Len()

	at := ((pos % size) + size) % size
	for got := 0; got < bits; {
		icode := cpu.Table.Code(cpu.memory.At(at))
		for n := 0; got < bits && n < instBits; n++ {
			if direction < 0 {
				code >>= 1
				code |= (icode & 1) << (bits - 1)
				icode >>= 1
			} else {
				code <<= 1
				code |= (icode >> (instBits - 1)) & 1
				icode <<= 1
			}
			got++
		}
		at = (at + size + direction) % size
	}

	return
}

// scanPromoters records every promoter instruction in memory.
func (cpu *Cpu) scanPromoters() {
	ins, ok := cpu.Table.Promoter()
	if !ok {
		return
	}

	for pos := range cpu.memory.Len() {
		if cpu.memory.At(pos) != ins {
			continue
		}
		code := cpu.Numberate(pos-1, -1, cpu.Config.Promoter.CodeSize)
		cpu.promoters = append(cpu.promoters, Promoter{Pos: pos, BitCode: code})
	}
}

// nextPromoter moves the scan cursor round robin, shifting the bit offset
// each time all promoters were tried.
func (cpu *Cpu) nextPromoter() {
	pr := &cpu.Config.Promoter

	cpu.promoterIndex++
	if cpu.promoterIndex >= len(cpu.promoters) {
		cpu.promoterIndex = 0
		cpu.promoterOffset += pr.ExeLength
		if cpu.promoterOffset+pr.ExeLength >= pr.CodeSize {
			cpu.promoterOffset = 0
		}
	}
}

// IsActivePromoter is true if the promoter under the cursor is active.
func (cpu *Cpu) IsActivePromoter() bool {
	if cpu.promoterIndex < 0 || cpu.promoterIndex >= len(cpu.promoters) {
		return false
	}
	pr := &cpu.Config.Promoter
	code := cpu.promoters[cpu.promoterIndex].Regulated()
	return PromoterActive(code, cpu.promoterOffset, pr.ExeLength, pr.CodeSize, pr.ExeThreshold)
}

// terminate moves the IP just past the next active promoter. With no
// active promoter, the configured policy applies.
func (cpu *Cpu) terminate(reg int) {
	th := cpu.thread()
	th.PromoterInstExecuted = 0
	cpu.advanceIP = false

	found := false
	if len(cpu.promoters) > 0 {
		startIndex, startOffset := cpu.promoterIndex, cpu.promoterOffset
		for {
			cpu.nextPromoter()
			if cpu.IsActivePromoter() {
				found = true
				break
			}
			if cpu.promoterIndex == startIndex && cpu.promoterOffset == startOffset {
				break
			}
			if startIndex < 0 {
				startIndex = 0
			}
		}
	}

	if found {
		promoter := &cpu.promoters[cpu.promoterIndex]
		th.Heads[HEAD_IP].Set(promoter.Pos + 1)
		if cpu.Config.Promoter.ToRegister {
			*cpu.reg(reg) = int32(promoter.BitCode)
		}
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: no active promoter, %v", cpu.Config.Promoter.NoActive)
	}

	switch cpu.Config.Promoter.NoActive {
	case config.NO_ACTIVE_DIE:
		cpu.toDie = true
	default:
		cpu.promoterIndex = -1
		th.Heads[HEAD_IP].Set(0)
		*cpu.reg(reg) = 0
	}
}

// halted is true while execution waits for an active promoter.
func (cpu *Cpu) halted() bool {
	pr := &cpu.Config.Promoter
	return pr.Enabled && pr.NoActive == config.NO_ACTIVE_HALT && cpu.promoterIndex < 0
}

// regulate sets the regulation mask of promoters. If match is non-nil, only
// promoters agreeing with *match on a majority of the execution window are
// regulated.
func (cpu *Cpu) regulate(mask uint32, match *uint32) {
	width := cpu.Config.Promoter.ExeLength
	for n := range cpu.promoters {
		p := &cpu.promoters[n]
		if match != nil {
			agree := 0
			for bit := range width {
				if (p.BitCode>>bit)&1 == (*match>>bit)&1 {
					agree++
				}
			}
			if agree*2 <= width {
				continue
			}
		}
		p.Regulation = mask
	}
}
