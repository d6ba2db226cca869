package cpu

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
	"github.com/ezrec/evocpu/rng"
)

// Register indices.
const (
	REG_AX = 0
	REG_BX = 1
	REG_CX = 2
)

// Exec is the context passed to every instruction behaviour.
type Exec struct {
	*Cpu
	Rand rng.Source
}

// Cpu is the virtual CPU of one organism.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Trace   io.Writer // If set, receives one line per executed instruction.

	Config     *config.Config // Configuration, shared read-only.
	Table      *Table         // Instruction table, shared read-only.
	Organism   Organism       // Host organism.
	Population Population     // Optional population view.

	memory *genome.Memory
	birth  genome.Genome

	threads   []Thread
	curThread int
	ids       *bitset.BitSet

	advanceIP   bool // Cleared by instructions that place the IP themselves.
	threadDelta int  // Declared thread count change of the instruction.
	threadReset bool // The instruction reset the CPU.

	cycles     int   // Steps executed.
	time       int   // Time used since birth or the last divide.
	instCount  []int // Successful executions per opcode.
	ftCost     []int // First time cost still owed per opcode.
	hasCosts   bool
	lastOp     int // Last opcode that paid its costs, -1 for none.
	switchPaid int
	noMutate   []bool

	malActive bool
	sterile   bool
	toDie     bool
	specDie   bool
	dead      bool
	reproEnd  bool
	divides   int

	promoters      []Promoter
	promoterIndex  int
	promoterOffset int

	epigenetic *Thread
}

// New creates a CPU running a genome.
func New(cfg *config.Config, table *Table, g genome.Genome, org Organism) (cpu *Cpu, err error) {
	if len(g) == 0 {
		err = ErrGenomeEmpty
		return
	}
	if table.NumNops() == 0 {
		err = ErrTableEmpty
		return
	}
	for _, ins := range g {
		if int(ins) >= table.Len() {
			err = inst.ErrUnknown(fmt.Sprintf("%d", ins))
			return
		}
	}

	cpu = &Cpu{
		Config:    cfg,
		Table:     table,
		Organism:  org,
		memory:    genome.NewMemory(g),
		birth:     g.Clone(),
		threads:   make([]Thread, 0, cfg.Hardware.MaxThreads),
		ids:       bitset.New(uint(cfg.Hardware.MaxThreads)),
		instCount: make([]int, table.Len()),
		ftCost:    make([]int, table.Len()),
		noMutate:  make([]bool, table.Len()),
		hasCosts:  table.HasCosts() || cfg.Cost.Switch > 0,
	}

	for _, name := range cfg.Mutation.NoMutate {
		if ins, ok := table.Lookup(name); ok {
			cpu.noMutate[ins] = true
		}
	}

	cpu.Reset()

	return
}

// Reset reloads the birth genome and clears all execution state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.memory.Load(cpu.birth)

	cpu.ids.ClearAll()
	cpu.threads = append(cpu.threads[:0], cpu.newThread(0))
	cpu.ids.Set(0)
	cpu.curThread = 0
	cpu.threadReset = true

	cpu.advanceIP = true
	cpu.malActive = false
	cpu.toDie = false
	cpu.specDie = false
	cpu.reproEnd = false
	cpu.lastOp = -1
	cpu.switchPaid = 0
	for ins, entry := range cpu.Table.All() {
		cpu.ftCost[ins] = entry.FtCost
	}

	if cpu.epigenetic != nil {
		th := &cpu.threads[0]
		copy(th.Reg, cpu.epigenetic.Reg)
		for n := range th.Stacks {
			th.Stacks[n] = cpu.epigenetic.Stacks[n].Clone()
		}
		th.CurStack = cpu.epigenetic.CurStack
	}

	cpu.promoters = cpu.promoters[:0]
	cpu.promoterIndex = -1
	cpu.promoterOffset = 0
	if cpu.Config.Promoter.Enabled {
		cpu.scanPromoters()
		cpu.terminate(REG_BX)
	}
}

// InheritState copies the registers and stacks of the current thread of
// src, and applies them to thread 0 now and on every future reset.
func (cpu *Cpu) InheritState(src *Cpu) {
	th := src.thread().Clone()
	cpu.epigenetic = &th

	dst := &cpu.threads[0]
	copy(dst.Reg, th.Reg)
	for n := range dst.Stacks {
		dst.Stacks[n] = th.Stacks[n].Clone()
	}
	dst.CurStack = th.CurStack
}

// Epigenetic is true if the CPU inherited its parent's state.
func (cpu *Cpu) Epigenetic() bool {
	return cpu.epigenetic != nil
}

// Memory returns the memory buffer.
func (cpu *Cpu) Memory() *genome.Memory {
	return cpu.memory
}

// Genome returns a snapshot of the memory contents.
func (cpu *Cpu) Genome() genome.Genome {
	return cpu.memory.Genome()
}

// BirthGenome returns the genome loaded on reset.
func (cpu *Cpu) BirthGenome() genome.Genome {
	return cpu.birth.Clone()
}

// Cycles returns the number of steps executed.
func (cpu *Cpu) Cycles() int {
	return cpu.cycles
}

// Time returns the time used since birth or the last divide.
func (cpu *Cpu) Time() int {
	return cpu.time
}

// InstCount returns the number of successful executions of an opcode.
func (cpu *Cpu) InstCount(ins inst.Instruction) int {
	return cpu.instCount[ins]
}

// Divides returns the number of successful divides.
func (cpu *Cpu) Divides() int {
	return cpu.divides
}

// Dead is true once the CPU has died.
func (cpu *Cpu) Dead() bool {
	return cpu.dead
}

// Sterile is true once resampling failed; all later offspring are sterile.
func (cpu *Cpu) Sterile() bool {
	return cpu.sterile
}

// Register returns a register of the current thread.
func (cpu *Cpu) Register(n int) int32 {
	return cpu.thread().Reg[n]
}

// SetRegister sets a register of the current thread.
func (cpu *Cpu) SetRegister(n int, value int32) {
	cpu.thread().Reg[n] = value
}

// Head returns a head of the current thread.
func (cpu *Cpu) Head(n int) *Head {
	return &cpu.thread().Heads[n]
}

func (cpu *Cpu) ip() *Head {
	return &cpu.thread().Heads[HEAD_IP]
}

func (cpu *Cpu) reg(n int) *int32 {
	th := cpu.thread()
	return &th.Reg[n%len(th.Reg)]
}

func (cpu *Cpu) stackPush(value int32) {
	cpu.thread().Stack().Push(value)
}

func (cpu *Cpu) stackPop() (value int32) {
	value, _ = cpu.thread().Stack().Pop()
	return
}

// AdjustHeads wraps every head of every thread into the memory.
func (cpu *Cpu) AdjustHeads() {
	for n := range cpu.threads {
		for h := range cpu.threads[n].Heads {
			cpu.threads[n].Heads[h].Adjust()
		}
	}
}

// FindModifiedRegister returns the register encoded by a nop following
// the IP, consuming it, or def if there is none.
func (cpu *Cpu) FindModifiedRegister(def int) (reg int) {
	reg = def
	if nop, ok := cpu.consumeNop(); ok {
		reg = nop % len(cpu.thread().Reg)
	}
	return
}

// FindModifiedNextRegister returns the register encoded by a following
// nop, or the register after def.
func (cpu *Cpu) FindModifiedNextRegister(def int) (reg int) {
	reg = cpu.NextRegister(def)
	if nop, ok := cpu.consumeNop(); ok {
		reg = nop % len(cpu.thread().Reg)
	}
	return
}

// FindModifiedPreviousRegister returns the register encoded by a following
// nop, or the register before def.
func (cpu *Cpu) FindModifiedPreviousRegister(def int) (reg int) {
	reg = cpu.PreviousRegister(def)
	if nop, ok := cpu.consumeNop(); ok {
		reg = nop % len(cpu.thread().Reg)
	}
	return
}

// FindModifiedHead returns the head encoded by a following nop, or def.
func (cpu *Cpu) FindModifiedHead(def int) (head int) {
	head = def
	if nop, ok := cpu.consumeNop(); ok {
		head = nop % NUM_HEADS
	}
	return
}

// NextRegister returns the register after reg.
func (cpu *Cpu) NextRegister(reg int) int {
	return (reg + 1) % len(cpu.thread().Reg)
}

// PreviousRegister returns the register before reg.
func (cpu *Cpu) PreviousRegister(reg int) int {
	size := len(cpu.thread().Reg)
	return (reg + size - 1) % size
}

// consumeNop advances the IP over a following nop, marking it executed.
func (cpu *Cpu) consumeNop() (nop int, ok bool) {
	ip := cpu.ip()
	next := ip.NextInst()
	if !cpu.Table.IsNop(next) {
		return
	}

	ip.Advance()
	ip.SetFlag(genome.FLAG_EXECUTED)
	nop, ok = cpu.Table.NopMod(next), true
	return
}

// String returns the current CPU state.
func (cpu *Cpu) String() string {
	var sb strings.Builder

	th := cpu.thread()
	fmt.Fprintf(&sb, "%7s: %d/%d id %d\n", "thread", cpu.curThread, len(cpu.threads), th.ID)
	for n, value := range th.Reg {
		fmt.Fprintf(&sb, "%7s: %d\n", fmt.Sprintf("%cx", 'a'+n), value)
	}
	for n := range th.Heads {
		head := &th.Heads[n]
		fmt.Fprintf(&sb, "%7s: %d %v\n", headName[n], head.Position(), cpu.Table.Symbol(head.Inst()))
	}
	for n := range th.Stacks {
		mark := ' '
		if n == th.CurStack {
			mark = '*'
		}
		fmt.Fprintf(&sb, "%7s: %c%v\n", fmt.Sprintf("stack%d", n), mark, th.Stacks[n].Data)
	}
	fmt.Fprintf(&sb, "%7s: %v\n", "label", th.Label.String())
	fmt.Fprintf(&sb, "%7s: %d\n", "memory", cpu.memory.Len())
	fmt.Fprintf(&sb, "%7s: %d\n", "cycles", cpu.cycles)
	fmt.Fprintf(&sb, "%7s: %d\n", "time", cpu.time)
	if cpu.Config.Promoter.Enabled {
		fmt.Fprintf(&sb, "%7s: %d@%d of %d\n", "promote", cpu.promoterIndex, cpu.promoterOffset, len(cpu.promoters))
	}

	return sb.String()
}

// TraceLine renders the current thread state as a single line.
func (cpu *Cpu) TraceLine() string {
	th := cpu.thread()
	ip := &th.Heads[HEAD_IP]

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d t%d %d:%s", cpu.cycles, th.ID, ip.Position(), cpu.Table.Symbol(ip.Inst()))
	for n, value := range th.Reg {
		fmt.Fprintf(&sb, " %cx=%d", 'a'+n, value)
	}
	for n := HEAD_READ; n < NUM_HEADS; n++ {
		fmt.Fprintf(&sb, " %s=%d", headName[n], th.Heads[n].Position())
	}
	top, _ := th.Stack().Peek()
	fmt.Fprintf(&sb, " stk%d=%d mem=%d", th.CurStack, top, cpu.memory.Len())

	return sb.String()
}
