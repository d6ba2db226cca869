package cpu

import (
	"log"
	"slices"
)

// Thread is an execution context sharing the CPU memory.
type Thread struct {
	ID                   int             // Stable thread ID.
	Reg                  []int32         // Register file.
	Heads                [NUM_HEADS]Head // IP, read, write and flow heads.
	Stacks               [2]Stack        // Value stacks.
	CurStack             int             // Index of the active stack.
	CurHead              int             // Head moved by jumps, see set-head.
	Label                Label           // Last label read after the IP.
	ReadLabel            Label           // Trailing nops read by copies.
	PromoterInstExecuted int             // Instructions since the last promoter.
	MessageTrigger       int32           // Message label awaited, -1 for none.
	Waiting              bool            // Suspended until a message arrives.

	costOp   int // Opcode whose per-use cost is being paid, -1 for none.
	costLeft int // Cycles of that cost still owed.
}

func (cpu *Cpu) newThread(id int) (th Thread) {
	th = Thread{
		ID:             id,
		Reg:            make([]int32, cpu.Config.Hardware.Registers),
		MessageTrigger: -1,
		costOp:         -1,
	}
	for n := range th.Heads {
		th.Heads[n] = NewHead(cpu.memory, 0)
	}
	for n := range th.Stacks {
		th.Stacks[n].Limit = cpu.Config.Hardware.StackSize
	}
	return
}

// Clone returns a deep copy of the thread.
func (th *Thread) Clone() (clone Thread) {
	clone = *th
	clone.Reg = slices.Clone(th.Reg)
	for n := range th.Stacks {
		clone.Stacks[n] = th.Stacks[n].Clone()
	}
	clone.Label = th.Label.Clone()
	clone.ReadLabel = th.ReadLabel.Clone()
	return
}

// Stack returns the active stack.
func (th *Thread) Stack() *Stack {
	return &th.Stacks[th.CurStack]
}

// thread returns the current thread. The pointer is only valid until the
// thread table changes.
func (cpu *Cpu) thread() *Thread {
	return &cpu.threads[cpu.curThread]
}

// NumThreads returns the number of live threads.
func (cpu *Cpu) NumThreads() int {
	return len(cpu.threads)
}

// CurThread returns the index of the current thread.
func (cpu *Cpu) CurThread() int {
	return cpu.curThread
}

// Thread returns a thread by index.
func (cpu *Cpu) Thread(n int) *Thread {
	return &cpu.threads[n]
}

// ForkThread copies the current thread into a new thread with the lowest
// free ID. It fails if the thread table is full.
func (cpu *Cpu) ForkThread() (ok bool) {
	if len(cpu.threads) >= cpu.Config.Hardware.MaxThreads {
		return
	}

	id, found := cpu.ids.NextClear(0)
	if !found {
		return
	}

	th := cpu.thread().Clone()
	th.ID = int(id)
	cpu.ids.Set(id)
	cpu.threads = append(cpu.threads, th)
	cpu.threadDelta++

	if cpu.Verbose {
		log.Printf("cpu: fork thread %d", th.ID)
	}

	ok = true
	return
}

// KillThread removes the current thread, replacing it with the last thread
// of the table. The last remaining thread cannot be killed.
func (cpu *Cpu) KillThread() (ok bool) {
	if len(cpu.threads) <= 1 {
		return
	}

	kill := cpu.curThread
	last := len(cpu.threads) - 1
	id := cpu.threads[kill].ID

	cpu.ids.Clear(uint(id))
	cpu.threads[kill] = cpu.threads[last]
	cpu.threads = cpu.threads[:last]
	cpu.threadDelta--

	// The next thread scheduled is the one moved into the killed slot.
	cpu.curThread = kill - 1
	if cpu.curThread < 0 {
		cpu.curThread = len(cpu.threads) - 1
	}

	if cpu.Verbose {
		log.Printf("cpu: kill thread %d", id)
	}

	ok = true
	return
}

// threadNext selects the next runnable thread, round robin. It returns
// false if every thread is waiting.
func (cpu *Cpu) threadNext() (ok bool) {
	for range len(cpu.threads) {
		cpu.curThread = (cpu.curThread + 1) % len(cpu.threads)
		if !cpu.threads[cpu.curThread].Waiting {
			ok = true
			return
		}
	}
	return
}

// threadIndex finds a thread by ID, or -1.
func (cpu *Cpu) threadIndex(id int) int {
	return slices.IndexFunc(cpu.threads, func(th Thread) bool { return th.ID == id })
}

// Interrupt delivers a message to the first thread waiting for its label.
// The woken thread receives the label in BX and the data in CX.
func (cpu *Cpu) Interrupt(msg Message) (ok bool) {
	for n := range cpu.threads {
		th := &cpu.threads[n]
		if !th.Waiting || th.MessageTrigger != msg.Label {
			continue
		}
		th.Waiting = false
		th.MessageTrigger = -1
		th.Reg[REG_BX] = msg.Label
		th.Reg[REG_CX] = msg.Data
		ok = true
		return
	}
	return
}
