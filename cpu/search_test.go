package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/rng"
)

func nopNames(nops []int) string {
	names := make([]string, len(nops))
	for n, nop := range nops {
		names[n] = "nop-" + string(rune('A'+nop))
	}
	return strings.Join(names, " ")
}

func TestFindLabel_Complement(t *testing.T) {
	assert := assert.New(t)

	labels := [][]int{
		{0}, {1}, {2},
		{0, 1}, {2, 2},
		{1, 0, 2},
		{0, 1, 2, 0},
		{2, 1, 0, 0, 1},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
	}

	for _, nops := range labels {
		label := MakeLabel(nops...)
		comp := label.Complement(3)
		size := len(nops)
		name := label.String()

		// Forward, and from the start.
		program := strings.Join([]string{"inc", nopNames(nops), "inc inc", nopNames(comp.Values()), "inc"}, " ")
		for _, direction := range []int{1, 0} {
			cpu, _ := testCpu(t, testConfig(), program)
			cpu.readComplement()
			assert.Equal(size, cpu.Head(HEAD_IP).Position(), name)
			assert.True(cpu.thread().Label.Equal(&comp), name)
			assert.Equal(2*size+3, cpu.FindLabel(direction), name)
		}

		// Backward.
		program = strings.Join([]string{"inc", nopNames(comp.Values()), "inc inc inc", nopNames(nops), "inc"}, " ")
		cpu, _ := testCpu(t, testConfig(), program)
		cpu.Head(HEAD_IP).Set(size + 3)
		cpu.readComplement()
		assert.Equal(2*size+3, cpu.Head(HEAD_IP).Position(), name)
		assert.Equal(size+1, cpu.FindLabel(-1), name)
	}
}

func TestFindLabel_Missing(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := testCpu(t, testConfig(), "inc nop-A inc nop-A inc")
	cpu.readComplement()
	assert.Equal(-1, cpu.FindLabel(1))
	assert.Equal(-1, cpu.FindLabel(-1))
	assert.Equal(-1, cpu.FindLabel(0))

	cpu, _ = testCpu(t, testConfig(), "inc inc")
	cpu.readComplement()
	assert.Equal(0, cpu.thread().Label.Len())
	assert.Equal(-1, cpu.FindLabel(1))
}

func TestFindLabel_SubLabel(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := testCpu(t, testConfig(), "inc nop-A nop-B nop-C inc")
	label := MakeLabel(1, 2)
	assert.Equal(4, cpu.FindLabelFull(&label))
	label = MakeLabel(0, 1)
	assert.Equal(3, cpu.FindLabelFull(&label))
	label = MakeLabel(2, 0)
	assert.Equal(-1, cpu.FindLabelFull(&label))
}

func TestReadLabel(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Hardware.MaxLabelExeSize = 2
	cpu, _ := testCpu(t, cfg, "inc nop-B nop-C nop-A nop-A inc")
	cpu.ReadLabel(3)
	assert.Equal("BCA", cpu.thread().Label.String())
	assert.Equal(3, cpu.Head(HEAD_IP).Position())

	mem := cpu.Memory()
	assert.True(mem.Flag(1, genome.FLAG_EXECUTED))
	assert.True(mem.Flag(2, genome.FLAG_EXECUTED))
	assert.False(mem.Flag(3, genome.FLAG_EXECUTED))
}

func TestJump(t *testing.T) {
	assert := assert.New(t)

	cpu, org := testCpu(t, testConfig(), "jump-f nop-A inc inc nop-B dec")
	cpu.SingleProcess(rng.New(1), false)
	assert.Equal(5, cpu.Head(HEAD_IP).Position())
	assert.Empty(org.faults)

	cpu, org = testCpu(t, testConfig(), "jump-f nop-A inc inc nop-C dec")
	cpu.SingleProcess(rng.New(1), false)
	if assert.Len(org.faults, 1) {
		assert.ErrorIs(org.faults[0], ErrNoLabel)
		assert.Equal(FAULT_LOC_JUMP, org.faults[0].Location)
	}

	// Without a label, jump by BX.
	cpu, _ = testCpu(t, testConfig(), "jump-f inc inc dec")
	cpu.SetRegister(REG_BX, 2)
	cpu.SingleProcess(rng.New(1), false)
	assert.Equal(3, cpu.Head(HEAD_IP).Position())
}
