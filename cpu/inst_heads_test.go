package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/config"
)

func TestHeadRead_NoMutate(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Mutation.CopyMut = 1.0
	cfg.Mutation.NoMutate = []string{"inc"}

	read := func(seed uint64) int32 {
		cpu, _ := testCpu(t, cfg, "h-read inc")
		cpu.Head(HEAD_READ).Set(1)
		assert.NoError(instHeadRead(testExec(cpu, seed)))
		assert.Equal(0, cpu.Head(HEAD_READ).Position())
		return cpu.Register(REG_BX)
	}

	cpu, _ := testCpu(t, cfg, "inc")
	inc := int32(op(t, cpu, "inc")[0])

	// Exempt instructions are always read faithfully.
	for seed := range uint64(10) {
		assert.Equal(inc, read(seed))
	}

	cfg.Mutation.NoMutate = nil
	differ := 0
	for seed := range uint64(10) {
		if read(seed) != inc {
			differ++
		}
	}
	assert.Greater(differ, 0)
}

func TestHeadCopy_SlipRead(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Mutation.SlipMode = config.SLIP_READ
	cfg.Mutation.CopySlip = 1.0

	positions := map[int]bool{}
	for seed := range uint64(20) {
		cpu, org := testCpu(t, cfg, ".repeat 8 inc")
		assert.NoError(instHeadCopy(testExec(cpu, seed)))
		pos := cpu.Head(HEAD_READ).Position()
		assert.True(pos >= 0 && pos < 8, pos)
		assert.Equal(1, cpu.Head(HEAD_WRITE).Position())
		assert.Equal(8, cpu.Memory().Len())
		assert.Empty(org.faults)
		positions[pos] = true
	}
	assert.Greater(len(positions), 1)

	// Without a slip the read head follows the copy.
	cfg.Mutation.CopySlip = 0
	cpu, _ := testCpu(t, cfg, ".repeat 8 inc")
	assert.NoError(instHeadCopy(testExec(cpu, 1)))
	assert.Equal(1, cpu.Head(HEAD_READ).Position())
}
