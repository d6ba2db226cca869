package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/cpu"
	"github.com/ezrec/evocpu/genome"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Mutation = config.Mutation{}
	cfg.Genome.MinSize = 1
	cfg.Divide.MinExeLines = 0
	cfg.Divide.MinCopiedLines = 0
	return cfg
}

func newEmulator(t *testing.T, cfg *config.Config, set string, program string) (emu *Emulator) {
	t.Helper()

	table, err := cpu.LoadTable(set)
	if err != nil {
		t.Fatal(err)
	}

	asm := &genome.Assembler{Set: table.Set}
	g, err := asm.Parse(strings.NewReader(program))
	if err != nil {
		t.Fatal(err)
	}

	emu, err = NewEmulator(cfg, table, g, 1)
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_DEFAULT, "nop-A inc")

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Len(emu.Inputs, INPUT_COUNT)
	for _, value := range emu.Inputs {
		assert.Equal(int32(INPUT_TAG), value&^0xffffff)
	}
	assert.True(emu.Energy > 1e300)
	assert.Equal(1, emu.DemeSize())

	table, err := cpu.LoadTable(cpu.SET_HEADS_DEFAULT)
	assert.NoError(err)
	_, err = NewEmulator(testConfig(), table, nil, 1)
	assert.ErrorIs(err, cpu.ErrGenomeEmpty)
}

func TestEmulatorAncestor(t *testing.T) {
	assert := assert.New(t)

	program, err := os.ReadFile("testdata/ancestor.org")
	assert.NoError(err)

	cfg := config.Default()
	cfg.Mutation = config.Mutation{}
	emu := newEmulator(t, cfg, cpu.SET_HEADS_DEFAULT, string(program))
	assert.Equal(50, emu.Memory().Len())

	steps, err := emu.Run(2000)
	assert.NoError(err)
	assert.Equal(2000, steps)
	assert.Empty(emu.Faults)
	assert.GreaterOrEqual(len(emu.Offspring), 2)
	for _, child := range emu.Offspring {
		assert.Equal(emu.BirthGenome(), child.Genome)
		assert.False(child.Sterile)
	}
	assert.Equal(len(emu.Offspring), emu.Divides())
}

func TestEmulatorTape(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_DEFAULT, "IO IO IO IO")
	output := &bytes.Buffer{}
	emu.Tape.Input = strings.NewReader("5 -6\n")
	emu.Tape.Output = output

	steps, err := emu.Run(4)
	assert.NoError(err)
	assert.Equal(4, steps)
	assert.Equal([]int32{0, 5, -6, emu.Inputs[0]}, emu.Outputs)
	assert.Equal(fmt.Sprintf("0\n5\n-6\n%d\n", emu.Inputs[0]), output.String())
	assert.Equal(emu.Inputs[1], emu.Register(cpu.REG_BX))
}

func TestEmulatorDie(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "inc die inc")

	steps, err := emu.Run(10)
	assert.NoError(err)
	assert.Equal(2, steps)
	assert.True(emu.Died)
	assert.True(emu.Dead())

	_, err = emu.Run(10)
	assert.ErrorIs(err, ErrDead)
	assert.ErrorIs(emu.Step(), ErrDead)
}

func TestEmulatorMessages(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "wait-msg retrieve-msg nop-X nop-X")

	assert.NoError(emu.Step())
	assert.True(emu.Thread(0).Waiting)

	// A waiting thread takes a matching message directly.
	emu.Deliver(cpu.Message{Label: 2, Data: 3})
	assert.True(emu.Thread(0).Waiting)
	emu.Deliver(cpu.Message{Label: 0, Data: 7})
	assert.False(emu.Thread(0).Waiting)
	assert.Equal(int32(7), emu.Register(cpu.REG_CX))

	assert.NoError(emu.Step())
	assert.Empty(emu.Faults)
	assert.Equal(int32(2), emu.Register(cpu.REG_BX))
	assert.Equal(int32(3), emu.Register(cpu.REG_CX))

	_, ok := emu.Mailbox.Receive()
	assert.False(ok)
}

func TestEmulatorFacing(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "rotate-l move send-msg donate move nop-X")
	neighbor := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "nop-X")

	assert.NoError(emu.Step())
	assert.Equal(NEIGHBORHOOD_SIZE-1, emu.Facing)

	assert.NoError(emu.Step())
	assert.Equal(1, emu.Moves)

	// Messages and donations need a neighbor.
	assert.NoError(emu.Step())
	_, ok := emu.Mailbox.Sent()
	assert.False(ok)

	emu.Neighbors[emu.Facing] = neighbor.Cpu
	assert.NoError(emu.Step())
	assert.Equal(1, emu.Donations)

	assert.NoError(emu.Step())
	assert.Equal(1, emu.Moves)
	assert.Empty(emu.Faults)

	emu.Rotate(1)
	assert.Equal(0, emu.Facing)
	assert.Nil(emu.Neighbor())
}

func TestEmulatorGroups(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "inc join-group group-size nop-C inc join-group group-size nop-A sense nop-B")
	emu.Resources = []float64{0, 0, 7.5}

	_, err := emu.Run(6)
	assert.NoError(err)
	assert.Equal(int32(1), emu.Register(cpu.REG_CX))
	assert.Equal(int32(1), emu.Register(cpu.REG_AX))
	assert.Equal(map[int32]int{2: 1}, emu.Groups)
	opinion, ok := emu.Opinion()
	assert.True(ok)
	assert.Equal(int32(2), opinion)

	emu.SetRegister(cpu.REG_CX, 2)
	assert.NoError(emu.Step())
	assert.Equal(int32(7), emu.Register(cpu.REG_BX))
	assert.Equal(0.0, emu.Resource(-1))
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := newEmulator(t, testConfig(), cpu.SET_HEADS_FULL, "inc IO die")
	_, err := emu.Run(5)
	assert.NoError(err)
	assert.True(emu.Died)
	assert.Len(emu.Outputs, 1)

	assert.NoError(emu.Reset())
	assert.False(emu.Died)
	assert.False(emu.Dead())
	assert.Empty(emu.Outputs)
	assert.Equal(0, emu.Cycles())
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := error(&ErrRuntime{Cycle: 3, Err: cpu.ErrThreadCount})
	assert.ErrorIs(err, cpu.ErrThreadCount)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(3, rt.Cycle)
}
