package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/rng"
)

// ancestor is the classic self-replicating heads genome.
var ancestor = strings.Join([]string{
	"h-alloc",
	"h-search nop-C nop-A",
	"mov-head nop-C",
	".repeat 35 nop-C",
	"h-search",
	"h-copy",
	"if-label nop-C nop-A",
	"h-divide",
	"mov-head nop-A",
	"nop-B",
}, "\n")

func TestAllocateDivide(t *testing.T) {
	assert := assert.New(t)

	for _, method := range []config.DivideMethod{config.DIVIDE_SPLIT, config.DIVIDE_OFFSPRING} {
		cfg := testConfig()
		cfg.Divide.Method = method
		cpu, org := testCpu(t, cfg, "allocate divide")
		cpu.SetRegister(REG_BX, 4)

		rc := rng.New(1)
		assert.True(cpu.SingleProcess(rc, false))
		assert.Equal(6, cpu.Memory().Len())
		assert.Equal(int32(2), cpu.Register(REG_AX))

		assert.True(cpu.SingleProcess(rc, false))
		assert.Empty(org.faults)
		assert.Len(org.offspring, 1)
		child := org.offspring[0]
		assert.Equal(genome.Genome{0, 0, 0, 0}, child.Genome, method)
		assert.Equal(0, child.Mutations)
		assert.Equal(2, cpu.Memory().Len())
		assert.Equal(1, cpu.Divides())
		assert.Equal(0, cpu.Time())
		assert.Equal(0, cpu.Memory().Count(genome.FLAG_EXECUTED, 0, 2))
	}
}

func TestAncestor(t *testing.T) {
	assert := assert.New(t)

	table, err := LoadTable(SET_HEADS_DEFAULT)
	assert.NoError(err)
	g, err := genome.Parse(table.Set, ancestor)
	assert.NoError(err)
	assert.Equal(50, len(g))

	cfg := config.Default()
	cfg.Mutation = config.Mutation{}
	org := &testOrganism{}
	cpu, err := New(cfg, table, g, org)
	assert.NoError(err)

	rc := rng.New(1)
	for step := 0; step < 2000 && len(org.offspring) == 0; step++ {
		assert.True(cpu.SingleProcess(rc, false))
	}

	assert.Empty(org.faults)
	if assert.Len(org.offspring, 1) {
		assert.Equal(g, org.offspring[0].Genome)
	}
	assert.Equal(g, cpu.Genome())
	assert.Equal(0, cpu.Head(HEAD_IP).Position())

	// The offspring replicates in turn.
	child, err := New(cfg, table, org.offspring[0].Genome, org)
	assert.NoError(err)
	for step := 0; step < 2000 && len(org.offspring) == 1; step++ {
		child.SingleProcess(rc, false)
	}
	assert.Len(org.offspring, 2)
}

func TestAllocate_Faults(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		size int
		err  error
	}{
		{"zero", 0, ErrAllocTooSmall},
		{"negative", -3, ErrAllocTooSmall},
		{"large", 30, ErrAllocTooLarge},
		{"small", 2, ErrAllocTooSmall},
		{"bounds", 5000, ErrAllocSize},
	}

	for _, entry := range table {
		cpu, _ := testCpu(t, testConfig(), ".repeat 10 inc")
		x := testExec(cpu, 1)
		err := x.allocate(entry.size)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(10, cpu.Memory().Len(), entry.name)
	}

	cpu, _ := testCpu(t, testConfig(), ".repeat 10 inc")
	x := testExec(cpu, 1)
	assert.NoError(x.allocate(10))
	assert.ErrorIs(x.allocate(10), ErrAllocActive)
	assert.Equal(20, cpu.Memory().Len())

	cfg := testConfig()
	cfg.Genome.AllocMethod = config.ALLOC_NECRO
	cpu, _ = testCpu(t, cfg, ".repeat 10 inc")
	x = testExec(cpu, 1)
	cpu.Memory().Resize(5)
	cpu.AdjustHeads()
	assert.NoError(x.allocate(5))
	assert.Equal(cpu.Memory().At(0), cpu.Memory().At(9))
}

func TestDivide_Viability(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Divide.Method = config.DIVIDE_OFFSPRING
	cfg.Mutation.DivMut = 0.2
	cfg.Mutation.DivideMut = 0.5
	cfg.Mutation.ParentMut = 0.1

	for split := -1; split <= 21; split++ {
		for extra := 0; extra < 3; extra++ {
			cpu, org := testCpu(t, cfg, ".repeat 10 inc")
			x := testExec(cpu, uint64(split*3+extra+10))
			assert.NoError(x.allocate(10))

			before := cpu.Genome()
			err := x.divide(split, extra, divideMain)
			if err != nil {
				assert.ErrorIs(err, ErrRejected)
				assert.Equal(before, cpu.Genome())
				assert.Empty(org.offspring)
				continue
			}

			assert.Equal(split, cpu.Memory().Len())
			if assert.Len(org.offspring, 1) {
				assert.Len(org.offspring[0].Genome, 20-split-extra)
			}
		}
	}
}

func TestDivide_Rejected(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cpu, org := testCpu(t, cfg, ".repeat 10 inc")
	x := testExec(cpu, 1)
	assert.ErrorIs(x.divide(5, 0, divideMain), ErrNoAllocate)

	assert.NoError(x.allocate(10))
	cpu.Memory().SetFlag(3, genome.FLAG_EXECUTED)
	cpu.Memory().SetFlag(12, genome.FLAG_COPIED)

	table := []struct {
		name   string
		split  int
		spec   DivideSpec
		copied float64
		exe    float64
		err    error
	}{
		{"not-exact", 10, divideExact, 0, 0, ErrNotExactCopy},
		{"parent-size", 2, divideMain, 0, 0, ErrParentSize},
		{"offspring-size", 17, divideMain, 0, 0, ErrOffspringSize},
		{"copied", 10, divideMain, 0.5, 0, ErrCopiedLines},
		{"executed", 10, divideMain, 0, 0.5, ErrExecutedLines},
	}

	for _, entry := range table {
		cfg.Divide.MinCopiedLines = entry.copied
		cfg.Divide.MinExeLines = entry.exe

		// A rejected divide leaves the parent untouched.
		before := cpu.State()
		err := x.divide(entry.split, 0, entry.spec)
		assert.ErrorIs(err, ErrRejected, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(before, cpu.State(), entry.name)
	}

	assert.Empty(org.offspring)
	assert.Empty(org.faults)
	assert.Equal(20, cpu.Memory().Len())
}

func TestDivide_Exact(t *testing.T) {
	assert := assert.New(t)

	cpu, org := testCpu(t, testConfig(), ".repeat 10 inc")
	x := testExec(cpu, 1)
	cpu.Config.Genome.AllocMethod = config.ALLOC_NECRO
	cpu.Memory().Resize(5)
	assert.NoError(x.allocate(5))
	assert.NoError(x.divide(5, 0, divideExact))
	assert.Len(org.offspring, 1)
}

func TestDivide_MutationCap(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		spec DivideSpec
		slip float64
		max  int
	}{
		{"none", DivideSpec{MaxMutations: 0}, 0, 0},
		{"one", DivideSpec{MaxMutations: 1}, 0, 1},
		{"two", DivideSpec{MaxMutations: 2}, 0, 2},
		{"unlimited", divideMain, 0, 10},
		{"none-slip", DivideSpec{MaxMutations: 0}, 1.0, 0},
		{"one-slip", DivideSpec{MaxMutations: 1}, 1.0, 1},
	}

	for _, entry := range table {
		for seed := range uint64(20) {
			cfg := testConfig()
			cfg.Mutation.DivMut = 1.0
			cfg.Mutation.DivideSlip = entry.slip
			cpu, org := testCpu(t, cfg, ".repeat 10 inc")
			x := testExec(cpu, seed)
			assert.NoError(x.allocate(10), entry.name)
			copied := cpu.Genome()[10:]
			assert.NoError(x.divide(10, 0, entry.spec), entry.name)
			if !assert.Len(org.offspring, 1, entry.name) {
				continue
			}
			assert.Equal(entry.max, org.offspring[0].Mutations, entry.name)
			if entry.max == 0 {
				assert.Equal(copied, org.offspring[0].Genome, entry.name)
			}
		}
	}
}

func TestDivide_Resample(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Mutation.DivMut = 1.0
	cfg.Divide.ResampleRetries = 3

	cpu, org := testCpu(t, cfg, ".repeat 10 inc")
	org.reverted = true
	x := testExec(cpu, 1)
	assert.NoError(x.allocate(10))
	assert.NoError(x.divide(10, 0, DivideSpec{MaxMutations: -1, Resample: true}))
	assert.True(cpu.Sterile())
	if assert.Len(org.offspring, 1) {
		assert.True(org.offspring[0].Sterile)
	}

	cpu, org = testCpu(t, cfg, ".repeat 10 inc")
	x = testExec(cpu, 1)
	assert.NoError(x.allocate(10))
	assert.NoError(x.divide(10, 0, DivideSpec{MaxMutations: -1, Resample: true}))
	assert.False(cpu.Sterile())
}

func TestDivide_ParentDies(t *testing.T) {
	assert := assert.New(t)

	cpu, org := testCpu(t, testConfig(), "allocate divide")
	org.fatal = true
	cpu.SetRegister(REG_BX, 4)
	rc := rng.New(1)
	assert.True(cpu.SingleProcess(rc, false))
	assert.False(cpu.SingleProcess(rc, false))
	assert.Len(org.offspring, 1)
	assert.Equal(1, org.died)
}

func TestRepro(t *testing.T) {
	assert := assert.New(t)

	cpu, org := testCpu(t, testConfig(), "inc repro")
	rc := rng.New(1)
	cpu.SingleProcess(rc, false)
	cpu.SingleProcess(rc, false)
	if assert.Len(org.offspring, 1) {
		assert.Equal(cpu.BirthGenome(), org.offspring[0].Genome)
	}

	cfg := testConfig()
	cfg.Hardware.ImplicitReproEnd = true
	cpu, org = testCpu(t, cfg, "inc inc inc")
	for range 3 {
		cpu.SingleProcess(rc, false)
	}
	assert.Len(org.offspring, 1)
	assert.Equal(int32(0), cpu.Register(REG_BX))
}

func TestCopyMutationRate(t *testing.T) {
	assert := assert.New(t)

	const trials = 20000
	const p = 0.1

	cfg := testConfig()
	cfg.Mutation.CopyMut = p
	cpu, _ := testCpu(t, cfg, "inc nop-A")
	x := testExec(cpu, 42)
	src := cpu.Memory().At(0)

	differ := 0
	write := NewHead(cpu.Memory(), 1)
	for range trials {
		x.copyInst(src, &write)
		if write.Inst() != src {
			differ++
			assert.True(write.Flag(genome.FLAG_COPY_MUT))
		}
		assert.True(write.Flag(genome.FLAG_COPIED))
	}

	size := float64(cpu.Table.Len())
	expect := p * (size - 1) / size
	assert.InDelta(expect, float64(differ)/trials, 0.01)
	assert.Equal(2, cpu.Memory().Len())
}

func TestCopyInsertDelete(t *testing.T) {
	assert := assert.New(t)

	cfg := testConfig()
	cfg.Mutation.CopyIns = 1.0
	cpu, _ := testCpu(t, cfg, "inc nop-A")
	x := testExec(cpu, 1)
	write := NewHead(cpu.Memory(), 1)
	x.copyInst(cpu.Memory().At(0), &write)
	assert.Equal(3, cpu.Memory().Len())
	assert.True(cpu.Memory().Flag(1, genome.FLAG_MUTATED))

	cfg = testConfig()
	cfg.Mutation.CopyDel = 1.0
	cpu, _ = testCpu(t, cfg, "inc nop-A nop-B")
	x = testExec(cpu, 1)
	write = NewHead(cpu.Memory(), 1)
	x.copyInst(cpu.Memory().At(0), &write)
	assert.Equal(2, cpu.Memory().Len())
}

func TestCopyInst_KeepsMarks(t *testing.T) {
	assert := assert.New(t)

	cpu, _ := testCpu(t, testConfig(), "inc nop-A")
	x := testExec(cpu, 1)
	cpu.Memory().SetFlag(1, genome.FLAG_MUTATED|genome.FLAG_COPY_MUT)

	// A clean copy keeps the marks of earlier mutations.
	write := NewHead(cpu.Memory(), 1)
	x.copyInst(cpu.Memory().At(0), &write)
	assert.Equal(cpu.Memory().At(0), cpu.Memory().At(1))
	assert.True(cpu.Memory().Flag(1, genome.FLAG_COPIED))
	assert.True(cpu.Memory().Flag(1, genome.FLAG_MUTATED))
	assert.True(cpu.Memory().Flag(1, genome.FLAG_COPY_MUT))
}
