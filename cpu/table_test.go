package cpu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/inst"
	"github.com/ezrec/evocpu/rng"
)

func TestLoadTable(t *testing.T) {
	assert := assert.New(t)

	table, err := LoadTable(SET_HEADS_DEFAULT)
	assert.NoError(err)
	assert.Equal(26, table.Len())
	assert.Equal(3, table.NumNops())
	assert.False(table.HasCosts())
	_, ok := table.Promoter()
	assert.False(ok)

	again, err := LoadTable(SET_HEADS_DEFAULT)
	assert.NoError(err)
	assert.Same(table, again)

	for ins, entry := range table.All() {
		def, ok := LookupDefinition(entry.Name)
		assert.True(ok, entry.Name)
		assert.NotZero(def.Flags&inst.FLAG_DEFAULT, entry.Name)
		assert.NotNil(table.Func(ins), entry.Name)
	}

	full, err := LoadTable(SET_HEADS_FULL)
	assert.NoError(err)
	count := 0
	for range Library() {
		count++
	}
	assert.Equal(count, full.Len())
	_, ok = full.Promoter()
	assert.True(ok)
}

func TestLoadTable_File(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "costly.toml")
	text := `
name = "costly"

[[inst]]
name = "nop-A"

[[inst]]
name = "nop-B"

[[inst]]
name = "h-copy"
cost = 2
redundancy = 3
code = "101"
`
	assert.NoError(os.WriteFile(path, []byte(text), 0o644))

	table, err := LoadTable(path)
	assert.NoError(err)
	assert.Equal("costly", table.Name())
	assert.Equal(3, table.Len())
	assert.True(table.HasCosts())

	ins, ok := table.Lookup("h-copy")
	assert.True(ok)
	entry := table.Entry(ins)
	assert.Equal(2, entry.Cost)
	assert.Equal(3, entry.Redundancy)
	assert.Equal(uint32(0b101), entry.Code)
	assert.Equal(inst.CLASS_LIFECYCLE, entry.Class)

	bad := filepath.Join(dir, "bad.toml")
	assert.NoError(os.WriteFile(bad, []byte("[[inst]]\nname = \"no-such\"\n"), 0o644))
	_, err = LoadTable(bad)
	assert.Error(err)

	_, err = LoadTable(filepath.Join(dir, "missing.toml"))
	assert.Error(err)
}

func TestSingleProcess_PerUseCost(t *testing.T) {
	assert := assert.New(t)

	one := 1
	table, err := NewTable("cost", []inst.Spec{
		{Name: "nop-A"},
		{Name: "inc", Cost: 2, Redundancy: &one},
		{Name: "dec", FtCost: 1},
	})
	assert.NoError(err)

	cfg := testConfig()
	org := &testOrganism{}
	cpu, err := New(cfg, table, []inst.Instruction{1, 2}, org)
	assert.NoError(err)

	rc := rng.New(1)
	for range 2 {
		cpu.SingleProcess(rc, false)
		assert.Equal(int32(0), cpu.Register(REG_BX))
	}
	cpu.SingleProcess(rc, false)
	assert.Equal(int32(1), cpu.Register(REG_BX))

	// First time cost of dec.
	cpu.SingleProcess(rc, false)
	assert.Equal(int32(1), cpu.Register(REG_BX))
	cpu.SingleProcess(rc, false)
	assert.Equal(int32(0), cpu.Register(REG_BX))
}
