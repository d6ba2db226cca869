package genome

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/evocpu/inst"
)

func testSet(t *testing.T) *inst.Set {
	set, err := inst.NewSet("asm", []inst.Entry{
		{Name: "nop-A", Flags: inst.FLAG_NOP, NopMod: 0, Redundancy: 1},
		{Name: "nop-B", Flags: inst.FLAG_NOP, NopMod: 1, Redundancy: 1},
		{Name: "nop-C", Flags: inst.FLAG_NOP, NopMod: 2, Redundancy: 1},
		{Name: "h-alloc", Redundancy: 1},
		{Name: "h-copy", Redundancy: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	set := testSet(t)
	asm := &Assembler{Set: set}

	_, err := asm.Parse(strings.NewReader(""))
	assert.ErrorIs(err, ErrGenomeEmpty)
	assert.Equal("5", asm.Equate["INST_COUNT"])
	assert.Equal("3", asm.Equate["NOP_COUNT"])

	g, err := asm.Parse(strings.NewReader("h-alloc ; allocate\n# comment\nnop-A nop-B\n"))
	assert.NoError(err)
	assert.Equal(Genome{3, 0, 1}, g)
}

func TestAssembler_Directives(t *testing.T) {
	assert := assert.New(t)

	set := testSet(t)

	program := []string{
		".equ FILL nop-C",
		".equ N 3",
		".macro pair A B",
		"A B",
		".endm",
		"h-alloc",
		".repeat $(N-1) FILL",
		"pair nop-A h-copy",
	}

	asm := &Assembler{Set: set}
	g, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal(Genome{3, 2, 2, 0, 4}, g)
}

func TestAssembler_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{Set: testSet(t)}
	asm.Predefine("GAP", "4")

	g, err := asm.Parse(strings.NewReader(".repeat $(GAP*2) nop-B"))
	assert.NoError(err)
	assert.Equal(8, len(g))
}

func TestAssembler_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name    string
		program []string
		err     error
	}{
		{"unknown", []string{"h-fly"}, ErrInstUnknown("h-fly")},
		{"equ", []string{".equ A"}, ErrEquateSyntax},
		{"equ-dup", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate},
		{"nest", []string{".macro a", ".macro b"}, ErrMacroNesting},
		{"lonely", []string{".macro a", "nop-A"}, ErrMacroLonely},
		{"endm", []string{".endm"}, ErrMacroLonelyEndm},
		{"repeat", []string{".repeat 2"}, ErrRepeatSyntax},
		{"count", []string{".repeat x nop-A"}, ErrParseNumber("x")},
		{"macro-args", []string{".macro m X", "X", ".endm", "m"}, ErrMacroSyntax},
	}

	for _, entry := range table {
		asm := &Assembler{Set: testSet(t)}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.Error(err, entry.name)
		assert.True(errors.Is(err, entry.err), entry.name)

		var syntax *ErrSyntax
		assert.True(errors.As(err, &syntax), entry.name)
	}
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(testSet(t), "h-copy nop-C")
	assert.NoError(err)
	assert.Equal("h-copy\nnop-C\n", g.Format(testSet(t)))

	_, err = (&Assembler{}).Parse(strings.NewReader("nop-A"))
	assert.ErrorIs(err, ErrInstructionSet)
}
