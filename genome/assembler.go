// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package genome

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/evocpu/inst"
	"github.com/ezrec/evocpu/internal"
)

// MAX_REPEAT bounds a single .repeat directive.
const MAX_REPEAT = 1 << 16

// Macro represents a macro definition in a genome listing.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Assembler is a single pass macro assembler for genome listings.
//
// A listing holds instruction names separated by white space. ';' and '#'
// start comments. Directives are:
//
//	.equ NAME VALUE        ; textual equate
//	.macro NAME ARGS...    ; macro definition, ended by .endm
//	.repeat COUNT NAME...  ; repeat the named instructions
//
// and $(expr) is replaced by the value of a Starlark expression over the
// integer equates.
type Assembler struct {
	Verbose bool      // If set, verbosely logs the assembler actions.
	Set     *inst.Set // Instruction set used to resolve names.
	Genome  Genome    // Generated instructions.

	predefine map[string]string
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Defines returns the system equates followed by the predefines.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	sys := map[string]string{
		"LINENO":     "0",
		"INST_COUNT": strconv.Itoa(asm.Set.Len()),
		"NOP_COUNT":  strconv.Itoa(asm.Set.NumNops()),
	}
	return internal.Concat2(maps.All(sys), maps.All(asm.predefine))
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		number, perr := strconv.Atoi(str)
		if perr != nil {
			// Ignore non-integer equates. They may be instruction names.
			continue
		}
		pred[key] = starlark.MakeInt(number)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine expands a single line into instruction words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}
		words = nil
		return
	}

	return
}

// parseWords appends the instructions named by the words.
func (asm *Assembler) parseWords(words []string) (err error) {
	if len(words) == 0 {
		return
	}

	count := 1
	if words[0] == ".repeat" {
		if len(words) < 3 {
			err = ErrRepeatSyntax
			return
		}
		count, err = strconv.Atoi(words[1])
		if err != nil || count < 0 || count > MAX_REPEAT {
			err = ErrParseNumber(words[1])
			return
		}
		words = words[2:]
	}

	codes := make(Genome, 0, len(words))
	for _, word := range words {
		ins, ok := asm.Set.Lookup(word)
		if !ok {
			err = ErrInstUnknown(word)
			return
		}
		codes = append(codes, ins)
	}

	for range count {
		asm.Genome = append(asm.Genome, codes...)
	}

	return
}

// Parse parses an input stream into a Genome.
func (asm *Assembler) Parse(input io.Reader) (g Genome, err error) {
	if asm.Set == nil {
		err = ErrInstructionSet
		return
	}

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Genome = asm.Genome[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Collect(asm.Defines())

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("genome: %v: %v\n", lineno, text)
		}

		text, _, _ = strings.Cut(text, ";")
		text, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(text)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   slices.Clone(words[2:]),
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words)
		if err != nil {
			return
		}
	}

	if err = scanner.Err(); err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if len(asm.Genome) == 0 {
		err = ErrGenomeEmpty
		return
	}

	g = asm.Genome.Clone()

	return
}

// Parse assembles a genome listing with a given instruction set.
func Parse(set *inst.Set, text string) (g Genome, err error) {
	asm := &Assembler{Set: set}
	g, err = asm.Parse(strings.NewReader(text))
	return
}
