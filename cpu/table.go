package cpu

import (
	"iter"
	"os"
	"strings"
	"sync"

	"github.com/ezrec/evocpu/inst"
)

// Func is an instruction behaviour. It returns nil on success, a *Fault
// for soft faults, or an error wrapping ErrRejected for policy rejections.
type Func func(x *Exec) error

// Definition is a library instruction: its default attributes and its
// behaviour.
type Definition struct {
	Name   string
	Class  inst.Class
	Flags  inst.Flag
	NopMod int
	Func   Func
}

// Table is an instruction set bound to its behaviours.
type Table struct {
	*inst.Set
	funcs    []Func
	promoter int // Opcode of 'promoter', -1 if absent.
}

// Func returns the behaviour of an opcode.
func (table *Table) Func(ins inst.Instruction) Func {
	return table.funcs[int(ins)%len(table.funcs)]
}

// Promoter returns the opcode of the promoter instruction, if present.
func (table *Table) Promoter() (ins inst.Instruction, ok bool) {
	if table.promoter < 0 {
		return
	}
	return inst.Instruction(table.promoter), true
}

var libraryIndex = func() (index map[string]int) {
	index = make(map[string]int, len(library))
	for n, def := range library {
		index[def.Name] = n
	}
	return
}()

// Library iterates over every instruction the CPU implements.
func Library() iter.Seq[*Definition] {
	return func(yield func(*Definition) bool) {
		for n := range library {
			if !yield(&library[n]) {
				return
			}
		}
	}
}

// LookupDefinition finds a library instruction by name.
func LookupDefinition(name string) (def *Definition, ok bool) {
	n, ok := libraryIndex[name]
	if ok {
		def = &library[n]
	}
	return
}

// NewTable creates a table from instruction specs; opcodes are assigned
// in order. Unset promoter codes default to the opcode.
func NewTable(name string, specs []inst.Spec) (table *Table, err error) {
	entries := make([]inst.Entry, 0, len(specs))
	funcs := make([]Func, 0, len(specs))
	promoter := -1

	for n, spec := range specs {
		def, ok := LookupDefinition(spec.Name)
		if !ok {
			err = inst.ErrUnknown(spec.Name)
			return
		}
		entry := inst.Entry{
			Name:       def.Name,
			Class:      def.Class,
			Flags:      def.Flags,
			NopMod:     def.NopMod,
			Redundancy: 1,
			Code:       uint32(n),
		}
		err = spec.Apply(&entry)
		if err != nil {
			return
		}
		if def.Name == "promoter" {
			promoter = n
		}
		entries = append(entries, entry)
		funcs = append(funcs, def.Func)
	}

	set, err := inst.NewSet(name, entries)
	if err != nil {
		return
	}

	table = &Table{
		Set:      set,
		funcs:    funcs,
		promoter: promoter,
	}

	return
}

// Built-in instruction set names.
const (
	SET_HEADS_DEFAULT = "heads_default" // The classic heads instructions.
	SET_HEADS_FULL    = "heads_full"    // Every library instruction.
)

func builtinSpecs(name string) (specs []inst.Spec, ok bool) {
	switch name {
	case SET_HEADS_DEFAULT:
		for def := range Library() {
			if def.Flags&inst.FLAG_DEFAULT != 0 {
				specs = append(specs, inst.Spec{Name: def.Name})
			}
		}
	case SET_HEADS_FULL:
		for def := range Library() {
			specs = append(specs, inst.Spec{Name: def.Name})
		}
	default:
		return
	}
	ok = true
	return
}

var tableCache = struct {
	sync.Mutex
	tables map[string]*Table
}{tables: map[string]*Table{}}

// LoadTable returns the shared table of a built-in instruction set name,
// or of an instruction set file path. Tables are built once per name.
func LoadTable(name string) (table *Table, err error) {
	tableCache.Lock()
	defer tableCache.Unlock()

	table, ok := tableCache.tables[name]
	if ok {
		return
	}

	specs, ok := builtinSpecs(name)
	if ok {
		table, err = NewTable(name, specs)
	} else {
		table, err = loadTableFile(name)
	}
	if err != nil {
		return
	}

	tableCache.tables[name] = table
	return
}

func loadTableFile(path string) (table *Table, err error) {
	fd, err := os.Open(path)
	if err != nil {
		return
	}
	defer fd.Close()

	file, err := inst.ParseFile(fd)
	if err != nil {
		return
	}

	name := file.Name
	if len(name) == 0 {
		name = strings.TrimSuffix(path, ".toml")
	}

	table, err = NewTable(name, file.Inst)
	return
}
