package config

import (
	"errors"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// MAX_LABEL_SIZE is the longest label a CPU can store.
const MAX_LABEL_SIZE = 10

// Hardware parameters of the virtual CPU.
type Hardware struct {
	InstSet           string  `toml:"inst_set"`            // Instruction set name or file.
	Registers         int     `toml:"registers"`           // Registers per thread.
	StackSize         int     `toml:"stack_size"`          // Depth of each stack.
	MaxLabelSize      int     `toml:"max_label_size"`      // Longest readable label.
	MaxLabelExeSize   int     `toml:"max_label_exe_size"`  // Longest label whose nops count as executed.
	MaxThreads        int     `toml:"max_threads"`         // Thread table capacity.
	ThreadSlicing     Slicing `toml:"thread_slicing"`      // Serial or parallel slicing.
	MaxExecuted       int     `toml:"max_executed"`        // Instructions before death, 0 for unlimited.
	ImplicitReproEnd  bool    `toml:"implicit_repro_end"`  // Reproduce when the IP wraps.
	ImplicitReproTime int     `toml:"implicit_repro_time"` // Reproduce after this many time units, 0 to disable.
	ProbFail          bool    `toml:"prob_fail"`           // Honor per-instruction failure probabilities.
	AllowParasites    bool    `toml:"allow_parasites"`     // Permit rotate-label to search neighbor genomes.
}

// Genome size and allocation parameters.
type Genome struct {
	MinSize            int         `toml:"min_size"`
	MaxSize            int         `toml:"max_size"`
	ChildSizeRange     float64     `toml:"child_size_range"`     // Allowed allocation ratio.
	OffspringSizeRange float64     `toml:"offspring_size_range"` // Allowed offspring ratio to birth genome.
	AllocMethod        AllocMethod `toml:"alloc_method"`
	RequireAllocate    bool        `toml:"require_allocate"`
}

// Divide viability and parent policy.
type Divide struct {
	Method          DivideMethod `toml:"method"`
	MinExeLines     float64      `toml:"min_exe_lines"`    // Executed fraction of the parent.
	MinCopiedLines  float64      `toml:"min_copied_lines"` // Copied fraction of the offspring.
	RequireExact    bool         `toml:"require_exact"`
	ResampleRetries int          `toml:"resample_retries"`
}

// Mutation probabilities.
type Mutation struct {
	CopyMut    float64  `toml:"copy_mut"`   // Per written instruction.
	CopyIns    float64  `toml:"copy_ins"`   // Per written instruction.
	CopyDel    float64  `toml:"copy_del"`   // Per written instruction.
	CopySlip   float64  `toml:"copy_slip"`  // Per written instruction.
	SlipMode   SlipMode `toml:"slip_mode"`  // Target of a copy slip.
	SlipFill   SlipFill `toml:"slip_fill"`  // Fill of a slip duplication.
	DivideMut  float64  `toml:"divide_mut"` // Once per divide.
	DivideIns  float64  `toml:"divide_ins"` // Once per divide.
	DivideDel  float64  `toml:"divide_del"` // Once per divide.
	DivideSlip float64  `toml:"divide_slip"`
	DivMut     float64  `toml:"div_mut"`    // Per offspring site.
	DivIns     float64  `toml:"div_ins"`    // Per offspring site.
	DivDel     float64  `toml:"div_del"`    // Per offspring site.
	ParentMut  float64  `toml:"parent_mut"` // Per parent site at divide.
	NoMutate   []string `toml:"no_mutate"`  // Instructions exempt from copy errors.
}

// Promoter regulation parameters.
type Promoter struct {
	Enabled        bool     `toml:"enabled"`
	CodeSize       int      `toml:"code_size"`
	ExeLength      int      `toml:"exe_length"`
	ExeThreshold   int      `toml:"exe_threshold"`
	Processivity   float64  `toml:"processivity"`
	InstMax        int      `toml:"inst_max"` // Instructions before forced termination, 0 for unlimited.
	ToRegister     bool     `toml:"to_register"`
	InstCodeLength int      `toml:"inst_code_length"` // Bits contributed per instruction.
	NoActive       NoActive `toml:"no_active"`
}

// Cost parameters.
type Cost struct {
	Switch int `toml:"switch"` // Cycles charged when the opcode differs from the last one.
}

// Config is the complete virtual CPU configuration.
type Config struct {
	Hardware Hardware `toml:"hardware"`
	Genome   Genome   `toml:"genome"`
	Divide   Divide   `toml:"divide"`
	Mutation Mutation `toml:"mutation"`
	Promoter Promoter `toml:"promoter"`
	Cost     Cost     `toml:"cost"`
}

// Default returns the default configuration.
func Default() (cfg *Config) {
	cfg = &Config{
		Hardware: Hardware{
			InstSet:         "heads_default",
			Registers:       3,
			StackSize:       10,
			MaxLabelSize:    10,
			MaxLabelExeSize: 1,
			MaxThreads:      1,
			ThreadSlicing:   SLICING_SERIAL,
			ProbFail:        true,
		},
		Genome: Genome{
			MinSize:            8,
			MaxSize:            2048,
			ChildSizeRange:     2.0,
			OffspringSizeRange: 2.0,
			AllocMethod:        ALLOC_DEFAULT,
			RequireAllocate:    true,
		},
		Divide: Divide{
			Method:          DIVIDE_SPLIT,
			MinExeLines:     0.5,
			MinCopiedLines:  0.5,
			ResampleRetries: 100,
		},
		Mutation: Mutation{
			CopyMut:   0.0075,
			DivideIns: 0.05,
			DivideDel: 0.05,
		},
		Promoter: Promoter{
			CodeSize:       24,
			ExeLength:      3,
			ExeThreshold:   2,
			Processivity:   1.0,
			InstCodeLength: 3,
			NoActive:       NO_ACTIVE_RESET,
		},
	}

	return
}

// Load reads a configuration file over the defaults.
func Load(path string) (cfg *Config, err error) {
	fd, err := os.Open(path)
	if err != nil {
		return
	}
	defer fd.Close()

	cfg, err = Decode(fd)
	return
}

// Decode reads a TOML configuration over the defaults, and validates it.
func Decode(r io.Reader) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		cfg = nil
		return
	}

	var errs []error
	for _, key := range md.Undecoded() {
		errs = append(errs, ErrUnknownKey(key.String()))
	}
	if len(errs) != 0 {
		cfg, err = nil, errors.Join(errs...)
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// Validate checks parameter ranges.
func (cfg *Config) Validate() (err error) {
	var errs []error

	hw := &cfg.Hardware
	if hw.Registers < 3 {
		errs = append(errs, ErrRegisters)
	}
	if hw.StackSize < 1 {
		errs = append(errs, ErrStackSize)
	}
	if hw.MaxLabelSize < 1 || hw.MaxLabelSize > MAX_LABEL_SIZE || hw.MaxLabelExeSize < 0 {
		errs = append(errs, ErrLabelSize)
	}
	if hw.MaxThreads < 1 {
		errs = append(errs, ErrMaxThreads)
	}

	gn := &cfg.Genome
	if gn.MinSize < 1 || gn.MaxSize < gn.MinSize {
		errs = append(errs, ErrGenomeSize)
	}
	if gn.ChildSizeRange < 1.0 || gn.OffspringSizeRange < 1.0 {
		errs = append(errs, ErrSizeRange)
	}

	dv := &cfg.Divide
	if !isFraction(dv.MinExeLines) || !isFraction(dv.MinCopiedLines) {
		errs = append(errs, ErrFraction)
	}
	if dv.ResampleRetries < 0 {
		errs = append(errs, ErrRetries)
	}

	mu := &cfg.Mutation
	for _, p := range []float64{
		mu.CopyMut, mu.CopyIns, mu.CopyDel, mu.CopySlip,
		mu.DivideMut, mu.DivideIns, mu.DivideDel, mu.DivideSlip,
		mu.DivMut, mu.DivIns, mu.DivDel, mu.ParentMut,
	} {
		if !isFraction(p) {
			errs = append(errs, ErrProbability)
			break
		}
	}

	pr := &cfg.Promoter
	switch {
	case pr.CodeSize < 1 || pr.CodeSize > 32:
		errs = append(errs, ErrPromoter)
	case pr.ExeLength < 1 || pr.ExeLength > pr.CodeSize:
		errs = append(errs, ErrPromoter)
	case pr.ExeThreshold < 0 || pr.ExeThreshold > pr.ExeLength:
		errs = append(errs, ErrPromoter)
	case !isFraction(pr.Processivity):
		errs = append(errs, ErrPromoter)
	case pr.InstMax < 0 || pr.InstCodeLength < 1 || pr.InstCodeLength > 32:
		errs = append(errs, ErrPromoter)
	}

	err = errors.Join(errs...)
	return
}

func isFraction(v float64) bool {
	return v >= 0 && v <= 1
}
