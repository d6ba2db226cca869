// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/evocpu/config"
	"github.com/ezrec/evocpu/cpu"
	"github.com/ezrec/evocpu/emulator"
	"github.com/ezrec/evocpu/genome"
	"github.com/ezrec/evocpu/inst"
)

// runOptions are the flags of the run command.
type runOptions struct {
	genome  string
	config  string
	instSet string
	input   string
	seed    uint64
	steps   int
	verbose bool
	trace   bool
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evocpu",
		Short: "Virtual CPU for self-replicating digital organisms",
		Long: `Runs a single digital organism genome on the heads based virtual CPU,
reporting its state, task outputs and offspring.`,
		SilenceUsage: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newRunCommand(), newInstsCommand())

	return rootCmd
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a genome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenome(opts, cmd.OutOrStdout())
		},
	}

	flags := runCmd.Flags()
	flags.StringVarP(&opts.genome, "genome", "g", "", "Genome listing to run")
	flags.StringVarP(&opts.config, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&opts.instSet, "inst-set", "i", "", "Instruction set name or file, overriding the configuration")
	flags.StringVar(&opts.input, "input", "", "Task input values, '-' for stdin")
	flags.Uint64Var(&opts.seed, "seed", 1, "Random seed")
	flags.IntVarP(&opts.steps, "steps", "n", 1000, "Steps to run")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose mode")
	flags.BoolVar(&opts.trace, "trace", false, "Trace every executed instruction")
	_ = runCmd.MarkFlagRequired("genome")

	return runCmd
}

func newInstsCommand() *cobra.Command {
	var instSet string

	instsCmd := &cobra.Command{
		Use:   "insts",
		Short: "List an instruction set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listInsts(instSet, cmd.OutOrStdout())
		},
	}

	instsCmd.Flags().StringVarP(&instSet, "inst-set", "i", cpu.SET_HEADS_DEFAULT, "Instruction set name or file")

	return instsCmd
}

func loadConfig(opts *runOptions) (cfg *config.Config, err error) {
	if len(opts.config) == 0 {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(opts.config)
		if err != nil {
			return
		}
	}

	if len(opts.instSet) != 0 {
		cfg.Hardware.InstSet = opts.instSet
	}

	return
}

func loadGenome(path string, table *cpu.Table, verbose bool) (g genome.Genome, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &genome.Assembler{Set: table.Set, Verbose: verbose}
	g, err = asm.Parse(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

func runGenome(opts *runOptions, out io.Writer) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return
	}

	table, err := cpu.LoadTable(cfg.Hardware.InstSet)
	if err != nil {
		return
	}

	g, err := loadGenome(opts.genome, table, opts.verbose)
	if err != nil {
		return
	}

	emu, err := emulator.NewEmulator(cfg, table, g, opts.seed)
	if err != nil {
		return
	}
	emu.Verbose = opts.verbose
	if opts.trace {
		emu.Trace = out
	}

	switch opts.input {
	case "":
	case "-":
		emu.Tape.Input = os.Stdin
	default:
		inf, err := os.Open(opts.input)
		if err != nil {
			return err
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	steps, err := emu.Run(opts.steps)
	if err != nil {
		return
	}

	if opts.verbose {
		log.Printf("evocpu: ran %d steps", steps)
	}

	fmt.Fprint(out, emu.String())
	fmt.Fprintf(out, "%7s: %v\n", "dead", emu.Dead())
	fmt.Fprintf(out, "%7s: %v\n", "outputs", emu.Outputs)
	fmt.Fprintf(out, "%7s: %d\n", "faults", len(emu.Faults))
	for n, child := range emu.Offspring {
		fmt.Fprintf(out, "%7s: %d %d %v\n", "child", n, len(child.Genome), child.Genome)
	}

	return
}

func listInsts(name string, out io.Writer) (err error) {
	table, err := cpu.LoadTable(name)
	if err != nil {
		return
	}

	fmt.Fprintf(out, "; %v: %d instructions\n", table.Name(), table.Len())
	for ins, entry := range table.All() {
		fmt.Fprintf(out, "%3d %c %-16s %-5v %v\n", ins, inst.Symbol(ins), entry.Name, entry.Class, entry.Flags)
	}

	return
}

func main() {
	err := newRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}
