package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.NoError(cfg.Validate())
	assert.Equal(3, cfg.Hardware.Registers)
	assert.Equal(SLICING_SERIAL, cfg.Hardware.ThreadSlicing)
	assert.Equal(DIVIDE_SPLIT, cfg.Divide.Method)
	assert.Equal(24, cfg.Promoter.CodeSize)
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [...]struct {
		text  string
		check func(cfg *Config)
		err   error
	}{
		{text: ``, check: func(cfg *Config) {
			assert.Equal(Default(), cfg)
		}},
		{text: "[hardware]\nmax_threads = 4\nthread_slicing = \"parallel\"\nallow_parasites = true\n", check: func(cfg *Config) {
			assert.Equal(4, cfg.Hardware.MaxThreads)
			assert.True(cfg.Hardware.AllowParasites)
			assert.Equal(SLICING_PARALLEL, cfg.Hardware.ThreadSlicing)
			assert.Equal(10, cfg.Hardware.StackSize)
		}},
		{text: "[genome]\nalloc_method = \"necro\"\n[divide]\nmethod = \"offspring\"\n", check: func(cfg *Config) {
			assert.Equal(ALLOC_NECRO, cfg.Genome.AllocMethod)
			assert.Equal(DIVIDE_OFFSPRING, cfg.Divide.Method)
		}},
		{text: "[mutation]\nno_mutate = [\"h-divide\"]\nslip_mode = \"buffer\"\n", check: func(cfg *Config) {
			assert.Equal([]string{"h-divide"}, cfg.Mutation.NoMutate)
			assert.Equal(SLIP_BUFFER, cfg.Mutation.SlipMode)
		}},
		{text: "[promoter]\nenabled = true\nno_active = \"halt\"\n", check: func(cfg *Config) {
			assert.True(cfg.Promoter.Enabled)
			assert.Equal(NO_ACTIVE_HALT, cfg.Promoter.NoActive)
		}},
		{text: "[hardware]\nregisters = 2\n", err: ErrRegisters},
		{text: "[mutation]\ncopy_mut = 1.5\n", err: ErrProbability},
		{text: "[genome]\nmin_size = 100\nmax_size = 10\n", err: ErrGenomeSize},
		{text: "[promoter]\nexe_threshold = 4\n", err: ErrPromoter},
		{text: "[hardware]\nbogus = 1\n", err: ErrUnknownKey("hardware.bogus")},
		{text: "[divide]\nmethod = \"fission\"\n", err: ErrOption{Option: "divide_method", Value: "fission"}},
	}

	for n, entry := range table {
		cfg, err := Decode(strings.NewReader(entry.text))
		if entry.err != nil {
			assert.Nil(cfg, n)
			if !assert.Error(err, n) {
				continue
			}
			if _, ok := entry.err.(ErrOption); ok {
				assert.Contains(err.Error(), entry.err.Error(), n)
			} else {
				assert.ErrorIs(err, entry.err, n)
			}
			continue
		}
		if !assert.NoError(err, n) {
			continue
		}
		entry.check(cfg)
	}
}

func TestOptionText(t *testing.T) {
	assert := assert.New(t)

	for _, v := range []NoActive{NO_ACTIVE_RESET, NO_ACTIVE_DIE, NO_ACTIVE_HALT} {
		text, err := v.MarshalText()
		assert.NoError(err)
		var back NoActive
		assert.NoError(back.UnmarshalText(text))
		assert.Equal(v, back)
	}
}
