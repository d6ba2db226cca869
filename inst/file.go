package inst

import (
	"io"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Spec is one [[inst]] record of an instruction set file. Zero values keep
// the library defaults of the named instruction.
type Spec struct {
	Name       string  `toml:"name"`
	Redundancy *int    `toml:"redundancy"`
	Cost       int     `toml:"cost"`
	FtCost     int     `toml:"ft_cost"`
	EnergyCost float64 `toml:"energy"`
	AddlTime   int     `toml:"addl_time"`
	ProbFail   float64 `toml:"prob_fail"`
	Code       string  `toml:"code"`
}

// File is a parsed instruction set file.
//
//	name = "my_set"
//
//	[[inst]]
//	name = "h-copy"
//	cost = 2
type File struct {
	Name string `toml:"name"`
	Inst []Spec `toml:"inst"`
}

// ParseFile decodes an instruction set file.
func ParseFile(r io.Reader) (file *File, err error) {
	file = &File{}
	_, err = toml.NewDecoder(r).Decode(file)
	if err != nil {
		file = nil
		return
	}

	if len(file.Inst) == 0 {
		file, err = nil, ErrSetEmpty
		return
	}

	return
}

// Apply overrides the attributes of an entry with the spec.
func (spec *Spec) Apply(entry *Entry) (err error) {
	if spec.Redundancy != nil {
		entry.Redundancy = *spec.Redundancy
	}
	entry.Cost = spec.Cost
	entry.FtCost = spec.FtCost
	entry.EnergyCost = spec.EnergyCost
	entry.AddlTime = spec.AddlTime
	entry.ProbFail = spec.ProbFail
	if len(spec.Code) != 0 {
		var code uint64
		code, err = strconv.ParseUint(spec.Code, 2, 32)
		if err != nil {
			err = ErrCode(spec.Code)
			return
		}
		entry.Code = uint32(code)
	}

	return
}
