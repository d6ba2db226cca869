// Package config holds the tunable parameters of the virtual CPU.
//
// A configuration is a TOML file with the sections [hardware], [genome],
// [divide], [mutation], [promoter] and [cost]. Keys left out keep the
// values of Default().
package config
