// Package config provides configuration management for the ezc CLI.
package config

import "github.com/leapstack-labs/ezc/pkg/symtab"

// Defaults.
const (
	DefaultOutput    = "auto"
	DefaultStateFile = ".ezc/state.db"
	DefaultGraphName = "ast"
	DefaultKeep      = 0
)

// ConfigFileNames are searched, in order, in the working directory.
var ConfigFileNames = []string{"ezc.yaml", "ezc.yml"}

// LimitsConfig caps the symbol tables of every unit. Zero means
// unbounded.
type LimitsConfig struct {
	MaxLiterals   int `koanf:"max_literals"`
	MaxLiteralLen int `koanf:"max_literal_len"`
	MaxVars       int `koanf:"max_vars"`
	MaxFuncs      int `koanf:"max_funcs"`
	MaxNameLen    int `koanf:"max_name_len"`
}

// Tables converts the limits to table configuration. Names of variables
// and functions share MaxNameLen.
func (l LimitsConfig) Tables() symtab.Config {
	return symtab.Config{
		Literals:  symtab.Limits{MaxEntries: l.MaxLiterals, MaxTextLen: l.MaxLiteralLen},
		Variables: symtab.Limits{MaxEntries: l.MaxVars, MaxTextLen: l.MaxNameLen},
		Functions: symtab.Limits{MaxEntries: l.MaxFuncs, MaxTextLen: l.MaxNameLen},
	}
}

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string       `koanf:"output"`
	Verbose      bool         `koanf:"verbose"`
	StatePath    string       `koanf:"state_path"`
	GraphName    string       `koanf:"graph_name"`
	Keep         int          `koanf:"keep"`
	Limits       LimitsConfig `koanf:"limits"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		StatePath:    DefaultStateFile,
		GraphName:    DefaultGraphName,
		Keep:         DefaultKeep,
	}
}
