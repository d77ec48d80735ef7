package config

import (
	"fmt"
	"slices"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "md", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(validOutputs, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if c.Keep < 0 {
		return fmt.Errorf("keep must be non-negative, got %d", c.Keep)
	}

	limits := []struct {
		key   string
		value int
	}{
		{"limits.max_literals", c.Limits.MaxLiterals},
		{"limits.max_literal_len", c.Limits.MaxLiteralLen},
		{"limits.max_vars", c.Limits.MaxVars},
		{"limits.max_funcs", c.Limits.MaxFuncs},
		{"limits.max_name_len", c.Limits.MaxNameLen},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", l.key, l.value)
		}
	}
	return nil
}
