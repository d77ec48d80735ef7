package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("state", "", "")
	fs.String("graph-name", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultGraphName, cfg.GraphName)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, LimitsConfig{}, cfg.Limits)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("ezc.yaml", []byte(`output: markdown
graph_name: fromfile
verbose: true
limits:
  max_vars: 10
  max_literals: 20
`), 0o600))

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load("", newFlags())
		require.NoError(t, err)
		assert.Equal(t, "ezc.yaml", cfg.ConfigFile)
		assert.Equal(t, "markdown", cfg.OutputFormat)
		assert.Equal(t, "fromfile", cfg.GraphName)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, 10, cfg.Limits.MaxVars)
		assert.Equal(t, 20, cfg.Limits.MaxLiterals)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("EZC_GRAPH_NAME", "fromenv")
		t.Setenv("EZC_LIMITS__MAX_VARS", "3")

		cfg, err := Load("", newFlags())
		require.NoError(t, err)
		assert.Equal(t, "fromenv", cfg.GraphName)
		assert.Equal(t, 3, cfg.Limits.MaxVars)
		assert.Equal(t, 20, cfg.Limits.MaxLiterals)
	})

	t.Run("changed flags over env", func(t *testing.T) {
		t.Setenv("EZC_GRAPH_NAME", "fromenv")
		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--graph-name", "fromflag", "-o", "json"}))

		cfg, err := Load("", flags)
		require.NoError(t, err)
		assert.Equal(t, "fromflag", cfg.GraphName)
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.True(t, cfg.Verbose, "unset flag keeps the file value")
	})
}

func TestLoad_StatePath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	sub := filepath.Join(dir, "conf")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	cfgPath := filepath.Join(sub, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("state_path: db/state.db\n"), 0o600))

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sub, "db", "state.db"), cfg.StatePath)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--state", "other.db"}))
	cfg, err = Load(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.StatePath)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")

	require.NoError(t, os.WriteFile("bad.yaml", []byte("output: [unclosed\n"), 0o600))
	_, err = Load("bad.yaml", nil)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile("typo.yaml", []byte("outptu: json\nlimits:\n  max_var: 2\n"), 0o600))
	_, err = Load("typo.yaml", nil)
	assert.ErrorContains(t, err, "invalid config file typo.yaml")
	assert.ErrorContains(t, err, "outptu")

	require.NoError(t, os.WriteFile("invalid.yaml", []byte("output: html\n"), 0o600))
	_, err = Load("invalid.yaml", nil)
	assert.ErrorContains(t, err, "invalid output format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"md alias", func(c *Config) { c.OutputFormat = "md" }, ""},
		{"bad output", func(c *Config) { c.OutputFormat = "xml" }, "invalid output format"},
		{"empty state", func(c *Config) { c.StatePath = "" }, "state_path is required"},
		{"negative keep", func(c *Config) { c.Keep = -1 }, "keep must be non-negative"},
		{"negative limit", func(c *Config) { c.Limits.MaxFuncs = -2 }, "limits.max_funcs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateReportsFirstNegativeLimit(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := Default()
		cfg.Limits = LimitsConfig{MaxLiterals: -1, MaxVars: -1, MaxFuncs: -1, MaxNameLen: -1}
		assert.EqualError(t, cfg.Validate(), "limits.max_literals must be non-negative, got -1")
	}
}

func TestLimitsTables(t *testing.T) {
	l := LimitsConfig{MaxLiterals: 1, MaxLiteralLen: 2, MaxVars: 3, MaxFuncs: 4, MaxNameLen: 5}
	tc := l.Tables()
	assert.Equal(t, 1, tc.Literals.MaxEntries)
	assert.Equal(t, 2, tc.Literals.MaxTextLen)
	assert.Equal(t, 3, tc.Variables.MaxEntries)
	assert.Equal(t, 5, tc.Variables.MaxTextLen)
	assert.Equal(t, 4, tc.Functions.MaxEntries)
	assert.Equal(t, 5, tc.Functions.MaxTextLen)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := GetLogger(WithLogger(context.Background(), nil))
	assert.NotNil(t, logger)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))

	cfg := Default()
	cfg.GraphName = "g"
	assert.Same(t, cfg, FromContext(WithConfig(context.Background(), cfg)))
}
