// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// GoodUnit declares a global, a function and uses both; it checks with one
// implicit conversion and no errors.
const GoodUnit = `name: good
globals:
  - {name: total, type: real}
  - {name: count, type: int}
functions:
  - name: bump
    params:
      - {name: by, type: int}
    body:
      - assign: {target: count, value: {plus: [{var: count}, {var: by}]}}
body:
  - input: count
  - assign: {target: total, value: {plus: [{var: count}, {real: 0.5}]}}
  - output: {str: "total"}
  - output: {var: total}
`

// BadUnit loads but fails the semantic pass: a real is assigned to an int.
const BadUnit = `name: bad
globals:
  - {name: n, type: int}
body:
  - assign: {target: n, value: {real: 1.5}}
  - output: {var: n}
`

// BrokenUnit cannot be loaded: it uses an undeclared variable.
const BrokenUnit = `name: broken
body:
  - output: {var: ghost}
`

// SetupTestUnits writes good.yaml, bad.yaml and broken.yaml to a temporary
// directory and returns it.
func SetupTestUnits(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"good.yaml":   GoodUnit,
		"bad.yaml":    BadUnit,
		"broken.yaml": BrokenUnit,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if n := strings.Count(md, "```"); n%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", n)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
