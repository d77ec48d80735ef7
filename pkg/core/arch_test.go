package core_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "github.com/leapstack-labs/ezc/"

// packageImports returns the imports of every non-test file in dir, keyed
// by file name.
func packageImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	imports := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			imports[entry.Name()] = append(imports[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// TestCoreImportsOnlyStdlib verifies pkg/core sits at the bottom of the
// dependency graph.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, imp := range imports {
			if strings.Contains(imp, ".") {
				t.Errorf("%s imports non-stdlib package: %s", file, imp)
			}
		}
	}
}

// TestPublicPackagesImportOnlyCore verifies pkg/ast and pkg/symtab depend on
// nothing in the module but pkg/core, and on no third-party package.
func TestPublicPackagesImportOnlyCore(t *testing.T) {
	allowed := map[string]bool{
		modulePrefix + "pkg/core": true,
	}

	for _, dir := range []string{"../ast", "../symtab"} {
		for file, imports := range packageImports(t, dir) {
			for _, imp := range imports {
				if !strings.Contains(imp, ".") || allowed[imp] {
					continue
				}
				t.Errorf("%s/%s imports forbidden package: %s", filepath.Base(dir), file, imp)
			}
		}
	}
}

// TestPkgDoesNotImportInternal verifies no public package reaches into
// internal/.
func TestPkgDoesNotImportInternal(t *testing.T) {
	entries, err := os.ReadDir("..")
	if err != nil {
		t.Fatalf("Failed to read pkg directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for file, imports := range packageImports(t, filepath.Join("..", entry.Name())) {
			for _, imp := range imports {
				if strings.Contains(imp, "/internal/") {
					t.Errorf("%s/%s imports internal package: %s", entry.Name(), file, imp)
				}
			}
		}
	}
}

// TestPkgHasNoConfigTags verifies public types carry no decoder struct
// tags; CLI configuration is decoded in internal/cli/config and converted.
func TestPkgHasNoConfigTags(t *testing.T) {
	entries, err := os.ReadDir("..")
	if err != nil {
		t.Fatalf("Failed to read pkg directory: %v", err)
	}

	fset := token.NewFileSet()
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := filepath.Glob(filepath.Join("..", entry.Name(), "*.go"))
		if err != nil {
			t.Fatalf("Failed to list %s: %v", entry.Name(), err)
		}
		for _, path := range files {
			if strings.HasSuffix(path, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(fset, path, nil, 0)
			if err != nil {
				t.Errorf("Failed to parse %s: %v", path, err)
				continue
			}
			ast.Inspect(f, func(n ast.Node) bool {
				field, ok := n.(*ast.Field)
				if !ok || field.Tag == nil {
					return true
				}
				for _, key := range []string{"koanf:", "mapstructure:", "yaml:"} {
					if strings.Contains(field.Tag.Value, key) {
						t.Errorf("%s: struct tag %s", fset.Position(field.Pos()), field.Tag.Value)
					}
				}
				return true
			})
		}
	}
}
