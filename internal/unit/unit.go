package unit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ezc/pkg/ast"
	"github.com/leapstack-labs/ezc/pkg/symtab"
	"gopkg.in/yaml.v3"
)

// Unit is a loaded compilation unit. It owns its tree and tables; units
// share nothing.
type Unit struct {
	Name   string
	Path   string
	Root   *ast.Node
	Tables *symtab.Tables
}

// Close destroys the unit's tree and returns the number of released
// nodes.
func (u *Unit) Close() (int, error) {
	if u.Root == nil {
		return 0, nil
	}
	n, err := ast.Destroy(u.Root, nil)
	if err != nil {
		return n, err
	}
	u.Root = nil
	return n, nil
}

// Loader reads unit documents.
type Loader struct {
	Limits symtab.Config
	Logger *slog.Logger
}

// NewLoader creates a loader applying limits to every unit's tables.
func NewLoader(limits symtab.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{Limits: limits, Logger: logger}
}

// LoadFile reads the unit at path. The unit is named by the document's
// name field, or by the file name without extension.
func (l *Loader) LoadFile(path string) (*Unit, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open unit: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	u, err := l.Load(f, name)
	if err != nil {
		return nil, err
	}
	u.Path = path
	return u, nil
}

// Load reads one unit document from r. fallbackName is used when the
// document has no name field.
func (l *Loader) Load(r io.Reader, fallbackName string) (*Unit, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Unit: fallbackName, Err: ErrEmptyUnit}
		}
		return nil, &LoadError{Unit: fallbackName, Err: fmt.Errorf("invalid unit document: %w", err)}
	}

	name := doc.Name
	if name == "" {
		name = fallbackName
	}
	b := &builder{unit: name, tables: symtab.NewTables(l.Limits)}
	root, err := b.build(&doc)
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded unit",
		slog.String("unit", name),
		slog.Int("nodes", ast.Count(root)),
		slog.Int("literals", b.tables.Literals.Len()),
		slog.Int("variables", b.tables.Vars.Len()),
		slog.Int("functions", b.tables.Funcs.Len()))

	return &Unit{Name: name, Root: root, Tables: b.tables}, nil
}
