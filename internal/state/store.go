// Package state persists symbol-table snapshots of compilation units in
// SQLite, so the tables of a unit can be compared across runs.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/ezc/pkg/symtab"
)

// ErrNotOpen is returned by store operations before Open.
var ErrNotOpen = errors.New("database not opened")

// ErrSnapshotNotFound is returned when a snapshot id is unknown.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot describes one saved set of tables.
type Snapshot struct {
	ID         string    `json:"id"`
	Unit       string    `json:"unit"`
	SourcePath string    `json:"source_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Literals   int       `json:"literals"`
	Variables  int       `json:"variables"`
	Functions  int       `json:"functions"`
	Nodes      int       `json:"nodes"`
}

// SnapshotOption sets optional snapshot metadata.
type SnapshotOption func(*Snapshot)

// WithSourcePath records the file the unit was loaded from.
func WithSourcePath(path string) SnapshotOption {
	return func(s *Snapshot) { s.SourcePath = path }
}

// WithNodeCount records the size of the unit's tree.
func WithNodeCount(n int) SnapshotOption {
	return func(s *Snapshot) { s.Nodes = n }
}

// Store saves and restores table snapshots.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	SaveSnapshot(ctx context.Context, unit string, tables *symtab.Tables, opts ...SnapshotOption) (*Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*Snapshot, error)
	ListSnapshots(ctx context.Context, unit string) ([]Snapshot, error)
	LoadSnapshot(ctx context.Context, id string) (*symtab.Tables, error)
	PruneSnapshots(ctx context.Context, unit string, keep int) (int64, error)
}

var _ Store = (*SQLiteStore)(nil)
