package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/ezc/pkg/symtab"
)

// SaveSnapshot stores the current contents of tables under unit.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, unit string, tables *symtab.Tables, opts ...SnapshotOption) (*Snapshot, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if tables == nil {
		return nil, errors.New("nil tables")
	}

	snap := &Snapshot{
		ID:        generateID(),
		Unit:      unit,
		CreatedAt: time.Now().UTC(),
		Literals:  tables.Literals.Len(),
		Variables: tables.Vars.Len(),
		Functions: tables.Funcs.Len(),
	}
	for _, opt := range opts {
		opt(snap)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(id, unit, created_at, literal_count, variable_count, function_count, source_path, node_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Unit, snap.CreatedAt.UnixNano(), snap.Literals, snap.Variables, snap.Functions,
		snap.SourcePath, snap.Nodes); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	literals := tables.Literals.Entries()
	if err := insertRows(ctx, tx, `INSERT INTO snapshot_literals (snapshot_id, idx, text) VALUES (?, ?, ?)`,
		len(literals), func(i int) []any { return []any{snap.ID, i, literals[i]} }); err != nil {
		return nil, fmt.Errorf("insert literals: %w", err)
	}

	vars := tables.Vars.Entries()
	if err := insertRows(ctx, tx, `INSERT INTO snapshot_variables (snapshot_id, idx, name, line, scope, size) VALUES (?, ?, ?, ?, ?, ?)`,
		len(vars), func(i int) []any {
			v := vars[i]
			return []any{snap.ID, i, v.Name, v.Line, v.Scope, v.Size}
		}); err != nil {
		return nil, fmt.Errorf("insert variables: %w", err)
	}

	funcs := tables.Funcs.Entries()
	if err := insertRows(ctx, tx, `INSERT INTO snapshot_functions (snapshot_id, idx, name, line, arity) VALUES (?, ?, ?, ?, ?)`,
		len(funcs), func(i int) []any {
			f := funcs[i]
			return []any{snap.ID, i, f.Name, f.Line, f.Arity}
		}); err != nil {
		return nil, fmt.Errorf("insert functions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("saved snapshot",
		slog.String("id", snap.ID),
		slog.String("unit", unit),
		slog.Int("literals", snap.Literals),
		slog.Int("variables", snap.Variables),
		slog.Int("functions", snap.Functions))
	return snap, nil
}

// insertRows runs one prepared insert per row.
func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

const snapshotColumns = `id, unit, created_at, literal_count, variable_count, function_count, source_path, node_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var created int64
	if err := row.Scan(&snap.ID, &snap.Unit, &created, &snap.Literals, &snap.Variables,
		&snap.Functions, &snap.SourcePath, &snap.Nodes); err != nil {
		return nil, err
	}
	snap.CreatedAt = time.Unix(0, created).UTC()
	return &snap, nil
}

// GetSnapshot returns the metadata of snapshot id.
func (s *SQLiteStore) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns the snapshots of unit, newest first. An empty
// unit lists every unit.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, unit string) ([]Snapshot, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query := `SELECT ` + snapshotColumns + ` FROM snapshots`
	var args []any
	if unit != "" {
		query += ` WHERE unit = ?`
		args = append(args, unit)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// LoadSnapshot rebuilds the tables saved as snapshot id. Indices in the
// returned tables match the saved ones.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, id string) (*symtab.Tables, error) {
	if _, err := s.GetSnapshot(ctx, id); err != nil {
		return nil, err
	}
	tables := symtab.NewTables(symtab.Config{})

	if err := s.eachRow(ctx, `SELECT idx, text FROM snapshot_literals WHERE snapshot_id = ? ORDER BY idx`, id,
		func(rows *sql.Rows) error {
			var idx int
			var text string
			if err := rows.Scan(&idx, &text); err != nil {
				return err
			}
			got, err := tables.Literals.Intern(text)
			if err != nil {
				return err
			}
			return checkRestored("literal", idx, got)
		}); err != nil {
		return nil, fmt.Errorf("load literals: %w", err)
	}

	if err := s.eachRow(ctx, `SELECT idx, name, line, scope, size FROM snapshot_variables WHERE snapshot_id = ? ORDER BY idx`, id,
		func(rows *sql.Rows) error {
			var idx int
			var v symtab.VarEntry
			if err := rows.Scan(&idx, &v.Name, &v.Line, &v.Scope, &v.Size); err != nil {
				return err
			}
			got, err := tables.Vars.Declare(v.Name, v.Line, v.Scope, v.Size)
			if err != nil {
				return err
			}
			return checkRestored("variable", idx, got)
		}); err != nil {
		return nil, fmt.Errorf("load variables: %w", err)
	}

	if err := s.eachRow(ctx, `SELECT idx, name, line, arity FROM snapshot_functions WHERE snapshot_id = ? ORDER BY idx`, id,
		func(rows *sql.Rows) error {
			var idx int
			var f symtab.FuncEntry
			if err := rows.Scan(&idx, &f.Name, &f.Line, &f.Arity); err != nil {
				return err
			}
			got, err := tables.Funcs.Declare(f.Name, f.Line)
			if err != nil {
				return err
			}
			if err := tables.Funcs.SetArity(got, f.Arity); err != nil {
				return err
			}
			return checkRestored("function", idx, got)
		}); err != nil {
		return nil, fmt.Errorf("load functions: %w", err)
	}

	return tables, nil
}

func checkRestored(what string, want, got int) error {
	if want != got {
		return fmt.Errorf("%s %d restored at index %d", what, want, got)
	}
	return nil
}

func (s *SQLiteStore) eachRow(ctx context.Context, query, id string, fn func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PruneSnapshots deletes all but the newest keep snapshots of unit and
// returns the number removed.
func (s *SQLiteStore) PruneSnapshots(ctx context.Context, unit string, keep int) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE unit = ? AND id NOT IN (
			SELECT id FROM snapshots
			WHERE unit = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
	`, unit, unit, keep)
	if err != nil {
		return 0, fmt.Errorf("delete old snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	s.logger.Debug("pruned snapshots", slog.String("unit", unit), slog.Int64("removed", n))
	return n, nil
}
