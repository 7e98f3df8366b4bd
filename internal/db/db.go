// Package db persists surface runs and their exposed residues in SQLite.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle storing surface runs.
type DB struct {
	*sql.DB
}

// NewDB opens (or creates) the run database at path and applies all pending
// schema migrations.
func NewDB(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// WAL keeps concurrent API reads from blocking run inserts.
	if _, err := sqlDB.Exec(`PRAGMA journal_mode=WAL; PRAGMA foreign_keys=ON;`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	db := &DB{sqlDB}
	if err := db.MigrateUp(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Run is one recorded surface computation.
type Run struct {
	RunID         string    `json:"run_id"`
	InputName     string    `json:"input_name"`
	NAtoms        int       `json:"natoms"`
	NX            int       `json:"nx"`
	NY            int       `json:"ny"`
	NZ            int       `json:"nz"`
	Step          float64   `json:"step"`
	Probe         float64   `json:"probe"`
	SurfaceMode   string    `json:"surface_mode"`
	SurfacePoints int       `json:"surface_points"`
	ResidueCount  int       `json:"residue_count"`
	DurationMs    float64   `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// RecordRun stores a run summary and its residue list in one transaction.
func (db *DB) RecordRun(run Run, residues []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin run insert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO surface_runs (
			run_id, input_name, natoms, nx, ny, nz, step, probe,
			surface_mode, surface_points, residue_count, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InputName, run.NAtoms, run.NX, run.NY, run.NZ,
		run.Step, run.Probe, run.SurfaceMode, run.SurfacePoints,
		run.ResidueCount, run.DurationMs, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO surface_residues (run_id, position, residue_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare residue insert: %w", err)
	}
	defer stmt.Close()
	for i, id := range residues {
		if _, err := stmt.Exec(run.RunID, i, id); err != nil {
			return fmt.Errorf("insert residue %d of run %s: %w", i, run.RunID, err)
		}
	}

	return tx.Commit()
}

// RunSummaries returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (db *DB) RunSummaries(limit int) ([]Run, error) {
	query := `
		SELECT run_id, input_name, natoms, nx, ny, nz, step, probe,
		       surface_mode, surface_points, residue_count, duration_ms, created_at
		FROM surface_runs ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.RunID, &r.InputName, &r.NAtoms, &r.NX, &r.NY, &r.NZ,
			&r.Step, &r.Probe, &r.SurfaceMode, &r.SurfacePoints,
			&r.ResidueCount, &r.DurationMs, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id. sql.ErrNoRows is returned unwrapped so
// callers can map it to a 404.
func (db *DB) GetRun(runID string) (Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, input_name, natoms, nx, ny, nz, step, probe,
		       surface_mode, surface_points, residue_count, duration_ms, created_at
		FROM surface_runs WHERE run_id = ?`, runID,
	).Scan(
		&r.RunID, &r.InputName, &r.NAtoms, &r.NX, &r.NY, &r.NZ,
		&r.Step, &r.Probe, &r.SurfaceMode, &r.SurfacePoints,
		&r.ResidueCount, &r.DurationMs, &r.CreatedAt,
	)
	return r, err
}

// RunResidues returns the residue identifiers of a run in recorded order.
func (db *DB) RunResidues(runID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT residue_id FROM surface_residues
		WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list residues of %s: %w", runID, err)
	}
	defer rows.Close()

	var residues []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan residue: %w", err)
		}
		residues = append(residues, id)
	}
	return residues, rows.Err()
}

// DeleteRun removes a run and, through the FK cascade, its residues.
func (db *DB) DeleteRun(runID string) error {
	_, err := db.Exec(`DELETE FROM surface_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}
