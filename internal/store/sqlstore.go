package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// nullStr converts a sql.NullString to a plain string (empty if null).
func nullStr(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory (e.g. .mscorebench) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		// Fresh database.
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		v = schemaVersionV1
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", v); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d (want %d)", v, currentSchemaVersion)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

func (s *SqlStore) CreateRun(r *Run) error {
	if r.ID == "" {
		return fmt.Errorf("create run: empty run ID")
	}
	if r.StartedAt == "" {
		r.StartedAt = nowUTC()
	}
	if r.Status == "" {
		r.Status = "running"
	}
	_, err := s.db.Exec(
		`INSERT INTO runs(id, started_at, finished_at, status, dataset, agents, samples, max_time)
		 VALUES(?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.FinishedAt, r.Status, r.Dataset, r.Agents, r.Samples, r.MaxTime,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return nil
}

func (s *SqlStore) FinishRun(runID, status string) error {
	res, err := s.db.Exec(
		"UPDATE runs SET status = ?, finished_at = ? WHERE id = ?",
		status, nowUTC(), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run: no run %s", runID)
	}
	return nil
}

func (s *SqlStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(
		"SELECT id, started_at, finished_at, status, dataset, agents, samples, max_time FROM runs WHERE id = ?",
		runID,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

func (s *SqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(
		"SELECT id, started_at, finished_at, status, dataset, agents, samples, max_time FROM runs ORDER BY started_at",
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var finished sql.NullString
	if err := row.Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &r.Dataset, &r.Agents, &r.Samples, &r.MaxTime); err != nil {
		return nil, err
	}
	r.FinishedAt = nullStr(finished)
	return &r, nil
}

func (s *SqlStore) RecordStep(st *Step) error {
	if st.RunID == "" || st.Name == "" {
		return fmt.Errorf("record step: run ID and name are required")
	}
	_, err := s.db.Exec(
		`INSERT INTO steps(run_id, name, status, exit_code, attempts, started_at, finished_at, log_path, output_path)
		 VALUES(?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
		 ON CONFLICT(run_id, name) DO UPDATE SET
		   status = excluded.status,
		   exit_code = excluded.exit_code,
		   attempts = excluded.attempts,
		   started_at = excluded.started_at,
		   finished_at = excluded.finished_at,
		   log_path = excluded.log_path,
		   output_path = excluded.output_path`,
		st.RunID, st.Name, st.Status, st.ExitCode, st.Attempts,
		st.StartedAt, st.FinishedAt, st.LogPath, st.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("record step %s/%s: %w", st.RunID, st.Name, err)
	}
	return nil
}

func (s *SqlStore) ListSteps(runID string) ([]*Step, error) {
	rows, err := s.db.Query(
		`SELECT run_id, name, status, exit_code, attempts, started_at, finished_at, log_path, output_path
		 FROM steps WHERE run_id = ? ORDER BY started_at, name`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list steps for %s: %w", runID, err)
	}
	defer rows.Close()

	var steps []*Step
	for rows.Next() {
		var st Step
		var started, finished, logPath, outputPath sql.NullString
		if err := rows.Scan(&st.RunID, &st.Name, &st.Status, &st.ExitCode, &st.Attempts,
			&started, &finished, &logPath, &outputPath); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		st.StartedAt = nullStr(started)
		st.FinishedAt = nullStr(finished)
		st.LogPath = nullStr(logPath)
		st.OutputPath = nullStr(outputPath)
		steps = append(steps, &st)
	}
	return steps, rows.Err()
}
