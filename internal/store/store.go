// Package store persists scenario evaluation runs to a SQLite database so
// history can be queried across CI runs. The schema is managed entirely
// by embedded golang-migrate migrations.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/monitoring"
	"github.com/banshee-data/camqa/internal/scenario"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite connection carrying the scenario run history.
type Store struct {
	*sql.DB
}

// applyPragmas applies the SQLite PRAGMAs needed for a single-writer,
// many-reader workload: WAL journaling and a busy timeout so a
// concurrent scenario-evaluation run never sees "database is locked".
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	return nil
}

// NewStore opens (creating if absent) the SQLite database at path and
// migrates it to the latest schema version.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", path, err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrateUp() error {
	sourceDriver, err := iofs.New(migrationsSubFS(), ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source driver: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(s.DB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to build migrator: %w", err)
	}
	// m.Close() is not called here: the sqlite database driver's Close()
	// tears down the underlying *sql.DB connection, which Store owns and
	// closes separately via Store.Close().

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

func migrationsSubFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		// migrationsFS is compiled in via go:embed; a missing "migrations"
		// subdirectory indicates a build-time packaging defect, not a
		// runtime condition callers can recover from.
		panic(fmt.Sprintf("store: embedded migrations directory missing: %v", err))
	}
	return sub
}

// RecordRun persists one scenario evaluation, generating a fresh run ID.
// runAt is passed explicitly rather than read from time.Now() so callers
// (and their tests) control the recorded timestamp.
func (s *Store) RecordRun(eval scenario.ScenarioEvaluation, runAt time.Time) (string, error) {
	metricsJSON, err := json.Marshal(eval.Metrics)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metrics: %w", err)
	}
	gateResultsJSON, err := json.Marshal(eval.GateResults)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gate results: %w", err)
	}
	notesJSON, err := json.Marshal(eval.Notes)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notes: %w", err)
	}

	id := uuid.NewString()
	const q = `INSERT INTO scenario_runs
		(id, run_at_unix, scenario_id, status, verdict, metrics_json, gate_results_json, notes_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.Exec(q, id, runAt.Unix(), eval.ScenarioID, eval.Status, string(eval.Verdict), metricsJSON, gateResultsJSON, notesJSON); err != nil {
		return "", fmt.Errorf("failed to insert scenario run: %w", err)
	}

	monitoring.Logf("store: recorded run %s for scenario %s (verdict=%s)", id, eval.ScenarioID, eval.Verdict)
	return id, nil
}

// Run is one persisted scenario evaluation row.
type Run struct {
	ID          string
	RunAt       time.Time
	ScenarioID  string
	Status      string
	Verdict     gates.Verdict
	GateResults map[string]gates.Result
}

// RecentRuns returns up to limit most recent runs for scenarioID, newest
// first.
func (s *Store) RecentRuns(scenarioID string, limit int) ([]Run, error) {
	const q = `SELECT id, run_at_unix, scenario_id, status, verdict, gate_results_json
		FROM scenario_runs WHERE scenario_id = ? ORDER BY run_at_unix DESC LIMIT ?`
	rows, err := s.Query(q, scenarioID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var runAtUnix int64
		var verdict string
		var gateResultsJSON string
		if err := rows.Scan(&r.ID, &runAtUnix, &r.ScenarioID, &r.Status, &verdict, &gateResultsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.RunAt = time.Unix(runAtUnix, 0).UTC()
		r.Verdict = gates.Verdict(verdict)
		if err := json.Unmarshal([]byte(gateResultsJSON), &r.GateResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal gate results: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
