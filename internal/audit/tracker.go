// Package audit persists run-level accounting to Postgres. It is optional:
// the pipeline runs identically without a database, and nothing in the CSV
// output depends on it.
package audit

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/uidai-ingest/internal/pipeline"
)

// Tracker records ingestion runs in an audit database.
type Tracker struct {
	db *sql.DB
}

// Open connects to the audit database and makes sure the schema exists.
func Open(dsn string) (*Tracker, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to audit database: %w", err)
	}

	t := &Tracker{db: db}
	if err := t.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return t, nil
}

// Close releases the database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}

func (t *Tracker) ensureSchema() error {
	_, err := t.db.Exec(`
		CREATE TABLE IF NOT EXISTS ingest_run (
			run_id          uuid PRIMARY KEY,
			started_at      timestamptz NOT NULL,
			finished_at     timestamptz NOT NULL,
			file_count      int NOT NULL,
			rows_read       int NOT NULL,
			valid_dates     int NOT NULL,
			written_states  int NOT NULL,
			written_uts     int NOT NULL,
			omitted_invalid_date    int NOT NULL,
			omitted_unmapped_region int NOT NULL,
			omitted_not_allowed     int NOT NULL,
			succeeded       boolean NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating ingest_run table: %w", err)
	}

	_, err = t.db.Exec(`
		CREATE TABLE IF NOT EXISTS ingest_run_file (
			run_id          uuid NOT NULL REFERENCES ingest_run(run_id),
			file_name       text NOT NULL,
			dataset         text NOT NULL,
			rows_read       int NOT NULL,
			written         int NOT NULL,
			omitted         int NOT NULL,
			error           text,
			PRIMARY KEY (run_id, file_name)
		)
	`)
	if err != nil {
		return fmt.Errorf("creating ingest_run_file table: %w", err)
	}
	return nil
}

// RecordRun stores one run and its per-file outcomes in a single
// transaction, returning the generated run id.
func (t *Tracker) RecordRun(result pipeline.RunResult) (string, error) {
	runID := uuid.NewString()

	tx, err := t.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	c := result.Totals
	_, err = tx.Exec(`
		INSERT INTO ingest_run (
			run_id, started_at, finished_at, file_count, rows_read, valid_dates,
			written_states, written_uts, omitted_invalid_date,
			omitted_unmapped_region, omitted_not_allowed, succeeded
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, runID, result.Started, result.Finished, len(result.Files),
		c.TotalRead, c.ValidDate, c.WrittenStates, c.WrittenUTs,
		c.OmittedInvalidDate, c.OmittedUnmappedRegion, c.OmittedNotAllowed,
		result.Succeeded())
	if err != nil {
		return "", fmt.Errorf("failed to insert run record: %w", err)
	}

	for _, fr := range result.Files {
		var errText sql.NullString
		if fr.Err != nil {
			errText = sql.NullString{String: fr.Err.Error(), Valid: true}
		}
		_, err = tx.Exec(`
			INSERT INTO ingest_run_file (
				run_id, file_name, dataset, rows_read, written, omitted, error
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, runID, fr.File, fr.Dataset, fr.Counters.TotalRead,
			fr.Counters.Writes(), fr.Counters.Omissions(), errText)
		if err != nil {
			return "", fmt.Errorf("failed to insert file record for %s: %w", fr.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return runID, nil
}
