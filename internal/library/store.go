package library

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"storyloom/internal/config"
	"storyloom/internal/generation"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the library database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates no record exists for the requested job.
var ErrNotFound = errors.New("episode not found")

// Store persists the viewer's episode history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.LibraryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'storyloom library clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// NewEpisode records a freshly issued generation job.
func (s *Store) NewEpisode(ctx context.Context, jobID, topic, characterName, storyStyle string) (*Record, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO episodes (
            job_id, topic, character_name, story_style, status,
            scene_count, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		jobID,
		nullableString(topic),
		nullableString(characterName),
		nullableString(storyStyle),
		generation.StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	return s.GetByJobID(ctx, jobID)
}

// SetStatus records an in-flight status observation.
func (s *Store) SetStatus(ctx context.Context, jobID string, status generation.Status) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, updated_at = ? WHERE job_id = ?`,
		status, timestamp, jobID,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return checkAffected(res)
}

// MarkComplete records a terminal success with the generated title.
func (s *Store) MarkComplete(ctx context.Context, jobID, title string, sceneCount int) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, title = ?, scene_count = ?,
            error_message = NULL, updated_at = ?, completed_at = ? WHERE job_id = ?`,
		generation.StatusComplete, nullableString(title), sceneCount,
		timestamp, timestamp, jobID,
	)
	if err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	return checkAffected(res)
}

// MarkFailed records a terminal failure with the remote-provided reason.
func (s *Store) MarkFailed(ctx context.Context, jobID, reason string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE episodes SET status = ?, error_message = ?, updated_at = ? WHERE job_id = ?`,
		generation.StatusFailed, nullableString(reason), timestamp, jobID,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return checkAffected(res)
}

// GetByJobID returns the record for a job.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM episodes WHERE job_id = ?`,
		jobID,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	return record, nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM episodes ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return records, nil
}

// Remove deletes one record by job id.
func (s *Store) Remove(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM episodes WHERE job_id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("remove episode: %w", err)
	}
	return checkAffected(res)
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM episodes`)
	if err != nil {
		return 0, fmt.Errorf("clear library: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

func checkAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
