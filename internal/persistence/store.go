package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verdant/landplan/internal/schedule"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a schedule does not exist in the store.
var ErrNotFound = errors.New("schedule not found")

// Store defines the persistence interface for generated schedules.
//
// SaveSchedule assigns a durable id when the schedule still carries a
// pre-persistence placeholder, and returns the id the schedule is stored
// under. Task-level edits made after generation go through UpdateTask; they
// never trigger re-projection.
type Store interface {
	SaveSchedule(ctx context.Context, s *schedule.Schedule) (string, error)
	GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error)
	ListSchedules(ctx context.Context) ([]*schedule.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	UpdateTask(ctx context.Context, scheduleID string, taskID int, progress int, status schedule.TaskStatus, assignedTo string) error

	// Lifecycle
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store at the given path.
// Creates parent directories if needed. Enables WAL mode, foreign keys, and busy timeout.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	// Open SQLite with connection string for WAL mode, busy timeout
	// Note: modernc.org/sqlite doesn't support _foreign_keys in connection string
	connStr := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return initStore(ctx, db)
}

// NewMemoryStore creates an in-memory SQLite store for testing.
// Uses a shared cache so multiple connections see the same database.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", "file::memory:?mode=memory&cache=shared")
	if err != nil {
		return nil, fmt.Errorf("failed to open memory database: %w", err)
	}

	return initStore(ctx, db)
}

func initStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	// Enable foreign keys via PRAGMA (required for modernc.org/sqlite)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Allow 2 connections: one for primary queries, one for subqueries (prevents deadlock in ListSchedules)
	db.SetMaxOpenConns(2)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
