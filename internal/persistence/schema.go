package persistence

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
//
// Task dates are stored as fractional day offsets from the schedule's start
// date so half-day instants survive a round trip; the ISO date columns are the
// externally visible calendar dates.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		end_day_offset REAL NOT NULL,
		template_id TEXT NOT NULL,
		mode INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS schedule_tasks (
		schedule_id TEXT NOT NULL,
		task_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		category TEXT,
		start_day_offset REAL NOT NULL,
		duration_days REAL NOT NULL,
		progress INTEGER NOT NULL,
		status INTEGER NOT NULL,
		depends_on TEXT,
		assigned_to TEXT,
		PRIMARY KEY (schedule_id, task_id),
		FOREIGN KEY (schedule_id) REFERENCES schedules(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_tasks_schedule_id ON schedule_tasks(schedule_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
