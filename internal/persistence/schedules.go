package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/verdant/landplan/internal/schedule"
)

// SaveSchedule saves or updates a schedule and its tasks.
// Uses ON CONFLICT to make saves idempotent. A schedule arriving with a
// placeholder id gets a fresh durable uuid; the stored id is returned either way.
func (s *SQLiteStore) SaveSchedule(ctx context.Context, sched *schedule.Schedule) (string, error) {
	id := sched.ID
	if id == "" || schedule.IsPlaceholderID(id) {
		id = uuid.NewString()
	}

	// Begin transaction with serializable isolation (BEGIN IMMEDIATE)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Upsert schedule (insert or update on conflict)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedules (id, project_id, name, description, start_date, end_date, end_day_offset, template_id, mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			name = excluded.name,
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			end_day_offset = excluded.end_day_offset,
			template_id = excluded.template_id,
			mode = excluded.mode,
			updated_at = CURRENT_TIMESTAMP
	`, id, sched.ProjectID, sched.Name, sched.Description,
		schedule.DateString(sched.Start), schedule.DateStringCeil(sched.End),
		schedule.DayOffset(sched.Start, sched.End), sched.TemplateID, sched.Mode)
	if err != nil {
		return "", fmt.Errorf("failed to upsert schedule: %w", err)
	}

	// Replace tasks wholesale: a regenerated schedule carries a full new task list
	_, err = tx.ExecContext(ctx, `DELETE FROM schedule_tasks WHERE schedule_id = ?`, id)
	if err != nil {
		return "", fmt.Errorf("failed to delete old tasks: %w", err)
	}

	for _, task := range sched.Tasks {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO schedule_tasks (schedule_id, task_id, name, category, start_day_offset, duration_days, progress, status, depends_on, assigned_to)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, task.ID, task.Name, task.Category,
			schedule.DayOffset(sched.Start, task.Start), task.DurationDays,
			task.Progress, task.Status, joinIndices(task.DependsOn), task.AssignedTo)
		if err != nil {
			return "", fmt.Errorf("failed to insert task %d: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// GetSchedule retrieves a schedule by id, including its tasks in template order.
func (s *SQLiteStore) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	sched := &schedule.Schedule{}
	var startDate string
	var endOffset float64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, description, start_date, end_day_offset, template_id, mode
		FROM schedules
		WHERE id = ?
	`, id).Scan(&sched.ID, &sched.ProjectID, &sched.Name, &sched.Description, &startDate, &endOffset, &sched.TemplateID, &sched.Mode)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}

	sched.Start, err = schedule.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("corrupt start date %q: %w", startDate, err)
	}
	sched.End = schedule.AddDays(sched.Start, endOffset)

	tasks, err := s.loadTasks(ctx, sched)
	if err != nil {
		return nil, err
	}
	sched.Tasks = tasks

	return sched, nil
}

// loadTasks loads a schedule's tasks ordered by task id (template order).
func (s *SQLiteStore) loadTasks(ctx context.Context, sched *schedule.Schedule) ([]*schedule.ProjectedTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, name, category, start_day_offset, duration_days, progress, status, depends_on, assigned_to
		FROM schedule_tasks
		WHERE schedule_id = ?
		ORDER BY task_id
	`, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*schedule.ProjectedTask{}
	for rows.Next() {
		task := &schedule.ProjectedTask{}
		var startOffset float64
		var dependsOn string

		if err := rows.Scan(&task.ID, &task.Name, &task.Category, &startOffset, &task.DurationDays,
			&task.Progress, &task.Status, &dependsOn, &task.AssignedTo); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		task.Start = schedule.AddDays(sched.Start, startOffset)
		task.End = schedule.AddDays(task.Start, task.DurationDays)
		task.DependsOn, err = splitIndices(dependsOn)
		if err != nil {
			return nil, fmt.Errorf("corrupt dependency list for task %d: %w", task.ID, err)
		}

		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// ListSchedules returns all schedules with their tasks, oldest first.
func (s *SQLiteStore) ListSchedules(ctx context.Context) ([]*schedule.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, description, start_date, end_day_offset, template_id, mode
		FROM schedules
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*schedule.Schedule
	for rows.Next() {
		sched := &schedule.Schedule{}
		var startDate string
		var endOffset float64

		if err := rows.Scan(&sched.ID, &sched.ProjectID, &sched.Name, &sched.Description,
			&startDate, &endOffset, &sched.TemplateID, &sched.Mode); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}

		sched.Start, err = schedule.ParseDate(startDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt start date %q: %w", startDate, err)
		}
		sched.End = schedule.AddDays(sched.Start, endOffset)

		tasks, err := s.loadTasks(ctx, sched)
		if err != nil {
			return nil, fmt.Errorf("loading tasks for schedule %s: %w", sched.ID, err)
		}
		sched.Tasks = tasks

		schedules = append(schedules, sched)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

// DeleteSchedule removes a schedule and, via cascade, its tasks.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// UpdateTask updates the progress, status, and assignee of one task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, scheduleID string, taskID int, progress int, status schedule.TaskStatus, assignedTo string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE schedule_tasks
		SET progress = ?, status = ?, assigned_to = ?
		WHERE schedule_id = ? AND task_id = ?
	`, progress, status, assignedTo, scheduleID, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: schedule %s task %d", ErrNotFound, scheduleID, taskID)
	}

	// Touch the parent's updated_at so list views sort sensibly
	_, err = s.db.ExecContext(ctx, `UPDATE schedules SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to touch schedule: %w", err)
	}

	return nil
}

// joinIndices serializes a dependency index list as a comma-joined string.
func joinIndices(indices []int) string {
	if len(indices) == 0 {
		return ""
	}
	parts := make([]string, len(indices))
	for i, v := range indices {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// splitIndices parses a comma-joined dependency index list.
func splitIndices(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
