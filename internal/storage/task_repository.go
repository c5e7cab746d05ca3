package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/media-tracker/backend/internal/storage/models"
)

// TaskRepository provides data access for tasks and their append-only log.
type TaskRepository struct {
	BaseRepository
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const taskColumns = `id, property_id, title, media_type, stage, shoot_start, shoot_end,
       assigned_photographer, assigned_editors, conflict_fingerprint, booked_over_conflict,
       created_at, updated_at`

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.ID = GenerateID()
	task.CreatedAt = r.Now()
	task.UpdatedAt = r.Now()

	editors, err := marshalEditors(task.AssignedEditors)
	if err != nil {
		return err
	}
	shootStart, shootEnd := shootDateColumns(task.ShootDate)

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO tasks (
			id, property_id, title, media_type, stage, shoot_start, shoot_end,
			assigned_photographer, assigned_editors, conflict_fingerprint,
			booked_over_conflict, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, task.PropertyID, task.Title, task.MediaType, task.Stage,
		shootStart, shootEnd, task.AssignedPhotographer, editors,
		task.ConflictFingerprint, task.BookedOverConflict, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.DB().QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return task, nil
}

// ListByProperty retrieves all tasks for a property, newest first.
func (r *TaskRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Task, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE property_id = ? ORDER BY created_at DESC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// List retrieves tasks, optionally filtered by stage and/or media type.
func (r *TaskRepository) List(ctx context.Context, stage, mediaType string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if stage != "" {
		query += ` AND stage = ?`
		args = append(args, stage)
	}
	if mediaType != "" {
		query += ` AND media_type = ?`
		args = append(args, mediaType)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListScheduledByProperty retrieves tasks for a property that have a shoot
// date set, ordered by shoot start.
func (r *TaskRepository) ListScheduledByProperty(ctx context.Context, propertyID string) ([]models.Task, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE property_id = ? AND shoot_start IS NOT NULL
		ORDER BY shoot_start
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Update updates an existing task.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = r.Now()

	editors, err := marshalEditors(task.AssignedEditors)
	if err != nil {
		return err
	}
	shootStart, shootEnd := shootDateColumns(task.ShootDate)

	result, err := r.DB().ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, media_type = ?, stage = ?, shoot_start = ?, shoot_end = ?,
			assigned_photographer = ?, assigned_editors = ?, conflict_fingerprint = ?,
			booked_over_conflict = ?, updated_at = ?
		WHERE id = ?
	`,
		task.Title, task.MediaType, task.Stage, shootStart, shootEnd,
		task.AssignedPhotographer, editors, task.ConflictFingerprint,
		task.BookedOverConflict, task.UpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", task.ID)
	}

	return nil
}

// Delete removes a task and its log.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("task not found: %s", id)
	}

	return nil
}

// AppendLog inserts one entry into the task's append-only log. There are no
// update or delete operations on task_log by design.
func (r *TaskRepository) AppendLog(ctx context.Context, entry *models.TaskLogEntry) error {
	entry.ID = GenerateID()
	entry.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO task_log (id, task_id, action, detail, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.TaskID, entry.Action, entry.Detail, entry.Actor, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending task log: %w", err)
	}

	return nil
}

// ListLog retrieves a task's log entries, oldest first.
func (r *TaskRepository) ListLog(ctx context.Context, taskID string) ([]models.TaskLogEntry, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, task_id, action, detail, actor, created_at
		FROM task_log WHERE task_id = ? ORDER BY created_at, id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("querying task log: %w", err)
	}
	defer rows.Close()

	var entries []models.TaskLogEntry
	for rows.Next() {
		var e models.TaskLogEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Action, &e.Detail, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning task log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for single-task scans.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	task := &models.Task{}
	var shootStart, shootEnd sql.NullString
	var editors string

	if err := s.Scan(
		&task.ID, &task.PropertyID, &task.Title, &task.MediaType, &task.Stage,
		&shootStart, &shootEnd, &task.AssignedPhotographer, &editors,
		&task.ConflictFingerprint, &task.BookedOverConflict,
		&task.CreatedAt, &task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	task.ShootDate = shootDateFromColumns(shootStart, shootEnd)
	if err := json.Unmarshal([]byte(editors), &task.AssignedEditors); err != nil {
		task.AssignedEditors = nil
	}
	if task.AssignedEditors == nil {
		task.AssignedEditors = []string{}
	}

	return task, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// shootDateColumns flattens the shoot-date union into the two nullable
// columns. A single day stores the same value in both.
func shootDateColumns(d models.ShootDate) (start, end *string) {
	switch d.Kind {
	case models.ShootDateSingle:
		s := d.Start
		return &s, &s
	case models.ShootDateRange:
		s, e := d.Start, d.End
		return &s, &e
	default:
		return nil, nil
	}
}

// shootDateFromColumns rebuilds the union from the stored columns.
func shootDateFromColumns(start, end sql.NullString) models.ShootDate {
	if !start.Valid || start.String == "" {
		return models.ShootDate{}
	}
	if !end.Valid || end.String == "" || end.String == start.String {
		return models.ShootDate{Kind: models.ShootDateSingle, Start: start.String}
	}
	return models.ShootDate{Kind: models.ShootDateRange, Start: start.String, End: end.String}
}

func marshalEditors(editors []string) (string, error) {
	if editors == nil {
		editors = []string{}
	}
	data, err := json.Marshal(editors)
	if err != nil {
		return "", fmt.Errorf("marshaling editors: %w", err)
	}
	return string(data), nil
}
