package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/dbx"
)

const selectColumns = `SELECT id, user_id, title, subject, deadline, priority, status, notes, created_at FROM tasks`

const orderByDeadline = ` ORDER BY deadline ASC, created_at ASC`

const searchWhere = ` WHERE instr(` + foldFunc + `(title), ` + foldFunc + `(?)) > 0` +
	` OR instr(` + foldFunc + `(subject), ` + foldFunc + `(?)) > 0`

// SQLiteRepository implements Repository over dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.StudyTask) error {
	query := `INSERT INTO tasks (id, user_id, title, subject, deadline, priority, status, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var notes sql.NullString
	if t.Notes != nil {
		notes = sql.NullString{String: *t.Notes, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Title, t.Subject, toMillis(t.Deadline), int(t.Priority), string(t.Status), notes, toMillis(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.StudyTask, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) List(ctx context.Context, completed *bool) ([]models.StudyTask, error) {
	if completed == nil {
		return r.query(ctx, selectColumns+orderByDeadline)
	}

	status := models.TaskPending
	if *completed {
		status = models.TaskCompleted
	}
	return r.query(ctx, selectColumns+` WHERE status = ?`+orderByDeadline, string(status))
}

// Search matches query against title or subject, ignoring case and
// diacritics.
func (r *SQLiteRepository) Search(ctx context.Context, query string) ([]models.StudyTask, error) {
	return r.query(ctx, selectColumns+searchWhere+orderByDeadline, query, query)
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return dbx.ExpectAffected(res, ErrNotFound)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return dbx.ExpectAffected(res, ErrNotFound)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.StudyTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := make([]models.StudyTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.StudyTask, error) {
	var (
		t                 models.StudyTask
		deadline, created int64
		priority          int
		status            string
		notes             sql.NullString
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Subject, &deadline, &priority, &status, &notes, &created); err != nil {
		return nil, err
	}

	t.Deadline = fromMillis(deadline)
	t.CreatedAt = fromMillis(created)
	t.Priority = models.Priority(priority)
	t.Status = models.TaskStatus(status)
	if notes.Valid {
		n := notes.String
		t.Notes = &n
	}
	return &t, nil
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
