package tasks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE tasks (
  id         TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL DEFAULT '',
  title      TEXT NOT NULL,
  subject    TEXT NOT NULL DEFAULT '',
  deadline   INTEGER NOT NULL,
  priority   INTEGER NOT NULL,
  status     TEXT NOT NULL DEFAULT 'pending',
  notes      TEXT,
  created_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

var base = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newTask(id, title, subject string, dueIn time.Duration) *models.StudyTask {
	return &models.StudyTask{
		ID:        id,
		UserID:    "u1",
		Title:     title,
		Subject:   subject,
		Deadline:  base.Add(dueIn),
		Priority:  models.PriorityMedium,
		Status:    models.TaskPending,
		CreatedAt: base,
	}
}

func seed(t *testing.T, r *SQLiteRepository, tasks ...*models.StudyTask) {
	t.Helper()
	for _, task := range tasks {
		require.NoError(t, r.Create(context.Background(), task))
	}
}

func ids(list []models.StudyTask) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestCreateAndGet_RoundTripsAllFields(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	notes := "chapters 3-5"
	in := newTask("t1", "Read notes", "Biology", 48*time.Hour)
	in.Notes = &notes
	in.Priority = models.PriorityHigh
	in.Deadline = time.Date(2026, 5, 12, 9, 0, 0, 0, time.FixedZone("EET", 2*3600))
	require.NoError(t, r.Create(ctx, in))

	got, err := r.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Read notes", got.Title)
	assert.Equal(t, "Biology", got.Subject)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, models.TaskPending, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)
	assert.True(t, got.Deadline.Equal(in.Deadline))
	assert.Equal(t, time.UTC, got.Deadline.Location())
	assert.True(t, got.CreatedAt.Equal(base))
}

func TestCreate_NilNotesStayNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	seed(t, r, newTask("t1", "Essay", "History", time.Hour))

	got, err := r.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Nil(t, got.Notes)
}

func TestCreate_DuplicateIDFails(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	seed(t, r, newTask("t1", "Essay", "History", time.Hour))

	err := r.Create(context.Background(), newTask("t1", "Other", "", time.Hour))
	require.ErrorContains(t, err, "failed to insert task")
}

func TestGet_Unknown(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	_, err := r.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestList_OrderedByDeadlineAndFiltered(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	late := newTask("late", "Project", "CS", 72*time.Hour)
	early := newTask("early", "Quiz", "Math", 2*time.Hour)
	mid := newTask("mid", "Lab report", "Chemistry", 24*time.Hour)
	mid.Status = models.TaskCompleted
	seed(t, r, late, early, mid)

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "mid", "late"}, ids(all))

	done := true
	completed, err := r.List(ctx, &done)
	require.NoError(t, err)
	assert.Equal(t, []string{"mid"}, ids(completed))

	notDone := false
	pending, err := r.List(ctx, &notDone)
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late"}, ids(pending))
}

func TestList_EmptyIsNonNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	all, err := r.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestSearch_CaseInsensitiveTitleOrSubject(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	seed(t, r,
		newTask("a", "Calculus homework", "Math", 3*time.Hour),
		newTask("b", "Read chapter", "CALCULUS", 1*time.Hour),
		newTask("c", "Essay", "History", 2*time.Hour),
	)

	hits, err := r.Search(ctx, "calc")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(hits))

	for _, h := range hits {
		q := "calc"
		matches := strings.Contains(strings.ToLower(h.Title), q) || strings.Contains(strings.ToLower(h.Subject), q)
		assert.True(t, matches, "task %s does not match", h.ID)
	}
}

func TestSearch_UnicodeCaseAndDiacritics(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	seed(t, r,
		newTask("a", "Übungsblatt 3", "Physik", 1*time.Hour),
		newTask("b", "Reading", "ÉCONOMIE", 2*time.Hour),
		newTask("c", "Essay", "History", 3*time.Hour),
	)

	tests := []struct {
		query string
		want  []string
	}{
		{"übung", []string{"a"}},
		{"UBUNG", []string{"a"}},
		{"économie", []string{"b"}},
		{"economie", []string{"b"}},
		{"ÉCON", []string{"b"}},
		{"quantum", []string{}},
	}
	for _, tc := range tests {
		hits, err := r.Search(ctx, tc.query)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(hits), "query %q", tc.query)
	}
}

func TestFoldText(t *testing.T) {
	assert.Equal(t, "ubungsblatt", foldText("Übungsblatt"))
	assert.Equal(t, "economie", foldText("ÉCONOMIE"))
	assert.Equal(t, "strasse", foldText("STRASSE"))
	assert.Equal(t, "", foldText(""))
}

func TestSearch_WildcardsAreLiteral(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	seed(t, r,
		newTask("a", "Essay", "History", time.Hour),
		newTask("b", "100% review", "Math", 2*time.Hour),
	)

	hits, err := r.Search(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(hits))

	hits, err = r.Search(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSetStatus(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	seed(t, r, newTask("t1", "Essay", "History", time.Hour))

	require.NoError(t, r.SetStatus(ctx, "t1", models.TaskCompleted))
	got, err := r.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, got.Status)

	require.ErrorIs(t, r.SetStatus(ctx, "missing", models.TaskCompleted), ErrNotFound)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	seed(t, r, newTask("t1", "Essay", "History", time.Hour))

	require.NoError(t, r.Delete(ctx, "t1"))
	_, err := r.Get(ctx, "t1")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.Delete(ctx, "t1"), ErrNotFound)
}

func TestRepository_DriverErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectExec("INSERT INTO tasks").WillReturnError(boom)
	mock.ExpectQuery("SELECT (.+) FROM tasks ORDER BY").WillReturnError(boom)
	mock.ExpectExec("UPDATE tasks SET status").WillReturnError(boom)
	mock.ExpectExec("DELETE FROM tasks").WithArgs("t1").WillReturnError(boom)

	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.ErrorIs(t, r.Create(ctx, newTask("t1", "x", "", 0)), boom)

	_, err = r.List(ctx, nil)
	require.ErrorIs(t, err, boom)

	require.ErrorIs(t, r.SetStatus(ctx, "t1", models.TaskCompleted), boom)
	require.ErrorIs(t, r.Delete(ctx, "t1"), boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ScanErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "subject", "deadline", "priority", "status", "notes", "created_at"}).
		AddRow("t1", "u1", "x", "", "not-a-number", 1, "pending", nil, 0)
	mock.ExpectQuery("SELECT (.+) FROM tasks").WillReturnRows(rows)

	_, err = NewSQLiteRepository(db).List(context.Background(), nil)
	require.ErrorContains(t, err, "failed to scan task row")
}
