package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openNotes(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func noteCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func insertNote(ctx context.Context, tx DBTX, body string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notes (body) VALUES (?)`, body)
	return err
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		fn      func(ctx context.Context, tx DBTX) error
		wantErr error
		want    int
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertNote(ctx, tx, "a"); err != nil {
					return err
				}
				return insertNote(ctx, tx, "b")
			},
			want: 2,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := insertNote(ctx, tx, "a"); err != nil {
					return err
				}
				return boom
			},
			wantErr: boom,
			want:    0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := openNotes(t)
			err := WithTx(context.Background(), db, nil, tc.fn)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, noteCount(t, db))
		})
	}
}

func TestWithTx_PanicRollsBackAndRepanics(t *testing.T) {
	db := openNotes(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, insertNote(ctx, tx, "a"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, noteCount(t, db))
}

func TestWithTx_CommitAndBeginErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	commitErr := errors.New("database is locked")
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(commitErr)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	ctx := context.Background()
	noop := func(context.Context, DBTX) error { return nil }

	assert.ErrorIs(t, WithTx(ctx, db, nil, noop), commitErr)
	assert.ErrorIs(t, WithTx(ctx, db, nil, noop), sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpectAffected(t *testing.T) {
	notFound := errors.New("missing")

	assert.NoError(t, ExpectAffected(sqlmock.NewResult(0, 1), notFound))
	assert.ErrorIs(t, ExpectAffected(sqlmock.NewResult(0, 0), notFound), notFound)

	broken := sqlmock.NewErrorResult(errors.New("unsupported"))
	err := ExpectAffected(broken, notFound)
	assert.ErrorContains(t, err, "rows affected: unsupported")
	assert.NotErrorIs(t, err, notFound)
}
