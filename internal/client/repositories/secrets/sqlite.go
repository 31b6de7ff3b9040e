package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, rec *Record) error {
	query := `INSERT INTO secrets (service, account, ciphertext, nonce, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(service, account) DO UPDATE SET
				ciphertext = excluded.ciphertext,
				nonce = excluded.nonce,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.Service, rec.Account, rec.Ciphertext, rec.Nonce, rec.UpdatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to put secret %s/%s: %w", rec.Service, rec.Account, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, service, account string) (*Record, error) {
	query := `SELECT ciphertext, nonce, updated_at FROM secrets WHERE service = ? AND account = ?`

	rec := &Record{Service: service, Account: account}
	var updated int64
	err := r.db.QueryRowContext(ctx, query, service, account).Scan(&rec.Ciphertext, &rec.Nonce, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s/%s: %w", service, account, err)
	}
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return rec, nil
}

func (r *SQLiteRepository) DeleteService(ctx context.Context, service string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM secrets WHERE service = ?`, service); err != nil {
		return fmt.Errorf("failed to delete secrets of %s: %w", service, err)
	}
	return nil
}

// Replace runs DeleteService and Put in one transaction. When the
// repository already wraps a transaction the caller owns it.
func (r *SQLiteRepository) Replace(ctx context.Context, rec *Record) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		return r.replace(ctx, rec)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).replace(ctx, rec)
	})
}

func (r *SQLiteRepository) replace(ctx context.Context, rec *Record) error {
	if err := r.DeleteService(ctx, rec.Service); err != nil {
		return err
	}
	return r.Put(ctx, rec)
}
