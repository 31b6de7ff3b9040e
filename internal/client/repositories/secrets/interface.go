package secrets

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no entry exists for (service, account).
var ErrNotFound = errors.New("secret not found")

// Record is one sealed entry as stored on disk.
type Record struct {
	Service    string
	Account    string
	Ciphertext []byte
	Nonce      []byte
	UpdatedAt  time.Time
}

// Repository persists sealed records.
type Repository interface {
	// Put inserts or replaces the record for (Service, Account).
	Put(ctx context.Context, rec *Record) error

	// Get returns ErrNotFound when the record does not exist.
	Get(ctx context.Context, service, account string) (*Record, error)

	// DeleteService removes every record of the service. Idempotent.
	DeleteService(ctx context.Context, service string) error

	// Replace drops every record of rec.Service and stores rec, as one unit.
	Replace(ctx context.Context, rec *Record) error
}

// Store is the plaintext view of the secret store.
type Store interface {
	Set(ctx context.Context, service, account string, value []byte) error
	Get(ctx context.Context, service, account string) ([]byte, error)
	DeleteAll(ctx context.Context, service string) error
	// Replace leaves account as the only entry of service.
	Replace(ctx context.Context, service, account string, value []byte) error
}
