// Package metadata stores small key/value settings of the local client:
// the authentication flag, the cached profile and device preferences.
package metadata

import "context"

// Repository is a byte-valued key/value store. Get returns (nil, nil) for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete ignores keys that are not present.
	Delete(ctx context.Context, keys ...string) error
}
