// Package credentials keeps the user's email and password in the local
// secret store so that biometric sign-in can replay them.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/studyplanner/internal/logging"
)

// ServiceID scopes every entry written by Store.
const ServiceID = "com.studyplanner.credentials"

const (
	recordAccount = "credentials"

	// Accounts used by older versions, one secret per field.
	legacyEmailAccount    = "email"
	legacyPasswordAccount = "password"
)

// Credentials is a stored email/password pair. An empty field is missing.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Complete reports whether both fields are present.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// Store serialises access to the credential entries of one service.
type Store struct {
	mu      sync.Mutex
	secrets secrets.Store
	service string
	log     logging.Logger
}

func NewStore(s secrets.Store, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	return &Store{secrets: s, service: ServiceID, log: log}
}

// Save replaces whatever is stored with the given pair. On failure the
// service is left empty rather than holding a pair from an earlier save.
func (s *Store) Save(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := json.Marshal(Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := s.secrets.Replace(ctx, s.service, recordAccount, value); err != nil {
		if delErr := s.secrets.DeleteAll(ctx, s.service); delErr != nil {
			s.log.Warn(ctx, "cleanup after failed credential write", "error", delErr)
		}
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Get returns the stored pair. Missing or unreadable fields come back empty.
func (s *Store) Get(ctx context.Context) Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.secrets.Get(ctx, s.service, recordAccount)
	switch {
	case err == nil:
		var c Credentials
		if err := json.Unmarshal(value, &c); err != nil {
			s.log.Warn(ctx, "stored credentials are corrupt", "error", err)
			return Credentials{}
		}
		return c
	case !errors.Is(err, secrets.ErrNotFound):
		s.log.Warn(ctx, "read credentials", "error", err)
		return Credentials{}
	}

	return Credentials{
		Email:    s.readLegacy(ctx, legacyEmailAccount),
		Password: s.readLegacy(ctx, legacyPasswordAccount),
	}
}

func (s *Store) readLegacy(ctx context.Context, account string) string {
	value, err := s.secrets.Get(ctx, s.service, account)
	if err != nil {
		if !errors.Is(err, secrets.ErrNotFound) {
			s.log.Warn(ctx, "read legacy credential", "account", account, "error", err)
		}
		return ""
	}
	return string(value)
}

// Delete removes every entry of the service. Failures are only logged.
func (s *Store) Delete(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.secrets.DeleteAll(ctx, s.service); err != nil {
		s.log.Warn(ctx, "delete credentials", "error", err)
	}
}
