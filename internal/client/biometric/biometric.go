// Package biometric defines the local user-presence check used before
// stored credentials are replayed, and a PIN-based terminal implementation.
package biometric

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studyplanner/internal/common"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotAvailable = errors.New("biometrics not available")
	ErrFailed       = errors.New("authentication failed")
	ErrWeakPIN      = errors.New("PIN must be at least 4 digits")
)

// Authenticator confirms that the device owner is present. reason is shown
// to the user. A nil error means approved.
type Authenticator interface {
	Authenticate(ctx context.Context, reason string) error
}

// PINStore persists the bcrypt hash of the device PIN.
type PINStore interface {
	PINHash(ctx context.Context) ([]byte, error)
	SetPINHash(ctx context.Context, hash []byte) error
}

// PromptFunc asks the user for a secret and returns what was typed.
type PromptFunc func(ctx context.Context, prompt string) (string, error)

// PINAuthenticator stands in for a platform biometric prompt.
type PINAuthenticator struct {
	store  PINStore
	prompt PromptFunc
	cost   int
}

func NewPINAuthenticator(store PINStore, prompt PromptFunc) *PINAuthenticator {
	return &PINAuthenticator{store: store, prompt: prompt, cost: bcrypt.DefaultCost}
}

// Enroll replaces the stored PIN.
func (a *PINAuthenticator) Enroll(ctx context.Context, pin string) error {
	if len(pin) < 4 {
		return ErrWeakPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrWeakPIN
		}
	}
	secret := []byte(pin)
	defer common.WipeByteArray(secret)

	hash, err := bcrypt.GenerateFromPassword(secret, a.cost)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}
	return a.store.SetPINHash(ctx, hash)
}

// Enrolled reports whether a PIN has been set.
func (a *PINAuthenticator) Enrolled(ctx context.Context) (bool, error) {
	hash, err := a.store.PINHash(ctx)
	if err != nil {
		return false, err
	}
	return len(hash) > 0, nil
}

func (a *PINAuthenticator) Authenticate(ctx context.Context, reason string) error {
	hash, err := a.store.PINHash(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	if len(hash) == 0 {
		return ErrNotAvailable
	}

	pin, err := a.prompt(ctx, reason+" PIN: ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	secret := []byte(pin)
	defer common.WipeByteArray(secret)

	if bcrypt.CompareHashAndPassword(hash, secret) != nil {
		return ErrFailed
	}
	return nil
}
