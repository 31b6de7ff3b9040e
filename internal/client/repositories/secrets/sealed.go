package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/cryptox"
)

var storeKeySalt = []byte("studyplanner/secrets/v1")

// SealedStore encrypts values before they reach the Repository.
type SealedStore struct {
	repo Repository
	key  []byte
	now  func() time.Time
}

// NewSealedStore derives the sealing key from deviceKey.
func NewSealedStore(repo Repository, deviceKey []byte) *SealedStore {
	return &SealedStore{
		repo: repo,
		key:  cryptox.DeriveKey(deviceKey, storeKeySalt),
		now:  time.Now,
	}
}

func (s *SealedStore) seal(service, account string, value []byte) (*Record, error) {
	ct, nonce, err := cryptox.Seal(value, s.key)
	if err != nil {
		return nil, fmt.Errorf("seal secret: %w", err)
	}
	return &Record{
		Service:    service,
		Account:    account,
		Ciphertext: ct,
		Nonce:      nonce,
		UpdatedAt:  s.now(),
	}, nil
}

func (s *SealedStore) Set(ctx context.Context, service, account string, value []byte) error {
	rec, err := s.seal(service, account, value)
	if err != nil {
		return err
	}
	return s.repo.Put(ctx, rec)
}

func (s *SealedStore) Replace(ctx context.Context, service, account string, value []byte) error {
	rec, err := s.seal(service, account, value)
	if err != nil {
		return err
	}
	return s.repo.Replace(ctx, rec)
}

func (s *SealedStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	rec, err := s.repo.Get(ctx, service, account)
	if err != nil {
		return nil, err
	}
	value, err := cryptox.Open(rec.Ciphertext, rec.Nonce, s.key)
	if err != nil {
		return nil, fmt.Errorf("open secret %s/%s: %w", service, account, err)
	}
	return value, nil
}

func (s *SealedStore) DeleteAll(ctx context.Context, service string) error {
	return s.repo.DeleteService(ctx, service)
}
