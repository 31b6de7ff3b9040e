// Package settings exposes the client's well-known key/value settings
// (authentication flag, cached profile, preferences) with typed accessors.
package settings

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/metadata"
)

// Keys in the metadata table.
const (
	KeyIsAuthenticated      = "isAuthenticated"
	KeyUserID               = "userId"
	KeyUserName             = "userName"
	KeyUserEmail            = "userEmail"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyDarkModeEnabled      = "darkModeEnabled"
	KeyDefaultStudyDuration = "defaultStudyDuration"
	KeyBiometricPINHash     = "biometricPinHash"
)

// Store reads and writes settings. Values that are missing or cannot be
// parsed read as their defaults.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) getBool(ctx context.Context, key string, def bool) (bool, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return def, err
	}
	b, perr := strconv.ParseBool(string(v))
	if perr != nil {
		return def, nil
	}
	return b, nil
}

func (s *Store) setBool(ctx context.Context, key string, v bool) error {
	return s.repo.Set(ctx, key, []byte(strconv.FormatBool(v)))
}

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeyIsAuthenticated, false)
}

func (s *Store) SetAuthenticated(ctx context.Context, v bool) error {
	return s.setBool(ctx, KeyIsAuthenticated, v)
}

func (s *Store) NotificationsEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeyNotificationsEnabled, true)
}

func (s *Store) SetNotificationsEnabled(ctx context.Context, v bool) error {
	return s.setBool(ctx, KeyNotificationsEnabled, v)
}

func (s *Store) DarkModeEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeyDarkModeEnabled, false)
}

func (s *Store) SetDarkModeEnabled(ctx context.Context, v bool) error {
	return s.setBool(ctx, KeyDarkModeEnabled, v)
}

// DefaultStudyDuration is in seconds.
func (s *Store) DefaultStudyDuration(ctx context.Context) (int, error) {
	v, err := s.repo.Get(ctx, KeyDefaultStudyDuration)
	if err != nil {
		return models.DefaultStudyDuration, err
	}
	n, perr := strconv.Atoi(string(v))
	if perr != nil || n <= 0 {
		return models.DefaultStudyDuration, nil
	}
	return n, nil
}

func (s *Store) SetDefaultStudyDuration(ctx context.Context, seconds int) error {
	return s.repo.Set(ctx, KeyDefaultStudyDuration, []byte(strconv.Itoa(seconds)))
}

// PINHash returns nil when no PIN has been enrolled.
func (s *Store) PINHash(ctx context.Context) ([]byte, error) {
	v, err := s.repo.Get(ctx, KeyBiometricPINHash)
	if err != nil || len(v) == 0 {
		return nil, err
	}
	return v, nil
}

func (s *Store) SetPINHash(ctx context.Context, hash []byte) error {
	return s.repo.Set(ctx, KeyBiometricPINHash, hash)
}

// CacheUser stores the profile fields of u. The token is never written.
func (s *Store) CacheUser(ctx context.Context, u *models.User) error {
	pairs := []struct {
		key   string
		value string
	}{
		{KeyUserID, u.ID},
		{KeyUserName, u.Name},
		{KeyUserEmail, u.Email},
		{KeyNotificationsEnabled, strconv.FormatBool(u.NotificationEnabled)},
		{KeyDarkModeEnabled, strconv.FormatBool(u.Theme == models.ThemeDark)},
		{KeyDefaultStudyDuration, strconv.Itoa(u.DefaultStudyDuration)},
	}
	for _, p := range pairs {
		if err := s.repo.Set(ctx, p.key, []byte(p.value)); err != nil {
			return err
		}
	}
	return nil
}

// CachedUser rebuilds the last cached profile. It returns nil when no
// profile is cached. The returned user has no token.
func (s *Store) CachedUser(ctx context.Context) (*models.User, error) {
	email, err := s.getString(ctx, KeyUserEmail)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, nil
	}

	u := &models.User{Email: email}
	if u.ID, err = s.getString(ctx, KeyUserID); err != nil {
		return nil, err
	}
	if u.Name, err = s.getString(ctx, KeyUserName); err != nil {
		return nil, err
	}
	if u.NotificationEnabled, err = s.NotificationsEnabled(ctx); err != nil {
		return nil, err
	}
	dark, err := s.DarkModeEnabled(ctx)
	if err != nil {
		return nil, err
	}
	u.Theme = models.ThemeLight
	if dark {
		u.Theme = models.ThemeDark
	}
	if u.DefaultStudyDuration, err = s.DefaultStudyDuration(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// ClearUser forgets the cached identity. Preferences are kept.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyUserID, KeyUserName, KeyUserEmail)
}
