package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// Profile is the locally known account and preference data.
type Profile struct {
	Name                 string
	Email                string
	NotificationsEnabled bool
	DarkMode             bool
	DefaultStudyDuration int
}

// ProfileSettings is the subset of settings.Store used for preferences.
type ProfileSettings interface {
	NotificationsEnabled(ctx context.Context) (bool, error)
	SetNotificationsEnabled(ctx context.Context, v bool) error
	DarkModeEnabled(ctx context.Context) (bool, error)
	SetDarkModeEnabled(ctx context.Context, v bool) error
	DefaultStudyDuration(ctx context.Context) (int, error)
	SetDefaultStudyDuration(ctx context.Context, seconds int) error
	CachedUser(ctx context.Context) (*models.User, error)
	CacheUser(ctx context.Context, u *models.User) error
}

// Session is what the profile service needs from SessionManager.
type Session interface {
	Token() string
	CurrentUser() *models.User
	UpdateUser(u *models.User) error
}

// ProfileService changes preferences locally first and then pushes them
// to the backend when a live token is available. A failed push is
// returned but the local change is kept.
type ProfileService interface {
	Load(ctx context.Context) (Profile, error)
	SetNotifications(ctx context.Context, enabled bool) error
	SetDarkMode(ctx context.Context, enabled bool) error
	// SetDefaultStudyDuration takes seconds.
	SetDefaultStudyDuration(ctx context.Context, seconds int) error
	// Refresh reloads the profile from the backend.
	Refresh(ctx context.Context) (*models.User, error)
}

type profileService struct {
	client   client.Client
	settings ProfileSettings
	session  Session
}

func NewProfileService(c client.Client, st ProfileSettings, s Session) ProfileService {
	return &profileService{client: c, settings: st, session: s}
}

func (p *profileService) Load(ctx context.Context) (Profile, error) {
	var out Profile
	var err error

	if out.NotificationsEnabled, err = p.settings.NotificationsEnabled(ctx); err != nil {
		return Profile{}, persistence("load preferences", err)
	}
	if out.DarkMode, err = p.settings.DarkModeEnabled(ctx); err != nil {
		return Profile{}, persistence("load preferences", err)
	}
	if out.DefaultStudyDuration, err = p.settings.DefaultStudyDuration(ctx); err != nil {
		return Profile{}, persistence("load preferences", err)
	}

	u, err := p.settings.CachedUser(ctx)
	if err != nil {
		return Profile{}, persistence("load profile", err)
	}
	if u != nil {
		out.Name, out.Email = u.Name, u.Email
	}
	return out, nil
}

func (p *profileService) SetNotifications(ctx context.Context, enabled bool) error {
	if err := p.settings.SetNotificationsEnabled(ctx, enabled); err != nil {
		return persistence("save notifications", err)
	}
	p.patchUser(func(u *models.User) { u.NotificationEnabled = enabled })
	return p.pushPreferences(ctx)
}

func (p *profileService) SetDarkMode(ctx context.Context, enabled bool) error {
	if err := p.settings.SetDarkModeEnabled(ctx, enabled); err != nil {
		return persistence("save theme", err)
	}
	p.patchUser(func(u *models.User) { u.Theme = themeOf(enabled) })
	return p.pushPreferences(ctx)
}

func (p *profileService) SetDefaultStudyDuration(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return invalid("Study duration must be positive")
	}
	if err := p.settings.SetDefaultStudyDuration(ctx, seconds); err != nil {
		return persistence("save study duration", err)
	}
	p.patchUser(func(u *models.User) { u.DefaultStudyDuration = seconds })

	token := p.session.Token()
	if token == "" {
		return nil
	}
	if err := p.client.UpdateStudyDuration(ctx, token, seconds); err != nil {
		return fmt.Errorf("sync study duration: %w", err)
	}
	return nil
}

func (p *profileService) Refresh(ctx context.Context) (*models.User, error) {
	token := p.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	u, err := p.client.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := p.settings.CacheUser(ctx, u); err != nil {
		return nil, persistence("cache profile", err)
	}
	if err := p.session.UpdateUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (p *profileService) pushPreferences(ctx context.Context) error {
	token := p.session.Token()
	if token == "" {
		return nil
	}

	notify, err := p.settings.NotificationsEnabled(ctx)
	if err != nil {
		return persistence("load preferences", err)
	}
	dark, err := p.settings.DarkModeEnabled(ctx)
	if err != nil {
		return persistence("load preferences", err)
	}

	prefs := models.Preferences{NotificationsEnabled: notify, Theme: themeOf(dark)}
	if err := p.client.UpdatePreferences(ctx, token, prefs); err != nil {
		return fmt.Errorf("sync preferences: %w", err)
	}
	return nil
}

// patchUser applies fn to a copy of the session user, if any.
func (p *profileService) patchUser(fn func(u *models.User)) {
	u := p.session.CurrentUser()
	if u == nil {
		return
	}
	fn(u)
	_ = p.session.UpdateUser(u)
}

func themeOf(dark bool) models.Theme {
	if dark {
		return models.ThemeDark
	}
	return models.ThemeLight
}
