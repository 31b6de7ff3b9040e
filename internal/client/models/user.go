// Package models defines the client-side domain types of the study planner:
// the signed-in user, study tasks and the transient password-reset artefacts.
package models

import (
	"fmt"
	"strings"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultStudyDuration is the study session length, in seconds, assumed when
// the server does not send one.
const DefaultStudyDuration = 3600

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// User is the account returned by the authentication service.
//
// Token is the bearer token for the user-data service. It lives in memory
// only and is empty for a session restored from local settings.
// DefaultStudyDuration is in seconds.
type User struct {
	ID                   string
	Email                string
	Name                 string
	Token                string
	NotificationEnabled  bool
	Theme                Theme
	DefaultStudyDuration int
}

// HasToken reports whether the user carries a live bearer token.
func (u *User) HasToken() bool {
	return u != nil && u.Token != ""
}

// Preferences is the mutable part of the profile synced with the server.
type Preferences struct {
	NotificationsEnabled bool  `json:"notifications_enabled"`
	Theme                Theme `json:"theme"`
}

// IdentityProfile is the optional profile an identity provider hands over
// on first sign-in. Nil fields were not shared by the user.
type IdentityProfile struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// OTPResponse is returned by a password reset request.
type OTPResponse struct {
	Message string `json:"message"`
	OTPID   string `json:"otp_id"`
}

// VerifyOTPResponse carries the token that authorises the final reset step.
type VerifyOTPResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token"`
}

type ResetPasswordResponse struct {
	Message string `json:"message"`
}
