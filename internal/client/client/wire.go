package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// Request bodies. Field names follow the backend's snake_case.

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type identityRequest struct {
	IdentityToken string                  `json:"identity_token"`
	User          *models.IdentityProfile `json:"user,omitempty"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	OTPID string `json:"otp_id"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

type studyDurationRequest struct {
	DefaultDuration int `json:"default_duration"`
}

type startSessionRequest struct {
	TaskID string `json:"task_id"`
	// Duration is in seconds.
	Duration float64 `json:"duration"`
}

// wireUser accepts both snake_case and the older camelCase spelling of the
// optional profile fields.
type wireUser struct {
	ID    *string `json:"id"`
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Token *string `json:"token"`

	NotificationEnabled      *bool `json:"notification_enabled"`
	NotificationEnabledCamel *bool `json:"notificationEnabled"`

	Theme *string `json:"theme"`

	DefaultStudyDuration      *float64 `json:"default_study_duration"`
	DefaultStudyDurationCamel *float64 `json:"defaultStudyDuration"`
}

type authResponse struct {
	User  *wireUser `json:"user"`
	Token *string   `json:"token"`
}

// decodeAuthUser decodes {"user": {...}, "token": "..."}. The token may sit
// inside the user object or next to it; the nested one wins.
func decodeAuthUser(body []byte) (*models.User, error) {
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("missing field user")
	}
	if resp.User.Token == nil {
		resp.User.Token = resp.Token
	}
	return resp.User.toModel(true)
}

// decodeBareUser decodes the user object returned by /users/me.
func decodeBareUser(body []byte) (*models.User, error) {
	var w wireUser
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, err
	}
	return w.toModel(false)
}

func (w *wireUser) toModel(requireToken bool) (*models.User, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"id", w.ID},
		{"email", w.Email},
		{"name", w.Name},
	}
	if requireToken {
		required = append(required, struct {
			name  string
			value *string
		}{"token", w.Token})
	}
	for _, f := range required {
		if f.value == nil {
			return nil, fmt.Errorf("missing field %s", f.name)
		}
	}

	u := &models.User{
		ID:                   *w.ID,
		Email:                *w.Email,
		Name:                 *w.Name,
		NotificationEnabled:  true,
		Theme:                models.ThemeLight,
		DefaultStudyDuration: models.DefaultStudyDuration,
	}
	if w.Token != nil {
		u.Token = *w.Token
	}

	switch {
	case w.NotificationEnabled != nil:
		u.NotificationEnabled = *w.NotificationEnabled
	case w.NotificationEnabledCamel != nil:
		u.NotificationEnabled = *w.NotificationEnabledCamel
	}

	if w.Theme != nil {
		if th, err := models.ParseTheme(*w.Theme); err == nil {
			u.Theme = th
		}
	}

	d := w.DefaultStudyDuration
	if d == nil {
		d = w.DefaultStudyDurationCamel
	}
	if d != nil {
		if r := math.Round(*d); r > 0 && r <= math.MaxInt32 {
			u.DefaultStudyDuration = int(r)
		}
	}

	return u, nil
}

type wireSession struct {
	ID        *string    `json:"id"`
	SessionID *string    `json:"session_id"`
	TaskID    *string    `json:"task_id"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *float64   `json:"duration"`
}

// decodeNextSession decodes the upcoming session. A JSON null means there
// is nothing scheduled and yields a nil session.
func decodeNextSession(body []byte) (*models.StudySession, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, nil
	}
	var w wireSession
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, err
	}
	id := w.SessionID
	if id == nil {
		id = w.ID
	}
	if id == nil {
		return nil, fmt.Errorf("missing field session_id")
	}
	if w.TaskID == nil {
		return nil, fmt.Errorf("missing field task_id")
	}

	s := &models.StudySession{ID: *id, TaskID: *w.TaskID}
	if w.StartTime != nil {
		s.StartTime = *w.StartTime
	}
	if w.EndTime != nil {
		s.EndTime = *w.EndTime
	}
	if w.Duration != nil && *w.Duration > 0 {
		s.Duration = time.Duration(*w.Duration * float64(time.Second))
	} else if !s.StartTime.IsZero() && s.EndTime.After(s.StartTime) {
		s.Duration = s.EndTime.Sub(s.StartTime)
	}
	return s, nil
}

type wireProgress struct {
	Day   *string  `json:"day"`
	Hours *float64 `json:"hours"`
}

func decodeWeeklyProgress(body []byte) (*[]models.DayProgress, error) {
	var ws []wireProgress
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, err
	}
	out := make([]models.DayProgress, 0, len(ws))
	for i, w := range ws {
		if w.Day == nil || w.Hours == nil {
			return nil, fmt.Errorf("progress entry %d: missing day or hours", i)
		}
		out = append(out, models.DayProgress{Day: *w.Day, Hours: *w.Hours})
	}
	return &out, nil
}

type wireNotification struct {
	ID          *string         `json:"id"`
	Message     *string         `json:"message"`
	Timestamp   json.RawMessage `json:"timestamp"`
	IsRead      *bool           `json:"is_read"`
	IsReadCamel *bool           `json:"isRead"`
	Type        json.RawMessage `json:"type"`
}

// wireNotificationType is the tagged form {"type": "...", "customValue": "..."}.
type wireNotificationType struct {
	Type        string `json:"type"`
	CustomValue string `json:"customValue"`
}

func decodeNotifications(body []byte) (*[]models.Notification, error) {
	var ws []wireNotification
	if err := json.Unmarshal(body, &ws); err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(ws))
	for i := range ws {
		n, err := ws[i].toModel()
		if err != nil {
			return nil, fmt.Errorf("notification %d: %w", i, err)
		}
		out = append(out, n)
	}
	return &out, nil
}

func (w *wireNotification) toModel() (models.Notification, error) {
	if w.ID == nil {
		return models.Notification{}, fmt.Errorf("missing field id")
	}
	if w.Message == nil {
		return models.Notification{}, fmt.Errorf("missing field message")
	}

	n := models.Notification{ID: *w.ID, Message: *w.Message, Type: models.NotificationCustom}
	switch {
	case w.IsRead != nil:
		n.IsRead = *w.IsRead
	case w.IsReadCamel != nil:
		n.IsRead = *w.IsReadCamel
	}

	ts, err := parseWireTime(w.Timestamp)
	if err != nil {
		return models.Notification{}, fmt.Errorf("timestamp: %w", err)
	}
	n.Timestamp = ts

	var tagged wireNotificationType
	var plain string
	switch {
	case len(w.Type) == 0 || string(w.Type) == "null":
	case json.Unmarshal(w.Type, &plain) == nil:
		tagged.Type = plain
	case json.Unmarshal(w.Type, &tagged) == nil:
	default:
		return models.Notification{}, fmt.Errorf("unrecognised type %s", w.Type)
	}
	if t := models.NotificationType(tagged.Type); t.Known() {
		n.Type = t
		if t == models.NotificationCustom {
			n.Custom = tagged.CustomValue
		}
	} else {
		n.Custom = tagged.Type
	}
	return n, nil
}

// parseWireTime accepts an RFC 3339 string or Unix seconds. A missing
// value yields the zero time.
func parseWireTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return time.Parse(time.RFC3339, s)
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, err
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}
