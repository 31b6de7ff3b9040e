package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// Client talks to the authentication service and the user-data service.
// Each call is exactly one HTTP round trip; nothing is retried or cached.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	RegisterWithIdentity(ctx context.Context, identityToken string, profile *models.IdentityProfile) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) (*models.OTPResponse, error)
	VerifyOTP(ctx context.Context, otpID, otp string) (*models.VerifyOTPResponse, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.ResetPasswordResponse, error)

	// CurrentUser returns the profile of the token owner. The returned user
	// carries the given token.
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	UpdatePreferences(ctx context.Context, token string, prefs models.Preferences) error

	// UpdateStudyDuration sets the default study session length in seconds.
	UpdateStudyDuration(ctx context.Context, token string, seconds int) error

	// NextSession returns nil when nothing is scheduled.
	NextSession(ctx context.Context, token string) (*models.StudySession, error)
	WeeklyProgress(ctx context.Context, token string) ([]models.DayProgress, error)
	StartSession(ctx context.Context, token, taskID string, d time.Duration) error
	EndCurrentSession(ctx context.Context, token string) error

	RecentNotifications(ctx context.Context, token string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, token, id string) error
	ClearNotifications(ctx context.Context, token string) error
}
