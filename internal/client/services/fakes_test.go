package services

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/credentials"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/studyplanner/internal/client/settings"
	"github.com/stretchr/testify/require"
)

// ---- local storage ----

type testEnv struct {
	settings *settings.Store
	creds    *credentials.Store
	tasks    *tasks.SQLiteRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "sp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sealed := secrets.NewSealedStore(secrets.NewSQLiteRepository(db), []byte("0123456789abcdef0123456789abcdef"))
	return &testEnv{
		settings: settings.NewStore(metadata.NewSQLiteRepository(db)),
		creds:    credentials.NewStore(sealed, nil),
		tasks:    tasks.NewSQLiteRepository(db),
	}
}

// ---- fake client ----

// fakeClient implements client.Client and counts every call.
type fakeClient struct {
	mu    sync.Mutex
	calls atomic.Int32

	LoginRet *models.User
	LoginErr error
	// LoginGate, when set, blocks Login until it is closed.
	LoginGate chan struct{}
	// LoginStarted is closed when Login is entered.
	LoginStarted chan struct{}

	RegisterRet *models.User
	RegisterErr error

	IdentityRet *models.User
	IdentityErr error

	OTPRet    *models.OTPResponse
	VerifyRet *models.VerifyOTPResponse
	ResetRet  *models.ResetPasswordResponse
	ResetErr  error

	MeRet *models.User
	MeErr error

	PrefsErr    error
	DurationErr error

	NextRet      *models.StudySession
	NextErr      error
	ProgressRet  []models.DayProgress
	StartErr     error
	EndErr       error
	NotesRet     []models.Notification
	NotesErr     error
	ReadErr      error
	ClearErr     error
	LastTaskID   string
	LastStudy    time.Duration
	LastNoteID   string
	EndCalls     int
	ClearedCalls int

	LastEmail, LastPassword, LastName string
	LastToken                         string
	LastIdentityToken                 string
	LastPrefs                         *models.Preferences
	LastDuration                      int
}

func (f *fakeClient) record(fn func()) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	f.record(func() { f.LastEmail, f.LastPassword = email, password })
	if f.LoginStarted != nil {
		close(f.LoginStarted)
	}
	if f.LoginGate != nil {
		<-f.LoginGate
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	f.record(func() { f.LastEmail, f.LastPassword, f.LastName = email, password, name })
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) RegisterWithIdentity(ctx context.Context, identityToken string, profile *models.IdentityProfile) (*models.User, error) {
	f.record(func() { f.LastIdentityToken = identityToken })
	return f.IdentityRet, f.IdentityErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) (*models.OTPResponse, error) {
	f.record(func() { f.LastEmail = email })
	return f.OTPRet, nil
}

func (f *fakeClient) VerifyOTP(ctx context.Context, otpID, otp string) (*models.VerifyOTPResponse, error) {
	f.record(func() {})
	return f.VerifyRet, nil
}

func (f *fakeClient) ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.ResetPasswordResponse, error) {
	f.record(func() { f.LastToken, f.LastPassword = resetToken, newPassword })
	return f.ResetRet, f.ResetErr
}

func (f *fakeClient) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	f.record(func() { f.LastToken = token })
	if f.MeRet == nil {
		return nil, f.MeErr
	}
	u := *f.MeRet
	u.Token = token
	return &u, f.MeErr
}

func (f *fakeClient) UpdatePreferences(ctx context.Context, token string, prefs models.Preferences) error {
	f.record(func() { f.LastToken, f.LastPrefs = token, &prefs })
	return f.PrefsErr
}

func (f *fakeClient) UpdateStudyDuration(ctx context.Context, token string, seconds int) error {
	f.record(func() { f.LastToken, f.LastDuration = token, seconds })
	return f.DurationErr
}

func (f *fakeClient) NextSession(ctx context.Context, token string) (*models.StudySession, error) {
	f.record(func() { f.LastToken = token })
	return f.NextRet, f.NextErr
}

func (f *fakeClient) WeeklyProgress(ctx context.Context, token string) ([]models.DayProgress, error) {
	f.record(func() { f.LastToken = token })
	return f.ProgressRet, nil
}

func (f *fakeClient) StartSession(ctx context.Context, token, taskID string, d time.Duration) error {
	f.record(func() { f.LastToken, f.LastTaskID, f.LastStudy = token, taskID, d })
	return f.StartErr
}

func (f *fakeClient) EndCurrentSession(ctx context.Context, token string) error {
	f.record(func() { f.LastToken = token; f.EndCalls++ })
	return f.EndErr
}

func (f *fakeClient) RecentNotifications(ctx context.Context, token string) ([]models.Notification, error) {
	f.record(func() { f.LastToken = token })
	return slices.Clone(f.NotesRet), f.NotesErr
}

func (f *fakeClient) MarkNotificationRead(ctx context.Context, token, id string) error {
	f.record(func() { f.LastToken, f.LastNoteID = token, id })
	return f.ReadErr
}

func (f *fakeClient) ClearNotifications(ctx context.Context, token string) error {
	f.record(func() { f.LastToken = token; f.ClearedCalls++ })
	return f.ClearErr
}

var _ client.Client = (*fakeClient)(nil)

// ---- fake biometrics ----

type fakeBiometric struct {
	Err   error
	calls int
}

func (f *fakeBiometric) Authenticate(ctx context.Context, reason string) error {
	f.calls++
	return f.Err
}

// ---- failing credential store ----

type brokenCreds struct {
	SaveErr error
}

func (b *brokenCreds) Save(context.Context, string, string) error { return b.SaveErr }

func (b *brokenCreds) Get(context.Context) credentials.Credentials { return credentials.Credentials{} }

func (b *brokenCreds) Delete(context.Context) {}

func testUser() *models.User {
	return &models.User{
		ID:                   "u1",
		Email:                "user@test.com",
		Name:                 "U",
		Token:                "t1",
		NotificationEnabled:  true,
		Theme:                models.ThemeLight,
		DefaultStudyDuration: 3600,
	}
}
