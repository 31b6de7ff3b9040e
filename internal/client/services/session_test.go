package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/studyplanner/internal/client/biometric"
	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/credentials"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, fc *fakeClient, bio biometric.Authenticator) (*SessionManager, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewSessionManager(fc, env.creds, env.settings, bio, nil), env
}

func TestLogin_Success(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, env := newSession(t, fc, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "user@test.com", "secret123"))

	snap := m.Snapshot()
	assert.Equal(t, Authenticated, snap.State)
	assert.Equal(t, "user@test.com", snap.User.Email)
	assert.Equal(t, "t1", m.Token())
	assert.Equal(t, "u1", m.UserID())

	flag, err := env.settings.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, flag)

	assert.Equal(t, credentials.Credentials{Email: "user@test.com", Password: "secret123"}, env.creds.Get(ctx))

	cached, err := env.settings.CachedUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "U", cached.Name)
	assert.Empty(t, cached.Token)
}

func TestLogin_ValidationShortCircuits(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, _ := newSession(t, fc, nil)

	for _, in := range [][2]string{{"", "secret123"}, {"user@test.com", ""}, {"", ""}} {
		err := m.Login(context.Background(), in[0], in[1])
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Please enter both email and password", UserMessage(err))
	}
	assert.Equal(t, Unauthenticated, m.State())
	assert.Zero(t, fc.calls.Load())
}

func TestLogin_StatusErrorsLeaveUnauthenticated(t *testing.T) {
	kinds := []struct {
		status int
		kind   error
		msg    string
	}{
		{400, client.ErrBadRequest, "Bad request"},
		{401, client.ErrUnauthorized, "Unauthorized"},
		{403, client.ErrForbidden, "Forbidden"},
		{404, client.ErrNotFound, "Resource not found"},
		{500, client.ErrServer, "Server error"},
		{599, client.ErrServer, "Server error"},
	}

	for _, k := range kinds {
		fc := &fakeClient{LoginErr: &client.APIError{Kind: k.kind, StatusCode: k.status}}
		m, env := newSession(t, fc, nil)
		ctx := context.Background()

		require.NoError(t, env.settings.SetAuthenticated(ctx, true))

		err := m.Login(ctx, "user@test.com", "secret123")
		require.ErrorIs(t, err, k.kind)
		assert.Equal(t, k.msg, UserMessage(err))
		assert.Equal(t, Unauthenticated, m.State())
		assert.Nil(t, m.CurrentUser())

		flag, ferr := env.settings.IsAuthenticated(ctx)
		require.NoError(t, ferr)
		assert.False(t, flag)
	}
}

func TestLogin_CredentialSaveFailureDoesNotAbort(t *testing.T) {
	env := newTestEnv(t)
	fc := &fakeClient{LoginRet: testUser()}
	m := NewSessionManager(fc, &brokenCreds{SaveErr: errors.New("secret store locked")}, env.settings, nil, nil)

	require.NoError(t, m.Login(context.Background(), "user@test.com", "secret123"))
	assert.True(t, m.IsAuthenticated())
}

func TestRegister_Validation(t *testing.T) {
	valid := RegisterInput{Name: "U", Email: "user@test.com", Password: "secret123", ConfirmPassword: "secret123"}

	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
		msg    string
	}{
		{"blank name", func(in *RegisterInput) { in.Name = "   " }, "Please enter your full name"},
		{"bad email", func(in *RegisterInput) { in.Email = "user@test" }, "Please enter a valid email address"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "12345", "12345" }, "Password must be at least 6 characters long"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "secret124" }, "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{}
			m, _ := newSession(t, fc, nil)
			in := valid
			tt.mutate(&in)

			err := m.Register(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.msg, UserMessage(err))
			assert.Zero(t, fc.calls.Load())
		})
	}
}

func TestRegister_Success(t *testing.T) {
	fc := &fakeClient{RegisterRet: testUser()}
	m, env := newSession(t, fc, nil)
	ctx := context.Background()

	err := m.Register(ctx, RegisterInput{Name: " U ", Email: "user@test.com", Password: "secret123", ConfirmPassword: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "U", fc.LastName)
	assert.True(t, m.IsAuthenticated())
	assert.True(t, env.creds.Get(ctx).Complete())
}

func TestSignInWithIdentity(t *testing.T) {
	fc := &fakeClient{IdentityRet: testUser()}
	m, env := newSession(t, fc, nil)
	m.newPlaceholder = func() string { return "placeholder-uuid" }
	ctx := context.Background()

	require.ErrorIs(t, m.SignInWithIdentity(ctx, "", nil), ErrValidation)
	assert.Zero(t, fc.calls.Load())

	email := "relay@privaterelay.test"
	require.NoError(t, m.SignInWithIdentity(ctx, "id-token", &models.IdentityProfile{Email: &email}))
	assert.Equal(t, "id-token", fc.LastIdentityToken)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, credentials.Credentials{Email: email, Password: "placeholder-uuid"}, env.creds.Get(ctx))
}

func TestSignInWithIdentity_Failure(t *testing.T) {
	fc := &fakeClient{IdentityErr: &client.APIError{Kind: client.ErrServer, StatusCode: 502}}
	m, _ := newSession(t, fc, nil)

	err := m.SignInWithIdentity(context.Background(), "id-token", nil)
	require.ErrorIs(t, err, client.ErrServer)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestSignInWithBiometrics_NoStoredCredentials(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	bio := &fakeBiometric{}
	m, _ := newSession(t, fc, bio)

	err := m.SignInWithBiometrics(context.Background())
	require.ErrorIs(t, err, ErrNoStoredCredentials)
	assert.Equal(t, "No stored credentials found", UserMessage(err))
	assert.Equal(t, 1, bio.calls)
	assert.Zero(t, fc.calls.Load())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestSignInWithBiometrics_Denied(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, env := newSession(t, fc, &fakeBiometric{Err: biometric.ErrFailed})
	ctx := context.Background()
	require.NoError(t, env.creds.Save(ctx, "user@test.com", "secret123"))

	err := m.SignInWithBiometrics(ctx)
	require.ErrorIs(t, err, ErrBiometricAuthFailed)

	var be *BiometricError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Authentication failed", be.Reason)
	assert.Zero(t, fc.calls.Load())
	assert.Equal(t, Unauthenticated, m.State())
}

func TestSignInWithBiometrics_Unavailable(t *testing.T) {
	m, _ := newSession(t, &fakeClient{}, nil)

	err := m.SignInWithBiometrics(context.Background())
	require.ErrorIs(t, err, ErrBiometricAuthFailed)
	require.ErrorIs(t, err, biometric.ErrNotAvailable)
	assert.Equal(t, "Biometric authentication not available", UserMessage(err))
}

func TestSignInWithBiometrics_ReplaysStoredCredentials(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, env := newSession(t, fc, &fakeBiometric{})
	ctx := context.Background()
	require.NoError(t, env.creds.Save(ctx, "user@test.com", "secret123"))

	require.NoError(t, m.SignInWithBiometrics(ctx))
	assert.Equal(t, "user@test.com", fc.LastEmail)
	assert.Equal(t, "secret123", fc.LastPassword)
	assert.True(t, m.IsAuthenticated())
}

func TestSignIn_SingleFlight(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     testUser(),
		LoginGate:    make(chan struct{}),
		LoginStarted: make(chan struct{}),
	}
	m, _ := newSession(t, fc, &fakeBiometric{})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- m.Login(ctx, "user@test.com", "secret123") }()
	<-fc.LoginStarted

	assert.Equal(t, Authenticating, m.State())
	require.ErrorIs(t, m.Login(ctx, "other@test.com", "secret123"), ErrAuthInProgress)
	require.ErrorIs(t, m.SignInWithBiometrics(ctx), ErrAuthInProgress)

	close(fc.LoginGate)
	require.NoError(t, <-done)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, int32(1), fc.calls.Load())
}

func TestLogout_SupersedesSignInInFlight(t *testing.T) {
	fc := &fakeClient{
		LoginRet:     testUser(),
		LoginGate:    make(chan struct{}),
		LoginStarted: make(chan struct{}),
	}
	m, env := newSession(t, fc, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- m.Login(ctx, "user@test.com", "secret123") }()
	<-fc.LoginStarted

	m.Logout(ctx)
	assert.Equal(t, Unauthenticated, m.State())
	require.ErrorIs(t, m.Login(ctx, "other@test.com", "secret123"), ErrAuthInProgress,
		"the first attempt still owns the in-flight slot")

	close(fc.LoginGate)
	err := <-done
	require.ErrorIs(t, err, ErrSignInCancelled)
	assert.Equal(t, "Signed out before the sign-in finished", UserMessage(err))

	assert.Equal(t, Unauthenticated, m.State())
	flag, err := env.settings.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, flag)
	assert.False(t, env.creds.Get(ctx).Complete())
	cached, err := env.settings.CachedUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	fc.LoginStarted = nil
	require.NoError(t, m.Login(ctx, "user@test.com", "secret123"))
	assert.True(t, m.IsAuthenticated())
}

func TestLogout_SupersedesFailedSignIn(t *testing.T) {
	fc := &fakeClient{
		LoginErr:     &client.APIError{Kind: client.ErrServer, StatusCode: 500},
		LoginGate:    make(chan struct{}),
		LoginStarted: make(chan struct{}),
	}
	m, _ := newSession(t, fc, nil)
	ctx := context.Background()

	var seen []State
	m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	done := make(chan error, 1)
	go func() { done <- m.Login(ctx, "user@test.com", "secret123") }()
	<-fc.LoginStarted
	m.Logout(ctx)
	close(fc.LoginGate)

	require.ErrorIs(t, <-done, client.ErrServer)
	assert.Equal(t, []State{Authenticating, Unauthenticated}, seen, "no state change after logout")
}

func TestSubscribe(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, _ := newSession(t, fc, nil)
	ctx := context.Background()

	var seen []State
	cancel := m.Subscribe(func(s Snapshot) { seen = append(seen, s.State) })

	require.NoError(t, m.Login(ctx, "user@test.com", "secret123"))
	assert.Equal(t, []State{Authenticating, Authenticated}, seen)

	cancel()
	m.Logout(ctx)
	assert.Len(t, seen, 2)
}

func TestRestore(t *testing.T) {
	fc := &fakeClient{}
	m, env := newSession(t, fc, nil)
	ctx := context.Background()

	c := m.Restore(ctx)
	assert.False(t, c.Complete())
	assert.Equal(t, Unauthenticated, m.State())

	require.NoError(t, env.settings.CacheUser(ctx, testUser()))
	require.NoError(t, env.settings.SetAuthenticated(ctx, true))
	require.NoError(t, env.creds.Save(ctx, "user@test.com", "secret123"))

	c = m.Restore(ctx)
	assert.Equal(t, credentials.Credentials{Email: "user@test.com", Password: "secret123"}, c)
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, "user@test.com", m.CurrentUser().Email)
	assert.Empty(t, m.Token())
	assert.Zero(t, fc.calls.Load())
}

func TestLogout(t *testing.T) {
	fc := &fakeClient{LoginRet: testUser()}
	m, env := newSession(t, fc, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "user@test.com", "secret123"))
	calls := fc.calls.Load()

	m.Logout(ctx)
	assert.Equal(t, Unauthenticated, m.State())
	assert.Equal(t, calls, fc.calls.Load())

	flag, _ := env.settings.IsAuthenticated(ctx)
	assert.False(t, flag)
	assert.Equal(t, credentials.Credentials{}, env.creds.Get(ctx))
	cached, _ := env.settings.CachedUser(ctx)
	assert.Nil(t, cached)
}

func TestUpdateUser_RequiresSession(t *testing.T) {
	m, _ := newSession(t, &fakeClient{}, nil)
	require.ErrorIs(t, m.UpdateUser(testUser()), ErrNotAuthenticated)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Authentication already in progress", UserMessage(ErrAuthInProgress))
	assert.Equal(t, "Could not save changes on this device", UserMessage(persistence("x", errors.New("disk"))))
	assert.Equal(t, "Network error, check your connection", UserMessage(&client.APIError{Kind: client.ErrNetwork}))
	assert.Equal(t, "Authentication failed", UserMessage(&BiometricError{}))
}
