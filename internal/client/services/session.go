package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studyplanner/internal/client/biometric"
	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/credentials"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/logging"
	"github.com/google/uuid"
)

// State of a SessionManager.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Snapshot is a consistent view of the session. User is nil unless State
// is Authenticated.
type Snapshot struct {
	State State
	User  *models.User
}

// CredentialStore is the subset of credentials.Store used by the session.
type CredentialStore interface {
	Save(ctx context.Context, email, password string) error
	Get(ctx context.Context) credentials.Credentials
	Delete(ctx context.Context)
}

// SessionSettings is the subset of settings.Store used by the session.
type SessionSettings interface {
	IsAuthenticated(ctx context.Context) (bool, error)
	SetAuthenticated(ctx context.Context, v bool) error
	CacheUser(ctx context.Context, u *models.User) error
	CachedUser(ctx context.Context) (*models.User, error)
	ClearUser(ctx context.Context) error
}

// RegisterInput is what the registration form collects.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

const biometricReason = "Log in to your account"

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// SessionManager owns the authentication state. At most one sign-in runs
// at a time; a second one fails with ErrAuthInProgress.
type SessionManager struct {
	client   client.Client
	creds    CredentialStore
	settings SessionSettings
	bio      biometric.Authenticator
	log      logging.Logger

	newPlaceholder func() string

	// persistMu orders the writes of finish and Logout.
	persistMu sync.Mutex

	mu        sync.Mutex
	state     State
	user      *models.User
	inflight  bool
	epoch     uint64
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewSessionManager wires a session. bio may be nil when the device has no
// authenticator; biometric sign-in then always fails.
func NewSessionManager(c client.Client, creds CredentialStore, st SessionSettings, bio biometric.Authenticator, log logging.Logger) *SessionManager {
	if log == nil {
		log = logging.NewNop()
	}
	return &SessionManager{
		client:         c,
		creds:          creds,
		settings:       st,
		bio:            bio,
		log:            log,
		newPlaceholder: uuid.NewString,
		observers:      map[int]func(Snapshot){},
	}
}

// Snapshot returns the current state and user together.
func (m *SessionManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *SessionManager) snapshotLocked() Snapshot {
	s := Snapshot{State: m.state}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *SessionManager) State() State { return m.Snapshot().State }

func (m *SessionManager) CurrentUser() *models.User { return m.Snapshot().User }

func (m *SessionManager) IsAuthenticated() bool { return m.State() == Authenticated }

// Token is the live session token, or "" when there is none.
func (m *SessionManager) Token() string {
	if u := m.CurrentUser(); u != nil {
		return u.Token
	}
	return ""
}

// UserID is the signed-in user's id, or "" when signed out.
func (m *SessionManager) UserID() string {
	if s := m.Snapshot(); s.State == Authenticated && s.User != nil {
		return s.User.ID
	}
	return ""
}

// Subscribe registers fn for every state change. fn runs outside the
// session lock on the goroutine that made the change.
func (m *SessionManager) Subscribe(fn func(Snapshot)) (cancel func()) {
	m.mu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// setLocked changes the state and returns the notifications to deliver
// once the lock is released.
func (m *SessionManager) setLocked(state State, user *models.User) func() {
	m.state = state
	m.user = user
	snap := m.snapshotLocked()

	fns := make([]func(Snapshot), 0, len(m.observers))
	for _, fn := range m.observers {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (m *SessionManager) set(state State, user *models.User) {
	m.mu.Lock()
	notify := m.setLocked(state, user)
	m.mu.Unlock()
	notify()
}

// transition is one sign-in attempt started by begin.
type transition struct {
	epoch uint64
	prev  Snapshot
}

// begin moves to Authenticating. It fails while another attempt is still
// running, even when Logout already reset the visible state.
func (m *SessionManager) begin() (transition, error) {
	m.mu.Lock()
	if m.inflight {
		m.mu.Unlock()
		return transition{}, ErrAuthInProgress
	}
	m.inflight = true
	m.epoch++
	tr := transition{epoch: m.epoch, prev: m.snapshotLocked()}
	notify := m.setLocked(Authenticating, nil)
	m.mu.Unlock()
	notify()
	return tr, nil
}

// end releases the in-flight slot. It reports false when Logout ran since
// begin; the caller must then leave state and storage alone.
func (m *SessionManager) end(tr transition, state State, user *models.User) bool {
	m.mu.Lock()
	m.inflight = false
	if m.epoch != tr.epoch {
		m.mu.Unlock()
		return false
	}
	notify := m.setLocked(state, user)
	m.mu.Unlock()
	notify()
	return true
}

func (m *SessionManager) current(tr transition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch == tr.epoch
}

func (m *SessionManager) rollback(tr transition) {
	m.end(tr, tr.prev.State, tr.prev.User)
}

// Restore loads the persisted session at startup. It returns the stored
// credentials so a login form can be pre-filled; they never change state.
func (m *SessionManager) Restore(ctx context.Context) credentials.Credentials {
	flag, err := m.settings.IsAuthenticated(ctx)
	if err != nil {
		m.log.Warn(ctx, "read authentication flag", "error", err)
	}

	if flag {
		u, err := m.settings.CachedUser(ctx)
		switch {
		case err != nil:
			m.log.Warn(ctx, "read cached profile", "error", err)
		case u == nil:
			m.log.Warn(ctx, "authentication flag set without a cached profile")
		default:
			m.set(Authenticated, u)
		}
	}

	return m.creds.Get(ctx)
}

func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return invalid("Please enter both email and password")
	}
	tr, err := m.begin()
	if err != nil {
		return err
	}

	u, err := m.client.Login(ctx, email, password)
	return m.finish(ctx, tr, u, err, email, password)
}

func (m *SessionManager) Register(ctx context.Context, in RegisterInput) error {
	if err := validateRegistration(in); err != nil {
		return err
	}
	tr, err := m.begin()
	if err != nil {
		return err
	}

	u, err := m.client.Register(ctx, in.Email, in.Password, strings.TrimSpace(in.Name))
	return m.finish(ctx, tr, u, err, in.Email, in.Password)
}

func validateRegistration(in RegisterInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("Please enter your full name")
	case !emailPattern.MatchString(in.Email):
		return invalid("Please enter a valid email address")
	case len([]rune(in.Password)) < minPasswordLength:
		return invalid("Password must be at least 6 characters long")
	case in.Password != in.ConfirmPassword:
		return invalid("Passwords do not match")
	}
	return nil
}

// SignInWithIdentity exchanges a third-party identity token for a session.
// The stored password is a random placeholder since the user has none.
func (m *SessionManager) SignInWithIdentity(ctx context.Context, identityToken string, profile *models.IdentityProfile) error {
	if identityToken == "" {
		return invalid("Identity sign-in failed")
	}
	tr, err := m.begin()
	if err != nil {
		return err
	}

	u, err := m.client.RegisterWithIdentity(ctx, identityToken, profile)
	if err != nil {
		return m.finish(ctx, tr, nil, err, "", "")
	}

	email := u.Email
	if profile != nil && profile.Email != nil && *profile.Email != "" {
		email = *profile.Email
	}
	return m.finish(ctx, tr, u, nil, email, m.newPlaceholder())
}

// SignInWithBiometrics asks the authenticator for approval and replays the
// stored credentials. Without a complete stored pair no request is made.
func (m *SessionManager) SignInWithBiometrics(ctx context.Context) error {
	tr, err := m.begin()
	if err != nil {
		return err
	}

	if m.bio == nil {
		m.rollback(tr)
		return &BiometricError{Reason: "Biometric authentication not available", Err: biometric.ErrNotAvailable}
	}

	if err := m.bio.Authenticate(ctx, biometricReason); err != nil {
		m.rollback(tr)
		return &BiometricError{Reason: reasonOf(err), Err: err}
	}

	c := m.creds.Get(ctx)
	if !c.Complete() {
		m.rollback(tr)
		return ErrNoStoredCredentials
	}

	u, err := m.client.Login(ctx, c.Email, c.Password)
	return m.finish(ctx, tr, u, err, c.Email, c.Password)
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, biometric.ErrNotAvailable):
		return "Biometric authentication not available"
	case errors.Is(err, biometric.ErrFailed):
		return "Authentication failed"
	default:
		return err.Error()
	}
}

// finish completes a sign-in started with begin. A result that arrives
// after Logout is dropped without touching storage.
func (m *SessionManager) finish(ctx context.Context, tr transition, u *models.User, err error, email, password string) error {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	if !m.current(tr) {
		m.end(tr, Unauthenticated, nil)
		m.log.Info(ctx, "sign-in result dropped after logout")
		if err != nil {
			return err
		}
		return ErrSignInCancelled
	}

	if err != nil {
		if serr := m.settings.SetAuthenticated(ctx, false); serr != nil {
			m.log.Warn(ctx, "persist authentication flag", "error", serr)
		}
		m.end(tr, Unauthenticated, nil)
		m.log.Info(ctx, "sign-in failed", "error", err)
		return err
	}

	if serr := m.creds.Save(ctx, email, password); serr != nil {
		m.log.Warn(ctx, "save credentials", "error", serr)
	}
	if serr := m.settings.CacheUser(ctx, u); serr != nil {
		m.log.Warn(ctx, "cache profile", "error", serr)
	}
	if serr := m.settings.SetAuthenticated(ctx, true); serr != nil {
		m.log.Warn(ctx, "persist authentication flag", "error", serr)
	}

	m.end(tr, Authenticated, u)
	m.log.Info(ctx, "signed in", "user_id", u.ID)
	return nil
}

// Logout clears the session and everything persisted for it. It makes no
// network calls. A sign-in still in flight is superseded: its result is
// discarded when it arrives.
func (m *SessionManager) Logout(ctx context.Context) {
	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	m.epoch++
	notify := m.setLocked(Unauthenticated, nil)
	m.mu.Unlock()
	notify()

	if err := m.settings.SetAuthenticated(ctx, false); err != nil {
		m.log.Warn(ctx, "persist authentication flag", "error", err)
	}
	m.creds.Delete(ctx)
	if err := m.settings.ClearUser(ctx); err != nil {
		m.log.Warn(ctx, "clear cached profile", "error", err)
	}
}

// UpdateUser replaces the in-memory user while signed in.
func (m *SessionManager) UpdateUser(u *models.User) error {
	m.mu.Lock()
	if m.state != Authenticated {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	notify := m.setLocked(Authenticated, u)
	m.mu.Unlock()
	notify()
	return nil
}
