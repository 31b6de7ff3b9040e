package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/biometric"
	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/config"
	"github.com/dmitrijs2005/studyplanner/internal/client/credentials"
	"github.com/dmitrijs2005/studyplanner/internal/client/focus"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/secrets"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/studyplanner/internal/client/services"
	"github.com/dmitrijs2005/studyplanner/internal/client/settings"
	"github.com/dmitrijs2005/studyplanner/internal/cryptox"
	"github.com/dmitrijs2005/studyplanner/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *services.SessionManager
	tasks    services.TaskService
	profile  services.ProfileService
	recovery services.RecoveryService
	study    services.StudyService
	notices  services.NotificationService
	pin      *biometric.PINAuthenticator
	focus    *focus.Session
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens local storage and wires every service. Input is read from
// in and all user-facing output goes to out.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	deviceKey, err := cryptox.LoadOrCreateDeviceKey(c.DeviceKeyPath)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(in),
		out:    out,
	}

	metaRepo := metadata.NewSQLiteRepository(db)
	st := settings.NewStore(metaRepo)
	creds := credentials.NewStore(secrets.NewSealedStore(secrets.NewSQLiteRepository(db), deviceKey), log)

	api := client.NewHTTPClient(c.AuthBaseURL, c.UserBaseURL, client.WithLogger(log))

	a.pin = biometric.NewPINAuthenticator(st, a.promptSecret)
	a.session = services.NewSessionManager(api, creds, st, a.pin, log)
	a.tasks = services.NewTaskService(tasks.NewSQLiteRepository(db), a.session.UserID)
	a.profile = services.NewProfileService(api, st, a.session)
	a.recovery = services.NewRecoveryService(api)
	a.study = services.NewStudyService(api, st, a.session)
	a.notices = services.NewNotificationService(api, a.session)
	a.focus = focus.NewSession(
		focus.NewLocalController(metaRepo, c.FocusAuthorized, log),
		c.FocusDuration,
		focus.WithTick(c.FocusTick),
		focus.WithLogger(log),
	)

	return a, nil
}

func (a *App) promptSecret(_ context.Context, prompt string) (string, error) {
	return GetPassword(a.reader, prompt, a.out)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	snap := a.session.Snapshot()
	s := snap.State.String()
	if snap.User != nil {
		s = snap.User.Email
	}
	if f := a.focus.Snapshot(); f.Active {
		s += fmt.Sprintf(" | focus %s", f.RemainingTime.Round(time.Second))
	}
	return "(" + s + ")"
}

// Run restores the previous session and serves commands until exit.
func (a *App) Run(ctx context.Context) {
	a.println("Study Planner (type 'help' for commands)")

	saved := a.session.Restore(ctx)
	switch {
	case a.isLoggedIn():
		a.println("Welcome back,", a.session.CurrentUser().Name)
	case saved.Email != "":
		a.println("Last signed in as", saved.Email, "- use 'login' or 'biologin'")
	}

	cancel := a.session.Subscribe(func(s services.Snapshot) {
		a.log.Debug(ctx, "session state", "state", s.State.String())
	})
	defer cancel()

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close stops a running focus session and releases the database.
func (a *App) Close(ctx context.Context) error {
	a.focus.End(ctx)
	return a.db.Close()
}
