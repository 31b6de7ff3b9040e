package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// TokenSource reports the bearer token of the signed-in user, or "".
type TokenSource interface {
	Token() string
}

// StudySettings is the subset of settings.Store used to size sessions.
type StudySettings interface {
	DefaultStudyDuration(ctx context.Context) (int, error)
}

// StudyService drives study sessions and progress on the backend for the
// signed-in user. Every call fails with ErrNotAuthenticated without a token.
type StudyService interface {
	// Next returns nil when nothing is scheduled.
	Next(ctx context.Context) (*models.StudySession, error)
	WeeklyProgress(ctx context.Context) ([]models.DayProgress, error)
	// Start with a zero d uses the saved default study duration.
	Start(ctx context.Context, taskID string, d time.Duration) error
	EndCurrent(ctx context.Context) error
}

type studyService struct {
	client   client.Client
	settings StudySettings
	session  TokenSource
}

func NewStudyService(c client.Client, st StudySettings, s TokenSource) StudyService {
	return &studyService{client: c, settings: st, session: s}
}

func (s *studyService) token() (string, error) {
	token := s.session.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (s *studyService) Next(ctx context.Context) (*models.StudySession, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.NextSession(ctx, token)
}

func (s *studyService) WeeklyProgress(ctx context.Context) ([]models.DayProgress, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.WeeklyProgress(ctx, token)
}

func (s *studyService) Start(ctx context.Context, taskID string, d time.Duration) error {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return invalid("Please choose a task")
	}
	if d < 0 {
		return invalid("Study duration must be positive")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	if d == 0 {
		seconds, err := s.settings.DefaultStudyDuration(ctx)
		if err != nil {
			return persistence("load study duration", err)
		}
		d = time.Duration(seconds) * time.Second
	}
	return s.client.StartSession(ctx, token, taskID, d)
}

func (s *studyService) EndCurrent(ctx context.Context) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.client.EndCurrentSession(ctx, token)
}
