package focus

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/logging"
)

// DefaultTick is how often the countdown advances.
const DefaultTick = time.Second

// State is a point-in-time copy of a Session.
type State struct {
	EstimatedFocusTime time.Duration
	RemainingTime      time.Duration
	Active             bool
	DNDEnabled         bool
}

// Session is a countdown that holds do-not-disturb on while it runs.
// Every tick removes one second; at zero the session ends by itself.
type Session struct {
	ctrl     Controller
	activity Activity
	tick     time.Duration
	log      logging.Logger

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Session)

// WithTick changes the countdown interval. Tests use a short one.
func WithTick(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

func WithActivity(a Activity) Option {
	return func(s *Session) { s.activity = a }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.log = l }
}

func NewSession(ctrl Controller, estimated time.Duration, opts ...Option) *Session {
	s := &Session{
		ctrl:     ctrl,
		activity: DefaultActivity,
		tick:     DefaultTick,
		log:      logging.NewNop(),
		state:    State{EstimatedFocusTime: estimated},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetEstimatedFocusTime applies to the next session.
func (s *Session) SetEstimatedFocusTime(d time.Duration) {
	s.mu.Lock()
	s.state.EstimatedFocusTime = d
	s.mu.Unlock()
}

// Toggle starts an idle session or ends a running one.
func (s *Session) Toggle(ctx context.Context) {
	s.mu.Lock()
	if s.state.Active {
		s.mu.Unlock()
		s.End(ctx)
		return
	}
	if s.state.EstimatedFocusTime <= 0 {
		s.mu.Unlock()
		return
	}

	s.gen++
	gen := s.gen
	s.state.Active = true
	s.state.RemainingTime = s.state.EstimatedFocusTime
	s.state.DNDEnabled = false

	// The countdown outlives the caller's context; only End stops it.
	base := context.WithoutCancel(ctx)
	loopCtx, cancel := context.WithCancel(base)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.run(base, loopCtx, done)

	// The timer runs whether or not do-not-disturb could be turned on.
	ok := s.ctrl.RequestAuthorization(ctx) && s.ctrl.EnableFocus(ctx, s.activity)
	if !ok {
		s.log.Warn(ctx, "do-not-disturb unavailable")
	}

	s.mu.Lock()
	current := s.gen == gen && s.state.Active
	if current {
		s.state.DNDEnabled = ok
	}
	s.mu.Unlock()

	if ok && !current {
		s.ctrl.DisableFocus(ctx)
	}
}

// End stops the countdown, resets the remaining time and turns
// do-not-disturb off if this session turned it on.
func (s *Session) End(ctx context.Context) {
	s.stop(ctx, true)
}

func (s *Session) stop(ctx context.Context, wait bool) {
	s.mu.Lock()
	dnd := s.state.DNDEnabled
	s.state.Active = false
	s.state.RemainingTime = 0
	s.state.DNDEnabled = false
	s.gen++

	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		if wait {
			<-done
		}
	}
	if dnd && !s.ctrl.DisableFocus(ctx) {
		s.log.Warn(ctx, "failed to turn off do-not-disturb")
	}
}

func (s *Session) run(parent, ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.advance() {
				s.log.Info(parent, "focus session finished")
				s.stop(parent, false)
				return
			}
		}
	}
}

// advance removes one second and reports whether the countdown hit zero.
func (s *Session) advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Active {
		return false
	}
	s.state.RemainingTime -= time.Second
	if s.state.RemainingTime <= 0 {
		s.state.RemainingTime = 0
		return true
	}
	return false
}
