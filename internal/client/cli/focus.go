package cli

import (
	"context"
	"time"
)

// Focus starts a focus session sized by the saved study duration, or ends
// the running one.
func (a *App) Focus(ctx context.Context) error {
	if !a.focus.Snapshot().Active {
		p, err := a.profile.Load(ctx)
		if err != nil {
			return err
		}
		a.focus.SetEstimatedFocusTime(time.Duration(p.DefaultStudyDuration) * time.Second)
	}

	a.focus.Toggle(ctx)

	s := a.focus.Snapshot()
	if !s.Active {
		a.println("Focus session ended")
		return nil
	}
	a.printf("Focus session started: %s\n", s.RemainingTime.Round(time.Second))
	if !s.DNDEnabled {
		a.println("Do Not Disturb is not available")
	}
	return nil
}

func (a *App) EndFocus(ctx context.Context) error {
	if !a.focus.Snapshot().Active {
		a.println("No focus session running")
		return nil
	}
	a.focus.End(ctx)
	a.println("Focus session ended")
	return nil
}

func (a *App) Status(_ context.Context) error {
	s := a.focus.Snapshot()
	if !s.Active {
		a.printf("Idle, next session %s\n", s.EstimatedFocusTime.Round(time.Second))
		return nil
	}
	dnd := "off"
	if s.DNDEnabled {
		dnd = "on"
	}
	a.printf("Focusing: %s left of %s, Do Not Disturb %s\n",
		s.RemainingTime.Round(time.Second), s.EstimatedFocusTime.Round(time.Second), dnd)
	return nil
}
