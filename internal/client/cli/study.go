package cli

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/services"
)

func (a *App) Next(ctx context.Context) error {
	s, err := a.study.Next(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		a.println("No study session scheduled")
		return nil
	}

	title := s.TaskID
	if t, err := a.tasks.Get(ctx, s.TaskID); err == nil {
		title = t.Title
	}
	when := "unscheduled"
	if !s.StartTime.IsZero() {
		when = s.StartTime.Local().Format(deadlineLayouts[0])
	}
	a.printf("Next session: %s at %s for %s\n", title, when, s.Duration.Round(time.Minute))
	return nil
}

// Progress prints one bar per weekday, a '#' for every half hour.
func (a *App) Progress(ctx context.Context) error {
	days, err := a.study.WeeklyProgress(ctx)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		a.println("No study time recorded this week")
		return nil
	}

	var total float64
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, d := range days {
		total += d.Hours
		bar := strings.Repeat("#", int(math.Round(math.Max(d.Hours, 0)*2)))
		fmt.Fprintf(w, "%s\t%.1fh\t%s\n", d.Day, d.Hours, bar)
	}
	fmt.Fprintf(w, "Total\t%.1fh\t\n", total)
	return w.Flush()
}

// StartSession takes a task id or unique id prefix and an optional length
// in minutes.
func (a *App) StartSession(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return &services.ValidationError{Message: "Usage: start <task-id> [minutes]"}
	}
	var d time.Duration
	if len(fields) == 2 {
		minutes, err := strconv.Atoi(fields[1])
		if err != nil || minutes <= 0 {
			return &services.ValidationError{Message: "Usage: start <task-id> [minutes]"}
		}
		d = time.Duration(minutes) * time.Minute
	}

	t, err := a.resolve(ctx, fields[0])
	if err != nil {
		return err
	}
	if err := a.study.Start(ctx, t.ID, d); err != nil {
		return err
	}
	a.printf("Study session started for %s\n", t.Title)
	return nil
}

func (a *App) EndSession(ctx context.Context) error {
	if err := a.study.EndCurrent(ctx); err != nil {
		return err
	}
	a.println("Study session ended")
	return nil
}

func (a *App) Notifications(ctx context.Context) error {
	list, err := a.notices.Recent(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No notifications")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, n := range list {
		mark := "*"
		if n.IsRead {
			mark = " "
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, n.ID, n.TimeAgo(now), n.Label(), n.Message)
	}
	return w.Flush()
}

func (a *App) Read(ctx context.Context, id string) error {
	if err := a.notices.MarkRead(ctx, id); err != nil {
		return err
	}
	a.println("Marked as read")
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.notices.ClearAll(ctx); err != nil {
		return err
	}
	a.println("Notifications cleared")
	return nil
}
