package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/studyplanner/internal/client/models"
	"github.com/dmitrijs2005/studyplanner/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/studyplanner/internal/client/services"
)

// Accepted deadline layouts, tried in order. Times are local.
var deadlineLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

const shortIDLen = 8

func parseDeadline(s string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &services.ValidationError{Message: "Deadline must look like 2026-05-01 or 2026-05-01 18:00"}
}

func parsePriority(s string) (models.Priority, error) {
	switch strings.ToLower(s) {
	case "", "2", "medium", "m":
		return models.PriorityMedium, nil
	case "1", "low", "l":
		return models.PriorityLow, nil
	case "3", "high", "h":
		return models.PriorityHigh, nil
	}
	return 0, &services.ValidationError{Message: "Priority must be low, medium or high"}
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	subject, err := GetSimpleText(a.reader, "Subject", a.out)
	if err != nil {
		return err
	}
	rawDeadline, err := GetSimpleText(a.reader, "Deadline (YYYY-MM-DD [HH:MM])", a.out)
	if err != nil {
		return err
	}
	deadline, err := parseDeadline(rawDeadline)
	if err != nil {
		return err
	}
	rawPriority, err := GetSimpleText(a.reader, "Priority (low/medium/high, default medium)", a.out)
	if err != nil {
		return err
	}
	priority, err := parsePriority(rawPriority)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	t, err := a.tasks.Create(ctx, models.NewTask{
		Title:    title,
		Subject:  subject,
		Deadline: deadline,
		Priority: priority,
		Notes:    optional(notes),
	})
	if err != nil {
		return err
	}
	a.printf("Task %s added\n", shortID(t.ID))
	return nil
}

func (a *App) List(ctx context.Context, filter string) error {
	var completed *bool
	switch filter {
	case "":
	case "pending":
		completed = new(bool)
	case "completed", "done":
		completed = new(bool)
		*completed = true
	default:
		return &services.ValidationError{Message: "Usage: list [pending|completed]"}
	}

	list, err := a.tasks.Fetch(ctx, completed)
	if err != nil {
		return err
	}
	a.printTasks(list)
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	list, err := a.tasks.Search(ctx, query)
	if err != nil {
		return err
	}
	a.printTasks(list)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	t, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Subject:\t%s\n", t.Subject)
	fmt.Fprintf(w, "Deadline:\t%s\n", t.Deadline.Local().Format(deadlineLayouts[0]))
	fmt.Fprintf(w, "Priority:\t%s\n", t.Priority)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	if t.Notes != nil {
		fmt.Fprintf(w, "Notes:\t%s\n", *t.Notes)
	}
	fmt.Fprintf(w, "Created:\t%s\n", t.CreatedAt.Local().Format(time.RFC1123))
	return w.Flush()
}

func (a *App) Toggle(ctx context.Context, id string) error {
	t, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := a.tasks.ToggleCompletion(ctx, t); err != nil {
		return err
	}
	a.printf("%s is now %s\n", t.Title, t.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	t, err := a.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, t); err != nil {
		return err
	}
	a.printf("Deleted %s\n", t.Title)
	return nil
}

// resolve finds a task by full id or by a unique id prefix.
func (a *App) resolve(ctx context.Context, id string) (*models.StudyTask, error) {
	t, err := a.tasks.Get(ctx, id)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, tasks.ErrNotFound) {
		return nil, err
	}

	all, err := a.tasks.Fetch(ctx, nil)
	if err != nil {
		return nil, err
	}
	var match *models.StudyTask
	for i := range all {
		if strings.HasPrefix(all[i].ID, id) {
			if match != nil {
				return nil, &services.ValidationError{Message: "Ambiguous id " + strconv.Quote(id)}
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, &services.ValidationError{Message: "No task with id " + strconv.Quote(id)}
	}
	return match, nil
}

func (a *App) printTasks(list []models.StudyTask) {
	if len(list) == 0 {
		a.println("No tasks")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tDEADLINE\tPRIORITY\tTITLE\tSUBJECT")
	for _, t := range list {
		mark := "[ ]"
		if t.IsCompleted() {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, shortID(t.ID), t.Deadline.Local().Format(deadlineLayouts[0]), t.Priority, t.Title, t.Subject)
	}
	_ = w.Flush()
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}
