package models

import (
	"fmt"
	"time"
)

// Priority ranks a task from 1 (low) to 3 (high).
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// TaskStatus is either pending or completed.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Toggled returns the opposite status.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskCompleted {
		return TaskPending
	}
	return TaskCompleted
}

// StudyTask is a unit of study work with a deadline.
type StudyTask struct {
	ID        string
	UserID    string
	Title     string
	Subject   string
	Deadline  time.Time
	Priority  Priority
	Status    TaskStatus
	Notes     *string
	CreatedAt time.Time
}

func (t *StudyTask) IsCompleted() bool {
	return t.Status == TaskCompleted
}

// NewTask holds the user input for creating a task.
type NewTask struct {
	Title    string
	Subject  string
	Deadline time.Time
	Priority Priority
	Notes    *string
}
