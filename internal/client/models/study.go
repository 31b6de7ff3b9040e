package models

import (
	"fmt"
	"time"
)

// StudySession is a timed block of work on one task, as scheduled or
// recorded by the backend.
type StudySession struct {
	ID        string
	TaskID    string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// DayProgress is the number of hours studied on one weekday.
type DayProgress struct {
	Day   string
	Hours float64
}

// NotificationType classifies a notification. Unknown backend values are
// carried as NotificationCustom with the raw value in Notification.Custom.
type NotificationType string

const (
	NotificationSessionReminder     NotificationType = "sessionReminder"
	NotificationDeadlineApproaching NotificationType = "deadlineApproaching"
	NotificationAchievement         NotificationType = "achievementUnlocked"
	NotificationStudyStreak         NotificationType = "studyStreak"
	NotificationNewMaterial         NotificationType = "newMaterial"
	NotificationGroupMeeting        NotificationType = "groupMeeting"
	NotificationQuizResult          NotificationType = "quizResult"
	NotificationCustom              NotificationType = "custom"
)

func (t NotificationType) Known() bool {
	switch t {
	case NotificationSessionReminder, NotificationDeadlineApproaching, NotificationAchievement,
		NotificationStudyStreak, NotificationNewMaterial, NotificationGroupMeeting,
		NotificationQuizResult, NotificationCustom:
		return true
	}
	return false
}

// Notification is one entry of the backend's recent notifications feed.
type Notification struct {
	ID        string
	Message   string
	Timestamp time.Time
	IsRead    bool
	Type      NotificationType
	Custom    string
}

// Label is the display name of the notification's type.
func (n *Notification) Label() string {
	if n.Type == NotificationCustom && n.Custom != "" {
		return n.Custom
	}
	return string(n.Type)
}

// TimeAgo renders the age of the notification relative to now, using the
// largest whole unit out of days, hours and minutes.
func (n *Notification) TimeAgo(now time.Time) string {
	d := now.Sub(n.Timestamp)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	case d >= time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	default:
		return "Just now"
	}
}
