package services

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/studyplanner/internal/client/client"
	"github.com/dmitrijs2005/studyplanner/internal/client/models"
)

// NotificationService reads and clears the signed-in user's notification
// feed. Every call fails with ErrNotAuthenticated without a token.
type NotificationService interface {
	// Recent returns the feed newest first.
	Recent(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

type notificationService struct {
	client  client.Client
	session TokenSource
}

func NewNotificationService(c client.Client, s TokenSource) NotificationService {
	return &notificationService{client: c, session: s}
}

func (n *notificationService) token() (string, error) {
	token := n.session.Token()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (n *notificationService) Recent(ctx context.Context) ([]models.Notification, error) {
	token, err := n.token()
	if err != nil {
		return nil, err
	}
	items, err := n.client.RecentNotifications(ctx, token)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(items, func(a, b models.Notification) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return items, nil
}

func (n *notificationService) MarkRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return invalid("Please enter a notification id")
	}
	token, err := n.token()
	if err != nil {
		return err
	}
	return n.client.MarkNotificationRead(ctx, token, id)
}

func (n *notificationService) ClearAll(ctx context.Context) error {
	token, err := n.token()
	if err != nil {
		return err
	}
	return n.client.ClearNotifications(ctx, token)
}
