package services

import (
	"context"
	"strings"

	"taskboard/backend/logging"
	"taskboard/backend/notifications-service/models"
	"taskboard/backend/notifications-service/repositories"
	"taskboard/backend/utils"
)

// ListLimit caps how many notifications a recipient gets back.
const ListLimit = 50

type NotificationService struct {
	repo repositories.NotificationRepository
}

func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// CreateNotification stores an unread notification for req.UserID. caller is the user whose
// action produced it.
func (s *NotificationService) CreateNotification(ctx context.Context, caller utils.Identity, req models.CreateNotificationRequest) (*models.Notification, error) {
	if strings.TrimSpace(req.UserID) == "" || req.Title == "" || req.Message == "" {
		return nil, utils.NewValidation("userId, type, title and message are required")
	}
	if !req.Type.Valid() {
		return nil, utils.NewValidation("type must be one of comment, task_update, task_assigned")
	}

	n := &models.Notification{
		UserID:    strings.TrimSpace(req.UserID),
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		TaskID:    req.TaskID,
		ProjectID: req.ProjectID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: NOTIFICATION_CREATED, Description: Notification %s (%s) for %s from %s", n.ID, n.Type, n.UserID, caller.ID)
	return n, nil
}

// ListNotifications returns the caller's newest notifications.
func (s *NotificationService) ListNotifications(ctx context.Context, caller utils.Identity) ([]*models.Notification, error) {
	return s.repo.ListForUser(ctx, caller.ID, ListLimit)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, caller utils.Identity, id string) (*models.Notification, error) {
	return s.repo.MarkRead(ctx, caller.ID, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, caller utils.Identity) (*models.MarkAllReadResult, error) {
	n, err := s.repo.MarkAllRead(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return &models.MarkAllReadResult{Modified: n}, nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, caller utils.Identity, id string) (*models.Notification, error) {
	return s.repo.Delete(ctx, caller.ID, id)
}
