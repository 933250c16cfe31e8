// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"fmt"
	"log"

	"github.com/taskdesk/taskdesk/models"
	"github.com/taskdesk/taskdesk/repository"
)

// NotificationService delivers in-app notifications to users
type NotificationService interface {
	Notify(ctx context.Context, recipientID, kind, message string, entityID *string) error
	NotifyMany(ctx context.Context, recipientIDs []string, kind, message string, entityID *string) error
}

// NotificationServiceImpl implements NotificationService. Each notification
// row gets its own allocator-issued identifier before insert.
type NotificationServiceImpl struct {
	idGen            IDGenerator
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(idGen IDGenerator, notificationRepo repository.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{
		idGen:            idGen,
		notificationRepo: notificationRepo,
	}
}

// Notify creates a single in-app notification
func (s *NotificationServiceImpl) Notify(ctx context.Context, recipientID, kind, message string, entityID *string) error {
	id, err := s.idGen.Generate(ctx, models.PrefixNotification)
	if err != nil {
		return fmt.Errorf("failed to allocate notification ID: %w", err)
	}

	n := &models.Notification{
		ID:          id,
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
		EntityID:    entityID,
	}
	return s.notificationRepo.Save(ctx, n)
}

// NotifyMany fans a notification out to multiple recipients. Delivery is
// best-effort per recipient; a failed allocation or insert for one recipient
// does not block the others.
func (s *NotificationServiceImpl) NotifyMany(ctx context.Context, recipientIDs []string, kind, message string, entityID *string) error {
	var firstErr error
	for _, rid := range recipientIDs {
		if err := s.Notify(ctx, rid, kind, message, entityID); err != nil {
			log.Printf("Failed to notify user %s: %v", rid, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
