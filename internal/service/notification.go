package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lendguard/internal/delivery/ws"
	"lendguard/internal/domain"
)

// Broadcaster fans a message out to connected realtime subscribers.
// Implemented by ws.Hub; fakes stand in for it in tests.
type Broadcaster interface {
	Broadcast(messageType string, payload any)
}

// NotificationService persists alerts and pushes them to connected clients.
type NotificationService struct {
	notificationRepo domain.NotificationRepository
	hub              Broadcaster
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo domain.NotificationRepository, hub Broadcaster) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Notify persists a notification and broadcasts it to connected clients.
// Broadcast is fire-and-forget: a delivery failure never fails the caller.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, message, notificationType string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	s.hub.Broadcast(ws.MessageNewNotification, n)
	zap.L().Info("Notification created",
		zap.String("user_id", userID.String()),
		zap.String("type", notificationType))

	return n, nil
}

// List returns the most recent notifications for a user
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.GetByUserID(ctx, userID, limit)
}

// MarkRead flips the read flag on one notification
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	return s.notificationRepo.MarkRead(ctx, id)
}
