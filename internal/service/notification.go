package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aidar/team-access-service/internal/domain"
	"github.com/aidar/team-access-service/internal/repository"
)

// NotificationEmitter builds notification events for team mutations. The
// events it produces are persisted by the repository inside the same
// transaction as the membership change, so a committed mutation always has
// its notifications and a failed one has none.
type NotificationEmitter struct{}

// NewNotificationEmitter creates a new NotificationEmitter
func NewNotificationEmitter() *NotificationEmitter {
	return &NotificationEmitter{}
}

// Emit builds a notification event for the given recipient
func (e *NotificationEmitter) Emit(recipientID string, kind domain.NotificationKind, payload domain.NotificationPayload) *domain.Notification {
	return &domain.Notification{
		NotificationID: uuid.New().String(),
		UserID:         recipientID,
		Kind:           kind,
		Payload:        payload,
	}
}

// teamPayload builds the common payload for events about a team
func teamPayload(team *domain.Team, actorID, role string) domain.NotificationPayload {
	payload := domain.NotificationPayload{
		TeamID:  team.TeamID,
		ActorID: actorID,
		Role:    role,
	}
	if team.IsOrganizationTeam() {
		payload.OrgID = team.OwnerEntityID
	} else {
		payload.ProjectID = team.OwnerEntityID
	}
	return payload
}

// NotificationService handles read and lifecycle operations on notifications
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// ListForUser returns the user's notifications, newest first.
// Only the recipient may list their own notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID, callerID string) ([]*domain.Notification, error) {
	if userID != callerID {
		return nil, domain.ErrNotRecipient
	}
	return s.notificationRepo.ListByUser(ctx, userID)
}

// MarkRead marks a notification as read on behalf of its recipient
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != callerID {
		return domain.ErrNotRecipient
	}
	return s.notificationRepo.MarkRead(ctx, notificationID)
}

// Delete removes a notification on behalf of its recipient
func (s *NotificationService) Delete(ctx context.Context, notificationID, callerID string) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != callerID {
		return domain.ErrNotRecipient
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}
