package services

import (
	"proshop/internal/apperrors"
	"proshop/internal/models"
	"proshop/internal/repositories"
)

// NotificationService handles the server-held notification store: per-user
// listing, read-state toggles, and single/bulk/full deletes, plus the
// administrator's system-wide variants.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
	}
}

// Create persists a notification. Used by backend event consumers.
func (s *NotificationService) Create(notification *models.Notification) error {
	return s.notificationRepo.Create(notification)
}

// ListMine retrieves the requester's notifications, newest first.
func (s *NotificationService) ListMine(requester models.Requester) ([]models.Notification, error) {
	return s.notificationRepo.GetByUserID(requester.UserID)
}

// ListAll retrieves every notification across all users. Administrator-only.
func (s *NotificationService) ListAll(requester models.Requester) ([]models.Notification, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators may list all notifications")
	}
	return s.notificationRepo.GetAll()
}

// MarkRead flips a notification to read. Only the owner or an administrator
// may do so; marking an already-read notification is a no-op.
func (s *NotificationService) MarkRead(id string, requester models.Requester) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && notification.UserID != requester.UserID {
		return apperrors.NewForbidden("not authorized to modify notification %s", id)
	}
	return s.notificationRepo.MarkRead(id)
}

// MarkAllRead flips every one of the requester's notifications to read.
func (s *NotificationService) MarkAllRead(requester models.Requester) error {
	return s.notificationRepo.MarkAllRead(requester.UserID)
}

// DeleteOne removes a single notification owned by the requester (or any
// notification, for an administrator).
func (s *NotificationService) DeleteOne(id string, requester models.Requester) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && notification.UserID != requester.UserID {
		return apperrors.NewForbidden("not authorized to delete notification %s", id)
	}
	return s.notificationRepo.Delete(id)
}

// DeleteMany removes the given notifications, restricted to the requester's
// own records; ids belonging to other users are skipped, not an error.
func (s *NotificationService) DeleteMany(ids []string, requester models.Requester) error {
	if len(ids) == 0 {
		return apperrors.NewValidation("at least one notification id is required")
	}
	return s.notificationRepo.DeleteMany(ids, requester.UserID)
}

// ClearAll removes every notification owned by the requester.
func (s *NotificationService) ClearAll(requester models.Requester) error {
	return s.notificationRepo.DeleteAll(requester.UserID)
}

// DeleteManyAdmin removes the given notifications across all users.
// Administrator-only.
func (s *NotificationService) DeleteManyAdmin(ids []string, requester models.Requester) error {
	if !requester.IsAdmin() {
		return apperrors.NewForbidden("only administrators may delete notifications system-wide")
	}
	if len(ids) == 0 {
		return apperrors.NewValidation("at least one notification id is required")
	}
	return s.notificationRepo.DeleteMany(ids, "")
}

// ClearAllAdmin removes every notification across all users.
// Administrator-only.
func (s *NotificationService) ClearAllAdmin(requester models.Requester) error {
	if !requester.IsAdmin() {
		return apperrors.NewForbidden("only administrators may clear notifications system-wide")
	}
	return s.notificationRepo.DeleteAll("")
}
