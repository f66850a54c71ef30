package repositories

import (
	"proshop/internal/models"
)

// NotificationRepository defines the interface for notification data access.
//
// Bulk operations that take a userID treat the empty string as "all users"
// (the system-wide admin scope). List results are returned newest first.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByID(id string) (*models.Notification, error)
	GetByUserID(userID string) ([]models.Notification, error)
	GetAll() ([]models.Notification, error)
	MarkRead(id string) error
	MarkAllRead(userID string) error
	Delete(id string) error
	DeleteMany(ids []string, userID string) error
	DeleteAll(userID string) error
}
