package repositories

import (
	"errors"

	"proshop/internal/apperrors"
	"proshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// Create persists a new notification.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return apperrors.NewTransient("create notification", err)
	}
	return nil
}

// GetByID retrieves a single notification.
func (r *GORMNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("notification", id)
		}
		return nil, apperrors.NewTransient("get notification", err)
	}
	return &notification, nil
}

// GetByUserID retrieves the notifications owned by userID, newest first.
func (r *GORMNotificationRepository) GetByUserID(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, apperrors.NewTransient("get notifications by user", err)
	}
	return notifications, nil
}

// GetAll retrieves every notification across all users, newest first.
func (r *GORMNotificationRepository) GetAll() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, apperrors.NewTransient("get all notifications", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on a single notification. Marking an
// already-read notification is a no-op, not an error.
func (r *GORMNotificationRepository) MarkRead(id string) error {
	res := r.db.Model(&models.Notification{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return apperrors.NewTransient("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		// Updating read=true on an already-read row still affects it in
		// GORM, so zero rows means the record does not exist.
		var count int64
		if err := r.db.Model(&models.Notification{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return apperrors.NewTransient("mark notification read", err)
		}
		if count == 0 {
			return apperrors.NewNotFound("notification", id)
		}
	}
	return nil
}

// MarkAllRead flips the read flag on every notification owned by userID,
// or on all notifications when userID is empty.
func (r *GORMNotificationRepository) MarkAllRead(userID string) error {
	q := r.db.Model(&models.Notification{}).Where("read = ?", false)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Update("read", true).Error; err != nil {
		return apperrors.NewTransient("mark all notifications read", err)
	}
	return nil
}

// Delete removes a single notification.
func (r *GORMNotificationRepository) Delete(id string) error {
	res := r.db.Delete(&models.Notification{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.NewTransient("delete notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("notification", id)
	}
	return nil
}

// DeleteMany removes the given notifications. A non-empty userID restricts
// the delete to rows owned by that user; ids not matching the filter are
// silently skipped.
func (r *GORMNotificationRepository) DeleteMany(ids []string, userID string) error {
	if len(ids) == 0 {
		return nil
	}
	q := r.db.Where("id IN ?", ids)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Delete(&models.Notification{}).Error; err != nil {
		return apperrors.NewTransient("delete notifications", err)
	}
	return nil
}

// DeleteAll removes every notification owned by userID, or all notifications
// when userID is empty.
func (r *GORMNotificationRepository) DeleteAll(userID string) error {
	q := r.db
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	} else {
		q = q.Where("1 = 1")
	}
	if err := q.Delete(&models.Notification{}).Error; err != nil {
		return apperrors.NewTransient("clear notifications", err)
	}
	return nil
}
