package repositories

import (
	"sort"
	"sync"
	"time"

	"proshop/internal/apperrors"
	"proshop/internal/models"

	"github.com/google/uuid"
)

// MockNotificationRepository is an in-memory implementation of
// NotificationRepository.
type MockNotificationRepository struct {
	notifications map[string]models.Notification
	mu            sync.RWMutex
}

// NewMockNotificationRepository creates a new instance of
// MockNotificationRepository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		notifications: make(map[string]models.Notification),
	}
}

// Create adds a new notification.
func (r *MockNotificationRepository) Create(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	r.notifications[notification.ID] = *notification
	return nil
}

// GetByID returns a notification by its ID.
func (r *MockNotificationRepository) GetByID(id string) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notification, ok := r.notifications[id]
	if !ok {
		return nil, apperrors.NewNotFound("notification", id)
	}
	return &notification, nil
}

// GetByUserID returns the notifications owned by userID, newest first.
func (r *MockNotificationRepository) GetByUserID(userID string) ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == userID {
			list = append(list, n)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// GetAll returns every notification, newest first.
func (r *MockNotificationRepository) GetAll() ([]models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// MarkRead flips the read flag on a notification.
func (r *MockNotificationRepository) MarkRead(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return apperrors.NewNotFound("notification", id)
	}
	n.Read = true
	r.notifications[id] = n
	return nil
}

// MarkAllRead flips the read flag for userID, or for everyone when userID is
// empty.
func (r *MockNotificationRepository) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.notifications {
		if userID == "" || n.UserID == userID {
			n.Read = true
			r.notifications[id] = n
		}
	}
	return nil
}

// Delete removes a notification by its ID.
func (r *MockNotificationRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notifications[id]; !ok {
		return apperrors.NewNotFound("notification", id)
	}
	delete(r.notifications, id)
	return nil
}

// DeleteMany removes the given notifications, restricted to userID when set.
func (r *MockNotificationRepository) DeleteMany(ids []string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok {
			continue
		}
		if userID != "" && n.UserID != userID {
			continue
		}
		delete(r.notifications, id)
	}
	return nil
}

// DeleteAll removes every notification for userID, or all when userID is
// empty.
func (r *MockNotificationRepository) DeleteAll(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, n := range r.notifications {
		if userID == "" || n.UserID == userID {
			delete(r.notifications, id)
		}
	}
	return nil
}
