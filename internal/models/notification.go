package models

import "time"

// NotificationType selects the icon/color a client renders for a
// notification. It carries no behavioral meaning on the server.
type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationAlert   NotificationType = "alert"
	NotificationUser    NotificationType = "user"
	NotificationGeneric NotificationType = "generic"
)

// Notification is a per-user message with read/unread state. An empty UserID
// marks a system-wide notification visible in the admin view.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string           `json:"user_id" gorm:"index;type:varchar(36)"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20)"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
