package repositories

import (
	"proshop/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// List results are returned newest first. Update performs a version-checked
// write: the stored record must still carry the version the caller read, or
// the write is rejected with a ConflictError.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	Update(order *models.Order) error
	Delete(id string) error
}
