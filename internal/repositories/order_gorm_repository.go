package repositories

import (
	"errors"
	"time"

	"proshop/internal/apperrors"
	"proshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return apperrors.NewTransient("create order", err)
	}
	return nil
}

// GetByID retrieves a single order with its owning user joined.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("User").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("order", id)
		}
		return nil, apperrors.NewTransient("get order", err)
	}
	return &order, nil
}

// GetAll retrieves all orders, newest first, with owning users joined for
// display.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("User").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, apperrors.NewTransient("get all orders", err)
	}
	return orders, nil
}

// GetByUserID retrieves the orders owned by userID, newest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, apperrors.NewTransient("get orders by user", err)
	}
	return orders, nil
}

// Update writes the full order record if and only if the stored version still
// matches order.Version. On success the version is incremented in place.
func (r *GORMOrderRepository) Update(order *models.Order) error {
	prev := order.Version
	order.Version = prev + 1
	order.UpdatedAt = time.Now()

	res := r.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, prev).
		Select("*").Omit("id", "created_at").
		Updates(order)
	if res.Error != nil {
		order.Version = prev
		return apperrors.NewTransient("update order", res.Error)
	}
	if res.RowsAffected == 0 {
		order.Version = prev
		// Distinguish a missing record from a stale version.
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return apperrors.NewTransient("update order", err)
		}
		if count == 0 {
			return apperrors.NewNotFound("order", order.ID)
		}
		return apperrors.NewConflict("order", order.ID)
	}
	return nil
}

// Delete hard-deletes an order by its ID.
func (r *GORMOrderRepository) Delete(id string) error {
	res := r.db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.NewTransient("delete order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("order", id)
	}
	return nil
}
