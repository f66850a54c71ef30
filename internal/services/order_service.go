package services

import (
	"fmt"
	"log"
	"time"

	"proshop/internal/apperrors"
	"proshop/internal/models"
	"proshop/internal/repositories"
	"proshop/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService enforces the order status lifecycle: legal transitions,
// payment/delivery side effects and authorization of who may transition an
// order.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	mqClient    *rabbitmq.Client // RabbitMQ client, may be nil
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		mqClient:    mqClient,
	}
}

// CreateOrderInput carries the client-supplied fields for a new order.
type CreateOrderInput struct {
	OrderItems      []models.OrderItem
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	ItemsPrice      decimal.Decimal
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
	TotalPrice      decimal.Decimal
}

// CreateOrder creates a new order in status pending, attributed to the
// requester. Item name and unit price are snapshotted from the catalog so
// later catalog changes cannot affect historical orders.
func (s *OrderService) CreateOrder(input CreateOrderInput, requester models.Requester) (*models.Order, error) {
	if len(input.OrderItems) == 0 {
		return nil, apperrors.NewValidation("order must contain at least one item")
	}

	expectedTotal := input.ItemsPrice.Add(input.TaxPrice).Add(input.ShippingPrice)
	if !input.TotalPrice.Equal(expectedTotal) {
		return nil, apperrors.NewValidation("total price %s does not equal items + tax + shipping (%s)",
			input.TotalPrice.String(), expectedTotal.String())
	}

	items := make([]models.OrderItem, 0, len(input.OrderItems))
	for _, item := range input.OrderItems {
		if item.Quantity < 1 {
			return nil, apperrors.NewValidation("item quantity must be at least 1 for product %s", item.ProductID)
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, apperrors.NewValidation("product %s not found", item.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      product.Name,  // name snapshot
			Quantity:  item.Quantity,
			Price:     product.Price, // price at the time of order
		})
	}

	now := time.Now()
	newOrder := &models.Order{
		ID:              uuid.New().String(),
		UserID:          requester.UserID,
		OrderItems:      items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent(rabbitmq.EventOrderCreated, newOrder)
	return newOrder, nil
}

// GetOrder retrieves a single order. Only an administrator or the order's
// owning user (per the stored user reference) may read it.
func (s *OrderService) GetOrder(id string, requester models.Requester) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && order.UserID != requester.UserID {
		return nil, apperrors.NewForbidden("not authorized to view order %s", id)
	}
	return order, nil
}

// MarkPaid records a payment receipt on an order. It sets the paid flag and
// timestamp and unconditionally advances status to processing; calling it
// again replaces the stored receipt. Only the order's owner or an
// administrator may confirm payment.
func (s *OrderService) MarkPaid(id string, receipt models.PaymentResult, requester models.Requester) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin() && order.UserID != requester.UserID {
		return nil, apperrors.NewForbidden("not authorized to pay order %s", id)
	}

	if order.Status == models.StatusShipped || order.Status == models.StatusDelivered {
		// Observed reference behavior: payment confirmation always forces
		// processing, even when the order has already moved past it.
		log.Printf("Warning: marking order %s paid regresses status from %s to %s", id, order.Status, models.StatusProcessing)
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &receipt
	order.Status = models.StatusProcessing

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderPaid, order)
	return order, nil
}

// MarkDelivered records delivery of an order. Administrator-only.
func (s *OrderService) MarkDelivered(id string, requester models.Requester) (*models.Order, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators may mark orders delivered")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order.IsDelivered = true
	order.DeliveredAt = &now
	order.Status = models.StatusDelivered

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderDelivered, order)
	return order, nil
}

// SetStatus is the administrative manual override: any status may be set
// from any status, with no transition-graph validation. Setting delivered
// also records the delivery side effects; moving away from delivered does
// NOT clear them, which is logged as a warning when it leaves the flags out
// of step with the status.
func (s *OrderService) SetStatus(id string, newStatus models.OrderStatus, requester models.Requester) (*models.Order, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators may set order status")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidation("invalid order status: %s", newStatus)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	order.Status = newStatus
	if newStatus == models.StatusDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
	} else if order.IsDelivered {
		log.Printf("Warning: manual override set order %s to %s while delivered flags remain set", id, newStatus)
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishEvent(rabbitmq.EventOrderStatusChanged, order)
	return order, nil
}

// ListMine retrieves all orders owned by the requester, newest first.
func (s *OrderService) ListMine(requester models.Requester) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(requester.UserID)
}

// ListAll retrieves all orders with owner details joined, newest first.
// Administrator-only.
func (s *OrderService) ListAll(requester models.Requester) ([]models.Order, error) {
	if !requester.IsAdmin() {
		return nil, apperrors.NewForbidden("only administrators may list all orders")
	}
	return s.orderRepo.GetAll()
}

// DeleteOrder hard-deletes an order. Administrator-only; there is no
// soft-delete or undo.
func (s *OrderService) DeleteOrder(id string, requester models.Requester) error {
	if !requester.IsAdmin() {
		return apperrors.NewForbidden("only administrators may delete orders")
	}
	return s.orderRepo.Delete(id)
}

// publishEvent publishes an order lifecycle event. Publication failures are
// logged, never surfaced: the write has already committed.
func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Total:      order.TotalPrice.String(),
		OccurredAt: time.Now(),
	}
	if err := s.mqClient.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
