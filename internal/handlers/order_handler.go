package handlers

import (
	"fmt"
	"log"

	"proshop/internal/middleware"
	"proshop/internal/models"
	"proshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
// Authorization is enforced server-side by the lifecycle service against the
// authenticated requester; admin-only routes fail with 403 for plain users.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/mine", h.HandleListMine)
	orderRoutes.Get("/", h.HandleListAll)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id/pay", h.HandleMarkPaid)
	orderRoutes.Put("/:id/deliver", h.HandleMarkDelivered)
	orderRoutes.Patch("/:id/status", h.HandleSetStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// CreateOrderRequest represents the request body for creating an order.
type CreateOrderRequest struct {
	OrderItems      []models.OrderItem     `json:"order_items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	ItemsPrice      decimal.Decimal        `json:"items_price"`
	TaxPrice        decimal.Decimal        `json:"tax_price"`
	ShippingPrice   decimal.Decimal        `json:"shipping_price"`
	TotalPrice      decimal.Decimal        `json:"total_price"`
}

// HandleCreateOrder creates a new order attributed to the requester.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	createdOrder, err := h.service.CreateOrder(services.CreateOrderInput{
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	}, middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err, "Could not create order")
	}

	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleGetOrder retrieves a single order for its owner or an administrator.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID, middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleListMine retrieves the requester's own orders, newest first.
func (h *OrderHandler) HandleListMine(c *fiber.Ctx) error {
	orders, err := h.service.ListMine(middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error listing own orders: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleListAll retrieves all orders with owner details. Admin-only.
func (h *OrderHandler) HandleListAll(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error listing all orders: %v", err)
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleMarkPaid records a payment receipt on an order.
func (h *OrderHandler) HandleMarkPaid(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var receipt models.PaymentResult
	if err := c.BodyParser(&receipt); err != nil {
		log.Printf("Error parsing payment receipt body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.MarkPaid(orderID, receipt, middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error marking order %s paid: %v", orderID, err)
		return respondError(c, err, "Could not mark order as paid")
	}
	return c.JSON(order)
}

// HandleMarkDelivered records delivery of an order. Admin-only.
func (h *OrderHandler) HandleMarkDelivered(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.MarkDelivered(orderID, middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error marking order %s delivered: %v", orderID, err)
		return respondError(c, err, "Could not mark order as delivered")
	}
	return c.JSON(order)
}

// HandleSetStatus applies the administrative status override.
func (h *OrderHandler) HandleSetStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.SetStatus(orderID, updateData.Status, middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return respondError(c, err, "Could not update order status")
	}
	return c.JSON(order)
}

// HandleDeleteOrder hard-deletes an order. Admin-only.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(orderID, middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error deleting order %s: %v", orderID, err)
		return respondError(c, err, "Could not delete order")
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s deleted successfully", orderID),
	})
}
