package handlers

import (
	"log"

	"proshop/internal/middleware"
	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for the notification store.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes registers the user-scoped notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleListMine)
	notificationRoutes.Patch("/read-all", h.HandleMarkAllRead)
	notificationRoutes.Patch("/:id/read", h.HandleMarkRead)
	notificationRoutes.Post("/delete-many", h.HandleDeleteMany)
	notificationRoutes.Delete("/:id", h.HandleDeleteOne)
	notificationRoutes.Delete("/", h.HandleClearAll)
}

// RegisterAdminRoutes registers the system-wide variants. The service gates
// them to administrators.
func (h *NotificationHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin/notifications")
	adminRoutes.Get("/", h.HandleListAll)
	adminRoutes.Post("/delete-many", h.HandleDeleteManyAdmin)
	adminRoutes.Delete("/", h.HandleClearAllAdmin)
}

// HandleListMine lists the requester's notifications, newest first.
func (h *NotificationHandler) HandleListMine(c *fiber.Ctx) error {
	notifications, err := h.service.ListMine(middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		return respondError(c, err, "Could not retrieve notifications")
	}
	return c.JSON(notifications)
}

// HandleListAll lists every notification across all users. Admin-only.
func (h *NotificationHandler) HandleListAll(c *fiber.Ctx) error {
	notifications, err := h.service.ListAll(middleware.RequesterFromCtx(c))
	if err != nil {
		log.Printf("Error listing all notifications: %v", err)
		return respondError(c, err, "Could not retrieve notifications")
	}
	return c.JSON(notifications)
}

// HandleMarkRead flips one notification to read.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.MarkRead(id, middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error marking notification %s read: %v", id, err)
		return respondError(c, err, "Could not mark notification as read")
	}
	return c.JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

// HandleMarkAllRead flips all of the requester's notifications to read.
func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllRead(middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error marking all notifications read: %v", err)
		return respondError(c, err, "Could not mark notifications as read")
	}
	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}

// HandleDeleteOne removes a single notification.
func (h *NotificationHandler) HandleDeleteOne(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteOne(id, middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error deleting notification %s: %v", id, err)
		return respondError(c, err, "Could not delete notification")
	}
	return c.JSON(fiber.Map{
		"message": "Notification deleted",
	})
}

// DeleteManyRequest represents the request body for bulk deletes.
type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}

// HandleDeleteMany removes the given notifications owned by the requester.
func (h *NotificationHandler) HandleDeleteMany(c *fiber.Ctx) error {
	var req DeleteManyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing delete-many request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.DeleteMany(req.IDs, middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error deleting notifications: %v", err)
		return respondError(c, err, "Could not delete notifications")
	}
	return c.JSON(fiber.Map{
		"message": "Notifications deleted",
	})
}

// HandleClearAll removes every notification owned by the requester.
func (h *NotificationHandler) HandleClearAll(c *fiber.Ctx) error {
	if err := h.service.ClearAll(middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error clearing notifications: %v", err)
		return respondError(c, err, "Could not clear notifications")
	}
	return c.JSON(fiber.Map{
		"message": "All notifications cleared",
	})
}

// HandleDeleteManyAdmin removes the given notifications system-wide.
func (h *NotificationHandler) HandleDeleteManyAdmin(c *fiber.Ctx) error {
	var req DeleteManyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing admin delete-many request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.service.DeleteManyAdmin(req.IDs, middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error deleting notifications system-wide: %v", err)
		return respondError(c, err, "Could not delete notifications")
	}
	return c.JSON(fiber.Map{
		"message": "Notifications deleted",
	})
}

// HandleClearAllAdmin removes every notification across all users.
func (h *NotificationHandler) HandleClearAllAdmin(c *fiber.Ctx) error {
	if err := h.service.ClearAllAdmin(middleware.RequesterFromCtx(c)); err != nil {
		log.Printf("Error clearing notifications system-wide: %v", err)
		return respondError(c, err, "Could not clear notifications")
	}
	return c.JSON(fiber.Map{
		"message": "All notifications cleared",
	})
}
