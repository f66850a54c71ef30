package handlers

import (
	"log"
	"math"

	"proshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StatsHandler exposes the analytics aggregation engine as a single read
// endpoint parameterized by range.
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// RegisterRoutes registers the stats routes with the Fiber app. The caller
// is expected to mount these behind the admin middleware.
func (h *StatsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stats", h.HandleGetStats)
}

// HandleGetStats computes a fresh stats snapshot for the requested range
// (default 1M). Customer percentages are rounded to one decimal place here,
// at the display boundary only.
func (h *StatsHandler) HandleGetStats(c *fiber.Ctx) error {
	rangeParam := c.Query("range", string(services.Range1M))

	statsRange, err := services.ParseStatsRange(rangeParam)
	if err != nil {
		return respondError(c, err, "Invalid stats range")
	}

	stats, err := h.service.ComputeStats(statsRange)
	if err != nil {
		log.Printf("Error computing stats for range %s: %v", statsRange, err)
		return respondError(c, err, "Could not compute stats")
	}

	stats.NewCustomersPercent = round1(stats.NewCustomersPercent)
	stats.ReturningCustomersPercent = round1(stats.ReturningCustomersPercent)
	return c.JSON(stats)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
