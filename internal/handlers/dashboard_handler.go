package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/services/earnings"
)

type DashboardHandler struct {
	Earnings *earnings.Service
}

func NewDashboardHandler(earn *earnings.Service) *DashboardHandler {
	return &DashboardHandler{Earnings: earn}
}

// Summary returns the freelancer's aggregates and recent ledger rows.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}

	summary, err := h.Earnings.Summary(freelancerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Freelancer profile not found",
		})
	}
	return respondOK(c, summary)
}
