package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/services/review"
)

type ReviewHandler struct {
	Svc *review.Service
}

func NewReviewHandler(svc *review.Service) *ReviewHandler {
	return &ReviewHandler{Svc: svc}
}

type SubmitReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	reviewerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req SubmitReviewReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	rev, err := h.Svc.Submit(contractID, reviewerID, req.Rating, req.Comment)
	if err != nil {
		return respondErr(c, err)
	}
	return respondCreated(c, rev)
}

func (h *ReviewHandler) ListMyOpportunities(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}

	opps, err := h.Svc.ListOpportunities(actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, opps)
}
