package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/realtime"
	"github.com/aldikurniawan/workhive_be/internal/services/milestone"
)

type MilestoneHandler struct {
	Svc      *milestone.Service
	Notifier *realtime.Notifier
}

func NewMilestoneHandler(svc *milestone.Service, notifier *realtime.Notifier) *MilestoneHandler {
	return &MilestoneHandler{Svc: svc, Notifier: notifier}
}

type MilestoneReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	DueDate     string `json:"due_date"` // ISO format: 2026-01-03
	OrderIndex  *int   `json:"order_index"`
}

func (r MilestoneReq) dueDate() *time.Time {
	if r.DueDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", r.DueDate)
	if err != nil {
		return nil
	}
	return &t
}

func (h *MilestoneHandler) Create(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req MilestoneReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	m, err := h.Svc.Create(contractID, clientID, milestone.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.dueDate(),
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return respondCreated(c, m)
}

func (h *MilestoneHandler) Update(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	milestoneID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req MilestoneReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	m, err := h.Svc.Update(milestoneID, clientID, milestone.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     req.dueDate(),
		OrderIndex:  req.OrderIndex,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, m)
}

func (h *MilestoneHandler) Start(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	milestoneID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	m, err := h.Svc.Start(milestoneID, freelancerID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(m.Contract.ClientID, m.Contract.FreelancerID, "milestone_status", m)
	return respondOK(c, m)
}

func (h *MilestoneHandler) Complete(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	milestoneID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	m, err := h.Svc.Complete(milestoneID, freelancerID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(m.Contract.ClientID, m.Contract.FreelancerID, "milestone_status", m)
	return respondOK(c, m)
}

func (h *MilestoneHandler) ListByContract(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	milestones, err := h.Svc.ListByContract(contractID, actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, milestones)
}
