package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/realtime"
	"github.com/aldikurniawan/workhive_be/internal/services/payment"
)

type PaymentHandler struct {
	Svc      *payment.Service
	Notifier *realtime.Notifier
}

func NewPaymentHandler(svc *payment.Service, notifier *realtime.Notifier) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Notifier: notifier}
}

type CreatePaymentRequestReq struct {
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

func (h *PaymentHandler) CreateRequest(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	milestoneID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req CreatePaymentRequestReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	pr, err := h.Svc.CreateRequest(milestoneID, freelancerID, req.Amount, req.Note)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(pr.ClientID, pr.FreelancerID, "payment_request_created", pr)
	return respondCreated(c, pr)
}

func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	requestID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	pr, err := h.Svc.Approve(requestID, clientID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(pr.ClientID, pr.FreelancerID, "payment_request_status", pr)
	return respondOK(c, pr)
}

type RejectPaymentRequestReq struct {
	Reason string `json:"reason"`
}

func (h *PaymentHandler) Reject(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	requestID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req RejectPaymentRequestReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	pr, err := h.Svc.Reject(requestID, clientID, req.Reason)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(pr.ClientID, pr.FreelancerID, "payment_request_status", pr)
	return respondOK(c, pr)
}

type ProcessPaymentReq struct {
	PaymentMethod string `json:"payment_method"`
	GatewayRef    string `json:"gateway_ref"`
}

// Pay settles an approved request through the gateway. Retries with the
// same gateway_ref are safe; the recorder hands back the original
// transaction instead of charging twice.
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	requestID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req ProcessPaymentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	trx, err := h.Svc.Process(c.Context(), requestID, clientID, req.PaymentMethod, req.GatewayRef)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(trx.ClientID, trx.FreelancerID, "payment_settled", trx)
	return respondOK(c, trx)
}

func (h *PaymentHandler) ListByContract(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	requests, err := h.Svc.ListByContract(contractID, actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, requests)
}
