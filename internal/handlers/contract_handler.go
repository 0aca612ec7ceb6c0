package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/realtime"
	"github.com/aldikurniawan/workhive_be/internal/services/contract"
)

type ContractHandler struct {
	Svc      *contract.Service
	Notifier *realtime.Notifier
}

func NewContractHandler(svc *contract.Service, notifier *realtime.Notifier) *ContractHandler {
	return &ContractHandler{Svc: svc, Notifier: notifier}
}

func (h *ContractHandler) ListMine(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}

	contracts, err := h.Svc.ListMine(actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, contracts)
}

func (h *ContractHandler) Get(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ct, err := h.Svc.Get(contractID, actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, ct)
}

func (h *ContractHandler) Accept(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ct, err := h.Svc.Accept(contractID, freelancerID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(ct.ClientID, ct.FreelancerID, "contract_status", ct)
	return respondOK(c, ct)
}

func (h *ContractHandler) Reject(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ct, err := h.Svc.Reject(contractID, freelancerID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(ct.ClientID, ct.FreelancerID, "contract_status", ct)
	return respondOK(c, ct)
}

func (h *ContractHandler) Complete(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ct, err := h.Svc.Complete(contractID, clientID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(ct.ClientID, ct.FreelancerID, "contract_status", ct)
	return respondOK(c, ct)
}

// Dispute is admin moderation; the route is gated by RequireRoles.
func (h *ContractHandler) Dispute(c *fiber.Ctx) error {
	contractID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	ct, err := h.Svc.MarkDisputed(contractID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(ct.ClientID, ct.FreelancerID, "contract_status", ct)
	return respondOK(c, ct)
}
