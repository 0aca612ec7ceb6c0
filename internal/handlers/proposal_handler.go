package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldikurniawan/workhive_be/internal/realtime"
	"github.com/aldikurniawan/workhive_be/internal/services/proposal"
)

type ProposalHandler struct {
	Svc      *proposal.Service
	Notifier *realtime.Notifier
}

func NewProposalHandler(svc *proposal.Service, notifier *realtime.Notifier) *ProposalHandler {
	return &ProposalHandler{Svc: svc, Notifier: notifier}
}

type SubmitProposalReq struct {
	Amount      int64  `json:"amount"`
	CoverLetter string `json:"cover_letter"`
}

func (h *ProposalHandler) Submit(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	projectID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	var req SubmitProposalReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	p, err := h.Svc.Submit(projectID, freelancerID, proposal.SubmitInput{
		Amount:      req.Amount,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(p.ClientID, p.FreelancerID, "proposal_submitted", p)
	return respondCreated(c, p)
}

func (h *ProposalHandler) ListForProject(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	projectID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	proposals, err := h.Svc.ListForProject(projectID, clientID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, proposals)
}

func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	proposalID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	p, err := h.Svc.Get(proposalID, actorID)
	if err != nil {
		return respondErr(c, err)
	}
	return respondOK(c, p)
}

func (h *ProposalHandler) Accept(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	proposalID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	p, err := h.Svc.Accept(proposalID, clientID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(p.ClientID, p.FreelancerID, "proposal_status", p)
	return respondOK(c, p)
}

func (h *ProposalHandler) Reject(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	proposalID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	p, err := h.Svc.Reject(proposalID, clientID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(p.ClientID, p.FreelancerID, "proposal_status", p)
	return respondOK(c, p)
}

func (h *ProposalHandler) Withdraw(c *fiber.Ctx) error {
	freelancerID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	proposalID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	p, err := h.Svc.Withdraw(proposalID, freelancerID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(p.ClientID, p.FreelancerID, "proposal_status", p)
	return respondOK(c, p)
}

// CreateContract is the explicit follow-up to acceptance; accepting a
// proposal never creates the contract on its own.
func (h *ProposalHandler) CreateContract(c *fiber.Ctx) error {
	clientID, err := actorUUID(c)
	if err != nil {
		return respondErr(c, err)
	}
	proposalID, err := paramUUID(c, "id")
	if err != nil {
		return respondErr(c, err)
	}

	contract, err := h.Svc.CreateContract(proposalID, clientID)
	if err != nil {
		return respondErr(c, err)
	}

	h.Notifier.NotifyParties(contract.ClientID, contract.FreelancerID, "contract_created", contract)
	return respondCreated(c, contract)
}
