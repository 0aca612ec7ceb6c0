package payment

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/services/earnings"
	"github.com/aldikurniawan/workhive_be/internal/services/gateway"
)

// Service runs the payment request workflow and records settlements.
// Payment requests never move money themselves; Process is the only
// path that marks anything PAID.
type Service struct {
	DB       *gorm.DB
	Gateway  gateway.Charger
	Earnings *earnings.Service
}

func NewService(db *gorm.DB, gw gateway.Charger, earn *earnings.Service) *Service {
	return &Service{DB: db, Gateway: gw, Earnings: earn}
}

// CreateRequest opens a payment request against a completed milestone.
// At most one non-rejected request may exist per milestone; the partial
// unique index settles concurrent creations.
func (s *Service) CreateRequest(milestoneID, actingFreelancerID uuid.UUID, amount int64, note string) (*models.PaymentRequest, error) {
	var m models.Milestone
	if err := s.DB.First(&m, "id = ?", milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("milestone not found")
		}
		return nil, err
	}
	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", m.ContractID).Error; err != nil {
		return nil, apperrors.NotFound("contract not found")
	}

	if contract.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the contract's freelancer can request payment")
	}
	if m.Status != models.MilestoneStatusCompleted {
		return nil, apperrors.InvalidState("milestone is not completed")
	}
	if amount <= 0 {
		return nil, apperrors.Validation("payment amount must be positive")
	}
	if amount > m.Amount {
		return nil, apperrors.Validation("payment amount exceeds the milestone amount")
	}

	var active int64
	s.DB.Model(&models.PaymentRequest{}).
		Where("milestone_id = ? AND status <> ?", milestoneID, models.PaymentRequestStatusRejected).
		Count(&active)
	if active > 0 {
		return nil, apperrors.Conflict("an active payment request for this milestone already exists")
	}

	req := models.PaymentRequest{
		MilestoneID:  m.ID,
		ContractID:   contract.ID,
		FreelancerID: contract.FreelancerID,
		ClientID:     contract.ClientID,
		Amount:       amount,
		Note:         note,
		Status:       models.PaymentRequestStatusPending,
	}
	if err := s.DB.Create(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("an active payment request for this milestone already exists")
		}
		return nil, err
	}
	return &req, nil
}

func (s *Service) Approve(requestID, actingClientID uuid.UUID) (*models.PaymentRequest, error) {
	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the contract's client can approve payment requests")
	}
	if req.Status != models.PaymentRequestStatusPending {
		return nil, apperrors.InvalidState("payment request is not pending")
	}

	now := time.Now()
	result := s.DB.Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", req.ID, models.PaymentRequestStatusPending).
		Updates(map[string]interface{}{
			"status":      models.PaymentRequestStatusApproved,
			"approved_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("payment request is not pending")
	}
	req.Status = models.PaymentRequestStatusApproved
	req.ApprovedAt = &now
	return req, nil
}

// Reject requires a reason and frees the milestone for a new request
// (rejected rows fall outside the partial unique index).
func (s *Service) Reject(requestID, actingClientID uuid.UUID, reason string) (*models.PaymentRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}

	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the contract's client can reject payment requests")
	}
	if req.Status != models.PaymentRequestStatusPending {
		return nil, apperrors.InvalidState("payment request is not pending")
	}

	result := s.DB.Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", req.ID, models.PaymentRequestStatusPending).
		Updates(map[string]interface{}{
			"status":        models.PaymentRequestStatusRejected,
			"reject_reason": reason,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("payment request is not pending")
	}
	req.Status = models.PaymentRequestStatusRejected
	req.RejectReason = reason
	return req, nil
}

// Process settles an approved payment request. The gateway call runs
// outside the DB transaction with the client's bounded timeout; the
// settlement itself (transaction insert, request PAID, milestone PAID,
// earnings credit) commits atomically or not at all.
//
// Idempotent under retry: a second call with an already-settled gateway
// reference returns the existing transaction without re-crediting.
func (s *Service) Process(ctx context.Context, requestID, actingClientID uuid.UUID, method, gatewayRef string) (*models.Transaction, error) {
	if strings.TrimSpace(gatewayRef) == "" {
		return nil, apperrors.Validation("gateway reference is required")
	}

	req, err := s.load(requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the contract's client can pay this request")
	}

	// Retry with a reference we already settled: hand back the original.
	if trx, err := s.settledByRef(gatewayRef); err == nil && trx != nil {
		return trx, nil
	}

	if req.Status != models.PaymentRequestStatusApproved {
		return nil, apperrors.InvalidState("payment request is not approved")
	}

	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", req.ContractID).Error; err != nil {
		return nil, apperrors.NotFound("contract not found")
	}

	result, chargeErr := s.Gateway.Charge(ctx, gateway.ChargeInput{
		Reference: gatewayRef,
		Amount:    req.Amount,
		Currency:  contract.Currency,
		Method:    method,
	})
	if chargeErr != nil {
		// Record the failed attempt; request and milestone stay as-is.
		failed := models.Transaction{
			ContractID:       req.ContractID,
			PaymentRequestID: req.ID,
			FreelancerID:     req.FreelancerID,
			ClientID:         req.ClientID,
			Amount:           req.Amount,
			Currency:         contract.Currency,
			Type:             models.TransactionTypePayment,
			Status:           models.TransactionStatusFailed,
			PaymentMethod:    method,
			GatewayReference: gatewayRef,
			Note:             chargeErr.Error(),
		}
		if err := s.DB.Create(&failed).Error; err != nil {
			log.Printf("failed to record failed transaction for request %s: %v", req.ID, err)
		}
		return nil, apperrors.PaymentFailed("payment gateway declined the charge", chargeErr)
	}

	// The caller's reference is the idempotency key, so it is what gets
	// recorded; a gateway-issued reference (result.Reference) would make
	// retries with the original key miss the settled row. The gateway's
	// own reference goes in the note.
	trx := models.Transaction{
		ContractID:       req.ContractID,
		PaymentRequestID: req.ID,
		FreelancerID:     req.FreelancerID,
		ClientID:         req.ClientID,
		Amount:           req.Amount,
		Currency:         contract.Currency,
		Type:             models.TransactionTypePayment,
		Status:           models.TransactionStatusCompleted,
		PaymentMethod:    method,
		GatewayReference: gatewayRef,
	}
	if result.Reference != gatewayRef {
		trx.Note = "gateway reference: " + result.Reference
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		res := tx.Model(&models.PaymentRequest{}).
			Where("id = ? AND status = ?", req.ID, models.PaymentRequestStatusApproved).
			Updates(map[string]interface{}{
				"status":  models.PaymentRequestStatusPaid,
				"paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("payment request is not approved")
		}

		res = tx.Model(&models.Milestone{}).
			Where("id = ? AND status = ?", req.MilestoneID, models.MilestoneStatusCompleted).
			Updates(map[string]interface{}{
				"status":  models.MilestoneStatusPaid,
				"paid_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("milestone is not completed")
		}

		return s.Earnings.IncrementEarnings(tx, req.FreelancerID, req.Amount, trx.ID,
			"Milestone payout for payment request "+req.ID.String())
	})
	if err != nil {
		// A concurrent retry may have settled the same reference first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, lookupErr := s.settledByRef(gatewayRef); lookupErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	return &trx, nil
}

func (s *Service) ListByContract(contractID, actorID uuid.UUID) ([]models.PaymentRequest, error) {
	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, apperrors.NotFound("contract not found")
	}
	if contract.ClientID != actorID && contract.FreelancerID != actorID {
		return nil, apperrors.Forbidden("access denied")
	}

	var requests []models.PaymentRequest
	if err := s.DB.Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Service) load(id uuid.UUID) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	if err := s.DB.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment request not found")
		}
		return nil, err
	}
	return &req, nil
}

func (s *Service) settledByRef(gatewayRef string) (*models.Transaction, error) {
	var trx models.Transaction
	err := s.DB.Where("gateway_reference = ? AND status = ?", gatewayRef, models.TransactionStatusCompleted).
		First(&trx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trx, nil
}
