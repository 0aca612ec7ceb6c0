package contract

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
	"github.com/aldikurniawan/workhive_be/internal/services/earnings"
	"github.com/aldikurniawan/workhive_be/internal/services/review"
)

// Service governs contract-level status. Completion is the one
// multi-entity move: it checks every milestone is PAID, bumps the
// freelancer's project count and fans out review opportunities, all in
// a single DB transaction.
type Service struct {
	DB       *gorm.DB
	Earnings *earnings.Service
	Reviews  *review.Service
}

func NewService(db *gorm.DB, earn *earnings.Service, rev *review.Service) *Service {
	return &Service{DB: db, Earnings: earn, Reviews: rev}
}

// Accept: freelancer agrees to the contract, PENDING -> ACTIVE.
func (s *Service) Accept(contractID, actingFreelancerID uuid.UUID) (*models.Contract, error) {
	c, err := s.load(contractID)
	if err != nil {
		return nil, err
	}
	if c.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the contract's freelancer can accept it")
	}
	if c.Status != models.ContractStatusPending {
		return nil, apperrors.InvalidState("contract is not pending")
	}

	now := time.Now()
	result := s.DB.Model(&models.Contract{}).
		Where("id = ? AND status = ?", c.ID, models.ContractStatusPending).
		Updates(map[string]interface{}{
			"status":     models.ContractStatusActive,
			"start_date": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("contract is not pending")
	}
	c.Status = models.ContractStatusActive
	c.StartDate = &now
	return c, nil
}

// Reject: freelancer declines, PENDING -> CANCELLED.
func (s *Service) Reject(contractID, actingFreelancerID uuid.UUID) (*models.Contract, error) {
	c, err := s.load(contractID)
	if err != nil {
		return nil, err
	}
	if c.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the contract's freelancer can reject it")
	}
	if c.Status != models.ContractStatusPending {
		return nil, apperrors.InvalidState("contract is not pending")
	}

	now := time.Now()
	result := s.DB.Model(&models.Contract{}).
		Where("id = ? AND status = ?", c.ID, models.ContractStatusPending).
		Updates(map[string]interface{}{
			"status":   models.ContractStatusCancelled,
			"end_date": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("contract is not pending")
	}
	c.Status = models.ContractStatusCancelled
	c.EndDate = &now
	return c, nil
}

// Complete closes out an active contract. Every milestone must already
// be PAID; a concurrent second completion loses on the guarded update
// and is rejected, so the side effects run exactly once.
func (s *Service) Complete(contractID, actingClientID uuid.UUID) (*models.Contract, error) {
	var out models.Contract

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var c models.Contract
		if err := tx.First(&c, "id = ?", contractID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("contract not found")
			}
			return err
		}

		if c.ClientID != actingClientID {
			return apperrors.Forbidden("only the contract's client can complete it")
		}
		if c.Status != models.ContractStatusActive {
			return apperrors.InvalidState("contract is not active")
		}

		var unpaid int64
		if err := tx.Model(&models.Milestone{}).
			Where("contract_id = ? AND status <> ?", c.ID, models.MilestoneStatusPaid).
			Count(&unpaid).Error; err != nil {
			return err
		}
		if unpaid > 0 {
			return apperrors.PreconditionFailed("contract has unpaid milestones")
		}

		now := time.Now()
		result := tx.Model(&models.Contract{}).
			Where("id = ? AND status = ?", c.ID, models.ContractStatusActive).
			Updates(map[string]interface{}{
				"status":       models.ContractStatusCompleted,
				"completed_at": now,
				"end_date":     now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidState("contract is not active")
		}

		if err := s.Earnings.IncrementProjectCount(tx, c.FreelancerID); err != nil {
			return err
		}
		if err := s.Reviews.GenerateForContract(tx, &c); err != nil {
			return err
		}

		c.Status = models.ContractStatusCompleted
		c.CompletedAt = &now
		c.EndDate = &now
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkDisputed is the moderation entry point (admin route), ACTIVE ->
// DISPUTED. The dispute workflow itself lives outside this core.
func (s *Service) MarkDisputed(contractID uuid.UUID) (*models.Contract, error) {
	c, err := s.load(contractID)
	if err != nil {
		return nil, err
	}
	if c.Status != models.ContractStatusActive {
		return nil, apperrors.InvalidState("only an active contract can be disputed")
	}

	result := s.DB.Model(&models.Contract{}).
		Where("id = ? AND status = ?", c.ID, models.ContractStatusActive).
		Update("status", models.ContractStatusDisputed)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("only an active contract can be disputed")
	}
	c.Status = models.ContractStatusDisputed
	return c, nil
}

func (s *Service) Get(contractID, actorID uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	err := s.DB.Preload("Client").Preload("Freelancer").Preload("Proposal").
		First(&c, "id = ?", contractID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("contract not found")
		}
		return nil, err
	}
	if c.ClientID != actorID && c.FreelancerID != actorID {
		return nil, apperrors.Forbidden("access denied")
	}
	return &c, nil
}

func (s *Service) ListMine(actorID uuid.UUID) ([]models.Contract, error) {
	var contracts []models.Contract
	if err := s.DB.Where("client_id = ? OR freelancer_id = ?", actorID, actorID).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (s *Service) load(id uuid.UUID) (*models.Contract, error) {
	var c models.Contract
	if err := s.DB.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("contract not found")
		}
		return nil, err
	}
	return &c, nil
}
