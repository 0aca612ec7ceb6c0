package milestone

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
)

// Service is the milestone state machine. Transitions are strictly
// linear; PAID is written only by payment settlement, never here.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateInput struct {
	Title       string
	Description string
	Amount      int64
	DueDate     *time.Time
	OrderIndex  *int
}

func (s *Service) Create(contractID, actingClientID uuid.UUID, in CreateInput) (*models.Milestone, error) {
	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, apperrors.NotFound("contract not found")
	}
	if contract.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the contract's client can add milestones")
	}
	if contract.Status != models.ContractStatusPending && contract.Status != models.ContractStatusActive {
		return nil, apperrors.InvalidState("milestones can only be added to a pending or active contract")
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.Validation("milestone title is required")
	}
	if in.Amount <= 0 {
		return nil, apperrors.Validation("milestone amount must be positive")
	}

	orderIndex := 0
	if in.OrderIndex != nil {
		orderIndex = *in.OrderIndex
	} else {
		// next slot: max(existing)+1, starting at 1
		var maxIdx int
		row := s.DB.Model(&models.Milestone{}).
			Where("contract_id = ?", contractID).
			Select("COALESCE(MAX(order_index), 0)").
			Row()
		if err := row.Scan(&maxIdx); err != nil {
			return nil, err
		}
		orderIndex = maxIdx + 1
	}

	m := models.Milestone{
		ContractID:  contractID,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		OrderIndex:  orderIndex,
		Status:      models.MilestoneStatusPending,
	}
	if err := s.DB.Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("order index already used in this contract")
		}
		return nil, err
	}
	return &m, nil
}

type UpdateInput struct {
	Title       string
	Description string
	Amount      int64
	DueDate     *time.Time
	OrderIndex  *int
}

// Update edits a milestone that has not started yet. Editing later
// would let the amount cap drift under an in-flight payment request.
func (s *Service) Update(milestoneID, actingClientID uuid.UUID, in UpdateInput) (*models.Milestone, error) {
	m, contract, err := s.loadWithContract(milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != actingClientID {
		return nil, apperrors.Forbidden("only the contract's client can update milestones")
	}
	if contract.Status != models.ContractStatusPending && contract.Status != models.ContractStatusActive {
		return nil, apperrors.InvalidState("contract is no longer editable")
	}
	if m.Status != models.MilestoneStatusPending {
		return nil, apperrors.InvalidState("only a pending milestone can be updated")
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.Validation("milestone title is required")
	}
	if in.Amount <= 0 {
		return nil, apperrors.Validation("milestone amount must be positive")
	}

	m.Title = in.Title
	m.Description = in.Description
	m.Amount = in.Amount
	m.DueDate = in.DueDate
	if in.OrderIndex != nil {
		m.OrderIndex = *in.OrderIndex
	}

	if err := s.DB.Save(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("order index already used in this contract")
		}
		return nil, err
	}
	return m, nil
}

// Start: PENDING -> IN_PROGRESS, freelancer only.
func (s *Service) Start(milestoneID, actingFreelancerID uuid.UUID) (*models.Milestone, error) {
	m, contract, err := s.loadWithContract(milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the contract's freelancer can start a milestone")
	}
	if m.Status != models.MilestoneStatusPending {
		return nil, apperrors.InvalidState("milestone is not pending")
	}

	result := s.DB.Model(&models.Milestone{}).
		Where("id = ? AND status = ?", m.ID, models.MilestoneStatusPending).
		Update("status", models.MilestoneStatusInProgress)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("milestone is not pending")
	}
	m.Status = models.MilestoneStatusInProgress
	m.Contract = contract
	return m, nil
}

// Complete: IN_PROGRESS -> COMPLETED, freelancer only.
func (s *Service) Complete(milestoneID, actingFreelancerID uuid.UUID) (*models.Milestone, error) {
	m, contract, err := s.loadWithContract(milestoneID)
	if err != nil {
		return nil, err
	}
	if contract.FreelancerID != actingFreelancerID {
		return nil, apperrors.Forbidden("only the contract's freelancer can complete a milestone")
	}
	if m.Status != models.MilestoneStatusInProgress {
		return nil, apperrors.InvalidState("milestone is not in progress")
	}

	now := time.Now()
	result := s.DB.Model(&models.Milestone{}).
		Where("id = ? AND status = ?", m.ID, models.MilestoneStatusInProgress).
		Updates(map[string]interface{}{
			"status":       models.MilestoneStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("milestone is not in progress")
	}
	m.Status = models.MilestoneStatusCompleted
	m.CompletedAt = &now
	m.Contract = contract
	return m, nil
}

func (s *Service) ListByContract(contractID, actorID uuid.UUID) ([]models.Milestone, error) {
	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", contractID).Error; err != nil {
		return nil, apperrors.NotFound("contract not found")
	}
	if contract.ClientID != actorID && contract.FreelancerID != actorID {
		return nil, apperrors.Forbidden("access denied")
	}

	var milestones []models.Milestone
	if err := s.DB.Where("contract_id = ?", contractID).
		Order("order_index ASC").
		Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

func (s *Service) loadWithContract(milestoneID uuid.UUID) (*models.Milestone, *models.Contract, error) {
	var m models.Milestone
	if err := s.DB.First(&m, "id = ?", milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("milestone not found")
		}
		return nil, nil, err
	}
	var contract models.Contract
	if err := s.DB.First(&contract, "id = ?", m.ContractID).Error; err != nil {
		return nil, nil, apperrors.NotFound("contract not found")
	}
	return &m, &contract, nil
}
