package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/apperrors"
	"github.com/aldikurniawan/workhive_be/internal/models"
)

// Service materializes review opportunities when a contract completes
// and records submissions coming back from the review flow.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GenerateForContract creates both directional opportunities
// (client->freelancer and freelancer->client). Idempotent: re-entry
// skips tuples that already exist, and the composite unique index
// catches anything a concurrent retry slips past the check.
func (s *Service) GenerateForContract(tx *gorm.DB, contract *models.Contract) error {
	pairs := [][2]uuid.UUID{
		{contract.ClientID, contract.FreelancerID},
		{contract.FreelancerID, contract.ClientID},
	}

	for _, pair := range pairs {
		var count int64
		if err := tx.Model(&models.ReviewOpportunity{}).
			Where("contract_id = ? AND reviewer_id = ? AND reviewee_id = ?",
				contract.ID, pair[0], pair[1]).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		opp := models.ReviewOpportunity{
			ContractID: contract.ID,
			ReviewerID: pair[0],
			RevieweeID: pair[1],
		}
		if err := tx.Create(&opp).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}

// RecordSubmitted links a persisted review to its opportunity. The
// guarded update keeps a double submission from overwriting the first.
func (s *Service) RecordSubmitted(tx *gorm.DB, opportunityID, reviewID uuid.UUID) (*models.ReviewOpportunity, error) {
	var opp models.ReviewOpportunity
	if err := tx.First(&opp, "id = ?", opportunityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review opportunity not found")
		}
		return nil, err
	}

	now := time.Now()
	result := tx.Model(&models.ReviewOpportunity{}).
		Where("id = ? AND review_submitted = ?", opportunityID, false).
		Updates(map[string]interface{}{
			"review_submitted": true,
			"review_id":        reviewID,
			"submitted_at":     now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("review was already submitted for this opportunity")
	}

	opp.ReviewSubmitted = true
	opp.ReviewID = &reviewID
	opp.SubmittedAt = &now
	return &opp, nil
}

// Submit creates the review and marks its opportunity in one
// transaction. A reviewer without an opportunity on the contract gets
// NotFound — opportunities only exist for the two parties.
func (s *Service) Submit(contractID, actingReviewerID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}

	var opp models.ReviewOpportunity
	err := s.DB.Where("contract_id = ? AND reviewer_id = ?", contractID, actingReviewerID).
		First(&opp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no review opportunity for this contract")
		}
		return nil, err
	}
	if opp.ReviewSubmitted {
		return nil, apperrors.InvalidState("review was already submitted for this contract")
	}

	rev := models.Review{
		ContractID: contractID,
		ReviewerID: actingReviewerID,
		RevieweeID: opp.RevieweeID,
		Rating:     rating,
		Comment:    comment,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rev).Error; err != nil {
			return err
		}
		_, err := s.RecordSubmitted(tx, opp.ID, rev.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (s *Service) ListOpportunities(userID uuid.UUID) ([]models.ReviewOpportunity, error) {
	var opps []models.ReviewOpportunity
	if err := s.DB.Where("reviewer_id = ?", userID).
		Order("created_at DESC").
		Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}
