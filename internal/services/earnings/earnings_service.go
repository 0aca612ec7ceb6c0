package earnings

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldikurniawan/workhive_be/internal/models"
)

// Service owns the freelancer profile aggregates. Nothing else in the
// codebase writes total_earnings / total_projects / balance.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// IncrementEarnings credits a settled payment to the freelancer's
// aggregates and appends a ledger entry. Must be called within the
// settlement DB transaction.
func (s *Service) IncrementEarnings(tx *gorm.DB, freelancerID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to credit must be greater than zero")
	}

	result := tx.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Updates(map[string]interface{}{
			"total_earnings": gorm.Expr("total_earnings + ?", amount),
			"balance":        gorm.Expr("balance + ?", amount),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("freelancer profile not found for user %s", freelancerID)
	}

	entry := models.EarningEntry{
		ID:          uuid.New(),
		UserID:      freelancerID,
		Amount:      amount,
		Type:        models.EarningEntryCredit,
		Description: description,
		ReferenceID: &referenceID,
	}
	return tx.Create(&entry).Error
}

// IncrementProjectCount bumps total_projects on contract completion.
func (s *Service) IncrementProjectCount(tx *gorm.DB, freelancerID uuid.UUID) error {
	result := tx.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Update("total_projects", gorm.Expr("total_projects + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("freelancer profile not found for user %s", freelancerID)
	}
	return nil
}

type Summary struct {
	TotalEarnings int64                 `json:"total_earnings"`
	TotalProjects int                   `json:"total_projects"`
	Balance       int64                 `json:"balance"`
	Entries       []models.EarningEntry `json:"entries"`
}

// Summary reads the aggregates plus the most recent ledger entries.
func (s *Service) Summary(freelancerID uuid.UUID) (*Summary, error) {
	var profile models.FreelancerProfile
	if err := s.DB.Where("user_id = ?", freelancerID).First(&profile).Error; err != nil {
		return nil, err
	}

	var entries []models.EarningEntry
	if err := s.DB.Where("user_id = ?", freelancerID).
		Order("created_at DESC").
		Limit(20).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return &Summary{
		TotalEarnings: profile.TotalEarnings,
		TotalProjects: profile.TotalProjects,
		Balance:       profile.Balance,
		Entries:       entries,
	}, nil
}
