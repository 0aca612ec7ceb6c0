package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewOpportunity is directional: one row per (contract, reviewer,
// reviewee). Contract completion creates both directions.
type ReviewOpportunity struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_review_opps_tuple,priority:1" json:"contract_id"`
	ReviewerID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_review_opps_tuple,priority:2;index" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_review_opps_tuple,priority:3" json:"reviewee_id"`

	ReviewSubmitted bool       `gorm:"default:false" json:"review_submitted"`
	ReviewID        *uuid.UUID `gorm:"type:char(36)" json:"review_id,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Contract *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

func (o *ReviewOpportunity) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
