package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractStatusPending   ContractStatus = "PENDING"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
	ContractStatusDisputed  ContractStatus = "DISPUTED"
)

// Contract backs exactly one accepted proposal (unique index on
// proposal_id). Milestone amounts may drift from TotalAmount; the hard
// money invariant lives on PaymentRequest instead.
type Contract struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ProposalID   uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"proposal_id"`
	ProjectID    uuid.UUID `gorm:"type:char(36);index;not null" json:"project_id"`
	ClientID     uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`
	FreelancerID uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TotalAmount int64  `gorm:"not null" json:"total_amount"`
	Currency    string `gorm:"type:varchar(10);default:'IDR'" json:"currency"`

	Status ContractStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Proposal   *Proposal `gorm:"foreignKey:ProposalID" json:"proposal,omitempty"`
	Client     *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Freelancer *User     `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
