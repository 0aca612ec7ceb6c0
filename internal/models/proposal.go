package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "PENDING"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusRejected  ProposalStatus = "REJECTED"
	ProposalStatusWithdrawn ProposalStatus = "WITHDRAWN"
)

// Proposal is terminal once it leaves PENDING.
type Proposal struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:char(36);index;not null" json:"project_id"`
	FreelancerID uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`
	ClientID     uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`

	Amount      int64  `gorm:"not null" json:"amount"`
	CoverLetter string `gorm:"type:text" json:"cover_letter"`

	Status      ProposalStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	Client     *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
