package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MilestoneStatus string

const (
	MilestoneStatusPending    MilestoneStatus = "PENDING"
	MilestoneStatusInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneStatusCompleted  MilestoneStatus = "COMPLETED"
	MilestoneStatusPaid       MilestoneStatus = "PAID"
)

// Milestone moves strictly PENDING -> IN_PROGRESS -> COMPLETED -> PAID.
// PAID is only ever written by the payment settlement, never by a user.
type Milestone struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:char(36);index;not null;uniqueIndex:idx_milestones_contract_order,priority:1" json:"contract_id"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Amount      int64      `gorm:"not null" json:"amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OrderIndex  int        `gorm:"not null;uniqueIndex:idx_milestones_contract_order,priority:2" json:"order_index"`

	Status MilestoneStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contract *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
