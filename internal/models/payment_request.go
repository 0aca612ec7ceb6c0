package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "PENDING"
	PaymentRequestStatusApproved PaymentRequestStatus = "APPROVED"
	PaymentRequestStatusRejected PaymentRequestStatus = "REJECTED"
	PaymentRequestStatusPaid     PaymentRequestStatus = "PAID"
)

// PaymentRequest: at most one non-REJECTED request per milestone,
// enforced by a partial unique index (see internal/db).
type PaymentRequest struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	MilestoneID  uuid.UUID `gorm:"type:char(36);index;not null" json:"milestone_id"`
	ContractID   uuid.UUID `gorm:"type:char(36);index;not null" json:"contract_id"`
	FreelancerID uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`
	ClientID     uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`

	Amount int64  `gorm:"not null" json:"amount"`
	Note   string `gorm:"type:text" json:"note"`

	Status       PaymentRequestStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	RejectReason string               `gorm:"type:text" json:"reject_reason,omitempty"`

	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Milestone *Milestone `gorm:"foreignKey:MilestoneID" json:"milestone,omitempty"`
	Contract  *Contract  `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

func (r *PaymentRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
