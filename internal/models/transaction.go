package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypePayment TransactionType = "PAYMENT"
	TransactionTypeRefund  TransactionType = "REFUND"
	TransactionTypeFee     TransactionType = "FEE"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is append-only. A COMPLETED row per gateway reference is
// unique (partial index, see internal/db) — that is the idempotency key
// for settlement retries. FAILED attempts may pile up freely.
type Transaction struct {
	ID               uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ContractID       uuid.UUID `gorm:"type:char(36);index;not null" json:"contract_id"`
	PaymentRequestID uuid.UUID `gorm:"type:char(36);index;not null" json:"payment_request_id"`
	FreelancerID     uuid.UUID `gorm:"type:char(36);index;not null" json:"freelancer_id"`
	ClientID         uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`

	Amount   int64           `gorm:"not null" json:"amount"`
	Currency string          `gorm:"type:varchar(10);default:'IDR'" json:"currency"`
	Type     TransactionType `gorm:"type:varchar(20);not null" json:"type"`

	Status           TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	PaymentMethod    string            `gorm:"type:varchar(50)" json:"payment_method"`
	GatewayReference string            `gorm:"type:varchar(100);index" json:"gateway_reference"`
	Note             string            `gorm:"type:text" json:"note"`

	CreatedAt time.Time `json:"created_at"`

	Contract       *Contract       `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	PaymentRequest *PaymentRequest `gorm:"foreignKey:PaymentRequestID" json:"payment_request,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
