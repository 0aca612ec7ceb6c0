package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EarningEntryType string

const (
	EarningEntryCredit EarningEntryType = "credit"
	EarningEntryDebit  EarningEntryType = "debit"
	EarningEntryRefund EarningEntryType = "refund"
)

// EarningEntry is the ledger behind the profile aggregates. One row per
// balance mutation, referencing the transaction (or withdrawal) that
// caused it.
type EarningEntry struct {
	ID          uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID        `gorm:"type:char(36);index;not null" json:"user_id"`
	Amount      int64            `gorm:"not null" json:"amount"`
	Type        EarningEntryType `gorm:"type:varchar(20);not null" json:"type"`
	Description string           `gorm:"type:text" json:"description"`
	ReferenceID *uuid.UUID       `gorm:"type:char(36);index" json:"reference_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (e *EarningEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
