package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:char(36);index;not null" json:"contract_id"`
	ReviewerID uuid.UUID `gorm:"type:char(36);index;not null" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"type:char(36);index;not null" json:"reviewee_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Contract *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee *User     `gorm:"foreignKey:RevieweeID" json:"reviewee,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
