package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FreelancerProfile struct {
	ID     uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"user_id"`

	DisplayName string         `gorm:"type:varchar(120)" json:"display_name"`
	PhotoURL    string         `gorm:"type:text" json:"photo_url"`
	About       string         `gorm:"type:text" json:"about"`
	Skills      datatypes.JSON `json:"skills"` // ["golang", "postgres", ...]

	// Aggregates. Only the earnings service writes these.
	TotalEarnings int64 `gorm:"default:0" json:"total_earnings"`
	TotalProjects int   `gorm:"default:0" json:"total_projects"`
	Balance       int64 `gorm:"default:0" json:"balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *FreelancerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
