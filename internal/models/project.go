package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusOpen   ProjectStatus = "open"
	ProjectStatusClosed ProjectStatus = "closed"
)

type Project struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:char(36);index;not null" json:"client_id"`

	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Budget      int64          `json:"budget"`
	Tags        datatypes.JSON `json:"tags"` // ["thesis", "web", ...]

	Status ProjectStatus `gorm:"type:varchar(20);default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
