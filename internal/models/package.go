package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Package struct {
	ID           string  `gorm:"size:36;primaryKey" json:"id"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	DurationDays int     `gorm:"not null" json:"duration_days"`
	Price        float64 `gorm:"not null" json:"price"`
	Description  string  `gorm:"type:text" json:"description"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
