package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainerProfile struct {
	ID     string `gorm:"size:36;primaryKey" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	FullName    string     `gorm:"size:100" json:"full_name"`
	Gender      string     `gorm:"size:10" json:"gender"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Phone       string     `gorm:"size:20" json:"phone"`
	CNIC        string     `gorm:"size:20" json:"cnic"`
	Email       string     `gorm:"size:100" json:"email"`

	Specialization string    `gorm:"size:100;not null" json:"specialization"`
	SalaryRate     float64   `gorm:"not null;default:0" json:"salary_rate"`
	HireDate       time.Time `gorm:"not null" json:"hire_date"`

	// Opaque weekly schedule blob owned by the front end.
	Availability string `gorm:"type:text" json:"availability"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TrainerProfile) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.HireDate.IsZero() {
		t.HireDate = time.Now().UTC()
	}
	return nil
}
