package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberProfile struct {
	ID     string `gorm:"size:36;primaryKey" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	MemberNumber *int   `gorm:"uniqueIndex" json:"member_number"`
	FullName     string `gorm:"size:100;not null" json:"full_name"`
	Phone        string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	CNIC         string `gorm:"size:20;uniqueIndex;not null" json:"cnic"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Gender       string `gorm:"size:10" json:"gender"`

	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth"`
	AdmissionDate    *time.Time `gorm:"type:date" json:"admission_date"`
	AdmissionFeePaid bool       `gorm:"not null;default:false" json:"admission_fee_paid"`

	CurrentPackageID *string  `gorm:"size:36" json:"current_package_id"`
	CurrentPackage   *Package `gorm:"foreignKey:CurrentPackageID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	TrainerID *string         `gorm:"size:36" json:"trainer_id"`
	Trainer   *TrainerProfile `gorm:"foreignKey:TrainerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	PackageStartDate  *time.Time `json:"package_start_date"`
	PackageExpiryDate *time.Time `json:"package_expiry_date"`

	IsFrozen bool `gorm:"not null;default:false" json:"is_frozen"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MemberProfile) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
