package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TransactionAdmission = "ADMISSION"
	TransactionPackage   = "PACKAGE"
	TransactionPayment   = "PAYMENT"
)

// Stored statuses. OVERDUE is never persisted; it is projected at read
// time from the due date (see internal/billing).
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusOverdue   = "OVERDUE"
)

const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

type Transaction struct {
	ID       string        `gorm:"size:36;primaryKey" json:"id"`
	MemberID string        `gorm:"size:36;index;not null" json:"member_id"`
	Member   MemberProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Amount          float64 `gorm:"not null" json:"amount"`
	TransactionType string  `gorm:"size:20;not null" json:"transaction_type"`
	Status          string  `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	DueDate  *time.Time `json:"due_date"`
	PaidDate *time.Time `json:"paid_date"`

	TrainerFee     float64 `gorm:"default:0" json:"trainer_fee"`
	PackagePrice   float64 `gorm:"default:0" json:"package_price"`
	DiscountAmount float64 `gorm:"default:0" json:"discount_amount"`
	DiscountType   string  `gorm:"size:20;default:'fixed'" json:"discount_type"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
