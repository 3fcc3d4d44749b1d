package dto

import "time"

// PaymentRowDTO is one row of the finance listing: the transaction plus
// the owning member's identity and the presented (view-time) status.
type PaymentRowDTO struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`

	Amount          float64 `json:"amount"`
	TransactionType string  `json:"transaction_type"`
	Status          string  `json:"status"`

	DueDate   *time.Time `json:"due_date"`
	PaidDate  *time.Time `json:"paid_date"`
	CreatedAt time.Time  `json:"created_at"`

	TrainerFee     float64 `json:"trainer_fee"`
	PackagePrice   float64 `json:"package_price"`
	DiscountAmount float64 `json:"discount_amount"`
	DiscountType   string  `json:"discount_type"`
}
