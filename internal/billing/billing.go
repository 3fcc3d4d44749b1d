package billing

import (
	"time"

	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/models"
)

// Invoice is the fee breakdown of a single billable charge.
type Invoice struct {
	AdmissionFee   float64
	PackagePrice   float64
	TrainerFee     float64
	DiscountType   string
	DiscountAmount float64
	Total          float64
	Amount         float64
}

// Compute builds the invoice for a charge.
//
//	total  = admission_fee + package_price + trainer_fee
//	amount = total - discount
//
// A percentage discount is taken from the total; a fixed discount is used
// as-is. A discount exceeding the total is rejected rather than clamped so
// the stored breakdown always reconciles.
func Compute(admissionFee, packagePrice, trainerFee, discount float64, discountType string) (Invoice, error) {
	if discountType == "" {
		discountType = models.DiscountFixed
	}
	if discountType != models.DiscountFixed && discountType != models.DiscountPercentage {
		return Invoice{}, httperr.ErrBusiness("invalid_discount_type", "discount_type must be 'fixed' or 'percentage'")
	}
	if discount < 0 {
		return Invoice{}, httperr.ErrBusiness("invalid_discount", "Discount must not be negative")
	}

	total := admissionFee + packagePrice + trainerFee

	var discountAmount float64
	if discount > 0 {
		if discountType == models.DiscountPercentage {
			discountAmount = total * (discount / 100)
		} else {
			discountAmount = discount
		}
	}

	if discountAmount > total {
		return Invoice{}, httperr.ErrBusiness("discount_exceeds_total", "Discount exceeds total amount")
	}

	return Invoice{
		AdmissionFee:   admissionFee,
		PackagePrice:   packagePrice,
		TrainerFee:     trainerFee,
		DiscountType:   discountType,
		DiscountAmount: discountAmount,
		Total:          total,
		Amount:         total - discountAmount,
	}, nil
}

// ExpiryDate is calendar arithmetic: start plus the package duration.
func ExpiryDate(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays)
}

// PresentedStatus projects the API-facing status of a transaction. The
// stored status never becomes OVERDUE; an unpaid transaction past its due
// date is presented as OVERDUE while the row keeps saying PENDING.
func PresentedStatus(stored string, dueDate *time.Time, now time.Time) string {
	if stored != models.StatusCompleted && dueDate != nil && now.After(*dueDate) {
		return models.StatusOverdue
	}
	return stored
}

// IsOverdue reports whether a transaction would present as OVERDUE.
func IsOverdue(stored string, dueDate *time.Time, now time.Time) bool {
	return PresentedStatus(stored, dueDate, now) == models.StatusOverdue
}
