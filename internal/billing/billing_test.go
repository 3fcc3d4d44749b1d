package billing

import (
	"testing"
	"time"

	"github.com/fitcore/gym-backend/internal/models"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		admissionFee float64
		packagePrice float64
		trainerFee   float64
		discount     float64
		discountType string

		wantAmount   float64
		wantDiscount float64
		wantErr      bool
	}{
		{
			name:         "no discount",
			admissionFee: 1000,
			packagePrice: 5000,
			trainerFee:   500,
			wantAmount:   6500,
		},
		{
			name:         "percentage discount",
			admissionFee: 1000,
			packagePrice: 5000,
			trainerFee:   500,
			discount:     10,
			discountType: models.DiscountPercentage,
			wantDiscount: 650,
			wantAmount:   5850,
		},
		{
			name:         "fixed discount",
			admissionFee: 1000,
			packagePrice: 5000,
			trainerFee:   0,
			discount:     500,
			discountType: models.DiscountFixed,
			wantDiscount: 500,
			wantAmount:   5500,
		},
		{
			name:         "empty type defaults to fixed",
			admissionFee: 2000,
			discount:     100,
			wantDiscount: 100,
			wantAmount:   1900,
		},
		{
			name:         "discount exceeds total",
			admissionFee: 1000,
			discount:     2000,
			discountType: models.DiscountFixed,
			wantErr:      true,
		},
		{
			name:         "negative discount",
			admissionFee: 1000,
			discount:     -5,
			wantErr:      true,
		},
		{
			name:         "unknown discount type",
			admissionFee: 1000,
			discount:     10,
			discountType: "relative",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := Compute(tt.admissionFee, tt.packagePrice, tt.trainerFee, tt.discount, tt.discountType)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got invoice %+v", inv)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if inv.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", inv.Amount, tt.wantAmount)
			}
			if inv.DiscountAmount != tt.wantDiscount {
				t.Errorf("discount amount = %v, want %v", inv.DiscountAmount, tt.wantDiscount)
			}
			if inv.Total != tt.admissionFee+tt.packagePrice+tt.trainerFee {
				t.Errorf("total = %v, want %v", inv.Total, tt.admissionFee+tt.packagePrice+tt.trainerFee)
			}
		})
	}
}

func TestExpiryDate(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	got := ExpiryDate(start, 30)
	want := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)

	if !got.Equal(want) {
		t.Errorf("expiry = %v, want %v", got, want)
	}
}

func TestPresentedStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-5 * 24 * time.Hour)
	future := now.Add(5 * 24 * time.Hour)

	tests := []struct {
		name    string
		stored  string
		dueDate *time.Time
		want    string
	}{
		{"pending before due date", models.StatusPending, &future, models.StatusPending},
		{"pending past due date", models.StatusPending, &past, models.StatusOverdue},
		{"completed past due date stays completed", models.StatusCompleted, &past, models.StatusCompleted},
		{"pending without due date", models.StatusPending, nil, models.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresentedStatus(tt.stored, tt.dueDate, now); got != tt.want {
				t.Errorf("status = %q, want %q", got, tt.want)
			}
		})
	}
}
