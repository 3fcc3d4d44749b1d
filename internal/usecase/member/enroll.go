package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/billing"
	domain "github.com/fitcore/gym-backend/internal/domain/enrollment"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
)

// EnrollMember creates the user credential, the member profile and the
// PENDING admission invoice in one write.
type EnrollMember struct {
	repo       domain.Repository
	audit      *audit.Dispatcher
	defaultFee float64
}

func NewEnrollMember(
	repo domain.Repository,
	audit *audit.Dispatcher,
	defaultAdmissionFee float64,
) *EnrollMember {
	return &EnrollMember{
		repo:       repo,
		audit:      audit,
		defaultFee: defaultAdmissionFee,
	}
}

type EnrollInput struct {
	FullName string
	Phone    string
	CNIC     string
	Email    string
	Gender   string

	DateOfBirth   *time.Time
	AdmissionDate *time.Time

	PackageID *string
	TrainerID *string

	AdmissionFee  *float64
	TrainerCharge float64
	Discount      float64
	DiscountType  string
}

func (uc *EnrollMember) Execute(
	ctx context.Context,
	actorID string,
	in EnrollInput,
) (*models.MemberProfile, error) {

	if field, err := uc.repo.FindDuplicateContact(ctx, in.Phone, in.CNIC, in.Email, ""); err != nil {
		return nil, err
	} else if field != "" {
		return nil, httperr.ErrBusiness("duplicate_"+field, "A member with this "+field+" already exists")
	}

	if in.TrainerID != nil {
		if _, err := uc.repo.GetTrainer(ctx, *in.TrainerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("trainer_not_found", "Trainer not found")
			}
			return nil, err
		}
	}

	now := time.Now().UTC()

	var pkg *models.Package
	var packageStart, packageExpiry *time.Time
	if in.PackageID != nil {
		found, err := uc.repo.GetPackage(ctx, *in.PackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("package_not_found", "Package not found")
			}
			return nil, err
		}
		pkg = found

		start := now
		expiry := billing.ExpiryDate(start, pkg.DurationDays)
		packageStart, packageExpiry = &start, &expiry
	}

	admissionFee := uc.defaultFee
	if in.AdmissionFee != nil {
		admissionFee = *in.AdmissionFee
	} else if settings, err := uc.repo.GetSettings(ctx); err != nil {
		return nil, err
	} else if settings != nil {
		admissionFee = settings.AdmissionFee
	}

	packagePrice := 0.0
	if pkg != nil {
		packagePrice = pkg.Price
	}

	invoice, err := billing.Compute(admissionFee, packagePrice, in.TrainerCharge, in.Discount, in.DiscountType)
	if err != nil {
		return nil, err
	}

	// Admission invoice falls due with the package; 7 days out when the
	// member has no package yet.
	dueDate := now.Add(7 * 24 * time.Hour)
	if packageExpiry != nil {
		dueDate = *packageExpiry
	}

	admissionDate := now
	if in.AdmissionDate != nil {
		admissionDate = *in.AdmissionDate
	}

	user := models.User{
		Username:     generateUsername(in.Email),
		PasswordHash: "",
		Role:         models.RoleMember,
		IsActive:     true,
	}
	hash, err := password.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	profile := models.MemberProfile{
		FullName:          in.FullName,
		Phone:             in.Phone,
		CNIC:              in.CNIC,
		Email:             in.Email,
		Gender:            in.Gender,
		DateOfBirth:       in.DateOfBirth,
		AdmissionDate:     &admissionDate,
		CurrentPackageID:  in.PackageID,
		TrainerID:         in.TrainerID,
		PackageStartDate:  packageStart,
		PackageExpiryDate: packageExpiry,
		IsFrozen:          false,
	}

	txn := models.Transaction{
		Amount:          invoice.Amount,
		TransactionType: models.TransactionAdmission,
		Status:          models.StatusPending,
		DueDate:         &dueDate,
		TrainerFee:      invoice.TrainerFee,
		PackagePrice:    invoice.PackagePrice,
		DiscountAmount:  invoice.DiscountAmount,
		DiscountType:    invoice.DiscountType,
	}

	if err := uc.repo.CreateEnrollment(ctx, &user, &profile, &txn); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "member_created",
		Entity:   "member",
		EntityID: profile.ID,
		Metadata: map[string]any{"full_name": profile.FullName, "amount": invoice.Amount},
	})

	return &profile, nil
}

// Internal credential, never exposed to the caller: email prefix plus a
// random suffix keeps usernames unique and recognizable in the admin list.
func generateUsername(email string) string {
	prefix := email
	if at := strings.Index(email, "@"); at > 0 {
		prefix = email[:at]
	}
	return prefix + "_" + uuid.NewString()[:8]
}
