package enrollment

import (
	"context"

	"github.com/fitcore/gym-backend/internal/models"
)

type Repository interface {
	// -------- Lookups --------
	GetPackage(
		ctx context.Context,
		id string,
	) (*models.Package, error)

	GetTrainer(
		ctx context.Context,
		id string,
	) (*models.TrainerProfile, error)

	GetMember(
		ctx context.Context,
		id string,
	) (*models.MemberProfile, error)

	GetSettings(
		ctx context.Context,
	) (*models.Settings, error)

	// -------- Uniqueness --------
	FindDuplicateContact(
		ctx context.Context,
		phone string,
		cnic string,
		email string,
		excludeMemberID string,
	) (field string, err error)

	// -------- Enrollment (single db transaction) --------
	CreateEnrollment(
		ctx context.Context,
		user *models.User,
		member *models.MemberProfile,
		invoice *models.Transaction,
	) error

	// -------- Removal (single db transaction) --------
	DeleteMemberCascade(
		ctx context.Context,
		member *models.MemberProfile,
	) error
}
