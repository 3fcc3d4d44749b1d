package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/models"
)

type EnrollmentGormRepository struct {
	db *gorm.DB
}

func NewEnrollmentGormRepository(db *gorm.DB) *EnrollmentGormRepository {
	return &EnrollmentGormRepository{db: db}
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *EnrollmentGormRepository) GetPackage(
	ctx context.Context,
	id string,
) (*models.Package, error) {

	var pkg models.Package
	if err := r.db.WithContext(ctx).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *EnrollmentGormRepository) GetTrainer(
	ctx context.Context,
	id string,
) (*models.TrainerProfile, error) {

	var trainer models.TrainerProfile
	if err := r.db.WithContext(ctx).First(&trainer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trainer, nil
}

func (r *EnrollmentGormRepository) GetMember(
	ctx context.Context,
	id string,
) (*models.MemberProfile, error) {

	var member models.MemberProfile
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *EnrollmentGormRepository) GetSettings(
	ctx context.Context,
) (*models.Settings, error) {

	var settings models.Settings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// --------------------------------------------------
// Uniqueness
// --------------------------------------------------

func (r *EnrollmentGormRepository) FindDuplicateContact(
	ctx context.Context,
	phone string,
	cnic string,
	email string,
	excludeMemberID string,
) (string, error) {

	type check struct {
		field string
		value string
	}

	for _, ch := range []check{{"phone", phone}, {"cnic", cnic}, {"email", email}} {
		if ch.value == "" {
			continue
		}

		q := r.db.WithContext(ctx).
			Model(&models.MemberProfile{}).
			Where(ch.field+" = ?", ch.value)
		if excludeMemberID != "" {
			q = q.Where("id <> ?", excludeMemberID)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return ch.field, nil
		}
	}

	return "", nil
}

// --------------------------------------------------
// Enrollment
// --------------------------------------------------

func (r *EnrollmentGormRepository) CreateEnrollment(
	ctx context.Context,
	user *models.User,
	member *models.MemberProfile,
	invoice *models.Transaction,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		member.UserID = user.ID
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		invoice.MemberID = member.ID
		return tx.Create(invoice).Error
	})
}

// --------------------------------------------------
// Removal
// --------------------------------------------------

func (r *EnrollmentGormRepository) DeleteMemberCascade(
	ctx context.Context,
	member *models.MemberProfile,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", member.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.MemberProfile{}, "id = ?", member.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", member.UserID).Error
	})
}
