package db

import (
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitcore/gym-backend/internal/config"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Log.Fatal("failed to connect database: " + err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal("failed to get sql.DB: " + err.Error())
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		logger.Log.Fatal("failed to migrate: " + err.Error())
	}

	if err := Seed(db, cfg); err != nil {
		logger.Log.Fatal("failed to seed: " + err.Error())
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TrainerProfile{},
		&models.Package{},
		&models.MemberProfile{},
		&models.Transaction{},
		&models.Settings{},
		&models.AuditLog{},
	)
}

// Seed ensures the settings row and, when ADMIN_PASSWORD is set, an
// initial admin account. Both writes are idempotent.
func Seed(db *gorm.DB, cfg *config.Config) error {
	if err := EnsureSettings(db, cfg.DefaultAdmissionFee); err != nil {
		return err
	}

	if cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ?", cfg.AdminUsername).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := password.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Log.Info("seeded admin user " + cfg.AdminUsername)
	return nil
}

// EnsureSettings upserts the singleton settings row. ON CONFLICT DO
// NOTHING keeps concurrent first reads from creating duplicates.
func EnsureSettings(db *gorm.DB, defaultAdmissionFee float64) error {
	row := models.Settings{ID: models.SettingsID, AdmissionFee: defaultAdmissionFee}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}
