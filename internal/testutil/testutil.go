package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/fitcore/gym-backend/internal/db"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
)

// NewTestDB opens an isolated in-memory database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if logger.Log == nil {
		logger.Init()
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// One connection keeps every query on the same :memory: instance.
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username, plainPassword, role string) *models.User {
	t.Helper()

	hash, err := password.Hash(plainPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func CreatePackage(t *testing.T, db *gorm.DB, name string, durationDays int, price float64) *models.Package {
	t.Helper()

	pkg := models.Package{
		Name:         name,
		DurationDays: durationDays,
		Price:        price,
		IsActive:     true,
	}
	if err := db.Create(&pkg).Error; err != nil {
		t.Fatalf("create package: %v", err)
	}
	return &pkg
}

func CreateTrainer(t *testing.T, db *gorm.DB, fullName, specialization string) *models.TrainerProfile {
	t.Helper()

	user := CreateUser(t, db, fullName+"_trainer", "secret123", models.RoleTrainer)

	trainer := models.TrainerProfile{
		UserID:         user.ID,
		FullName:       fullName,
		Specialization: specialization,
		Phone:          "+100000" + user.ID[:4],
		Email:          fullName + "@trainers.test",
	}
	if err := db.Create(&trainer).Error; err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	return &trainer
}

func CreateMember(t *testing.T, db *gorm.DB, fullName, phone, cnic, email string) *models.MemberProfile {
	t.Helper()

	user := CreateUser(t, db, email, "secret123", models.RoleMember)

	member := models.MemberProfile{
		UserID:   user.ID,
		FullName: fullName,
		Phone:    phone,
		CNIC:     cnic,
		Email:    email,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("create member: %v", err)
	}
	return &member
}

func CreateTransaction(
	t *testing.T,
	db *gorm.DB,
	memberID string,
	amount float64,
	txType, status string,
	dueDate *time.Time,
) *models.Transaction {
	t.Helper()

	txn := models.Transaction{
		MemberID:        memberID,
		Amount:          amount,
		TransactionType: txType,
		Status:          status,
		DueDate:         dueDate,
	}
	if err := db.Create(&txn).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return &txn
}

// MemoryBlacklist is an in-process stand-in for the Redis blacklist.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.revoked[jti]
	return ok && time.Now().Before(exp), nil
}
