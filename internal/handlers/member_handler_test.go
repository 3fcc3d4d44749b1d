package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/infra/repository"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/testutil"
	ucMember "github.com/fitcore/gym-backend/internal/usecase/member"
)

func memberRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	auditor := audit.NewDispatcher(audit.New(db))
	repo := repository.NewEnrollmentGormRepository(db)
	h := NewMemberHandler(db,
		ucMember.NewEnrollMember(repo, auditor, 5000),
		ucMember.NewRemoveMember(repo, auditor),
	)

	r := gin.New()
	r.GET("/api/admin/members", h.List)
	r.POST("/api/admin/members", h.Create)
	r.GET("/api/admin/members/:id", h.Get)
	r.PUT("/api/admin/members/:id", h.Update)
	r.DELETE("/api/admin/members/:id", h.Delete)
	return r
}

func TestCreateMember(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	pkg := testutil.CreatePackage(t, db, "Monthly", 30, 5000)
	trainer := testutil.CreateTrainer(t, db, "coach", "strength")

	w := postJSON(t, r, "/api/admin/members", gin.H{
		"full_name":      "Ali Raza",
		"phone":          "+923001112233",
		"cnic":           "12345-1234567-1",
		"email":          "ali@example.com",
		"package_id":     pkg.ID,
		"trainer_id":     trainer.ID,
		"admission_fee":  1000,
		"trainer_charge": 500,
		"discount":       10,
		"discount_type":  "percentage",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var member models.MemberProfile
	if err := db.Where("email = ?", "ali@example.com").First(&member).Error; err != nil {
		t.Fatalf("member not persisted: %v", err)
	}

	if member.CurrentPackageID == nil || *member.CurrentPackageID != pkg.ID {
		t.Error("package not assigned")
	}
	if member.PackageExpiryDate == nil {
		t.Fatal("package expiry not set")
	}

	// An auto-generated credential backs the profile.
	var user models.User
	if err := db.First(&user, "id = ?", member.UserID).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Role != models.RoleMember {
		t.Errorf("role = %q, want member", user.Role)
	}

	// One pending admission invoice: (1000 + 5000 + 500) minus 10%.
	var txn models.Transaction
	if err := db.Where("member_id = ?", member.ID).First(&txn).Error; err != nil {
		t.Fatalf("transaction not created: %v", err)
	}
	if txn.TransactionType != models.TransactionAdmission {
		t.Errorf("type = %q, want ADMISSION", txn.TransactionType)
	}
	if txn.Status != models.StatusPending {
		t.Errorf("status = %q, want PENDING", txn.Status)
	}
	if txn.Amount != 5850 {
		t.Errorf("amount = %v, want 5850", txn.Amount)
	}
	if txn.DueDate == nil || !txn.DueDate.Equal(*member.PackageExpiryDate) {
		t.Errorf("due date = %v, want package expiry %v", txn.DueDate, member.PackageExpiryDate)
	}
}

func TestCreateMemberValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	base := gin.H{
		"full_name": "Sara Khan",
		"phone":     "+923009998877",
		"cnic":      "54321-7654321-1",
		"email":     "sara@example.com",
	}

	t.Run("invalid phone", func(t *testing.T) {
		body := gin.H{}
		for k, v := range base {
			body[k] = v
		}
		body["phone"] = "abc"

		w := postJSON(t, r, "/api/admin/members", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid cnic", func(t *testing.T) {
		body := gin.H{}
		for k, v := range base {
			body[k] = v
		}
		body["cnic"] = "12-34"

		w := postJSON(t, r, "/api/admin/members", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("discount exceeding total", func(t *testing.T) {
		body := gin.H{}
		for k, v := range base {
			body[k] = v
		}
		body["admission_fee"] = 1000
		body["discount"] = 5000
		body["discount_type"] = "fixed"

		w := postJSON(t, r, "/api/admin/members", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing package", func(t *testing.T) {
		body := gin.H{}
		for k, v := range base {
			body[k] = v
		}
		body["package_id"] = "no-such-package"

		w := postJSON(t, r, "/api/admin/members", body)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404, body %s", w.Code, w.Body.String())
		}
	})
}

func TestCreateMemberDuplicateContact(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	testutil.CreateMember(t, db, "First", "+923001112233", "12345-1234567-1", "first@example.com")

	w := postJSON(t, r, "/api/admin/members", gin.H{
		"full_name": "Second",
		"phone":     "+923001112233",
		"cnic":      "99999-9999999-9",
		"email":     "second@example.com",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] != "A member with this phone already exists" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestUpdateMember(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	member := testutil.CreateMember(t, db, "Old Name", "+923001112233", "12345-1234567-1", "old@example.com")
	pkg := testutil.CreatePackage(t, db, "Quarterly", 90, 12000)

	w := putJSON(t, r, "/api/admin/members/"+member.ID, gin.H{
		"full_name":  "New Name",
		"package_id": pkg.ID,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var updated models.MemberProfile
	db.First(&updated, "id = ?", member.ID)

	if updated.FullName != "New Name" {
		t.Errorf("full name = %q", updated.FullName)
	}
	if updated.CurrentPackageID == nil || *updated.CurrentPackageID != pkg.ID {
		t.Fatal("package not assigned")
	}
	if updated.PackageStartDate == nil || updated.PackageExpiryDate == nil {
		t.Fatal("package window not recomputed")
	}
	wantExpiry := updated.PackageStartDate.AddDate(0, 0, 90)
	if !updated.PackageExpiryDate.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", updated.PackageExpiryDate, wantExpiry)
	}
}

func TestUpdateMemberDuplicateContact(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	testutil.CreateMember(t, db, "Holder", "+923001112233", "12345-1234567-1", "holder@example.com")
	other := testutil.CreateMember(t, db, "Other", "+923009998877", "54321-7654321-1", "other@example.com")

	w := putJSON(t, r, "/api/admin/members/"+other.ID, gin.H{
		"phone": "+923001112233",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", w.Code, w.Body.String())
	}
}

func TestDeleteMemberCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	member := testutil.CreateMember(t, db, "Leaver", "+923001112233", "12345-1234567-1", "leaver@example.com")
	due := time.Now().UTC().Add(7 * 24 * time.Hour)
	testutil.CreateTransaction(t, db, member.ID, 5000, models.TransactionAdmission, models.StatusPending, &due)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/members/"+member.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var members, users, txns int64
	db.Model(&models.MemberProfile{}).Where("id = ?", member.ID).Count(&members)
	db.Model(&models.User{}).Where("id = ?", member.UserID).Count(&users)
	db.Model(&models.Transaction{}).Where("member_id = ?", member.ID).Count(&txns)

	if members != 0 || users != 0 || txns != 0 {
		t.Errorf("leftovers after delete: members=%d users=%d txns=%d", members, users, txns)
	}
}

func TestDeleteMemberNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/members/missing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestListMembersPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := memberRouter(db)

	testutil.CreateMember(t, db, "A", "+923000000001", "11111-1111111-1", "a@example.com")
	testutil.CreateMember(t, db, "B", "+923000000002", "22222-2222222-2", "b@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/members?page=1&per_page=1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", body["total"])
	}
	if rows := body["members"].([]any); len(rows) != 1 {
		t.Errorf("rows = %d, want 1", len(rows))
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/admin/members?page=0", nil)
	wb := httptest.NewRecorder()
	r.ServeHTTP(wb, bad)
	if wb.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", wb.Code)
	}
}
