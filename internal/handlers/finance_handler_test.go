package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/testutil"
)

func financeRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewFinanceHandler(db, audit.NewDispatcher(audit.New(db)))

	r := gin.New()
	r.GET("/api/finance/transactions", h.ListTransactions)
	r.POST("/api/finance/transactions/:id/mark-paid", h.MarkPaid)
	r.GET("/api/finance/overdue", h.Overdue)
	r.GET("/api/finance/reports", h.Reports)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, body %s", path, w.Code, w.Body.String())
	}
	return w, decodeBody(t, w)
}

func TestOverdueIsAProjection(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Late Payer", "+923001112233", "12345-1234567-1", "late@example.com")

	pastDue := time.Now().UTC().Add(-5 * 24 * time.Hour)
	txn := testutil.CreateTransaction(t, db, member.ID, 5000,
		models.TransactionAdmission, models.StatusPending, &pastDue)

	_, body := getJSON(t, r, "/api/finance/overdue")
	rows := body["overdue"].([]any)
	if len(rows) != 1 {
		t.Fatalf("overdue rows = %d, want 1", len(rows))
	}

	row := rows[0].(map[string]any)
	if row["status"] != models.StatusOverdue {
		t.Errorf("presented status = %v, want OVERDUE", row["status"])
	}

	// The stored row never flips; OVERDUE exists only in responses.
	var stored models.Transaction
	db.First(&stored, "id = ?", txn.ID)
	if stored.Status != models.StatusPending {
		t.Errorf("stored status = %q, want PENDING", stored.Status)
	}
}

func TestOverduePagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Serial Debtor", "+923001112233", "12345-1234567-1", "debtor@example.com")

	now := time.Now().UTC()
	for days := 1; days <= 3; days++ {
		due := now.Add(-time.Duration(days) * 24 * time.Hour)
		testutil.CreateTransaction(t, db, member.ID, float64(days)*1000,
			models.TransactionPayment, models.StatusPending, &due)
	}

	_, body := getJSON(t, r, "/api/finance/overdue?page=1&per_page=1")

	if body["total"].(float64) != 3 {
		t.Errorf("total = %v, want 3", body["total"])
	}
	if body["page"].(float64) != 1 || body["per_page"].(float64) != 1 {
		t.Errorf("envelope = page %v per_page %v, want 1/1", body["page"], body["per_page"])
	}

	rows := body["overdue"].([]any)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	// Oldest due date first.
	if rows[0].(map[string]any)["amount"].(float64) != 3000 {
		t.Errorf("unexpected first row: %v", rows[0])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/finance/overdue?page=-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListTransactionsStatusFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Payer", "+923001112233", "12345-1234567-1", "payer@example.com")

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	testutil.CreateTransaction(t, db, member.ID, 100, models.TransactionPayment, models.StatusPending, &past)
	testutil.CreateTransaction(t, db, member.ID, 200, models.TransactionPayment, models.StatusPending, &future)
	paid := testutil.CreateTransaction(t, db, member.ID, 300, models.TransactionPayment, models.StatusCompleted, &past)
	db.Model(paid).Update("paid_date", now)

	cases := []struct {
		filter string
		want   int
	}{
		{"OVERDUE", 1},
		{"PENDING", 1},
		{"COMPLETED", 1},
		{"", 3},
	}

	for _, tc := range cases {
		path := "/api/finance/transactions"
		if tc.filter != "" {
			path += "?status=" + tc.filter
		}

		_, body := getJSON(t, r, path)
		if rows := body["transactions"].([]any); len(rows) != tc.want {
			t.Errorf("filter %q: rows = %d, want %d", tc.filter, len(rows), tc.want)
		}
	}

	t.Run("unknown status rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/finance/transactions?status=BOGUS", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
		}
		if decodeBody(t, w)["error"] != "Invalid status" {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestMarkPaid(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Admitted", "+923001112233", "12345-1234567-1", "admitted@example.com")
	if member.AdmissionFeePaid {
		t.Fatal("fixture should start unpaid")
	}

	due := time.Now().UTC().Add(-24 * time.Hour)
	txn := testutil.CreateTransaction(t, db, member.ID, 5000,
		models.TransactionAdmission, models.StatusPending, &due)

	w := postJSON(t, r, "/api/finance/transactions/"+txn.ID+"/mark-paid", gin.H{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var paid models.Transaction
	db.First(&paid, "id = ?", txn.ID)
	if paid.Status != models.StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", paid.Status)
	}
	if paid.PaidDate == nil {
		t.Error("paid date not set")
	}

	// Settling the admission invoice flips the member flag.
	var updated models.MemberProfile
	db.First(&updated, "id = ?", member.ID)
	if !updated.AdmissionFeePaid {
		t.Error("admission_fee_paid not flipped")
	}

	t.Run("already paid", func(t *testing.T) {
		w := postJSON(t, r, "/api/finance/transactions/"+txn.ID+"/mark-paid", gin.H{})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing transaction", func(t *testing.T) {
		w := postJSON(t, r, "/api/finance/transactions/ghost/mark-paid", gin.H{})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})
}

func TestMarkPaidExplicitDate(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Backdated", "+923001112233", "12345-1234567-1", "back@example.com")
	txn := testutil.CreateTransaction(t, db, member.ID, 1000,
		models.TransactionPayment, models.StatusPending, nil)

	w := postJSON(t, r, "/api/finance/transactions/"+txn.ID+"/mark-paid", gin.H{
		"paid_date": "2025-03-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var paid models.Transaction
	db.First(&paid, "id = ?", txn.ID)
	if paid.PaidDate == nil || paid.PaidDate.Format("2006-01-02") != "2025-03-01" {
		t.Errorf("paid date = %v, want 2025-03-01", paid.PaidDate)
	}
}

func TestReports(t *testing.T) {
	db := testutil.NewTestDB(t)
	r := financeRouter(db)

	member := testutil.CreateMember(t, db, "Reporter", "+923001112233", "12345-1234567-1", "report@example.com")

	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	paid := testutil.CreateTransaction(t, db, member.ID, 5000, models.TransactionAdmission, models.StatusCompleted, &past)
	db.Model(paid).Update("paid_date", now)
	testutil.CreateTransaction(t, db, member.ID, 2000, models.TransactionPayment, models.StatusPending, &future)
	testutil.CreateTransaction(t, db, member.ID, 1500, models.TransactionPayment, models.StatusPending, &past)

	_, body := getJSON(t, r, "/api/finance/reports")

	if body["total_collected"].(float64) != 5000 {
		t.Errorf("collected = %v, want 5000", body["total_collected"])
	}
	if body["total_pending"].(float64) != 2000 {
		t.Errorf("pending = %v, want 2000", body["total_pending"])
	}
	if body["total_overdue"].(float64) != 1500 {
		t.Errorf("overdue = %v, want 1500", body["total_overdue"])
	}
}
