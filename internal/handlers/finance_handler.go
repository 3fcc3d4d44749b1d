package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/billing"
	"github.com/fitcore/gym-backend/internal/dto"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/httpresp"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
)

type FinanceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewFinanceHandler(db *gorm.DB, audit *audit.Dispatcher) *FinanceHandler {
	return &FinanceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type MarkPaidRequest struct {
	PaidDate string `json:"paid_date"`
}

// --------- Helpers ---------

func paymentRow(t models.Transaction, now time.Time) dto.PaymentRowDTO {
	return dto.PaymentRowDTO{
		ID:              t.ID,
		MemberID:        t.MemberID,
		Username:        t.Member.User.Username,
		FullName:        t.Member.FullName,
		Phone:           t.Member.Phone,
		Amount:          t.Amount,
		TransactionType: t.TransactionType,
		Status:          billing.PresentedStatus(t.Status, t.DueDate, now),
		DueDate:         t.DueDate,
		PaidDate:        t.PaidDate,
		CreatedAt:       t.CreatedAt,
		TrainerFee:      t.TrainerFee,
		PackagePrice:    t.PackagePrice,
		DiscountAmount:  t.DiscountAmount,
		DiscountType:    t.DiscountType,
	}
}

// statusFilter translates a presented status into its stored-column
// predicate. OVERDUE only exists as a projection over the due date.
func statusFilter(query *gorm.DB, status string, now time.Time) *gorm.DB {
	switch status {
	case models.StatusCompleted:
		return query.Where("status = ?", models.StatusCompleted)
	case models.StatusOverdue:
		return query.Where("status <> ? AND due_date IS NOT NULL AND due_date < ?",
			models.StatusCompleted, now)
	case models.StatusPending:
		return query.Where("status = ? AND (due_date IS NULL OR due_date >= ?)",
			models.StatusPending, now)
	default:
		return query
	}
}

// --------- Handlers ---------

func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	now := time.Now().UTC()

	query := h.db.Model(&models.Transaction{})
	if status := c.Query("status"); status != "" {
		switch status {
		case models.StatusPending, models.StatusCompleted, models.StatusOverdue:
		default:
			httperr.BadRequest(c, "Invalid status")
			return
		}
		query = statusFilter(query, status, now)
	}
	if txType := c.Query("type"); txType != "" {
		query = query.Where("transaction_type = ?", txType)
	}
	if memberID := c.Query("member_id"); memberID != "" {
		query = query.Where("member_id = ?", memberID)
	}
	// Count and Find share the filter set but not builder state.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("transaction count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var txns []models.Transaction
	if err := query.
		Preload("Member").
		Preload("Member.User").
		Order("created_at DESC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&txns).Error; err != nil {

		logger.Log.Error("transaction list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	rows := make([]dto.PaymentRowDTO, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, paymentRow(t, now))
	}

	httpresp.Paginated(c, "transactions", rows, total, page, perPage)
}

func (h *FinanceHandler) MarkPaid(c *gin.Context) {
	var txn models.Transaction
	if err := h.db.First(&txn, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Transaction not found")
			return
		}
		logger.Log.Error("transaction get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	if txn.Status == models.StatusCompleted {
		httperr.BadRequest(c, "Transaction is already paid")
		return
	}

	var req MarkPaidRequest
	// The body is optional; paid date defaults to now.
	_ = c.ShouldBindJSON(&req)

	paidDate := time.Now().UTC()
	if parsed := parseDateTime(req.PaidDate); parsed != nil {
		paidDate = *parsed
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		txn.Status = models.StatusCompleted
		txn.PaidDate = &paidDate

		if err := tx.Save(&txn).Error; err != nil {
			return err
		}

		if txn.TransactionType == models.TransactionAdmission {
			return tx.Model(&models.MemberProfile{}).
				Where("id = ?", txn.MemberID).
				Update("admission_fee_paid", true).Error
		}
		return nil
	})
	if err != nil {
		logger.Log.Error("mark paid failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "transaction_paid",
		Entity:   "transaction",
		EntityID: txn.ID,
		Metadata: map[string]any{"amount": txn.Amount, "type": txn.TransactionType},
	})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Transaction marked as paid",
		"transaction": txn,
	})
}

func (h *FinanceHandler) Overdue(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	now := time.Now().UTC()

	query := statusFilter(h.db.Model(&models.Transaction{}), models.StatusOverdue, now).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("overdue count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var txns []models.Transaction
	if err := query.
		Preload("Member").
		Preload("Member.User").
		Order("due_date ASC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&txns).Error; err != nil {

		logger.Log.Error("overdue list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	rows := make([]dto.PaymentRowDTO, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, paymentRow(t, now))
	}

	httpresp.Paginated(c, "overdue", rows, total, page, perPage)
}

func (h *FinanceHandler) Reports(c *gin.Context) {
	now := time.Now().UTC()

	var txns []models.Transaction
	if err := h.db.Find(&txns).Error; err != nil {
		logger.Log.Error("report query failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var (
		collected, pending, overdue    float64
		collectedN, pendingN, overdueN int
	)
	byType := map[string]float64{}

	for _, t := range txns {
		switch billing.PresentedStatus(t.Status, t.DueDate, now) {
		case models.StatusCompleted:
			collected += t.Amount
			collectedN++
			byType[t.TransactionType] += t.Amount
		case models.StatusOverdue:
			overdue += t.Amount
			overdueN++
		default:
			pending += t.Amount
			pendingN++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_collected":    collected,
		"total_pending":      pending,
		"total_overdue":      overdue,
		"collected_count":    collectedN,
		"pending_count":      pendingN,
		"overdue_count":      overdueN,
		"collected_by_type":  byType,
		"transactions_total": len(txns),
	})
}
