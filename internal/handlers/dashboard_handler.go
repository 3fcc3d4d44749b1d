package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/models"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	now := time.Now().UTC()

	var totalMembers, activeMembers, frozenMembers, totalTrainers int64
	h.db.Model(&models.MemberProfile{}).Count(&totalMembers)
	h.db.Model(&models.MemberProfile{}).Where("is_frozen = ?", false).Count(&activeMembers)
	h.db.Model(&models.MemberProfile{}).Where("is_frozen = ?", true).Count(&frozenMembers)
	h.db.Model(&models.TrainerProfile{}).Count(&totalTrainers)

	var overdueCount int64
	if err := statusFilter(h.db.Model(&models.Transaction{}), models.StatusOverdue, now).
		Count(&overdueCount).Error; err != nil {
		logger.Log.Error("overdue count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var monthCollected float64
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	h.db.Model(&models.Transaction{}).
		Where("status = ? AND paid_date >= ?", models.StatusCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthCollected)

	c.JSON(http.StatusOK, gin.H{
		"total_members":        totalMembers,
		"active_members":       activeMembers,
		"frozen_members":       frozenMembers,
		"total_trainers":       totalTrainers,
		"overdue_transactions": overdueCount,
		"month_collected":      monthCollected,
	})
}

// RevenueProjection estimates monthly recurring revenue from members
// whose package window is still open, normalizing each package price to
// a 30 day month.
func (h *DashboardHandler) RevenueProjection(c *gin.Context) {
	now := time.Now().UTC()

	var members []models.MemberProfile
	if err := h.db.
		Preload("CurrentPackage").
		Where("is_frozen = ? AND current_package_id IS NOT NULL", false).
		Find(&members).Error; err != nil {

		logger.Log.Error("projection query failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var projected float64
	var counted int
	for _, m := range members {
		if m.CurrentPackage == nil || !m.CurrentPackage.IsActive {
			continue
		}
		if m.PackageExpiryDate != nil && m.PackageExpiryDate.Before(now) {
			continue
		}
		if m.CurrentPackage.DurationDays <= 0 {
			continue
		}
		projected += m.CurrentPackage.Price / float64(m.CurrentPackage.DurationDays) * 30
		counted++
	}

	c.JSON(http.StatusOK, gin.H{
		"projected_monthly_revenue": projected,
		"active_subscriptions":      counted,
	})
}

func (h *DashboardHandler) RevenueTrend(c *gin.Context) {
	now := time.Now().UTC()

	type point struct {
		Month   string  `json:"month"`
		Revenue float64 `json:"revenue"`
	}

	points := make([]point, 0, 6)
	for i := 5; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var sum float64
		if err := h.db.Model(&models.Transaction{}).
			Where("status = ? AND paid_date >= ? AND paid_date < ?",
				models.StatusCompleted, monthStart, monthEnd).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&sum).Error; err != nil {

			logger.Log.Error("revenue trend query failed: " + err.Error())
			httperr.Internal(c, "Internal server error")
			return
		}

		points = append(points, point{Month: monthStart.Format("2006-01"), Revenue: sum})
	}

	c.JSON(http.StatusOK, gin.H{"trend": points})
}

func (h *DashboardHandler) MemberGrowth(c *gin.Context) {
	now := time.Now().UTC()

	type point struct {
		Month   string `json:"month"`
		Members int64  `json:"members"`
	}

	points := make([]point, 0, 6)
	for i := 5; i >= 0; i-- {
		monthEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, -i+1, 0)

		var count int64
		if err := h.db.Model(&models.MemberProfile{}).
			Where("created_at < ?", monthEnd).
			Count(&count).Error; err != nil {

			logger.Log.Error("member growth query failed: " + err.Error())
			httperr.Internal(c, "Internal server error")
			return
		}

		points = append(points, point{
			Month:   monthEnd.AddDate(0, -1, 0).Format("2006-01"),
			Members: count,
		})
	}

	c.JSON(http.StatusOK, gin.H{"growth": points})
}
