package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/httpresp"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	query := h.db.Model(&models.AuditLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("audit log count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var logs []models.AuditLog
	if err := query.
		Order("created_at DESC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&logs).Error; err != nil {

		logger.Log.Error("audit log list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	httpresp.Paginated(c, "audit_logs", logs, total, page, perPage)
}
