package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/config"
	"github.com/fitcore/gym-backend/internal/db"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
)

type SettingsHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewSettingsHandler(database *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *SettingsHandler {
	return &SettingsHandler{db: database, config: cfg, audit: audit}
}

type UpdateSettingsRequest struct {
	AdmissionFee *float64 `json:"admission_fee,omitempty"`
}

// load upserts the singleton row before reading it, so a fresh database
// serves defaults instead of a 404.
func (h *SettingsHandler) load() (*models.Settings, error) {
	if err := db.EnsureSettings(h.db, h.config.DefaultAdmissionFee); err != nil {
		return nil, err
	}

	var settings models.Settings
	if err := h.db.First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.load()
	if err != nil {
		logger.Log.Error("settings load failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	settings, err := h.load()
	if err != nil {
		logger.Log.Error("settings load failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.AdmissionFee != nil {
		if *req.AdmissionFee < 0 {
			httperr.BadRequest(c, "Admission fee cannot be negative")
			return
		}
		settings.AdmissionFee = *req.AdmissionFee
	}

	if err := h.db.Save(settings).Error; err != nil {
		logger.Log.Error("settings update failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "settings_updated",
		Entity:   "settings",
		EntityID: "1",
		Metadata: map[string]any{"admission_fee": settings.AdmissionFee},
	})

	c.JSON(http.StatusOK, settings)
}
