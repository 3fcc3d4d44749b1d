package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/httpresp"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
)

type TrainerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewTrainerHandler(db *gorm.DB, audit *audit.Dispatcher) *TrainerHandler {
	return &TrainerHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateTrainerRequest struct {
	Specialization string `json:"specialization" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`

	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	DateOfBirth  string  `json:"date_of_birth"`
	CNIC         string  `json:"cnic"`
	SalaryRate   float64 `json:"salary_rate"`
	Availability string  `json:"availability"`
}

type UpdateTrainerRequest struct {
	FullName       *string  `json:"full_name,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty"`
	Gender         *string  `json:"gender,omitempty"`
	DateOfBirth    *string  `json:"date_of_birth,omitempty"`
	CNIC           *string  `json:"cnic,omitempty"`
	SalaryRate     *float64 `json:"salary_rate,omitempty"`
	Availability   *string  `json:"availability,omitempty"`
}

// --------- Responses ---------

type trainerResponse struct {
	models.TrainerProfile
	Username             string `json:"username,omitempty"`
	AssignedMembersCount *int64 `json:"assigned_members_count,omitempty"`
}

// --------- Handlers ---------

func (h *TrainerHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	var total int64
	if err := h.db.Model(&models.TrainerProfile{}).Count(&total).Error; err != nil {
		logger.Log.Error("trainer count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var trainers []models.TrainerProfile
	if err := h.db.
		Preload("User").
		Order("created_at DESC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&trainers).Error; err != nil {

		logger.Log.Error("trainer list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	rows := make([]trainerResponse, 0, len(trainers))
	for _, t := range trainers {
		var assigned int64
		h.db.Model(&models.MemberProfile{}).Where("trainer_id = ?", t.ID).Count(&assigned)

		rows = append(rows, trainerResponse{
			TrainerProfile:       t,
			Username:             t.User.Username,
			AssignedMembersCount: &assigned,
		})
	}

	httpresp.Paginated(c, "trainers", rows, total, page, perPage)
}

func (h *TrainerHandler) Get(c *gin.Context) {
	var trainer models.TrainerProfile
	if err := h.db.
		Preload("User").
		First(&trainer, "id = ?", c.Param("id")).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Trainer not found")
			return
		}
		logger.Log.Error("trainer get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, trainerResponse{TrainerProfile: trainer, Username: trainer.User.Username})
}

func (h *TrainerHandler) Create(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing or invalid required fields")
		return
	}

	hash, err := password.Hash(uuid.NewString())
	if err != nil {
		logger.Log.Error("password hash failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	user := models.User{
		Username:     generateTrainerUsername(req.Email),
		PasswordHash: hash,
		Role:         models.RoleTrainer,
		IsActive:     true,
	}

	trainer := models.TrainerProfile{
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Email:          req.Email,
		FullName:       req.FullName,
		Gender:         req.Gender,
		CNIC:           req.CNIC,
		SalaryRate:     req.SalaryRate,
		Availability:   req.Availability,
	}
	if dob := parseDate(req.DateOfBirth); dob != nil {
		trainer.DateOfBirth = dob
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		trainer.UserID = user.ID
		return tx.Create(&trainer).Error
	})
	if err != nil {
		logger.Log.Error("trainer create failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "trainer_created",
		Entity:   "trainer",
		EntityID: trainer.ID,
		Metadata: map[string]any{"specialization": trainer.Specialization},
	})

	c.JSON(http.StatusCreated, trainer)
}

func (h *TrainerHandler) Update(c *gin.Context) {
	var trainer models.TrainerProfile
	if err := h.db.First(&trainer, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Trainer not found")
			return
		}
		logger.Log.Error("trainer get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var req UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.FullName != nil {
		trainer.FullName = *req.FullName
	}
	if req.Specialization != nil {
		trainer.Specialization = *req.Specialization
	}
	if req.Phone != nil {
		trainer.Phone = *req.Phone
	}
	if req.Email != nil {
		trainer.Email = *req.Email
	}
	if req.Gender != nil {
		trainer.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		trainer.DateOfBirth = parseDate(*req.DateOfBirth)
	}
	if req.CNIC != nil {
		trainer.CNIC = *req.CNIC
	}
	if req.SalaryRate != nil {
		trainer.SalaryRate = *req.SalaryRate
	}
	if req.Availability != nil {
		trainer.Availability = *req.Availability
	}

	if err := h.db.Save(&trainer).Error; err != nil {
		logger.Log.Error("trainer update failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var username string
	var user models.User
	if err := h.db.First(&user, "id = ?", trainer.UserID).Error; err == nil {
		username = user.Username
	}

	c.JSON(http.StatusOK, trainerResponse{TrainerProfile: trainer, Username: username})
}

func (h *TrainerHandler) Delete(c *gin.Context) {
	var trainer models.TrainerProfile
	if err := h.db.First(&trainer, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Trainer not found")
			return
		}
		logger.Log.Error("trainer get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		// Assigned members keep their profile; the assignment is cleared.
		if err := tx.Model(&models.MemberProfile{}).
			Where("trainer_id = ?", trainer.ID).
			Update("trainer_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.TrainerProfile{}, "id = ?", trainer.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", trainer.UserID).Error
	})
	if err != nil {
		logger.Log.Error("trainer delete failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "trainer_deleted",
		Entity:   "trainer",
		EntityID: trainer.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Trainer deleted successfully"})
}

func generateTrainerUsername(email string) string {
	prefix := email
	if at := strings.Index(email, "@"); at > 0 {
		prefix = email[:at]
	}
	return prefix + "_" + uuid.NewString()[:8]
}
