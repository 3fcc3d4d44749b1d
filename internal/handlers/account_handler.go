package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
)

type AccountHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAccountHandler(db *gorm.DB, audit *audit.Dispatcher) *AccountHandler {
	return &AccountHandler{db: db, audit: audit}
}

// --------- Requests ---------

type UpdateProfileRequest struct {
	CurrentPassword string  `json:"current_password" binding:"required"`
	Username        *string `json:"username,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// --------- Handlers ---------

func (h *AccountHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID := c.GetString(middleware.ContextUserID)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "Unauthorized")
			return nil, false
		}
		logger.Log.Error("user lookup failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return nil, false
	}

	return &user, true
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing current password")
		return
	}

	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		httperr.Unauthorized(c, "Current password is incorrect")
		return
	}

	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		var count int64
		if err := h.db.Model(&models.User{}).
			Where("username = ? AND id <> ?", *req.Username, user.ID).
			Count(&count).Error; err != nil {
			logger.Log.Error("username check failed: " + err.Error())
			httperr.Internal(c, "Internal server error")
			return
		}
		if count > 0 {
			httperr.Conflict(c, "Username is already taken")
			return
		}
		user.Username = *req.Username
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		if len(*req.NewPassword) < 6 {
			httperr.BadRequest(c, "Password must be at least 6 characters")
			return
		}
		hash, err := password.Hash(*req.NewPassword)
		if err != nil {
			logger.Log.Error("password hash failed: " + err.Error())
			httperr.Internal(c, "Internal server error")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.db.Save(user).Error; err != nil {
		logger.Log.Error("profile update failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "profile_updated",
		Entity:   "user",
		EntityID: user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *AccountHandler) ChangePassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing required fields")
		return
	}

	if len(req.NewPassword) < 6 {
		httperr.BadRequest(c, "Password must be at least 6 characters")
		return
	}

	if !password.Verify(req.CurrentPassword, user.PasswordHash) {
		httperr.Unauthorized(c, "Current password is incorrect")
		return
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		logger.Log.Error("password hash failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	user.PasswordHash = hash
	if err := h.db.Save(user).Error; err != nil {
		logger.Log.Error("password change failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "password_changed",
		Entity:   "user",
		EntityID: user.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
