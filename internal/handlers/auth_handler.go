package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/config"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/mailer"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/password"
	"github.com/fitcore/gym-backend/internal/tokens"
)

type AuthHandler struct {
	db        *gorm.DB
	config    *config.Config
	blacklist tokens.Blacklist
	mail      *mailer.Mailer
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, blacklist tokens.Blacklist, mail *mailer.Mailer) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, blacklist: blacklist, mail: mail}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// --------- Responses ---------

type userResponse struct {
	models.User
	FullName *string `json:"full_name,omitempty"`
}

func (h *AuthHandler) userView(user *models.User) userResponse {
	view := userResponse{User: *user}

	switch user.Role {
	case models.RoleMember:
		var profile models.MemberProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			view.FullName = &profile.FullName
		}
	case models.RoleTrainer:
		var profile models.TrainerProfile
		if err := h.db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil && profile.FullName != "" {
			view.FullName = &profile.FullName
		}
	}

	return view
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing username or password")
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "Invalid credentials")
			return
		}
		logger.Log.Error("login lookup failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		httperr.Unauthorized(c, "Invalid credentials")
		return
	}

	if !user.IsActive {
		httperr.Forbidden(c, "Account is frozen")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		logger.Log.Error("token generation failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         h.userView(&user),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if h.blacklist != nil {
		jti := c.GetString(middleware.ContextTokenID)
		if exp, ok := c.Get(middleware.ContextTokenExp); ok && jti != "" {
			ttl := time.Until(time.Unix(exp.(int64), 0))
			if err := h.blacklist.Revoke(c.Request.Context(), jti, ttl); err != nil {
				logger.Log.Warn("token revocation failed: " + err.Error())
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil || !user.IsActive {
		httperr.Unauthorized(c, "Unauthorized")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		logger.Log.Error("token generation failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing email")
		return
	}

	// The response never reveals whether the account exists.
	respond := func() {
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
	}

	user := h.findUserByProfileEmail(req.Email)
	if user == nil {
		respond()
		return
	}

	token := uuid.NewString()
	expiry := time.Now().UTC().Add(time.Hour)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	if err := h.db.Save(user).Error; err != nil {
		logger.Log.Error("reset token save failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	if h.mail != nil {
		if err := h.mail.SendPasswordReset(req.Email, user.Username, token); err != nil {
			logger.Log.Warn("reset mail failed: " + err.Error())
		}
	}

	respond()
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing required fields")
		return
	}

	if len(req.NewPassword) < 6 {
		httperr.BadRequest(c, "Password must be at least 6 characters")
		return
	}

	var user models.User
	if err := h.db.Where("reset_token = ?", req.Token).First(&user).Error; err != nil {
		httperr.Unauthorized(c, "Invalid or expired token")
		return
	}

	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now().UTC()) {
		httperr.Unauthorized(c, "Invalid or expired token")
		return
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		logger.Log.Error("password hash failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	user.PasswordHash = hash
	user.ResetToken = nil
	user.ResetTokenExpiry = nil

	if err := h.db.Save(&user).Error; err != nil {
		logger.Log.Error("password reset save failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) findUserByProfileEmail(email string) *models.User {
	var member models.MemberProfile
	if err := h.db.Where("email = ?", email).First(&member).Error; err == nil {
		var user models.User
		if err := h.db.First(&user, "id = ?", member.UserID).Error; err == nil {
			return &user
		}
	}

	var trainer models.TrainerProfile
	if err := h.db.Where("email = ?", email).First(&trainer).Error; err == nil {
		var user models.User
		if err := h.db.First(&user, "id = ?", trainer.UserID).Error; err == nil {
			return &user
		}
	}

	return nil
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"jti":      uuid.NewString(),
		"exp":      now.Add(h.config.JWTTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
