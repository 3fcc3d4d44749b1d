package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/billing"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/httpresp"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
	ucMember "github.com/fitcore/gym-backend/internal/usecase/member"
	"github.com/fitcore/gym-backend/internal/validators"
)

type MemberHandler struct {
	db       *gorm.DB
	enrollUC *ucMember.EnrollMember
	removeUC *ucMember.RemoveMember
}

func NewMemberHandler(
	db *gorm.DB,
	enrollUC *ucMember.EnrollMember,
	removeUC *ucMember.RemoveMember,
) *MemberHandler {
	return &MemberHandler{
		db:       db,
		enrollUC: enrollUC,
		removeUC: removeUC,
	}
}

// --------- Requests ---------

type CreateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	CNIC     string `json:"cnic" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Gender   string `json:"gender"`

	DateOfBirth   string `json:"date_of_birth"`
	AdmissionDate string `json:"admission_date"`

	PackageID *string `json:"package_id"`
	TrainerID *string `json:"trainer_id"`

	AdmissionFee  *float64 `json:"admission_fee"`
	TrainerCharge float64  `json:"trainer_charge"`
	Discount      float64  `json:"discount"`
	DiscountType  string   `json:"discount_type"`
}

type UpdateMemberRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	CNIC     *string `json:"cnic,omitempty"`
	Email    *string `json:"email,omitempty"`
	Gender   *string `json:"gender,omitempty"`

	DateOfBirth *string `json:"date_of_birth,omitempty"`
	IsFrozen    *bool   `json:"is_frozen,omitempty"`

	// Empty string clears the assignment.
	PackageID *string `json:"package_id,omitempty"`
	TrainerID *string `json:"trainer_id,omitempty"`

	PackageStartDate  *string `json:"package_start_date,omitempty"`
	PackageExpiryDate *string `json:"package_expiry_date,omitempty"`
}

// --------- Responses ---------

type memberResponse struct {
	models.MemberProfile
	Username              string  `json:"username,omitempty"`
	TrainerName           *string `json:"trainer_name"`
	TrainerSpecialization *string `json:"trainer_specialization,omitempty"`
}

func memberView(m models.MemberProfile) memberResponse {
	view := memberResponse{MemberProfile: m, Username: m.User.Username}
	if m.Trainer != nil {
		view.TrainerName = &m.Trainer.FullName
		view.TrainerSpecialization = &m.Trainer.Specialization
	}
	return view
}

// --------- Handlers ---------

func (h *MemberHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	var total int64
	if err := h.db.Model(&models.MemberProfile{}).Count(&total).Error; err != nil {
		logger.Log.Error("member count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var members []models.MemberProfile
	if err := h.db.
		Preload("User").
		Preload("Trainer").
		Order("created_at DESC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&members).Error; err != nil {

		logger.Log.Error("member list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	rows := make([]memberResponse, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberView(m))
	}

	httpresp.Paginated(c, "members", rows, total, page, perPage)
}

func (h *MemberHandler) Get(c *gin.Context) {
	var member models.MemberProfile
	if err := h.db.
		Preload("User").
		Preload("Trainer").
		First(&member, "id = ?", c.Param("id")).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Member not found")
			return
		}
		logger.Log.Error("member get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, memberView(member))
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing or invalid required fields")
		return
	}

	if !validators.IsValidPhone(req.Phone) {
		httperr.BadRequest(c, "Invalid phone number")
		return
	}
	if !validators.IsValidCNIC(req.CNIC) {
		httperr.BadRequest(c, "Invalid CNIC")
		return
	}

	in := ucMember.EnrollInput{
		FullName:      req.FullName,
		Phone:         req.Phone,
		CNIC:          req.CNIC,
		Email:         req.Email,
		Gender:        req.Gender,
		DateOfBirth:   parseDate(req.DateOfBirth),
		AdmissionDate: parseDate(req.AdmissionDate),
		PackageID:     nonEmpty(req.PackageID),
		TrainerID:     nonEmpty(req.TrainerID),
		AdmissionFee:  req.AdmissionFee,
		TrainerCharge: req.TrainerCharge,
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
	}

	actorID := c.GetString(middleware.ContextUserID)
	member, err := h.enrollUC.Execute(c.Request.Context(), actorID, in)
	if err != nil {
		writeBusinessOr500(c, err, "member enrollment failed")
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Update(c *gin.Context) {
	var member models.MemberProfile
	if err := h.db.First(&member, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Member not found")
			return
		}
		logger.Log.Error("member get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if field := h.duplicateContact(req, member.ID); field != "" {
		httperr.Conflict(c, "A member with this "+field+" already exists")
		return
	}

	if req.FullName != nil {
		member.FullName = *req.FullName
	}
	if req.Phone != nil {
		if !validators.IsValidPhone(*req.Phone) {
			httperr.BadRequest(c, "Invalid phone number")
			return
		}
		member.Phone = *req.Phone
	}
	if req.CNIC != nil {
		if !validators.IsValidCNIC(*req.CNIC) {
			httperr.BadRequest(c, "Invalid CNIC")
			return
		}
		member.CNIC = *req.CNIC
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Gender != nil {
		member.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		member.DateOfBirth = parseDate(*req.DateOfBirth)
	}
	if req.IsFrozen != nil {
		member.IsFrozen = *req.IsFrozen
	}
	if req.TrainerID != nil {
		member.TrainerID = nonEmpty(req.TrainerID)
	}

	if req.PackageID != nil {
		newPackageID := nonEmpty(req.PackageID)

		// Package changed: recompute the date window unless the caller
		// supplied explicit dates below.
		if newPackageID != nil &&
			(member.CurrentPackageID == nil || *member.CurrentPackageID != *newPackageID) {

			var pkg models.Package
			if err := h.db.First(&pkg, "id = ?", *newPackageID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					httperr.NotFound(c, "Package not found")
					return
				}
				logger.Log.Error("package get failed: " + err.Error())
				httperr.Internal(c, "Internal server error")
				return
			}

			if req.PackageStartDate == nil {
				start := time.Now().UTC()
				member.PackageStartDate = &start
			}
			if req.PackageExpiryDate == nil {
				start := time.Now().UTC()
				if member.PackageStartDate != nil {
					start = *member.PackageStartDate
				}
				expiry := billing.ExpiryDate(start, pkg.DurationDays)
				member.PackageExpiryDate = &expiry
			}
		}
		member.CurrentPackageID = newPackageID
	}

	if req.PackageStartDate != nil {
		member.PackageStartDate = parseDateTime(*req.PackageStartDate)
	}
	if req.PackageExpiryDate != nil {
		member.PackageExpiryDate = parseDateTime(*req.PackageExpiryDate)
	}

	if err := h.db.Save(&member).Error; err != nil {
		logger.Log.Error("member update failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	if err := h.db.
		Preload("User").
		Preload("Trainer").
		First(&member, "id = ?", member.ID).Error; err == nil {
		c.JSON(http.StatusOK, memberView(member))
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	actorID := c.GetString(middleware.ContextUserID)

	if err := h.removeUC.Execute(c.Request.Context(), actorID, c.Param("id")); err != nil {
		writeBusinessOr500(c, err, "member removal failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

func (h *MemberHandler) duplicateContact(req UpdateMemberRequest, excludeID string) string {
	type check struct {
		field string
		value *string
	}

	for _, ch := range []check{{"phone", req.Phone}, {"cnic", req.CNIC}, {"email", req.Email}} {
		if ch.value == nil || *ch.value == "" {
			continue
		}

		var count int64
		if err := h.db.Model(&models.MemberProfile{}).
			Where(ch.field+" = ? AND id <> ?", *ch.value, excludeID).
			Count(&count).Error; err != nil {
			continue
		}
		if count > 0 {
			return ch.field
		}
	}

	return ""
}
