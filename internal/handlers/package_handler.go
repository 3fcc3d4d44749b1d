package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/billing"
	"github.com/fitcore/gym-backend/internal/httperr"
	"github.com/fitcore/gym-backend/internal/httpresp"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
)

type PackageHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPackageHandler(db *gorm.DB, audit *audit.Dispatcher) *PackageHandler {
	return &PackageHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreatePackageRequest struct {
	Name         string  `json:"name" binding:"required"`
	DurationDays int     `json:"duration_days" binding:"required"`
	Price        float64 `json:"price" binding:"required"`
	Description  string  `json:"description"`
	IsActive     *bool   `json:"is_active"`
}

type UpdatePackageRequest struct {
	Name         *string  `json:"name,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Description  *string  `json:"description,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// --------- Handlers ---------

func (h *PackageHandler) List(c *gin.Context) {
	page, perPage, ok := pagination(c)
	if !ok {
		return
	}

	query := h.db.Model(&models.Package{})
	if c.Query("active_only") == "true" {
		query = query.Where("is_active = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Error("package count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var packages []models.Package
	if err := query.
		Order("price ASC").
		Offset(offset(page, perPage)).
		Limit(perPage).
		Find(&packages).Error; err != nil {

		logger.Log.Error("package list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	httpresp.Paginated(c, "packages", packages, total, page, perPage)
}

func (h *PackageHandler) Get(c *gin.Context) {
	var pkg models.Package
	if err := h.db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Package not found")
			return
		}
		logger.Log.Error("package get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing or invalid required fields")
		return
	}

	if req.Price <= 0 {
		httperr.BadRequest(c, "Price must be a positive number")
		return
	}
	if req.DurationDays <= 0 {
		httperr.BadRequest(c, "Duration must be a positive number of days")
		return
	}

	pkg := models.Package{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  req.Description,
		IsActive:     true,
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := h.db.Create(&pkg).Error; err != nil {
		logger.Log.Error("package create failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "package_created",
		Entity:   "package",
		EntityID: pkg.ID,
		Metadata: map[string]any{"name": pkg.Name, "price": pkg.Price},
	})

	c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) Update(c *gin.Context) {
	var pkg models.Package
	if err := h.db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Package not found")
			return
		}
		logger.Log.Error("package get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	if req.Price != nil && *req.Price <= 0 {
		httperr.BadRequest(c, "Price must be a positive number")
		return
	}
	if req.DurationDays != nil && *req.DurationDays <= 0 {
		httperr.BadRequest(c, "Duration must be a positive number of days")
		return
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.IsActive != nil {
		pkg.IsActive = *req.IsActive
	}

	if err := h.db.Save(&pkg).Error; err != nil {
		logger.Log.Error("package update failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) Delete(c *gin.Context) {
	var pkg models.Package
	if err := h.db.First(&pkg, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Package not found")
			return
		}
		logger.Log.Error("package get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var blocking int64
	if err := h.db.Model(&models.MemberProfile{}).
		Where("current_package_id = ?", pkg.ID).
		Count(&blocking).Error; err != nil {
		logger.Log.Error("package member count failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}
	if blocking > 0 {
		httperr.Conflict(c, fmt.Sprintf(
			"Cannot delete package: %d member(s) are currently assigned to it", blocking))
		return
	}

	if err := h.db.Delete(&models.Package{}, "id = ?", pkg.ID).Error; err != nil {
		logger.Log.Error("package delete failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	actorID := c.GetString(middleware.ContextUserID)
	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "package_deleted",
		Entity:   "package",
		EntityID: pkg.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Package deleted successfully"})
}

type PurchasePackageRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// Purchase assigns the package to the calling member and records the
// pending charge, due when the package expires.
func (h *PackageHandler) Purchase(c *gin.Context) {
	var req PurchasePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Missing package_id")
		return
	}

	userID := c.GetString(middleware.ContextUserID)

	var member models.MemberProfile
	if err := h.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Member profile not found")
			return
		}
		logger.Log.Error("member lookup failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var pkg models.Package
	if err := h.db.First(&pkg, "id = ?", req.PackageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "Package not found")
			return
		}
		logger.Log.Error("package get failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	if !pkg.IsActive {
		httperr.BadRequest(c, "Package is not available for purchase")
		return
	}

	start := time.Now().UTC()
	expiry := billing.ExpiryDate(start, pkg.DurationDays)

	txn := models.Transaction{
		MemberID:        member.ID,
		Amount:          pkg.Price,
		TransactionType: models.TransactionPackage,
		Status:          models.StatusPending,
		DueDate:         &expiry,
		PackagePrice:    pkg.Price,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		member.CurrentPackageID = &pkg.ID
		member.PackageStartDate = &start
		member.PackageExpiryDate = &expiry

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		logger.Log.Error("package purchase failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "package_purchased",
		Entity:   "package",
		EntityID: pkg.ID,
		Metadata: map[string]any{"member_id": member.ID, "amount": pkg.Price},
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Package purchased successfully",
		"transaction": txn,
		"member":      member,
	})
}

// MembersByPackage groups members under each package name, with an
// extra bucket for members holding no package.
func (h *PackageHandler) MembersByPackage(c *gin.Context) {
	var packages []models.Package
	if err := h.db.Order("price ASC").Find(&packages).Error; err != nil {
		logger.Log.Error("package list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	var members []models.MemberProfile
	if err := h.db.Preload("User").Find(&members).Error; err != nil {
		logger.Log.Error("member list failed: " + err.Error())
		httperr.Internal(c, "Internal server error")
		return
	}

	grouped := make(map[string][]memberResponse, len(packages)+1)
	for _, p := range packages {
		grouped[p.Name] = []memberResponse{}
	}
	grouped["No Package"] = []memberResponse{}

	names := make(map[string]string, len(packages))
	for _, p := range packages {
		names[p.ID] = p.Name
	}

	for _, m := range members {
		bucket := "No Package"
		if m.CurrentPackageID != nil {
			if name, ok := names[*m.CurrentPackageID]; ok {
				bucket = name
			}
		}
		grouped[bucket] = append(grouped[bucket], memberView(m))
	}

	c.JSON(http.StatusOK, gin.H{"members_by_package": grouped})
}
