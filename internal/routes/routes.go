package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitcore/gym-backend/internal/audit"
	"github.com/fitcore/gym-backend/internal/config"
	"github.com/fitcore/gym-backend/internal/handlers"
	"github.com/fitcore/gym-backend/internal/infra/repository"
	"github.com/fitcore/gym-backend/internal/mailer"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/models"
	"github.com/fitcore/gym-backend/internal/tokens"
	ucMember "github.com/fitcore/gym-backend/internal/usecase/member"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	blacklist tokens.Blacklist,
	mail *mailer.Mailer,
) {
	auditor := audit.NewDispatcher(audit.New(db))

	enrollmentRepo := repository.NewEnrollmentGormRepository(db)
	enrollUC := ucMember.NewEnrollMember(enrollmentRepo, auditor, cfg.DefaultAdmissionFee)
	removeUC := ucMember.NewRemoveMember(enrollmentRepo, auditor)

	authHandler := handlers.NewAuthHandler(db, cfg, blacklist, mail)
	memberHandler := handlers.NewMemberHandler(db, enrollUC, removeUC)
	trainerHandler := handlers.NewTrainerHandler(db, auditor)
	packageHandler := handlers.NewPackageHandler(db, auditor)
	financeHandler := handlers.NewFinanceHandler(db, auditor)
	settingsHandler := handlers.NewSettingsHandler(db, cfg, auditor)
	dashboardHandler := handlers.NewDashboardHandler(db)
	accountHandler := handlers.NewAccountHandler(db, auditor)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	authRequired := middleware.AuthMiddleware(cfg, blacklist)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)

		auth.POST("/logout", authRequired, authHandler.Logout)
		auth.POST("/refresh", authRequired, authHandler.Refresh)
	}

	admin := api.Group("/admin", authRequired, adminOnly)
	{
		admin.GET("/members", memberHandler.List)
		admin.POST("/members", memberHandler.Create)
		admin.GET("/members/:id", memberHandler.Get)
		admin.PUT("/members/:id", memberHandler.Update)
		admin.DELETE("/members/:id", memberHandler.Delete)

		admin.GET("/trainers", trainerHandler.List)
		admin.POST("/trainers", trainerHandler.Create)
		admin.GET("/trainers/:id", trainerHandler.Get)
		admin.PUT("/trainers/:id", trainerHandler.Update)
		admin.DELETE("/trainers/:id", trainerHandler.Delete)

		admin.GET("/dashboard/metrics", dashboardHandler.Metrics)
		admin.GET("/dashboard/revenue-projection", dashboardHandler.RevenueProjection)
		admin.GET("/dashboard/revenue-trend", dashboardHandler.RevenueTrend)
		admin.GET("/dashboard/member-growth", dashboardHandler.MemberGrowth)

		admin.GET("/settings", settingsHandler.Get)
		admin.PUT("/settings", settingsHandler.Update)

		admin.PUT("/profile", accountHandler.UpdateProfile)
		admin.POST("/change-password", accountHandler.ChangePassword)

		admin.GET("/audit-logs", auditLogsHandler.List)
	}

	finance := api.Group("/finance", authRequired, adminOnly)
	{
		finance.GET("/transactions", financeHandler.ListTransactions)
		finance.POST("/transactions/:id/mark-paid", financeHandler.MarkPaid)
		finance.GET("/overdue", financeHandler.Overdue)
		finance.GET("/reports", financeHandler.Reports)
	}

	packages := api.Group("/packages", authRequired)
	{
		packages.GET("", packageHandler.List)
		packages.GET("/members-by-package",
			middleware.RequireRoles(models.RoleAdmin, models.RoleTrainer),
			packageHandler.MembersByPackage)
		packages.GET("/:id", packageHandler.Get)

		packages.POST("", adminOnly, packageHandler.Create)
		packages.PUT("/:id", adminOnly, packageHandler.Update)
		packages.DELETE("/:id", adminOnly, packageHandler.Delete)

		packages.POST("/purchase",
			middleware.RequireRoles(models.RoleMember),
			packageHandler.Purchase)
	}
}
