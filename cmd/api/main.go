package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fitcore/gym-backend/internal/config"
	dbpkg "github.com/fitcore/gym-backend/internal/db"
	"github.com/fitcore/gym-backend/internal/logger"
	"github.com/fitcore/gym-backend/internal/mailer"
	"github.com/fitcore/gym-backend/internal/middleware"
	"github.com/fitcore/gym-backend/internal/routes"
	"github.com/fitcore/gym-backend/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	logger.Init()
	defer logger.Log.Sync()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	var blacklist tokens.Blacklist
	if cfg.RedisURL != "" {
		rb, err := tokens.NewRedisBlacklist(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("redis connection failed", zap.Error(err))
		}
		blacklist = rb
	} else {
		// Logout still responds without Redis; tokens simply expire on
		// their own.
		logger.Log.Warn("REDIS_URL not set, token revocation disabled")
	}

	var mail *mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.New(cfg)
	} else {
		logger.Log.Warn("SMTP_HOST not set, password reset mail disabled")
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(r, db, cfg, blacklist, mail)

	logger.Log.Info("server starting", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Log.Fatal("server failed", zap.Error(err))
	}
}
