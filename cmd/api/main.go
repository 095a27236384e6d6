package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-auction-backend/internal/core/auth"
	"go-auction-backend/internal/core/cache"
	"go-auction-backend/internal/core/config"
	"go-auction-backend/internal/core/database"
	"go-auction-backend/internal/core/logger"
	"go-auction-backend/internal/core/server"
	"go-auction-backend/internal/domain"
	"go-auction-backend/internal/imagehost"
	"go-auction-backend/internal/repo"
	"go-auction-backend/internal/service"
	"go-auction-backend/internal/transport/http/handler"
	"go-auction-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	issuer := &auth.TokenIssuer{
		Secret:           []byte(cfg.JWT.Secret),
		Issuer:           cfg.JWT.Issuer,
		CookieExpireDays: cfg.JWT.CookieExpireDays,
		Production:       cfg.App.IsProduction(),
	}

	uploader, err := imagehost.NewS3Uploader(context.Background(), imagehost.Config{
		Region:        cfg.S3.Region,
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		log.Fatal("image host init failed", zap.Error(err))
	}

	userRepo := repo.NewUserRepo(db)
	userSvc := service.NewUserService(userRepo, uploader, issuer)
	if cfg.Redis.Addr != "" {
		ttl := time.Duration(cfg.Redis.LeaderboardTTLSec) * time.Second
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		userSvc = userSvc.WithLeaderboardCache(cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB), ttl)
		log.Info("leaderboard cache enabled", zap.Duration("ttl", ttl))
	}

	userH := handler.NewUserHandler(userSvc, issuer)
	r := router.NewAPIEngine(log, userH, issuer, userRepo)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("auction api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("auction api start FAILED", zap.Error(err))
		}
	}()
	log.Info("auction api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("auction api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	if cfg.Log.File != "" {
		return logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
			Enable:     true,
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
	}
	return logger.New(cfg.Log.Level, cfg.Log.JSON)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open failed", zap.Error(err))
	}
	return db
}
