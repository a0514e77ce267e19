package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"deepfake-guard/internal/config"
	"deepfake-guard/internal/db"
	apihttp "deepfake-guard/internal/http"
	"deepfake-guard/internal/repository"
	"deepfake-guard/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		// JWT_SECRET o DATABASE_URL ausentes terminan el proceso aquí.
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	var revokedStore service.RevokedTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			revokedStore = service.NewRedisRevokedTokenStore(redisClient)
		}
		cancel()
	}

	userRepo := repository.NewPgUserRepository(pool)
	hasher := service.NewPasswordHasher()
	authSvc := service.NewAuthService(logger, userRepo, hasher)
	tokenSvc := service.NewTokenServiceWithStore(cfg.JWTSecret, revokedStore)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, tokenSvc, cfg.IsProduction())
	healthHandler := apihttp.NewHealthHandler(logger, pool)
	router := apihttp.NewRouter(logger, authHandler, healthHandler, tokenSvc, cfg.CORSOrigin)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
