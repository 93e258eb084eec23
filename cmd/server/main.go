package main

import (
	"context"
	"net/http"

	"JournalVault/internal/config"
	"JournalVault/internal/handlers"
	"JournalVault/internal/middleware"
	"JournalVault/internal/repo"
	"JournalVault/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobRepo, err := openBlobRepository(ctx, cfg)
	if err != nil {
		sugar.Fatalw("failed to initialize blob storage", "backend", cfg.BlobBackend, "error", err)
	}
	blobService := service.NewBlobService(blobRepo, sugar)

	h := handlers.NewHandler(blobService, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"BlobBackend", cfg.BlobBackend,
		"MaxPayloadMB", cfg.MaxPayloadMB,
		"RateLimitPerMinute", cfg.RateLimitPerMinute,
		"RateLimitPerHour", cfg.RateLimitPerHour,
		"TrustProxy", cfg.TrustProxy,
		"APIKeySet", cfg.APIKey != "",
	)
	if cfg.APIKey == "" {
		sugar.Warnw("API_KEY is empty: /api/sync is open to anyone")
	}

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}

// newLogger: для debug development-логгер, иначе production с нужным уровнем.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func openBlobRepository(ctx context.Context, cfg *config.Config) (repo.BlobRepository, error) {
	if cfg.BlobBackend == config.BlobBackendS3 {
		return repo.NewS3BlobRepository(ctx, repo.S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return repo.NewBlobRepository(gormDB), nil
}
