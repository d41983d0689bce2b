package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visioncheck/internal/config"
	"visioncheck/internal/database"
	httpapi "visioncheck/internal/http"
	"visioncheck/internal/logger"
	"visioncheck/internal/repository"
	"visioncheck/internal/service"
	"visioncheck/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "visioncheck")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Session cache: Redis when reachable, in-memory fallback for plain `go run`.
	var kv store.KV
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err == nil {
		kv = store.NewRedisKV(redisClient)
	} else {
		log.Warn("Redis unavailable, using in-memory session cache", zap.Error(err))
		kv = store.NewMemoryKV()
	}
	pingCancel()

	// Optional DB-backed screening history
	var db *sql.DB
	var analysesRepo repository.AnalysesRepo = repository.NewMemoryAnalysesRepo()
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			analysesRepo = repository.NewPostgresAnalysesRepo(db)
			log.Info("DB enabled for visioncheck")
		} else {
			log.Warn("DB enabled but connection failed, history stays in memory", zap.Error(err))
		}
	}

	diseasesRepo := repository.NewMemoryDiseasesRepo()

	idp := service.NewIdentityClient(cfg.Auth.HTTPAddress, cfg.Auth.AnonKey, log)
	authService := service.NewAuthService(idp, kv, time.Duration(cfg.Auth.CacheTTLSec)*time.Second, log)
	analysisService := service.NewAnalysisService(
		diseasesRepo,
		analysesRepo,
		time.Duration(cfg.Analysis.DelayMS)*time.Millisecond,
		cfg.Analysis.ModelVersion,
		log,
	)
	explanationService := service.NewExplanationService(diseasesRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterScreeningRoutes(
		httpapi.NewAnalyzeHandler(analysisService, log),
		httpapi.NewExplainHandler(explanationService, log),
		httpapi.NewDiseasesHandler(diseasesRepo),
		httpapi.NewHistoryHandler(analysesRepo, log),
	)
	router.RegisterHealthRoutes()

	gate := httpapi.NewAuthGate(authService, cfg.Auth.SignInPath, log)
	handler := httpapi.RequestLogger(log)(gate.Middleware(router))

	srv := service.NewServer(cfg.HTTP.Addr, handler, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = redisClient.Close()
	if db != nil {
		_ = db.Close()
	}
}
