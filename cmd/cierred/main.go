// cierred is the dashboard backend daemon: HTTP API, extraction pipeline and
// the hosted-store keep-alive heartbeat.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sculptbody/cierre-backend/internal/batch"
	"github.com/sculptbody/cierre-backend/internal/common"
	"github.com/sculptbody/cierre-backend/internal/extract"
	"github.com/sculptbody/cierre-backend/internal/extract/gemini"
	"github.com/sculptbody/cierre-backend/internal/extract/openai"
	"github.com/sculptbody/cierre-backend/internal/ingest"
	"github.com/sculptbody/cierre-backend/internal/localcache"
	"github.com/sculptbody/cierre-backend/internal/reconcile"
	"github.com/sculptbody/cierre-backend/internal/repository"
	"github.com/sculptbody/cierre-backend/internal/server"
	"github.com/sculptbody/cierre-backend/internal/storage"
)

const keepAliveInterval = 12 * time.Hour

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Warn("database unreachable at startup, demo fallback active", "error", err)
	}

	cache, err := localcache.OpenSQLite(cfg.Cache.Path, logger)
	if err != nil {
		logger.Error("local cache open failed", "path", cfg.Cache.Path, "error", err)
		os.Exit(1)
	}
	defer func() { _ = cache.Close() }()

	var objects storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		gcs, err := storage.NewGCSStore(ctx, storage.Config{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.Prefix,
		}, logger)
		if err != nil {
			logger.Error("object storage init failed", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gcs.Close() }()
		objects = gcs
	} else {
		logger.Warn("STORAGE_BUCKET not set, report images will not be uploaded")
	}

	channels := gemini.NewChannels(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	}, gemini.ParseChannelSpecs(cfg.Gemini.Channels), logger)
	if cfg.OpenAI.APIKey != "" {
		channels = append(channels, openai.NewChannel(openai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.OpenAI.Timeout,
		}, logger))
	}
	extractor := extract.NewClient(channels, logger)

	branches := repository.NewBranchRepository(pool, logger)
	professionals := repository.NewProfessionalRepository(pool, logger)
	reports := repository.NewReportRepository(pool, logger)

	router := ingest.NewRouter(professionals, reports, objects, cache, logger)
	orchestrator := batch.NewOrchestrator(extractor, cfg.Batch.Delay, logger)
	reconciler := reconcile.NewService(branches, professionals, reports, cache, cfg.Reconcile.PurgeLocal, logger)

	ping := func(ctx context.Context) error {
		return repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger)
	}
	handler := server.NewHandler(branches, reports, cache, router, orchestrator, reconciler, ping, logger)

	// the hosted free tier hibernates after days of silence
	go func() {
		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := ping(ctx); err != nil {
					logger.Warn("keepalive.ping.failed", "error", err)
				} else {
					logger.Debug("keepalive.ping.ok")
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
