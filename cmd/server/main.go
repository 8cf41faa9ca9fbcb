package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artifact-proxy/internal/adapters/primary/http/handlers"
	"artifact-proxy/internal/adapters/primary/http/middleware"
	"artifact-proxy/internal/adapters/secondary/github"
	"artifact-proxy/internal/config"
	"artifact-proxy/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapter (GitHub Actions API)
	githubClient := github.NewGitHubClient(&cfg.GitHub)

	// Core Services (Application Layer)
	artifactSvc := services.NewArtifactService(githubClient, services.ArtifactListOptions{
		Limit:           cfg.Artifacts.Limit,
		RunLimit:        cfg.Artifacts.RunLimit,
		PendingStatuses: cfg.Artifacts.PendingStatuses,
	})
	downloadSvc, err := services.NewDownloadService(githubClient, cfg.Artifacts.DownloadMode)
	if err != nil {
		log.Fatalf("create download service: %v", err)
	}

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(artifactSvc, downloadSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api")
	if cfg.RateLimit.RPS > 0 {
		api.Use(middleware.RateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		log.Infof("rate limiting /api at %.2f req/s (burst %d) per client", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	h.RegisterRoutes(api)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Browser UI
	router.NoRoute(handlers.StaticFiles(cfg.Server.StaticDir))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":          addr,
			"repository":    cfg.GitHub.Owner + "/" + cfg.GitHub.Repo,
			"download_mode": cfg.Artifacts.DownloadMode,
		}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if level != log.DebugLevel && level != log.TraceLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}
