package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"luckydraw/internal/config"
	"luckydraw/internal/datasource"
	"luckydraw/internal/handlers"
	"luckydraw/internal/ingest"
	"luckydraw/internal/logging"
	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	defer logging.Init("luckydraw", cfg.Log).Close()

	// 1. Initialize the Draw Service
	prizes, err := cfg.PrizeTable()
	if err != nil {
		logger.Fatalf("Failed to build prize table: %v", err)
	}
	drawService, err := services.NewDrawService(cfg.Engine, prizes)
	if err != nil {
		logger.Fatalf("Failed to create draw service: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Schedule the session janitor and the optional data file refresh
	scheduler := datasource.NewScheduler()
	err = scheduler.Every(cfg.Server.JanitorSpec, "session cleanup", func() {
		n := drawService.CleanUpInactiveSessions(cfg.Server.SessionIdle)
		logger.Infof("Performed cleanup of inactive sessions, removed %d.", n)
	})
	if err != nil {
		logger.Fatalf("Failed to schedule janitor: %v", err)
	}
	if len(cfg.Milestones) > 0 {
		drawService.SetMilestones(cfg.Data.Tenant, cfg.Milestones)
	}
	if cfg.Data.File != "" {
		src := &datasource.FileSource{
			Path: cfg.Data.File,
			Options: ingest.Options{
				Mode:         models.ParseMode(cfg.Data.Mode),
				TicketPrefix: cfg.Engine.TicketPrefix,
				BallCount:    cfg.Engine.BallCount,
				PickCount:    cfg.Engine.PickCount,
			},
			PreserveUsage: cfg.Data.PreserveUsage,
			Target:        drawService.Loader(cfg.Data.Tenant),
		}
		if _, err := src.Load(ctx); err != nil {
			logger.Errorf("Initial load of %s failed: %v", cfg.Data.File, err)
		}
		if err := scheduler.Refresh(ctx, cfg.Data.RefreshSpec, src); err != nil {
			logger.Fatalf("Failed to schedule refresh: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 3. Set up the Gin router
	httpHandler := handlers.NewHTTPHandler(drawService)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), handlers.MetricsMiddleware())

	// 4. Register public routes (before middleware)
	httpHandler.RegisterPublicRoutes(r)

	// 5. Group routes that require tenant identification and apply middleware
	tenantRoutes := r.Group("/")
	tenantRoutes.Use(httpHandler.TenantMiddleware())
	httpHandler.RegisterTenantRoutes(tenantRoutes)

	// 6. Run the server until interrupted
	srv := &http.Server{Addr: cfg.Server.Address, Handler: r}
	go func() {
		logger.Infof("Server starting on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
