package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/agroyield/crop-yield-service/internal/api/http"
	"github.com/agroyield/crop-yield-service/internal/config"
	"github.com/agroyield/crop-yield-service/internal/predictor"
	"github.com/agroyield/crop-yield-service/internal/scheduler"
	"github.com/agroyield/crop-yield-service/internal/session"
	"github.com/agroyield/crop-yield-service/internal/store"
	"github.com/agroyield/crop-yield-service/internal/yield"
	"github.com/agroyield/crop-yield-service/internal/yield/providers"
)

func main() {
	// Load configuration; config owns .env loading.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The artifact is loaded exactly once; a failure here means the process
	// must not serve.
	model, err := predictor.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("model load failed: %v", err)
	}
	log.Printf("model loaded from %s", cfg.ModelPath)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory vegetation statistics with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	weatherProvider := providers.NewOpenMeteoProvider(httpClient)

	// Core service orchestrating the prediction pipeline.
	service := yield.NewService(weatherProvider, model, memStore, cfg.NDVIDefaultProxy)

	// Background refresh of per-district NDVI statistics, when a vegetation
	// backend is configured.
	if cfg.VegetationAPIURL != "" {
		vegetationProvider := providers.NewModisProvider(httpClient, cfg.VegetationAPIURL)
		sched := scheduler.New(vegetationProvider, memStore, yield.DistrictNames(), cfg.NDVIRefreshInterval)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("VEGETATION_API_URL not set; using default NDVI proxy only")
	}

	// Dashboard session backend.
	sessions := session.NewManager(session.EnvCredentials{
		Username: cfg.DashboardUsername,
		Password: cfg.DashboardPassword,
	})

	app := httpapi.NewApp()
	httpapi.RegisterRoutes(app, service, sessions)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
