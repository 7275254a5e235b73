package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// ModelPath locates the serialized regression artifact, read once at startup.
	ModelPath string

	// VegetationAPIURL is the base URL of the satellite analytics backend.
	// Empty disables the background NDVI statistics refresh.
	VegetationAPIURL string

	// HTTPTimeout bounds every outbound call (weather, vegetation index).
	HTTPTimeout time.Duration

	// NDVIRefreshInterval controls how often per-district vegetation
	// statistics are recomputed.
	NDVIRefreshInterval time.Duration

	// NDVIDefaultProxy substitutes for unobservable forecast-window NDVI when
	// no measured historical mean is available for a district.
	NDVIDefaultProxy float64

	// In-memory statistics store retention.
	StoreMaxHistory int           // max stats entries per district (0 = unlimited)
	StoreMaxAge     time.Duration // max age of stats entries (0 = unlimited)

	// Dashboard session credentials. Empty username disables login.
	DashboardUsername string
	DashboardPassword string

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ModelPath = getenvDefault("MODEL_PATH", "model/crop_yield_model.json")
	cfg.VegetationAPIURL = os.Getenv("VEGETATION_API_URL")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Refresh interval: default once a day.
	intervalStr := getenvDefault("NDVI_REFRESH_INTERVAL", "24h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid NDVI_REFRESH_INTERVAL: %w", err)
	}
	cfg.NDVIRefreshInterval = interval

	cfg.NDVIDefaultProxy = getenvFloat("NDVI_DEFAULT_PROXY", 0.55)

	// Store retention: roughly a month of daily refreshes.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 30)

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "720h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.DashboardUsername = os.Getenv("DASHBOARD_USERNAME")
	cfg.DashboardPassword = os.Getenv("DASHBOARD_PASSWORD")

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
