package yield

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// forecastWindowDays is the trailing weather window aggregated into one
// prediction input: 90 days ending at the planting date.
const forecastWindowDays = 90

// DefaultCrop is assumed when a request does not name a crop.
const DefaultCrop = "maize"

// Request is one yield-prediction request.
type Request struct {
	District     string
	Crop         string
	PlantingDate string // YYYY-MM-DD
}

// Service orchestrates one prediction: validate, resolve the district,
// fetch the forecast window, derive features, predict, respond. Requests are
// stateless and independent; the only shared state is the predictor, which is
// read-only after load.
type Service struct {
	weather      WeatherProvider
	predictor    Predictor
	proxies      ProxySource // optional; nil means always use defaultProxy
	defaultProxy float64
}

// NewService creates a Service. proxies may be nil.
func NewService(weather WeatherProvider, predictor Predictor, proxies ProxySource, defaultProxy float64) *Service {
	return &Service{
		weather:      weather,
		predictor:    predictor,
		proxies:      proxies,
		defaultProxy: defaultProxy,
	}
}

// PredictYield runs the full pipeline for one request. Validation failures
// (ErrBadPlantingDate, ErrFutureDate, ErrUnknownDistrict) are rejected before
// any outbound call is made. An empty forecast fetch is surfaced as
// ErrNoWeatherData rather than silently degraded into proxy-only features.
func (s *Service) PredictYield(ctx context.Context, req Request) (Estimate, error) {
	crop := req.Crop
	if crop == "" {
		crop = DefaultCrop
	}

	plantingDate, err := time.Parse("2006-01-02", req.PlantingDate)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %q", ErrBadPlantingDate, req.PlantingDate)
	}
	if plantingDate.After(time.Now()) {
		return Estimate{}, ErrFutureDate
	}

	pt, err := ResolveDistrict(req.District)
	if err != nil {
		return Estimate{}, err
	}

	start := plantingDate.AddDate(0, 0, -forecastWindowDays)
	table, err := s.weather.FetchDaily(ctx, pt, start, plantingDate)
	if err != nil {
		log.Printf("weather fetch failed for %s: %v", req.District, err)
		return Estimate{}, ErrNoWeatherData
	}
	if len(table) == 0 {
		return Estimate{}, ErrNoWeatherData
	}

	proxy := s.defaultProxy
	if s.proxies != nil {
		if mean, ok := s.proxies.HistoricalMean(req.District); ok {
			proxy = mean
		}
	}

	// True vegetation index is unobservable for the forecast window, so the
	// series is always empty here and both NDVI features come from the proxy.
	features, err := DeriveFeatures(table, nil, proxy)
	if err != nil {
		return Estimate{}, err
	}

	raw, err := s.predictor.Predict(features)
	if err != nil {
		return Estimate{}, fmt.Errorf("predict: %w", err)
	}
	predicted := math.Round(raw*100) / 100

	return Estimate{
		District:     req.District,
		Crop:         crop,
		PlantingDate: req.PlantingDate,
		YieldTPerHa:  predicted,
		Message:      fmt.Sprintf("Expected yield for %s in %s: %.2f t/ha", crop, req.District, predicted),
		Note:         "NDVI based on historical average; weather from forecast.",
	}, nil
}
