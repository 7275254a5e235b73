package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/agroyield/crop-yield-service/internal/yield"
	"github.com/sony/gobreaker"
)

const (
	// modisProduct is the 16-day MODIS vegetation-index composite, chosen
	// because it stays usable in persistently cloudy regions like Rwanda.
	modisProduct = "MODIS/006/MOD13Q1"

	// ndviBand is the band reduced over the buffer region.
	ndviBand = "NDVI"

	// bufferMeters is the radius around the district center over which the
	// spatial mean is taken.
	bufferMeters = 5000

	// reduceScaleMeters is the pixel scale of the spatial reduction.
	reduceScaleMeters = 250

	// maxPixels caps the reduction's pixel budget. Together with best-effort
	// mode the backend silently drops pixels beyond this cap, so the spatial
	// mean is a documented approximation, not an exact reduction.
	maxPixels = 1e9

	// ndviScaleDivisor rescales raw integer NDVI units into [0,1].
	ndviScaleDivisor = 10000.0
)

// ModisProvider implements yield.VegetationProvider against a satellite
// imagery analytics backend serving MODIS vegetation-index composites.
//
// Zero qualifying images, a failed bulk materialization, or any transport
// error all degrade to an empty series so downstream feature derivation can
// substitute its historical proxy.
type ModisProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewModisProvider(client *http.Client, baseURL string) *ModisProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "modis",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &ModisProvider{
		name:    "modis",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{Client: client},
		circuit: cb,
	}
}

func (p *ModisProvider) Name() string {
	return p.name
}

// FetchIndex returns the spatial-mean NDVI per acquisition date over a 5 km
// buffer around pt, filtered to [start, end]. A zero end time defaults to
// today. Images without an acquisition timestamp or with a null reduced value
// are skipped, not zero-filled.
func (p *ModisProvider) FetchIndex(ctx context.Context, pt yield.GeoPoint, start, end time.Time) (yield.Series, error) {
	if end.IsZero() {
		end = yield.MidnightUTC(time.Now().UTC())
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("product", modisProduct)
		values.Set("band", ndviBand)
		values.Set("latitude", fmt.Sprintf("%f", pt.Lat))
		values.Set("longitude", fmt.Sprintf("%f", pt.Lon))
		values.Set("buffer_m", fmt.Sprintf("%d", bufferMeters))
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))
		values.Set("reducer", "mean")
		values.Set("scale", fmt.Sprintf("%d", reduceScaleMeters))
		values.Set("max_pixels", fmt.Sprintf("%.0f", float64(maxPixels)))
		values.Set("best_effort", "true")

		u := fmt.Sprintf("%s/v1/images/reduce?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		log.Printf("modis: fetch failed for (%.3f, %.3f): %v", pt.Lat, pt.Lon, err)
		return yield.Series{}, nil
	}
	defer resp.Body.Close()

	var payload struct {
		Images []struct {
			AcquiredAt string              `json:"acquired_at"`
			Values     map[string]*float64 `json:"values"`
		} `json:"images"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("modis: malformed payload: %v", err)
		return yield.Series{}, nil
	}

	series := make(yield.Series, 0, len(payload.Images))
	for _, img := range payload.Images {
		if img.AcquiredAt == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", img.AcquiredAt)
		if err != nil {
			continue
		}
		raw := img.Values[ndviBand]
		if raw == nil {
			continue
		}
		series = append(series, yield.Observation{
			Date:  date,
			Value: *raw / ndviScaleDivisor,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, nil
}
