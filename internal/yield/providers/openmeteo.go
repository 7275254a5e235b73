package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/agroyield/crop-yield-service/internal/yield"
	"github.com/sony/gobreaker"
)

// weatherTimezone pins daily bucketing to local Rwandan days so archive and
// forecast windows line up with planting dates.
const weatherTimezone = "Africa/Kigali"

// OpenMeteoProvider implements yield.WeatherProvider against Open-Meteo's
// daily archive and forecast endpoints. It requests daily mean temperature
// and precipitation sums; fully-past windows go to the archive endpoint,
// anything touching today or later goes to the forecast endpoint.
//
// Any transport failure, non-2xx response, or malformed payload degrades to
// an empty table. Callers must treat an empty table as "no data".
type OpenMeteoProvider struct {
	name        string
	archiveURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:        "openmeteo",
		archiveURL:  "https://archive-api.open-meteo.com/v1/archive",
		forecastURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg:     HTTPClientConfig{Client: client},
		circuit:     cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchDaily returns one row per day in [start, end], ordered by date. Days
// the payload reports with null temperature or precipitation are dropped.
func (p *OpenMeteoProvider) FetchDaily(ctx context.Context, pt yield.GeoPoint, start, end time.Time) (yield.Table, error) {
	base := p.forecastURL
	today := yield.MidnightUTC(time.Now().UTC())
	if end.Before(today) {
		base = p.archiveURL
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", pt.Lat))
		values.Set("longitude", fmt.Sprintf("%f", pt.Lon))
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))
		values.Set("daily", "temperature_2m_mean,precipitation_sum")
		values.Set("timezone", weatherTimezone)

		u := fmt.Sprintf("%s?%s", base, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		log.Printf("openmeteo: fetch failed for (%.3f, %.3f): %v", pt.Lat, pt.Lon, err)
		return yield.Table{}, nil
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time              []string   `json:"time"`
			Temperature2mMean []*float64 `json:"temperature_2m_mean"`
			PrecipitationSum  []*float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("openmeteo: malformed payload: %v", err)
		return yield.Table{}, nil
	}

	daily := payload.Daily
	if len(daily.Time) != len(daily.Temperature2mMean) || len(daily.Time) != len(daily.PrecipitationSum) {
		log.Printf("openmeteo: ragged daily arrays (%d/%d/%d)",
			len(daily.Time), len(daily.Temperature2mMean), len(daily.PrecipitationSum))
		return yield.Table{}, nil
	}

	table := make(yield.Table, 0, len(daily.Time))
	for i, day := range daily.Time {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if daily.Temperature2mMean[i] == nil || daily.PrecipitationSum[i] == nil {
			continue
		}
		table = append(table, yield.Row{
			Date:        date,
			MeanTempC:   *daily.Temperature2mMean[i],
			TotalRainMM: *daily.PrecipitationSum[i],
		})
	}

	return table, nil
}
