package yield

import (
	"errors"
	"time"
)

var (
	// ErrNoData is returned when feature derivation is asked to summarize an
	// empty weather window.
	ErrNoData = errors.New("no data for window")

	// ErrNoWeatherData is returned when the forecast-window weather fetch
	// produced nothing usable. Surfaced to callers rather than derived into
	// garbage features.
	ErrNoWeatherData = errors.New("no weather data for forecast window")

	// ErrUnknownDistrict is returned for district names outside the lookup
	// table. The message is surfaced verbatim in API error details.
	ErrUnknownDistrict = errors.New("Unknown district")

	// ErrBadPlantingDate is returned when the planting date does not parse.
	ErrBadPlantingDate = errors.New("planting date must be formatted YYYY-MM-DD")

	// ErrFutureDate is returned when the planting date is after today.
	ErrFutureDate = errors.New("planting date cannot be in the future")
)

// GeoPoint is a WGS84 coordinate pair identifying a district center.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Row is one day of weather for a location.
type Row struct {
	Date        time.Time `json:"date"`
	MeanTempC   float64   `json:"meanTempC"`
	TotalRainMM float64   `json:"totalRainMm"`
}

// Table is a daily weather series ordered by date ascending. Dates are
// calendar days (midnight UTC, no time component). An empty table means
// "no data", never success.
type Table []Row

// Observation is one satellite vegetation-index sample. Values are scaled
// into [0,1]. The series is sparse: days without a usable satellite pass
// simply have no observation.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a vegetation-index time series ordered by date ascending.
type Series []Observation

// VegetationStats summarizes vegetation-index observations for a district,
// produced by the background refresh job and consumed as the forecast-time
// proxy for unobservable future vegetation.
type VegetationStats struct {
	District     string    `json:"district"`
	MeanNDVI     float64   `json:"meanNdvi"`
	Observations int       `json:"observations"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Estimate is the response of one yield prediction.
type Estimate struct {
	District     string  `json:"district"`
	Crop         string  `json:"crop"`
	PlantingDate string  `json:"planting_date"`
	YieldTPerHa  float64 `json:"predicted_yield_t_ha"`
	Message      string  `json:"message"`
	Note         string  `json:"note"`
}

// FeatureVector is the single engineered row handed to the predictor. The
// feature set and its order are fixed by the trained artifact; Names and
// Values walk the fields in that canonical order.
type FeatureVector struct {
	MeanNDVI     float64
	CumRain30D   float64
	NDVIRollMean float64
	TempAnomaly  float64
	MeanTempC    float64
	Month        float64
	TotalRainMM  float64
}

// FeatureNames returns the canonical feature order the artifact was trained on.
func FeatureNames() []string {
	return []string{
		"mean_ndvi",
		"cum_rain_30d",
		"ndvi_roll_mean",
		"temp_anomaly",
		"mean_temp_c",
		"month",
		"total_rain_mm",
	}
}

// Values returns the feature values in canonical order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.MeanNDVI,
		v.CumRain30D,
		v.NDVIRollMean,
		v.TempAnomaly,
		v.MeanTempC,
		v.Month,
		v.TotalRainMM,
	}
}
