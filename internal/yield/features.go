package yield

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// rainWindowDays is the trailing window for cumulative precipitation.
const rainWindowDays = 30

// DeriveFeatures collapses a weather window (and optionally a vegetation-index
// series) into the single FeatureVector the artifact was trained on.
//
// The weather table must be ordered by date ascending and cover a contiguous
// range ending at or before the planting date; days absent from the table
// contribute zero rain to trailing sums. When the vegetation series is empty
// (the forecast case, where future vegetation is unobservable), both NDVI
// features are set to proxy.
//
// Derivation is pure: identical inputs produce bit-identical vectors.
func DeriveFeatures(weather Table, ndvi Series, proxy float64) (FeatureVector, error) {
	if len(weather) == 0 {
		return FeatureVector{}, ErrNoData
	}

	n := len(weather)
	temps := make([]float64, n)
	rains := make([]float64, n)
	for i, row := range weather {
		temps[i] = row.MeanTempC
		rains[i] = row.TotalRainMM
	}

	// Anomaly is relative to the supplied window itself, not a climatological
	// baseline: a uniformly hot window has anomaly 0 on every day.
	windowMean := stat.Mean(temps, nil)

	cum30 := make([]float64, n)
	anomaly := make([]float64, n)
	months := make([]float64, n)
	lo := 0
	for i, row := range weather {
		cutoff := row.Date.AddDate(0, 0, -rainWindowDays)
		for weather[lo].Date.Compare(cutoff) <= 0 {
			lo++
		}
		var sum float64
		for j := lo; j <= i; j++ {
			sum += rains[j]
		}
		cum30[i] = sum
		anomaly[i] = temps[i] - windowMean
		months[i] = float64(row.Date.Month())
	}

	meanNDVI := proxy
	rollNDVI := proxy
	if len(ndvi) > 0 {
		meanNDVI, rollNDVI = vegetationFeatures(ndvi)
	}

	return collapseDaily(meanNDVI, rollNDVI, cum30, anomaly, temps, months, rains), nil
}

// vegetationFeatures computes the series mean and the mean of the trailing
// 30-day rolling mean over an observed vegetation-index series.
func vegetationFeatures(ndvi Series) (mean, rollMean float64) {
	values := make([]float64, len(ndvi))
	for i, obs := range ndvi {
		values[i] = obs.Value
	}
	mean = stat.Mean(values, nil)

	rolls := make([]float64, len(ndvi))
	lo := 0
	for i, obs := range ndvi {
		cutoff := obs.Date.AddDate(0, 0, -rainWindowDays)
		for ndvi[lo].Date.Compare(cutoff) <= 0 {
			lo++
		}
		rolls[i] = stat.Mean(values[lo:i+1], nil)
	}
	rollMean = stat.Mean(rolls, nil)
	return mean, rollMean
}

// MidnightUTC truncates a timestamp to its calendar day. Table and Series
// dates are normalized through this so windowed comparisons stay day-exact.
func MidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// collapseDaily flattens the per-day feature columns into one row by taking
// the arithmetic mean of each column. Averaging the month column across a
// window that spans a month boundary is dimensionally dubious, but the
// artifact was trained on exactly this collapse; keep it here, isolated, so
// it can be corrected together with a retrained model.
func collapseDaily(meanNDVI, rollNDVI float64, cum30, anomaly, temps, months, rains []float64) FeatureVector {
	return FeatureVector{
		MeanNDVI:     meanNDVI,
		CumRain30D:   stat.Mean(cum30, nil),
		NDVIRollMean: rollNDVI,
		TempAnomaly:  stat.Mean(anomaly, nil),
		MeanTempC:    stat.Mean(temps, nil),
		Month:        stat.Mean(months, nil),
		TotalRainMM:  stat.Mean(rains, nil),
	}
}
