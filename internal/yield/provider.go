package yield

import (
	"context"
	"time"
)

// WeatherProvider abstracts a daily weather source (archive or forecast).
// Implementations degrade to an empty Table on upstream failure; callers must
// treat an empty table as "no data", never as success.
type WeatherProvider interface {
	Name() string
	FetchDaily(ctx context.Context, pt GeoPoint, start, end time.Time) (Table, error)
}

// VegetationProvider abstracts a satellite vegetation-index backend.
// Implementations degrade to an empty Series when the backend returns zero
// qualifying images or fails outright.
type VegetationProvider interface {
	Name() string
	FetchIndex(ctx context.Context, pt GeoPoint, start, end time.Time) (Series, error)
}

// Predictor is the opaque, externally-trained regression artifact. Loaded
// once at startup, immutable and side-effect-free afterwards, so it is safe
// for unlimited concurrent readers.
type Predictor interface {
	Predict(v FeatureVector) (float64, error)
}

// ProxySource supplies a measured historical vegetation-index mean for a
// district when one is available. Absence is not an error; the service falls
// back to its configured default proxy.
type ProxySource interface {
	HistoricalMean(district string) (float64, bool)
}
