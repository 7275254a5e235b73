// Package predictor loads the externally-trained regression artifact and
// exposes it behind the yield.Predictor interface. This is the only model
// construction path in the service; the artifact is read once at startup and
// never reloaded.
package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/agroyield/crop-yield-service/internal/yield"
)

var (
	// ErrFeatureMismatch means the artifact was trained on a different
	// feature set or order than this service derives.
	ErrFeatureMismatch = errors.New("artifact feature set does not match expected features")
)

// artifactFile is the on-disk shape produced by the training pipeline.
type artifactFile struct {
	Features     []string           `json:"features"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
}

// LinearModel is a linear regression artifact. Immutable after Load, so it is
// safe for unlimited concurrent readers.
type LinearModel struct {
	features  []string
	weights   []float64
	intercept float64
}

// Load reads and validates the artifact at path. The feature list must equal
// yield.FeatureNames() in both membership and order; anything else is a load
// failure, and load failures are fatal to the process.
func Load(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	var file artifactFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}

	expected := yield.FeatureNames()
	if len(file.Features) != len(expected) {
		return nil, fmt.Errorf("%w: got %d features, want %d",
			ErrFeatureMismatch, len(file.Features), len(expected))
	}
	for i, name := range expected {
		if file.Features[i] != name {
			return nil, fmt.Errorf("%w: position %d is %q, want %q",
				ErrFeatureMismatch, i, file.Features[i], name)
		}
	}

	weights := make([]float64, len(expected))
	for i, name := range expected {
		w, ok := file.Coefficients[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing coefficient for %q", ErrFeatureMismatch, name)
		}
		weights[i] = w
	}

	return &LinearModel{
		features:  expected,
		weights:   weights,
		intercept: file.Intercept,
	}, nil
}

// Predict returns the scalar yield estimate for one feature vector.
func (m *LinearModel) Predict(v yield.FeatureVector) (float64, error) {
	values := v.Values()
	if len(values) != len(m.weights) {
		return 0, ErrFeatureMismatch
	}

	out := m.intercept
	for i, val := range values {
		out += m.weights[i] * val
	}
	return out, nil
}
