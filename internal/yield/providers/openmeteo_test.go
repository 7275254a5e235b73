package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agroyield/crop-yield-service/internal/yield"
)

// testOpenMeteo points both endpoints of a fresh provider at srv.
func testOpenMeteo(srv *httptest.Server) *OpenMeteoProvider {
	p := NewOpenMeteoProvider(srv.Client())
	p.archiveURL = srv.URL
	p.forecastURL = srv.URL
	return p
}

var kigali = yield.GeoPoint{Lat: -1.92, Lon: 30.115}

func TestOpenMeteoFetchDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("daily") != "temperature_2m_mean,precipitation_sum" {
			t.Errorf("unexpected daily param: %q", q.Get("daily"))
		}
		if q.Get("timezone") != "Africa/Kigali" {
			t.Errorf("unexpected timezone: %q", q.Get("timezone"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"daily": {
				"time": ["2024-03-01", "2024-03-02", "2024-03-03"],
				"temperature_2m_mean": [20.1, null, 21.3],
				"precipitation_sum": [5.0, 3.5, null]
			}
		}`))
	}))
	defer srv.Close()

	p := testOpenMeteo(srv)
	table, err := p.FetchDaily(context.Background(), kigali,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Days with a null measurement are dropped.
	if len(table) != 1 {
		t.Fatalf("expected 1 complete row, got %d", len(table))
	}
	row := table[0]
	if !row.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", row.Date)
	}
	if row.MeanTempC != 20.1 || row.TotalRainMM != 5.0 {
		t.Fatalf("unexpected row values: %+v", row)
	}
}

func TestOpenMeteoServerErrorDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := testOpenMeteo(srv)
	table, err := p.FetchDaily(context.Background(), kigali,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("degrade-to-empty must not surface an error, got %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(table))
	}
}

func TestOpenMeteoMalformedPayloadDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	p := testOpenMeteo(srv)
	table, err := p.FetchDaily(context.Background(), kigali,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("degrade-to-empty must not surface an error, got %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(table))
	}
}

func TestOpenMeteoRaggedArraysDegradeToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"daily": {
				"time": ["2024-03-01", "2024-03-02"],
				"temperature_2m_mean": [20.1],
				"precipitation_sum": [5.0, 3.5]
			}
		}`))
	}))
	defer srv.Close()

	p := testOpenMeteo(srv)
	table, err := p.FetchDaily(context.Background(), kigali,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("expected empty table for ragged payload, got %d rows", len(table))
	}
}
