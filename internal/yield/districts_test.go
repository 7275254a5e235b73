package yield

import (
	"errors"
	"strings"
	"testing"
)

// The lookup is a pure mapping: the same district yields the same coordinate
// on every call.
func TestResolveDistrictStable(t *testing.T) {
	first, err := ResolveDistrict("Gasabo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Lat != -1.92 || first.Lon != 30.115 {
		t.Fatalf("Gasabo = %+v, want (-1.92, 30.115)", first)
	}

	for i := 0; i < 5; i++ {
		again, err := ResolveDistrict("Gasabo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("lookup not stable: %+v vs %+v", again, first)
		}
	}
}

func TestResolveDistrictUnknown(t *testing.T) {
	_, err := ResolveDistrict("Atlantis")
	if !errors.Is(err, ErrUnknownDistrict) {
		t.Fatalf("expected ErrUnknownDistrict, got %v", err)
	}
	// The message is surfaced verbatim as the API error detail.
	if !strings.Contains(err.Error(), "Unknown district") {
		t.Fatalf("error = %q, want it to contain %q", err.Error(), "Unknown district")
	}
	if !strings.Contains(err.Error(), "Atlantis") {
		t.Fatalf("error = %q, want it to name the district", err.Error())
	}
}

func TestDistrictNamesComplete(t *testing.T) {
	names := DistrictNames()
	if len(names) != 30 {
		t.Fatalf("expected 30 districts, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("district names not sorted at %d: %s >= %s", i, names[i-1], names[i])
		}
	}
}
