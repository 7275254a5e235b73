package yield

import (
	"fmt"
	"sort"
)

// districtCenters maps every Rwandan district to one representative
// coordinate. The mapping is fixed and pure: the same district resolves to
// the same point on every call. Coordinates are approximate centroids.
var districtCenters = map[string]GeoPoint{
	// Kigali City
	"Gasabo":     {Lat: -1.92, Lon: 30.115},
	"Kicukiro":   {Lat: -2.00, Lon: 30.115},
	"Nyarugenge": {Lat: -1.98, Lon: 30.03},

	// Southern Province
	"Gisagara":  {Lat: -2.72, Lon: 29.84},
	"Huye":      {Lat: -2.62, Lon: 29.74},
	"Kamonyi":   {Lat: -2.00, Lon: 29.90},
	"Muhanga":   {Lat: -2.08, Lon: 29.75},
	"Nyamagabe": {Lat: -2.47, Lon: 29.46},
	"Nyanza":    {Lat: -2.35, Lon: 29.74},
	"Nyaruguru": {Lat: -2.72, Lon: 29.52},
	"Ruhango":   {Lat: -2.23, Lon: 29.78},

	// Western Province
	"Karongi":    {Lat: -2.00, Lon: 29.40},
	"Ngororero":  {Lat: -1.87, Lon: 29.63},
	"Nyabihu":    {Lat: -1.65, Lon: 29.51},
	"Nyamasheke": {Lat: -2.40, Lon: 29.12},
	"Rubavu":     {Lat: -1.68, Lon: 29.30},
	"Rusizi":     {Lat: -2.60, Lon: 29.00},
	"Rutsiro":    {Lat: -1.90, Lon: 29.35},

	// Northern Province
	"Burera":  {Lat: -1.47, Lon: 29.87},
	"Gakenke": {Lat: -1.69, Lon: 29.79},
	"Gicumbi": {Lat: -1.58, Lon: 30.07},
	"Musanze": {Lat: -1.50, Lon: 29.63},
	"Rulindo": {Lat: -1.77, Lon: 29.99},

	// Eastern Province
	"Bugesera":  {Lat: -2.22, Lon: 30.17},
	"Gatsibo":   {Lat: -1.58, Lon: 30.42},
	"Kayonza":   {Lat: -1.88, Lon: 30.62},
	"Kirehe":    {Lat: -2.22, Lon: 30.70},
	"Ngoma":     {Lat: -2.15, Lon: 30.48},
	"Nyagatare": {Lat: -1.30, Lon: 30.33},
	"Rwamagana": {Lat: -1.95, Lon: 30.43},
}

// ResolveDistrict returns the representative coordinate of a district.
// Unknown names fail with ErrUnknownDistrict.
func ResolveDistrict(name string) (GeoPoint, error) {
	pt, ok := districtCenters[name]
	if !ok {
		return GeoPoint{}, fmt.Errorf("%w: %s", ErrUnknownDistrict, name)
	}
	return pt, nil
}

// DistrictNames returns every known district, sorted for stable iteration.
func DistrictNames() []string {
	names := make([]string, 0, len(districtCenters))
	for name := range districtCenters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
