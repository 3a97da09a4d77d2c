// Package geo holds the spherical geometry used to pick a venue search area
// for two-location dates: great-circle distance, midpoint and the bracketed
// search radius policy.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius in kilometers.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate is returned by the checked entry points when a
// coordinate is NaN or outside the valid latitude/longitude ranges.
var ErrInvalidCoordinate = errors.New("geo: invalid coordinate")

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is a real coordinate: latitude in
// [-90, 90], longitude in [-180, 180], neither NaN.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}

// Distance returns the great-circle distance between a and b in kilometers,
// computed with the haversine formula on a sphere of radius EarthRadiusKm.
// Accurate to within ~0.5% of the true ellipsoidal distance.
func Distance(a, b GeoPoint) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h fractionally past 1 for near-antipodal inputs,
	// which would turn Sqrt(1-h) into NaN. Clamp to the valid range.
	if h > 1 {
		h = 1
	}
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// Midpoint returns the point halfway along the shorter great-circle arc
// between a and b. Both points are projected onto the unit sphere, the
// Cartesian vectors are averaged and the mean vector is projected back.
// Averaging vectors rather than raw latitudes/longitudes keeps the result
// correct when the two points straddle the antimeridian or sit near a pole.
func Midpoint(a, b GeoPoint) GeoPoint {
	x1, y1, z1 := toCartesian(a)
	x2, y2, z2 := toCartesian(b)

	x := (x1 + x2) / 2
	y := (y1 + y2) / 2
	z := (z1 + z2) / 2

	// Antipodal inputs average to the zero vector; the midpoint is then
	// undefined, so fall back to the first input.
	hyp := math.Sqrt(x*x + y*y)
	if hyp == 0 && z == 0 {
		return a
	}

	return GeoPoint{
		Latitude:  radiansToDegrees(math.Atan2(z, hyp)),
		Longitude: radiansToDegrees(math.Atan2(y, x)),
	}
}

// radiusBracket maps a distance range to the fraction of the distance used
// as search radius and a hard cap in meters.
type radiusBracket struct {
	upperKm   float64
	fraction  float64
	capMeters int
}

// radiusBrackets is evaluated in order, first match wins. Close pairs search
// most of the gap between them; far pairs search a tight band around the
// midpoint so results stay reachable for both sides.
var radiusBrackets = []radiusBracket{
	{upperKm: 8, fraction: 0.60, capMeters: 4800},
	{upperKm: 32, fraction: 0.40, capMeters: 16000},
	{upperKm: 80, fraction: 0.30, capMeters: 24000},
	{upperKm: math.Inf(1), fraction: 0.20, capMeters: 40000},
}

// SearchCenterAndRadius computes where a venue search between two people
// should be centered and how wide it should be. The center is the spherical
// midpoint; the radius is the bracketed fraction of the distance, truncated
// to whole meters and never above the bracket cap. Identical inputs yield a
// radius of 0; callers are expected to apply their own minimum before
// issuing a search.
func SearchCenterAndRadius(a, b GeoPoint) (GeoPoint, int) {
	d := Distance(a, b)
	center := Midpoint(a, b)

	for _, br := range radiusBrackets {
		if d < br.upperKm {
			radius := int(d * 1000 * br.fraction)
			if radius > br.capMeters {
				radius = br.capMeters
			}
			return center, radius
		}
	}
	// Unreachable: the last bracket is unbounded.
	return center, 0
}

// CheckedSearchCenterAndRadius validates both inputs before delegating to
// SearchCenterAndRadius. Kept separate so hot paths that already validated
// at the edge pay nothing.
func CheckedSearchCenterAndRadius(a, b GeoPoint) (GeoPoint, int, error) {
	if !a.Valid() {
		return GeoPoint{}, 0, fmt.Errorf("%w: %s", ErrInvalidCoordinate, a)
	}
	if !b.Valid() {
		return GeoPoint{}, 0, fmt.Errorf("%w: %s", ErrInvalidCoordinate, b)
	}
	center, radius := SearchCenterAndRadius(a, b)
	return center, radius, nil
}

func toCartesian(p GeoPoint) (x, y, z float64) {
	lat := degreesToRadians(p.Latitude)
	lon := degreesToRadians(p.Longitude)
	return math.Cos(lat) * math.Cos(lon), math.Cos(lat) * math.Sin(lon), math.Sin(lat)
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

func radiansToDegrees(r float64) float64 {
	return r * 180 / math.Pi
}
