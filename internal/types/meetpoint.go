package types

import "github.com/datewise/go-date-night-suggestions/internal/geo"

// MeetPointRequest describes the two sides of a two-location date. Each side
// is either a free-text address to geocode or a raw coordinate pair.
type MeetPointRequest struct {
	LocationA string        `json:"location_a,omitempty"`
	LocationB string        `json:"location_b,omitempty"`
	PointA    *geo.GeoPoint `json:"point_a,omitempty"`
	PointB    *geo.GeoPoint `json:"point_b,omitempty"`

	// Query, when set, triggers a venue preview around the computed center.
	Query string `json:"query,omitempty"`
}

// DestinationSuggestion is one entry of the long-distance fallback table.
type DestinationSuggestion struct {
	City        string       `json:"city"`
	Region      string       `json:"region"`
	Description string       `json:"description"`
	Location    geo.GeoPoint `json:"location"`
}

type MeetPointResponse struct {
	DistanceKm   float64      `json:"distance_km"`
	Fairness     string       `json:"fairness"`
	Center       geo.GeoPoint `json:"center"`
	CenterLabel  string       `json:"center_label,omitempty"`
	RadiusMeters int          `json:"radius_meters"`

	Venues []VenueSummary `json:"venues,omitempty"`

	// DestinationMode is set when the two points are too far apart for a
	// same-day meet; Destinations then carries weekend-trip suggestions.
	DestinationMode bool                    `json:"destination_mode"`
	Destinations    []DestinationSuggestion `json:"destinations,omitempty"`
}
