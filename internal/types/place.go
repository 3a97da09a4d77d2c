package types

import "github.com/datewise/go-date-night-suggestions/internal/geo"

// VenueSummary is the shape returned by search endpoints: enough to render a
// result card and fetch details later.
type VenueSummary struct {
	PlaceID  string       `json:"place_id"`
	Name     string       `json:"name"`
	Address  string       `json:"address"`
	Rating   float64      `json:"rating,omitempty"`
	Location geo.GeoPoint `json:"location"`
}

// VenueDetails is the full venue record used to enrich timeline activities.
type VenueDetails struct {
	PlaceID          string       `json:"place_id"`
	Name             string       `json:"name"`
	Address          string       `json:"address"`
	PhoneNumber      string       `json:"phone_number,omitempty"`
	Website          string       `json:"website,omitempty"`
	MapsURL          string       `json:"maps_url,omitempty"`
	Rating           float64      `json:"rating,omitempty"`
	UserRatingsTotal int          `json:"user_ratings_total,omitempty"`
	PriceLevel       int          `json:"price_level,omitempty"`
	OpenNow          *bool        `json:"open_now,omitempty"`
	OpeningHours     []string     `json:"opening_hours,omitempty"`
	BusyStatus       string       `json:"busy_status,omitempty"`
	Location         geo.GeoPoint `json:"location"`
}

// GeocodeRequest converts raw coordinates into an address label.
type GeocodeRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type GeocodeResponse struct {
	Address string `json:"address"`
}

type PlaceSearchResponse struct {
	Places []VenueSummary `json:"places"`
}
