package types

import "github.com/datewise/go-date-night-suggestions/internal/geo"

// DateIdeasRequest carries everything the generator needs: the hard
// constraints (time, budget, activity level) plus the free-text preference
// fields from the planning form.
type DateIdeasRequest struct {
	Location         string   `json:"location"`
	Budget           int      `json:"budget"`
	TimeAvailable    int      `json:"time_available"`
	PhysicalActivity int      `json:"physical_activity"`
	EventType        string   `json:"event_type"`
	Vibes            []string `json:"vibes"`
	LocationTypes    []string `json:"location_types"`

	PartnerLikes       string `json:"partner_likes,omitempty"`
	PartnerDislikes    string `json:"partner_dislikes,omitempty"`
	PartnerHobbies     string `json:"partner_hobbies,omitempty"`
	PartnerPersonality string `json:"partner_personality,omitempty"`
	OwnPreferences     string `json:"own_preferences,omitempty"`
	Misc               string `json:"misc,omitempty"`
}

// Activity is one entry of a date idea's timeline.
type Activity struct {
	Time          string        `json:"time"`
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	DurationHours float64       `json:"duration_hours"`
	EstimatedCost int           `json:"estimated_cost"`
	Venue         *VenueDetails `json:"venue,omitempty"`
}

type DateIdea struct {
	Title       string     `json:"title"`
	WhyItFits   string     `json:"why_it_fits"`
	OverallVibe string     `json:"overall_vibe"`
	TotalCost   int        `json:"total_cost"`
	Timeline    []Activity `json:"timeline"`
}

type DateIdeasResponse struct {
	Center      geo.GeoPoint `json:"center"`
	CenterLabel string       `json:"center_label,omitempty"`
	Ideas       []DateIdea   `json:"ideas"`
}
