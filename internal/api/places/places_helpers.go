package places

import (
	"time"

	"googlemaps.github.io/maps"
)

// peakHours maps a weekday to the hours a venue is typically slammed.
// Heuristic only: the Places API does not expose live busyness.
var peakHours = map[time.Weekday][]int{
	time.Monday:    {12, 13, 17, 18, 19},
	time.Tuesday:   {12, 13, 17, 18, 19},
	time.Wednesday: {12, 13, 17, 18, 19},
	time.Thursday:  {12, 13, 17, 18, 19},
	time.Friday:    {12, 13, 17, 18, 19, 20},
	time.Saturday:  {10, 11, 12, 13, 14, 18, 19, 20},
	time.Sunday:    {10, 11, 12, 13, 14, 17, 18},
}

// busyStatus renders a human-readable guess at how busy a venue is right
// now, from its opening state, rating and review volume.
func busyStatus(rating float64, totalRatings int, openNow *bool, now time.Time) string {
	if openNow == nil {
		return ""
	}
	if !*openNow {
		return "Currently closed"
	}

	peak := false
	for _, h := range peakHours[now.Weekday()] {
		if now.Hour() == h {
			peak = true
			break
		}
	}
	if !peak {
		return "Likely not too busy right now"
	}

	switch {
	case rating > 4.5 && totalRatings > 100:
		return "Likely very busy right now"
	case rating > 4.0:
		return "Might be busy right now"
	default:
		return "Moderately busy right now"
	}
}

// cityStateLabel extracts a "City ST" label from geocoding address
// components, the shape prompts and fairness text want.
func cityStateLabel(components []maps.AddressComponent) string {
	var city, state string
	for _, c := range components {
		for _, t := range c.Types {
			switch t {
			case "locality":
				city = c.LongName
			case "administrative_area_level_1":
				state = c.ShortName
			}
		}
	}
	if city != "" && state != "" {
		return city + " " + state
	}
	return city
}
