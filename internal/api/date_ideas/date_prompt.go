package dateIdeas

import (
	"fmt"
	"strings"

	"github.com/datewise/go-date-night-suggestions/internal/types"
)

const systemInstruction = `
    You are a helpful assistant that generates personalized date ideas based on user preferences.
    Generate creative, detailed, and practical date ideas that match the specified time, budget, preferences, and physical activity level.

    For each date idea:
    1. Create a detailed timeline breaking down activities by time
    2. Provide specific cost estimates for each component of the date
    3. Ensure the total cost stays within the specified budget
    4. Make sure the physical activity level is appropriate (1 = very low, 10 = very high)
    5. Focus on creating experiences that are memorable and tailored to the couple's interests
    6. Don't include things that are not possible to do in the allocated time
`

func buildDateIdeasPrompt(req types.DateIdeasRequest, locationLabel string) string {
	var partner strings.Builder
	if req.PartnerLikes != "" {
		fmt.Fprintf(&partner, "        - Partner Likes: %s\n", req.PartnerLikes)
	}
	if req.PartnerDislikes != "" {
		fmt.Fprintf(&partner, "        - Partner Dislikes: %s\n", req.PartnerDislikes)
	}
	if req.PartnerHobbies != "" {
		fmt.Fprintf(&partner, "        - Partner Hobbies: %s\n", req.PartnerHobbies)
	}
	if req.PartnerPersonality != "" {
		fmt.Fprintf(&partner, "        - Partner Personality: %s\n", req.PartnerPersonality)
	}
	if req.OwnPreferences != "" {
		fmt.Fprintf(&partner, "        - Your Preferences: %s\n", req.OwnPreferences)
	}
	if req.Misc != "" {
		fmt.Fprintf(&partner, "        - Other Considerations: %s\n", req.Misc)
	}

	return fmt.Sprintf(`
        Generate 3 perfect date ideas in %s based on the following preferences:

        - Event Type: %s
        - Time Available: %d hours
        - Budget: $%d
        - Vibe: %s
        - Location Type: %s
        - Physical Activity Level: %d/10
%s
        Each activity in a timeline must name a kind of venue that exists in a typical city
        (e.g. "specialty coffee shop", "mini golf", "wine bar") so it can be matched to a real place.

        Return the response STRICTLY as a JSON object with:
        {
        "ideas": [
            {
            "title": "A descriptive title for the date idea",
            "why_it_fits": "A brief explanation of why it's a good fit for these preferences",
            "overall_vibe": "Description of the atmosphere and experience",
            "total_cost": <integer, estimated total cost in dollars, within the budget>,
            "timeline": [
                {
                "time": "Start time, e.g. 6:00 PM",
                "name": "Name of the activity, e.g. Coffee & Conversation",
                "type": "Venue category: cafe, restaurant, bar, entertainment, spa, park, museum or night_club",
                "duration_hours": <float, duration of this activity in hours>,
                "estimated_cost": <integer, cost of this activity in dollars>
                }
            ]
            }
        ]
        }`,
		locationLabel, eventTypeLabel(req.EventType), req.TimeAvailable, req.Budget,
		strings.Join(req.Vibes, ", "), strings.Join(req.LocationTypes, ", "),
		req.PhysicalActivity, partner.String())
}

func eventTypeLabel(eventType string) string {
	switch eventType {
	case "first_date":
		return "First date"
	case "married_date":
		return "Married date night"
	case "friends_night":
		return "Friends night out"
	case "family_outing":
		return "Family outing"
	default:
		return "Casual dating"
	}
}
