package dateIdeas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/datewise/go-date-night-suggestions/internal/types"
)

// cleanJSONResponse strips the markdown fences models like to wrap JSON in.
func cleanJSONResponse(response string) string {
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// searchQueryFor maps an activity to a Places query that actually returns the
// right kind of venue. The model's activity names are often too poetic
// ("Sunset Stroll & Sips") to search verbatim, so known categories get a
// vibe-aware query and everything else falls back to the raw name.
func searchQueryFor(activityName, activityType string, vibes []string) string {
	vibe := ""
	if len(vibes) > 0 {
		vibe = strings.ToLower(vibes[0]) + " "
	}

	switch strings.ToLower(activityType) {
	case "cafe":
		return vibe + "coffee shop"
	case "restaurant":
		return vibe + "restaurant"
	case "bar":
		return vibe + "bar"
	case "night_club":
		return "night club"
	case "spa":
		return "spa"
	case "park":
		return "park"
	case "museum":
		return "museum"
	case "entertainment":
		name := strings.ToLower(activityName)
		switch {
		case strings.Contains(name, "movie") || strings.Contains(name, "film"):
			return "movie theater"
		case strings.Contains(name, "bowl"):
			return "bowling alley"
		case strings.Contains(name, "golf"):
			return "mini golf"
		case strings.Contains(name, "arcade") || strings.Contains(name, "game"):
			return "arcade"
		case strings.Contains(name, "karaoke"):
			return "karaoke bar"
		case strings.Contains(name, "escape"):
			return "escape room"
		case strings.Contains(name, "comedy"):
			return "comedy club"
		case strings.Contains(name, "music") || strings.Contains(name, "concert"):
			return "live music venue"
		default:
			return "entertainment venue"
		}
	default:
		return activityName
	}
}

// normalizeCosts reconciles the model's cost estimates with the stated
// budget. Missing per-activity costs get an even split with a bump for the
// main (second) activity; estimates that blow past the budget are scaled
// down proportionally. Each activity is also capped at half the budget.
func normalizeCosts(timeline []types.Activity, budget int) {
	if len(timeline) == 0 || budget <= 0 {
		return
	}

	total := 0
	missing := false
	for _, a := range timeline {
		if a.EstimatedCost <= 0 {
			missing = true
		}
		total += a.EstimatedCost
	}

	if missing || total <= 0 {
		costPer := budget / len(timeline)
		for i := range timeline {
			cost := costPer
			if i == 1 {
				cost = costPer * 6 / 5
			}
			timeline[i].EstimatedCost = cost
		}
	} else if total > budget {
		for i := range timeline {
			timeline[i].EstimatedCost = timeline[i].EstimatedCost * budget / total
		}
	}

	for i := range timeline {
		if timeline[i].EstimatedCost > budget/2 {
			timeline[i].EstimatedCost = budget / 2
		}
	}
}

// trimToTimeAvailable drops trailing activities that cannot fit the window,
// assuming roughly two hours per activity when the model omits durations.
func trimToTimeAvailable(timeline []types.Activity, hoursAvailable int) []types.Activity {
	if hoursAvailable <= 0 {
		return timeline
	}
	maxActivities := hoursAvailable / 2
	if maxActivities < 1 {
		maxActivities = 1
	}
	if len(timeline) > maxActivities {
		return timeline[:maxActivities]
	}
	return timeline
}

func timelineTotal(timeline []types.Activity) int {
	total := 0
	for _, a := range timeline {
		total += a.EstimatedCost
	}
	return total
}

// requestCacheKey fingerprints the full request so identical planning forms
// reuse the previous generation.
func requestCacheKey(req types.DateIdeasRequest) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Sprintf("dateideas:%s:%d:%d", req.Location, req.Budget, req.TimeAvailable)
	}
	sum := sha256.Sum256(raw)
	return "dateideas:" + hex.EncodeToString(sum[:16])
}
