package dateIdeas

import (
	"encoding/json"
	"fmt"

	"github.com/datewise/go-date-night-suggestions/internal/types"
)

type dateIdeasPayload struct {
	Ideas []types.DateIdea `json:"ideas"`
}

// parseDateIdeasResponse decodes the model output into date ideas, tolerating
// markdown fences around the JSON body.
func parseDateIdeasResponse(response string) ([]types.DateIdea, error) {
	cleaned := cleanJSONResponse(response)
	if cleaned == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var payload dateIdeasPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse date ideas JSON: %w", err)
	}
	if len(payload.Ideas) == 0 {
		return nil, fmt.Errorf("model returned no date ideas")
	}

	for _, idea := range payload.Ideas {
		if idea.Title == "" {
			return nil, fmt.Errorf("date idea missing title")
		}
		if len(idea.Timeline) == 0 {
			return nil, fmt.Errorf("date idea %q has an empty timeline", idea.Title)
		}
	}
	return payload.Ideas, nil
}
