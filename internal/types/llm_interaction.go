package types

import (
	"time"

	"github.com/google/uuid"
)

// LlmInteraction is one prompt/response exchange with the model, persisted
// for auditing and prompt iteration.
type LlmInteraction struct {
	ID           uuid.UUID `json:"id"`
	Prompt       string    `json:"prompt"`
	ResponseText string    `json:"response_text"`
	ModelUsed    string    `json:"model_used"`
	LatencyMs    int       `json:"latency_ms"`
	CreatedAt    time.Time `json:"created_at"`
}
