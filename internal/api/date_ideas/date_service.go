package dateIdeas

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	llmInteraction "github.com/datewise/go-date-night-suggestions/internal/api/llm_interaction"
	"github.com/datewise/go-date-night-suggestions/internal/api/places"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

const (
	defaultTemperature = 0.7

	// venueSearchRadiusMeters bounds how far from the resolved location
	// timeline activities are matched to real venues.
	venueSearchRadiusMeters = 8000

	// enrichmentConcurrency caps parallel Places lookups per request.
	enrichmentConcurrency = 4
)

// AIGenerator is the slice of the Gemini client this service needs.
type AIGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
	Model() string
}

var _ Service = (*ServiceImpl)(nil)

// Service generates personalized date ideas.
type Service interface {
	GenerateDateIdeas(ctx context.Context, req types.DateIdeasRequest) (*types.DateIdeasResponse, error)
}

type ServiceImpl struct {
	logger          *slog.Logger
	aiClient        AIGenerator
	placesService   places.Service
	interactionRepo llmInteraction.Repository
	cache           *cache.Cache
}

func NewServiceImpl(aiClient AIGenerator, placesService places.Service, interactionRepo llmInteraction.Repository, resultCache *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		aiClient:        aiClient,
		placesService:   placesService,
		interactionRepo: interactionRepo,
		cache:           resultCache,
	}
}

// GenerateDateIdeas resolves the location, asks the model for three ideas,
// reconciles costs against the budget and matches timeline activities to real
// venues around the resolved point.
func (s *ServiceImpl) GenerateDateIdeas(ctx context.Context, req types.DateIdeasRequest) (*types.DateIdeasResponse, error) {
	ctx, span := otel.Tracer("DateIdeasService").Start(ctx, "GenerateDateIdeas", trace.WithAttributes(
		attribute.String("request.location", req.Location),
		attribute.Int("request.budget", req.Budget),
		attribute.Int("request.time_available", req.TimeAvailable),
	))
	defer span.End()

	l := s.logger.With(slog.String("service", "DateIdeasService"))

	cacheKey := requestCacheKey(req)
	if cached, found := s.cache.Get(cacheKey); found {
		span.AddEvent("cache hit")
		l.DebugContext(ctx, "Returning cached date ideas", slog.String("location", req.Location))
		resp := cached.(types.DateIdeasResponse)
		return &resp, nil
	}

	center, locationLabel, err := s.resolveLocation(ctx, req.Location)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	prompt := buildDateIdeasPrompt(req, locationLabel)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](defaultTemperature),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
	}

	start := time.Now()
	responseText, err := s.aiClient.GenerateContent(ctx, prompt, config)
	latencyMs := int(time.Since(start).Milliseconds())
	if err != nil {
		span.RecordError(err)
		l.ErrorContext(ctx, "Model generation failed", slog.Any("error", err))
		return nil, fmt.Errorf("generating date ideas: %w", err)
	}
	span.SetAttributes(attribute.Int("llm.latency_ms", latencyMs))
	metrics.Get().LlmLatencySeconds.Record(ctx, time.Since(start).Seconds())

	s.recordInteraction(ctx, prompt, responseText, latencyMs)

	ideas, err := parseDateIdeasResponse(responseText)
	if err != nil {
		span.RecordError(err)
		l.ErrorContext(ctx, "Failed to parse model response", slog.Any("error", err))
		return nil, fmt.Errorf("parsing date ideas: %w", err)
	}

	for i := range ideas {
		ideas[i].Timeline = trimToTimeAvailable(ideas[i].Timeline, req.TimeAvailable)
		normalizeCosts(ideas[i].Timeline, req.Budget)
		ideas[i].TotalCost = timelineTotal(ideas[i].Timeline)
	}

	s.enrichWithVenues(ctx, ideas, center, req.Vibes)

	resp := types.DateIdeasResponse{
		Center:      center,
		CenterLabel: locationLabel,
		Ideas:       ideas,
	}
	s.cache.Set(cacheKey, resp, cache.DefaultExpiration)

	span.SetAttributes(attribute.Int("ideas.count", len(ideas)))
	span.SetStatus(codes.Ok, "date ideas generated")
	l.InfoContext(ctx, "Date ideas generated",
		slog.Int("ideas", len(ideas)),
		slog.Int("latency_ms", latencyMs),
		slog.String("model", s.aiClient.Model()),
	)
	return &resp, nil
}

// resolveLocation geocodes the free-text location. Without a maps client the
// generator still works, it just prompts with the raw text and skips venue
// matching.
func (s *ServiceImpl) resolveLocation(ctx context.Context, location string) (geo.GeoPoint, string, error) {
	if !s.placesService.Available() {
		return geo.GeoPoint{}, location, nil
	}
	center, label, err := s.placesService.Geocode(ctx, location)
	if err != nil {
		return geo.GeoPoint{}, "", fmt.Errorf("resolving location %q: %w", location, err)
	}
	if label == "" {
		label = location
	}
	return center, label, nil
}

// recordInteraction persists the exchange for later inspection. Failures are
// logged, never surfaced: losing the audit row must not fail the request.
func (s *ServiceImpl) recordInteraction(ctx context.Context, prompt, responseText string, latencyMs int) {
	if s.interactionRepo == nil {
		return
	}
	interaction := types.LlmInteraction{
		Prompt:       prompt,
		ResponseText: responseText,
		ModelUsed:    s.aiClient.Model(),
		LatencyMs:    latencyMs,
	}
	if err := s.interactionRepo.SaveInteraction(ctx, interaction); err != nil {
		s.logger.WarnContext(ctx, "Failed to record llm interaction", slog.Any("error", err))
	}
}

// enrichWithVenues matches each timeline activity to a real venue near the
// center, preferring venues not already used by another activity so the three
// ideas don't all point at the same coffee shop. Enrichment is best effort;
// lookup failures leave the activity without a venue.
func (s *ServiceImpl) enrichWithVenues(ctx context.Context, ideas []types.DateIdea, center geo.GeoPoint, vibes []string) {
	if !s.placesService.Available() || !center.Valid() {
		return
	}

	var mu sync.Mutex
	usedPlaceIDs := make(map[string]bool)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)

	for i := range ideas {
		for j := range ideas[i].Timeline {
			activity := &ideas[i].Timeline[j]
			g.Go(func() error {
				query := searchQueryFor(activity.Name, activity.Type, vibes)
				venues, err := s.placesService.SearchVenues(gctx, query, center, venueSearchRadiusMeters)
				if err != nil || len(venues) == 0 {
					s.logger.DebugContext(gctx, "No venue match for activity",
						slog.String("activity", activity.Name), slog.Any("error", err))
					return nil
				}

				mu.Lock()
				pick := venues[0]
				for _, v := range venues {
					if !usedPlaceIDs[v.PlaceID] {
						pick = v
						break
					}
				}
				usedPlaceIDs[pick.PlaceID] = true
				mu.Unlock()

				detail, err := s.placesService.VenueDetails(gctx, pick.PlaceID)
				if err != nil {
					s.logger.DebugContext(gctx, "Venue details lookup failed",
						slog.String("place_id", pick.PlaceID), slog.Any("error", err))
					return nil
				}
				activity.Venue = detail
				return nil
			})
		}
	}
	_ = g.Wait()
}
