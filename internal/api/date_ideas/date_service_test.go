package dateIdeas

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

type mockAIGenerator struct {
	mock.Mock
}

func (m *mockAIGenerator) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	args := m.Called(ctx, prompt, config)
	return args.String(0), args.Error(1)
}

func (m *mockAIGenerator) Model() string {
	return "gemini-2.0-flash"
}

type mockPlacesService struct {
	mock.Mock
}

func (m *mockPlacesService) Available() bool {
	return m.Called().Bool(0)
}

func (m *mockPlacesService) Geocode(ctx context.Context, address string) (geo.GeoPoint, string, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(geo.GeoPoint), args.String(1), args.Error(2)
}

func (m *mockPlacesService) ReverseGeocode(ctx context.Context, point geo.GeoPoint) (string, error) {
	args := m.Called(ctx, point)
	return args.String(0), args.Error(1)
}

func (m *mockPlacesService) SearchVenues(ctx context.Context, query string, center geo.GeoPoint, radiusMeters int) ([]types.VenueSummary, error) {
	args := m.Called(ctx, query, center, radiusMeters)
	if v := args.Get(0); v != nil {
		return v.([]types.VenueSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlacesService) VenueDetails(ctx context.Context, placeID string) (*types.VenueDetails, error) {
	args := m.Called(ctx, placeID)
	if v := args.Get(0); v != nil {
		return v.(*types.VenueDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInteractionRepo struct {
	mock.Mock
}

func (m *mockInteractionRepo) SaveInteraction(ctx context.Context, interaction types.LlmInteraction) error {
	return m.Called(ctx, interaction).Error(0)
}

func (m *mockInteractionRepo) GetRecentInteractions(ctx context.Context, limit int) ([]types.LlmInteraction, error) {
	args := m.Called(ctx, limit)
	if v := args.Get(0); v != nil {
		return v.([]types.LlmInteraction), args.Error(1)
	}
	return nil, args.Error(1)
}

const modelResponse = `{
	"ideas": [
		{
			"title": "Cozy Evening Out",
			"why_it_fits": "Relaxed pace with good food",
			"overall_vibe": "Warm and unhurried",
			"total_cost": 90,
			"timeline": [
				{"time": "6:00 PM", "name": "Coffee & Conversation", "type": "cafe", "duration_hours": 1, "estimated_cost": 15},
				{"time": "7:30 PM", "name": "Dinner", "type": "restaurant", "duration_hours": 2, "estimated_cost": 75}
			]
		}
	]
}`

func baseRequest() types.DateIdeasRequest {
	return types.DateIdeasRequest{
		Location:         "Austin, TX",
		Budget:           150,
		TimeAvailable:    4,
		PhysicalActivity: 4,
		EventType:        "casual_dating",
		Vibes:            []string{"Romantic"},
	}
}

func newTestService(ai AIGenerator, ps *mockPlacesService, repo *mockInteractionRepo) *ServiceImpl {
	metrics.InitAppMetrics() // no-op instruments without an SDK
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(ai, ps, repo, cache.New(time.Minute, time.Minute), logger)
}

func TestGenerateDateIdeas(t *testing.T) {
	ctx := context.Background()
	center := geo.GeoPoint{Latitude: 30.2672, Longitude: -97.7431}

	t.Run("happy path with venue enrichment", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(true)
		ps.On("Geocode", mock.Anything, "Austin, TX").Return(center, "Austin, TX, USA", nil)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelResponse, nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil)

		venues := []types.VenueSummary{{PlaceID: "place-1", Name: "Radio Coffee", Rating: 4.6}}
		ps.On("SearchVenues", mock.Anything, mock.Anything, center, venueSearchRadiusMeters).Return(venues, nil)
		ps.On("VenueDetails", mock.Anything, "place-1").Return(&types.VenueDetails{
			PlaceID: "place-1",
			Name:    "Radio Coffee",
			Rating:  4.6,
		}, nil)

		svc := newTestService(ai, ps, repo)
		resp, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.NoError(t, err)
		require.Len(t, resp.Ideas, 1)

		assert.Equal(t, center, resp.Center)
		assert.Equal(t, "Austin, TX, USA", resp.CenterLabel)

		idea := resp.Ideas[0]
		require.Len(t, idea.Timeline, 2)
		assert.Equal(t, 90, idea.TotalCost)
		for _, activity := range idea.Timeline {
			require.NotNil(t, activity.Venue)
			assert.Equal(t, "Radio Coffee", activity.Venue.Name)
		}

		repo.AssertCalled(t, "SaveInteraction", mock.Anything, mock.MatchedBy(func(i types.LlmInteraction) bool {
			return i.ModelUsed == "gemini-2.0-flash" && i.ResponseText == modelResponse
		}))
	})

	t.Run("works without a maps client", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelResponse, nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(ai, ps, repo)
		resp, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.NoError(t, err)

		assert.Equal(t, "Austin, TX", resp.CenterLabel)
		assert.Equal(t, geo.GeoPoint{}, resp.Center)
		for _, activity := range resp.Ideas[0].Timeline {
			assert.Nil(t, activity.Venue)
		}
		ps.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
		ps.AssertNotCalled(t, "SearchVenues", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("caps costs that exceed the budget", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelResponse, nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil)

		req := baseRequest()
		req.Budget = 60 // model estimated 90

		svc := newTestService(ai, ps, repo)
		resp, err := svc.GenerateDateIdeas(ctx, req)
		require.NoError(t, err)
		assert.LessOrEqual(t, resp.Ideas[0].TotalCost, req.Budget)
		for _, activity := range resp.Ideas[0].Timeline {
			assert.LessOrEqual(t, activity.EstimatedCost, req.Budget/2)
		}
	})

	t.Run("model failure surfaces an error", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

		svc := newTestService(ai, ps, repo)
		_, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "generating date ideas")
		repo.AssertNotCalled(t, "SaveInteraction", mock.Anything, mock.Anything)
	})

	t.Run("unparseable model output surfaces an error", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return("sorry, I can't do that", nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(ai, ps, repo)
		_, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing date ideas")
		// The raw exchange is still recorded even when unusable.
		repo.AssertCalled(t, "SaveInteraction", mock.Anything, mock.Anything)
	})

	t.Run("identical requests hit the cache", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelResponse, nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(nil)

		svc := newTestService(ai, ps, repo)
		first, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.NoError(t, err)
		second, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.NoError(t, err)

		assert.Equal(t, first.Ideas, second.Ideas)
		ai.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("interaction save failure does not fail the request", func(t *testing.T) {
		ai := new(mockAIGenerator)
		ps := new(mockPlacesService)
		repo := new(mockInteractionRepo)

		ps.On("Available").Return(false)
		ai.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).Return(modelResponse, nil)
		repo.On("SaveInteraction", mock.Anything, mock.Anything).Return(errors.New("db down"))

		svc := newTestService(ai, ps, repo)
		resp, err := svc.GenerateDateIdeas(ctx, baseRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Ideas)
	})
}
