package places

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
	"googlemaps.github.io/maps"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
)

type mockMapsAPI struct {
	mock.Mock
}

func (m *mockMapsAPI) Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)
	if v := args.Get(0); v != nil {
		return v.([]maps.GeocodingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMapsAPI) ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)
	if v := args.Get(0); v != nil {
		return v.([]maps.GeocodingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMapsAPI) TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.PlacesSearchResponse), args.Error(1)
}

func (m *mockMapsAPI) NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.PlacesSearchResponse), args.Error(1)
}

func (m *mockMapsAPI) PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(maps.PlaceDetailsResult), args.Error(1)
}

func newTestService(client mapsAPI) *ServiceImpl {
	metrics.InitAppMetrics() // no-op instruments without an SDK
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServiceImpl(client, cache.New(time.Minute, time.Minute), logger)
}

func geocodingResult(lat, lng float64, address string) maps.GeocodingResult {
	r := maps.GeocodingResult{FormattedAddress: address}
	r.Geometry.Location = maps.LatLng{Lat: lat, Lng: lng}
	return r
}

func searchResult(placeID, name string, rating float32) maps.PlacesSearchResult {
	r := maps.PlacesSearchResult{
		PlaceID: placeID,
		Name:    name,
		Rating:  rating,
	}
	r.Geometry.Location = maps.LatLng{Lat: 40.71, Lng: -74.0}
	return r
}

func TestServiceAvailability(t *testing.T) {
	svc := newTestService(nil)
	assert.False(t, svc.Available())

	ctx := context.Background()
	_, _, err := svc.Geocode(ctx, "Austin, TX")
	assert.ErrorIs(t, err, ErrMapsUnavailable)
	_, err = svc.ReverseGeocode(ctx, geo.GeoPoint{})
	assert.ErrorIs(t, err, ErrMapsUnavailable)
	_, err = svc.SearchVenues(ctx, "coffee", geo.GeoPoint{}, 1000)
	assert.ErrorIs(t, err, ErrMapsUnavailable)
	_, err = svc.VenueDetails(ctx, "place-1")
	assert.ErrorIs(t, err, ErrMapsUnavailable)
}

func TestGeocode(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and caches", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("Geocode", mock.Anything, mock.MatchedBy(func(r *maps.GeocodingRequest) bool {
			return r.Address == "Austin, TX"
		})).Return([]maps.GeocodingResult{geocodingResult(30.2672, -97.7431, "Austin, TX, USA")}, nil).Once()

		svc := newTestService(client)
		point, label, err := svc.Geocode(ctx, "Austin, TX")
		require.NoError(t, err)
		assert.InDelta(t, 30.2672, point.Latitude, 1e-9)
		assert.Equal(t, "Austin, TX, USA", label)

		// Second call must come from the cache.
		point2, _, err := svc.Geocode(ctx, "Austin, TX")
		require.NoError(t, err)
		assert.Equal(t, point, point2)
		client.AssertNumberOfCalls(t, "Geocode", 1)
	})

	t.Run("empty results map to ErrNoResults", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("Geocode", mock.Anything, mock.Anything).Return([]maps.GeocodingResult{}, nil)

		svc := newTestService(client)
		_, _, err := svc.Geocode(ctx, "xyzzy")
		require.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("api errors are wrapped", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("Geocode", mock.Anything, mock.Anything).Return(nil, errors.New("OVER_QUERY_LIMIT"))

		svc := newTestService(client)
		_, _, err := svc.Geocode(ctx, "Austin, TX")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "geocoding")
	})
}

func TestSearchVenues(t *testing.T) {
	ctx := context.Background()
	center := geo.GeoPoint{Latitude: 40.71, Longitude: -74.0}

	t.Run("text search results are capped", func(t *testing.T) {
		results := make([]maps.PlacesSearchResult, 0, 8)
		for i := 0; i < 8; i++ {
			results = append(results, searchResult("place", "Venue", 4.2))
		}
		client := new(mockMapsAPI)
		client.On("TextSearch", mock.Anything, mock.Anything).
			Return(maps.PlacesSearchResponse{Results: results}, nil)

		svc := newTestService(client)
		venues, err := svc.SearchVenues(ctx, "coffee", center, 5000)
		require.NoError(t, err)
		assert.Len(t, venues, maxSearchResults)
	})

	t.Run("falls back to nearby search", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("TextSearch", mock.Anything, mock.Anything).
			Return(maps.PlacesSearchResponse{}, errors.New("ZERO_RESULTS"))
		client.On("NearbySearch", mock.Anything, mock.MatchedBy(func(r *maps.NearbySearchRequest) bool {
			return r.Keyword == "coffee"
		})).Return(maps.PlacesSearchResponse{
			Results: []maps.PlacesSearchResult{searchResult("place-1", "Halfway Cafe", 4.6)},
		}, nil)

		svc := newTestService(client)
		venues, err := svc.SearchVenues(ctx, "coffee", center, 5000)
		require.NoError(t, err)
		require.Len(t, venues, 1)
		assert.Equal(t, "Halfway Cafe", venues[0].Name)
	})

	t.Run("applies the radius floor", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("TextSearch", mock.Anything, mock.MatchedBy(func(r *maps.TextSearchRequest) bool {
			return r.Radius == minSearchRadiusMeters
		})).Return(maps.PlacesSearchResponse{
			Results: []maps.PlacesSearchResult{searchResult("place-1", "Corner Bar", 4.1)},
		}, nil)

		svc := newTestService(client)
		venues, err := svc.SearchVenues(ctx, "bar", center, 0)
		require.NoError(t, err)
		assert.Len(t, venues, 1)
		client.AssertExpectations(t)
	})

	t.Run("both searches failing is an error", func(t *testing.T) {
		client := new(mockMapsAPI)
		client.On("TextSearch", mock.Anything, mock.Anything).
			Return(maps.PlacesSearchResponse{}, errors.New("REQUEST_DENIED"))
		client.On("NearbySearch", mock.Anything, mock.Anything).
			Return(maps.PlacesSearchResponse{}, errors.New("REQUEST_DENIED"))

		svc := newTestService(client)
		_, err := svc.SearchVenues(ctx, "coffee", center, 5000)
		require.Error(t, err)
	})
}

func TestVenueDetails(t *testing.T) {
	ctx := context.Background()

	client := new(mockMapsAPI)
	open := true
	result := maps.PlaceDetailsResult{
		Name:             "Radio Coffee",
		FormattedAddress: "4204 Menchaca Rd, Austin, TX",
		Rating:           4.7,
		UserRatingsTotal: 2100,
		OpeningHours: &maps.OpeningHours{
			OpenNow:     &open,
			WeekdayText: []string{"Monday: 7AM-10PM"},
		},
	}
	result.Geometry.Location = maps.LatLng{Lat: 30.23, Lng: -97.79}
	client.On("PlaceDetails", mock.Anything, mock.MatchedBy(func(r *maps.PlaceDetailsRequest) bool {
		return r.PlaceID == "place-1"
	})).Return(result, nil).Once()

	svc := newTestService(client)
	// Pin the clock to a Friday dinner peak so the busy heuristic is stable.
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 21, 19, 0, 0, 0, time.UTC)
	}

	detail, err := svc.VenueDetails(ctx, "place-1")
	require.NoError(t, err)
	assert.Equal(t, "Radio Coffee", detail.Name)
	assert.Equal(t, "Likely very busy right now", detail.BusyStatus)
	require.NotNil(t, detail.OpenNow)
	assert.True(t, *detail.OpenNow)

	// Cached on the second lookup.
	_, err = svc.VenueDetails(ctx, "place-1")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "PlaceDetails", 1)
}

func TestBusyStatus(t *testing.T) {
	peak := time.Date(2026, time.August, 21, 19, 0, 0, 0, time.UTC)    // Friday 7PM
	offPeak := time.Date(2026, time.August, 21, 15, 0, 0, 0, time.UTC) // Friday 3PM
	open, closed := true, false

	assert.Equal(t, "", busyStatus(4.8, 500, nil, peak))
	assert.Equal(t, "Currently closed", busyStatus(4.8, 500, &closed, peak))
	assert.Equal(t, "Likely not too busy right now", busyStatus(4.8, 500, &open, offPeak))
	assert.Equal(t, "Likely very busy right now", busyStatus(4.6, 101, &open, peak))
	assert.Equal(t, "Might be busy right now", busyStatus(4.2, 50, &open, peak))
	assert.Equal(t, "Moderately busy right now", busyStatus(3.9, 500, &open, peak))
}

func TestCityStateLabel(t *testing.T) {
	components := []maps.AddressComponent{
		{LongName: "Austin", ShortName: "Austin", Types: []string{"locality", "political"}},
		{LongName: "Texas", ShortName: "TX", Types: []string{"administrative_area_level_1", "political"}},
		{LongName: "United States", ShortName: "US", Types: []string{"country", "political"}},
	}
	assert.Equal(t, "Austin TX", cityStateLabel(components))
	assert.Equal(t, "", cityStateLabel(nil))
	assert.Equal(t, "Austin", cityStateLabel(components[:1]))
}
