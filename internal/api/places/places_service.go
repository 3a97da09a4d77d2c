package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"googlemaps.github.io/maps"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

// ErrMapsUnavailable is returned when no Google Maps API key was configured.
var ErrMapsUnavailable = errors.New("places: maps client not configured")

// ErrNoResults is returned when geocoding or search comes back empty.
var ErrNoResults = errors.New("places: no results")

// minSearchRadiusMeters is the floor applied before issuing a venue search.
// The midpoint calculator legitimately returns 0 for identical points; a
// zero-radius Places query would return nothing useful.
const minSearchRadiusMeters = 300

// maxSearchResults caps what search endpoints hand back to callers.
const maxSearchResults = 5

// mapsAPI is the slice of *maps.Client this service depends on.
type mapsAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
}

var _ Service = (*ServiceImpl)(nil)

// Service is the venue-search collaborator consumed by the date idea
// generator and the meet-point endpoint.
type Service interface {
	Available() bool
	Geocode(ctx context.Context, address string) (geo.GeoPoint, string, error)
	ReverseGeocode(ctx context.Context, point geo.GeoPoint) (string, error)
	SearchVenues(ctx context.Context, query string, center geo.GeoPoint, radiusMeters int) ([]types.VenueSummary, error)
	VenueDetails(ctx context.Context, placeID string) (*types.VenueDetails, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	client mapsAPI
	cache  *cache.Cache
	now    func() time.Time
}

// NewServiceImpl builds the places service. A nil client is allowed and puts
// the service into unavailable mode, mirroring how the app degrades when the
// maps key is missing.
func NewServiceImpl(client mapsAPI, resultCache *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		client: client,
		cache:  resultCache,
		now:    time.Now,
	}
}

// NewClient builds the underlying Google Maps client. Kept here so main only
// deals with this package.
func NewClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrMapsUnavailable
	}
	return maps.NewClient(maps.WithAPIKey(apiKey))
}

func (s *ServiceImpl) Available() bool {
	return s.client != nil
}

// Geocode resolves a free-text address to a coordinate and a formatted label.
func (s *ServiceImpl) Geocode(ctx context.Context, address string) (geo.GeoPoint, string, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "Geocode", trace.WithAttributes(
		attribute.String("geocode.address", address),
	))
	defer span.End()

	if !s.Available() {
		return geo.GeoPoint{}, "", ErrMapsUnavailable
	}

	cacheKey := "geocode:" + address
	if cached, found := s.cache.Get(cacheKey); found {
		hit := cached.(geocodeResult)
		span.AddEvent("cache hit")
		return hit.point, hit.label, nil
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Geocoding failed", slog.String("address", address), slog.Any("error", err))
		return geo.GeoPoint{}, "", fmt.Errorf("geocoding %q: %w", address, err)
	}
	if len(results) == 0 {
		span.SetStatus(codes.Error, "no geocoding results")
		return geo.GeoPoint{}, "", fmt.Errorf("geocoding %q: %w", address, ErrNoResults)
	}

	point := geo.GeoPoint{
		Latitude:  results[0].Geometry.Location.Lat,
		Longitude: results[0].Geometry.Location.Lng,
	}
	label := results[0].FormattedAddress
	s.cache.Set(cacheKey, geocodeResult{point: point, label: label}, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "geocoded")
	return point, label, nil
}

// ReverseGeocode turns a coordinate into a short "City ST" label for prompt
// targeting and UI copy. Falls back to the raw coordinates when the reverse
// lookup yields nothing usable.
func (s *ServiceImpl) ReverseGeocode(ctx context.Context, point geo.GeoPoint) (string, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "ReverseGeocode")
	defer span.End()

	if !s.Available() {
		return "", ErrMapsUnavailable
	}

	cacheKey := "revgeo:" + point.String()
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.(string), nil
	}

	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: point.Latitude, Lng: point.Longitude},
	})
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Reverse geocoding failed", slog.Any("error", err))
		return "", fmt.Errorf("reverse geocoding %s: %w", point, err)
	}

	label := point.String()
	if len(results) > 0 {
		if cityState := cityStateLabel(results[0].AddressComponents); cityState != "" {
			label = cityState
		} else if results[0].FormattedAddress != "" {
			label = results[0].FormattedAddress
		}
	}
	s.cache.Set(cacheKey, label, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "reverse geocoded")
	return label, nil
}

// SearchVenues runs a text search around the center and falls back to a
// nearby keyword search when the text search returns nothing.
func (s *ServiceImpl) SearchVenues(ctx context.Context, query string, center geo.GeoPoint, radiusMeters int) ([]types.VenueSummary, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "SearchVenues", trace.WithAttributes(
		attribute.String("search.query", query),
		attribute.Int("search.radius_meters", radiusMeters),
	))
	defer span.End()

	if !s.Available() {
		return nil, ErrMapsUnavailable
	}

	if radiusMeters < minSearchRadiusMeters {
		radiusMeters = minSearchRadiusMeters
	}

	cacheKey := fmt.Sprintf("venues:%s:%s:%d", query, center, radiusMeters)
	if cached, found := s.cache.Get(cacheKey); found {
		span.AddEvent("cache hit")
		return cached.([]types.VenueSummary), nil
	}

	location := &maps.LatLng{Lat: center.Latitude, Lng: center.Longitude}
	metrics.Get().PlacesLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "text_search")))
	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    query,
		Location: location,
		Radius:   uint(radiusMeters),
	})
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Text search failed, trying nearby search",
			slog.String("query", query), slog.Any("error", err))
	}

	results := resp.Results
	if len(results) == 0 {
		metrics.Get().PlacesLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "nearby_search")))
		nearby, nearbyErr := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
			Location: location,
			Radius:   uint(radiusMeters),
			Keyword:  query,
		})
		if nearbyErr != nil {
			span.RecordError(nearbyErr)
			metrics.Get().PlacesLookupErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "nearby_search")))
			s.logger.ErrorContext(ctx, "Nearby search failed",
				slog.String("query", query), slog.Any("error", nearbyErr))
			return nil, fmt.Errorf("searching venues for %q: %w", query, nearbyErr)
		}
		results = nearby.Results
	}

	venues := make([]types.VenueSummary, 0, maxSearchResults)
	for _, r := range results {
		if len(venues) == maxSearchResults {
			break
		}
		address := r.FormattedAddress
		if address == "" {
			address = r.Vicinity
		}
		venues = append(venues, types.VenueSummary{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: address,
			Rating:  float64(r.Rating),
			Location: geo.GeoPoint{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
		})
	}
	s.cache.Set(cacheKey, venues, cache.DefaultExpiration)

	span.SetAttributes(attribute.Int("search.results", len(venues)))
	span.SetStatus(codes.Ok, "venues found")
	return venues, nil
}

// VenueDetails fetches the full place record and annotates it with the busy
// status heuristic.
func (s *ServiceImpl) VenueDetails(ctx context.Context, placeID string) (*types.VenueDetails, error) {
	ctx, span := otel.Tracer("PlacesService").Start(ctx, "VenueDetails", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	if !s.Available() {
		return nil, ErrMapsUnavailable
	}

	cacheKey := "details:" + placeID
	if cached, found := s.cache.Get(cacheKey); found {
		detail := cached.(types.VenueDetails)
		return &detail, nil
	}

	metrics.Get().PlacesLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "place_details")))
	result, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID})
	if err != nil {
		span.RecordError(err)
		metrics.Get().PlacesLookupErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "place_details")))
		s.logger.ErrorContext(ctx, "Place details lookup failed",
			slog.String("place_id", placeID), slog.Any("error", err))
		return nil, fmt.Errorf("place details for %q: %w", placeID, err)
	}

	detail := types.VenueDetails{
		PlaceID:          placeID,
		Name:             result.Name,
		Address:          result.FormattedAddress,
		PhoneNumber:      result.FormattedPhoneNumber,
		Website:          result.Website,
		MapsURL:          result.URL,
		Rating:           float64(result.Rating),
		UserRatingsTotal: result.UserRatingsTotal,
		PriceLevel:       result.PriceLevel,
		Location: geo.GeoPoint{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}
	if result.OpeningHours != nil {
		detail.OpenNow = result.OpeningHours.OpenNow
		detail.OpeningHours = result.OpeningHours.WeekdayText
	}
	detail.BusyStatus = busyStatus(detail.Rating, detail.UserRatingsTotal, detail.OpenNow, s.now())

	s.cache.Set(cacheKey, detail, cache.DefaultExpiration)

	span.SetStatus(codes.Ok, "details fetched")
	return &detail, nil
}

type geocodeResult struct {
	point geo.GeoPoint
	label string
}
