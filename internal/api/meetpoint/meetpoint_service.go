package meetpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/datewise/go-date-night-suggestions/internal/api/places"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

// longDistanceThresholdKm is where "meet in the middle" stops making sense
// for a single evening and the response switches to weekend destinations.
const longDistanceThresholdKm = 400.0

const maxDestinationSuggestions = 3

// ErrMissingLocation is returned when a side has neither an address nor a
// coordinate pair.
var ErrMissingLocation = errors.New("meetpoint: both sides must provide a location or a coordinate pair")

var _ Service = (*ServiceImpl)(nil)

// Service computes a fair meeting point between two locations.
type Service interface {
	FindMeetPoint(ctx context.Context, req types.MeetPointRequest) (*types.MeetPointResponse, error)
}

type ServiceImpl struct {
	logger        *slog.Logger
	placesService places.Service
}

func NewServiceImpl(placesService places.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:        logger,
		placesService: placesService,
	}
}

// FindMeetPoint resolves both sides, computes the great-circle midpoint and a
// search radius scaled to the separation, then either previews venues around
// the center or, past the long-distance threshold, suggests destination
// cities instead.
func (s *ServiceImpl) FindMeetPoint(ctx context.Context, req types.MeetPointRequest) (*types.MeetPointResponse, error) {
	ctx, span := otel.Tracer("MeetPointService").Start(ctx, "FindMeetPoint")
	defer span.End()

	l := s.logger.With(slog.String("service", "MeetPointService"))

	pointA, err := s.resolveSide(ctx, req.PointA, req.LocationA)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolving side A: %w", err)
	}
	pointB, err := s.resolveSide(ctx, req.PointB, req.LocationB)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("resolving side B: %w", err)
	}

	center, radiusMeters, err := geo.CheckedSearchCenterAndRadius(pointA, pointB)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	distanceKm := geo.Distance(pointA, pointB)

	resp := &types.MeetPointResponse{
		DistanceKm:   distanceKm,
		Fairness:     fairnessLabel(distanceKm),
		Center:       center,
		RadiusMeters: radiusMeters,
	}

	if label, err := s.centerLabel(ctx, center); err == nil {
		resp.CenterLabel = label
	}

	if distanceKm > longDistanceThresholdKm {
		resp.DestinationMode = true
		resp.Destinations = nearestDestinations(center, maxDestinationSuggestions)
		span.SetAttributes(attribute.Bool("meetpoint.destination_mode", true))
	} else if req.Query != "" && s.placesService.Available() {
		venues, err := s.placesService.SearchVenues(ctx, req.Query, center, radiusMeters)
		if err != nil {
			// The midpoint math is still useful without a preview.
			l.WarnContext(ctx, "Venue preview failed", slog.String("query", req.Query), slog.Any("error", err))
		} else {
			resp.Venues = venues
		}
	}

	span.SetAttributes(
		attribute.Float64("meetpoint.distance_km", distanceKm),
		attribute.Int("meetpoint.radius_meters", radiusMeters),
	)
	span.SetStatus(codes.Ok, "meet point computed")
	l.InfoContext(ctx, "Meet point computed",
		slog.Float64("distance_km", distanceKm),
		slog.Int("radius_meters", radiusMeters),
		slog.Bool("destination_mode", resp.DestinationMode),
	)
	return resp, nil
}

// resolveSide prefers an explicit coordinate pair over the address.
func (s *ServiceImpl) resolveSide(ctx context.Context, point *geo.GeoPoint, address string) (geo.GeoPoint, error) {
	if point != nil {
		if !point.Valid() {
			return geo.GeoPoint{}, geo.ErrInvalidCoordinate
		}
		return *point, nil
	}
	if address == "" {
		return geo.GeoPoint{}, ErrMissingLocation
	}
	resolved, _, err := s.placesService.Geocode(ctx, address)
	if err != nil {
		return geo.GeoPoint{}, err
	}
	return resolved, nil
}

func (s *ServiceImpl) centerLabel(ctx context.Context, center geo.GeoPoint) (string, error) {
	if !s.placesService.Available() {
		return "", places.ErrMapsUnavailable
	}
	return s.placesService.ReverseGeocode(ctx, center)
}

// fairnessLabel renders the "about N km each" copy shown under the map pin.
func fairnessLabel(distanceKm float64) string {
	if distanceKm < 1 {
		return "You're practically neighbors, anywhere nearby works"
	}
	return fmt.Sprintf("About %.0f km of travel for each of you", distanceKm/2)
}
