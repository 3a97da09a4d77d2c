package places

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/datewise/go-date-night-suggestions/internal/api"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

type Handler struct {
	placesService Service
	logger        *slog.Logger
}

func NewHandler(placesService Service, logger *slog.Logger) *Handler {
	return &Handler{
		placesService: placesService,
		logger:        logger,
	}
}

// SearchPlaces handles GET /api/v1/places/search?query=&location=&radius=.
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "SearchPlaces", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/places/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchPlaces"))

	query := r.URL.Query().Get("query")
	location := r.URL.Query().Get("location")
	if query == "" || location == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "query and location are required")
		return
	}

	radius := 5000
	if radiusStr := r.URL.Query().Get("radius"); radiusStr != "" {
		parsed, err := strconv.Atoi(radiusStr)
		if err != nil || parsed <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "radius must be a positive integer")
			return
		}
		radius = parsed
	}

	center, _, err := h.placesService.Geocode(ctx, location)
	if err != nil {
		if errors.Is(err, ErrMapsUnavailable) {
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Maps service not configured")
			return
		}
		if errors.Is(err, ErrNoResults) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
			return
		}
		l.ErrorContext(ctx, "Failed to geocode location", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to resolve location")
		return
	}

	venues, err := h.placesService.SearchVenues(ctx, query, center, radius)
	if err != nil {
		l.ErrorContext(ctx, "Failed to search venues", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to search places")
		return
	}

	l.InfoContext(ctx, "Places search completed", slog.Int("results", len(venues)))
	api.WriteJSONResponse(w, r, http.StatusOK, types.PlaceSearchResponse{Places: venues})
}

// GeocodeCoordinates handles POST /api/v1/geocode: raw coordinates in, a
// human-readable address label out.
func (h *Handler) GeocodeCoordinates(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlacesHandler").Start(r.Context(), "GeocodeCoordinates", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/geocode"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GeocodeCoordinates"))

	var req types.GeocodeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	point := geo.GeoPoint{Latitude: req.Latitude, Longitude: req.Longitude}
	if !point.Valid() {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	label, err := h.placesService.ReverseGeocode(ctx, point)
	if err != nil {
		if errors.Is(err, ErrMapsUnavailable) {
			// Degrade the way the original UI does: echo the coordinates.
			api.WriteJSONResponse(w, r, http.StatusOK, types.GeocodeResponse{Address: point.String()})
			return
		}
		l.ErrorContext(ctx, "Reverse geocoding failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to reverse geocode")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.GeocodeResponse{Address: label})
}
