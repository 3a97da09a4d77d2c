package meetpoint

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/internal/api"
	"github.com/datewise/go-date-night-suggestions/internal/api/places"
	"github.com/datewise/go-date-night-suggestions/internal/geo"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

type Handler struct {
	meetPointService Service
	logger           *slog.Logger
}

func NewHandler(meetPointService Service, logger *slog.Logger) *Handler {
	return &Handler{
		meetPointService: meetPointService,
		logger:           logger,
	}
}

// FindMeetPoint handles POST /api/v1/meetpoint.
func (h *Handler) FindMeetPoint(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("MeetPointHandler").Start(r.Context(), "FindMeetPoint", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/meetpoint"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "FindMeetPoint"))

	outcome := "success"
	defer func() {
		metrics.Get().MeetPointRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	var req types.MeetPointRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		outcome = "bad_request"
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.meetPointService.FindMeetPoint(ctx, req)
	if err != nil {
		outcome = "error"
		switch {
		case errors.Is(err, ErrMissingLocation):
			api.ErrorResponse(w, r, http.StatusBadRequest, "both location_a and location_b (or point_a and point_b) are required")
		case errors.Is(err, geo.ErrInvalidCoordinate):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid coordinates")
		case errors.Is(err, places.ErrNoResults):
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
		case errors.Is(err, places.ErrMapsUnavailable):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Maps service not configured")
		default:
			l.ErrorContext(ctx, "Failed to compute meet point", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute meet point")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
