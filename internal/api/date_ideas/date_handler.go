package dateIdeas

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/datewise/go-date-night-suggestions/app/observability/metrics"
	"github.com/datewise/go-date-night-suggestions/internal/api"
	"github.com/datewise/go-date-night-suggestions/internal/api/places"
	"github.com/datewise/go-date-night-suggestions/internal/types"
)

type Handler struct {
	dateIdeasService Service
	logger           *slog.Logger
}

func NewHandler(dateIdeasService Service, logger *slog.Logger) *Handler {
	return &Handler{
		dateIdeasService: dateIdeasService,
		logger:           logger,
	}
}

// GenerateDateIdeas handles POST /api/v1/dates/generate.
func (h *Handler) GenerateDateIdeas(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DateIdeasHandler").Start(r.Context(), "GenerateDateIdeas", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/dates/generate"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateDateIdeas"))

	start := time.Now()
	outcome := "success"
	defer func() {
		m := metrics.Get()
		m.DateIdeasRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		m.DateIdeasDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()

	var req types.DateIdeasRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		outcome = "bad_request"
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if msg := validateRequest(&req); msg != "" {
		outcome = "bad_request"
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.dateIdeasService.GenerateDateIdeas(ctx, req)
	if err != nil {
		outcome = "error"
		switch {
		case errors.Is(err, places.ErrNoResults):
			api.ErrorResponse(w, r, http.StatusNotFound, "Location not found")
		case errors.Is(err, places.ErrMapsUnavailable):
			api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Maps service not configured")
		default:
			l.ErrorContext(ctx, "Failed to generate date ideas", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate date ideas")
		}
		return
	}

	l.InfoContext(ctx, "Date ideas request served",
		slog.String("location", req.Location),
		slog.Int("ideas", len(resp.Ideas)),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// validateRequest fills defaults and returns an error message for anything a
// client must fix.
func validateRequest(req *types.DateIdeasRequest) string {
	if req.Location == "" {
		return "location is required"
	}
	if req.Budget <= 0 {
		return "budget must be a positive amount"
	}
	if req.TimeAvailable <= 0 {
		return "time_available must be a positive number of hours"
	}
	if req.PhysicalActivity == 0 {
		req.PhysicalActivity = 5
	}
	if req.PhysicalActivity < 1 || req.PhysicalActivity > 10 {
		return "physical_activity must be between 1 and 10"
	}
	if req.EventType == "" {
		req.EventType = "casual_dating"
	}
	switch req.EventType {
	case "first_date", "casual_dating", "married_date", "friends_night", "family_outing":
	default:
		return "event_type must be one of: first_date, casual_dating, married_date, friends_night, family_outing"
	}
	return ""
}
