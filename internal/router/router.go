package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/datewise/go-date-night-suggestions/internal/api"
	dateIdeas "github.com/datewise/go-date-night-suggestions/internal/api/date_ideas"
	"github.com/datewise/go-date-night-suggestions/internal/api/meetpoint"
	"github.com/datewise/go-date-night-suggestions/internal/api/places"
)

// Config contains the handlers the router mounts plus the health snapshot
// reported on /ping.
type Config struct {
	DateIdeasHandler *dateIdeas.Handler
	MeetPointHandler *meetpoint.Handler
	PlacesHandler    *places.Handler

	MapsConfigured bool
	LLMConfigured  bool
}

type healthStatus struct {
	Status string `json:"status"`
	Maps   bool   `json:"maps_configured"`
	LLM    bool   `json:"llm_configured"`
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, healthStatus{
			Status: "ok",
			Maps:   cfg.MapsConfigured,
			LLM:    cfg.LLMConfigured,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/dates/generate", cfg.DateIdeasHandler.GenerateDateIdeas)
		r.Post("/meetpoint", cfg.MeetPointHandler.FindMeetPoint)
		r.Get("/places/search", cfg.PlacesHandler.SearchPlaces)
		r.Post("/geocode", cfg.PlacesHandler.GeocodeCoordinates)
	})

	return r
}
