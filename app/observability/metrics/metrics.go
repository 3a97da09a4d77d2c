package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	DateIdeasRequestsTotal   metric.Int64Counter
	DateIdeasDurationSeconds metric.Float64Histogram
	MeetPointRequestsTotal   metric.Int64Counter
	PlacesLookupsTotal       metric.Int64Counter
	PlacesLookupErrorsTotal  metric.Int64Counter
	LlmLatencySeconds        metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("date-night-suggestions")
		var err error
		m := &AppMetrics{}

		m.DateIdeasRequestsTotal, err = meter.Int64Counter(
			"date_ideas_requests_total",
			metric.WithDescription("Total number of date idea generation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create date_ideas_requests_total: %v", err)
		}

		m.DateIdeasDurationSeconds, err = meter.Float64Histogram(
			"date_ideas_duration_seconds",
			metric.WithDescription("End-to-end duration of date idea generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create date_ideas_duration_seconds: %v", err)
		}

		m.MeetPointRequestsTotal, err = meter.Int64Counter(
			"meetpoint_requests_total",
			metric.WithDescription("Total number of meet point requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create meetpoint_requests_total: %v", err)
		}

		m.PlacesLookupsTotal, err = meter.Int64Counter(
			"places_lookups_total",
			metric.WithDescription("Total number of Places API lookups issued"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_lookups_total: %v", err)
		}

		m.PlacesLookupErrorsTotal, err = meter.Int64Counter(
			"places_lookup_errors_total",
			metric.WithDescription("Total number of failed Places API lookups"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create places_lookup_errors_total: %v", err)
		}

		m.LlmLatencySeconds, err = meter.Float64Histogram(
			"llm_latency_seconds",
			metric.WithDescription("Latency of model generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_latency_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
