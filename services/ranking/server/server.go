// Package server exposes the ranking dataset, metrics and charts as a
// JSON API for the dashboard front end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"starboard-backend/lib/scrapers/aoc"
	"starboard-backend/lib/usagestore"
	"starboard-backend/services/ranking"
	"starboard-backend/services/ranking/charts"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("services/ranking/server")

type Options struct {
	Service ranking.Service
	// Usage may be the zero store, which drops all counts.
	Usage usagestore.Store
}

type Server struct {
	service ranking.Service
	usage   usagestore.Store
}

func NewServer(opts Options) Server {
	return Server{
		service: opts.Service,
		usage:   opts.Usage,
	}
}

// RegisterRoutes mounts the dashboard API onto mux.
func (s Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/dataset", s.instrument("dataset", s.handleDataset))
	mux.HandleFunc("GET /api/v1/metrics", s.instrument("metrics", s.handleMetrics))
	mux.HandleFunc("GET /api/v1/forecast", s.instrument("forecast", s.handleForecast))
	mux.HandleFunc("GET /api/v1/charts", s.instrument("chart_index", s.handleChartIndex))
	mux.HandleFunc("GET /api/v1/charts/{name}", s.instrument("chart", s.handleChart))
	mux.HandleFunc("GET /api/v1/usage", s.instrument("usage", s.handleUsage))
}

func (s Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), endpoint)
		defer span.End()
		span.SetAttributes(attribute.String("path", r.URL.Path))

		start := time.Now()
		next(w, r.WithContext(ctx))
		slog.DebugContext(
			ctx, "handled api request",
			"endpoint", endpoint,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	}
}

type datasetResponse struct {
	Rows       aoc.Dataset `json:"rows"`
	Day        int         `json:"day"`
	Stale      bool        `json:"stale"`
	StaleSince *time.Time  `json:"stale_since,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// handleDataset always answers 200: a failed load degrades to empty
// rows with the error in the meta fields.
func (s Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.usage.Record(ctx, usagestore.KindPageView, "dataset")

	result := s.service.Load(ctx)
	response := datasetResponse{
		Rows:  result.Dataset,
		Day:   result.Dataset.DayCount(),
		Stale: result.Stale,
	}
	if result.Stale {
		response.StaleSince = &result.StaleSince
	}
	if result.Err != nil {
		response.Error = result.Err.Error()
	}
	writeJson(ctx, w, response)
}

type metricsResponse struct {
	Day          int                  `json:"day"`
	Global       ranking.Summary      `json:"global"`
	Campuses     []ranking.Summary    `json:"campuses"`
	Quartiles    ranking.Quartiles    `json:"quartiles"`
	Correlations ranking.Correlations `json:"correlations"`
	DailyRates   []ranking.DailyRate  `json:"daily_rates"`
	Stale        bool                 `json:"stale"`
}

func (s Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.usage.Record(ctx, usagestore.KindPageView, "metrics")

	result := s.service.Load(ctx)
	global, err := ranking.GlobalMetrics(result.Dataset)
	if err != nil {
		s.failAggregation(ctx, w, "metrics", err)
		return
	}
	campuses, err := ranking.CampusMetrics(result.Dataset)
	if err != nil {
		s.failAggregation(ctx, w, "metrics", err)
		return
	}
	quartiles, err := ranking.PointsQuartiles(result.Dataset)
	if err != nil {
		s.failAggregation(ctx, w, "metrics", err)
		return
	}
	correlations, err := ranking.CorrelationMetrics(result.Dataset)
	if err != nil {
		s.failAggregation(ctx, w, "metrics", err)
		return
	}

	writeJson(ctx, w, metricsResponse{
		Day:          ranking.CurrentDay(result.Dataset),
		Global:       global,
		Campuses:     campuses,
		Quartiles:    quartiles,
		Correlations: correlations,
		DailyRates:   ranking.DailySuccessRates(result.Dataset),
		Stale:        result.Stale,
	})
}

type forecastResponse struct {
	Day       int                `json:"day"`
	Horizon   int                `json:"horizon"`
	Forecasts []ranking.Forecast `json:"forecasts"`
	Stale     bool               `json:"stale"`
}

func (s Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.usage.Record(ctx, usagestore.KindPageView, "forecast")

	horizon := 1
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, http.StatusBadRequest, "horizon must be a positive integer")
			return
		}
		horizon = parsed
	}

	result := s.service.Load(ctx)
	forecasts, err := ranking.ForecastSuccessRate(result.Dataset, horizon)
	if err != nil {
		s.failAggregation(ctx, w, "forecast", err)
		return
	}

	writeJson(ctx, w, forecastResponse{
		Day:       ranking.CurrentDay(result.Dataset),
		Horizon:   horizon,
		Forecasts: forecasts,
		Stale:     result.Stale,
	})
}

func (s Server) handleChartIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s.usage.Record(ctx, usagestore.KindPageView, "charts")

	writeJson(ctx, w, map[string][]string{"charts": charts.Names()})
}

// handleChart serves the echarts option document for one builder. An
// empty dataset still yields a renderable, degenerate chart.
func (s Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	result := s.service.Load(ctx)
	chart, ok := charts.Build(name, result.Dataset)
	if !ok {
		s.usage.Record(ctx, usagestore.KindApiError, "chart:"+name)
		writeError(ctx, w, http.StatusNotFound, fmt.Sprintf("unknown chart %q", name))
		return
	}

	s.usage.Record(ctx, usagestore.KindChartView, name)
	writeJson(ctx, w, chart)
}

func (s Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := s.usage.Totals(ctx)
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "failed to read usage counters")
		return
	}
	writeJson(ctx, w, map[string][]usagestore.UsageCount{"totals": totals})
}

func (s Server) failAggregation(ctx context.Context, w http.ResponseWriter, endpoint string, err error) {
	s.usage.Record(ctx, usagestore.KindApiError, endpoint)

	status := http.StatusInternalServerError
	if errors.Is(err, ranking.ErrInsufficientData) {
		status = http.StatusServiceUnavailable
	}
	writeError(ctx, w, status, err.Error())
}

func writeJson(ctx context.Context, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.WarnContext(ctx, "failed to write response", "err", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Error, message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]string{"error": message})
	if err != nil {
		slog.WarnContext(ctx, "failed to write error response", "err", err)
	}
}
