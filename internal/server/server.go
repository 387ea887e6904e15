// Package server exposes the flight search API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flypoints/internal/metrics"
	"flypoints/internal/models"
	"flypoints/internal/parsers"
	"flypoints/internal/scraper"
	"flypoints/internal/snapshots"
)

// Server wires the snapshot store and scrape runners behind the JSON API.
type Server struct {
	store        *snapshots.Store
	spicejet     *scraper.Runner
	spicejetIntl *scraper.Runner
	etihad       *scraper.Runner
	metrics      *metrics.Metrics
	mux          *http.ServeMux
}

// New builds a server. The prometheus gatherer backs the /metrics endpoint
// and must match the registerer the metrics were created with.
func New(store *snapshots.Store, spicejet, spicejetIntl, etihad *scraper.Runner, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		store:        store,
		spicejet:     spicejet,
		spicejetIntl: spicejetIntl,
		etihad:       etihad,
		metrics:      m,
		mux:          http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/flights", s.handleFlights)
	s.mux.HandleFunc("/api/flights/scrape", s.handleScrape)
	s.mux.HandleFunc("/api/flights/scrape-international", s.handleScrapeInternational)
	s.mux.HandleFunc("/api/flights/scrape-etihad", s.handleScrapeEtihad)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

type flightsResponse struct {
	Flights []models.Flight `json:"flights"`
}

type scrapeResponse struct {
	ScrapedFlights  []models.Flight `json:"scrapedFlights"`
	FallbackFlights []models.Flight `json:"fallbackFlights"`
	HasScrapedData  bool            `json:"hasScrapedData"`
	HasFallbackData bool            `json:"hasFallbackData"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleFlights serves cached snapshot results for a route. Routes we have
// no snapshot for come back as an empty list.
func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	flights, err := s.store.Flights(from, to)
	if err != nil {
		s.metrics.ParseFailures.WithLabelValues("snapshot").Inc()
		slog.Error("Snapshot load failed", "from", from, "to", to, "error", err)
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no snapshot available for this route")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load flight data")
		return
	}

	s.metrics.FlightsParsed.WithLabelValues("snapshot").Add(float64(len(flights)))
	parsers.SortByPrice(flights)
	writeJSON(w, http.StatusOK, flightsResponse{Flights: nonNil(flights)})
}

// handleScrape runs the domestic SpiceJet scraper and pairs the result with
// the cached snapshot for the same route.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	s.scrapeWithFallback(w, r, s.spicejet)
}

// handleScrapeInternational runs the international SpiceJet scraper. The
// fallback comes from the same snapshot store, which covers the
// international routes with the Emirates pages.
func (s *Server) handleScrapeInternational(w http.ResponseWriter, r *http.Request) {
	s.scrapeWithFallback(w, r, s.spicejetIntl)
}

// scrapeWithFallback runs a scraper and pairs the result with the cached
// snapshot for the same route. A failed scrape degrades to an empty scraped
// list rather than an error so the caller can still render the fallback data.
func (s *Server) scrapeWithFallback(w http.ResponseWriter, r *http.Request, runner *scraper.Runner) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	date := r.URL.Query().Get("date")
	if from == "" || to == "" || date == "" {
		writeError(w, http.StatusBadRequest, "from, to and date query parameters are required")
		return
	}

	scraped := s.runScrape(r, runner, from, to, date)

	fallback, err := s.store.Flights(from, to)
	if err != nil {
		slog.Warn("Snapshot fallback unavailable", "from", from, "to", to, "error", err)
		fallback = nil
	}
	parsers.SortByPrice(fallback)

	writeJSON(w, http.StatusOK, scrapeResponse{
		ScrapedFlights:  nonNil(scraped),
		FallbackFlights: nonNil(fallback),
		HasScrapedData:  len(scraped) > 0,
		HasFallbackData: len(fallback) > 0,
	})
}

// handleScrapeEtihad runs the Etihad scraper. There is no snapshot fallback
// for these routes; a failed scrape is an empty list.
func (s *Server) handleScrapeEtihad(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	date := r.URL.Query().Get("date")
	if from == "" || to == "" || date == "" {
		writeError(w, http.StatusBadRequest, "from, to and date query parameters are required")
		return
	}

	scraped := s.runScrape(r, s.etihad, from, to, date)
	writeJSON(w, http.StatusOK, flightsResponse{Flights: nonNil(scraped)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runScrape executes a runner and records the outcome. Scrape errors are
// logged and counted, never surfaced as HTTP failures.
func (s *Server) runScrape(r *http.Request, runner *scraper.Runner, from, to, date string) []models.Flight {
	start := time.Now()
	flights, err := runner.Run(r.Context(), strings.ToUpper(from), strings.ToUpper(to), convertDate(date))
	s.metrics.ScrapeDuration.WithLabelValues(runner.Airline).Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.ScrapesTotal.WithLabelValues(runner.Airline, "failure").Inc()
		s.metrics.ParseFailures.WithLabelValues(runner.Airline).Inc()
		slog.Warn("Scrape failed", "airline", runner.Airline, "from", from, "to", to, "error", err)
		return nil
	}

	s.metrics.ScrapesTotal.WithLabelValues(runner.Airline, "success").Inc()
	s.metrics.FlightsParsed.WithLabelValues(runner.Airline).Add(float64(len(flights)))
	parsers.SortByPrice(flights)
	return flights
}

// convertDate rewrites YYYY-MM-DD into the DD-MM-YYYY form the scraper
// scripts take. Anything else passes through unchanged.
func convertDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// nonNil keeps JSON list fields as [] instead of null.
func nonNil(flights []models.Flight) []models.Flight {
	if flights == nil {
		return []models.Flight{}
	}
	return flights
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
