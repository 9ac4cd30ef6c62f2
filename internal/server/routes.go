// internal/server/routes.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/valpere/ScrapeCache/internal/cache"
	"github.com/valpere/ScrapeCache/internal/scraper"
)

func (s *Server) routes(metricsPath string) {
	r := s.router
	r.Use(s.requestIDMiddleware, s.accessLogMiddleware)

	r.HandleFunc("/health", s.health.HealthHandler()).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle(metricsPath, s.metrics.MetricsHandler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/configuration", s.handleConfiguration).Methods(http.MethodGet)
	r.HandleFunc("/genre/movie/list", s.handleGenreList).Methods(http.MethodGet)

	// Fixed listing paths are registered before /movie/{id}.
	r.HandleFunc("/discover/movie", s.handleListing(scraper.ResourceDiscover)).Methods(http.MethodGet)
	r.HandleFunc("/movie/popular", s.handleListing(scraper.ResourcePopular)).Methods(http.MethodGet)
	r.HandleFunc("/movie/top_rated", s.handleListing(scraper.ResourceTopRated)).Methods(http.MethodGet)
	r.HandleFunc("/movie/upcoming", s.handleListing(scraper.ResourceUpcoming)).Methods(http.MethodGet)
	r.HandleFunc("/person/popular", s.handleListing(scraper.ResourcePopularPersons)).Methods(http.MethodGet)

	r.HandleFunc("/movie/{id}", s.handleMovie).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}/credits", s.handleCredits).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}/reviews", s.handleReviews).Methods(http.MethodGet)
	r.HandleFunc("/movie/{id}/keywords", s.handleKeywords).Methods(http.MethodGet)
	r.HandleFunc("/person/{id}", s.handlePerson).Methods(http.MethodGet)

	r.NotFoundHandler = s.requestIDMiddleware(s.accessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found", Kind: string(scraper.KindInvalid), RequestID: RequestID(r.Context())})
	})))
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.Movie(r.Context(), mux.Vars(r)["id"])
	s.respond(w, r, record, prov, err)
}

func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.Credits(r.Context(), mux.Vars(r)["id"])
	s.respond(w, r, record, prov, err)
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.Reviews(r.Context(), mux.Vars(r)["id"])
	s.respond(w, r, record, prov, err)
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.Keywords(r.Context(), mux.Vars(r)["id"])
	s.respond(w, r, record, prov, err)
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.Person(r.Context(), mux.Vars(r)["id"])
	s.respond(w, r, record, prov, err)
}

func (s *Server) handleGenreList(w http.ResponseWriter, r *http.Request) {
	record, prov, err := s.engine.GenreList(r.Context())
	s.respond(w, r, record, prov, err)
}

func (s *Server) handleListing(kind scraper.ResourceType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageParam(r)
		if err != nil {
			s.respond(w, r, nil, "", &scraper.EngineError{
				Kind: scraper.KindInvalid,
				Key:  scraper.ResourceKey{Type: kind},
				Err:  err,
			})
			return
		}
		record, prov, err := s.engine.Listing(r.Context(), kind, page)
		s.respond(w, r, record, prov, err)
	}
}

func (s *Server) handleConfiguration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Configuration())
}

// pageParam reads ?page=; absent means 1, values below 1 are clamped by the engine.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: page must be an integer", scraper.ErrInvalidRequest)
	}
	return page, nil
}

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	RequestID string `json:"request_id,omitempty"`
}

// statusForKind maps engine failures to HTTP statuses.
func statusForKind(kind scraper.ErrorKind) int {
	switch kind {
	case scraper.KindInvalid:
		return http.StatusBadRequest
	case scraper.KindExtraction:
		return http.StatusNotFound
	case scraper.KindFetch, scraper.KindParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, record any, prov cache.Provenance, err error) {
	if err != nil {
		kind := scraper.KindOf(err)
		status := statusForKind(kind)
		message := err.Error()

		var ee *scraper.EngineError
		if errors.As(err, &ee) {
			message = ee.Err.Error()
		}
		if status == http.StatusInternalServerError {
			loggerFrom(r, s.logger).Errorf("internal error: %v", err)
			message = "internal error"
		}
		writeJSON(w, status, errorBody{Error: message, Kind: string(kind), RequestID: RequestID(r.Context())})
		return
	}

	body, err := withProvenance(record, prov)
	if err != nil {
		loggerFrom(r, s.logger).Errorf("encode response: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Kind: string(scraper.KindInternal), RequestID: RequestID(r.Context())})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// withProvenance flattens record into a JSON object and adds "provenance".
func withProvenance(record any, prov cache.Provenance) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	p, err := json.Marshal(prov)
	if err != nil {
		return nil, err
	}
	fields["provenance"] = p
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
