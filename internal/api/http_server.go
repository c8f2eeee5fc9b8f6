// Package api is the reference consultation server: the HTTP surface
// the scheduling client talks to.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"servaura/internal/config"
	"servaura/internal/database"
	"servaura/internal/domain"
	"servaura/internal/metrics"
	"servaura/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type HTTPServer struct {
	cfg    config.APIConfig
	db     *database.DB
	states domain.StateRepository
	logger *zerolog.Logger
	server *http.Server
	auth   *HTTPAuth
}

func NewHTTPServer(cfg config.APIConfig, db *database.DB, states domain.StateRepository, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{cfg: cfg, db: db, states: states, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/consultations", srv.handleConsultations)
	mux.HandleFunc("/api/v1/consultations/", srv.handleConsultationByID)
	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/handoff/", srv.handleHandoff)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the full middleware chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleConsultations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("consultations")

	switch r.Method {
	case http.MethodGet:
		list, err := s.db.ListConsultations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list consultations")
			return
		}
		if list == nil {
			list = []models.Consultation{}
		}
		writeJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var req models.CreateRequest
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		created, err := s.db.CreateConsultation(r.Context(), req)
		if err != nil {
			writeCreateError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleConsultationByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("consultation_by_id")

	const prefix = "/api/v1/consultations/"
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, prefix))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "consultation id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.db.GetConsultation(r.Context(), id)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case http.MethodPatch:
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		updated, err := s.db.UpdateConsultationStatus(r.Context(), id, body.Status)
		if err != nil {
			if errors.Is(err, models.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.db.DeleteConsultation(r.Context(), id); err != nil {
			writeLookupError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	records, err := s.db.ListAvailability(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list availability")
		return
	}
	if records == nil {
		records = []models.AvailabilityRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleHandoff stores the service ids a session picked on one page so
// the next page can read them, then clears them once consumed.
func (s *HTTPServer) handleHandoff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("handoff")

	const prefix = "/api/v1/handoff/"
	sessionID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, prefix))
	if sessionID == "" || strings.Contains(sessionID, "/") {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var body struct {
			ServiceIDs []string `json:"serviceIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.states.SetHandoff(r.Context(), sessionID, body.ServiceIDs); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store handoff")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodGet:
		ids, err := s.states.GetHandoff(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load handoff")
			return
		}
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"serviceIds": ids})

	case http.MethodDelete:
		if err := s.states.ClearHandoff(r.Context(), sessionID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear handoff")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeCreateError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrSlotTaken) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	switch {
	case errors.Is(err, models.ErrMissingField),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrPastDate),
		errors.Is(err, models.ErrWeekendDate),
		errors.Is(err, models.ErrInvalidSlot),
		errors.Is(err, models.ErrInvalidProperty):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to create consultation")
	}
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
