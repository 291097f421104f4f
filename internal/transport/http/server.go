package transporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentcal/internal/calendar"
	"contentcal/internal/flow"
	"contentcal/internal/providers"
)

type Server struct {
	flow     *flow.Flow
	ingest   *providers.IngestEventsProvider
	registry *prometheus.Registry
}

func NewServer(f *flow.Flow, ingest *providers.IngestEventsProvider, registry *prometheus.Registry) *Server {
	return &Server{flow: f, ingest: ingest, registry: registry}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.health)
	mux.HandleFunc("/v1/flow/monthly", s.handleMonthlyFlow)
	mux.HandleFunc("/v1/events", s.handleIngest)
	if s.registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMonthlyFlow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var req flow.MonthlyFlowRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.IncludeDebug = r.URL.Query().Get("debug") == "1"

	resp, err := s.flow.Run(ctx, req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.ingest == nil {
		s.writeError(w, http.StatusServiceUnavailable, "ingest disabled")
		return
	}

	var payload calendar.Event
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	if strings.TrimSpace(payload.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	switch payload.DateType {
	case calendar.DateFixed:
		if payload.Date == "" {
			s.writeError(w, http.StatusBadRequest, "date is required for fixed events")
			return
		}
	case calendar.DateMovable:
		if payload.Rule == "" {
			s.writeError(w, http.StatusBadRequest, "rule is required for movable events")
			return
		}
	case calendar.DatePeriod:
		if payload.StartDate == "" || payload.EndDate == "" {
			s.writeError(w, http.StatusBadRequest, "start_date and end_date are required for period events")
			return
		}
	default:
		s.writeError(w, http.StatusBadRequest, "date_type must be fixed, movable_rule, or period")
		return
	}

	stored := s.ingest.Add(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "accepted",
		"id":     stored.ID,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
