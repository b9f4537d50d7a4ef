// Package admin serves the operator endpoints: health, Prometheus metrics
// and a read-only view of open calendar sessions.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"salondesk/backend/internal/calendar"
	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/service/sessions"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type sessionLookup interface {
	Engine(id uuid.UUID) (*calendar.Engine, error)
	Count() int
}

type sessionView struct {
	ShopID       string    `json:"shop_id"`
	Day          string    `json:"day"`
	Phase        string    `json:"phase"`
	Appointments int       `json:"appointments"`
	Dragging     string    `json:"dragging,omitempty"`
	TakenAt      time.Time `json:"taken_at"`
}

func NewRouter(db pinger, svc sessionLookup, metrics http.Handler, log *slog.Logger) *mux.Router {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http.admin"))

	r := mux.NewRouter()
	r.Handle("/metrics", metrics).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz(db, log)).Methods(http.MethodGet)
	r.HandleFunc("/debug/sessions", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"open": svc.Count()})
	}).Methods(http.MethodGet)
	r.HandleFunc("/debug/sessions/{id}", sessionSnapshot(svc)).Methods(http.MethodGet)
	return r
}

func healthz(db pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.Warn("health check failed", slog.Any("err", err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func sessionSnapshot(svc sessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id must be a UUID"})
			return
		}
		engine, err := svc.Engine(id)
		if errors.Is(err, sessions.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}

		snap := engine.Snapshot()
		view := sessionView{
			ShopID:       engine.ShopID(),
			Day:          engine.Day().Format(domain.DateFormat),
			Phase:        string(snap.Phase),
			Appointments: len(snap.Appointments),
			TakenAt:      snap.TakenAt,
		}
		if snap.Drag != nil {
			view.Dragging = snap.Drag.AppointmentID.String()
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
