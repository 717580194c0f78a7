package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"auroguard/internal/sim"
	"auroguard/internal/telemetry"
)

// Server exposes the simulator state and controls over HTTP.
type Server struct {
	Sim      *sim.Simulator
	tpl      *template.Template
	gatherer prometheus.Gatherer
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server for s. A nil gatherer serves the default registry on /metrics.
func NewServer(s *sim.Simulator, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	tpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"pct": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	}).ParseFS(content, "templates/index.html"))
	return &Server{Sim: s, tpl: tpl, gatherer: gatherer}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /state", s.handleState)
	mux.HandleFunc("GET /notifications", s.handleNotifications)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /speed", s.handleSpeed)
	mux.HandleFunc("POST /toggle-running", s.handleToggleRunning)
	mux.HandleFunc("POST /ai-mode", s.handleAIMode)
	mux.HandleFunc("POST /radar-range", s.handleRadarRange)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /dismiss-warning", s.handleDismissWarning)
	mux.HandleFunc("POST /nav/press", s.handleNavPress)
	mux.HandleFunc("POST /nav/release", s.handleNavRelease)

	mux.HandleFunc("POST /debris-count", s.handleDebrisCount)
	mux.HandleFunc("POST /collision-risk", s.handleCollisionRisk)
	return mux
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("admin server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		State         sim.State
		Notifications []telemetry.NotificationRow
	}{
		State:         s.Sim.State(),
		Notifications: s.Sim.Notifications(),
	}
	if err := s.tpl.Execute(w, data); err != nil {
		slog.Error("render index", "err", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sim.State())
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notes := s.Sim.Notifications()
	if notes == nil {
		notes = []telemetry.NotificationRow{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	speed, err := strconv.Atoi(r.URL.Query().Get("value"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "value must be an integer")
		return
	}
	if err := s.Sim.SetSimSpeed(speed); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sim_speed": speed})
}

func (s *Server) handleToggleRunning(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": s.Sim.ToggleRunning()})
}

func (s *Server) handleAIMode(w http.ResponseWriter, r *http.Request) {
	mode, err := telemetry.ParseAIMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.Sim.SetAIMode(mode) {
		writeError(w, http.StatusConflict, "ai mode requires fuel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ai_mode": mode, "ai_status": mode.Status()})
}

func (s *Server) handleRadarRange(w http.ResponseWriter, r *http.Request) {
	km, err := strconv.Atoi(r.URL.Query().Get("km"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "km must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"radar_range_km": s.Sim.SetRadarRange(km)})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Sim.ResetAll()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDismissWarning(w http.ResponseWriter, r *http.Request) {
	s.Sim.DismissWarning()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) direction(w http.ResponseWriter, r *http.Request) (telemetry.Direction, bool) {
	dir, err := telemetry.ParseDirection(r.URL.Query().Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return dir, true
}

func (s *Server) handleNavPress(w http.ResponseWriter, r *http.Request) {
	dir, ok := s.direction(w, r)
	if !ok {
		return
	}
	if !s.Sim.PressNavigation(dir) {
		writeError(w, http.StatusConflict, "navigation requires fuel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fuel": s.Sim.Telemetry().Spacecraft.Fuel})
}

func (s *Server) handleNavRelease(w http.ResponseWriter, r *http.Request) {
	dir, ok := s.direction(w, r)
	if !ok {
		return
	}
	s.Sim.ReleaseNavigation(dir)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDebrisCount(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "count must be an integer")
		return
	}
	s.Sim.OnDebrisCountChange(count)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollisionRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	risk, err := telemetry.ParseCollisionRisk(q.Get("risk"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	nearby := 0
	if v := q.Get("nearby"); v != "" {
		if nearby, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "nearby must be an integer")
			return
		}
	}
	s.Sim.OnCollisionRiskChange(risk, nearby)
	w.WriteHeader(http.StatusNoContent)
}
