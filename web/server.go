// Package web is the request layer: it decodes HTTP requests into typed
// inputs for the simulator and the ledger engine, and maps their results
// and errors back to JSON responses. All identity handling (sessions,
// cookies, CORS) lives here; the core packages know nothing about HTTP.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/papertrade/auth"
	"github.com/rustyeddy/papertrade/engine"
	"github.com/rustyeddy/papertrade/journal"
	"github.com/rustyeddy/papertrade/sim"
	"github.com/rustyeddy/papertrade/store"
)

type Server struct {
	sim      *sim.Simulator
	engine   *engine.Engine
	store    store.Store
	auth     *auth.Service
	sessions *SessionManager
	locks    *store.UserLocks
	journal  journal.Journal
	logger   *logrus.Logger

	addr        string
	allowOrigin string
}

type Options struct {
	Addr           string
	AllowOrigin    string
	SessionTimeout time.Duration
	Journal        journal.Journal // nil means no journaling
}

func NewServer(simulator *sim.Simulator, eng *engine.Engine, st store.Store, authSvc *auth.Service, logger *logrus.Logger, opts Options) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	j := opts.Journal
	if j == nil {
		j = journal.Nop{}
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":5000"
	}

	return &Server{
		sim:         simulator,
		engine:      eng,
		store:       st,
		auth:        authSvc,
		sessions:    NewSessionManager(opts.SessionTimeout),
		locks:       store.NewUserLocks(),
		journal:     j,
		logger:      logger,
		addr:        addr,
		allowOrigin: opts.AllowOrigin,
	}
}

// Handler returns the full route tree, exported so tests can drive the
// server through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("GET /api/data/{symbol}", s.handleData)
	mux.HandleFunc("GET /api/current-price/{symbol}", s.handleCurrentPrice)
	mux.HandleFunc("POST /api/replay", s.handleReplay)
	mux.HandleFunc("GET /api/stream/{symbol}", s.handleStream)

	mux.HandleFunc("POST /api/place-order", s.handlePlaceOrder)
	mux.HandleFunc("POST /api/close-order", s.handleCloseOrder)
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)

	mux.HandleFunc("GET /api/health", s.handleHealth)

	return s.corsMiddleware(mux)
}

func (s *Server) Start() error {
	s.logger.Infof("Starting API server on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origin := s.allowOrigin
	if origin == "" {
		origin = "*"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]any{"success": false, "error": msg})
}
