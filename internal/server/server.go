// Package server exposes the running game over HTTP: health, score, round
// history, an MJPEG view of the rendered frames and a websocket of
// per-frame snapshots.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/score"
	"github.com/ayusman/rpsworld/internal/server/api"
)

// Source is where the server reads game state from. The frame loop's hub
// implements it.
type Source interface {
	Snapshot() (game.Snapshot, bool)
	Subscribe() (<-chan game.Snapshot, func())
	Frame() []byte
	WatchFrames() func()
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Source    Source
	// Rounds is optional; /api/rounds is only served when set.
	Rounds api.RoundSource
	Logger zerolog.Logger
}

// Server is the HTTP front end of the game.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    zerolog.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    config.Logger.With().Str("component", "server").Logger(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Source != nil {
		s.mux.HandleFunc("/api/score", s.handleScore)
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Source))
		s.mux.Handle("/api/state", NewStateHandler(s.config.Source, s.log))
	}

	if s.config.Rounds != nil {
		rounds := api.NewRoundsHandler(s.config.Rounds)
		s.mux.Handle("/api/rounds", rounds)
		s.mux.Handle("/api/rounds/", rounds)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
	State  string `json:"state,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).Round(time.Second).String(),
	}
	if s.config.Source != nil {
		if snap, ok := s.config.Source.Snapshot(); ok {
			resp.State = snap.State.String()
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

type scoreResponse struct {
	Record     score.Record `json:"record"`
	WinRate    float64      `json:"win_rate"`
	LastResult string       `json:"last_result,omitempty"`
}

// handleScore reports the record from the latest snapshot, so it never
// races the frame loop for the ledger.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.config.Source.Snapshot()
	if !ok {
		api.WriteError(w, http.StatusServiceUnavailable, "Game not started")
		return
	}

	resp := scoreResponse{Record: snap.Record, WinRate: snap.WinRate}
	if snap.HasResult {
		resp.LastResult = snap.Outcome.String()
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Request contexts derive from ctx so long-lived streams end
// with it.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
