// Package api provides JSON handlers for the game's stored data.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/rpsworld/internal/store"
)

// DefaultRoundLimit caps /api/rounds when no limit is given.
const DefaultRoundLimit = 50

// RoundSource reads stored rounds.
type RoundSource interface {
	List(limit int) ([]store.RoundEntry, error)
	GetByID(id string) (*store.RoundEntry, error)
	Count() (int, error)
}

// RoundsHandler serves the round history.
type RoundsHandler struct {
	rounds RoundSource
}

// NewRoundsHandler creates a RoundsHandler backed by rounds.
func NewRoundsHandler(rounds RoundSource) *RoundsHandler {
	return &RoundsHandler{rounds: rounds}
}

// ServeHTTP routes /api/rounds and /api/rounds/{id}.
func (h *RoundsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/rounds")
	id = strings.TrimPrefix(id, "/")
	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, id)
}

type roundResponse struct {
	ID       string `json:"id"`
	Player   string `json:"player"`
	AI       string `json:"ai"`
	Outcome  string `json:"outcome"`
	PlayedAt string `json:"played_at"`
}

type listRoundsResponse struct {
	Rounds []roundResponse `json:"rounds"`
	Total  int             `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(e *store.RoundEntry) roundResponse {
	return roundResponse{
		ID:       e.ID,
		Player:   e.Player.String(),
		AI:       e.AI.String(),
		Outcome:  e.Outcome.String(),
		PlayedAt: e.PlayedAt.UTC().Format(time.RFC3339),
	}
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/rounds?limit=N.
func (h *RoundsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRoundLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.rounds.List(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list rounds")
		return
	}
	total, err := h.rounds.Count()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to count rounds")
		return
	}

	response := listRoundsResponse{
		Rounds: make([]roundResponse, 0, len(entries)),
		Total:  total,
	}
	for i := range entries {
		response.Rounds = append(response.Rounds, toResponse(&entries[i]))
	}

	WriteJSON(w, http.StatusOK, response)
}

// get handles GET /api/rounds/{id}.
func (h *RoundsHandler) get(w http.ResponseWriter, id string) {
	entry, err := h.rounds.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Round not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get round")
		return
	}

	WriteJSON(w, http.StatusOK, toResponse(entry))
}
