// Package api exposes quotes, the player list and live sessions over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/live"
	"github.com/yourusername/courtside/internal/models"
	"github.com/yourusername/courtside/internal/service"
	"github.com/yourusername/courtside/internal/stats"
)

const maxBodyBytes = 1 << 20

// Handler routes the /v1 API
type Handler struct {
	pricing  *service.PricingService
	provider stats.Provider
	sessions *live.Manager
	hub      *live.Hub
	logger   *logrus.Logger
	mux      *http.ServeMux
}

// NewHandler wires the API routes. provider may be nil when no stats source
// is configured.
func NewHandler(pricing *service.PricingService, provider stats.Provider, sessions *live.Manager, hub *live.Hub, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	h := &Handler{
		pricing:  pricing,
		provider: provider,
		sessions: sessions,
		hub:      hub,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /v1/quotes", h.createQuote)
	h.mux.HandleFunc("GET /v1/players", h.listPlayers)
	h.mux.HandleFunc("POST /v1/sessions", h.createSession)
	h.mux.HandleFunc("GET /v1/sessions/{id}", h.getSession)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}", h.closeSession)
	h.mux.HandleFunc("POST /v1/sessions/{id}/points", h.scorePoint)
	h.mux.HandleFunc("GET /v1/sessions/{id}/ws", h.watchSession)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// CreateSessionRequest opens a live session
type CreateSessionRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	live.Options
}

// ScorePointRequest names the player who won the point
type ScorePointRequest struct {
	Winner models.Player `json:"winner"`
}

// PlayersResponse lists known players
type PlayersResponse struct {
	Players []string `json:"players"`
}

func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	q, err := h.pricing.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) listPlayers(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "no serve statistics source is configured"})
		return
	}

	players, err := h.provider.Players(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PlayersResponse{Players: players})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.sessions.Create(r.Context(), req.PlayerA, req.PlayerB, req.Options)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+s.ID.String())
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	s, err := h.sessions.Snapshot(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Close(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) scorePoint(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ScorePointRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.sessions.ScorePoint(r.Context(), id, req.Winner)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) watchSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	if !h.sessions.Exists(id) {
		h.writeError(w, r, models.ErrNotFound)
		return
	}

	// Upgrade writes its own error response on failure.
	if err := h.hub.Serve(w, r, id); err != nil {
		h.logger.WithError(err).WithField("session_id", id).Debug("Websocket upgrade failed")
	}
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid session id", Field: "id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, r, err)
			return false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body: " + err.Error()})
		return false
	}
	return true
}
