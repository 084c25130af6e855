package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"giftwheel/internal/game"
	"giftwheel/internal/logger"
	"giftwheel/internal/wheel"
)

// CreateGameRequest is the JSON body of POST /api/games. Empty lists fall
// back to the default players and prizes.
type CreateGameRequest struct {
	Players []string `json:"players" validate:"max=100,dive,required,max=40"`
	Prizes  []string `json:"prizes" validate:"max=100,dive,required,max=40"`
}

// CreateGameResponse is returned when a game is created.
type CreateGameResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	HostToken string `json:"host_token"`
}

// GameStateResponse is a read-only view of a game.
type GameStateResponse struct {
	ID              string               `json:"id"`
	Status          string               `json:"status"`
	Action          string               `json:"action"`
	CurrentPlayer   string               `json:"current_player"`
	Order           []string             `json:"order"`
	Players         []wheel.PlayerState  `json:"players"`
	Assignments     map[string]string    `json:"assignments"`
	AvailablePrizes []string             `json:"available_prizes"`
	Remaining       int                  `json:"remaining_prizes"`
	Finished        bool                 `json:"finished"`
	Rotation        float64              `json:"rotation"`
	Segments        []wheel.SegmentState `json:"segments"`
	Pending         *wheel.PendingEffect `json:"pending,omitempty"`
	BurnedPrizes    []string             `json:"burned_prizes"`
	BurnedSpecials  []wheel.SpecialSlot  `json:"burned_specials"`
}

// SegmentStatusResponse reports whether one segment is burned.
type SegmentStatusResponse struct {
	wheel.Segment
	Burned bool `json:"burned"`
}

// APIHandler serves the JSON API.
type APIHandler struct {
	store     *game.Store
	validator *Validator
	origins   []string
}

func NewAPIHandler(store *game.Store, origins []string) *APIHandler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &APIHandler{store: store, validator: NewValidator(), origins: origins}
}

func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))
		r.Post("/games", h.createGame)
		r.Get("/games/{id}", h.getGame)
		r.Get("/games/{id}/segments/{segment}", h.getSegment)
	})
}

func (h *APIHandler) createGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode create game request", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  ErrMsgInvalidSummary,
			Fields: FormatValidationError(err),
		})
		return
	}

	instance := h.store.CreateGame(req.Players, req.Prizes)
	setHostCookie(w, instance.ID, instance.HostToken)
	respondJSON(w, http.StatusCreated, CreateGameResponse{
		ID:        instance.ID,
		URL:       "/game/" + instance.ID,
		HostToken: instance.HostToken,
	})
}

func (h *APIHandler) getGame(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, ErrMsgGameNotFound)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	resp := GameStateResponse{
		ID:             snapshot.ID,
		Status:         snapshot.Status,
		Action:         snapshot.Action,
		CurrentPlayer:  snapshot.CurrentPlayer,
		Players:        snapshot.Players,
		Remaining:      snapshot.Remaining,
		Rotation:       snapshot.Rotation,
		Segments:       snapshot.Segments,
		Pending:        snapshot.Pending,
		BurnedPrizes:   snapshot.BurnedPrizes,
		BurnedSpecials: snapshot.BurnedSpecials,
	}
	instance.View(func(s *wheel.State) {
		resp.Order = s.Order()
		resp.Assignments = s.Assignments()
		resp.AvailablePrizes = s.AvailablePrizes()
		resp.Finished = s.Finished()
	})
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) getSegment(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.store.GetGame(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, ErrMsgGameNotFound)
		return
	}
	id := chi.URLParam(r, "segment")
	var (
		resp  SegmentStatusResponse
		found bool
	)
	instance.View(func(s *wheel.State) {
		resp.Segment, found = s.Ring().ByID(id)
		resp.Burned = s.IsBurned(id)
	})
	if !found {
		respondError(w, http.StatusNotFound, ErrMsgSegmentNotFound)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
