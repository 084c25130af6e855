package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"giftwheel/internal/game"
	"giftwheel/internal/logger"
	"giftwheel/internal/viewmodel"
	"giftwheel/views/pages"
)

const (
	maxNames   = 100
	maxNameLen = 40
)

type HomeHandler struct {
	store   *game.Store
	players []string
	prizes  []string
}

// NewHomeHandler creates the landing page handler. players and prizes
// prefill the setup form.
func NewHomeHandler(store *game.Store, players, prizes []string) *HomeHandler {
	return &HomeHandler{store: store, players: players, prizes: prizes}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/games", h.createGame)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	data := viewmodel.HomePage{
		Title:   pageTitle,
		Players: strings.Join(h.players, "\n"),
		Prizes:  strings.Join(h.prizes, "\n"),
	}
	for _, s := range h.store.Settings().Specials {
		data.Specials = append(data.Specials, viewmodel.SpecialInfo{Label: s.Label, Kind: string(s.Kind)})
	}
	render(w, r, pages.HomePage(data))
}

func (h *HomeHandler) createGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrMsgInvalidForm, http.StatusBadRequest)
		return
	}
	players := parseNames(r.FormValue("players"))
	prizes := parseNames(r.FormValue("prizes"))

	instance := h.store.CreateGame(players, prizes)
	setHostCookie(w, instance.ID, instance.HostToken)
	logger.FromContext(r.Context()).Info("game created from form", "game", instance.ID)
	http.Redirect(w, r, "/game/"+instance.ID, http.StatusSeeOther)
}

// parseNames splits a textarea into one name per line, trimmed and capped.
// Duplicates are left for the engine to drop.
func parseNames(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxNameLen {
			line = string(r[:maxNameLen])
		}
		out = append(out, line)
		if len(out) == maxNames {
			break
		}
	}
	return out
}
