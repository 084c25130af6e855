package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"giftwheel/internal/game"
	"giftwheel/internal/logger"
	"giftwheel/internal/metrics"
	"giftwheel/internal/viewmodel"
	"giftwheel/internal/wheel"
	"giftwheel/views/components"
	"giftwheel/views/pages"
)

const (
	pageTitle        = "Gift Wheel"
	keepAliveEvery   = 25 * time.Second
	hostCookieMaxAge = 24 * time.Hour
)

var (
	prizeColors   = []string{"#f6c344", "#f08a4b", "#5bc0eb", "#9bc53d", "#e56b9d", "#8e7dbe"}
	bonusColor    = "#2fb36d"
	malusColor    = "#d64541"
	burnedColor   = "#3b3b45"
	emptyGradient = "conic-gradient(" + burnedColor + " 0deg 360deg)"
)

type GameHandler struct {
	store   *game.Store
	baseURL string
}

// NewGameHandler creates the game handler. baseURL, when set, is used for
// invite links instead of the request host.
func NewGameHandler(store *game.Store, baseURL string) *GameHandler {
	return &GameHandler{store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

// RegisterRoutes registers the page, fragment and host action routes.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/game/{id}", h.gamePage)
	r.Get("/game/{id}/wheel", h.wheelFragment)
	r.Get("/game/{id}/turn", h.turnFragment)
	r.Get("/game/{id}/board", h.boardFragment)

	all := []string{game.EventWheel, game.EventTurn, game.EventBoard, game.EventAudio}
	r.Post("/game/{id}/spin", h.action(h.spin, game.EventWheel, game.EventTurn, game.EventAudio))
	r.Post("/game/{id}/choose", h.action(choose, all...))
	r.Post("/game/{id}/accept", h.action(accept, all...))
	r.Post("/game/{id}/swap", h.action(swap, all...))
	r.Post("/game/{id}/continue", h.action(resume, all...))
	r.Post("/game/{id}/skip", h.action(skip, game.EventWheel, game.EventTurn, game.EventBoard))
	r.Post("/game/{id}/pass", h.action(pass, game.EventWheel, game.EventTurn, game.EventBoard))
	r.Post("/game/{id}/reset", h.action(h.reset, all...))
}

// RegisterStream registers the SSE route. It is kept apart so it can be
// mounted outside request timeouts.
func (h *GameHandler) RegisterStream(r chi.Router) {
	r.Get("/game/{id}/stream", h.stream)
}

func (h *GameHandler) gamePage(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	isHost := instance.IsHost(hostTokenFromCookie(r, gameID))
	snapshot := instance.Snapshot(time.Now().UTC())

	data := viewmodel.GamePage{
		Title:     pageTitle,
		GameID:    gameID,
		InviteURL: h.inviteURL(r, gameID),
		IsHost:    isHost,
		Wheel:     buildWheelFragment(gameID, snapshot),
		Turn:      buildTurnFragment(gameID, snapshot, isHost),
		Board:     buildBoardFragment(snapshot),
		Cue:       viewmodel.AudioCue{Cue: snapshot.Cue, Seq: snapshot.CueSeq},
		Players:   strings.Join(playerNames(snapshot), "\n"),
		Prizes:    strings.Join(snapshot.Prizes, "\n"),
	}
	render(w, r, pages.GamePage(data))
}

func playerNames(snapshot game.Snapshot) []string {
	names := make([]string, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		names = append(names, p.Name)
	}
	return names
}

func (h *GameHandler) wheelFragment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, components.WheelFragment(buildWheelFragment(gameID, snapshot)))
}

func (h *GameHandler) turnFragment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	isHost := instance.IsHost(hostTokenFromCookie(r, gameID))
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, components.TurnFragment(buildTurnFragment(gameID, snapshot, isHost)))
}

func (h *GameHandler) boardFragment(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snapshot := instance.Snapshot(time.Now().UTC())
	render(w, r, components.BoardFragment(buildBoardFragment(snapshot)))
}

// actionFunc runs one host action against a game.
type actionFunc func(g *game.Game, r *http.Request, now time.Time) error

// action wraps a host-only POST: it checks the host cookie, runs the action,
// publishes events on success and maps errors for the client.
func (h *GameHandler) action(run actionFunc, events ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "id")
		instance, ok := h.store.GetGame(gameID)
		if !ok {
			http.NotFound(w, r)
			return
		}
		back := "/game/" + gameID
		if !instance.IsHost(hostTokenFromCookie(r, gameID)) {
			metrics.ActionsRejected.WithLabelValues("not_host").Inc()
			if isHTMX(r) {
				http.Error(w, ErrMsgHostOnly, http.StatusForbidden)
				return
			}
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, ErrMsgInvalidForm, http.StatusBadRequest)
			return
		}

		log := logger.FromContext(r.Context()).With("game", gameID, "path", r.URL.Path)
		if err := run(instance, r, time.Now().UTC()); err != nil {
			status, reason, message := classify(err)
			metrics.ActionsRejected.WithLabelValues(reason).Inc()
			if status >= http.StatusInternalServerError {
				log.Error("action failed", "error", err)
			} else {
				log.Info("action rejected", "reason", reason, "error", err)
			}
			if isHTMX(r) {
				http.Error(w, message, status)
				return
			}
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}

		h.store.Publish(gameID, events...)
		if isHTMX(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

func (h *GameHandler) spin(g *game.Game, _ *http.Request, now time.Time) error {
	if _, err := g.Spin(now); err != nil {
		return err
	}
	h.store.EnsureSpinLoop(g.ID)
	return nil
}

func (h *GameHandler) reset(g *game.Game, r *http.Request, _ time.Time) error {
	g.Reset(parseNames(r.FormValue("players")), parseNames(r.FormValue("prizes")))
	h.store.WakeSpinLoop(g.ID)
	return nil
}

func choose(g *game.Game, r *http.Request, now time.Time) error {
	return g.Choose(r.FormValue("prize"), now)
}

func accept(g *game.Game, _ *http.Request, now time.Time) error {
	return g.Accept(now)
}

func swap(g *game.Game, r *http.Request, now time.Time) error {
	return g.Swap(r.FormValue("target"), now)
}

func resume(g *game.Game, _ *http.Request, now time.Time) error {
	return g.Continue(now)
}

func skip(g *game.Game, _ *http.Request, _ time.Time) error {
	return g.Skip()
}

func pass(g *game.Game, _ *http.Request, _ time.Time) error {
	return g.Pass()
}

func (h *GameHandler) stream(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	instance, ok := h.store.GetGame(gameID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	// The server write timeout would cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	isHost := instance.IsHost(hostTokenFromCookie(r, gameID))

	hub := h.store.Broadcaster(gameID)
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)
	metrics.StreamSubscribers.Inc()
	defer metrics.StreamSubscribers.Dec()

	send := func(id string, types ...string) {
		snapshot := instance.Snapshot(time.Now().UTC())
		for _, t := range types {
			switch t {
			case game.EventWheel:
				writeSSE(w, id, t, renderToString(r, components.WheelFragment(buildWheelFragment(gameID, snapshot))))
			case game.EventTurn:
				writeSSE(w, id, t, renderToString(r, components.TurnFragment(buildTurnFragment(gameID, snapshot, isHost))))
			case game.EventBoard:
				writeSSE(w, id, t, renderToString(r, components.BoardFragment(buildBoardFragment(snapshot))))
			case game.EventAudio:
				cue, _ := json.Marshal(viewmodel.AudioCue{Cue: snapshot.Cue, Seq: snapshot.CueSeq})
				writeSSE(w, id, t, string(cue))
			}
		}
		flusher.Flush()
	}

	send("", game.EventWheel, game.EventTurn, game.EventBoard)

	keepAlive := time.NewTicker(keepAliveEvery)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			send(event.ID, event.Type)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func hostTokenFromCookie(r *http.Request, gameID string) string {
	cookie, err := r.Cookie(hostCookieName(gameID))
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setHostCookie(w http.ResponseWriter, gameID, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     hostCookieName(gameID),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(hostCookieMaxAge),
	})
}

func hostCookieName(gameID string) string {
	return "giftwheel_host_" + gameID
}

func (h *GameHandler) inviteURL(r *http.Request, gameID string) string {
	if h.baseURL != "" {
		return h.baseURL + "/game/" + gameID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/game/" + gameID
}

func buildWheelFragment(gameID string, snapshot game.Snapshot) viewmodel.WheelFragment {
	frag := viewmodel.WheelFragment{
		GameID:       gameID,
		Rotation:     snapshot.Rotation,
		TransitionMs: snapshot.Transition.Milliseconds(),
		Spinning:     snapshot.Status == game.StatusSpinning,
		Notice:       snapshot.Notice,
		Gradient:     emptyGradient,
	}
	n := len(snapshot.Segments)
	if n == 0 {
		return frag
	}
	slice := 360.0 / float64(n)
	stops := make([]string, 0, n)
	prizes := 0
	for _, seg := range snapshot.Segments {
		color := burnedColor
		switch {
		case seg.Burned:
		case seg.Kind == wheel.KindBonus:
			color = bonusColor
		case seg.Kind == wheel.KindMalus:
			color = malusColor
		default:
			color = prizeColors[prizes%len(prizeColors)]
		}
		if seg.Kind == wheel.KindPrize {
			prizes++
		}
		start := float64(seg.Index) * slice
		stops = append(stops, fmt.Sprintf("%s %.3fdeg %.3fdeg", color, start, start+slice))
		frag.Segments = append(frag.Segments, viewmodel.Segment{
			Index:  seg.Index,
			Label:  seg.Label,
			Kind:   string(seg.Kind),
			Burned: seg.Burned,
			Active: seg.Index == snapshot.ActiveIndex,
			MidDeg: start + slice/2,
		})
	}
	frag.Gradient = "conic-gradient(" + strings.Join(stops, ", ") + ")"
	return frag
}

func buildTurnFragment(gameID string, snapshot game.Snapshot, isHost bool) viewmodel.TurnFragment {
	frag := viewmodel.TurnFragment{
		GameID:        gameID,
		IsHost:        isHost,
		Status:        snapshot.Status,
		Action:        snapshot.Action,
		CurrentPlayer: snapshot.CurrentPlayer,
		Remaining:     snapshot.Remaining,
		Total:         snapshot.TotalPrizes,
	}
	if p := snapshot.Pending; p != nil {
		frag.Pending = &viewmodel.Pending{
			Kind:    string(p.Kind),
			Title:   p.Title,
			Message: p.Message,
			Player:  p.Player,
			Prize:   p.Prize,
			Options: p.Options,
			Targets: p.Targets,
		}
		frag.ConfirmAtMs = snapshot.ConfirmAt.UnixMilli()
	}
	return frag
}

func buildBoardFragment(snapshot game.Snapshot) viewmodel.BoardFragment {
	frag := viewmodel.BoardFragment{
		BurnedPrizes: snapshot.BurnedPrizes,
		Remaining:    snapshot.Remaining,
		Total:        snapshot.TotalPrizes,
	}
	for _, p := range snapshot.Players {
		frag.Players = append(frag.Players, viewmodel.PlayerRow{
			Name:    p.Name,
			Status:  string(p.Status),
			Prize:   p.Prize,
			Current: p.Current,
		})
	}
	for _, s := range snapshot.BurnedSpecials {
		frag.BurnedSpecials = append(frag.BurnedSpecials, s.Label)
	}
	return frag
}
