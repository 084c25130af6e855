package handlers

import (
	"errors"
	"net/http"

	"giftwheel/internal/game"
	"giftwheel/internal/wheel"
)

// User-facing messages. They never carry internal error text.
const (
	ErrMsgGeneric         = "Something went wrong"
	ErrMsgInvalidForm     = "Invalid form"
	ErrMsgInvalidRequest  = "Invalid request body"
	ErrMsgInvalidSummary  = "Invalid request"
	ErrMsgGameNotFound    = "Game not found"
	ErrMsgHostOnly        = "Only the host can do that"
	ErrMsgSegmentNotFound = "Segment not found"
)

type rejection struct {
	err     error
	status  int
	reason  string
	message string
}

var rejections = []rejection{
	{game.ErrConfirmNotReady, http.StatusConflict, "confirm_not_ready", "Hold on, the result is still being shown."},
	{wheel.ErrSpinInProgress, http.StatusConflict, "spin_in_progress", "The wheel is still spinning."},
	{wheel.ErrPendingEffect, http.StatusConflict, "pending_effect", "Resolve the current effect first."},
	{wheel.ErrGameFinished, http.StatusConflict, "game_finished", "All prizes have been handed out."},
	{wheel.ErrAllSegmentsBurned, http.StatusConflict, "all_burned", "Every segment on the wheel is used up."},
	{wheel.ErrMustSkip, http.StatusConflict, "must_skip", "This player has to skip their turn."},
	{wheel.ErrAlreadyAssigned, http.StatusConflict, "already_assigned", "This player already has a prize."},
	{wheel.ErrNoSkip, http.StatusConflict, "no_skip", "This player has nothing to skip."},
	{wheel.ErrNoPrizeHeld, http.StatusConflict, "no_prize_held", "This player has no prize yet."},
	{wheel.ErrNoPendingEffect, http.StatusConflict, "no_pending", "There is nothing to confirm right now."},
	{wheel.ErrWrongPendingKind, http.StatusConflict, "wrong_pending", "That action does not resolve this effect."},
	{wheel.ErrInvalidPendingInput, http.StatusUnprocessableEntity, "invalid_input", "That choice is not on offer."},
	{wheel.ErrInconsistentSwapTarget, http.StatusConflict, "swap_target", "That player no longer holds a prize."},
	{wheel.ErrUnknownPlayer, http.StatusUnprocessableEntity, "unknown_player", "Unknown player."},
}

// classify maps a game error to an HTTP status, a metrics reason and a
// message for the host.
func classify(err error) (int, string, string) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.status, r.reason, r.message
		}
	}
	return http.StatusInternalServerError, "internal", ErrMsgGeneric
}
