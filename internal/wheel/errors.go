package wheel

import "errors"

var (
	ErrAllSegmentsBurned      = errors.New("every segment on the wheel is burned")
	ErrGameFinished           = errors.New("no prizes left to spin for")
	ErrPendingEffect          = errors.New("a pending effect must be resolved first")
	ErrNoPendingEffect        = errors.New("no pending effect")
	ErrWrongPendingKind       = errors.New("pending effect does not accept this action")
	ErrInvalidPendingInput    = errors.New("choice is not valid for the pending effect")
	ErrInconsistentSwapTarget = errors.New("swap target no longer holds a prize")
	ErrSpinInProgress         = errors.New("a spin is in progress")
	ErrNoSpinPlanned          = errors.New("no spin waiting to land")
	ErrMustSkip               = errors.New("current player must skip this turn")
	ErrNoSkip                 = errors.New("current player has no turn to skip")
	ErrAlreadyAssigned        = errors.New("current player already holds a prize")
	ErrNoPrizeHeld            = errors.New("current player has not received a prize yet")
	ErrUnknownPlayer          = errors.New("unknown player")
)
