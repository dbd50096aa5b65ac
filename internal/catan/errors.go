package catan

import "fmt"

// IllegalActionError is raised by Apply and by the simulation driver's
// Step when the proposed action does not pass the legality predicate
// (§7).
type IllegalActionError struct {
	Action Action
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s: %s", e.Action, e.Reason)
}

// IllegalStateError reports a snapshot that cannot be reconstructed: an
// unknown schema version, a player-record invariant violation, or a
// sub-phase that has no consistent pending data (§7).
type IllegalStateError struct {
	Reason string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("illegal state: %s", e.Reason)
}

// ExhaustedResourceError reports a withdrawal from the bank that exceeds
// its stock. The legality predicate is expected to catch this before
// Apply runs, so Apply treats it as a programmer error (§7).
type ExhaustedResourceError struct {
	Resource string
	Want     int
	Have     int
}

func (e *ExhaustedResourceError) Error() string {
	return fmt.Sprintf("exhausted resource %s: want %d, bank has %d", e.Resource, e.Want, e.Have)
}

// NoOpponentError reports an attempt to reference an opponent slot that
// does not exist — a programmer error in this fixed 2-player variant
// (§7).
type NoOpponentError struct {
	PlayerID int
}

func (e *NoOpponentError) Error() string {
	return fmt.Sprintf("no opponent for player %d", e.PlayerID)
}

// GameOverError is returned by Apply once a winner has been decided;
// further actions are always illegal (§7).
type GameOverError struct{}

func (e *GameOverError) Error() string { return "game is over" }
