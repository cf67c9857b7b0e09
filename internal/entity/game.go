package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

type SessionState string

const (
	StateNotStarted    SessionState = "not_started"
	StateInProgress    SessionState = "in_progress"
	StatePlayerMoved   SessionState = "player_moved"
	StateComputerMoved SessionState = "computer_moved"
	StateEnded         SessionState = "ended"
)

// Session is the state of one human-versus-computer game, carried across
// rounds until the player leaves.
type Session struct {
	ID          string       `json:"id"`
	State       SessionState `json:"state"`
	Board       Board        `json:"board"`
	Players     Players      `json:"players"`
	PlayersTurn bool         `json:"players_turn"`
	Outcome     Outcome      `json:"outcome"`
	Round       int          `json:"round"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		State:   StateNotStarted,
		Board:   NewBoard(),
		Outcome: Ongoing(),
	}
}

// IsActive reports whether the round accepts moves.
func (that *Session) IsActive() bool {
	switch that.State {
	case StateInProgress, StatePlayerMoved, StateComputerMoved:
		return true
	default:
		return false
	}
}

func (that *Session) IsEnded() bool {
	return that.State == StateEnded
}

func (that *Session) IsNotStarted() bool {
	return that.State == StateNotStarted
}

func (that *Session) ConfirmActiveState() error {
	switch {
	case that.IsNotStarted():
		return apperror.ErrGameIsNotStarted
	case that.IsEnded():
		return apperror.ErrGameFinished
	case that.IsActive():
		return nil
	default:
		return fmt.Errorf("%w: unknown session state %q", apperror.ErrInvalidState, that.State)
	}
}

// MarkOnMove is the mark expected to play next, or EmptyCell outside a round.
func (that *Session) MarkOnMove() Mark {
	if !that.IsActive() {
		return EmptyCell
	}

	if that.PlayersTurn {
		return that.Players.Human
	}

	return that.Players.Computer
}
