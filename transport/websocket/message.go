package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	actionClick = "game:click"
	actionLeave = "game:leave"

	actionState   = "game:state"
	actionRender  = "game:render"
	actionMessage = "game:message"
	actionClear   = "game:clear"
	actionError   = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action" validate:"required,oneof=game:click game:leave"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ClickPayload struct {
	Cell *int `json:"cell" validate:"required,min=0,max=8"`
}

type RenderPayload struct {
	Cell int         `json:"cell"`
	Mark entity.Mark `json:"mark"`
}

type TextPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// StatePayload is the full view of a session sent on connect and after a restart.
type StatePayload struct {
	SessionID   string              `json:"session_id"`
	State       entity.SessionState `json:"state"`
	Board       [][]string          `json:"board"`
	Human       entity.Mark         `json:"human"`
	Computer    entity.Mark         `json:"computer"`
	PlayersTurn bool                `json:"players_turn"`
	Outcome     entity.Outcome      `json:"outcome"`
	Round       int                 `json:"round"`
}

func newStatePayload(session *entity.Session) StatePayload {
	return StatePayload{
		SessionID:   session.ID,
		State:       session.State,
		Board:       session.Board.Cells(),
		Human:       session.Players.Human,
		Computer:    session.Players.Computer,
		PlayersTurn: session.PlayersTurn,
		Outcome:     session.Outcome,
		Round:       session.Round,
	}
}
