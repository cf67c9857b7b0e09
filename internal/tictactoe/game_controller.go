package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	MessageComputerFirst = "I'll go first."
	MessagePlayerFirst   = "You go first."
	MessageComputerWins  = "I win!"
	MessagePlayerWins    = "You win!"
	MessageTie           = "It's a tie."
)

type InputKind string

const (
	InputStart        InputKind = "start"
	InputClick        InputKind = "click"
	InputComputerMove InputKind = "computer_move"
	InputRestart      InputKind = "restart"
)

// Input is something that happened to a session: a round being started, the
// human clicking a cell, the computer's decision arriving or a restart timer firing.
type Input struct {
	Kind          InputKind
	Move          entity.Move
	ComputerFirst bool
}

func Start(computerFirst bool) Input {
	return Input{Kind: InputStart, ComputerFirst: computerFirst}
}

func Click(move entity.Move) Input {
	return Input{Kind: InputClick, Move: move}
}

func ComputerMove(move entity.Move) Input {
	return Input{Kind: InputComputerMove, Move: move}
}

func Restart(computerFirst bool) Input {
	return Input{Kind: InputRestart, ComputerFirst: computerFirst}
}

type EffectKind string

const (
	EffectRenderMark   EffectKind = "render_mark"
	EffectShowMessage  EffectKind = "show_message"
	EffectClearMessage EffectKind = "clear_message"
	EffectComputerTurn EffectKind = "computer_turn"
	EffectRestart      EffectKind = "restart"
	EffectClearBoard   EffectKind = "clear_board"
)

// Effect is an instruction for the caller. Delay is set on clear_message and
// restart, which the caller runs once the delay elapses.
type Effect struct {
	Kind    EffectKind
	Move    entity.Move
	Mark    entity.Mark
	Message string
	Delay   time.Duration
}

// Controller is the session state machine. AdvanceTurn works on a copy of the
// session and never touches timers or storage itself.
type Controller struct {
	messageDelay time.Duration
	restartDelay time.Duration
}

func NewController(messageDelay, restartDelay time.Duration) *Controller {
	return &Controller{
		messageDelay: messageDelay,
		restartDelay: restartDelay,
	}
}

func (that *Controller) AdvanceTurn(session entity.Session, input Input) (entity.Session, []Effect, error) {
	switch input.Kind {
	case InputStart:
		return that.start(session, input.ComputerFirst)
	case InputClick:
		return that.click(session, input.Move)
	case InputComputerMove:
		return that.computerMove(session, input.Move)
	case InputRestart:
		return that.restart(session, input.ComputerFirst)
	default:
		return session, nil, fmt.Errorf("%w: %q", apperror.ErrUnknownInput, input.Kind)
	}
}

func (that *Controller) start(session entity.Session, computerFirst bool) (entity.Session, []Effect, error) {
	switch {
	case session.IsActive():
		return session, nil, apperror.ErrGameInProgress
	case session.IsEnded():
		return session, nil, apperror.ErrGameFinished
	}

	session.Board = entity.NewBoard()
	session.Players = entity.AssignMarks(computerFirst)
	session.Outcome = entity.Ongoing()
	session.State = entity.StateInProgress
	session.PlayersTurn = !computerFirst
	session.Round++

	message := MessagePlayerFirst
	if computerFirst {
		message = MessageComputerFirst
	}

	effects := []Effect{
		{Kind: EffectShowMessage, Message: message},
		{Kind: EffectClearMessage, Delay: that.messageDelay},
	}

	if computerFirst {
		effects = append(effects, Effect{Kind: EffectComputerTurn, Mark: session.Players.Computer})
	}

	return session, effects, nil
}

func (that *Controller) click(session entity.Session, move entity.Move) (entity.Session, []Effect, error) {
	if err := session.ConfirmActiveState(); err != nil {
		return session, nil, err
	}

	if !session.PlayersTurn {
		return session, nil, apperror.ErrNotYourTurn
	}

	next := session
	if err := next.Board.Place(move, next.Players.Human); err != nil {
		return session, nil, fmt.Errorf("invalid turn: %w", err)
	}

	next.State = entity.StatePlayerMoved
	effects := []Effect{{Kind: EffectRenderMark, Move: move, Mark: next.Players.Human}}

	return that.afterMove(next, effects)
}

func (that *Controller) computerMove(session entity.Session, move entity.Move) (entity.Session, []Effect, error) {
	if err := session.ConfirmActiveState(); err != nil {
		return session, nil, err
	}

	if session.PlayersTurn {
		return session, nil, fmt.Errorf("%w: computer moved on the player's turn", apperror.ErrNotYourTurn)
	}

	next := session
	if err := next.Board.Place(move, next.Players.Computer); err != nil {
		return session, nil, fmt.Errorf("invalid computer turn: %w", err)
	}

	next.State = entity.StateComputerMoved
	effects := []Effect{{Kind: EffectRenderMark, Move: move, Mark: next.Players.Computer}}

	return that.afterMove(next, effects)
}

// afterMove runs the terminal check and hands the turn to the other side.
func (that *Controller) afterMove(session entity.Session, effects []Effect) (entity.Session, []Effect, error) {
	session.Outcome = entity.DetermineOutcome(&session.Board)
	if session.Outcome.IsTerminal() {
		return that.end(session, effects)
	}

	session.PlayersTurn = !session.PlayersTurn
	if !session.PlayersTurn {
		effects = append(effects, Effect{Kind: EffectComputerTurn, Mark: session.Players.Computer})
	}

	return session, effects, nil
}

func (that *Controller) end(session entity.Session, effects []Effect) (entity.Session, []Effect, error) {
	session.State = entity.StateEnded
	session.PlayersTurn = false

	var message string
	switch {
	case session.Outcome.IsTie():
		message = MessageTie
	case session.Outcome.Winner == session.Players.Computer:
		message = MessageComputerWins
	default:
		message = MessagePlayerWins
	}

	effects = append(effects,
		Effect{Kind: EffectShowMessage, Message: message},
		Effect{Kind: EffectRestart, Delay: that.restartDelay},
	)

	return session, effects, nil
}

// restart clears an ended round and immediately starts the next one.
func (that *Controller) restart(session entity.Session, computerFirst bool) (entity.Session, []Effect, error) {
	if !session.IsEnded() {
		return session, nil, fmt.Errorf("%w: restart from %s", apperror.ErrInvalidState, session.State)
	}

	session.State = entity.StateNotStarted
	session.Board = entity.NewBoard()
	session.Outcome = entity.Ongoing()

	next, effects, err := that.start(session, computerFirst)
	if err != nil {
		return session, nil, err
	}

	return next, append([]Effect{{Kind: EffectClearBoard}}, effects...), nil
}
