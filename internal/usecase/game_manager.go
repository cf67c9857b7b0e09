package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type sessionService interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	UpdateSession(ctx context.Context, session *entity.Session) error
	DeleteSession(ctx context.Context, id string) error
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
}

type botService interface {
	ChooseMove(ctx context.Context, board entity.Board, computer entity.Mark) (entity.Move, error)
}

type turnController interface {
	AdvanceTurn(session entity.Session, input tictactoe.Input) (entity.Session, []tictactoe.Effect, error)
}

// GameManager runs sessions: it loads a session, feeds the controller one
// input and stores the result. Timers and rendering stay with the caller,
// which receives the controller's effects.
type GameManager struct {
	logger *slog.Logger

	sessions   sessionService
	bot        botService
	controller turnController
	starter    tictactoe.Coin
}

// NewGameManager uses starter to decide, for every round, whether the
// computer goes first.
func NewGameManager(logger *slog.Logger, sessions sessionService, bot botService, controller turnController, starter tictactoe.Coin) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessions:   sessions,
		bot:        bot,
		controller: controller,
		starter:    starter,
	}
}

// StartSession creates a session and starts its first round.
func (that *GameManager) StartSession(ctx context.Context) (*entity.Session, []tictactoe.Effect, error) {
	session, err := that.sessions.CreateSession(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return that.advance(ctx, session, tictactoe.Start(that.starter.Flip()))
}

// Click plays the human's move on the given 0..8 cell.
func (that *GameManager) Click(ctx context.Context, sessionID string, cell int) (*entity.Session, []tictactoe.Effect, error) {
	move, err := entity.MoveFromIndex(cell)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read cell: %w", err)
	}

	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return that.advance(ctx, session, tictactoe.Click(move))
}

// ThinkMove asks the bot for the computer's move without changing the session.
// It may block for the bot's thinking delay and honours ctx cancellation.
func (that *GameManager) ThinkMove(ctx context.Context, sessionID string) (entity.Move, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return entity.Move{}, err
	}

	if err = session.ConfirmActiveState(); err != nil {
		return entity.Move{}, fmt.Errorf("computer cannot move: %w", err)
	}

	if session.PlayersTurn {
		return entity.Move{}, fmt.Errorf("computer cannot move: %w", apperror.ErrNotYourTurn)
	}

	move, err := that.bot.ChooseMove(ctx, session.Board, session.Players.Computer)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to choose computer move: %w", err)
	}

	return move, nil
}

// ApplyComputerMove records a move produced by ThinkMove.
func (that *GameManager) ApplyComputerMove(ctx context.Context, sessionID string, move entity.Move) (*entity.Session, []tictactoe.Effect, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return that.advance(ctx, session, tictactoe.ComputerMove(move))
}

// PlayComputerTurn thinks and applies the computer's move in one call.
func (that *GameManager) PlayComputerTurn(ctx context.Context, sessionID string) (*entity.Session, []tictactoe.Effect, error) {
	move, err := that.ThinkMove(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return that.ApplyComputerMove(ctx, sessionID, move)
}

// Restart clears an ended round and starts the next one with a new coin flip.
func (that *GameManager) Restart(ctx context.Context, sessionID string) (*entity.Session, []tictactoe.Effect, error) {
	session, err := that.getSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return that.advance(ctx, session, tictactoe.Restart(that.starter.Flip()))
}

func (that *GameManager) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	return that.getSession(ctx, sessionID)
}

// EndSession drops the session once its player is gone.
func (that *GameManager) EndSession(ctx context.Context, sessionID string) error {
	log := that.logger.With("method", "EndSession", "sessionID", sessionID)

	if err := that.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	log.Info("session ended")

	return nil
}

func (that *GameManager) advance(ctx context.Context, session *entity.Session, input tictactoe.Input) (*entity.Session, []tictactoe.Effect, error) {
	log := that.logger.With("method", "advance", "sessionID", session.ID, "input", input.Kind)

	next, effects, err := that.controller.AdvanceTurn(*session, input)
	if err != nil {
		return session, nil, fmt.Errorf("failed to advance turn: %w", err)
	}

	if err = that.sessions.UpdateSession(ctx, &next); err != nil {
		return nil, nil, fmt.Errorf("failed to update session: %w", err)
	}

	if next.Outcome.IsTerminal() && !session.Outcome.IsTerminal() {
		log.Info("round finished", "round", next.Round, "outcome", next.Outcome.Status, "winner", next.Outcome.Winner)
	} else {
		log.Debug("turn advanced", "state", next.State, "board", next.Board.String())
	}

	return &next, effects, nil
}

func (that *GameManager) getSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessions.GetSessionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}
