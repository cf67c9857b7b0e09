package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	writeTimeout = 10 * time.Second
	endTimeout   = 5 * time.Second
)

type eventKind int

const (
	eventInbound eventKind = iota
	eventClosed
	eventComputerMove
	eventClearMessage
	eventRestart
)

type event struct {
	kind    eventKind
	data    []byte
	move    entity.Move
	err     error
	message int
}

// connection owns one browser session. Only run touches the session and
// writes to the socket; the read pump, timers and the bot post events to it.
type connection struct {
	server *Server
	conn   *websocket.Conn
	logger *slog.Logger

	sessionID string
	events    chan event
	done      chan struct{}
	timers    []*time.Timer
	thinking  bool
	message   int
}

func newConnection(server *Server, conn *websocket.Conn) *connection {
	return &connection{
		server: server,
		conn:   conn,
		logger: server.logger,
		events: make(chan event, 8),
		done:   make(chan struct{}),
	}
}

func (that *connection) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer that.close(cancel)

	go that.readPump()

	session, effects, err := that.server.game.StartSession(ctx)
	if err != nil {
		that.logger.Error("failed to start session", "error", err)
		_ = that.sendError(err)
		return
	}

	that.sessionID = session.ID
	that.logger = that.logger.With("sessionID", session.ID)
	that.logger.Info("session started", "round", session.Round)

	if err = that.send(actionState, newStatePayload(session)); err != nil {
		that.logger.Error("failed to send state", "error", err)
		return
	}

	if err = that.apply(ctx, session, effects); err != nil {
		that.logger.Error("failed to apply effects", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = that.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeTimeout))
			return
		case ev := <-that.events:
			stop, err := that.handle(ctx, ev)
			if err != nil {
				that.logger.Error("failed to handle event", "error", err)
				return
			}

			if stop {
				return
			}
		}
	}
}

func (that *connection) handle(ctx context.Context, ev event) (bool, error) {
	switch ev.kind {
	case eventClosed:
		if ev.err != nil && websocket.IsUnexpectedCloseError(ev.err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			that.logger.Warn("connection closed unexpectedly", "error", ev.err)
		}
		return true, nil
	case eventInbound:
		return that.handleMessage(ctx, ev.data)
	case eventComputerMove:
		return false, that.handleComputerMove(ctx, ev)
	case eventClearMessage:
		if ev.message != that.message {
			return false, nil
		}
		return false, that.send(actionClear, nil)
	case eventRestart:
		session, effects, err := that.server.game.Restart(ctx, that.sessionID)
		if err != nil {
			return false, fmt.Errorf("failed to restart: %w", err)
		}
		return false, that.apply(ctx, session, effects)
	default:
		return false, fmt.Errorf("unknown event %d", ev.kind)
	}
}

func (that *connection) handleMessage(ctx context.Context, data []byte) (bool, error) {
	log := that.logger.With("method", "handleMessage")

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return false, that.sendError(fmt.Errorf("%w: malformed message", apperror.ErrUnknownInput))
	}

	if err := that.server.validate.Struct(msg); err != nil {
		log.Warn("invalid message", "action", msg.Action, "error", err)
		return false, that.sendError(fmt.Errorf("%w: %q", apperror.ErrUnknownInput, msg.Action))
	}

	switch msg.Action {
	case actionLeave:
		log.Info("player left")
		return true, nil
	case actionClick:
		return false, that.handleClick(ctx, msg.Payload)
	default:
		return false, that.sendError(fmt.Errorf("%w: %q", apperror.ErrUnknownInput, msg.Action))
	}
}

func (that *connection) handleClick(ctx context.Context, raw json.RawMessage) error {
	var payload ClickPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return that.sendError(fmt.Errorf("%w: malformed click", apperror.ErrInvalidCell))
	}

	if err := that.server.validate.Struct(payload); err != nil {
		return that.sendError(fmt.Errorf("%w: cell must be 0..8", apperror.ErrInvalidCell))
	}

	session, effects, err := that.server.game.Click(ctx, that.sessionID, *payload.Cell)
	if err != nil {
		if isGameRuleError(err) {
			return that.sendError(err)
		}
		return fmt.Errorf("failed to click: %w", err)
	}

	return that.apply(ctx, session, effects)
}

func (that *connection) handleComputerMove(ctx context.Context, ev event) error {
	that.thinking = false

	if ev.err != nil {
		if errors.Is(ev.err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to think: %w", ev.err)
	}

	session, effects, err := that.server.game.ApplyComputerMove(ctx, that.sessionID, ev.move)
	if err != nil {
		return fmt.Errorf("failed to apply computer move: %w", err)
	}

	return that.apply(ctx, session, effects)
}

// apply executes the controller's effects in order.
func (that *connection) apply(ctx context.Context, session *entity.Session, effects []tictactoe.Effect) error {
	for _, effect := range effects {
		var err error

		switch effect.Kind {
		case tictactoe.EffectRenderMark:
			err = that.send(actionRender, RenderPayload{Cell: effect.Move.Index(), Mark: effect.Mark})
		case tictactoe.EffectShowMessage:
			that.message++
			err = that.send(actionMessage, TextPayload{Text: effect.Message})
		case tictactoe.EffectClearMessage:
			that.after(effect.Delay, event{kind: eventClearMessage, message: that.message})
		case tictactoe.EffectComputerTurn:
			that.think(ctx)
		case tictactoe.EffectRestart:
			that.after(effect.Delay, event{kind: eventRestart})
		case tictactoe.EffectClearBoard:
			err = that.send(actionState, newStatePayload(session))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// think asks for the computer's move off the loop; the result comes back as an event.
func (that *connection) think(ctx context.Context) {
	if that.thinking {
		return
	}
	that.thinking = true

	go func() {
		move, err := that.server.game.ThinkMove(ctx, that.sessionID)
		that.post(event{kind: eventComputerMove, move: move, err: err})
	}()
}

func (that *connection) after(delay time.Duration, ev event) {
	that.timers = append(that.timers, time.AfterFunc(delay, func() {
		that.post(ev)
	}))
}

func (that *connection) post(ev event) {
	select {
	case that.events <- ev:
	case <-that.done:
	}
}

func (that *connection) readPump() {
	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			that.post(event{kind: eventClosed, err: err})
			return
		}

		that.post(event{kind: eventInbound, data: data})
	}
}

func (that *connection) close(cancel context.CancelFunc) {
	cancel()
	close(that.done)

	for _, timer := range that.timers {
		timer.Stop()
	}

	if that.sessionID != "" {
		ctx, cancelEnd := context.WithTimeout(context.Background(), endTimeout)
		defer cancelEnd()

		if err := that.server.game.EndSession(ctx, that.sessionID); err != nil {
			that.logger.Error("failed to end session", "error", err)
		}
	}

	if err := that.conn.Close(); err != nil {
		that.logger.Debug("failed to close connection", "error", err)
	}

	that.logger.Info("WebSocket connection closed")
}

func (that *connection) send(action string, payload any) error {
	msg := Message{Action: action}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		msg.Payload = raw
	}

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) sendError(err error) error {
	return that.send(actionError, ErrorPayload{Message: err.Error()})
}

func isGameRuleError(err error) bool {
	for _, target := range []error{
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrGameFinished,
		apperror.ErrGameIsNotStarted,
		apperror.ErrInvalidState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
