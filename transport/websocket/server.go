package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const shutdownTimeout = 5 * time.Second

var tracer = otel.Tracer("github.com/rocketscienceinc/tictactoe-minimax/transport/websocket")

type gameUseCase interface {
	StartSession(ctx context.Context) (*entity.Session, []tictactoe.Effect, error)
	Click(ctx context.Context, sessionID string, cell int) (*entity.Session, []tictactoe.Effect, error)
	ThinkMove(ctx context.Context, sessionID string) (entity.Move, error)
	ApplyComputerMove(ctx context.Context, sessionID string, move entity.Move) (*entity.Session, []tictactoe.Effect, error)
	Restart(ctx context.Context, sessionID string) (*entity.Session, []tictactoe.Effect, error)
	EndSession(ctx context.Context, sessionID string) error
}

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader
	validate *validator.Validate
}

func New(logger *slog.Logger, game gameUseCase) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start serves WebSocket connections until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket upgrades the request and runs the connection's game
// until the client leaves or ctx is canceled.
func (that *Server) upgradeToWebSocket(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	_, span := tracer.Start(r.Context(), "websocket.upgrade", trace.WithAttributes(
		attribute.String("http.url", r.URL.String()),
	))

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upgrade connection")
		span.End()
		return
	}
	span.End()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	newConnection(that, conn).run(ctx)
}
