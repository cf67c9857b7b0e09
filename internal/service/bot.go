package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const instrumentationName = "github.com/rocketscienceinc/tictactoe-minimax/internal/service"

type BotService interface {
	ChooseMove(ctx context.Context, board entity.Board, computer entity.Mark) (entity.Move, error)
}

type botService struct {
	logger        *slog.Logger
	coin          tictactoe.Coin
	thinkingDelay time.Duration

	tracer    trace.Tracer
	decisions metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewBotService returns a bot that waits thinkingDelay before every search so
// the player can see it "think". Spans and metrics go to the global providers.
func NewBotService(logger *slog.Logger, coin tictactoe.Coin, thinkingDelay time.Duration) (BotService, error) {
	meter := otel.Meter(instrumentationName)

	decisions, err := meter.Int64Counter("bot.decisions",
		metric.WithDescription("Number of moves chosen by the minimax bot"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decisions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent in the minimax search"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search duration histogram: %w", err)
	}

	return &botService{
		logger:        logger.With("component", "bot"),
		coin:          coin,
		thinkingDelay: thinkingDelay,
		tracer:        otel.Tracer(instrumentationName),
		decisions:     decisions,
		duration:      duration,
	}, nil
}

func (that *botService) ChooseMove(ctx context.Context, board entity.Board, computer entity.Mark) (entity.Move, error) {
	ctx, span := that.tracer.Start(ctx, "bot.ChooseMove", trace.WithAttributes(
		attribute.String("game.board", board.String()),
		attribute.String("game.computer_mark", string(computer)),
	))
	defer span.End()

	if err := that.think(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "thinking interrupted")
		return entity.Move{}, err
	}

	evaluator, err := tictactoe.NewEvaluator(computer, that.coin)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid computer mark")
		return entity.Move{}, fmt.Errorf("failed to create evaluator: %w", err)
	}

	started := time.Now()
	decision, err := evaluator.Decide(board)
	elapsed := time.Since(started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "no move available")
		return entity.Move{}, fmt.Errorf("bot failed to choose move: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("game.computer_mark", string(computer)))
	that.decisions.Add(ctx, 1, attrs)
	that.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

	span.SetAttributes(
		attribute.Int("game.move.row", decision.Move.Row),
		attribute.Int("game.move.col", decision.Move.Col),
		attribute.Int("game.move.score", decision.Score),
	)

	that.logger.DebugContext(ctx, "move chosen",
		"board", board.String(),
		"move", decision.Move.Index(),
		"score", decision.Score,
		"elapsed", elapsed,
	)

	return decision.Move, nil
}

func (that *botService) think(ctx context.Context) error {
	if that.thinkingDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(that.thinkingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("bot stopped thinking: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
