package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

var (
	neverFlip  = CoinFunc(func() bool { return false })
	alwaysFlip = CoinFunc(func() bool { return true })
)

func newEvaluator(t *testing.T, computer entity.Mark, coin Coin) *Evaluator {
	t.Helper()

	evaluator, err := NewEvaluator(computer, coin)
	require.NoError(t, err)

	return evaluator
}

func TestNewEvaluator(t *testing.T) {
	// When: the computer is given an empty mark
	_, err := NewEvaluator(entity.EmptyCell, neverFlip)

	// Then: ErrInvalidMark is returned
	require.ErrorIs(t, err, apperror.ErrInvalidMark)
}

func TestEvaluator_Minimax(t *testing.T) {
	evaluator := newEvaluator(t, o, neverFlip)

	t.Run("Computer win is worth 10 minus depth", func(t *testing.T) {
		board := entity.Board{
			{o, o, o},
			{x, x, e},
			{x, e, e},
		}

		assert.Equal(t, 10, evaluator.Minimax(&board, 0, true))
		assert.Equal(t, 7, evaluator.Minimax(&board, 3, false))
	})

	t.Run("Human win is worth minus 10 minus depth", func(t *testing.T) {
		board := entity.Board{
			{x, o, e},
			{x, o, e},
			{x, e, e},
		}

		assert.Equal(t, -10, evaluator.Minimax(&board, 0, true))
		assert.Equal(t, -14, evaluator.Minimax(&board, 4, true))
	})

	t.Run("Tie is worth zero", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{o, x, o},
			{o, x, o},
		}

		assert.Equal(t, 0, evaluator.Minimax(&board, 5, false))
	})

	t.Run("Prefers the fastest win", func(t *testing.T) {
		// Given: O to move with a win available now
		board := entity.Board{
			{o, o, e},
			{x, x, e},
			{x, e, e},
		}

		// When: searching as the maximizing side
		score := evaluator.Minimax(&board, 0, true)

		// Then: the immediate win one ply down is found
		assert.Equal(t, 9, score)
	})

	t.Run("Leaves the board unchanged", func(t *testing.T) {
		// Given: an open position
		board := entity.Board{
			{x, e, e},
			{e, o, e},
			{e, e, x},
		}
		before := board

		// When: running a full search
		evaluator.Minimax(&board, 0, true)

		// Then: every cell was restored
		assert.Equal(t, before, board)
	})
}

func TestEvaluator_ChooseMove(t *testing.T) {
	t.Run("Completes the column for an immediate win", func(t *testing.T) {
		// Given: O holds (0,1) and (1,1)
		board := entity.Board{
			{x, o, x},
			{x, o, e},
			{e, e, o},
		}
		evaluator := newEvaluator(t, o, neverFlip)

		// When: choosing the computer's move
		decision, err := evaluator.Decide(board)

		// Then: O wins at (2,1) with the full score
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 2, Col: 1}, decision.Move)
		assert.Equal(t, 10, decision.Score)
	})

	t.Run("Takes the win rather than the block", func(t *testing.T) {
		// Given: both sides threaten a row
		board := entity.Board{
			{x, x, e},
			{o, o, e},
			{e, e, e},
		}
		evaluator := newEvaluator(t, o, alwaysFlip)

		// When: choosing the computer's move
		move, err := evaluator.ChooseMove(board)

		// Then: O completes its own row
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, move)
	})

	t.Run("Blocks when it cannot win", func(t *testing.T) {
		board := entity.Board{
			{x, x, e},
			{e, o, e},
			{e, e, e},
		}
		evaluator := newEvaluator(t, o, neverFlip)

		move, err := evaluator.ChooseMove(board)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Never picks an occupied cell", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{e, x, o},
			{o, e, e},
		}

		for _, coin := range []Coin{neverFlip, alwaysFlip, NewRandomCoin(7)} {
			evaluator := newEvaluator(t, o, coin)

			move, err := evaluator.ChooseMove(board)

			require.NoError(t, err)
			assert.Equal(t, e, board.Cell(move))
		}
	})

	t.Run("Does not modify the caller's board", func(t *testing.T) {
		board := entity.NewBoard()
		board[1][1] = x
		before := board

		_, err := newEvaluator(t, o, neverFlip).ChooseMove(board)

		require.NoError(t, err)
		assert.Equal(t, before, board)
	})

	t.Run("Returns ErrInvalidState on a full board", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{o, x, o},
			{o, x, o},
		}

		_, err := newEvaluator(t, o, neverFlip).ChooseMove(board)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Returns ErrInvalidState on a decided board", func(t *testing.T) {
		board := entity.Board{
			{x, x, x},
			{o, o, e},
			{e, e, e},
		}

		_, err := newEvaluator(t, o, neverFlip).ChooseMove(board)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("Returns ErrInvalidBoard on an unknown mark", func(t *testing.T) {
		board := entity.NewBoard()
		board[0][0] = "XO"

		_, err := newEvaluator(t, o, neverFlip).ChooseMove(board)

		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestEvaluator_TieBreak(t *testing.T) {
	t.Run("Every opening move draws", func(t *testing.T) {
		scores, err := newEvaluator(t, x, neverFlip).ScoreMoves(entity.NewBoard())

		require.NoError(t, err)
		require.Len(t, scores, entity.CellsCount)
		for _, decision := range scores {
			assert.Zero(t, decision.Score, decision.Move)
		}
	})

	t.Run("Keeps the first tied move when the coin never flips", func(t *testing.T) {
		move, err := newEvaluator(t, x, neverFlip).ChooseMove(entity.NewBoard())

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, move)
	})

	t.Run("Ends on the last tied move when the coin always flips", func(t *testing.T) {
		move, err := newEvaluator(t, x, alwaysFlip).ChooseMove(entity.NewBoard())

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 2, Col: 2}, move)
	})

	t.Run("Flips only on ties", func(t *testing.T) {
		// Given: a position with a single winning move
		board := entity.Board{
			{x, o, x},
			{x, o, e},
			{e, e, o},
		}
		flips := 0
		counting := CoinFunc(func() bool {
			flips++
			return true
		})

		// When: choosing the move
		move, err := newEvaluator(t, o, counting).ChooseMove(board)

		// Then: the win is kept even though every flip asks to replace
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 2, Col: 1}, move)
		assert.Less(t, flips, len(board.EmptyCells()))
	})

	t.Run("Same seed gives the same moves", func(t *testing.T) {
		first := newEvaluator(t, x, NewRandomCoin(42))
		second := newEvaluator(t, x, NewRandomCoin(42))

		for range 3 {
			a, err := first.ChooseMove(entity.NewBoard())
			require.NoError(t, err)

			b, err := second.ChooseMove(entity.NewBoard())
			require.NoError(t, err)

			assert.Equal(t, a, b)
		}
	})
}

// playOut walks every human reply against the computer and reports the
// outcomes that are not acceptable for the computer.
func playOut(t *testing.T, evaluator *Evaluator, board entity.Board, computer entity.Mark, computerToMove bool) int {
	t.Helper()

	outcome := entity.DetermineOutcome(&board)
	if outcome.IsTerminal() {
		if outcome.IsWin() && outcome.Winner != computer {
			t.Errorf("computer lost on %s", board.String())
			return 1
		}

		return 0
	}

	if computerToMove {
		move, err := evaluator.ChooseMove(board)
		require.NoError(t, err)
		require.NoError(t, board.Place(move, computer))

		return playOut(t, evaluator, board, computer, false)
	}

	losses := 0
	for _, move := range board.EmptyCells() {
		next := board
		require.NoError(t, next.Place(move, computer.Opponent()))
		losses += playOut(t, evaluator, next, computer, true)
	}

	return losses
}

func TestEvaluator_NeverLoses(t *testing.T) {
	t.Run("Computer starts", func(t *testing.T) {
		evaluator := newEvaluator(t, x, neverFlip)

		assert.Zero(t, playOut(t, evaluator, entity.NewBoard(), x, true))
	})

	t.Run("Human starts", func(t *testing.T) {
		evaluator := newEvaluator(t, o, neverFlip)

		assert.Zero(t, playOut(t, evaluator, entity.NewBoard(), o, false))
	})

	t.Run("Human starts against a random tie-break", func(t *testing.T) {
		evaluator := newEvaluator(t, o, NewRandomCoin(2024))

		assert.Zero(t, playOut(t, evaluator, entity.NewBoard(), o, false))
	})
}

func TestEvaluator_SymmetryInvariance(t *testing.T) {
	positions := []entity.Board{
		{
			{x, e, e},
			{e, e, e},
			{e, e, e},
		},
		{
			{x, o, e},
			{e, x, e},
			{e, e, e},
		},
		{
			{x, x, e},
			{o, o, e},
			{e, e, e},
		},
		{
			{x, e, e},
			{e, o, e},
			{e, e, x},
		},
	}

	evaluator := newEvaluator(t, o, neverFlip)

	for i, board := range positions {
		decision, err := evaluator.Decide(board)
		require.NoError(t, err)

		base, err := evaluator.ScoreMoves(board)
		require.NoError(t, err)

		for _, transform := range entity.Transforms {
			t.Run(transform.Name, func(t *testing.T) {
				transformed := transform.Board(board)

				// When: scoring every move on the transformed board
				scores, err := evaluator.ScoreMoves(transformed)
				require.NoError(t, err)

				byMove := make(map[entity.Move]int, len(scores))
				for _, scored := range scores {
					byMove[scored.Move] = scored.Score
				}

				// Then: each move scores the same as its image
				for _, scored := range base {
					assert.Equal(t, scored.Score, byMove[transform.Move(scored.Move)], "position %d move %v", i, scored.Move)
				}

				// And: the chosen move maps onto an equally scored move
				assert.Equal(t, decision.Score, byMove[transform.Move(decision.Move)])

				best, err := evaluator.Decide(transformed)
				require.NoError(t, err)
				assert.Equal(t, decision.Score, best.Score)
			})
		}
	}
}
