package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// winUtility is the score of a win found without any further move.
const winUtility = 10

type Decision struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
}

// Evaluator scores positions by exhaustive minimax from the computer's side.
// It never prunes and keeps no state between calls apart from its coin.
type Evaluator struct {
	computer entity.Mark
	human    entity.Mark
	coin     Coin
}

func NewEvaluator(computer entity.Mark, coin Coin) (*Evaluator, error) {
	if !computer.IsPlayer() {
		return nil, fmt.Errorf("%w: computer cannot play %q", apperror.ErrInvalidMark, string(computer))
	}

	return &Evaluator{
		computer: computer,
		human:    computer.Opponent(),
		coin:     coin,
	}, nil
}

// Minimax returns the utility of board for the computer. On a terminal board
// that is 10-depth for a computer win, -(10+depth) for a human win and 0 for a
// tie. Cells are filled and restored in place, so board is unchanged on return.
func (that *Evaluator) Minimax(board *entity.Board, depth int, maximizing bool) int {
	outcome := entity.DetermineOutcome(board)
	switch {
	case outcome.IsWin() && outcome.Winner == that.computer:
		return winUtility - depth
	case outcome.IsWin():
		return -(winUtility + depth)
	case outcome.IsTie():
		return 0
	}

	mark, best := that.human, math.MaxInt
	if maximizing {
		mark, best = that.computer, math.MinInt
	}

	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			if board[row][col] != entity.EmptyCell {
				continue
			}

			board[row][col] = mark
			score := that.Minimax(board, depth+1, !maximizing)
			board[row][col] = entity.EmptyCell

			if maximizing {
				best = max(best, score)
			} else {
				best = min(best, score)
			}
		}
	}

	return best
}

// ChooseMove picks the computer's move on board.
func (that *Evaluator) ChooseMove(board entity.Board) (entity.Move, error) {
	decision, err := that.Decide(board)
	if err != nil {
		return entity.Move{}, err
	}

	return decision.Move, nil
}

// Decide scans the empty cells row by row and keeps the best scored move. A
// strictly better score always replaces the current best, an equal one
// replaces it when the coin lands heads, so later ties are favoured.
func (that *Evaluator) Decide(board entity.Board) (Decision, error) {
	if err := that.checkPlayable(&board); err != nil {
		return Decision{}, err
	}

	best := Decision{Score: math.MinInt}
	for row := range entity.BoardSize {
		for col := range entity.BoardSize {
			if board[row][col] != entity.EmptyCell {
				continue
			}

			board[row][col] = that.computer
			score := that.Minimax(&board, 0, false)
			board[row][col] = entity.EmptyCell

			if score > best.Score || (score == best.Score && that.coin.Flip()) {
				best = Decision{Move: entity.Move{Row: row, Col: col}, Score: score}
			}
		}
	}

	return best, nil
}

// ScoreMoves returns the score of every legal move in row-major order.
func (that *Evaluator) ScoreMoves(board entity.Board) ([]Decision, error) {
	if err := that.checkPlayable(&board); err != nil {
		return nil, err
	}

	moves := board.EmptyCells()
	scores := make([]Decision, 0, len(moves))
	for _, move := range moves {
		board[move.Row][move.Col] = that.computer
		scores = append(scores, Decision{Move: move, Score: that.Minimax(&board, 0, false)})
		board[move.Row][move.Col] = entity.EmptyCell
	}

	return scores, nil
}

func (that *Evaluator) checkPlayable(board *entity.Board) error {
	if err := board.Validate(); err != nil {
		return fmt.Errorf("failed to validate board: %w", err)
	}

	if !board.HasEmptyCell() {
		return fmt.Errorf("%w: no empty cell left on %s", apperror.ErrInvalidState, board)
	}

	if outcome := entity.DetermineOutcome(board); outcome.IsTerminal() {
		return fmt.Errorf("%w: %s already won on %s", apperror.ErrInvalidState, string(outcome.Winner), board)
	}

	return nil
}
