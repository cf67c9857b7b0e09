package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const (
	BoardSize  = 3
	CellsCount = BoardSize * BoardSize
)

// Board is a 3x3 grid addressed as [row][col].
type Board [BoardSize][BoardSize]Mark

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewBoard() Board {
	var board Board
	board.Clear()

	return board
}

// BoardFromCells builds a board out of a row-major snapshot of cell values.
func BoardFromCells(cells [][]string) (Board, error) {
	var board Board

	if len(cells) != BoardSize {
		return board, fmt.Errorf("%w: expected %d rows, got %d", apperror.ErrInvalidBoard, BoardSize, len(cells))
	}

	for row := range cells {
		if len(cells[row]) != BoardSize {
			return board, fmt.Errorf("%w: row %d has %d cells", apperror.ErrInvalidBoard, row, len(cells[row]))
		}

		for col, value := range cells[row] {
			mark, err := ParseMark(value)
			if err != nil {
				return board, fmt.Errorf("cell (%d,%d): %w", row, col, err)
			}

			board[row][col] = mark
		}
	}

	return board, nil
}

func (that *Board) Clear() {
	for row := range that {
		for col := range that[row] {
			that[row][col] = EmptyCell
		}
	}
}

// Validate reports ErrInvalidBoard when a cell holds anything but X, O or empty.
func (that *Board) Validate() error {
	for row := range that {
		for col, mark := range that[row] {
			if !mark.IsValid() {
				return fmt.Errorf("%w: cell (%d,%d) holds %q", apperror.ErrInvalidBoard, row, col, string(mark))
			}
		}
	}

	return nil
}

// IsBalanced reports whether the board is reachable by alternating play.
func (that *Board) IsBalanced() bool {
	x, o := that.Count(PlayerX), that.Count(PlayerO)

	diff := x - o
	if diff < 0 {
		diff = -diff
	}

	return diff <= 1
}

func (that *Board) Count(mark Mark) int {
	count := 0
	for row := range that {
		for _, cell := range that[row] {
			if cell == mark {
				count++
			}
		}
	}

	return count
}

func (that *Board) Cell(move Move) Mark {
	return that[move.Row][move.Col]
}

// Place puts the mark on the board after checking bounds and occupancy.
func (that *Board) Place(move Move, mark Mark) error {
	if !move.InBounds() {
		return fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidCell, move.Row, move.Col)
	}

	if that[move.Row][move.Col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that[move.Row][move.Col] = mark

	return nil
}

// EmptyCells lists the free cells in row-major order.
func (that *Board) EmptyCells() []Move {
	moves := make([]Move, 0, CellsCount)
	for row := range that {
		for col, cell := range that[row] {
			if cell == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

func (that *Board) HasEmptyCell() bool {
	for row := range that {
		for _, cell := range that[row] {
			if cell == EmptyCell {
				return true
			}
		}
	}

	return false
}

// Cells returns the board as a row-major snapshot, the inverse of BoardFromCells.
func (that *Board) Cells() [][]string {
	cells := make([][]string, BoardSize)
	for row := range that {
		cells[row] = make([]string, BoardSize)
		for col, mark := range that[row] {
			cells[row][col] = string(mark)
		}
	}

	return cells
}

func (that *Board) String() string {
	var out []byte
	for row := range that {
		if row > 0 {
			out = append(out, '/')
		}
		for _, mark := range that[row] {
			out = append(out, string(mark)...)
		}
	}

	return string(out)
}

// MoveFromIndex converts a 0..8 row-major cell index into a move.
func MoveFromIndex(index int) (Move, error) {
	if index < 0 || index >= CellsCount {
		return Move{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, index)
	}

	return Move{Row: index / BoardSize, Col: index % BoardSize}, nil
}

func (that Move) Index() int {
	return that.Row*BoardSize + that.Col
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}
