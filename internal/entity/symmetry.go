package entity

// Transform is one of the eight symmetries of the square. It maps a board and
// the moves on it consistently, so that Move(m) on Board(b) lands on the same
// mark that m lands on in b.
type Transform struct {
	Name  string
	turns int
	flip  bool
}

// Transforms holds the identity, three rotations and their mirror images.
var Transforms = []Transform{
	{Name: "identity", turns: 0},
	{Name: "rotate90", turns: 1},
	{Name: "rotate180", turns: 2},
	{Name: "rotate270", turns: 3},
	{Name: "mirror", flip: true},
	{Name: "mirror-rotate90", turns: 1, flip: true},
	{Name: "mirror-rotate180", turns: 2, flip: true},
	{Name: "mirror-rotate270", turns: 3, flip: true},
}

func (that Transform) Board(board Board) Board {
	out := board
	if that.flip {
		out = Mirror(out)
	}

	for range that.turns {
		out = Rotate90(out)
	}

	return out
}

func (that Transform) Move(move Move) Move {
	out := move
	if that.flip {
		out = Move{Row: out.Row, Col: BoardSize - 1 - out.Col}
	}

	for range that.turns {
		out = Move{Row: out.Col, Col: BoardSize - 1 - out.Row}
	}

	return out
}

// Rotate90 turns the board a quarter clockwise.
func Rotate90(board Board) Board {
	var out Board
	for row := range BoardSize {
		for col := range BoardSize {
			out[row][col] = board[BoardSize-1-col][row]
		}
	}

	return out
}

// Mirror reflects the board left to right.
func Mirror(board Board) Board {
	var out Board
	for row := range BoardSize {
		for col := range BoardSize {
			out[row][col] = board[row][BoardSize-1-col]
		}
	}

	return out
}
