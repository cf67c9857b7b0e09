package entity

type OutcomeStatus string

const (
	StatusOngoing OutcomeStatus = "ongoing"
	StatusWin     OutcomeStatus = "win"
	StatusTie     OutcomeStatus = "tie"
)

type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Winner Mark          `json:"winner,omitempty"`
}

// Lines lists every three-in-a-row in the order they are checked:
// rows, columns, main diagonal, anti-diagonal.
var Lines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{2, 0}, {1, 1}, {0, 2}},
}

func Ongoing() Outcome {
	return Outcome{Status: StatusOngoing}
}

func Tie() Outcome {
	return Outcome{Status: StatusTie}
}

func Win(mark Mark) Outcome {
	return Outcome{Status: StatusWin, Winner: mark}
}

// DetermineOutcome reports the first completed line, otherwise ongoing while
// an empty cell remains, otherwise a tie.
func DetermineOutcome(board *Board) Outcome {
	for _, line := range Lines {
		a, b, c := board.Cell(line[0]), board.Cell(line[1]), board.Cell(line[2])
		if a != EmptyCell && a == b && b == c {
			return Win(a)
		}
	}

	// the game will continue until all the squares are full
	if board.HasEmptyCell() {
		return Ongoing()
	}

	return Tie()
}

func (that Outcome) IsTerminal() bool {
	return that.Status == StatusWin || that.Status == StatusTie
}

func (that Outcome) IsWin() bool {
	return that.Status == StatusWin
}

func (that Outcome) IsTie() bool {
	return that.Status == StatusTie
}
