package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = "-"
)

// ParseMark accepts "X", "O", "-" and the empty string (an empty cell).
func ParseMark(value string) (Mark, error) {
	switch value {
	case string(PlayerX):
		return PlayerX, nil
	case string(PlayerO):
		return PlayerO, nil
	case string(EmptyCell), "":
		return EmptyCell, nil
	default:
		return "", fmt.Errorf("%w: unknown mark %q", apperror.ErrInvalidBoard, value)
	}
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO || that == EmptyCell
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}
