package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type Handlers interface {
	Ping(c *gin.Context)
	Outcome(c *gin.Context)
	Move(c *gin.Context)
}

type BoardRequest struct {
	Board [][]string `json:"board" binding:"required"`
}

type MoveRequest struct {
	Board        [][]string `json:"board" binding:"required"`
	ComputerMark string     `json:"computer_mark" binding:"required,oneof=X O"`
	Seed         *uint64    `json:"seed"`
}

type MoveResponse struct {
	Move   entity.Move          `json:"move"`
	Cell   int                  `json:"cell"`
	Score  int                  `json:"score"`
	Scores []tictactoe.Decision `json:"scores"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	coin tictactoe.Coin
}

func NewHandlers(coin tictactoe.Coin) Handlers {
	return &handlers{
		coin: coin,
	}
}

func (that *handlers) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// Outcome reports whether the posted board is won, tied or still open.
func (that *handlers) Outcome(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	board, err := entity.BoardFromCells(req.Board)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.DetermineOutcome(&board))
}

// Move returns the computer's choice on the posted board together with the
// score of every legal move.
func (that *handlers) Move(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	board, err := entity.BoardFromCells(req.Board)
	if err != nil {
		writeError(c, err)
		return
	}

	if !board.IsBalanced() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: apperror.ErrInvalidBoard.Error() + ": marks do not alternate"})
		return
	}

	coin := that.coin
	if req.Seed != nil {
		coin = tictactoe.NewRandomCoin(*req.Seed)
	}

	evaluator, err := tictactoe.NewEvaluator(entity.Mark(req.ComputerMark), coin)
	if err != nil {
		writeError(c, err)
		return
	}

	decision, err := evaluator.Decide(board)
	if err != nil {
		writeError(c, err)
		return
	}

	scores, err := evaluator.ScoreMoves(board)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, MoveResponse{
		Move:   decision.Move,
		Cell:   decision.Move.Index(),
		Score:  decision.Score,
		Scores: scores,
	})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrInvalidBoard), errors.Is(err, apperror.ErrInvalidMark):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrInvalidState):
		status = http.StatusConflict
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}
