package tictactoe

import (
	"fmt"

	"github.com/johancv/tictactoe-backend/internal/apperror"
	"github.com/johancv/tictactoe-backend/internal/entity"
)

// WinLines are the 8 winning lines of the 3x3 grid: 3 rows, 3 columns,
// 2 diagonals, as {row, col} coordinate triples.
var WinLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// ApplyMove sets board[row][col] to symbol. It fails with ErrIllegalMove
// when the coordinates are out of range or the cell is occupied; the board
// is untouched on failure.
func ApplyMove(board *entity.Board, row, col int, symbol string) error {
	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return fmt.Errorf("%w: cell (%d,%d) is out of range", apperror.ErrIllegalMove, row, col)
	}

	if board[row][col] != entity.EmptyCell {
		return fmt.Errorf("%w: cell (%d,%d) is already occupied", apperror.ErrIllegalMove, row, col)
	}

	board[row][col] = symbol

	return nil
}

// Evaluate reports the outcome of a board: the winning symbol if a full
// line of one symbol exists, a draw if all 9 cells are occupied with no
// winner, otherwise an in-progress game (empty winner, no draw).
func Evaluate(board entity.Board) (winner string, isDraw bool) {
	for _, line := range WinLines {
		a := board[line[0][0]][line[0][1]]
		b := board[line[1][0]][line[1][1]]
		c := board[line[2][0]][line[2][1]]

		if a != entity.EmptyCell && a == b && b == c {
			return a, false
		}
	}

	for _, row := range board {
		for _, cell := range row {
			if cell == entity.EmptyCell {
				return "", false
			}
		}
	}

	return "", true
}

// ToggleSymbol returns the opposing symbol.
func ToggleSymbol(symbol string) string {
	if symbol == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
