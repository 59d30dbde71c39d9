package game

import (
	"github.com/kalive-dev/tic-tac-toe/internal/apperror"
)

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Game holds the board and turn/outcome metadata of a single match.
// Winner and IsDraw are never both set; once either is set the game is
// terminal and the board no longer changes.
type Game struct {
	Board     [9]string `json:"board"`
	Turn      string    `json:"turn"`
	MoveCount int       `json:"move_count"`
	Winner    string    `json:"winner,omitempty"`
	IsDraw    bool      `json:"is_draw"`
}

func New() *Game {
	return &Game{
		Board: [9]string{},
		Turn:  PlayerX,
	}
}

// ApplyMove - places the active mark at cell and advances the game.
// On rejection the game is left untouched. The turn stays with the mover
// when the move finishes the game.
func (that *Game) ApplyMove(cell int) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.Board) {
		return apperror.ErrInvalidCell
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = that.Turn
	that.MoveCount++

	if winner := CheckWinner(that.Board); winner != EmptyCell {
		that.Winner = winner
		return nil
	}

	if CheckDraw(that.Board) {
		that.IsDraw = true
		return nil
	}

	that.Turn = ToggleMark(that.Turn)

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Winner != EmptyCell || that.IsDraw
}

// CheckWinner - returns the mark that completed a line, or an empty string.
// The first satisfied combo wins; a cell holds one mark, so no tie-break
// is needed.
func CheckWinner(board [9]string) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// CheckDraw - reports whether every cell is occupied.
func CheckDraw(board [9]string) bool {
	for _, cell := range board {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// WinningLine - returns the cell indices of the completed line, for
// highlighting on a board view.
func WinningLine(board [9]string) ([3]int, bool) {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return combo, true
		}
	}

	return [3]int{}, false
}

func ToggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
