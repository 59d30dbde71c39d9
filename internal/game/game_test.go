package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalive-dev/tic-tac-toe/internal/apperror"
)

func TestNew(t *testing.T) {
	// When: create a new game instance
	game := New()

	// Then: the game should have the expected initial state
	expectedGame := Game{
		Board: [9]string{},
		Turn:  PlayerX,
	}

	require.NotNil(t, game)
	require.Equal(t, expectedGame, *game)
}

func TestGame_ApplyMove(t *testing.T) {
	t.Run("ApplyMove", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: the first move is applied
		err := game.ApplyMove(0)
		require.NoError(t, err)

		// Then: the board, move count and turn should reflect the move
		expectedGame := Game{
			Board:     [9]string{PlayerX, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
			Turn:      PlayerO,
			MoveCount: 1,
		}

		require.Equal(t, expectedGame, *game)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: a game with the first cell taken
		game := New()
		require.NoError(t, game.ApplyMove(0))
		before := *game

		// When: the next move targets the same cell
		err := game.ApplyMove(0)

		// Then: an ErrCellOccupied error should be returned
		require.ErrorIs(t, err, apperror.ErrCellOccupied)

		// Then: the game state should remain unchanged
		require.Equal(t, before, *game)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: an index outside the board is passed
		err := game.ApplyMove(9)

		// Then: ErrInvalidCell should be returned
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Invalid negative cell", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: a negative index is passed
		err := game.ApplyMove(-1)

		// Then: ErrInvalidCell should be returned
		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Win on top row keeps the turn with the winner", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: X plays 0, O plays 4, X plays 1, O plays 5, X plays 2
		for _, cell := range []int{0, 4, 1, 5, 2} {
			require.NoError(t, game.ApplyMove(cell))
		}

		// Then: X should win the top row with five moves on the board
		require.Equal(t, PlayerX, game.Winner)
		require.False(t, game.IsDraw)
		require.Equal(t, 5, game.MoveCount)

		// Then: the turn should stay frozen on the mover
		require.Equal(t, PlayerX, game.Turn)

		// Then: any further move should be rejected without mutation
		before := *game
		for cell := 0; cell < 9; cell++ {
			err := game.ApplyMove(cell)
			require.Error(t, err)
		}
		require.Equal(t, before, *game)
	})

	t.Run("Move after finished game", func(t *testing.T) {
		// Given: a game where X has already won
		game := New()
		game.Board = [9]string{PlayerX, PlayerX, PlayerX, EmptyCell, PlayerO, EmptyCell, EmptyCell, PlayerO, EmptyCell}
		game.Winner = PlayerX
		game.MoveCount = 5

		// When: another move is attempted on an empty cell
		err := game.ApplyMove(3)

		// Then: an ErrGameFinished error should be returned
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, EmptyCell, game.Board[3])
	})

	t.Run("Full board without a line ends in a draw", func(t *testing.T) {
		// Given: a new game
		game := New()

		// When: nine alternating moves fill the board without a line
		// X O X / X O O / O X X
		for _, cell := range []int{0, 1, 2, 4, 3, 5, 7, 6, 8} {
			require.NoError(t, game.ApplyMove(cell))
		}

		// Then: the game should be a draw with no winner
		require.True(t, game.IsDraw)
		require.Equal(t, EmptyCell, game.Winner)
		require.Equal(t, 9, game.MoveCount)

		// Then: the board should accept no further moves
		require.ErrorIs(t, game.ApplyMove(0), apperror.ErrGameFinished)
	})
}

func TestCheckWinner(t *testing.T) {
	t.Run("Column win regardless of the rest of the board", func(t *testing.T) {
		// Given: a board where X holds the left column
		board := [9]string{
			PlayerX, PlayerO, PlayerO,
			PlayerX, PlayerO, EmptyCell,
			PlayerX, EmptyCell, EmptyCell,
		}

		// When: checking for a winner
		winner := CheckWinner(board)

		// Then: X should be the winner
		require.Equal(t, PlayerX, winner)
	})

	t.Run("Diagonal win", func(t *testing.T) {
		// Given: a board where O holds the anti-diagonal
		board := [9]string{
			PlayerX, PlayerX, PlayerO,
			PlayerX, PlayerO, EmptyCell,
			PlayerO, EmptyCell, EmptyCell,
		}

		// When: checking for a winner
		winner := CheckWinner(board)

		// Then: O should be the winner
		require.Equal(t, PlayerO, winner)
	})

	t.Run("No winner on an ongoing board", func(t *testing.T) {
		// Given: a board with no completed line
		board := [9]string{PlayerX, PlayerO, PlayerX, EmptyCell, PlayerO, EmptyCell, PlayerX, EmptyCell, EmptyCell}

		// When: checking for a winner
		winner := CheckWinner(board)

		// Then: there should be no winner yet
		require.Equal(t, EmptyCell, winner)
	})

	t.Run("No winner on a drawn board", func(t *testing.T) {
		// Given: a full board with no completed line
		board := [9]string{
			PlayerO, PlayerX, PlayerO,
			PlayerO, PlayerX, PlayerX,
			PlayerX, PlayerO, PlayerO,
		}

		// Then: the board should be a winnerless draw
		assert.Equal(t, EmptyCell, CheckWinner(board))
		assert.True(t, CheckDraw(board))
	})
}

func TestCheckDraw(t *testing.T) {
	t.Run("Not a draw with empty cells", func(t *testing.T) {
		board := [9]string{PlayerX, PlayerO, PlayerX, EmptyCell, PlayerO, EmptyCell, PlayerX, EmptyCell, EmptyCell}

		assert.False(t, CheckDraw(board))
	})

	t.Run("Draw when every cell is occupied", func(t *testing.T) {
		board := [9]string{
			PlayerO, PlayerX, PlayerO,
			PlayerO, PlayerX, PlayerX,
			PlayerX, PlayerO, PlayerO,
		}

		assert.True(t, CheckDraw(board))
	})
}

func TestWinningLine(t *testing.T) {
	t.Run("Reports the completed line", func(t *testing.T) {
		// Given: a board where X holds the top row
		board := [9]string{
			PlayerX, PlayerX, PlayerX,
			PlayerO, PlayerO, EmptyCell,
			EmptyCell, EmptyCell, EmptyCell,
		}

		// When: asking for the winning line
		line, ok := WinningLine(board)

		// Then: the top row indices should be reported
		require.True(t, ok)
		require.Equal(t, [3]int{0, 1, 2}, line)
	})

	t.Run("No line on an empty board", func(t *testing.T) {
		_, ok := WinningLine([9]string{})

		assert.False(t, ok)
	})
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, PlayerO, ToggleMark(PlayerX))
	assert.Equal(t, PlayerX, ToggleMark(PlayerO))
}
