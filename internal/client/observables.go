package client

import (
	"github.com/kalive-dev/tic-tac-toe/internal/game"
)

// Read-only state for a presentation layer. Every accessor returns a copy;
// the mirror itself never leaves the adapter.

func (that *Adapter) Board() [9]string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Board
}

// CurrentMark - the mark whose turn it is.
func (that *Adapter) CurrentMark() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Turn
}

func (that *Adapter) Winner() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.Winner
}

func (that *Adapter) IsDraw() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.IsDraw
}

func (that *Adapter) MoveCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.game.MoveCount
}

// WinningLine - the completed line's cell indices, for highlighting.
func (that *Adapter) WinningLine() ([3]int, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return game.WinningLine(that.game.Board)
}

// Mark - the mark assigned to the local player; empty in local mode.
func (that *Adapter) Mark() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mark
}

func (that *Adapter) SessionID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.sessionID
}

// Waiting - true between creating a room and the opponent joining.
func (that *Adapter) Waiting() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.waiting
}

// Err - the last user-visible error, e.g. a join failure reason or an
// opponent departure.
func (that *Adapter) Err() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastErr
}

func (that *Adapter) ConnectionStatus() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.status
}

func (that *Adapter) Mode() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.mode
}
