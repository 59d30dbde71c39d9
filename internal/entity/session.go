package entity

import (
	"github.com/kalive-dev/tic-tac-toe/internal/game"
)

const MaxPlayers = 2

// Player is one seat in a session, identified by its connection id.
type Player struct {
	ID        string `json:"id"`
	Mark      string `json:"mark,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Session is a single game instance identified by an opaque code, holding
// up to two players and one game state. The session store owns every
// instance; nothing else keeps a mutable reference.
type Session struct {
	ID      string     `json:"id"`
	Players []*Player  `json:"players"`
	Game    *game.Game `json:"game"`
}

func NewSession(id string, owner *Player) *Session {
	return &Session{
		ID:      id,
		Players: []*Player{owner},
		Game:    game.New(),
	}
}

func (that *Session) IsFull() bool {
	return len(that.Players) >= MaxPlayers
}

// Player - returns the seat held by the given connection, or nil.
func (that *Session) Player(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

func (that *Session) HasPlayer(id string) bool {
	return that.Player(id) != nil
}

// Opponents - returns every seat except the given connection's.
func (that *Session) Opponents(id string) []*Player {
	opponents := make([]*Player, 0, len(that.Players))
	for _, player := range that.Players {
		if player.ID != id {
			opponents = append(opponents, player)
		}
	}

	return opponents
}

// PlayerIDs - returns the connection ids of all seats, in admission order.
func (that *Session) PlayerIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		ids = append(ids, player.ID)
	}

	return ids
}
