package usecase

import (
	"github.com/kalive-dev/tic-tac-toe/internal/entity"
	"github.com/kalive-dev/tic-tac-toe/internal/game"
)

const (
	ActionSessionNew    = "session:new"
	ActionSessionJoin   = "session:join"
	ActionSessionTurn   = "session:turn"
	ActionSessionStart  = "session:start"
	ActionSessionUpdate = "session:update"
	ActionSessionLeft   = "session:left"
)

// Payload is the message body exchanged with clients, in both directions.
type Payload struct {
	SessionID string         `json:"session_id,omitempty"`
	Player    *entity.Player `json:"player,omitempty"`
	Game      *game.Game     `json:"game,omitempty"`
	Players   []string       `json:"players,omitempty"`
	Cell      *int           `json:"cell,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Event is a message the coordinator wants delivered to a set of
// connections. The coordinator never talks to the transport directly; it
// returns events and the transport publishes them.
type Event struct {
	Action  string
	Targets []string
	Payload Payload
}

func replyTo(connID, action string, payload Payload) Event {
	return Event{
		Action:  action,
		Targets: []string{connID},
		Payload: payload,
	}
}
