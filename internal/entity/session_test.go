package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalive-dev/tic-tac-toe/internal/game"
)

func TestNewSession(t *testing.T) {
	// Given: an owner seat
	owner := &Player{ID: "conn-1", Mark: game.PlayerX, SessionID: "abc123"}

	// When: a session is created
	session := NewSession("abc123", owner)

	// Then: the session should hold one seat and a fresh game
	require.NotNil(t, session)
	require.Equal(t, "abc123", session.ID)
	require.Len(t, session.Players, 1)
	require.False(t, session.IsFull())

	require.NotNil(t, session.Game)
	assert.Equal(t, game.PlayerX, session.Game.Turn)
	assert.Equal(t, 0, session.Game.MoveCount)
}

func TestSession_Player(t *testing.T) {
	session := NewSession("abc123", &Player{ID: "conn-1", Mark: game.PlayerX})
	session.Players = append(session.Players, &Player{ID: "conn-2", Mark: game.PlayerO})

	t.Run("Finds a seat by connection id", func(t *testing.T) {
		player := session.Player("conn-2")

		require.NotNil(t, player)
		assert.Equal(t, game.PlayerO, player.Mark)
	})

	t.Run("Returns nil for a stranger", func(t *testing.T) {
		assert.Nil(t, session.Player("conn-3"))
		assert.False(t, session.HasPlayer("conn-3"))
	})
}

func TestSession_Opponents(t *testing.T) {
	session := NewSession("abc123", &Player{ID: "conn-1", Mark: game.PlayerX})
	session.Players = append(session.Players, &Player{ID: "conn-2", Mark: game.PlayerO})

	// When: asking for the opponents of the first seat
	opponents := session.Opponents("conn-1")

	// Then: only the second seat should be returned
	require.Len(t, opponents, 1)
	assert.Equal(t, "conn-2", opponents[0].ID)
}

func TestSession_IsFull(t *testing.T) {
	session := NewSession("abc123", &Player{ID: "conn-1", Mark: game.PlayerX})
	assert.False(t, session.IsFull())

	session.Players = append(session.Players, &Player{ID: "conn-2", Mark: game.PlayerO})
	assert.True(t, session.IsFull())
}

func TestSession_PlayerIDs(t *testing.T) {
	session := NewSession("abc123", &Player{ID: "conn-1", Mark: game.PlayerX})
	session.Players = append(session.Players, &Player{ID: "conn-2", Mark: game.PlayerO})

	// Then: ids should come back in admission order
	assert.Equal(t, []string{"conn-1", "conn-2"}, session.PlayerIDs())
}
