package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalive-dev/tic-tac-toe/internal/apperror"
	"github.com/kalive-dev/tic-tac-toe/internal/entity"
	"github.com/kalive-dev/tic-tac-toe/internal/game"
	"github.com/kalive-dev/tic-tac-toe/testing/suite"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a session with one seat and a fresh game
	session := entity.NewSession("abc123", &entity.Player{ID: "conn-1", Mark: game.PlayerX, SessionID: "abc123"})

	// When: CreateOrUpdate is called
	err := sessionRepo.CreateOrUpdate(ctx, session)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// Given: a stored session with a move on the board
		session := entity.NewSession("abc123", &entity.Player{ID: "conn-1", Mark: game.PlayerX, SessionID: "abc123"})
		require.NoError(t, session.Game.ApplyMove(4))

		err := sessionRepo.CreateOrUpdate(ctx, session)
		require.NoError(t, err)

		// When: GetByID is called with the existing id
		retrievedSession, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		require.Equal(t, session.ID, retrievedSession.ID)
		require.Equal(t, session.PlayerIDs(), retrievedSession.PlayerIDs())
		assert.Equal(t, game.PlayerX, retrievedSession.Game.Board[4])
		assert.Equal(t, 1, retrievedSession.Game.MoveCount)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage)

		// When: GetByID is called with a non-existent id
		retrievedSession, err := sessionRepo.GetByID(ctx, "nope42")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, retrievedSession)
	})
}

func TestSessionRepository_GetAll(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: two stored sessions
	first := entity.NewSession("abc123", &entity.Player{ID: "conn-1", Mark: game.PlayerX, SessionID: "abc123"})
	second := entity.NewSession("def456", &entity.Player{ID: "conn-2", Mark: game.PlayerX, SessionID: "def456"})

	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, first))
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, second))

	// When: GetAll is called
	sessions, err := sessionRepo.GetAll(ctx)

	// Then: both sessions should be returned
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{"abc123", "def456"}, ids)
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage)

	// Given: a stored session
	session := entity.NewSession("abc123", &entity.Player{ID: "conn-1", Mark: game.PlayerX, SessionID: "abc123"})
	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

	// When: DeleteByID is called
	err := sessionRepo.DeleteByID(ctx, session.ID)

	// Then: the session should no longer resolve
	require.NoError(t, err)

	_, err = sessionRepo.GetByID(ctx, session.ID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}
