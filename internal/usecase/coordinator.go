package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kalive-dev/tic-tac-toe/internal/apperror"
	"github.com/kalive-dev/tic-tac-toe/internal/entity"
)

const opponentLeftMessage = "opponent left the game"

// Coordinator is the server-side protocol handler. Every method takes a
// connection id, mutates sessions through the store and returns the events
// the transport should publish. Validation failures the protocol treats as
// silent produce no events and no error.
type Coordinator struct {
	logger *slog.Logger
	store  *SessionStore
}

func NewCoordinator(logger *slog.Logger, store *SessionStore) *Coordinator {
	return &Coordinator{
		logger: logger,
		store:  store,
	}
}

// CreateSession - opens a new session with the caller in the first seat.
// The reply carries the assigned mark as well as the session id, so the
// creator never has to infer its mark client-side.
func (that *Coordinator) CreateSession(ctx context.Context, connID string) ([]Event, error) {
	session, err := that.store.Create(ctx, connID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "connID", connID)

	reply := replyTo(connID, ActionSessionNew, Payload{
		SessionID: session.ID,
		Player:    session.Player(connID),
	})

	return []Event{reply}, nil
}

// JoinSession - admits the caller as the second player. Not-found and full
// are reported to the caller only; on success the caller gets its mark and
// the whole session gets a start notification with the participant list.
func (that *Coordinator) JoinSession(ctx context.Context, sessionID, connID string) ([]Event, error) {
	log := that.logger.With("method", "JoinSession", "sessionID", sessionID)

	session, player, err := that.store.Admit(ctx, sessionID, connID)

	if errors.Is(err, apperror.ErrSessionNotFound) || errors.Is(err, apperror.ErrSessionFull) {
		log.Info("join rejected", "reason", err)

		return []Event{replyTo(connID, ActionSessionJoin, Payload{Error: err.Error()})}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to admit player: %w", err)
	}

	log.Info("player joined", "connID", connID)

	events := []Event{
		replyTo(connID, ActionSessionJoin, Payload{
			SessionID: session.ID,
			Player:    player,
		}),
		{
			Action:  ActionSessionStart,
			Targets: session.PlayerIDs(),
			Payload: Payload{
				SessionID: session.ID,
				Players:   session.PlayerIDs(),
			},
		},
	}

	return events, nil
}

// MakeMove - applies the caller's move to the session's game and, when the
// move is accepted, broadcasts the full game state to every player. A stale
// click (unknown session, out of turn, occupied cell, finished game) is
// dropped without a response.
func (that *Coordinator) MakeMove(ctx context.Context, connID, sessionID string, cell int) ([]Event, error) {
	log := that.logger.With("method", "MakeMove", "sessionID", sessionID, "connID", connID)

	session, err := that.store.Update(ctx, sessionID, func(session *entity.Session) error {
		player := session.Player(connID)
		if player == nil || session.Game.Turn != player.Mark {
			return apperror.ErrNotYourTurn
		}

		return session.Game.ApplyMove(cell)
	})

	if isRejectedMove(err) {
		log.Debug("move rejected", "cell", cell, "reason", err)
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	update := Event{
		Action:  ActionSessionUpdate,
		Targets: session.PlayerIDs(),
		Payload: Payload{
			SessionID: session.ID,
			Game:      session.Game,
		},
	}

	return []Event{update}, nil
}

// Disconnect - tears down every session the departing connection sits in
// and notifies each remaining player once. There is no seat resumption; the
// survivor has to create or join a new session.
func (that *Coordinator) Disconnect(ctx context.Context, connID string) ([]Event, error) {
	sessions, err := that.store.RemoveParticipant(ctx, connID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	var events []Event

	for _, session := range sessions {
		that.logger.Info("session destroyed", "sessionID", session.ID, "connID", connID)

		for _, opponent := range session.Opponents(connID) {
			events = append(events, replyTo(opponent.ID, ActionSessionLeft, Payload{
				SessionID: session.ID,
				Error:     opponentLeftMessage,
			}))
		}
	}

	return events, nil
}

func isRejectedMove(err error) bool {
	return errors.Is(err, apperror.ErrSessionNotFound) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrGameFinished)
}
