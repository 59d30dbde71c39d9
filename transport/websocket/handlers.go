package websocket

import (
	"context"
	"fmt"

	"github.com/kalive-dev/tic-tac-toe/internal/usecase"
)

func (that *Server) handleNewSession(ctx context.Context, connID string, _ *usecase.Payload) ([]usecase.Event, error) {
	events, err := that.coordinator.CreateSession(ctx, connID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return events, nil
}

func (that *Server) handleJoinSession(ctx context.Context, connID string, payload *usecase.Payload) ([]usecase.Event, error) {
	if payload.SessionID == "" {
		return errorReply(connID, usecase.ActionSessionJoin, "session_id is required"), nil
	}

	events, err := that.coordinator.JoinSession(ctx, payload.SessionID, connID)
	if err != nil {
		return nil, fmt.Errorf("failed to join session: %w", err)
	}

	return events, nil
}

func (that *Server) handleTurn(ctx context.Context, connID string, payload *usecase.Payload) ([]usecase.Event, error) {
	if payload.SessionID == "" || payload.Cell == nil {
		return errorReply(connID, usecase.ActionSessionTurn, "session_id and cell are required"), nil
	}

	events, err := that.coordinator.MakeMove(ctx, connID, payload.SessionID, *payload.Cell)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	return events, nil
}

func errorReply(connID, action, errorMsg string) []usecase.Event {
	return []usecase.Event{{
		Action:  action,
		Targets: []string{connID},
		Payload: usecase.Payload{Error: errorMsg},
	}}
}
