package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kalive-dev/tic-tac-toe/internal/game"
	"github.com/kalive-dev/tic-tac-toe/internal/usecase"
)

const (
	ModeLocal  = "local"
	ModeOnline = "online"

	StatusDisconnected = "disconnected"
	StatusConnecting   = "connecting"
	StatusConnected    = "connected"
)

const connectionLostMessage = "connection lost"

var (
	ErrNotConnected      = errors.New("not connected to a server")
	ErrConnectInProgress = errors.New("connection attempt already in progress")
)

// message mirrors the wire format of the coordinator's WebSocket server.
type message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Adapter mirrors one game for a presentation layer. In local mode it
// drives the engine directly and keeps a board history for undo; in online
// mode it forwards moves to a coordinator and only mutates its mirror when
// the authoritative broadcast arrives. One instance serves one mode at a
// time; Disconnect and ResetGame return it to local mode.
type Adapter struct {
	logger *slog.Logger

	mu      sync.Mutex
	mode    string
	game    *game.Game
	history [][9]string

	conn      *websocket.Conn
	writeMu   sync.Mutex
	status    string
	sessionID string
	mark      string
	waiting   bool
	lastErr   string

	pending map[string]chan usecase.Payload
	done    chan struct{}
}

func NewAdapter(logger *slog.Logger) *Adapter {
	return &Adapter{
		logger: logger,

		mode:    ModeLocal,
		game:    game.New(),
		history: [][9]string{{}},
		status:  StatusDisconnected,
		pending: make(map[string]chan usecase.Payload),
	}
}

// PlayMove - plays the active mark at the given cell. Invalid moves (an
// occupied cell, a finished game, not the local player's turn) are dropped
// silently; the board only ever changes on a valid move, and in online mode
// only on the server's broadcast.
func (that *Adapter) PlayMove(cell int) {
	that.mu.Lock()

	if cell < 0 || cell >= len(that.game.Board) || that.game.Board[cell] != game.EmptyCell || that.game.IsFinished() {
		that.mu.Unlock()
		return
	}

	if that.mode == ModeOnline {
		conn := that.conn
		sessionID := that.sessionID
		ownTurn := that.mark != game.EmptyCell && that.game.Turn == that.mark
		that.mu.Unlock()

		if conn == nil || !ownTurn {
			return
		}

		if err := that.write(conn, usecase.ActionSessionTurn, usecase.Payload{SessionID: sessionID, Cell: &cell}); err != nil {
			that.logger.Error("failed to send move", "error", err)
		}

		return
	}

	defer that.mu.Unlock()

	if err := that.game.ApplyMove(cell); err != nil {
		return
	}

	that.history = append(that.history, that.game.Board)
}

// UndoMove - takes back the last local move. A no-op in online mode and
// when no local history exists; a board inherited from an online game has
// no history, so its moves cannot be taken back.
func (that *Adapter) UndoMove() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.mode == ModeOnline || len(that.history) <= 1 {
		return
	}

	that.history = that.history[:len(that.history)-1]

	that.game.Board = that.history[len(that.history)-1]
	that.game.Turn = game.ToggleMark(that.game.Turn)
	that.game.Winner = game.EmptyCell
	that.game.IsDraw = false
	that.game.MoveCount--
}

// ResetGame - reinitializes to an empty board. In online mode it first
// drops the connection; the server destroys the abandoned session.
func (that *Adapter) ResetGame() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.mode == ModeOnline {
		that.teardownLocked("")
	}

	that.game = game.New()
	that.history = [][9]string{{}}
}

// Disconnect - drops the connection and returns the adapter to local mode.
func (that *Adapter) Disconnect() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.teardownLocked("")
}

// CreateRoom - connects to the server and opens a new session. The adapter
// plays X and waits until an opponent joins, which it learns from the
// session start broadcast.
func (that *Adapter) CreateRoom(ctx context.Context, serverURL string) (string, error) {
	if err := that.connect(ctx, serverURL); err != nil {
		return "", err
	}

	reply, err := that.request(ctx, usecase.ActionSessionNew, usecase.Payload{})
	if err != nil {
		return "", fmt.Errorf("failed to create room: %w", err)
	}

	if reply.Error != "" {
		that.setError(reply.Error)
		return "", errors.New(reply.Error)
	}

	that.mu.Lock()
	that.sessionID = reply.SessionID
	that.mark = game.PlayerX
	if reply.Player != nil && reply.Player.Mark != game.EmptyCell {
		that.mark = reply.Player.Mark
	}
	that.waiting = true
	that.game = game.New()
	that.mu.Unlock()

	return reply.SessionID, nil
}

// JoinRoom - connects to the server and requests admission to an existing
// session. A failure reason ("session not found", "session is full") is
// surfaced as the adapter's error and leaves connection state untouched.
func (that *Adapter) JoinRoom(ctx context.Context, serverURL, sessionID string) error {
	if err := that.connect(ctx, serverURL); err != nil {
		return err
	}

	reply, err := that.request(ctx, usecase.ActionSessionJoin, usecase.Payload{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	if reply.Error != "" {
		that.setError(reply.Error)
		return errors.New(reply.Error)
	}

	that.mu.Lock()
	that.sessionID = reply.SessionID
	if reply.Player != nil {
		that.mark = reply.Player.Mark
	}
	that.waiting = false
	that.game = game.New()
	that.mu.Unlock()

	return nil
}

// connect - dials the server once; subsequent calls on a live connection
// are no-ops. The lock is not held across the dial, so the connecting
// status doubles as a guard against a concurrent second dial.
func (that *Adapter) connect(ctx context.Context, serverURL string) error {
	that.mu.Lock()

	if that.conn != nil {
		that.mu.Unlock()
		return nil
	}

	if that.status == StatusConnecting {
		that.mu.Unlock()
		return ErrConnectInProgress
	}

	that.status = StatusConnecting
	that.mu.Unlock()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		that.mu.Lock()
		that.status = StatusDisconnected
		that.mu.Unlock()

		return fmt.Errorf("failed to dial server: %w", err)
	}

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	done := make(chan struct{})

	that.mu.Lock()
	that.conn = conn
	that.mode = ModeOnline
	that.status = StatusConnected
	that.lastErr = ""
	that.done = done
	that.mu.Unlock()

	go that.readMessages(conn, done)

	return nil
}

// readMessages - consumes the connection until it dies, delivering replies
// to waiting requests and applying broadcasts to the local mirror.
func (that *Adapter) readMessages(conn *websocket.Conn, done chan struct{}) {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			that.mu.Lock()
			if that.conn == conn {
				that.teardownLocked(connectionLostMessage)
			}
			that.mu.Unlock()

			return
		}

		var payload usecase.Payload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				that.logger.Error("failed to unmarshal payload", "action", msg.Action, "error", err)
				continue
			}
		}

		that.mu.Lock()

		if ch, ok := that.pending[msg.Action]; ok {
			delete(that.pending, msg.Action)
			that.mu.Unlock()

			ch <- payload

			continue
		}

		switch msg.Action {
		case usecase.ActionSessionStart:
			that.waiting = false
		case usecase.ActionSessionUpdate:
			if payload.Game != nil {
				that.game = payload.Game
			}
		case usecase.ActionSessionLeft:
			errorMsg := payload.Error
			if errorMsg == "" {
				errorMsg = "opponent left the game"
			}
			that.teardownLocked(errorMsg)
		default:
			that.logger.Warn("unknown action", "action", msg.Action)
		}

		that.mu.Unlock()

		select {
		case <-done:
			return
		default:
		}
	}
}

// request - sends a message and waits for the server's reply to the same
// action.
func (that *Adapter) request(ctx context.Context, action string, payload usecase.Payload) (usecase.Payload, error) {
	that.mu.Lock()

	conn := that.conn
	if conn == nil {
		that.mu.Unlock()
		return usecase.Payload{}, ErrNotConnected
	}

	done := that.done
	ch := make(chan usecase.Payload, 1)
	that.pending[action] = ch

	that.mu.Unlock()

	if err := that.write(conn, action, payload); err != nil {
		that.mu.Lock()
		delete(that.pending, action)
		that.mu.Unlock()

		return usecase.Payload{}, fmt.Errorf("failed to send request: %w", err)
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-done:
		return usecase.Payload{}, ErrNotConnected
	case <-ctx.Done():
		that.mu.Lock()
		delete(that.pending, action)
		that.mu.Unlock()

		return usecase.Payload{}, fmt.Errorf("request canceled: %w", ctx.Err())
	}
}

func (that *Adapter) write(conn *websocket.Conn, action string, payload usecase.Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = conn.WriteJSON(message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// teardownLocked - drops all connection state; callers hold the lock. The
// error message, when set, stays visible until the next connection.
func (that *Adapter) teardownLocked(errorMsg string) {
	if that.conn != nil {
		_ = that.conn.Close()
		that.conn = nil
	}

	if that.done != nil {
		close(that.done)
		that.done = nil
	}

	for action, ch := range that.pending {
		delete(that.pending, action)
		ch <- usecase.Payload{Error: ErrNotConnected.Error()}
	}

	that.mode = ModeLocal
	that.status = StatusDisconnected
	that.sessionID = ""
	that.mark = ""
	that.waiting = false
	that.lastErr = errorMsg

	// Local history restarts at the mirrored board.
	that.history = [][9]string{that.game.Board}
}

func (that *Adapter) setError(errorMsg string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastErr = errorMsg
}
