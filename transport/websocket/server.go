package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kalive-dev/tic-tac-toe/internal/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

type coordinator interface {
	CreateSession(ctx context.Context, connID string) ([]usecase.Event, error)
	JoinSession(ctx context.Context, sessionID, connID string) ([]usecase.Event, error)
	MakeMove(ctx context.Context, connID, sessionID string, cell int) ([]usecase.Event, error)
	Disconnect(ctx context.Context, connID string) ([]usecase.Event, error)
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator
	upgrader    websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[string]*connection

	handlers map[string]func(ctx context.Context, connID string, payload *usecase.Payload) ([]usecase.Event, error)
}

func New(logger *slog.Logger, coordinator coordinator) *Server {
	server := &Server{
		logger:      logger,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},

		connections: make(map[string]*connection),
		handlers:    make(map[string]func(context.Context, string, *usecase.Payload) ([]usecase.Event, error)),
	}

	server.handlers[usecase.ActionSessionNew] = server.handleNewSession
	server.handlers[usecase.ActionSessionJoin] = server.handleJoinSession
	server.handlers[usecase.ActionSessionTurn] = server.handleTurn

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived; liveness is ping/pong
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the request and runs the connection's read
// loop. One inbound message is handled at a time per connection.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connID := uuid.NewString()
	conn := &connection{ws: ws}

	that.connectionsMutex.Lock()
	that.connections[connID] = conn
	that.connectionsMutex.Unlock()

	log = log.With("connID", connID)
	log.Info("WebSocket connection established")

	go that.keepAlive(ctx, conn, connID)

	that.readMessages(ctx, conn, connID)

	that.connectionsMutex.Lock()
	delete(that.connections, connID)
	that.connectionsMutex.Unlock()

	_ = ws.Close()

	events, err := that.coordinator.Disconnect(ctx, connID)
	if err != nil {
		log.Error("failed to handle disconnect", "error", err)
		return
	}

	that.publish(events)

	log.Info("WebSocket connection closed")
}

func (that *Server) readMessages(ctx context.Context, conn *connection, connID string) {
	log := that.logger.With("method", "readMessages", "connID", connID)

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := conn.ws.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		var payload usecase.Payload
		if len(message.Payload) > 0 {
			if err := json.Unmarshal(message.Payload, &payload); err != nil {
				log.Error("failed to unmarshal payload", "error", err)
				continue
			}
		}

		events, err := handler(ctx, connID, &payload)
		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			continue
		}

		that.publish(events)
	}
}

// keepAlive - pings the peer so dead connections surface as read errors.
func (that *Server) keepAlive(ctx context.Context, conn *connection, connID string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				that.logger.Debug("ping failed", "connID", connID, "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// publish - delivers events fire-and-forget; an unreachable target simply
// misses the update.
func (that *Server) publish(events []usecase.Event) {
	log := that.logger.With("method", "publish")

	for _, event := range events {
		payloadJSON, err := json.Marshal(event.Payload)
		if err != nil {
			log.Error("failed to marshal payload", "action", event.Action, "error", err)
			continue
		}

		message := Message{
			Action:  event.Action,
			Payload: payloadJSON,
		}

		for _, target := range event.Targets {
			that.connectionsMutex.RLock()
			conn, ok := that.connections[target]
			that.connectionsMutex.RUnlock()

			if !ok {
				log.Warn("connection not found", "connID", target)
				continue
			}

			if err = conn.send(message); err != nil {
				log.Error("failed to send message", "connID", target, "error", err)
			}
		}
	}
}
