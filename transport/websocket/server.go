package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/johancv/tictactoe-backend/internal/entity"
	"github.com/johancv/tictactoe-backend/internal/repository"
	"github.com/johancv/tictactoe-backend/internal/session"
)

// sessionRegistry is the slice of the registry the gateway dispatches to.
type sessionRegistry interface {
	Create(creatorName, password string) (*session.Session, error)
	Join(sessionID, name, password string) (*session.Session, string, entity.SessionSnapshot, error)
	Get(sessionID string) (*session.Session, error)
	Leave(sessionID, name string) (entity.SessionSnapshot, int, error)
	List() []entity.SessionSummary
}

type handlerFunc func(ctx context.Context, client *Client, msg *Message) error

// Server is the Coordination Gateway: it maps inbound commands plus the
// issuing connection's identity to session operations and fans the
// resulting events out to the affected connections.
type Server struct {
	logger   *slog.Logger
	registry sessionRegistry
	results  repository.ResultRepository

	handlers map[string]handlerFunc
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func New(logger *slog.Logger, registry sessionRegistry, results repository.ResultRepository) *Server {
	server := &Server{
		logger:   logger.With("component", "gateway"),
		registry: registry,
		results:  results,

		handlers: make(map[string]handlerFunc),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},

		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}

	server.handlers[actionCreateSession] = server.handleCreateSession
	server.handlers[actionJoinSession] = server.handleJoinSession
	server.handlers[actionMakeMove] = server.handleMakeMove
	server.handlers[actionRestartGame] = server.handleRestartGame
	server.handlers[actionSendChatMessage] = server.handleSendChatMessage
	server.handlers[actionGetSessions] = server.handleGetSessions
	server.handlers[actionLeaveSession] = server.handleLeaveSession

	return server
}

// Start serves the websocket endpoint until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveWS upgrades the connection and runs its read loop.
func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn)
	go client.writePump()

	that.mu.Lock()
	that.clients[client] = struct{}{}
	that.mu.Unlock()

	log.Info("WebSocket connection established")

	that.sendTo(client, actionConnected, ConnectedPayload{Status: "Connected to server"})

	that.readLoop(ctx, client)
	that.dropClient(client)
}

func (that *Server) readLoop(ctx context.Context, client *Client) {
	log := that.logger.With("method", "readLoop")

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			that.sendError(client, "invalid message")
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			that.sendError(client, "unknown action: "+msg.Action)
			continue
		}

		if err = handler(ctx, client, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

// dropClient handles a disconnect: the connection leaves its session (if
// any) and disappears from the gateway.
func (that *Server) dropClient(client *Client) {
	that.leaveCurrentSession(client)

	that.mu.Lock()
	delete(that.clients, client)
	that.mu.Unlock()

	client.close()

	that.logger.Info("WebSocket connection closed")
}

// leaveCurrentSession reverts the connection to unidentified and removes
// its player from the session, notifying the remaining member. Shared by
// the leave command and disconnect handling.
func (that *Server) leaveCurrentSession(client *Client) {
	log := that.logger.With("method", "leaveCurrentSession")

	sessionID, playerName, ok := client.session()
	if !ok {
		return
	}

	client.clearSession()
	that.leaveRoom(sessionID, client)

	snapshot, remaining, err := that.registry.Leave(sessionID, playerName)
	if err != nil {
		// The session may already be gone (evicted); the connection state
		// is reverted either way.
		log.Warn("failed to leave session", "sessionID", sessionID, "error", err)
		return
	}

	if remaining > 0 {
		that.broadcastToRoom(sessionID, actionPlayerLeft, PlayerLeftPayload{
			Message: fmt.Sprintf("%s has left the game. Waiting for a new player...", playerName),
			Session: snapshot,
		})
	}

	log.Info("player left session", "sessionID", sessionID, "playerName", playerName)

	that.broadcastSessionsList()
}

// HandleEviction is the registry's eviction callback: members of an
// expired session are told and reverted to unidentified.
func (that *Server) HandleEviction(snapshot entity.SessionSnapshot) {
	that.mu.Lock()
	members := that.rooms[snapshot.ID]
	delete(that.rooms, snapshot.ID)
	that.mu.Unlock()

	for client := range members {
		client.clearSession()
		that.sendTo(client, actionSessionExpired, SessionExpiredPayload{
			Message: "session expired due to inactivity",
		})
	}

	that.broadcastSessionsList()
}

func (that *Server) joinRoom(sessionID string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.rooms[sessionID] == nil {
		that.rooms[sessionID] = make(map[*Client]struct{})
	}
	that.rooms[sessionID][client] = struct{}{}
}

func (that *Server) leaveRoom(sessionID string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms[sessionID], client)
	if len(that.rooms[sessionID]) == 0 {
		delete(that.rooms, sessionID)
	}
}

func (that *Server) sendTo(client *Client, action string, payload any) {
	client.enqueue(mustMarshal(action, payload))
}

func (that *Server) sendError(client *Client, message string) error {
	that.sendTo(client, actionError, ErrorPayload{Message: message})
	return nil
}

// broadcastToRoom sends one event to every connection observing a session.
func (that *Server) broadcastToRoom(sessionID, action string, payload any) {
	data := mustMarshal(action, payload)

	that.mu.RLock()
	defer that.mu.RUnlock()

	for client := range that.rooms[sessionID] {
		client.enqueue(data)
	}
}

// broadcastSessionsList pushes the current lobby to every connection.
func (that *Server) broadcastSessionsList() {
	data := mustMarshal(actionSessionsList, SessionsListPayload{Sessions: that.registry.List()})

	that.mu.RLock()
	defer that.mu.RUnlock()

	for client := range that.clients {
		client.enqueue(data)
	}
}

func mustMarshal(action string, payload any) []byte {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: payloadBytes})
	if err != nil {
		panic(err)
	}

	return data
}
