package websocket

import (
	"encoding/json"

	"github.com/johancv/tictactoe-backend/internal/entity"
)

// Message is the wire envelope for both commands and events.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Commands (client -> engine).
const (
	actionCreateSession   = "create_session"
	actionJoinSession     = "join_session"
	actionMakeMove        = "make_move"
	actionRestartGame     = "restart_game"
	actionSendChatMessage = "send_chat_message"
	actionGetSessions     = "get_sessions"
	actionLeaveSession    = "leave_session"
)

// Events (engine -> client).
const (
	actionConnected           = "connected"
	actionSessionCreated      = "session_created"
	actionSessionJoined       = "session_joined"
	actionPlayerJoined        = "player_joined"
	actionPlayerLeft          = "player_left"
	actionMoveMade            = "move_made"
	actionGameOver            = "game_over"
	actionGameRestarted       = "game_restarted"
	actionSessionsList        = "sessions_list"
	actionChatMessageReceived = "chat_message_received"
	actionSessionExpired      = "session_expired"
	actionError               = "error"
)

type CreateSessionPayload struct {
	PlayerName string `json:"player_name"`
	Password   string `json:"password,omitempty"`
}

type JoinSessionPayload struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	Password   string `json:"password,omitempty"`
}

// MakeMovePayload uses pointers so a missing coordinate is told apart
// from a zero one.
type MakeMovePayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ChatPayload struct {
	Message string `json:"message"`
}

type ConnectedPayload struct {
	Status string `json:"status"`
}

type SessionCreatedPayload struct {
	SessionID string                 `json:"session_id"`
	Session   entity.SessionSnapshot `json:"session"`
}

type SessionJoinedPayload struct {
	SessionID string                 `json:"session_id"`
	Session   entity.SessionSnapshot `json:"session"`
}

type PlayerJoinedPayload struct {
	Session   entity.SessionSnapshot `json:"session"`
	NewPlayer string                 `json:"new_player"`
}

type PlayerLeftPayload struct {
	Message string                 `json:"message"`
	Session entity.SessionSnapshot `json:"session"`
}

type MoveInfo struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player string `json:"player"`
	Symbol string `json:"symbol"`
}

type MoveMadePayload struct {
	Session   entity.SessionSnapshot `json:"session"`
	Move      MoveInfo               `json:"move"`
	GameState entity.GameState       `json:"game_state"`
}

type GameOverPayload struct {
	Result string `json:"result"`
	Winner string `json:"winner,omitempty"`
	IsDraw bool   `json:"is_draw"`
}

type GameRestartedPayload struct {
	Session   entity.SessionSnapshot `json:"session"`
	GameState entity.GameState       `json:"game_state"`
}

type SessionsListPayload struct {
	Sessions []entity.SessionSummary `json:"sessions"`
}

type ChatMessageReceivedPayload struct {
	Message entity.ChatMessage `json:"message"`
}

type SessionExpiredPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
