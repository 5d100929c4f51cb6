package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/johancv/tictactoe-backend/internal/apperror"
	"github.com/johancv/tictactoe-backend/internal/entity"
	"github.com/johancv/tictactoe-backend/internal/tictactoe"
)

const (
	maxPlayers     = 2
	maxNameLen     = 20
	maxMessageLen  = 200
	defaultChatCap = 50
)

// Session is one live match plus its chat. Every operation runs under the
// session mutex, so commands against the same session are serialized:
// state mutation and the snapshot reported for it are one atomic step.
type Session struct {
	mu sync.Mutex

	id         string
	creator    string
	password   string
	players    []entity.Player
	game       *entity.GameState
	chat       []entity.ChatMessage
	chatSeq    int64
	chatCap    int
	createdAt  time.Time
	lastActive time.Time

	// closed marks a session destroyed by the registry; operations that
	// raced the destruction are rejected instead of mutating a ghost.
	closed bool
}

func newSession(id, creator, password string, chatCap int) *Session {
	now := time.Now()

	return &Session{
		id:         id,
		creator:    creator,
		password:   password,
		players:    []entity.Player{{Name: creator, Symbol: entity.PlayerX}},
		game:       entity.NewGameState(),
		chatCap:    chatCap,
		createdAt:  now,
		lastActive: now,
	}
}

func (that *Session) ID() string {
	return that.id
}

// AdmitPlayer adds a second player to the session. The new player receives
// the free symbol (X goes first on a fresh board, so the first member of a
// fresh pairing always holds X).
func (that *Session) AdmitPlayer(name, password string) (string, entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return "", entity.SessionSnapshot{}, apperror.ErrSessionNotFound
	}

	name, err := validateName(name)
	if err != nil {
		return "", entity.SessionSnapshot{}, err
	}

	if len(that.players) >= maxPlayers {
		return "", entity.SessionSnapshot{}, apperror.ErrSessionFull
	}

	if that.password != "" && that.password != password {
		return "", entity.SessionSnapshot{}, apperror.ErrBadPassword
	}

	for _, player := range that.players {
		if strings.EqualFold(player.Name, name) {
			return "", entity.SessionSnapshot{}, fmt.Errorf("%w: %s", apperror.ErrDuplicateName, name)
		}
	}

	symbol := that.freeSymbol()
	that.players = append(that.players, entity.Player{Name: name, Symbol: symbol})
	that.touch()

	return symbol, that.snapshot(), nil
}

// RemovePlayer removes the named player. With one player left the match
// cannot continue: the board is reset, the session returns to waiting and
// the survivor becomes its creator. The chat survives. The caller learns
// how many players remain; at zero the session is due for destruction.
func (that *Session) RemovePlayer(name string) (entity.SessionSnapshot, int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.playerIndex(name)
	if idx < 0 {
		return entity.SessionSnapshot{}, len(that.players), fmt.Errorf("%w: %s", apperror.ErrUnknownSender, name)
	}

	that.players = append(that.players[:idx], that.players[idx+1:]...)

	if len(that.players) == 1 {
		that.creator = that.players[0].Name
		that.game = entity.NewGameState()
	}

	that.touch()

	return that.snapshot(), len(that.players), nil
}

// ApplyMove plays one cell for the named player and commits the outcome.
func (that *Session) ApplyMove(name string, row, col int) (entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.playerIndex(name)
	if idx < 0 {
		return entity.SessionSnapshot{}, fmt.Errorf("%w: %s", apperror.ErrUnknownSender, name)
	}

	if that.game.IsOver() {
		return entity.SessionSnapshot{}, apperror.ErrGameAlreadyOver
	}

	if len(that.players) < maxPlayers {
		return entity.SessionSnapshot{}, apperror.ErrNotEnoughPlayers
	}

	player := that.players[idx]
	if player.Symbol != that.game.CurrentPlayer {
		return entity.SessionSnapshot{}, apperror.ErrNotYourTurn
	}

	if err := tictactoe.ApplyMove(&that.game.Board, row, col, player.Symbol); err != nil {
		return entity.SessionSnapshot{}, err
	}

	winner, isDraw := tictactoe.Evaluate(that.game.Board)
	switch {
	case winner != "":
		that.game.Winner = winner
		that.game.GameOver = true
	case isDraw:
		that.game.IsDraw = true
		that.game.GameOver = true
	default:
		that.game.CurrentPlayer = tictactoe.ToggleSymbol(player.Symbol)
	}

	that.touch()

	return that.snapshot(), nil
}

// Restart begins a rematch: fresh board, X to move, chat preserved.
func (that *Session) Restart() (entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.players) != maxPlayers {
		return entity.SessionSnapshot{}, apperror.ErrNotEnoughPlayers
	}

	that.game = entity.NewGameState()
	that.touch()

	return that.snapshot(), nil
}

// AppendChat appends one message from the named player. Messages longer
// than 200 characters are truncated; the history keeps the most recent
// chatCap entries in append order.
func (that *Session) AppendChat(name, message string) (entity.ChatMessage, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	idx := that.playerIndex(name)
	if idx < 0 {
		return entity.ChatMessage{}, fmt.Errorf("%w: %s", apperror.ErrUnknownSender, name)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return entity.ChatMessage{}, apperror.ErrEmptyMessage
	}

	if runes := []rune(message); len(runes) > maxMessageLen {
		message = string(runes[:maxMessageLen])
	}

	that.chatSeq++
	chatMessage := entity.ChatMessage{
		ID:           that.chatSeq,
		PlayerName:   that.players[idx].Name,
		PlayerSymbol: that.players[idx].Symbol,
		Message:      message,
		Timestamp:    time.Now(),
	}

	that.chat = append(that.chat, chatMessage)
	if that.chatCap > 0 && len(that.chat) > that.chatCap {
		that.chat = that.chat[len(that.chat)-that.chatCap:]
	}

	that.touch()

	return chatMessage, nil
}

// Snapshot returns a full, self-consistent projection of the session.
func (that *Session) Snapshot() entity.SessionSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// Summary returns the lobby projection of the session.
func (that *Session) Summary() entity.SessionSummary {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.SessionSummary{
		ID:          that.id,
		Creator:     that.creator,
		HasPassword: that.password != "",
		PlayerCount: len(that.players),
		Status:      that.status(),
		CreatedAt:   that.createdAt,
	}
}

// HasPlayer reports whether name currently belongs to a session member.
func (that *Session) HasPlayer(name string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerIndex(name) >= 0
}

// IdleSince returns the time of the last accepted operation.
func (that *Session) IdleSince() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.lastActive
}

// Empty reports whether no players remain.
func (that *Session) Empty() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.players) == 0
}

// markClosed rejects any operation that raced the session's removal.
func (that *Session) markClosed() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
}

// EvictIfIdle closes the session and returns its final snapshot when it has
// been inactive past deadline, or when it holds no players at all. The idle
// check and the closing happen under one critical section so a concurrent
// AdmitPlayer either lands before the eviction or is rejected.
func (that *Session) EvictIfIdle(deadline time.Time) (entity.SessionSnapshot, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.lastActive.After(deadline) && len(that.players) > 0 {
		return entity.SessionSnapshot{}, false
	}

	that.closed = true

	return that.snapshot(), true
}

// snapshot must be called with the mutex held.
func (that *Session) snapshot() entity.SessionSnapshot {
	players := make([]entity.Player, len(that.players))
	for i, player := range that.players {
		player.IsTurn = !that.game.GameOver && player.Symbol == that.game.CurrentPlayer
		players[i] = player
	}

	chat := make([]entity.ChatMessage, len(that.chat))
	copy(chat, that.chat)

	return entity.SessionSnapshot{
		ID:           that.id,
		Creator:      that.creator,
		HasPassword:  that.password != "",
		Players:      players,
		GameState:    *that.game,
		ChatMessages: chat,
		CreatedAt:    that.createdAt,
		Status:       that.status(),
	}
}

// status must be called with the mutex held.
func (that *Session) status() string {
	switch {
	case len(that.players) < maxPlayers:
		return entity.StatusWaiting
	case that.game.GameOver:
		return entity.StatusFinished
	default:
		return entity.StatusPlaying
	}
}

// playerIndex must be called with the mutex held.
func (that *Session) playerIndex(name string) int {
	for i, player := range that.players {
		if player.Name == name {
			return i
		}
	}
	return -1
}

// freeSymbol must be called with the mutex held; symbols already assigned
// are never reassigned, so the joiner takes whichever mark is vacant.
func (that *Session) freeSymbol() string {
	for _, player := range that.players {
		if player.Symbol == entity.PlayerX {
			return entity.PlayerO
		}
	}
	return entity.PlayerX
}

// touch must be called with the mutex held.
func (that *Session) touch() {
	that.lastActive = time.Now()
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLen {
		return "", apperror.ErrInvalidName
	}

	return name, nil
}
