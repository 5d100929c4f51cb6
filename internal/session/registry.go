package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/johancv/tictactoe-backend/internal/apperror"
	"github.com/johancv/tictactoe-backend/internal/entity"
)

const sessionIDLen = 8

// EvictHandler is notified when the idle sweep destroys a session, with
// the last snapshot taken before destruction.
type EvictHandler func(snapshot entity.SessionSnapshot)

// Registry is the process-wide directory of live sessions. Its own lock
// only guards the map; game logic always runs under the session's mutex.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	chatCap int
	onEvict EvictHandler
}

func NewRegistry(logger *slog.Logger, chatCap int) *Registry {
	if chatCap == 0 {
		chatCap = defaultChatCap
	}

	return &Registry{
		logger:   logger.With("component", "registry"),
		sessions: make(map[string]*Session),
		chatCap:  chatCap,
	}
}

// OnEvict registers the handler called for sessions destroyed by the
// idle sweep. Must be set before StartSweeper.
func (that *Registry) OnEvict(handler EvictHandler) {
	that.onEvict = handler
}

// Create makes a new session and admits the creator as its first player
// (always X on a fresh board).
func (that *Registry) Create(creatorName, password string) (*Session, error) {
	creatorName, err := validateName(creatorName)
	if err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.newSessionID()
	sess := newSession(id, creatorName, password, that.chatCap)
	that.sessions[id] = sess

	that.logger.Info("session created", "sessionID", id, "creator", creatorName)

	return sess, nil
}

// Join admits a player into an existing session and returns the session,
// the assigned symbol and the snapshot taken under the admit.
func (that *Registry) Join(sessionID, name, password string) (*Session, string, entity.SessionSnapshot, error) {
	sess, err := that.Get(sessionID)
	if err != nil {
		return nil, "", entity.SessionSnapshot{}, err
	}

	symbol, snapshot, err := sess.AdmitPlayer(name, password)
	if err != nil {
		return nil, "", entity.SessionSnapshot{}, fmt.Errorf("failed to join session %s: %w", sessionID, err)
	}

	return sess, symbol, snapshot, nil
}

// Get looks up a live session by id.
func (that *Registry) Get(sessionID string) (*Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return sess, nil
}

// Leave removes the named player from a session; an emptied session is
// destroyed. The returned count is the number of remaining players.
func (that *Registry) Leave(sessionID, name string) (entity.SessionSnapshot, int, error) {
	sess, err := that.Get(sessionID)
	if err != nil {
		return entity.SessionSnapshot{}, 0, err
	}

	snapshot, remaining, err := sess.RemovePlayer(name)
	if err != nil {
		return entity.SessionSnapshot{}, remaining, err
	}

	if remaining == 0 {
		sess.markClosed()
		that.Remove(sessionID)
	}

	return snapshot, remaining, nil
}

// Remove discards a session from the directory.
func (that *Registry) Remove(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[sessionID]; !ok {
		return
	}

	delete(that.sessions, sessionID)
	that.logger.Info("session removed", "sessionID", sessionID)
}

// List returns lobby summaries of joinable sessions, newest first.
// Finished sessions are invisible to the lobby.
func (that *Registry) List() []entity.SessionSummary {
	that.mu.RLock()
	sessions := make([]*Session, 0, len(that.sessions))
	for _, sess := range that.sessions {
		sessions = append(sessions, sess)
	}
	that.mu.RUnlock()

	summaries := make([]entity.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summary := sess.Summary()
		if summary.Status == entity.StatusFinished {
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	return summaries
}

// Count reports the number of live sessions.
func (that *Registry) Count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

// StartSweeper evicts sessions idle longer than idleTTL, checking every
// interval. It blocks until ctx is done; run it on its own goroutine.
func (that *Registry) StartSweeper(ctx context.Context, interval, idleTTL time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.sweep(idleTTL)
		}
	}
}

func (that *Registry) sweep(idleTTL time.Duration) {
	deadline := time.Now().Add(-idleTTL)

	that.mu.RLock()
	candidates := make([]*Session, 0, len(that.sessions))
	for _, sess := range that.sessions {
		candidates = append(candidates, sess)
	}
	that.mu.RUnlock()

	for _, sess := range candidates {
		// EvictIfIdle holds the session mutex across the idle check and the
		// close, so an admit racing the sweep either lands first or fails.
		snapshot, evicted := sess.EvictIfIdle(deadline)
		if !evicted {
			continue
		}

		that.Remove(sess.ID())
		that.logger.Info("session evicted", "sessionID", sess.ID())

		if that.onEvict != nil {
			that.onEvict(snapshot)
		}
	}
}

// newSessionID must be called with the registry lock held. IDs are short
// shareable codes; a collision with a live session regenerates.
func (that *Registry) newSessionID() string {
	for {
		id := uuid.NewString()[:sessionIDLen]
		if _, ok := that.sessions[id]; !ok {
			return id
		}
	}
}
