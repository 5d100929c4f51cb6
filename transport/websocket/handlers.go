package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johancv/tictactoe-backend/internal/entity"
)

func (that *Server) handleCreateSession(_ context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleCreateSession")

	var payload CreateSessionPayload
	if err := unmarshalPayload(msg, &payload); err != nil {
		return that.sendError(client, "invalid payload")
	}

	if _, _, ok := client.session(); ok {
		return that.sendError(client, "already in a session")
	}

	sess, err := that.registry.Create(payload.PlayerName, payload.Password)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return that.sendError(client, err.Error())
	}

	snapshot := sess.Snapshot()

	that.joinRoom(sess.ID(), client)
	client.setSession(sess.ID(), snapshot.Creator)

	that.sendTo(client, actionSessionCreated, SessionCreatedPayload{
		SessionID: sess.ID(),
		Session:   snapshot,
	})

	log.Info("session created", "sessionID", sess.ID(), "creator", snapshot.Creator)

	that.broadcastSessionsList()

	return nil
}

func (that *Server) handleJoinSession(_ context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleJoinSession")

	var payload JoinSessionPayload
	if err := unmarshalPayload(msg, &payload); err != nil {
		return that.sendError(client, "invalid payload")
	}

	if _, _, ok := client.session(); ok {
		return that.sendError(client, "already in a session")
	}

	sess, symbol, snapshot, err := that.registry.Join(payload.SessionID, payload.PlayerName, payload.Password)
	if err != nil {
		log.Error("failed to join session", "sessionID", payload.SessionID, "error", err)
		return that.sendError(client, err.Error())
	}

	joined := snapshot.PlayerBySymbol(symbol)

	// The existing member hears about the newcomer before the joiner is
	// in the room, so nobody receives both events.
	that.broadcastToRoom(sess.ID(), actionPlayerJoined, PlayerJoinedPayload{
		Session:   snapshot,
		NewPlayer: joined.Name,
	})

	that.joinRoom(sess.ID(), client)
	client.setSession(sess.ID(), joined.Name)

	that.sendTo(client, actionSessionJoined, SessionJoinedPayload{
		SessionID: sess.ID(),
		Session:   snapshot,
	})

	log.Info("player joined session", "sessionID", sess.ID(), "playerName", joined.Name)

	that.broadcastSessionsList()

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, client *Client, msg *Message) error {
	log := that.logger.With("method", "handleMakeMove")

	sessionID, playerName, ok := client.session()
	if !ok {
		return that.sendError(client, "not in a game session")
	}

	var payload MakeMovePayload
	if err := unmarshalPayload(msg, &payload); err != nil {
		return that.sendError(client, "invalid payload")
	}

	if payload.Row == nil || payload.Col == nil {
		return that.sendError(client, "row and col are required")
	}

	sess, err := that.registry.Get(sessionID)
	if err != nil {
		return that.sendError(client, err.Error())
	}

	snapshot, err := sess.ApplyMove(playerName, *payload.Row, *payload.Col)
	if err != nil {
		return that.sendError(client, err.Error())
	}

	mover := snapshot.PlayerByName(playerName)

	that.broadcastToRoom(sessionID, actionMoveMade, MoveMadePayload{
		Session: snapshot,
		Move: MoveInfo{
			Row:    *payload.Row,
			Col:    *payload.Col,
			Player: mover.Name,
			Symbol: mover.Symbol,
		},
		GameState: snapshot.GameState,
	})

	if snapshot.GameState.GameOver {
		result := "draw"
		if !snapshot.GameState.IsDraw {
			result = fmt.Sprintf("%s wins!", mover.Name)
		}

		that.broadcastToRoom(sessionID, actionGameOver, GameOverPayload{
			Result: result,
			Winner: snapshot.GameState.Winner,
			IsDraw: snapshot.GameState.IsDraw,
		})

		that.archiveResult(ctx, snapshot)

		log.Info("game over", "sessionID", sessionID, "winner", snapshot.GameState.Winner, "isDraw", snapshot.GameState.IsDraw)

		// A finished session is no longer joinable.
		that.broadcastSessionsList()
	}

	return nil
}

func (that *Server) handleRestartGame(_ context.Context, client *Client, _ *Message) error {
	log := that.logger.With("method", "handleRestartGame")

	sessionID, _, ok := client.session()
	if !ok {
		return that.sendError(client, "not in a game session")
	}

	sess, err := that.registry.Get(sessionID)
	if err != nil {
		return that.sendError(client, err.Error())
	}

	snapshot, err := sess.Restart()
	if err != nil {
		return that.sendError(client, err.Error())
	}

	that.broadcastToRoom(sessionID, actionGameRestarted, GameRestartedPayload{
		Session:   snapshot,
		GameState: snapshot.GameState,
	})

	log.Info("game restarted", "sessionID", sessionID)

	that.broadcastSessionsList()

	return nil
}

func (that *Server) handleSendChatMessage(_ context.Context, client *Client, msg *Message) error {
	sessionID, playerName, ok := client.session()
	if !ok {
		return that.sendError(client, "not in a game session")
	}

	var payload ChatPayload
	if err := unmarshalPayload(msg, &payload); err != nil {
		return that.sendError(client, "invalid payload")
	}

	sess, err := that.registry.Get(sessionID)
	if err != nil {
		return that.sendError(client, err.Error())
	}

	chatMessage, err := sess.AppendChat(playerName, payload.Message)
	if err != nil {
		return that.sendError(client, err.Error())
	}

	that.broadcastToRoom(sessionID, actionChatMessageReceived, ChatMessageReceivedPayload{
		Message: chatMessage,
	})

	return nil
}

func (that *Server) handleGetSessions(_ context.Context, client *Client, _ *Message) error {
	that.sendTo(client, actionSessionsList, SessionsListPayload{
		Sessions: that.registry.List(),
	})

	return nil
}

func (that *Server) handleLeaveSession(_ context.Context, client *Client, _ *Message) error {
	that.leaveCurrentSession(client)

	return nil
}

// archiveResult records a finished game; the archive is best-effort and
// never fails the move that ended the game.
func (that *Server) archiveResult(ctx context.Context, snapshot entity.SessionSnapshot) {
	result := &entity.GameResult{
		SessionID:  snapshot.ID,
		Winner:     snapshot.GameState.Winner,
		IsDraw:     snapshot.GameState.IsDraw,
		FinishedAt: time.Now(),
	}

	if player := snapshot.PlayerBySymbol(entity.PlayerX); player != nil {
		result.PlayerX = player.Name
	}
	if player := snapshot.PlayerBySymbol(entity.PlayerO); player != nil {
		result.PlayerO = player.Name
	}
	if winner := snapshot.PlayerBySymbol(snapshot.GameState.Winner); result.Winner != "" && winner != nil {
		result.WinnerName = winner.Name
	}

	if err := that.results.Save(ctx, result); err != nil {
		that.logger.Error("failed to archive game result", "sessionID", snapshot.ID, "error", err)
	}
}

func unmarshalPayload(msg *Message, target any) error {
	if len(msg.Payload) == 0 {
		return nil
	}

	return json.Unmarshal(msg.Payload, target)
}
