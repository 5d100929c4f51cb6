package session

import (
	"strings"
	"testing"

	"github.com/johancv/tictactoe-backend/internal/apperror"
	"github.com/johancv/tictactoe-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayingSession(t *testing.T) *Session {
	t.Helper()

	sess := newSession("abc123", "Alice", "", defaultChatCap)
	_, _, err := sess.AdmitPlayer("Bob", "")
	require.NoError(t, err)

	return sess
}

func TestSession_AdmitPlayer(t *testing.T) {
	t.Run("SecondPlayerGetsOAndGameStarts", func(t *testing.T) {
		// Given: a session created by Alice
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		// When: Bob joins
		symbol, snapshot, err := sess.AdmitPlayer("Bob", "")

		// Then: Bob is O, the game starts, X to move
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, symbol)
		assert.Equal(t, entity.StatusPlaying, snapshot.Status)
		assert.Equal(t, entity.PlayerX, snapshot.GameState.CurrentPlayer)
		require.Len(t, snapshot.Players, 2)
	})

	t.Run("ThirdPlayerRejected", func(t *testing.T) {
		sess := newPlayingSession(t)

		_, _, err := sess.AdmitPlayer("Carol", "")

		require.ErrorIs(t, err, apperror.ErrSessionFull)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		// Given: a password-protected session
		sess := newSession("abc123", "Alice", "hunter2", defaultChatCap)

		// When: Bob joins with a wrong, then a missing password
		_, _, err := sess.AdmitPlayer("Bob", "wrong")
		require.ErrorIs(t, err, apperror.ErrBadPassword)

		_, _, err = sess.AdmitPlayer("Bob", "")
		require.ErrorIs(t, err, apperror.ErrBadPassword)

		// When: the password matches
		_, snapshot, err := sess.AdmitPlayer("Bob", "hunter2")

		// Then: Bob is admitted and the snapshot never carries the secret
		require.NoError(t, err)
		assert.True(t, snapshot.HasPassword)
	})

	t.Run("DuplicateNameIsCaseInsensitive", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, _, err := sess.AdmitPlayer("ALICE", "")

		require.ErrorIs(t, err, apperror.ErrDuplicateName)
	})

	t.Run("NameIsTrimmedAndBounded", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, _, err := sess.AdmitPlayer("   ", "")
		require.ErrorIs(t, err, apperror.ErrInvalidName)

		_, _, err = sess.AdmitPlayer(strings.Repeat("b", 21), "")
		require.ErrorIs(t, err, apperror.ErrInvalidName)

		symbol, _, err := sess.AdmitPlayer("  Bob  ", "")
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerO, symbol)
		assert.True(t, sess.HasPlayer("Bob"))
	})

	t.Run("SymbolsAreNeverReassigned", func(t *testing.T) {
		// Given: Alice (X) leaves a full session, Bob (O) stays
		sess := newPlayingSession(t)
		_, remaining, err := sess.RemovePlayer("Alice")
		require.NoError(t, err)
		require.Equal(t, 1, remaining)

		// When: Carol joins
		symbol, snapshot, err := sess.AdmitPlayer("Carol", "")

		// Then: Carol takes the vacant X; Bob keeps O; no symbol is doubled
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, symbol)
		assert.Equal(t, entity.PlayerO, snapshot.PlayerByName("Bob").Symbol)
	})
}

func TestSession_RemovePlayer(t *testing.T) {
	t.Run("SurvivorGetsFreshBoardAndWaits", func(t *testing.T) {
		// Given: an in-progress game with two moves on the board
		sess := newPlayingSession(t)
		_, err := sess.ApplyMove("Alice", 0, 0)
		require.NoError(t, err)
		_, err = sess.ApplyMove("Bob", 1, 1)
		require.NoError(t, err)

		// When: Alice departs
		snapshot, remaining, err := sess.RemovePlayer("Alice")

		// Then: board is reset, session waits, Bob is promoted to creator
		require.NoError(t, err)
		assert.Equal(t, 1, remaining)
		assert.Equal(t, entity.StatusWaiting, snapshot.Status)
		assert.Equal(t, entity.Board{}, snapshot.GameState.Board)
		assert.Equal(t, entity.PlayerX, snapshot.GameState.CurrentPlayer)
		assert.Equal(t, "Bob", snapshot.Creator)
	})

	t.Run("ChatSurvivesDeparture", func(t *testing.T) {
		sess := newPlayingSession(t)
		_, err := sess.AppendChat("Alice", "gg")
		require.NoError(t, err)

		snapshot, _, err := sess.RemovePlayer("Alice")

		require.NoError(t, err)
		require.Len(t, snapshot.ChatMessages, 1)
		assert.Equal(t, "gg", snapshot.ChatMessages[0].Message)
	})

	t.Run("LastPlayerLeavesSessionEmpty", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, remaining, err := sess.RemovePlayer("Alice")

		require.NoError(t, err)
		assert.Equal(t, 0, remaining)
		assert.True(t, sess.Empty())
	})

	t.Run("UnknownPlayerRejected", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, _, err := sess.RemovePlayer("Mallory")

		require.ErrorIs(t, err, apperror.ErrUnknownSender)
	})
}

func TestSession_ApplyMove(t *testing.T) {
	t.Run("TurnsAlternateStartingWithX", func(t *testing.T) {
		sess := newPlayingSession(t)

		// When: X and O alternate over four accepted moves
		moves := []struct {
			name     string
			row, col int
		}{
			{"Alice", 0, 0},
			{"Bob", 1, 1},
			{"Alice", 0, 1},
			{"Bob", 2, 2},
		}

		var snapshot entity.SessionSnapshot
		var err error
		for _, move := range moves {
			snapshot, err = sess.ApplyMove(move.name, move.row, move.col)
			require.NoError(t, err)
		}

		// Then: after an even number of moves it is X's turn again
		assert.Equal(t, entity.PlayerX, snapshot.GameState.CurrentPlayer)
		assert.True(t, snapshot.PlayerByName("Alice").IsTurn)
		assert.False(t, snapshot.PlayerByName("Bob").IsTurn)
	})

	t.Run("OutOfTurnRejected", func(t *testing.T) {
		sess := newPlayingSession(t)

		_, err := sess.ApplyMove("Bob", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("OccupiedCellRejectedOnce", func(t *testing.T) {
		// Given: Alice took (0,0)
		sess := newPlayingSession(t)
		_, err := sess.ApplyMove("Alice", 0, 0)
		require.NoError(t, err)

		// When: Bob replays the same cell
		_, err = sess.ApplyMove("Bob", 0, 0)
		require.ErrorIs(t, err, apperror.ErrIllegalMove)

		// Then: the rejection consumed nothing, Bob is still to move
		snapshot, err := sess.ApplyMove("Bob", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, snapshot.GameState.CurrentPlayer)
	})

	t.Run("SoloPlayerCannotMove", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, err := sess.ApplyMove("Alice", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
	})

	t.Run("WinFreezesTheGame", func(t *testing.T) {
		// Given: X completes the main diagonal on X,O,X / O,X,O / O,_,_
		sess := newPlayingSession(t)
		moves := []struct {
			name     string
			row, col int
		}{
			{"Alice", 0, 0},
			{"Bob", 0, 1},
			{"Alice", 0, 2},
			{"Bob", 1, 0},
			{"Alice", 1, 1},
			{"Bob", 1, 2},
			{"Alice", 2, 2},
		}

		var snapshot entity.SessionSnapshot
		var err error
		for _, move := range moves {
			snapshot, err = sess.ApplyMove(move.name, move.row, move.col)
			require.NoError(t, err)
		}

		// Then: X wins, the session is finished, the turn is frozen
		assert.True(t, snapshot.GameState.GameOver)
		assert.Equal(t, entity.PlayerX, snapshot.GameState.Winner)
		assert.False(t, snapshot.GameState.IsDraw)
		assert.Equal(t, entity.StatusFinished, snapshot.Status)
		assert.False(t, snapshot.PlayerByName("Alice").IsTurn)
		assert.False(t, snapshot.PlayerByName("Bob").IsTurn)

		// Then: any further move fails with the game-over error
		_, err = sess.ApplyMove("Bob", 2, 0)
		require.ErrorIs(t, err, apperror.ErrGameAlreadyOver)
		_, err = sess.ApplyMove("Alice", 2, 0)
		require.ErrorIs(t, err, apperror.ErrGameAlreadyOver)
	})

	t.Run("FullBoardWithoutLineIsDraw", func(t *testing.T) {
		// Given: a move order ending at X,O,X / X,O,O / O,X,X with no line
		sess := newPlayingSession(t)
		moves := []struct {
			name     string
			row, col int
		}{
			{"Alice", 0, 0},
			{"Bob", 0, 1},
			{"Alice", 0, 2},
			{"Bob", 1, 1},
			{"Alice", 1, 0},
			{"Bob", 1, 2},
			{"Alice", 2, 1},
			{"Bob", 2, 0},
			{"Alice", 2, 2},
		}

		var snapshot entity.SessionSnapshot
		var err error
		for _, move := range moves {
			snapshot, err = sess.ApplyMove(move.name, move.row, move.col)
			require.NoError(t, err)
		}

		// Then: a draw with no winner
		assert.True(t, snapshot.GameState.GameOver)
		assert.True(t, snapshot.GameState.IsDraw)
		assert.Empty(t, snapshot.GameState.Winner)
		assert.Equal(t, entity.StatusFinished, snapshot.Status)
	})

	t.Run("OutsiderRejected", func(t *testing.T) {
		sess := newPlayingSession(t)

		_, err := sess.ApplyMove("Mallory", 0, 0)

		require.ErrorIs(t, err, apperror.ErrUnknownSender)
	})
}

func TestSession_Restart(t *testing.T) {
	t.Run("ResetsBoardKeepsChat", func(t *testing.T) {
		// Given: a finished game and a chat message sent on the way
		sess := newPlayingSession(t)
		_, err := sess.AppendChat("Bob", "good luck")
		require.NoError(t, err)

		moves := []struct {
			name     string
			row, col int
		}{
			{"Alice", 0, 0},
			{"Bob", 1, 0},
			{"Alice", 0, 1},
			{"Bob", 1, 1},
			{"Alice", 0, 2},
		}
		for _, move := range moves {
			_, err = sess.ApplyMove(move.name, move.row, move.col)
			require.NoError(t, err)
		}
		require.Equal(t, entity.StatusFinished, sess.Snapshot().Status)

		// When: the game is restarted
		snapshot, err := sess.Restart()

		// Then: empty board, X to move, playing again, chat preserved
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, snapshot.GameState.Board)
		assert.Equal(t, entity.PlayerX, snapshot.GameState.CurrentPlayer)
		assert.Equal(t, entity.StatusPlaying, snapshot.Status)
		require.Len(t, snapshot.ChatMessages, 1)
		assert.Equal(t, "good luck", snapshot.ChatMessages[0].Message)
	})

	t.Run("NeedsTwoPlayers", func(t *testing.T) {
		sess := newSession("abc123", "Alice", "", defaultChatCap)

		_, err := sess.Restart()

		require.ErrorIs(t, err, apperror.ErrNotEnoughPlayers)
	})
}

func TestSession_AppendChat(t *testing.T) {
	t.Run("MessagesKeepAppendOrderAndMonotonicIDs", func(t *testing.T) {
		sess := newPlayingSession(t)

		first, err := sess.AppendChat("Alice", "hi")
		require.NoError(t, err)
		second, err := sess.AppendChat("Bob", "hello")
		require.NoError(t, err)

		assert.Less(t, first.ID, second.ID)
		assert.Equal(t, entity.PlayerX, first.PlayerSymbol)
		assert.Equal(t, entity.PlayerO, second.PlayerSymbol)

		snapshot := sess.Snapshot()
		require.Len(t, snapshot.ChatMessages, 2)
		assert.Equal(t, "hi", snapshot.ChatMessages[0].Message)
		assert.Equal(t, "hello", snapshot.ChatMessages[1].Message)
	})

	t.Run("EmptyMessageRejected", func(t *testing.T) {
		sess := newPlayingSession(t)

		_, err := sess.AppendChat("Alice", "   \t ")

		require.ErrorIs(t, err, apperror.ErrEmptyMessage)
	})

	t.Run("OutsiderRejected", func(t *testing.T) {
		sess := newPlayingSession(t)

		_, err := sess.AppendChat("Mallory", "hi")

		require.ErrorIs(t, err, apperror.ErrUnknownSender)
	})

	t.Run("LongMessageTruncated", func(t *testing.T) {
		sess := newPlayingSession(t)

		message, err := sess.AppendChat("Alice", strings.Repeat("a", 300))

		require.NoError(t, err)
		assert.Len(t, message.Message, maxMessageLen)
	})

	t.Run("HistoryKeepsMostRecent", func(t *testing.T) {
		// Given: a session retaining at most 3 messages
		sess := newSession("abc123", "Alice", "", 3)
		_, _, err := sess.AdmitPlayer("Bob", "")
		require.NoError(t, err)

		for _, text := range []string{"one", "two", "three", "four"} {
			_, err = sess.AppendChat("Alice", text)
			require.NoError(t, err)
		}

		// Then: the oldest message is dropped, order is preserved
		snapshot := sess.Snapshot()
		require.Len(t, snapshot.ChatMessages, 3)
		assert.Equal(t, "two", snapshot.ChatMessages[0].Message)
		assert.Equal(t, "four", snapshot.ChatMessages[2].Message)
	})
}
