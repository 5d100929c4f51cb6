package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 64
	writeTimeout   = 5 * time.Second
)

// Client is one gateway connection. Its lifecycle is the spec's connection
// state machine: unidentified -> in-session -> unidentified. All writes go
// through the send channel and a single writer goroutine, so concurrent
// broadcasts never interleave frames.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once

	mu         sync.Mutex
	sessionID  string
	playerName string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// writePump drains the send channel onto the wire. It owns all writes.
func (that *Client) writePump() {
	defer func() {
		_ = that.conn.Close()
	}()

	for {
		select {
		case data := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-that.done:
			return
		}
	}
}

// enqueue hands a frame to the writer without blocking; a client that
// stopped reading loses frames rather than stalling a session operation.
func (that *Client) enqueue(data []byte) {
	select {
	case that.send <- data:
	case <-that.done:
	default:
	}
}

func (that *Client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

func (that *Client) setSession(sessionID, playerName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessionID = sessionID
	that.playerName = playerName
}

func (that *Client) clearSession() {
	that.setSession("", "")
}

// session returns the in-session association, if any.
func (that *Client) session() (sessionID, playerName string, ok bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.sessionID, that.playerName, that.sessionID != ""
}
