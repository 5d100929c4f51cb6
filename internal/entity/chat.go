package entity

import "time"

// ChatMessage is immutable once appended. IDs increase monotonically
// within a session, so append order is also ID order.
type ChatMessage struct {
	ID           int64     `json:"id"`
	PlayerName   string    `json:"player_name"`
	PlayerSymbol string    `json:"player_symbol"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}
