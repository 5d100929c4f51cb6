package entity

import "time"

// SessionSnapshot is the full projection of a session sent in event
// payloads. It never carries the password value, only HasPassword.
type SessionSnapshot struct {
	ID           string        `json:"id"`
	Creator      string        `json:"creator"`
	HasPassword  bool          `json:"has_password"`
	Players      []Player      `json:"players"`
	GameState    GameState     `json:"game_state"`
	ChatMessages []ChatMessage `json:"chat_messages"`
	CreatedAt    time.Time     `json:"created_at"`
	Status       string        `json:"status"`
}

// PlayerByName returns the snapshot entry for name, or nil.
func (that *SessionSnapshot) PlayerByName(name string) *Player {
	for i := range that.Players {
		if that.Players[i].Name == name {
			return &that.Players[i]
		}
	}
	return nil
}

// PlayerBySymbol returns the snapshot entry holding symbol, or nil.
func (that *SessionSnapshot) PlayerBySymbol(symbol string) *Player {
	for i := range that.Players {
		if that.Players[i].Symbol == symbol {
			return &that.Players[i]
		}
	}
	return nil
}

// SessionSummary is the lobby projection of a session.
type SessionSummary struct {
	ID          string    `json:"id"`
	Creator     string    `json:"creator"`
	HasPassword bool      `json:"has_password"`
	PlayerCount int       `json:"player_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
