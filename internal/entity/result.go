package entity

import "time"

// GameResult is the archived record of a finished match.
type GameResult struct {
	SessionID  string    `json:"session_id"`
	Winner     string    `json:"winner,omitempty"`
	WinnerName string    `json:"winner_name,omitempty"`
	IsDraw     bool      `json:"is_draw"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	FinishedAt time.Time `json:"finished_at"`
}
