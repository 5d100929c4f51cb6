package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const BoardSize = 3

// Board is the 3x3 grid. The zero value is an empty board.
type Board [BoardSize][BoardSize]string

// GameState holds everything about one match in progress.
// CurrentPlayer is frozen once GameOver is set.
type GameState struct {
	Board         Board  `json:"board"`
	CurrentPlayer string `json:"current_player"`
	GameOver      bool   `json:"game_over"`
	Winner        string `json:"winner,omitempty"`
	IsDraw        bool   `json:"is_draw"`
}

// NewGameState returns a fresh game: empty board, X to move.
func NewGameState() *GameState {
	return &GameState{CurrentPlayer: PlayerX}
}

func (that *GameState) IsOver() bool {
	return that.GameOver
}
