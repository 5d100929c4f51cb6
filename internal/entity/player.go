package entity

// Player is a session member. IsTurn is a derived field computed when a
// snapshot is taken; observers must not re-derive it from the game state.
type Player struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	IsTurn bool   `json:"is_turn"`
}
