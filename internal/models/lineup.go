package models

// Team sides within a game.
const (
	SideHome = "home"
	SideAway = "away"
)

// LineupEntry is one batter slot in one game, with the starting pitcher the
// batter faces. Pitcher fields always describe the opposing team's starter.
type LineupEntry struct {
	GameID               int64     `json:"game_id" validate:"gt=0"`
	Team                 string    `json:"team"`
	Side                 string    `json:"side" validate:"oneof=home away"`
	BattingOrder         *int      `json:"batting_order,omitempty" validate:"omitempty,gte=1"`
	BatterID             PlayerID  `json:"batter_id" validate:"gt=0"`
	BatterName           string    `json:"batter_name"`
	Position             string    `json:"position,omitempty"`
	ConfirmedPitcherID   *PlayerID `json:"confirmed_pitcher_id,omitempty"`
	ConfirmedPitcherName string    `json:"confirmed_pitcher_name,omitempty"`
	ProbablePitcherID    *PlayerID `json:"probable_pitcher_id,omitempty"`
	ProbablePitcherName  string    `json:"probable_pitcher_name,omitempty"`
	IsConfirmed          bool      `json:"is_confirmed"`
}

// ComputeConfirmed is true only when both starters are known and agree.
func (e *LineupEntry) ComputeConfirmed() bool {
	if e.ConfirmedPitcherID == nil || e.ProbablePitcherID == nil {
		return false
	}
	return *e.ConfirmedPitcherID == *e.ProbablePitcherID
}

// StartingPitcher returns the confirmed starter if known, else the probable
// one. ok is false when neither is known.
func (e *LineupEntry) StartingPitcher() (id PlayerID, name string, ok bool) {
	if e.ConfirmedPitcherID != nil {
		return *e.ConfirmedPitcherID, e.ConfirmedPitcherName, true
	}
	if e.ProbablePitcherID != nil {
		return *e.ProbablePitcherID, e.ProbablePitcherName, true
	}
	return 0, "", false
}
