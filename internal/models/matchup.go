package models

import (
	"time"
)

// MatchupRow joins a lineup slot with its batter's and the opposing starter's
// features. Rows are built per request and never mutated afterwards.
type MatchupRow struct {
	GameID              int64     `json:"game_id"`
	Team                string    `json:"team"`
	Side                string    `json:"side"`
	BattingOrder        *int      `json:"batting_order,omitempty"`
	Position            string    `json:"position,omitempty"`
	BatterID            PlayerID  `json:"batter_id"`
	BatterName          string    `json:"batter"`
	PitcherID           *PlayerID `json:"pitcher_id,omitempty"`
	PitcherName         string    `json:"pitcher"`
	ProbablePitcherID   *PlayerID `json:"probable_pitcher_id,omitempty"`
	ProbablePitcherName string    `json:"probable_pitcher"`
	IsConfirmed         bool      `json:"is_confirmed"`

	RecentHRRate    float64 `json:"recent_hr_rate"`
	BarrelRate      float64 `json:"barrel_rate"`
	HardHitRate     float64 `json:"hard_hit_rate"`
	AvgExitVelocity float64 `json:"avg_exit_velocity"`
	AvgLaunchAngle  float64 `json:"avg_launch_angle"`

	HRRateAllowed          float64 `json:"hr_rate_allowed"`
	BarrelRateAllowed      float64 `json:"barrel_rate_allowed"`
	AvgExitVelocityAllowed float64 `json:"avg_exit_velocity_allowed"`

	CompositeScore float64 `json:"composite_score"`
}

// MatchupTable is the ranked output for one date. Warnings describe upstream
// degradations; an empty Rows slice is a valid outcome.
type MatchupTable struct {
	Date     time.Time    `json:"date"`
	TopN     int          `json:"top_n"`
	Rows     []MatchupRow `json:"rows"`
	Warnings []string     `json:"warnings,omitempty"`
}

// IsEmpty reports whether the table has no rows.
func (t *MatchupTable) IsEmpty() bool {
	return t == nil || len(t.Rows) == 0
}
