package models

// BatterFeatureRow aggregates one batter's events over the season window.
type BatterFeatureRow struct {
	BatterID        PlayerID `json:"batter_id"`
	BatterName      string   `json:"batter_name"`
	Events          int      `json:"events"`
	RecentHRRate    float64  `json:"recent_hr_rate"`
	BarrelRate      float64  `json:"barrel_rate"`
	HardHitRate     float64  `json:"hard_hit_rate"`
	AvgExitVelocity float64  `json:"avg_exit_velocity"`
	AvgLaunchAngle  float64  `json:"avg_launch_angle"`
}

// PitcherFeatureRow aggregates the events thrown by one pitcher.
type PitcherFeatureRow struct {
	PitcherID              PlayerID `json:"pitcher_id"`
	PitcherName            string   `json:"pitcher_name"`
	Events                 int      `json:"events"`
	HRRateAllowed          float64  `json:"hr_rate_allowed"`
	BarrelRateAllowed      float64  `json:"barrel_rate_allowed"`
	AvgExitVelocityAllowed float64  `json:"avg_exit_velocity_allowed"`
}
