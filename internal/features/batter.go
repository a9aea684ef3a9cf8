package features

import (
	"github.com/yourusername/hr-predictor/internal/models"
)

// Batter feature names.
const (
	FeatureRecentHRRate    = "recent_hr_rate"
	FeatureBarrelRate      = "barrel_rate"
	FeatureHardHitRate     = "hard_hit_rate"
	FeatureAvgExitVelocity = "avg_exit_velocity"
	FeatureAvgLaunchAngle  = "avg_launch_angle"
)

var batterRequirements = []Requirement{
	{Feature: FeatureRecentHRRate, AnyOf: [][]string{{models.ColumnEvents}}},
	{Feature: FeatureBarrelRate, AnyOf: barrelColumns},
	{Feature: FeatureHardHitRate, AnyOf: [][]string{{models.ColumnLaunchSpeed}}},
	{Feature: FeatureAvgExitVelocity, AnyOf: [][]string{{models.ColumnLaunchSpeed}}},
	{Feature: FeatureAvgLaunchAngle, AnyOf: [][]string{{models.ColumnLaunchAngle}}},
}

// BatterComputer aggregates events into one BatterFeatureRow per batter.
type BatterComputer struct{}

// NewBatterComputer creates a batter feature computer.
func NewBatterComputer() *BatterComputer {
	return &BatterComputer{}
}

// Requirements returns the declared inputs of every batter feature.
func (c *BatterComputer) Requirements() []Requirement {
	return batterRequirements
}

// Compute returns one row per distinct batter id, in order of first
// appearance. A feed without a batter column yields no rows.
func (c *BatterComputer) Compute(set *models.EventSet) ([]models.BatterFeatureRow, []Degradation) {
	if set.Len() == 0 {
		return []models.BatterFeatureRow{}, nil
	}
	if ok, _ := (Requirement{AnyOf: [][]string{{models.ColumnBatter}}}).satisfied(set); !ok {
		return []models.BatterFeatureRow{}, []Degradation{{Kind: KindBatter, Feature: "batter_id", Column: models.ColumnBatter}}
	}

	available, degraded := resolve(KindBatter, set, batterRequirements)
	order, groups := group(set.Records, func(r *models.EventRecord) (models.PlayerID, string) {
		return r.BatterID, r.BatterName
	})

	rows := make([]models.BatterFeatureRow, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		rows = append(rows, models.BatterFeatureRow{
			BatterID:        id,
			BatterName:      acc.name,
			Events:          acc.events,
			RecentHRRate:    pick(available, batterRequirements, FeatureRecentHRRate, ratio(acc.homeRuns, acc.events)),
			BarrelRate:      pick(available, batterRequirements, FeatureBarrelRate, ratio(acc.barrels, acc.events)),
			HardHitRate:     pick(available, batterRequirements, FeatureHardHitRate, ratio(acc.hardHits, acc.evCount)),
			AvgExitVelocity: pick(available, batterRequirements, FeatureAvgExitVelocity, mean(acc.evSum, acc.evCount)),
			AvgLaunchAngle:  pick(available, batterRequirements, FeatureAvgLaunchAngle, mean(acc.laSum, acc.laCount)),
		})
	}
	return rows, degraded
}

// IndexBatters maps batter id to its row.
func IndexBatters(rows []models.BatterFeatureRow) map[models.PlayerID]models.BatterFeatureRow {
	idx := make(map[models.PlayerID]models.BatterFeatureRow, len(rows))
	for _, r := range rows {
		idx[r.BatterID] = r
	}
	return idx
}
