package features

import (
	"github.com/yourusername/hr-predictor/internal/models"
)

// Pitcher feature names.
const (
	FeatureHRRateAllowed          = "hr_rate_allowed"
	FeatureBarrelRateAllowed      = "barrel_rate_allowed"
	FeatureAvgExitVelocityAllowed = "avg_exit_velocity_allowed"
)

var pitcherRequirements = []Requirement{
	{Feature: FeatureHRRateAllowed, AnyOf: [][]string{{models.ColumnEvents}}},
	{Feature: FeatureBarrelRateAllowed, AnyOf: barrelColumns},
	{Feature: FeatureAvgExitVelocityAllowed, AnyOf: [][]string{{models.ColumnLaunchSpeed}}},
}

// PitcherComputer aggregates events into one PitcherFeatureRow per pitcher,
// treating each event as contact allowed by that pitcher.
type PitcherComputer struct{}

// NewPitcherComputer creates a pitcher feature computer.
func NewPitcherComputer() *PitcherComputer {
	return &PitcherComputer{}
}

// Requirements returns the declared inputs of every pitcher feature.
func (c *PitcherComputer) Requirements() []Requirement {
	return pitcherRequirements
}

// Compute returns one row per distinct pitcher id, in order of first
// appearance.
func (c *PitcherComputer) Compute(set *models.EventSet) ([]models.PitcherFeatureRow, []Degradation) {
	if set.Len() == 0 {
		return []models.PitcherFeatureRow{}, nil
	}
	if ok, _ := (Requirement{AnyOf: [][]string{{models.ColumnPitcher}}}).satisfied(set); !ok {
		return []models.PitcherFeatureRow{}, []Degradation{{Kind: KindPitcher, Feature: "pitcher_id", Column: models.ColumnPitcher}}
	}

	available, degraded := resolve(KindPitcher, set, pitcherRequirements)
	order, groups := group(set.Records, func(r *models.EventRecord) (models.PlayerID, string) {
		return r.PitcherID, r.PitcherName
	})

	rows := make([]models.PitcherFeatureRow, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		rows = append(rows, models.PitcherFeatureRow{
			PitcherID:              id,
			PitcherName:            acc.name,
			Events:                 acc.events,
			HRRateAllowed:          pick(available, pitcherRequirements, FeatureHRRateAllowed, ratio(acc.homeRuns, acc.events)),
			BarrelRateAllowed:      pick(available, pitcherRequirements, FeatureBarrelRateAllowed, ratio(acc.barrels, acc.events)),
			AvgExitVelocityAllowed: pick(available, pitcherRequirements, FeatureAvgExitVelocityAllowed, mean(acc.evSum, acc.evCount)),
		})
	}
	return rows, degraded
}

// IndexPitchers maps pitcher id to its row.
func IndexPitchers(rows []models.PitcherFeatureRow) map[models.PlayerID]models.PitcherFeatureRow {
	idx := make(map[models.PlayerID]models.PitcherFeatureRow, len(rows))
	for _, r := range rows {
		idx[r.PitcherID] = r
	}
	return idx
}
