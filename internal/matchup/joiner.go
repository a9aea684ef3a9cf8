// Package matchup joins lineups to feature tables, scores each matchup and
// ranks the result.
package matchup

import (
	"github.com/yourusername/hr-predictor/internal/models"
)

// JoinStats counts the identity misses of one Join call. Misses are not
// errors; the affected features default to zero.
type JoinStats struct {
	Rows           int
	BatterMisses   int
	PitcherMisses  int
	PitcherUnknown int
}

// Joiner builds the unranked matchup table for a date.
type Joiner struct{}

// NewJoiner creates a joiner.
func NewJoiner() *Joiner {
	return &Joiner{}
}

// Join produces exactly one MatchupRow per lineup entry, in lineup order.
// Batters join on batter id; pitchers join on the entry's starting pitcher
// (confirmed if known, else probable). A miss on either side leaves that
// side's features at zero and keeps the row. Display names always come from
// the lineup.
func (j *Joiner) Join(
	entries []models.LineupEntry,
	batters map[models.PlayerID]models.BatterFeatureRow,
	pitchers map[models.PlayerID]models.PitcherFeatureRow,
) ([]models.MatchupRow, JoinStats) {
	rows := make([]models.MatchupRow, 0, len(entries))
	stats := JoinStats{}

	for i := range entries {
		entry := &entries[i]
		row := models.MatchupRow{
			GameID:              entry.GameID,
			Team:                entry.Team,
			Side:                entry.Side,
			BattingOrder:        copyInt(entry.BattingOrder),
			Position:            entry.Position,
			BatterID:            entry.BatterID,
			BatterName:          entry.BatterName,
			ProbablePitcherID:   copyID(entry.ProbablePitcherID),
			ProbablePitcherName: entry.ProbablePitcherName,
			IsConfirmed:         entry.IsConfirmed,
		}

		if b, ok := batters[entry.BatterID]; ok {
			row.RecentHRRate = b.RecentHRRate
			row.BarrelRate = b.BarrelRate
			row.HardHitRate = b.HardHitRate
			row.AvgExitVelocity = b.AvgExitVelocity
			row.AvgLaunchAngle = b.AvgLaunchAngle
		} else {
			stats.BatterMisses++
		}

		if id, name, ok := entry.StartingPitcher(); ok {
			pitcherID := id
			row.PitcherID = &pitcherID
			row.PitcherName = name
			if p, found := pitchers[id]; found {
				row.HRRateAllowed = p.HRRateAllowed
				row.BarrelRateAllowed = p.BarrelRateAllowed
				row.AvgExitVelocityAllowed = p.AvgExitVelocityAllowed
			} else {
				stats.PitcherMisses++
			}
		} else {
			stats.PitcherUnknown++
		}

		rows = append(rows, row)
	}

	stats.Rows = len(rows)
	return rows, stats
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyID(v *models.PlayerID) *models.PlayerID {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
