package matchup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/hr-predictor/internal/models"
)

func pid(v int64) *models.PlayerID { p := models.PlayerID(v); return &p }
func order(v int) *int { return &v }

func lineupEntry(batter int64, confirmed, probable *models.PlayerID) models.LineupEntry {
	e := models.LineupEntry{
		GameID:              745001,
		Team:                "New York Yankees",
		Side:                models.SideAway,
		BattingOrder:        order(2),
		BatterID:            models.PlayerID(batter),
		BatterName:          "Lineup Name",
		ConfirmedPitcherID:  confirmed,
		ProbablePitcherID:   probable,
		ProbablePitcherName: "Probable Name",
	}
	if confirmed != nil {
		e.ConfirmedPitcherName = "Confirmed Name"
	}
	e.IsConfirmed = e.ComputeConfirmed()
	return e
}

func TestJoinerJoinsFeatures(t *testing.T) {
	entries := []models.LineupEntry{lineupEntry(1, pid(100), pid(100))}
	batters := map[models.PlayerID]models.BatterFeatureRow{
		1: {BatterID: 1, BatterName: "Historical Name", RecentHRRate: 0.1, BarrelRate: 0.2, HardHitRate: 0.5, AvgExitVelocity: 91, AvgLaunchAngle: 14},
	}
	pitchers := map[models.PlayerID]models.PitcherFeatureRow{
		100: {PitcherID: 100, PitcherName: "Historical Pitcher", HRRateAllowed: 0.04, BarrelRateAllowed: 0.07, AvgExitVelocityAllowed: 88},
	}

	rows, stats := NewJoiner().Join(entries, batters, pitchers)
	require.Len(t, rows, 1)
	assert.Equal(t, JoinStats{Rows: 1}, stats)

	row := rows[0]
	assert.Equal(t, "Lineup Name", row.BatterName, "display names come from the lineup")
	assert.Equal(t, "Confirmed Name", row.PitcherName)
	assert.Equal(t, "Probable Name", row.ProbablePitcherName)
	assert.True(t, row.IsConfirmed)
	assert.Equal(t, 0.1, row.RecentHRRate)
	assert.Equal(t, 0.2, row.BarrelRate)
	assert.Equal(t, 0.04, row.HRRateAllowed)
	assert.Equal(t, 0.07, row.BarrelRateAllowed)
	assert.Equal(t, 88.0, row.AvgExitVelocityAllowed)
	require.NotNil(t, row.PitcherID)
	assert.Equal(t, models.PlayerID(100), *row.PitcherID)
}

func TestJoinerFallsBackToProbablePitcher(t *testing.T) {
	entries := []models.LineupEntry{lineupEntry(1, nil, pid(200))}
	pitchers := map[models.PlayerID]models.PitcherFeatureRow{
		200: {PitcherID: 200, HRRateAllowed: 0.05},
	}

	rows, stats := NewJoiner().Join(entries, nil, pitchers)
	require.Len(t, rows, 1)
	assert.Equal(t, "Probable Name", rows[0].PitcherName)
	assert.Equal(t, 0.05, rows[0].HRRateAllowed)
	assert.False(t, rows[0].IsConfirmed)
	assert.Equal(t, 1, stats.BatterMisses)
}

func TestJoinerConfirmedPitcherOverridesProbable(t *testing.T) {
	entries := []models.LineupEntry{lineupEntry(1, pid(300), pid(200))}
	pitchers := map[models.PlayerID]models.PitcherFeatureRow{
		200: {PitcherID: 200, HRRateAllowed: 0.05},
		300: {PitcherID: 300, HRRateAllowed: 0.09},
	}

	rows, _ := NewJoiner().Join(entries, nil, pitchers)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.09, rows[0].HRRateAllowed)
	assert.False(t, rows[0].IsConfirmed)
}

func TestJoinerRetainsRowsOnMisses(t *testing.T) {
	entries := []models.LineupEntry{
		lineupEntry(1, pid(100), pid(100)),
		lineupEntry(2, nil, nil),
		lineupEntry(3, pid(999), pid(999)),
	}

	rows, stats := NewJoiner().Join(entries, map[models.PlayerID]models.BatterFeatureRow{}, map[models.PlayerID]models.PitcherFeatureRow{})
	require.Len(t, rows, 3)
	assert.Equal(t, JoinStats{Rows: 3, BatterMisses: 3, PitcherMisses: 2, PitcherUnknown: 1}, stats)

	for i, row := range rows {
		assert.Equal(t, entries[i].BatterID, row.BatterID, "lineup order preserved")
		assert.Zero(t, row.RecentHRRate)
		assert.Zero(t, row.BarrelRate)
		assert.Zero(t, row.HardHitRate)
		assert.Zero(t, row.AvgExitVelocity)
		assert.Zero(t, row.HRRateAllowed)
	}
	assert.Nil(t, rows[1].PitcherID)
	assert.Empty(t, rows[1].PitcherName)
}

func TestJoinerEmptyLineup(t *testing.T) {
	rows, stats := NewJoiner().Join(nil, nil, nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 0, stats.Rows)
}

func TestJoinerDoesNotAliasLineupPointers(t *testing.T) {
	entries := []models.LineupEntry{lineupEntry(1, pid(100), pid(100))}
	rows, _ := NewJoiner().Join(entries, nil, nil)

	*entries[0].BattingOrder = 9
	*entries[0].ProbablePitcherID = 1
	assert.Equal(t, 2, *rows[0].BattingOrder)
	assert.Equal(t, models.PlayerID(100), *rows[0].ProbablePitcherID)
}

func TestScorerFormula(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	tests := []struct {
		name string
		row  models.MatchupRow
		want float64
	}{
		{"perfect batter vs unknown pitcher", models.MatchupRow{RecentHRRate: 1, BarrelRate: 1}, 100},
		{"no signal", models.MatchupRow{}, 45},
		{"typical", models.MatchupRow{RecentHRRate: 0.06, HRRateAllowed: 0.03, BarrelRate: 0.12}, 100 * (0.45*0.06 + 0.45*0.97 + 0.10*0.12)},
		{"pitcher allowing every ball", models.MatchupRow{HRRateAllowed: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.Score(&tt.row), 1e-9)
		})
	}
}

func TestScorerDoesNotClamp(t *testing.T) {
	scorer := NewScorer(DefaultWeights())
	row := models.MatchupRow{RecentHRRate: 1.2, BarrelRate: 1.1}
	assert.Greater(t, scorer.Score(&row), 100.0)
}

func TestScoreAll(t *testing.T) {
	rows := []models.MatchupRow{{RecentHRRate: 1, BarrelRate: 1}, {}}
	NewScorer(DefaultWeights()).ScoreAll(rows)
	assert.InDelta(t, 100, rows[0].CompositeScore, 1e-9)
	assert.InDelta(t, 45, rows[1].CompositeScore, 1e-9)
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{BatterPower: 0.5, PitcherVulnerability: 0.5, Barrel: 0.5}.Validate())
	assert.Error(t, Weights{BatterPower: 1.2, PitcherVulnerability: -0.2}.Validate())
	assert.NoError(t, Weights{BatterPower: 0.5, PitcherVulnerability: 0.3, Barrel: 0.2}.Validate())
}

func scored(ids []int64, scores []float64) []models.MatchupRow {
	rows := make([]models.MatchupRow, len(ids))
	for i := range ids {
		rows[i] = models.MatchupRow{BatterID: models.PlayerID(ids[i]), CompositeScore: scores[i]}
	}
	return rows
}

func batterIDs(rows []models.MatchupRow) []models.PlayerID {
	ids := make([]models.PlayerID, len(rows))
	for i, r := range rows {
		ids[i] = r.BatterID
	}
	return ids
}

func TestRankerSortsDescendingAndStable(t *testing.T) {
	rows := scored([]int64{1, 2, 3, 4, 5, 6}, []float64{50, 70, 50, 90, 70, 50})

	ranked := NewRanker().Rank(rows, 10)
	assert.Equal(t, []models.PlayerID{4, 2, 5, 1, 3, 6}, batterIDs(ranked))

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].CompositeScore, ranked[i].CompositeScore)
	}
}

func TestRankerTruncates(t *testing.T) {
	rows := scored([]int64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	ranker := NewRanker()

	for _, topN := range []int{1, 3, 4, 5, 100} {
		ranked := ranker.Rank(rows, topN)
		want := topN
		if want > len(rows) {
			want = len(rows)
		}
		assert.Len(t, ranked, want, "top_n=%d", topN)
	}
}

func TestRankerNonPositiveTopN(t *testing.T) {
	rows := scored([]int64{1, 2}, []float64{10, 20})
	for _, topN := range []int{0, -1, -50} {
		ranked := NewRanker().Rank(rows, topN)
		assert.NotNil(t, ranked)
		assert.Empty(t, ranked)
	}
}

func TestRankerLeavesInputUntouched(t *testing.T) {
	rows := scored([]int64{1, 2, 3}, []float64{10, 30, 20})
	_ = NewRanker().Rank(rows, 2)
	assert.Equal(t, []models.PlayerID{1, 2, 3}, batterIDs(rows))
}
