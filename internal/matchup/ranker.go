package matchup

import (
	"sort"

	"github.com/yourusername/hr-predictor/internal/models"
)

// Ranker orders scored matchups.
type Ranker struct{}

// NewRanker creates a ranker.
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns a new slice sorted by composite score descending, ties kept in
// join order, truncated to topN. topN <= 0 yields an empty slice.
func (r *Ranker) Rank(rows []models.MatchupRow, topN int) []models.MatchupRow {
	if topN <= 0 || len(rows) == 0 {
		return []models.MatchupRow{}
	}

	ranked := make([]models.MatchupRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	if topN < len(ranked) {
		ranked = ranked[:topN]
	}
	return ranked
}
