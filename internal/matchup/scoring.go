package matchup

import (
	"fmt"
	"math"

	"github.com/yourusername/hr-predictor/internal/models"
)

// Default composite score weights.
const (
	DefaultBatterPowerWeight          = 0.45
	DefaultPitcherVulnerabilityWeight = 0.45
	DefaultBarrelWeight               = 0.10

	scoreScale      = 100.0
	weightTolerance = 1e-6
)

// Weights blend the three score inputs. They must sum to 1.
type Weights struct {
	BatterPower          float64 `mapstructure:"batter_power" validate:"gte=0,lte=1"`
	PitcherVulnerability float64 `mapstructure:"pitcher_vulnerability" validate:"gte=0,lte=1"`
	Barrel               float64 `mapstructure:"barrel" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the 45/45/10 blend.
func DefaultWeights() Weights {
	return Weights{
		BatterPower:          DefaultBatterPowerWeight,
		PitcherVulnerability: DefaultPitcherVulnerabilityWeight,
		Barrel:               DefaultBarrelWeight,
	}
}

// Validate checks that the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if w.BatterPower < 0 || w.PitcherVulnerability < 0 || w.Barrel < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	sum := w.BatterPower + w.PitcherVulnerability + w.Barrel
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("scoring weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// Scorer computes the composite score of a matchup.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score is 100 * (wB*recent_hr_rate + wP*(1-hr_rate_allowed) + wBr*barrel_rate).
// The result is not clamped: small-sample rates may push it past 100.
func (s *Scorer) Score(row *models.MatchupRow) float64 {
	return scoreScale * (s.weights.BatterPower*row.RecentHRRate +
		s.weights.PitcherVulnerability*(1-row.HRRateAllowed) +
		s.weights.Barrel*row.BarrelRate)
}

// ScoreAll sets CompositeScore on every row in place.
func (s *Scorer) ScoreAll(rows []models.MatchupRow) {
	for i := range rows {
		rows[i].CompositeScore = s.Score(&rows[i])
	}
}
