package datasource

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/hr-predictor/internal/models"
)

// LineupValidator checks lineup entries decoded from upstream payloads
type LineupValidator struct {
	validate *validator.Validate
}

// NewLineupValidator creates a new lineup validator
func NewLineupValidator() *LineupValidator {
	return &LineupValidator{validate: validator.New()}
}

// ValidateEntry returns the problems found in one entry, empty when valid
func (v *LineupValidator) ValidateEntry(entry *models.LineupEntry) []string {
	var problems []string

	if err := v.validate.Struct(entry); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("%s failed %s (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if entry.IsConfirmed != entry.ComputeConfirmed() {
		problems = append(problems, "is_confirmed disagrees with starter ids")
	}

	if id, _, ok := entry.StartingPitcher(); ok && id == entry.BatterID {
		problems = append(problems, fmt.Sprintf("batter %d listed as opposing starter", entry.BatterID))
	}

	return problems
}

// Filter keeps valid entries in order and drops repeated (game, batter)
// slots. rejected maps a description of each dropped entry to its problems.
func (v *LineupValidator) Filter(entries []models.LineupEntry) (valid []models.LineupEntry, rejected map[string][]string) {
	type slot struct {
		game   int64
		batter models.PlayerID
	}

	seen := make(map[slot]bool, len(entries))
	rejected = make(map[string][]string)
	valid = make([]models.LineupEntry, 0, len(entries))

	for i := range entries {
		entry := &entries[i]
		key := fmt.Sprintf("game %d batter %d", entry.GameID, entry.BatterID)

		if problems := v.ValidateEntry(entry); len(problems) > 0 {
			rejected[key] = append(rejected[key], problems...)
			continue
		}

		s := slot{game: entry.GameID, batter: entry.BatterID}
		if seen[s] {
			rejected[key] = append(rejected[key], "duplicate lineup slot")
			continue
		}
		seen[s] = true
		valid = append(valid, *entry)
	}

	return valid, rejected
}
