// Package features aggregates Statcast events into per-player rate tables.
package features

import (
	"github.com/yourusername/hr-predictor/internal/models"
)

// Feature kinds, used in degradations and log fields.
const (
	KindBatter  = "batter"
	KindPitcher = "pitcher"
)

// Requirement declares the feed columns a feature needs. It is satisfied when
// every column of at least one AnyOf group is present; otherwise the feature
// takes Fallback for every row.
type Requirement struct {
	Feature  string
	AnyOf    [][]string
	Fallback float64
}

// Degradation records a feature that fell back because the feed lacked its
// columns.
type Degradation struct {
	Kind     string
	Feature  string
	Column   string
	Fallback float64
}

// satisfied reports whether the set carries the requirement's columns. A set
// that declares no columns at all is treated as carrying every column.
func (r Requirement) satisfied(set *models.EventSet) (bool, string) {
	if set == nil || len(set.Columns) == 0 {
		return true, ""
	}
	missing := ""
	for _, group := range r.AnyOf {
		ok := true
		for _, col := range group {
			if !set.HasColumn(col) {
				ok = false
				if missing == "" {
					missing = col
				}
				break
			}
		}
		if ok {
			return true, ""
		}
	}
	return false, missing
}

// resolve evaluates requirements once for a Compute call.
func resolve(kind string, set *models.EventSet, reqs []Requirement) (map[string]bool, []Degradation) {
	available := make(map[string]bool, len(reqs))
	var degraded []Degradation
	for _, r := range reqs {
		ok, missing := r.satisfied(set)
		available[r.Feature] = ok
		if !ok {
			degraded = append(degraded, Degradation{
				Kind:     kind,
				Feature:  r.Feature,
				Column:   missing,
				Fallback: r.Fallback,
			})
		}
	}
	return available, degraded
}

var barrelColumns = [][]string{
	{models.ColumnBarrel},
	{models.ColumnLaunchSpeedAngle},
	{models.ColumnLaunchSpeed, models.ColumnLaunchAngle},
}

// accumulator collects the running sums for one player.
type accumulator struct {
	name     string
	events   int
	homeRuns int
	barrels  int
	hardHits int
	evCount  int
	evSum    float64
	laCount  int
	laSum    float64
}

func (a *accumulator) add(rec *models.EventRecord, name string) {
	if a.name == "" {
		a.name = name
	}
	a.events++
	if rec.IsHomeRun() {
		a.homeRuns++
	}
	if rec.IsBarrel() {
		a.barrels++
	}
	if rec.ExitVelocity != nil {
		a.evCount++
		a.evSum += *rec.ExitVelocity
		if rec.IsHardHit() {
			a.hardHits++
		}
	}
	if rec.LaunchAngle != nil {
		a.laCount++
		a.laSum += *rec.LaunchAngle
	}
}

// ratio returns n/d, or 0 when d is zero so downstream arithmetic stays total.
func ratio(n int, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// pick returns value if the feature is available, else its fallback.
func pick(available map[string]bool, reqs []Requirement, feature string, value float64) float64 {
	if available[feature] {
		return value
	}
	for _, r := range reqs {
		if r.Feature == feature {
			return r.Fallback
		}
	}
	return 0
}

// group aggregates records by key in first-appearance order.
func group(records []models.EventRecord, key func(*models.EventRecord) (models.PlayerID, string)) ([]models.PlayerID, map[models.PlayerID]*accumulator) {
	order := make([]models.PlayerID, 0)
	groups := make(map[models.PlayerID]*accumulator)
	for i := range records {
		rec := &records[i]
		id, name := key(rec)
		if id == 0 {
			continue
		}
		acc, ok := groups[id]
		if !ok {
			acc = &accumulator{}
			groups[id] = acc
			order = append(order, id)
		}
		acc.add(rec, name)
	}
	return order, groups
}
