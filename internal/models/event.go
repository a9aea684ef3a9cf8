package models

import (
	"time"
)

// Statcast outcome and column names used across the pipeline.
const (
	OutcomeHomeRun = "home_run"

	ColumnGameDate         = "game_date"
	ColumnBatter           = "batter"
	ColumnPitcher          = "pitcher"
	ColumnPlayerName       = "player_name"
	ColumnPitcherName      = "pitcher_name"
	ColumnEvents           = "events"
	ColumnLaunchSpeed      = "launch_speed"
	ColumnLaunchAngle      = "launch_angle"
	ColumnLaunchSpeedAngle = "launch_speed_angle"
	ColumnBarrel           = "barrel"
)

// Batted-ball thresholds.
const (
	BarrelMinExitVelocity  = 98.0
	BarrelMinLaunchAngle   = 18.0
	BarrelMaxLaunchAngle   = 32.0
	BarrelLaunchSpeedAngle = 6
	HardHitMinExitVelocity = 95.0
)

// PlayerID is the canonical MLBAM identity of a batter or pitcher.
type PlayerID int64

// EventRecord is one pitch or batted-ball event from the Statcast feed.
type EventRecord struct {
	GameDate         time.Time `json:"game_date"`
	BatterID         PlayerID  `json:"batter_id"`
	BatterName       string    `json:"batter_name,omitempty"`
	PitcherID        PlayerID  `json:"pitcher_id"`
	PitcherName      string    `json:"pitcher_name,omitempty"`
	Outcome          string    `json:"event_outcome,omitempty"`
	ExitVelocity     *float64  `json:"exit_velocity,omitempty"`
	LaunchAngle      *float64  `json:"launch_angle,omitempty"`
	Barrel           *bool     `json:"barrel,omitempty"`
	LaunchSpeedAngle *int      `json:"launch_speed_angle,omitempty"`
}

// IsHomeRun reports whether the event ended in a home run.
func (e *EventRecord) IsHomeRun() bool {
	return e.Outcome == OutcomeHomeRun
}

// IsBarrel prefers the feed's own classification and falls back to the
// exit velocity / launch angle definition.
func (e *EventRecord) IsBarrel() bool {
	if e.Barrel != nil {
		return *e.Barrel
	}
	if e.LaunchSpeedAngle != nil {
		return *e.LaunchSpeedAngle == BarrelLaunchSpeedAngle
	}
	if e.ExitVelocity == nil || e.LaunchAngle == nil {
		return false
	}
	return *e.ExitVelocity >= BarrelMinExitVelocity &&
		*e.LaunchAngle >= BarrelMinLaunchAngle &&
		*e.LaunchAngle <= BarrelMaxLaunchAngle
}

// IsHardHit reports whether the event was measured at 95 mph or more.
func (e *EventRecord) IsHardHit() bool {
	return e.ExitVelocity != nil && *e.ExitVelocity >= HardHitMinExitVelocity
}

// EventSet is the result of one event fetch: the records plus the columns the
// upstream feed actually carried.
type EventSet struct {
	Records []EventRecord `json:"records"`
	Columns []string      `json:"columns"`
}

// NewEventSet builds an EventSet, de-duplicating column names in order.
func NewEventSet(records []EventRecord, columns ...string) *EventSet {
	set := &EventSet{Records: records}
	set.AddColumns(columns...)
	return set
}

// HasColumn reports whether the feed carried the named column.
func (s *EventSet) HasColumn(name string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumns records columns as present.
func (s *EventSet) AddColumns(columns ...string) {
	for _, c := range columns {
		if !s.HasColumn(c) {
			s.Columns = append(s.Columns, c)
		}
	}
}

// Len returns the number of records, treating a nil set as empty.
func (s *EventSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Merge appends other's records and columns to s.
func (s *EventSet) Merge(other *EventSet) {
	if other == nil {
		return
	}
	s.Records = append(s.Records, other.Records...)
	s.AddColumns(other.Columns...)
}

// SplitByDate groups records by game date. Every day in [start, end] gets an
// entry, including days without events, so callers can cache empty days.
func (s *EventSet) SplitByDate(start, end time.Time) map[time.Time]*EventSet {
	days := make(map[time.Time]*EventSet)
	for d := TruncateDate(start); !d.After(TruncateDate(end)); d = d.AddDate(0, 0, 1) {
		days[d] = NewEventSet(nil, s.columns()...)
	}
	if s == nil {
		return days
	}
	for _, rec := range s.Records {
		day := TruncateDate(rec.GameDate)
		bucket, ok := days[day]
		if !ok {
			continue
		}
		bucket.Records = append(bucket.Records, rec)
	}
	return days
}

func (s *EventSet) columns() []string {
	if s == nil {
		return nil
	}
	return s.Columns
}
