// Package repository stores raw upstream data in PostgreSQL so repeated runs
// load it instead of refetching.
package repository

import (
	"fmt"

	"github.com/yourusername/hr-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Events  EventRepository
	Lineups LineupRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Events:  NewPostgresEventRepository(db),
		Lineups: NewPostgresLineupRepository(db),
	}, nil
}
