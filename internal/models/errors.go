package models

import "errors"

// Error taxonomy shared by the pipeline and its boundaries.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSchemaMismatch      = errors.New("schema mismatch")
)
