package models

import (
	"errors"
)

// Sentinel errors shared across services. Handlers map these to response
// codes; repositories translate gorm.ErrRecordNotFound into ErrNotFound so
// callers never depend on the ORM.
var (
	// ErrNotFound indicates a referenced user or tournament does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrMissingInput indicates a required parameter was absent or invalid
	// before any computation started.
	ErrMissingInput = errors.New("missing required input")
)
