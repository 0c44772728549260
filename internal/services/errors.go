package services

import (
	"errors"
)

// Sentinel errors exposed to the transport layer. Sparse or empty scan data
// is never an error: every metric has a defined zero/null representation.
var (
	// ErrProjectNotFound means the referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrForbidden means the caller does not own the referenced project.
	ErrForbidden = errors.New("forbidden")
)
