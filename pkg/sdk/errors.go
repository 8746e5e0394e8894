package recordbook

import "github.com/kailas-cloud/recordbook/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrInvalidRecord          = domain.ErrInvalidRecord
	ErrInvalidFilter          = domain.ErrInvalidFilter
	ErrUnknownModule          = domain.ErrUnknownModule
	ErrEmptyCommand           = domain.ErrEmptyCommand
	ErrCommandInFlight        = domain.ErrCommandInFlight
	ErrInterpreterUnavailable = domain.ErrInterpreterUnavailable
)
