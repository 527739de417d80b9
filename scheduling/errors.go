package scheduling

import "errors"

// Error kinds surfaced by the engine. Callers match with errors.Is; the
// wrapped message carries the specific reason.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("slot is not available")
	ErrUnauthorized = errors.New("not allowed to act on this resource")
	ErrInvalidState = errors.New("transition not allowed from current status")
)
