package emergent

import "errors"

// Sentinel errors returned (wrapped) from builder Build methods.
var (
	ErrDuplicateState   = errors.New("emergent: duplicate state")
	ErrUnknownState     = errors.New("emergent: unknown state")
	ErrNilTask          = errors.New("emergent: nil task")
	ErrNilCondition     = errors.New("emergent: nil condition")
	ErrNilConsideration = errors.New("emergent: nil consideration")
)
