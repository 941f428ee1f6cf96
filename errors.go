package pycfr

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput is returned when a structural precondition is
	// violated before any work begins, such as a player count mismatch
	// or a malformed line in a strategy file.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingContext is returned when a policy is queried for a
	// decision context it does not contain.
	ErrMissingContext = errors.New("missing decision context")
)
