package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRule is returned when a routing rule fails validation.
	ErrInvalidRule = errors.New("invalid routing rule")

	// ErrUnsupportedRouteKind is returned for a rule kind the engine does
	// not know.
	ErrUnsupportedRouteKind = errors.New("unsupported route kind")

	// ErrUnsupportedHasType is returned for a guard type the engine does
	// not know.
	ErrUnsupportedHasType = errors.New("unsupported has type")

	// ErrDuplicateRule is returned when a rule name is already registered.
	ErrDuplicateRule = errors.New("rule already exists")
)

// MultiMatchError is raised when a destination template uses a parameter
// without a repeat modifier but the captured value holds multiple segments.
// It rewrites the compiler's arity error into guidance for the rule author.
type MultiMatchError struct {
	Param string
	cause error
}

func (e *MultiMatchError) Error() string {
	return fmt.Sprintf("to use a multi-match in the destination you must add `*` at the end of the param name to be matched (e.g. `:%s*`)", e.Param)
}

func (e *MultiMatchError) Unwrap() error {
	return e.cause
}
