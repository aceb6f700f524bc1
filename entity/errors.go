package entity

import (
	"fmt"

	"github.com/hupe1980/hypergo/core"
)

// ValidationError indicates malformed or missing input data.
// It is fatal: the store refuses to load and no later stage runs.
type ValidationError struct {
	EntityID core.NodeID
	Field    string
	Reason   string
	cause    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("entity %d: invalid %s: %s", e.EntityID, e.Field, e.Reason)
	}
	return fmt.Sprintf("entity %d: %s", e.EntityID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.cause }
