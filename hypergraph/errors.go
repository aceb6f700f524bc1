package hypergraph

import (
	"fmt"
)

// StructuralError indicates that the builder produced (or was given) an empty
// or inconsistent hypergraph. It is fatal; the pipeline halts.
type StructuralError struct {
	// Subject names the offending element ("hyperedge 3") or is empty when
	// the hypergraph as a whole is at fault.
	Subject string
	Reason  string
	cause   error
}

func (e *StructuralError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("hypergraph: %s", e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Subject, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.cause }
