package hypergo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/hypergo/cluster"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
	"github.com/hupe1980/hypergo/synth"
)

var (
	// ErrValidation indicates malformed or missing entity input.
	ErrValidation = errors.New("invalid entity data")

	// ErrConfig indicates a structurally invalid rule or engine
	// configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrStructural indicates an inconsistent hypergraph, e.g. an edge
	// referencing an unknown entity.
	ErrStructural = errors.New("structural inconsistency")
)

// translateError unifies stage-local error types under the package
// sentinels so callers can branch with errors.Is without importing every
// subpackage. The original error stays reachable via errors.As.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ve *entity.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var sce *synth.ConfigError
	if errors.As(err, &sce) {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	var cce *cluster.ConfigError
	if errors.As(err, &cce) {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var se *hypergraph.StructuralError
	if errors.As(err, &se) {
		return fmt.Errorf("%w: %w", ErrStructural, err)
	}

	return err
}
