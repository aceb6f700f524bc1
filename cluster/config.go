package cluster

import "fmt"

// Homogeneity selects the edge-homogeneity function f(e,C).
type Homogeneity int

const (
	// Strict scores 1 only when every node of the edge lies in the same
	// community, 0 otherwise.
	Strict Homogeneity = iota

	// Majority scores the plurality fraction of the edge when it strictly
	// exceeds MajorityThreshold, 0 otherwise. With a threshold of 0 the
	// score is the plain plurality fraction, which keeps marginal gains
	// smooth enough for single-node moves to make progress on large edges.
	Majority
)

func (h Homogeneity) String() string {
	switch h {
	case Strict:
		return "strict"
	case Majority:
		return "majority"
	default:
		return fmt.Sprintf("Unknown(%d)", int(h))
	}
}

// NullModel selects how the expected random edge contribution is estimated.
type NullModel int

const (
	// DegreeNull preserves the degree sequence: an edge of size d lands in
	// community c with per-endpoint probability vol(c)/vol, binomially.
	DegreeNull NullModel = iota

	// UniformNull reassigns edges uniformly among same-size node subsets:
	// hypergeometric over community node counts.
	UniformNull
)

func (m NullModel) String() string {
	switch m {
	case DegreeNull:
		return "degree"
	case UniformNull:
		return "uniform"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Default optimization bounds. Exceeding a cap is not an error; the best
// partition found so far is returned.
const (
	DefaultMaxLevels = 8
	DefaultMaxPasses = 100
)

// Config parameterizes the clustering engine. The zero value is usable and
// equals DefaultConfig().
type Config struct {
	Homogeneity Homogeneity

	// MajorityThreshold is the minimum plurality fraction for a Majority
	// contribution, in [0, 1). Ignored by Strict.
	MajorityThreshold float64

	NullModel NullModel

	// MaxLevels bounds contraction levels. 0 defaults to DefaultMaxLevels.
	MaxLevels int

	// MaxPasses bounds local-move passes per level. 0 defaults to
	// DefaultMaxPasses.
	MaxPasses int

	// Parallelism is the number of workers for candidate-gain evaluation.
	// Values <= 1 run serially. Results are identical either way.
	Parallelism int
}

// DefaultConfig returns the default engine configuration: graded (majority)
// homogeneity with no minimum threshold under the degree-preserving null
// model, serial evaluation. Strict homogeneity is available for scoring but
// gives the greedy optimizer no gradient on edges larger than two nodes.
func DefaultConfig() Config {
	return Config{
		Homogeneity: Majority,
		NullModel:   DegreeNull,
		MaxLevels:   DefaultMaxLevels,
		MaxPasses:   DefaultMaxPasses,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxLevels == 0 {
		c.MaxLevels = DefaultMaxLevels
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = DefaultMaxPasses
	}
	return c
}

func (c Config) validate() error {
	switch c.Homogeneity {
	case Strict, Majority:
	default:
		return &ConfigError{Param: "homogeneity", Reason: fmt.Sprintf("unsupported: %v", c.Homogeneity)}
	}
	switch c.NullModel {
	case DegreeNull, UniformNull:
	default:
		return &ConfigError{Param: "null_model", Reason: fmt.Sprintf("unsupported: %v", c.NullModel)}
	}
	if c.MajorityThreshold < 0 || c.MajorityThreshold >= 1 {
		return &ConfigError{
			Param:  "majority_threshold",
			Reason: fmt.Sprintf("%g outside [0, 1)", c.MajorityThreshold),
		}
	}
	if c.MaxLevels < 1 {
		return &ConfigError{Param: "max_levels", Reason: "must be at least 1"}
	}
	if c.MaxPasses < 1 {
		return &ConfigError{Param: "max_passes", Reason: "must be at least 1"}
	}
	if c.Parallelism < 0 {
		return &ConfigError{Param: "parallelism", Reason: "must be non-negative"}
	}
	return nil
}
