package entity

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/hypergo/core"
)

// Entity is one analyzed individual. Immutable once loaded.
//
// Family may be empty for unaffiliated individuals; those are excluded from
// family grouping. TrueGroup is evaluation-only metadata and is never read by
// the synthesizer or the clustering engine.
type Entity struct {
	ID          core.NodeID
	Traits      []float32
	Family      string
	Environment string
	TrueGroup   string
}

// Group is one categorical grouping of entities (a family or an environment).
// Members are sorted by ascending id.
type Group struct {
	Key     string
	Members []core.NodeID
}

type loadConfig struct {
	genetic    [][]float32
	traitNames []string
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithGeneticMatrix attaches a square genetic-distance matrix.
// Row/column i corresponds to the i-th entity in ascending-id order.
func WithGeneticMatrix(m [][]float32) LoadOption {
	return func(c *loadConfig) {
		c.genetic = m
	}
}

// WithTraitNames attaches display names for the trait columns.
func WithTraitNames(names []string) LoadOption {
	return func(c *loadConfig) {
		c.traitNames = names
	}
}

// Store is the validated, read-only entity table.
// All accessors are pure; entities are held in ascending-id order.
type Store struct {
	entities   []Entity
	index      map[core.NodeID]int
	traitDim   int
	traitNames []string
	genetic    [][]float32
}

// Load validates the entity table and returns an immutable store.
// It fails with *ValidationError if any entity id is duplicated, trait
// dimensionality is inconsistent, an environment is missing, or the genetic
// matrix does not match the entity count.
func Load(entities []Entity, opts ...LoadOption) (*Store, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(entities) == 0 {
		return nil, &ValidationError{Reason: "no entities"}
	}

	sorted := slices.Clone(entities)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	traitDim := len(sorted[0].Traits)
	index := make(map[core.NodeID]int, len(sorted))

	for i, e := range sorted {
		if _, ok := index[e.ID]; ok {
			return nil, &ValidationError{EntityID: e.ID, Field: "id", Reason: "duplicate"}
		}
		index[e.ID] = i

		if len(e.Traits) != traitDim {
			return nil, &ValidationError{
				EntityID: e.ID,
				Field:    "traits",
				Reason:   fmt.Sprintf("dimension %d, expected %d", len(e.Traits), traitDim),
			}
		}
		if e.Environment == "" {
			return nil, &ValidationError{EntityID: e.ID, Field: "environment", Reason: "missing"}
		}
	}

	if cfg.traitNames != nil && len(cfg.traitNames) != traitDim {
		return nil, &ValidationError{
			Field:  "trait_names",
			Reason: fmt.Sprintf("%d names for %d traits", len(cfg.traitNames), traitDim),
		}
	}

	if cfg.genetic != nil {
		if len(cfg.genetic) != len(sorted) {
			return nil, &ValidationError{
				Field:  "genetic_matrix",
				Reason: fmt.Sprintf("%d rows for %d entities", len(cfg.genetic), len(sorted)),
			}
		}
		for i, row := range cfg.genetic {
			if len(row) != len(sorted) {
				return nil, &ValidationError{
					EntityID: sorted[i].ID,
					Field:    "genetic_matrix",
					Reason:   fmt.Sprintf("row has %d columns, expected %d", len(row), len(sorted)),
				}
			}
			for _, d := range row {
				if d < 0 || math.IsNaN(float64(d)) {
					return nil, &ValidationError{
						EntityID: sorted[i].ID,
						Field:    "genetic_matrix",
						Reason:   "negative or NaN distance",
					}
				}
			}
		}
	}

	return &Store{
		entities:   sorted,
		index:      index,
		traitDim:   traitDim,
		traitNames: slices.Clone(cfg.traitNames),
		genetic:    cfg.genetic,
	}, nil
}

// Len returns the number of entities.
func (s *Store) Len() int { return len(s.entities) }

// TraitDim returns the trait vector dimensionality.
func (s *Store) TraitDim() int { return s.traitDim }

// TraitNames returns the trait column names, or nil when not provided.
func (s *Store) TraitNames() []string { return slices.Clone(s.traitNames) }

// IDs returns all entity ids in ascending order.
func (s *Store) IDs() []core.NodeID {
	ids := make([]core.NodeID, len(s.entities))
	for i, e := range s.entities {
		ids[i] = e.ID
	}
	return ids
}

// At returns the i-th entity in ascending-id order.
func (s *Store) At(i int) Entity { return s.entities[i] }

// ByID returns the entity with the given id.
func (s *Store) ByID(id core.NodeID) (Entity, bool) {
	i, ok := s.index[id]
	if !ok {
		return Entity{}, false
	}
	return s.entities[i], true
}

// Contains reports whether the store holds the given id.
func (s *Store) Contains(id core.NodeID) bool {
	_, ok := s.index[id]
	return ok
}

// Ordinal returns the position of id in ascending-id order.
func (s *Store) Ordinal(id core.NodeID) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// HasGenetic reports whether a genetic-distance matrix was loaded.
func (s *Store) HasGenetic() bool { return s.genetic != nil }

// GeneticDistance returns the genetic distance between two entities.
// Returns false if no matrix was loaded or either id is unknown.
func (s *Store) GeneticDistance(a, b core.NodeID) (float32, bool) {
	if s.genetic == nil {
		return 0, false
	}
	i, ok := s.index[a]
	if !ok {
		return 0, false
	}
	j, ok := s.index[b]
	if !ok {
		return 0, false
	}
	return s.genetic[i][j], true
}

// Families groups entities by family id, sorted by family key.
// Entities with an empty family are unaffiliated and excluded.
func (s *Store) Families() []Group {
	return s.groupBy(func(e Entity) string { return e.Family }, true)
}

// Environments groups entities by environment id, sorted by environment key.
func (s *Store) Environments() []Group {
	return s.groupBy(func(e Entity) string { return e.Environment }, false)
}

func (s *Store) groupBy(key func(Entity) string, skipEmpty bool) []Group {
	byKey := make(map[string][]core.NodeID)
	for _, e := range s.entities {
		k := key(e)
		if skipEmpty && k == "" {
			continue
		}
		byKey[k] = append(byKey[k], e.ID)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, Group{Key: k, Members: byKey[k]})
	}
	return groups
}

// TraitMatrix returns one row per entity (ascending-id order) restricted to
// the given feature indices. A nil features slice selects all traits.
// When standardize is true each selected column is z-scored over the store
// (zero-variance columns collapse to 0).
func (s *Store) TraitMatrix(features []int, standardize bool) ([][]float32, error) {
	if features == nil {
		features = make([]int, s.traitDim)
		for i := range features {
			features[i] = i
		}
	}
	for _, f := range features {
		if f < 0 || f >= s.traitDim {
			return nil, &ValidationError{
				Field:  "feature_subset",
				Reason: fmt.Sprintf("feature index %d out of range [0,%d)", f, s.traitDim),
			}
		}
	}

	n := len(s.entities)
	m := make([][]float32, n)
	for i, e := range s.entities {
		row := make([]float32, len(features))
		for j, f := range features {
			row[j] = e.Traits[f]
		}
		m[i] = row
	}

	if standardize {
		standardizeColumns(m)
	}
	return m, nil
}

// standardizeColumns z-scores each column in place using the population
// standard deviation, mirroring the usual scaler semantics.
func standardizeColumns(m [][]float32) {
	if len(m) == 0 {
		return
	}
	n := float64(len(m))
	for j := range m[0] {
		var sum float64
		for i := range m {
			sum += float64(m[i][j])
		}
		mean := sum / n

		var varSum float64
		for i := range m {
			d := float64(m[i][j]) - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / n)

		for i := range m {
			if std == 0 {
				m[i][j] = 0
				continue
			}
			m[i][j] = float32((float64(m[i][j]) - mean) / std)
		}
	}
}
