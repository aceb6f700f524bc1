package synth

import (
	"fmt"
	"slices"

	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/distance"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
)

// Rule is one hyperedge generation rule. The set of implementations is
// closed; constructing hyperedges happens only through Synthesize.
type Rule interface {
	// Kind returns the rule's stable name, matching its type tag.
	Kind() string

	validate(s *entity.Store) error
	apply(s *entity.Store) ([]draft, error)
}

// draft is an un-numbered hyperedge produced by a single rule.
type draft struct {
	nodes  []core.NodeID // sorted, deduplicated
	tag    hypergraph.TypeTag
	weight float32
}

func newDraft(nodes []core.NodeID, tag hypergraph.TypeTag) draft {
	canonical := slices.Clone(nodes)
	slices.Sort(canonical)
	canonical = slices.Compact(canonical)
	return draft{nodes: canonical, tag: tag, weight: hypergraph.DefaultWeight}
}

// Op is a comparison operator for threshold rules.
type Op int

const (
	OpGT Op = iota
	OpGE
	OpLT
	OpLE
	OpEQ
)

func (op Op) String() string {
	switch op {
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpEQ:
		return "=="
	default:
		return fmt.Sprintf("Unknown(%d)", int(op))
	}
}

func (op Op) compare(v, threshold float32) (bool, error) {
	switch op {
	case OpGT:
		return v > threshold, nil
	case OpGE:
		return v >= threshold, nil
	case OpLT:
		return v < threshold, nil
	case OpLE:
		return v <= threshold, nil
	case OpEQ:
		return v == threshold, nil
	default:
		return false, fmt.Errorf("unsupported op: %v", op)
	}
}

// CombineOp is the set operation applied by Composite.
type CombineOp int

const (
	CombineIntersection CombineOp = iota
	CombineUnion
)

func (c CombineOp) String() string {
	switch c {
	case CombineIntersection:
		return "intersection"
	case CombineUnion:
		return "union"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// TraitKNN emits one hyperedge per entity containing the entity and its K
// nearest others in trait space. A nil Features selects all traits;
// Standardize z-scores the selected columns first. K=0 yields singleton
// edges.
type TraitKNN struct {
	K           int
	Features    []int
	Metric      distance.Metric
	Standardize bool
}

func (TraitKNN) Kind() string { return string(hypergraph.TagTraitKNN) }

func (r TraitKNN) validate(s *entity.Store) error {
	if r.K < 0 {
		return &ConfigError{Rule: r.Kind(), Param: "k", Reason: "must be non-negative"}
	}
	if r.K >= s.Len() {
		return &ConfigError{
			Rule:   r.Kind(),
			Param:  "k",
			Reason: fmt.Sprintf("%d not smaller than entity count %d", r.K, s.Len()),
		}
	}
	for _, f := range r.Features {
		if f < 0 || f >= s.TraitDim() {
			return &ConfigError{
				Rule:   r.Kind(),
				Param:  "feature_subset",
				Reason: fmt.Sprintf("feature index %d out of range [0,%d)", f, s.TraitDim()),
			}
		}
	}
	if _, err := distance.Provider(r.Metric); err != nil {
		return &ConfigError{Rule: r.Kind(), Param: "metric", Reason: err.Error(), cause: err}
	}
	return nil
}

func (r TraitKNN) apply(s *entity.Store) ([]draft, error) {
	m, err := s.TraitMatrix(r.Features, r.Standardize)
	if err != nil {
		return nil, err
	}
	fn, err := distance.Provider(r.Metric)
	if err != nil {
		return nil, err
	}

	// Cosine rows are pre-normalized once so each pair reduces to a dot
	// product. Zero-norm rows stay as-is and keep the maximum distance of 1.
	if r.Metric == distance.MetricCosine {
		for i, row := range m {
			if norm, ok := distance.NormalizeL2Copy(row); ok {
				m[i] = norm
			}
		}
		fn = func(a, b []float32) float32 { return 1 - distance.Dot(a, b) }
	}

	ids := s.IDs()
	neighborhoods := nearestNeighbors(len(ids), r.K,
		func(i, j int) float32 { return fn(m[i], m[j]) },
		func(i int) core.NodeID { return ids[i] },
	)

	drafts := make([]draft, 0, len(ids))
	for i, neighbors := range neighborhoods {
		nodes := append([]core.NodeID{ids[i]}, neighbors...)
		drafts = append(drafts, newDraft(nodes, hypergraph.TagTraitKNN))
	}
	return drafts, nil
}

// TraitThreshold emits a single hyperedge of all entities whose Feature
// satisfies the comparison against Value. An empty result produces no edge
// (not an error).
type TraitThreshold struct {
	Feature int
	Op      Op
	Value   float32
}

func (TraitThreshold) Kind() string { return string(hypergraph.TagTraitThreshold) }

func (r TraitThreshold) validate(s *entity.Store) error {
	if r.Feature < 0 || r.Feature >= s.TraitDim() {
		return &ConfigError{
			Rule:   r.Kind(),
			Param:  "feature",
			Reason: fmt.Sprintf("index %d out of range [0,%d)", r.Feature, s.TraitDim()),
		}
	}
	if _, err := (r.Op).compare(0, 0); err != nil {
		return &ConfigError{Rule: r.Kind(), Param: "op", Reason: err.Error(), cause: err}
	}
	return nil
}

func (r TraitThreshold) apply(s *entity.Store) ([]draft, error) {
	var nodes []core.NodeID
	for i := 0; i < s.Len(); i++ {
		e := s.At(i)
		ok, err := r.Op.compare(e.Traits[r.Feature], r.Value)
		if err != nil {
			return nil, err
		}
		if ok {
			nodes = append(nodes, e.ID)
		}
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return []draft{newDraft(nodes, hypergraph.TagTraitThreshold)}, nil
}

// GeneticKNN is the k-nearest-neighbor construction over the genetic-distance
// matrix instead of trait space.
type GeneticKNN struct {
	K int
}

func (GeneticKNN) Kind() string { return string(hypergraph.TagGeneticKNN) }

func (r GeneticKNN) validate(s *entity.Store) error {
	if !s.HasGenetic() {
		return &ConfigError{Rule: r.Kind(), Param: "genetic_matrix", Reason: "not loaded"}
	}
	if r.K < 0 {
		return &ConfigError{Rule: r.Kind(), Param: "k", Reason: "must be non-negative"}
	}
	if r.K >= s.Len() {
		return &ConfigError{
			Rule:   r.Kind(),
			Param:  "k",
			Reason: fmt.Sprintf("%d not smaller than entity count %d", r.K, s.Len()),
		}
	}
	return nil
}

func (r GeneticKNN) apply(s *entity.Store) ([]draft, error) {
	ids := s.IDs()
	neighborhoods := nearestNeighbors(len(ids), r.K,
		func(i, j int) float32 {
			d, _ := s.GeneticDistance(ids[i], ids[j])
			return d
		},
		func(i int) core.NodeID { return ids[i] },
	)

	drafts := make([]draft, 0, len(ids))
	for i, neighbors := range neighborhoods {
		nodes := append([]core.NodeID{ids[i]}, neighbors...)
		drafts = append(drafts, newDraft(nodes, hypergraph.TagGeneticKNN))
	}
	return drafts, nil
}

// GeneticThreshold emits, per entity, a hyperedge of all entities within
// MaxDist genetic distance of it (the entity itself included). Edges smaller
// than MinSize are skipped; MinSize 0 defaults to 2.
type GeneticThreshold struct {
	MaxDist float32
	MinSize int
}

func (GeneticThreshold) Kind() string { return string(hypergraph.TagGeneticThreshold) }

func (r GeneticThreshold) validate(s *entity.Store) error {
	if !s.HasGenetic() {
		return &ConfigError{Rule: r.Kind(), Param: "genetic_matrix", Reason: "not loaded"}
	}
	if r.MaxDist <= 0 {
		return &ConfigError{Rule: r.Kind(), Param: "max_dist", Reason: "must be positive"}
	}
	if r.MinSize < 0 {
		return &ConfigError{Rule: r.Kind(), Param: "min_size", Reason: "must be non-negative"}
	}
	return nil
}

func (r GeneticThreshold) apply(s *entity.Store) ([]draft, error) {
	minSize := r.MinSize
	if minSize == 0 {
		minSize = 2
	}

	ids := s.IDs()
	var drafts []draft
	for _, a := range ids {
		var nodes []core.NodeID
		for _, b := range ids {
			d, _ := s.GeneticDistance(a, b)
			if d < r.MaxDist {
				nodes = append(nodes, b)
			}
		}
		if len(nodes) >= minSize {
			drafts = append(drafts, newDraft(nodes, hypergraph.TagGeneticThreshold))
		}
	}
	return drafts, nil
}

// FamilyMatch emits one hyperedge per family of size >= 2, containing all
// entities sharing that family id. Unaffiliated entities are skipped.
type FamilyMatch struct{}

func (FamilyMatch) Kind() string { return string(hypergraph.TagFamilyMatch) }

func (FamilyMatch) validate(*entity.Store) error { return nil }

func (FamilyMatch) apply(s *entity.Store) ([]draft, error) {
	return groupDrafts(s.Families(), hypergraph.TagFamilyMatch), nil
}

// EnvironmentMatch emits one hyperedge per environment of size >= 2,
// analogous to FamilyMatch.
type EnvironmentMatch struct{}

func (EnvironmentMatch) Kind() string { return string(hypergraph.TagEnvironmentMatch) }

func (EnvironmentMatch) validate(*entity.Store) error { return nil }

func (EnvironmentMatch) apply(s *entity.Store) ([]draft, error) {
	return groupDrafts(s.Environments(), hypergraph.TagEnvironmentMatch), nil
}

func groupDrafts(groups []entity.Group, tag hypergraph.TypeTag) []draft {
	var drafts []draft
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		drafts = append(drafts, newDraft(g.Members, tag))
	}
	return drafts
}

// Composite applies Combine to the node sets produced by two prior rules at
// the per-resulting-edge level: every edge from A is combined with every edge
// from B. Results smaller than MinSize are skipped; MinSize 0 defaults to 1.
// Models "shared trait pattern AND shared environment" style relationships.
type Composite struct {
	A       Rule
	B       Rule
	Combine CombineOp
	MinSize int
}

func (Composite) Kind() string { return string(hypergraph.TagComposite) }

func (r Composite) validate(s *entity.Store) error {
	if r.A == nil || r.B == nil {
		return &ConfigError{Rule: r.Kind(), Param: "rules", Reason: "both sub-rules are required"}
	}
	if r.Combine != CombineIntersection && r.Combine != CombineUnion {
		return &ConfigError{Rule: r.Kind(), Param: "combine", Reason: fmt.Sprintf("unsupported: %v", r.Combine)}
	}
	if r.MinSize < 0 {
		return &ConfigError{Rule: r.Kind(), Param: "min_size", Reason: "must be non-negative"}
	}
	if err := r.A.validate(s); err != nil {
		return err
	}
	return r.B.validate(s)
}

func (r Composite) apply(s *entity.Store) ([]draft, error) {
	da, err := r.A.apply(s)
	if err != nil {
		return nil, err
	}
	db, err := r.B.apply(s)
	if err != nil {
		return nil, err
	}

	minSize := r.MinSize
	if minSize == 0 {
		minSize = 1
	}

	var drafts []draft
	for _, ea := range da {
		for _, eb := range db {
			var nodes []core.NodeID
			switch r.Combine {
			case CombineIntersection:
				nodes = intersectSorted(ea.nodes, eb.nodes)
			case CombineUnion:
				nodes = unionSorted(ea.nodes, eb.nodes)
			}
			if len(nodes) < minSize || len(nodes) == 0 {
				continue
			}
			drafts = append(drafts, draft{nodes: nodes, tag: hypergraph.TagComposite, weight: hypergraph.DefaultWeight})
		}
	}
	return drafts, nil
}

func intersectSorted(a, b []core.NodeID) []core.NodeID {
	var out []core.NodeID
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func unionSorted(a, b []core.NodeID) []core.NodeID {
	out := make([]core.NodeID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
