package hypergraph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/entity"
)

// DuplicatePolicy fixes how exact-duplicate node sets from different rules
// are treated. The policy is chosen at build time, never mixed per run, and
// recorded on the Structure.
type DuplicatePolicy int

const (
	// PolicyMerge collapses duplicates into one edge carrying the union of
	// type tags and the first-seen id and weight.
	PolicyMerge DuplicatePolicy = iota

	// PolicyKeep retains duplicates as distinct parallel edges, each feeding
	// the modularity objective separately.
	PolicyKeep
)

func (p DuplicatePolicy) String() string {
	switch p {
	case PolicyMerge:
		return "merge"
	case PolicyKeep:
		return "keep"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

type buildConfig struct {
	policy DuplicatePolicy
	store  *entity.Store
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithDuplicatePolicy sets the duplicate-node-set policy. Default PolicyMerge.
func WithDuplicatePolicy(p DuplicatePolicy) BuildOption {
	return func(c *buildConfig) {
		c.policy = p
	}
}

// WithStore enables membership validation: every node id referenced by an
// edge must exist in the given entity store.
func WithStore(s *entity.Store) BuildOption {
	return func(c *buildConfig) {
		c.store = s
	}
}

// Structure is the canonical hypergraph: sorted node list, edges in
// first-seen order, and a bidirectional incidence index. Read-only input to
// the clustering engine.
type Structure struct {
	nodes     []core.NodeID
	nodeIndex map[core.NodeID]int
	edges     []Hyperedge

	// members[i] holds the node ids of edge i; incidence[j] holds the edge
	// positions touching node position j.
	members   []*roaring.Bitmap
	incidence []*roaring.Bitmap

	policy      DuplicatePolicy
	totalWeight float64
}

// Build validates the hyperedge collection and assembles the Structure.
// It fails with *StructuralError if no edges are given, an edge has an empty
// node set, or (when WithStore is used) an edge references an unknown id.
func Build(edges []Hyperedge, opts ...BuildOption) (*Structure, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(edges) == 0 {
		return nil, &StructuralError{Reason: "no hyperedges"}
	}

	canonical := make([]Hyperedge, 0, len(edges))
	seen := make(map[string]int, len(edges)) // node-set key -> position in canonical

	for _, e := range edges {
		nodes := slices.Clone(e.Nodes)
		slices.Sort(nodes)
		nodes = slices.Compact(nodes)

		if len(nodes) == 0 {
			return nil, &StructuralError{
				Subject: fmt.Sprintf("hyperedge %d", e.ID),
				Reason:  "empty node set",
			}
		}
		if cfg.store != nil {
			for _, id := range nodes {
				if !cfg.store.Contains(id) {
					return nil, &StructuralError{
						Subject: fmt.Sprintf("hyperedge %d", e.ID),
						Reason:  fmt.Sprintf("unknown node id %d", id),
					}
				}
			}
		}

		weight := e.Weight
		if weight <= 0 {
			weight = DefaultWeight
		}
		edge := Hyperedge{ID: e.ID, Nodes: nodes, Tags: slices.Clone(e.Tags), Weight: weight}

		if cfg.policy == PolicyMerge {
			key := nodeSetKey(nodes)
			if pos, ok := seen[key]; ok {
				merged := &canonical[pos]
				for _, tag := range edge.Tags {
					if !slices.Contains(merged.Tags, tag) {
						merged.Tags = append(merged.Tags, tag)
					}
				}
				continue
			}
			seen[key] = len(canonical)
		}
		canonical = append(canonical, edge)
	}

	nodeSet := roaring.New()
	for _, e := range canonical {
		for _, id := range e.Nodes {
			nodeSet.Add(uint32(id))
		}
	}
	if nodeSet.IsEmpty() {
		return nil, &StructuralError{Reason: "empty node list"}
	}

	nodes := make([]core.NodeID, 0, nodeSet.GetCardinality())
	nodeIndex := make(map[core.NodeID]int, nodeSet.GetCardinality())
	it := nodeSet.Iterator()
	for it.HasNext() {
		id := core.NodeID(it.Next())
		nodeIndex[id] = len(nodes)
		nodes = append(nodes, id)
	}

	members := make([]*roaring.Bitmap, len(canonical))
	incidence := make([]*roaring.Bitmap, len(nodes))
	for j := range incidence {
		incidence[j] = roaring.New()
	}

	var totalWeight float64
	for i, e := range canonical {
		bm := roaring.New()
		for _, id := range e.Nodes {
			bm.Add(uint32(id))
			incidence[nodeIndex[id]].Add(uint32(i))
		}
		members[i] = bm
		totalWeight += float64(e.Weight)
	}

	return &Structure{
		nodes:       nodes,
		nodeIndex:   nodeIndex,
		edges:       canonical,
		members:     members,
		incidence:   incidence,
		policy:      cfg.policy,
		totalWeight: totalWeight,
	}, nil
}

// NumNodes returns the number of nodes.
func (s *Structure) NumNodes() int { return len(s.nodes) }

// NumEdges returns the number of edges after duplicate handling.
func (s *Structure) NumEdges() int { return len(s.edges) }

// Nodes returns the sorted canonical node list.
func (s *Structure) Nodes() []core.NodeID { return slices.Clone(s.nodes) }

// NodeAt returns the node id at the given canonical position.
func (s *Structure) NodeAt(i int) core.NodeID { return s.nodes[i] }

// NodeIndex returns the canonical position of a node id.
func (s *Structure) NodeIndex(id core.NodeID) (int, bool) {
	i, ok := s.nodeIndex[id]
	return i, ok
}

// Edges returns the edge list in first-seen order.
func (s *Structure) Edges() []Hyperedge { return slices.Clone(s.edges) }

// Edge returns the edge at the given position.
func (s *Structure) Edge(i int) Hyperedge { return s.edges[i] }

// Policy returns the duplicate-node-set policy the structure was built with.
func (s *Structure) Policy() DuplicatePolicy { return s.policy }

// TotalWeight returns the sum of all edge weights.
func (s *Structure) TotalWeight() float64 { return s.totalWeight }

// IncidentEdges returns the positions of all edges touching the node at the
// given canonical position, ascending.
func (s *Structure) IncidentEdges(nodePos int) []int {
	bm := s.incidence[nodePos]
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// EdgeNodePositions returns the canonical node positions of the edge at the
// given position, ascending.
func (s *Structure) EdgeNodePositions(edgePos int) []int {
	bm := s.members[edgePos]
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, s.nodeIndex[core.NodeID(it.Next())])
	}
	return out
}

// Degree returns the weighted degree of the node at the given position:
// the sum of weights of its incident edges.
func (s *Structure) Degree(nodePos int) float64 {
	var d float64
	it := s.incidence[nodePos].Iterator()
	for it.HasNext() {
		d += float64(s.edges[it.Next()].Weight)
	}
	return d
}

// TwoSection returns the 2-section projection: every unordered node pair that
// co-occurs in at least one edge, sorted. External/visualization use only.
func (s *Structure) TwoSection() [][2]core.NodeID {
	pairs := make(map[[2]core.NodeID]struct{})
	for _, e := range s.edges {
		for i := 0; i < len(e.Nodes); i++ {
			for j := i + 1; j < len(e.Nodes); j++ {
				pairs[[2]core.NodeID{e.Nodes[i], e.Nodes[j]}] = struct{}{}
			}
		}
	}

	out := make([][2]core.NodeID, 0, len(pairs))
	for p := range pairs {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b [2]core.NodeID) int {
		if a[0] != b[0] {
			return cmp.Compare(a[0], b[0])
		}
		return cmp.Compare(a[1], b[1])
	})
	return out
}

func nodeSetKey(nodes []core.NodeID) string {
	var sb strings.Builder
	for _, id := range nodes {
		fmt.Fprintf(&sb, "%d,", id)
	}
	return sb.String()
}
