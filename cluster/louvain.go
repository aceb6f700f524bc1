package cluster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/hypergraph"
)

// Cluster partitions the hypergraph's nodes into communities by greedy
// hypergraph-modularity maximization. The returned partition is a local
// maximum; identical input and configuration reproduce the identical
// partition. Fails with *ConfigError if the hypergraph has no edges.
func Cluster(ctx context.Context, s *hypergraph.Structure, cfg Config) (*Partition, error) {
	if s == nil {
		return nil, &ConfigError{Reason: "nil hypergraph"}
	}
	if s.NumEdges() == 0 {
		return nil, &ConfigError{Reason: "hypergraph has no edges; modularity undefined"}
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	base := levelFromStructure(s, cfg)

	// orig tracks where each original node lives in the current level.
	orig := make([]int, base.n)
	for i := range orig {
		orig[i] = i
	}

	cur := base
	for lvl := 1; ; lvl++ {
		moved, err := cur.localMoves(ctx)
		if err != nil {
			return nil, err
		}
		if !moved || lvl >= cfg.MaxLevels {
			break
		}

		next, remap := cur.contract()
		if next.n >= cur.n {
			break
		}
		for i := range orig {
			orig[i] = remap[cur.comm[orig[i]]]
		}
		cur = next
	}

	// Compose the final assignment back onto the original nodes and score it
	// on the original hypergraph.
	final := make([]int, base.n)
	for i := range final {
		final[i] = cur.comm[orig[i]]
	}
	base.setCommunities(final)
	q := base.modularity()

	assign := make(map[core.NodeID]int, base.n)
	for i, id := range s.Nodes() {
		assign[id] = final[i]
	}
	return newPartition(assign, q), nil
}

// Modularity scores an explicit partition of the structure's nodes under the
// given configuration. Every node must be assigned to a non-negative
// community. Intended for inspection and testing of candidate partitions.
func Modularity(s *hypergraph.Structure, assign map[core.NodeID]int, cfg Config) (float64, error) {
	if s == nil {
		return 0, &ConfigError{Reason: "nil hypergraph"}
	}
	if s.NumEdges() == 0 {
		return 0, &ConfigError{Reason: "hypergraph has no edges; modularity undefined"}
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	l := levelFromStructure(s, cfg)
	comm := make([]int, l.n)
	labels := make(map[int]int)
	for i, id := range s.Nodes() {
		c, ok := assign[id]
		if !ok {
			return 0, &ConfigError{Param: "partition", Reason: fmt.Sprintf("node %d has no community", id)}
		}
		if c < 0 {
			return 0, &ConfigError{Param: "partition", Reason: fmt.Sprintf("node %d has negative community %d", id, c)}
		}
		// Compact arbitrary external labels into level-local ids.
		local, ok := labels[c]
		if !ok {
			local = len(labels)
			labels[c] = local
		}
		comm[i] = local
	}
	l.setCommunities(comm)
	return l.modularity(), nil
}

// localMoves runs full passes of single-node moves until a pass moves
// nothing or MaxPasses is reached. Returns whether any node moved at all.
func (l *level) localMoves(ctx context.Context) (bool, error) {
	anyMove := false
	for pass := 0; pass < l.cfg.MaxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return anyMove, err
		}

		movedInPass := false
		for v := 0; v < l.n; v++ {
			cands := l.candidates(v)
			if len(cands) == 0 {
				continue
			}

			gains := l.evalGains(v, cands)

			// Staying put is the baseline (gain 0); a move needs a strictly
			// positive gain. Ascending candidate order plus strict > gives
			// the lowest community id on ties.
			best := -1
			bestGain := gainEps
			for i, g := range gains {
				if g > bestGain {
					best = i
					bestGain = g
				}
			}
			if best >= 0 {
				l.move(v, cands[best])
				movedInPass = true
			}
		}

		if !movedInPass {
			break
		}
		anyMove = true
	}
	return anyMove, nil
}

// evalGains computes the marginal gain for each candidate community.
// Candidate evaluations are independent; with Parallelism > 1 they run
// concurrently while the caller's move decision stays serialized.
func (l *level) evalGains(v int, cands []int) []float64 {
	from := l.comm[v]
	gains := make([]float64, len(cands))

	if l.cfg.Parallelism <= 1 || len(cands) < 2 {
		for i, c := range cands {
			gains[i] = l.gain(v, from, c)
		}
		return gains
	}

	var g errgroup.Group
	g.SetLimit(l.cfg.Parallelism)
	for i, c := range cands {
		g.Go(func() error {
			gains[i] = l.gain(v, from, c)
			return nil
		})
	}
	_ = g.Wait() // gain is pure and never fails
	return gains
}

// contract builds the induced super-node hypergraph: one node per non-empty
// community, each edge mapped to the set of communities it touches. Induced
// edges with identical node sets merge with summed weight; fully internal
// edges survive as singletons so degrees stay consistent.
func (l *level) contract() (*level, []int) {
	remap := make([]int, l.n)
	k := 0
	for c := 0; c < l.n; c++ {
		if l.commSize[c] > 0 {
			remap[c] = k
			k++
		} else {
			remap[c] = -1
		}
	}

	type acc struct {
		nodes []int
		w     float64
	}
	merged := make(map[string]*acc)
	var order []string

	for i, e := range l.edges {
		set := make(map[int]struct{})
		for c := range l.edgeComm[i] {
			set[remap[c]] = struct{}{}
		}
		nodes := make([]int, 0, len(set))
		for c := range set {
			nodes = append(nodes, c)
		}
		sort.Ints(nodes)

		key := induceKey(nodes)
		if a, ok := merged[key]; ok {
			a.w += e.w
			continue
		}
		merged[key] = &acc{nodes: nodes, w: e.w}
		order = append(order, key)
	}

	edges := make([]ledge, 0, len(order))
	for _, key := range order {
		a := merged[key]
		edges = append(edges, ledge{nodes: a.nodes, w: a.w})
	}
	return newLevel(k, edges, l.cfg), remap
}

func induceKey(nodes []int) string {
	var sb strings.Builder
	for _, v := range nodes {
		fmt.Fprintf(&sb, "%d,", v)
	}
	return sb.String()
}
