package cluster

import (
	"slices"
	"sort"

	"github.com/hupe1980/hypergo/core"
)

// Assignment is one exported node-to-community record.
type Assignment struct {
	EntityID    core.NodeID `json:"entity_id"`
	CommunityID int         `json:"community_id"`
}

// Partition maps every node of the clustered hypergraph to exactly one
// community. Community ids are opaque non-negative integers, canonically
// relabeled to 0..k-1 in order of first appearance over ascending node ids.
// Frozen after optimization.
type Partition struct {
	assign map[core.NodeID]int
	q      float64
}

func newPartition(assign map[core.NodeID]int, q float64) *Partition {
	relabel := make(map[int]int)
	canonical := make(map[core.NodeID]int, len(assign))

	ids := make([]core.NodeID, 0, len(assign))
	for id := range assign {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		c := assign[id]
		label, ok := relabel[c]
		if !ok {
			label = len(relabel)
			relabel[c] = label
		}
		canonical[id] = label
	}
	return &Partition{assign: canonical, q: q}
}

// Community returns the community of the given node.
func (p *Partition) Community(id core.NodeID) (int, bool) {
	c, ok := p.assign[id]
	return c, ok
}

// Len returns the number of assigned nodes.
func (p *Partition) Len() int { return len(p.assign) }

// NumCommunities returns the number of distinct communities.
func (p *Partition) NumCommunities() int {
	seen := make(map[int]struct{}, len(p.assign))
	for _, c := range p.assign {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// Modularity returns the final Q value of the partition.
func (p *Partition) Modularity() float64 { return p.q }

// Communities returns the node sets per community, indexed by community id,
// members ascending.
func (p *Partition) Communities() [][]core.NodeID {
	out := make([][]core.NodeID, p.NumCommunities())
	for id, c := range p.assign {
		out[c] = append(out[c], id)
	}
	for _, members := range out {
		slices.Sort(members)
	}
	return out
}

// Assignments returns the flat record list, sorted by entity id.
func (p *Partition) Assignments() []Assignment {
	out := make([]Assignment, 0, len(p.assign))
	for id, c := range p.assign {
		out = append(out, Assignment{EntityID: id, CommunityID: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}
