package synth

import (
	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/entity"
	"github.com/hupe1980/hypergo/hypergraph"
)

// Synthesize applies the rules in order and returns the emitted hyperedges.
// All rules are validated before the first edge is produced; any malformed
// rule fails the whole run with *ConfigError. Edge ids are sequential in
// emission order.
func Synthesize(store *entity.Store, rules []Rule) ([]hypergraph.Hyperedge, error) {
	if store == nil {
		return nil, &ConfigError{Rule: "synthesize", Reason: "nil entity store"}
	}
	if len(rules) == 0 {
		return nil, &ConfigError{Rule: "synthesize", Reason: "no rules configured"}
	}

	for _, r := range rules {
		if err := r.validate(store); err != nil {
			return nil, err
		}
	}

	var edges []hypergraph.Hyperedge
	var next core.EdgeID
	for _, r := range rules {
		drafts, err := r.apply(store)
		if err != nil {
			return nil, err
		}
		for _, d := range drafts {
			if len(d.nodes) == 0 {
				continue
			}
			edges = append(edges, hypergraph.New(next, d.nodes, d.tag, d.weight))
			next++
		}
	}
	return edges, nil
}
