package synth

import (
	"sort"

	"github.com/hupe1980/hypergo/core"
)

// nearestNeighbors computes, for every position i in [0,n), the ids of its k
// nearest other positions under dist. Equal distances break by ascending
// entity id so the result is identical across runs.
func nearestNeighbors(n, k int, dist func(i, j int) float32, idOf func(int) core.NodeID) [][]core.NodeID {
	type candidate struct {
		id core.NodeID
		d  float32
	}

	out := make([][]core.NodeID, n)
	candidates := make([]candidate, 0, n-1)

	for i := 0; i < n; i++ {
		candidates = candidates[:0]
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			candidates = append(candidates, candidate{id: idOf(j), d: dist(i, j)})
		}

		sort.Slice(candidates, func(a, b int) bool {
			if candidates[a].d != candidates[b].d {
				return candidates[a].d < candidates[b].d
			}
			return candidates[a].id < candidates[b].id
		})

		neighbors := make([]core.NodeID, 0, k)
		for _, c := range candidates[:k] {
			neighbors = append(neighbors, c.id)
		}
		out[i] = neighbors
	}
	return out
}
