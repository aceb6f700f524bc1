package cluster

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/hypergo/hypergraph"
)

// gainEps guards against float noise: a move must improve Q by more than
// this to count as a strictly positive gain.
const gainEps = 1e-12

// ledge is a level-local hyperedge: node positions within the level, sorted.
type ledge struct {
	nodes []int
	w     float64
}

// level holds the working representation for one optimization level, either
// the original hypergraph or a contracted super-node hypergraph.
type level struct {
	cfg Config

	n         int
	edges     []ledge
	nodeEdges [][]int
	nodeDeg   []float64
	totalVol  float64
	totalW    float64
	sizeW     map[int]float64 // edge size d -> Σ w(e)
	sizes     []int           // distinct edge sizes, ascending

	// Mutable partition state. Community ids are level-local and < n.
	comm     []int
	commSize []int
	commVol  []float64
	edgeComm []map[int]int // per edge: community -> member count
}

func newLevel(n int, edges []ledge, cfg Config) *level {
	l := &level{
		cfg:       cfg,
		n:         n,
		edges:     edges,
		nodeEdges: make([][]int, n),
		nodeDeg:   make([]float64, n),
		sizeW:     make(map[int]float64),
	}
	for i, e := range edges {
		l.totalW += e.w
		l.sizeW[len(e.nodes)] += e.w
		for _, v := range e.nodes {
			l.nodeEdges[v] = append(l.nodeEdges[v], i)
			l.nodeDeg[v] += e.w
			l.totalVol += e.w
		}
	}
	for d := range l.sizeW {
		l.sizes = append(l.sizes, d)
	}
	sort.Ints(l.sizes)

	l.resetSingletons()
	return l
}

func levelFromStructure(s *hypergraph.Structure, cfg Config) *level {
	edges := make([]ledge, s.NumEdges())
	for i := 0; i < s.NumEdges(); i++ {
		edges[i] = ledge{
			nodes: s.EdgeNodePositions(i),
			w:     float64(s.Edge(i).Weight),
		}
	}
	return newLevel(s.NumNodes(), edges, cfg)
}

// resetSingletons puts every node in its own community (finest partition).
func (l *level) resetSingletons() {
	l.comm = make([]int, l.n)
	l.commSize = make([]int, l.n)
	l.commVol = make([]float64, l.n)
	for v := 0; v < l.n; v++ {
		l.comm[v] = v
		l.commSize[v] = 1
		l.commVol[v] = l.nodeDeg[v]
	}
	l.rebuildEdgeComm()
}

// setCommunities installs an explicit assignment (used when scoring a given
// partition rather than optimizing one).
func (l *level) setCommunities(comm []int) {
	l.comm = comm
	l.commSize = make([]int, l.n)
	l.commVol = make([]float64, l.n)
	for v := 0; v < l.n; v++ {
		c := comm[v]
		l.commSize[c]++
		l.commVol[c] += l.nodeDeg[v]
	}
	l.rebuildEdgeComm()
}

func (l *level) rebuildEdgeComm() {
	l.edgeComm = make([]map[int]int, len(l.edges))
	for i, e := range l.edges {
		counts := make(map[int]int)
		for _, v := range e.nodes {
			counts[l.comm[v]]++
		}
		l.edgeComm[i] = counts
	}
}

// edgeF evaluates the homogeneity function on one edge's community counts.
func (l *level) edgeF(counts map[int]int, size int) float64 {
	maxCount := 0
	for _, cnt := range counts {
		if cnt > maxCount {
			maxCount = cnt
		}
	}
	return l.scoreMax(maxCount, size)
}

// edgeFMoved evaluates edgeF as if one member moved from community `from` to
// community `to`, without mutating counts.
func (l *level) edgeFMoved(counts map[int]int, size, from, to int) float64 {
	maxCount := 0
	for c, cnt := range counts {
		if c == from {
			cnt--
		}
		if c == to {
			cnt++
		}
		if cnt > maxCount {
			maxCount = cnt
		}
	}
	if _, ok := counts[to]; !ok && maxCount < 1 {
		maxCount = 1
	}
	return l.scoreMax(maxCount, size)
}

func (l *level) scoreMax(maxCount, size int) float64 {
	switch l.cfg.Homogeneity {
	case Majority:
		frac := float64(maxCount) / float64(size)
		if frac > l.cfg.MajorityThreshold {
			return frac
		}
		return 0
	default: // Strict
		if maxCount == size {
			return 1
		}
		return 0
	}
}

// coverage computes Σ w(e)·f(e,C). With Parallelism > 1 the per-edge terms
// are evaluated concurrently; chunk sums combine in fixed order so the result
// is bit-identical to the serial one.
func (l *level) coverage() float64 {
	workers := l.cfg.Parallelism
	if workers <= 1 || len(l.edges) < 2*workers {
		var sum float64
		for i, e := range l.edges {
			sum += e.w * l.edgeF(l.edgeComm[i], len(e.nodes))
		}
		return sum
	}

	chunk := (len(l.edges) + workers - 1) / workers
	partials := make([]float64, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(l.edges))
		if lo >= hi {
			break
		}
		g.Go(func() error {
			var sum float64
			for i := lo; i < hi; i++ {
				sum += l.edges[i].w * l.edgeF(l.edgeComm[i], len(l.edges[i].nodes))
			}
			partials[w] = sum
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	var sum float64
	for _, p := range partials {
		sum += p
	}
	return sum
}

// expectedAll computes Σ_d W_d Σ_c E_d(c) over all non-empty communities.
func (l *level) expectedAll() float64 {
	var sum float64
	for c := 0; c < l.n; c++ {
		if l.commSize[c] == 0 {
			continue
		}
		sum += l.expectComm(l.commSize[c], l.commVol[c])
	}
	return sum
}

// expectComm is one community's share of the expectation term, summed over
// the edge-size distribution.
func (l *level) expectComm(csize int, cvol float64) float64 {
	var sum float64
	for _, d := range l.sizes {
		sum += l.sizeW[d] * l.expectEdge(d, csize, cvol)
	}
	return sum
}

// expectEdge is E[f] for a random edge of size d falling into a community of
// csize nodes and cvol volume, under the configured null model.
func (l *level) expectEdge(d, csize int, cvol float64) float64 {
	if csize == 0 {
		return 0
	}

	switch l.cfg.Homogeneity {
	case Majority:
		// Sum the graded score j/d over member counts j that strictly exceed
		// the threshold fraction.
		jmin := int(math.Floor(float64(d)*l.cfg.MajorityThreshold)) + 1
		var sum float64
		for j := jmin; j <= d; j++ {
			sum += float64(j) / float64(d) * l.memberProb(d, j, csize, cvol)
		}
		return sum
	default: // Strict: only the fully-contained case contributes.
		return l.memberProb(d, d, csize, cvol)
	}
}

// memberProb is P[j of d endpoints land in the community] under the null
// model.
func (l *level) memberProb(d, j, csize int, cvol float64) float64 {
	switch l.cfg.NullModel {
	case UniformNull:
		// Hypergeometric over node counts: the edge is reassigned uniformly
		// among size-d subsets of the n nodes.
		if j > csize || d-j > l.n-csize {
			return 0
		}
		return math.Exp(logChoose(csize, j) + logChoose(l.n-csize, d-j) - logChoose(l.n, d))
	default: // DegreeNull
		if l.totalVol == 0 {
			return 0
		}
		p := cvol / l.totalVol
		switch {
		case p <= 0:
			if j == 0 {
				return 1
			}
			return 0
		case p >= 1:
			if j == d {
				return 1
			}
			return 0
		}
		return math.Exp(logChoose(d, j) + float64(j)*math.Log(p) + float64(d-j)*math.Log(1-p))
	}
}

// modularity computes Q for the current assignment.
func (l *level) modularity() float64 {
	if l.totalW == 0 {
		return 0
	}
	return (l.coverage() - l.expectedAll()) / l.totalW
}

// gain is the marginal change in Q from moving node v from community `from`
// to community `to`. Pure: no state is mutated, so gains for several
// candidates can be evaluated concurrently.
func (l *level) gain(v, from, to int) float64 {
	if from == to {
		return 0
	}

	var dCoverage float64
	for _, ei := range l.nodeEdges[v] {
		e := l.edges[ei]
		counts := l.edgeComm[ei]
		before := l.edgeF(counts, len(e.nodes))
		after := l.edgeFMoved(counts, len(e.nodes), from, to)
		dCoverage += e.w * (after - before)
	}

	deg := l.nodeDeg[v]
	before := l.expectComm(l.commSize[from], l.commVol[from]) +
		l.expectComm(l.commSize[to], l.commVol[to])
	after := l.expectComm(l.commSize[from]-1, l.commVol[from]-deg) +
		l.expectComm(l.commSize[to]+1, l.commVol[to]+deg)

	return (dCoverage - (after - before)) / l.totalW
}

// move reassigns node v to community `to` and updates all incremental state.
func (l *level) move(v, to int) {
	from := l.comm[v]
	if from == to {
		return
	}
	l.comm[v] = to
	l.commSize[from]--
	l.commSize[to]++
	l.commVol[from] -= l.nodeDeg[v]
	l.commVol[to] += l.nodeDeg[v]

	for _, ei := range l.nodeEdges[v] {
		counts := l.edgeComm[ei]
		counts[from]--
		if counts[from] == 0 {
			delete(counts, from)
		}
		counts[to]++
	}
}

// candidates returns the communities held by v's hyperedge co-members,
// ascending, excluding v's current community.
func (l *level) candidates(v int) []int {
	from := l.comm[v]
	set := make(map[int]struct{})
	for _, ei := range l.nodeEdges[v] {
		for c := range l.edgeComm[ei] {
			if c != from {
				set[c] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// logChoose returns ln C(n, k), 0-safe.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	if k == 0 || k == n {
		return 0
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}
