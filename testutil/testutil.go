package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/hupe1980/hypergo/core"
	"github.com/hupe1980/hypergo/entity"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns a pseudo-random number in [0,1).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// NormFloat64 returns a standard-normal pseudo-random number.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// GaussianVectors generates random vectors with values from a standard normal
// distribution. Uses a single backing array for efficiency.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		vectors[i] = vec
	}

	return vectors
}

// PopulationConfig controls the synthetic population generator. Zero fields
// take the listed defaults.
type PopulationConfig struct {
	Groups       int     // latent true groups (default 3)
	PerGroup     int     // entities per group (default 10)
	TraitDim     int     // trait vector dimensionality (default 4)
	Environments int     // environment count, assigned round-robin (default 2)
	Spread       float32 // trait noise around the group centroid (default 0.25)
}

func (c PopulationConfig) withDefaults() PopulationConfig {
	if c.Groups == 0 {
		c.Groups = 3
	}
	if c.PerGroup == 0 {
		c.PerGroup = 10
	}
	if c.TraitDim == 0 {
		c.TraitDim = 4
	}
	if c.Environments == 0 {
		c.Environments = 2
	}
	if c.Spread == 0 {
		c.Spread = 0.25
	}
	return c
}

// Population generates a deterministic synthetic population with known latent
// structure: entities of the same group share a family, cluster around a
// common trait centroid, and sit close in genetic distance. Sequential ids
// starting at 0.
func Population(t *testing.T, r *RNG, cfg PopulationConfig) *entity.Store {
	t.Helper()
	cfg = cfg.withDefaults()

	n := cfg.Groups * cfg.PerGroup
	centroids := r.GaussianVectors(cfg.Groups, cfg.TraitDim)
	for _, c := range centroids {
		// Scale centroids apart so groups are separable at the given spread.
		for j := range c {
			c[j] *= 4
		}
	}

	entities := make([]entity.Entity, 0, n)
	groupOf := make([]int, n)
	for g := 0; g < cfg.Groups; g++ {
		for m := 0; m < cfg.PerGroup; m++ {
			id := core.NodeID(g*cfg.PerGroup + m)
			groupOf[id] = g

			traits := make([]float32, cfg.TraitDim)
			for j := range traits {
				traits[j] = centroids[g][j] + float32(r.NormFloat64())*cfg.Spread
			}

			entities = append(entities, entity.Entity{
				ID:          id,
				Traits:      traits,
				Family:      fmt.Sprintf("f%d", g),
				Environment: fmt.Sprintf("e%d", int(id)%cfg.Environments),
				TrueGroup:   fmt.Sprintf("g%d", g),
			})
		}
	}

	// Genetic distances: small within a group, large across, symmetric with
	// a zero diagonal.
	genetic := make([][]float32, n)
	for i := range genetic {
		genetic[i] = make([]float32, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			base := float32(1.0)
			if groupOf[i] == groupOf[j] {
				base = 0.2
			}
			d := base + r.Float32()*0.05
			genetic[i][j] = d
			genetic[j][i] = d
		}
	}

	store, err := entity.Load(entities, entity.WithGeneticMatrix(genetic))
	if err != nil {
		t.Fatalf("load synthetic population: %v", err)
	}
	return store
}
