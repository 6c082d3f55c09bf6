package fitness

import (
	"fmt"

	"github.com/lixenwraith/evolution/genetic"
)

// OneMax counts set bits
func OneMax(genes []int) float64 {
	ones := 0
	for _, g := range genes {
		ones += g
	}
	return float64(ones)
}

// LeadingOnes counts consecutive set bits from the start
func LeadingOnes(genes []int) float64 {
	n := 0
	for _, g := range genes {
		if g != 1 {
			break
		}
		n++
	}
	return float64(n)
}

// DeceptiveTrap scores blocks of k bits: a full block scores k, otherwise k-1-ones
// The gradient inside every block points away from the optimum
func DeceptiveTrap(k int) genetic.EvaluatorFunc[int] {
	if k <= 0 {
		panic(fmt.Sprintf("fitness: trap size must be positive, got %d", k))
	}
	return func(genes []int) float64 {
		var fitness float64
		for i := 0; i < len(genes)/k; i++ {
			t := 0
			for j := 0; j < k; j++ {
				t += genes[i*k+j]
			}
			if t == k {
				fitness += float64(t)
			} else {
				fitness += float64(k - t - 1)
			}
		}
		return fitness
	}
}

// Sortedness scores random keys by how many adjacent pairs of the decoded target are in ascending order
// target is the sequence being permuted
func Sortedness(target []int) genetic.EvaluatorFunc[float64] {
	return func(keys []float64) float64 {
		decoded, err := genetic.DecodeKeys(keys, target)
		if err != nil {
			return 0
		}
		ordered := 0
		for i := 1; i < len(decoded); i++ {
			if decoded[i-1] <= decoded[i] {
				ordered++
			}
		}
		return float64(ordered)
	}
}
