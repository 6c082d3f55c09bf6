package genetic

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws, failing the test when a script runs out
type scriptedSource struct {
	t      *testing.T
	ints   []int
	floats []float64
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	require.NotEmpty(s.t, s.ints, "IntN script exhausted")
	v := s.ints[0]
	s.ints = s.ints[1:]
	require.Less(s.t, v, n, "scripted IntN out of range")
	return v
}

func (s *scriptedSource) Float64() float64 {
	s.t.Helper()
	require.NotEmpty(s.t, s.floats, "Float64 script exhausted")
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// counter wraps an objective and counts invocations, safe for parallel evaluation
type counter[T any] struct {
	calls atomic.Int64
	fn    EvaluatorFunc[T]
}

func (c *counter[T]) eval(genes []T) float64 {
	c.calls.Add(1)
	return c.fn(genes)
}

func ones(genes []int) float64 {
	sum := 0
	for _, g := range genes {
		sum += g
	}
	return float64(sum)
}

func firstKey(keys []float64) float64 {
	return keys[0]
}

func mustBinary(t *testing.T, genes []int, eval EvaluatorFunc[int]) *BinaryChromosome {
	t.Helper()
	c, err := NewBinaryChromosome(genes, eval)
	require.NoError(t, err)
	return c
}

func mustRandomKey(t *testing.T, keys []float64, eval EvaluatorFunc[float64]) *RandomKeyChromosome {
	t.Helper()
	c, err := NewRandomKeyChromosome(keys, eval)
	require.NoError(t, err)
	return c
}

// randomBinaryPopulation fills a population of the given limit with random bit strings
func randomBinaryPopulation(t *testing.T, limit, length int, rng RandomSource, eval EvaluatorFunc[int]) *Population {
	t.Helper()
	pop, err := NewPopulation(limit)
	require.NoError(t, err)
	for range limit {
		require.NoError(t, pop.Add(mustBinary(t, RandomBinary(length, rng), eval)))
	}
	return pop
}

func genesOf(t *testing.T, pop *Population) [][]int {
	t.Helper()
	out := make([][]int, 0, pop.Len())
	for c := range pop.All() {
		bc, ok := c.(*BinaryChromosome)
		require.True(t, ok)
		out = append(out, bc.Genes())
	}
	return out
}
