package genetic

import (
	"cmp"
	"fmt"
	"slices"
)

// RandomKeyChromosome encodes a permutation as real keys in [0, 1)
// Only the rank order of the keys is meaningful: decoding sorts positions by key
type RandomKeyChromosome struct {
	ListChromosome[float64]
	// permutation is the decoded rank order, fixed at construction
	permutation []int
}

// NewRandomKeyChromosome validates that every key lies in [0, 1)
func NewRandomKeyChromosome(keys []float64, evaluator EvaluatorFunc[float64]) (*RandomKeyChromosome, error) {
	for i, k := range keys {
		if k < 0 || k >= 1 {
			return nil, fmt.Errorf("%w: random key %d is %v", ErrInvalidRepresentation, i, k)
		}
	}
	c := &RandomKeyChromosome{}
	if err := c.init(keys, evaluator); err != nil {
		return nil, err
	}
	c.permutation = rankOrder(c.genes)
	return c, nil
}

// rankOrder returns gene positions sorted by ascending key, ties kept in position order
func rankOrder(keys []float64) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	return order
}

// WithGenes derives a random-key chromosome sharing this objective
func (c *RandomKeyChromosome) WithGenes(keys []float64) (Chromosome, error) {
	if err := c.checkLength(keys); err != nil {
		return nil, err
	}
	derived, err := NewRandomKeyChromosome(keys, c.evaluator)
	if err != nil {
		return nil, err
	}
	return derived, nil
}

// Permutation returns the decoded rank order: element i is the position of the i-th smallest key
func (c *RandomKeyChromosome) Permutation() []int {
	return slices.Clone(c.permutation)
}

// IsSame is true when both chromosomes decode to the same permutation
func (c *RandomKeyChromosome) IsSame(other Chromosome) bool {
	o, ok := other.(*RandomKeyChromosome)
	if !ok {
		return false
	}
	return slices.Equal(c.permutation, o.permutation)
}

func (c *RandomKeyChromosome) String() string {
	return fmt.Sprintf("%v", c.permutation)
}

// --- Codec ---

// Decode reorders sequence by the chromosome's permutation
func Decode[S any](c *RandomKeyChromosome, sequence []S) ([]S, error) {
	if len(sequence) != c.Len() {
		return nil, fmt.Errorf("%w: sequence has %d elements, chromosome %d",
			ErrInvalidRepresentationLength, len(sequence), c.Len())
	}
	decoded := make([]S, len(sequence))
	for i, pos := range c.permutation {
		decoded[i] = sequence[pos]
	}
	return decoded, nil
}

// DecodeKeys reorders sequence by the rank order of keys without building a chromosome
func DecodeKeys[S any](keys []float64, sequence []S) ([]S, error) {
	if len(sequence) != len(keys) {
		return nil, fmt.Errorf("%w: sequence has %d elements, keys %d",
			ErrInvalidRepresentationLength, len(sequence), len(keys))
	}
	decoded := make([]S, len(sequence))
	for i, pos := range rankOrder(keys) {
		decoded[i] = sequence[pos]
	}
	return decoded, nil
}

// RandomKeys draws length uniform keys
func RandomKeys(length int, rng RandomSource) []float64 {
	keys := make([]float64, length)
	for i := range keys {
		keys[i] = rng.Float64()
	}
	return keys
}

// IdentityKeys returns keys that decode to the identity permutation
func IdentityKeys(length int) []float64 {
	keys := make([]float64, length)
	for i := range keys {
		keys[i] = float64(i) / float64(length)
	}
	return keys
}

// InducedKeys returns keys that decode original into permuted
// permuted must contain exactly the elements of original
func InducedKeys[S comparable](original, permuted []S) ([]float64, error) {
	if len(original) != len(permuted) {
		return nil, fmt.Errorf("%w: original has %d elements, permuted %d",
			ErrInvalidRepresentationLength, len(original), len(permuted))
	}
	n := len(original)
	keys := make([]float64, n)
	used := make([]bool, n)

	for i, v := range permuted {
		idx := -1
		for j, o := range original {
			if !used[j] && o == v {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: permuted element %d is not in original", ErrInvalidRepresentation, i)
		}
		used[idx] = true
		keys[idx] = float64(i) / float64(n)
	}
	return keys, nil
}

// SortingKeys returns keys that decode data into ascending order under cmpFn
func SortingKeys[S comparable](data []S, cmpFn func(a, b S) int) []float64 {
	sorted := slices.Clone(data)
	slices.SortStableFunc(sorted, cmpFn)
	keys, _ := InducedKeys(data, sorted)
	return keys
}
