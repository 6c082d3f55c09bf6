package genetic

import (
	"fmt"
	"slices"
)

// BinaryChromosome encodes a solution as a sequence of 0/1 genes
type BinaryChromosome struct {
	ListChromosome[int]
}

// NewBinaryChromosome validates that every gene is 0 or 1
func NewBinaryChromosome(genes []int, evaluator EvaluatorFunc[int]) (*BinaryChromosome, error) {
	for i, g := range genes {
		if g != 0 && g != 1 {
			return nil, fmt.Errorf("%w: binary gene %d is %d", ErrInvalidRepresentation, i, g)
		}
	}
	c := &BinaryChromosome{}
	if err := c.init(genes, evaluator); err != nil {
		return nil, err
	}
	return c, nil
}

// RandomBinary draws length uniform bits
func RandomBinary(length int, rng RandomSource) []int {
	genes := make([]int, length)
	for i := range genes {
		genes[i] = rng.IntN(2)
	}
	return genes
}

// WithGenes derives a binary chromosome sharing this objective
func (c *BinaryChromosome) WithGenes(genes []int) (Chromosome, error) {
	if err := c.checkLength(genes); err != nil {
		return nil, err
	}
	derived, err := NewBinaryChromosome(genes, c.evaluator)
	if err != nil {
		return nil, err
	}
	return derived, nil
}

// IsSame is true for binary chromosomes with identical genes
func (c *BinaryChromosome) IsSame(other Chromosome) bool {
	o, ok := other.(*BinaryChromosome)
	if !ok {
		return false
	}
	return slices.Equal(c.genes, o.genes)
}

func (c *BinaryChromosome) String() string {
	return fmt.Sprintf("%v", c.genes)
}
