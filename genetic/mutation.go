package genetic

import "fmt"

// --- Mutation Policies ---

// BinaryMutation flips one uniformly chosen bit of a binary chromosome
type BinaryMutation struct{}

// Mutate returns a new chromosome differing from c in exactly one gene
func (m *BinaryMutation) Mutate(c Chromosome, rng RandomSource) (Chromosome, error) {
	bc, ok := c.(*BinaryChromosome)
	if !ok {
		return nil, fmt.Errorf("%w: binary mutation got %T", ErrUnsupportedChromosome, c)
	}
	genes := bc.Genes()
	if len(genes) == 0 {
		return bc.WithGenes(genes)
	}

	i := rng.IntN(len(genes))
	genes[i] ^= 1

	return bc.WithGenes(genes)
}

// RandomKeyMutation redraws one uniformly chosen key of a random-key chromosome
type RandomKeyMutation struct{}

// Mutate returns a new chromosome with one key replaced by a fresh draw in [0, 1)
func (m *RandomKeyMutation) Mutate(c Chromosome, rng RandomSource) (Chromosome, error) {
	rc, ok := c.(*RandomKeyChromosome)
	if !ok {
		return nil, fmt.Errorf("%w: random key mutation got %T", ErrUnsupportedChromosome, c)
	}
	keys := rc.Genes()
	if len(keys) == 0 {
		return rc.WithGenes(keys)
	}

	i := rng.IntN(len(keys))
	keys[i] = rng.Float64()

	return rc.WithGenes(keys)
}
