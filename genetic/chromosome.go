package genetic

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// fitnessCell is the only mutable part of a chromosome
// The objective runs at most once even under concurrent Fitness calls
type fitnessCell struct {
	mu    sync.Mutex
	score float64
	ok    bool
}

func (c *fitnessCell) resolve(evaluate func() float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok {
		c.score = evaluate()
		c.ok = true
	}
	return c.score
}

func (c *fitnessCell) cached() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score, c.ok
}

func (c *fitnessCell) adopt(score float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		return false
	}
	c.score = score
	c.ok = true
	return true
}

// ListChromosome is a fixed-length gene sequence with a cached objective
// It is the generic encoding; concrete encodings embed it and override IsSame and WithGenes
type ListChromosome[T any] struct {
	genes     []T
	evaluator EvaluatorFunc[T]
	cache     fitnessCell
}

// NewListChromosome copies genes into a new chromosome scored by evaluator
func NewListChromosome[T any](genes []T, evaluator EvaluatorFunc[T]) (*ListChromosome[T], error) {
	c := &ListChromosome[T]{}
	if err := c.init(genes, evaluator); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ListChromosome[T]) init(genes []T, evaluator EvaluatorFunc[T]) error {
	if evaluator == nil {
		return ErrNilEvaluator
	}
	c.genes = slices.Clone(genes)
	c.evaluator = evaluator
	return nil
}

func (c *ListChromosome[T]) Fitness() float64 {
	return c.cache.resolve(func() float64 { return c.evaluator(c.genes) })
}

func (c *ListChromosome[T]) CachedFitness() (float64, bool) {
	return c.cache.cached()
}

func (c *ListChromosome[T]) AdoptFitness(score float64) bool {
	return c.cache.adopt(score)
}

func (c *ListChromosome[T]) Len() int {
	return len(c.genes)
}

// Gene returns the gene at index i
func (c *ListChromosome[T]) Gene(i int) T {
	return c.genes[i]
}

// Genes returns a copy of the representation
func (c *ListChromosome[T]) Genes() []T {
	return slices.Clone(c.genes)
}

// Evaluator returns the objective shared by derived chromosomes
func (c *ListChromosome[T]) Evaluator() EvaluatorFunc[T] {
	return c.evaluator
}

// IsSame is never true for the generic encoding, so fitness is always recomputed
func (c *ListChromosome[T]) IsSame(other Chromosome) bool {
	return false
}

// WithGenes derives a chromosome with the same objective
func (c *ListChromosome[T]) WithGenes(genes []T) (Chromosome, error) {
	if err := c.checkLength(genes); err != nil {
		return nil, err
	}
	derived, err := NewListChromosome(genes, c.evaluator)
	if err != nil {
		return nil, err
	}
	return derived, nil
}

func (c *ListChromosome[T]) checkLength(genes []T) error {
	if len(genes) != len(c.genes) {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidRepresentationLength, len(genes), len(c.genes))
	}
	return nil
}

// --- Ordering and Fitness Sharing ---

// CompareFitness orders chromosomes ascending by fitness
func CompareFitness(a, b Chromosome) int {
	return cmp.Compare(a.Fitness(), b.Fitness())
}

// FindEquivalent returns a member of pop that is the same as c and already has a cached fitness
// c itself is never returned
func FindEquivalent(c Chromosome, pop *Population) (Chromosome, bool) {
	if pop == nil {
		return nil, false
	}
	for _, m := range pop.members {
		if m == c {
			continue
		}
		if _, ok := m.CachedFitness(); !ok {
			continue
		}
		if c.IsSame(m) {
			return m, true
		}
	}
	return nil, false
}

// ReconcileFitness copies the fitness of an equivalent member of pop into c
// Reports whether a fitness was adopted; an already computed fitness is never replaced
func ReconcileFitness(c Chromosome, pop *Population) bool {
	if _, ok := c.CachedFitness(); ok {
		return false
	}
	m, ok := FindEquivalent(c, pop)
	if !ok {
		return false
	}
	score, _ := m.CachedFitness()
	return c.AdoptFitness(score)
}
