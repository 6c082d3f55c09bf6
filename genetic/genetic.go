package genetic

// Package genetic provides a generational genetic algorithm engine
// 1. Chromosomes are immutable; policies always derive new instances
// 2. Fitness is evaluated lazily once per chromosome and cached
// 3. All randomness flows through an injected RandomSource, so seeded runs are reproducible
// 4. Policies are interfaces, any third-party encoding or operator can plug in

import (
	"fmt"
	"reflect"
)

// --- Selection Policies ---

// TournamentSelection implements tournament selection
// Each parent is the fittest of Arity candidates sampled with replacement
type TournamentSelection struct {
	// Arity is the number of candidates competing in each tournament
	Arity int
}

// Select runs two independent tournaments
func (ts *TournamentSelection) Select(pop *Population, rng RandomSource) (ChromosomePair, error) {
	if pop.Len() == 0 {
		return ChromosomePair{}, ErrEmptyPopulation
	}
	if ts.Arity < 1 {
		return ChromosomePair{}, fmt.Errorf("%w: %d", ErrInvalidArity, ts.Arity)
	}
	return ChromosomePair{
		First:  ts.tournament(pop, rng),
		Second: ts.tournament(pop, rng),
	}, nil
}

func (ts *TournamentSelection) tournament(pop *Population, rng RandomSource) Chromosome {
	n := pop.Len()
	winner := pop.At(rng.IntN(n))
	for i := 1; i < ts.Arity; i++ {
		c := pop.At(rng.IntN(n))
		if CompareFitness(c, winner) > 0 {
			winner = c
		}
	}
	return winner
}

// RouletteSelection implements fitness-proportionate selection
// Chromosomes are selected with probability proportional to their fitness
type RouletteSelection struct{}

// Select spins the wheel twice; a population with zero total fitness is sampled uniformly
func (rs *RouletteSelection) Select(pop *Population, rng RandomSource) (ChromosomePair, error) {
	n := pop.Len()
	if n == 0 {
		return ChromosomePair{}, ErrEmptyPopulation
	}

	total := 0.0
	cumulative := make([]float64, n)
	for i := range n {
		f := pop.At(i).Fitness()
		if f < 0 {
			return ChromosomePair{}, fmt.Errorf("%w: member %d has %v", ErrNegativeFitness, i, f)
		}
		total += f
		cumulative[i] = total
	}

	spin := func() Chromosome {
		if total == 0 {
			return pop.At(rng.IntN(n))
		}
		target := rng.Float64() * total
		for i, cum := range cumulative {
			if target < cum {
				return pop.At(i)
			}
		}
		return pop.At(n - 1)
	}

	return ChromosomePair{First: spin(), Second: spin()}, nil
}

// --- Crossover Policies ---

// listParents checks that both parents share one list encoding and length
func listParents[T any](first, second Chromosome) (ListEncoding[T], ListEncoding[T], error) {
	a, okA := first.(ListEncoding[T])
	b, okB := second.(ListEncoding[T])
	if !okA || !okB || reflect.TypeOf(first) != reflect.TypeOf(second) {
		return nil, nil, fmt.Errorf("%w: cannot cross %T with %T", ErrUnsupportedChromosome, first, second)
	}
	if a.Len() != b.Len() {
		return nil, nil, fmt.Errorf("%w: parents have %d and %d genes", ErrInvalidRepresentationLength, a.Len(), b.Len())
	}
	return a, b, nil
}

// offspring derives children through each parent's own factory
func offspring[T any](a, b ListEncoding[T], genes1, genes2 []T) (ChromosomePair, error) {
	c1, err := a.WithGenes(genes1)
	if err != nil {
		return ChromosomePair{}, err
	}
	c2, err := b.WithGenes(genes2)
	if err != nil {
		return ChromosomePair{}, err
	}
	return ChromosomePair{First: c1, Second: c2}, nil
}

// OnePointCrossover swaps the tails of both parents after one random cut
type OnePointCrossover[T any] struct{}

func (oc *OnePointCrossover[T]) Crossover(first, second Chromosome, rng RandomSource) (ChromosomePair, error) {
	a, b, err := listParents[T](first, second)
	if err != nil {
		return ChromosomePair{}, err
	}
	parent1, parent2 := a.Genes(), b.Genes()
	length := len(parent1)
	if length < 2 {
		return offspring(a, b, parent1, parent2)
	}

	// Cut in [1, length-1] so both segments are non-empty
	cut := 1 + rng.IntN(length-1)

	offspring1 := append(parent1[:cut:cut], parent2[cut:]...)
	offspring2 := append(parent2[:cut:cut], parent1[cut:]...)

	return offspring(a, b, offspring1, offspring2)
}

// NPointCrossover splits parents at Points distinct cuts and alternates segments
type NPointCrossover[T any] struct {
	// Points is the number of crossover points, in [1, length)
	Points int
}

func (nc *NPointCrossover[T]) Crossover(first, second Chromosome, rng RandomSource) (ChromosomePair, error) {
	a, b, err := listParents[T](first, second)
	if err != nil {
		return ChromosomePair{}, err
	}
	parent1, parent2 := a.Genes(), b.Genes()
	length := len(parent1)
	if nc.Points < 1 || nc.Points >= length {
		return ChromosomePair{}, fmt.Errorf("%w: %d points for %d genes", ErrInvalidCrossoverPoints, nc.Points, length)
	}

	// Strictly increasing cuts, each leaving room for the remaining ones
	points := make([]int, 0, nc.Points+1)
	last := 0
	for j := range nc.Points {
		cut := last + 1 + rng.IntN(length-last-(nc.Points-j))
		points = append(points, cut)
		last = cut
	}
	points = append(points, length)

	offspring1 := make([]T, length)
	offspring2 := make([]T, length)

	useParent1 := true
	start := 0
	for _, end := range points {
		for j := start; j < end; j++ {
			if useParent1 {
				offspring1[j] = parent1[j]
				offspring2[j] = parent2[j]
			} else {
				offspring1[j] = parent2[j]
				offspring2[j] = parent1[j]
			}
		}
		useParent1 = !useParent1
		start = end
	}

	return offspring(a, b, offspring1, offspring2)
}

// UniformCrossover performs uniform crossover between parents
// Each position independently keeps its parent's gene with probability MixProbability
type UniformCrossover[T any] struct {
	// MixProbability is the chance of taking from parent 1 vs parent 2
	MixProbability float64
}

func (uc *UniformCrossover[T]) Crossover(first, second Chromosome, rng RandomSource) (ChromosomePair, error) {
	if uc.MixProbability < 0 || uc.MixProbability > 1 {
		return ChromosomePair{}, fmt.Errorf("%w: mix probability %v", ErrInvalidRatio, uc.MixProbability)
	}
	a, b, err := listParents[T](first, second)
	if err != nil {
		return ChromosomePair{}, err
	}
	parent1, parent2 := a.Genes(), b.Genes()
	length := len(parent1)

	offspring1 := make([]T, length)
	offspring2 := make([]T, length)

	for i := range length {
		if rng.Float64() < uc.MixProbability {
			offspring1[i] = parent1[i]
			offspring2[i] = parent2[i]
		} else {
			offspring1[i] = parent2[i]
			offspring2[i] = parent1[i]
		}
	}

	return offspring(a, b, offspring1, offspring2)
}

// OrderedCrossover implements order crossover (OX) for permutation encodings
// A random segment is copied from one parent, the rest is filled in the other parent's order
// Parents must hold the same multiset of genes
type OrderedCrossover[T comparable] struct{}

func (oc *OrderedCrossover[T]) Crossover(first, second Chromosome, rng RandomSource) (ChromosomePair, error) {
	a, b, err := listParents[T](first, second)
	if err != nil {
		return ChromosomePair{}, err
	}
	parent1, parent2 := a.Genes(), b.Genes()
	length := len(parent1)
	if length < 2 {
		return offspring(a, b, parent1, parent2)
	}

	if !sameMultiset(parent1, parent2) {
		return ChromosomePair{}, fmt.Errorf("%w: ordered crossover parents are not permutations of each other", ErrInvalidRepresentation)
	}

	// Segment [lo, hi) is never empty
	lo, hi := rng.IntN(length), rng.IntN(length)
	if lo > hi {
		lo, hi = hi, lo
	}
	hi++

	offspring1 := orderedChild(parent1, parent2, lo, hi)
	offspring2 := orderedChild(parent2, parent1, lo, hi)

	return offspring(a, b, offspring1, offspring2)
}

func sameMultiset[T comparable](a, b []T) bool {
	counts := make(map[T]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		if counts[v] == 0 {
			return false
		}
		counts[v]--
	}
	return true
}

// orderedChild copies donor[lo:hi] and fills the remaining positions, starting at hi, from filler
// donor and filler must hold the same multiset
func orderedChild[T comparable](donor, filler []T, lo, hi int) []T {
	n := len(donor)
	child := make([]T, n)
	taken := make(map[T]int, hi-lo)
	for i := lo; i < hi; i++ {
		child[i] = donor[i]
		taken[donor[i]]++
	}

	pos := hi % n
	for i := range n {
		v := filler[(hi+i)%n]
		if taken[v] > 0 {
			taken[v]--
			continue
		}
		child[pos] = v
		pos = (pos + 1) % n
	}

	return child
}
