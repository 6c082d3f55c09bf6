package genetic

import (
	"fmt"
	"iter"
	"slices"
)

// Population is an ordered, capacity-bounded collection of chromosomes
// One population exists per generation; the engine never mutates a population it has replaced
type Population struct {
	members []Chromosome
	limit   int
}

// PopulationStats contains fitness statistics of a population
type PopulationStats struct {
	Best    float64
	Worst   float64
	Average float64
	Size    int
}

// NewPopulation creates an empty population holding at most limit chromosomes
func NewPopulation(limit int) (*Population, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPopulationLimit, limit)
	}
	return &Population{
		members: make([]Chromosome, 0, limit),
		limit:   limit,
	}, nil
}

// NewPopulationFrom creates a population seeded with chromosomes in order
func NewPopulationFrom(limit int, chromosomes ...Chromosome) (*Population, error) {
	p, err := NewPopulation(limit)
	if err != nil {
		return nil, err
	}
	for _, c := range chromosomes {
		if err := p.Add(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends c, failing once the population is full
func (p *Population) Add(c Chromosome) error {
	if len(p.members) >= p.limit {
		return fmt.Errorf("%w: limit %d", ErrPopulationOverflow, p.limit)
	}
	p.members = append(p.members, c)
	return nil
}

func (p *Population) Len() int   { return len(p.members) }
func (p *Population) Limit() int { return p.limit }
func (p *Population) Full() bool { return len(p.members) >= p.limit }

// At returns the i-th chromosome in insertion order
func (p *Population) At(i int) Chromosome {
	return p.members[i]
}

// All iterates chromosomes in insertion order
func (p *Population) All() iter.Seq[Chromosome] {
	return func(yield func(Chromosome) bool) {
		for _, c := range p.members {
			if !yield(c) {
				return
			}
		}
	}
}

// Members returns a copy of the chromosome slice
func (p *Population) Members() []Chromosome {
	return slices.Clone(p.members)
}

// Fittest returns the chromosome with the highest fitness, earliest on ties
func (p *Population) Fittest() (Chromosome, error) {
	if len(p.members) == 0 {
		return nil, ErrEmptyPopulation
	}
	best := p.members[0]
	for _, c := range p.members[1:] {
		if CompareFitness(c, best) > 0 {
			best = c
		}
	}
	return best, nil
}

// Elite returns the k fittest chromosomes, best first, insertion order on ties
func (p *Population) Elite(k int) []Chromosome {
	k = min(max(k, 0), len(p.members))
	if k == 0 {
		return nil
	}
	ranked := slices.Clone(p.members)
	slices.SortStableFunc(ranked, func(a, b Chromosome) int {
		return CompareFitness(b, a)
	})
	return ranked[:k]
}

// NextGeneration returns an empty population with the same limit carrying the eliteCount fittest
// The receiver is left unchanged
func (p *Population) NextGeneration(eliteCount int) (*Population, error) {
	if eliteCount < 0 || eliteCount > p.limit {
		return nil, fmt.Errorf("%w: %d with limit %d", ErrInvalidEliteCount, eliteCount, p.limit)
	}
	next := &Population{
		members: make([]Chromosome, 0, p.limit),
		limit:   p.limit,
	}
	next.members = append(next.members, p.Elite(eliteCount)...)
	return next, nil
}

// Stats computes fitness statistics, evaluating any chromosome not yet scored
func (p *Population) Stats() PopulationStats {
	if len(p.members) == 0 {
		return PopulationStats{}
	}

	first := p.members[0].Fitness()
	stats := PopulationStats{
		Best:  first,
		Worst: first,
		Size:  len(p.members),
	}

	total := 0.0
	for _, c := range p.members {
		f := c.Fitness()
		if f > stats.Best {
			stats.Best = f
		}
		if f < stats.Worst {
			stats.Worst = f
		}
		total += f
	}
	stats.Average = total / float64(len(p.members))

	return stats
}
