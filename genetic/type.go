package genetic

// --- Core Function Types ---

// EvaluatorFunc calculates the fitness of a gene sequence (higher = better)
// Must be pure: the engine caches its result per chromosome instance
type EvaluatorFunc[T any] func(genes []T) float64

// --- Core Interfaces ---

// Chromosome is an immutable candidate solution with a lazily computed, cached fitness
type Chromosome interface {
	// Fitness returns the cached score, evaluating the objective on first access
	Fitness() float64
	// CachedFitness returns the score without evaluating, ok is false if not yet computed
	CachedFitness() (score float64, ok bool)
	// AdoptFitness stores score only if no fitness is cached yet, reports whether it was stored
	AdoptFitness(score float64) bool
	// Len is the fixed representation length
	Len() int
	// IsSame reports encoding-specific equivalence, used to share fitness between instances
	IsSame(other Chromosome) bool
}

// ListEncoding is a chromosome backed by a fixed-length gene sequence of T
// Crossover policies operate on this capability without knowing the concrete encoding
type ListEncoding[T any] interface {
	Chromosome
	// Genes returns a copy of the representation
	Genes() []T
	// WithGenes derives a new chromosome of the same encoding and objective
	WithGenes(genes []T) (Chromosome, error)
}

// ChromosomePair is the unit produced by selection and crossover
type ChromosomePair struct {
	First  Chromosome
	Second Chromosome
}

// --- Policies ---

// SelectionPolicy picks two parents from a population
type SelectionPolicy interface {
	Select(pop *Population, rng RandomSource) (ChromosomePair, error)
}

// CrossoverPolicy recombines two parents into two offspring of the same length
type CrossoverPolicy interface {
	Crossover(first, second Chromosome, rng RandomSource) (ChromosomePair, error)
}

// MutationPolicy derives a perturbed chromosome, never modifying the input
type MutationPolicy interface {
	Mutate(c Chromosome, rng RandomSource) (Chromosome, error)
}

// StoppingCondition decides when evolution terminates
// Implementations may carry state across calls
type StoppingCondition interface {
	IsSatisfied(pop *Population) bool
}

// Observer receives a report after every completed generation
type Observer interface {
	OnGeneration(report GenerationReport)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(report GenerationReport)

func (f ObserverFunc) OnGeneration(report GenerationReport) { f(report) }
