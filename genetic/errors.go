package genetic

import "errors"

// Contract violations, fatal to the call that raised them
var (
	ErrInvalidRepresentationLength = errors.New("representation length mismatch")
	ErrInvalidRepresentation       = errors.New("gene outside encoding domain")
	ErrUnsupportedChromosome       = errors.New("unsupported chromosome type")
	ErrPopulationOverflow          = errors.New("population at capacity")
	ErrInvalidPopulationLimit      = errors.New("population limit must be positive")
	ErrInvalidEliteCount           = errors.New("elite count out of range")
	ErrInvalidDuration             = errors.New("duration must be non-negative")
	ErrInvalidTimeUnit             = errors.New("unknown time unit")
	ErrInvalidGenerationCount      = errors.New("generation count must be positive")
	ErrInvalidArity                = errors.New("tournament arity must be positive")
	ErrInvalidCrossoverPoints      = errors.New("crossover points must be in [1, length)")
	ErrInvalidRatio                = errors.New("ratio must be in [0, 1]")
	ErrNegativeFitness             = errors.New("fitness-proportional selection requires non-negative fitness")
	ErrInvalidConfig               = errors.New("invalid engine configuration")
	ErrNilEvaluator                = errors.New("nil evaluator")
)

// ErrEmptyPopulation is returned when querying an empty population
var ErrEmptyPopulation = errors.New("population is empty")
