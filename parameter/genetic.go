package parameter

// GeneticPersistencePath is the directory for population snapshot files
const GeneticPersistencePath = "./config/genetic"

// Genetic Algorithm - Engine Configuration
const (
	// GAPoolSize is the number of chromosomes in each population
	GAPoolSize = 32

	// GAEliteCount is preserved best performers per generation
	GAEliteCount = 4

	// GACrossoverRate is probability of recombining a selected pair (0.0-1.0)
	GACrossoverRate = 0.9

	// GAMutationRate is probability of mutating each offspring (0.0-1.0)
	GAMutationRate = 0.2

	// GAParallelism bounds concurrent fitness evaluations, 0 runs them inline
	GAParallelism = 4

	// GATournamentSize for selection pressure
	GATournamentSize = 3

	// GACrossoverMixProbability for uniform crossover
	GACrossoverMixProbability = 0.5

	// GACrossoverPoints for n-point crossover
	GACrossoverPoints = 2
)

// Genetic Algorithm - Stopping Default
const (
	// GAMaxGenerations caps runs configured without an explicit stopping condition
	GAMaxGenerations = 1000
)
