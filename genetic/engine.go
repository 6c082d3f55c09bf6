package genetic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/evolution/parameter"
)

// configValidate checks EngineConfig struct tags
var configValidate = validator.New()

// --- Algorithm Engine ---

// State is the engine's position in the generational loop
type State int

const (
	StateReady State = iota
	StateEvolving
	StateTerminated
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateEvolving:
		return "evolving"
	case StateTerminated:
		return "terminated"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// EngineConfig holds configuration parameters for the algorithm
type EngineConfig struct {
	// CrossoverRate is the probability of recombining a selected pair (0-1)
	CrossoverRate float64 `toml:"crossover_rate" validate:"gte=0,lte=1"`
	// MutationRate is the probability of mutating each offspring (0-1)
	MutationRate float64 `toml:"mutation_rate" validate:"gte=0,lte=1"`
	// EliteCount is the number of best chromosomes carried over unchanged
	EliteCount int `toml:"elite_count" validate:"gte=0"`
	// Parallelism bounds concurrent fitness evaluations, 0 or 1 evaluates inline
	Parallelism int `toml:"parallelism" validate:"gte=0"`
	// ReconcileFitness copies fitness from equivalent parents into offspring before evaluation
	ReconcileFitness bool `toml:"reconcile_fitness"`
}

// DefaultConfig returns a reasonable default configuration
func DefaultConfig() EngineConfig {
	return EngineConfig{
		CrossoverRate: parameter.GACrossoverRate,
		MutationRate:  parameter.GAMutationRate,
		EliteCount:    parameter.GAEliteCount,
		Parallelism:   parameter.GAParallelism,
	}
}

// Validate checks rates and counts
func (c EngineConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// GenerationReport summarizes one completed generation
type GenerationReport struct {
	RunID      uuid.UUID
	Generation int
	Stats      PopulationStats
	// Reconciled counts offspring whose fitness was copied from an equivalent parent
	Reconciled int
	// Elapsed is measured from the start of the run
	Elapsed time.Duration
}

// Engine is the generational genetic algorithm
// It is single-threaded per run; only fitness evaluation fans out to workers
type Engine struct {
	// Core operators
	selection SelectionPolicy
	crossover CrossoverPolicy
	mutation  MutationPolicy

	// Configuration
	config    EngineConfig
	rng       RandomSource
	logger    *slog.Logger
	observers []Observer

	// runObservers are notified only during the current Evolve call
	runObservers []Observer

	// State
	runID       uuid.UUID
	state       State
	generation  int
	startedAt   time.Time
	currentPool *Population
	history     []GenerationReport
}

// Option configures an Engine
type Option func(*Engine)

// WithRandomSource injects the generator every policy draws from
func WithRandomSource(rng RandomSource) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver registers an observer notified after every generation
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// NewEngine creates a new genetic algorithm engine with the specified operators
func NewEngine(
	selection SelectionPolicy,
	crossover CrossoverPolicy,
	mutation MutationPolicy,
	config EngineConfig,
	opts ...Option,
) (*Engine, error) {
	if selection == nil || crossover == nil || mutation == nil {
		return nil, fmt.Errorf("%w: selection, crossover and mutation policies are required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
		config:    config,
		state:     StateReady,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewSource(0)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e, nil
}

// Evolve runs generations from initial until stop is satisfied
// stop is evaluated after each generation, so at least one generation is produced
// Cancellation is honoured between generations and returns the last complete population with ctx.Err()
// Policy errors abort the run and are returned unchanged with a nil population
func (e *Engine) Evolve(ctx context.Context, initial *Population, stop StoppingCondition) (*Population, error) {
	return e.evolve(ctx, initial, stop)
}

// evolve runs Evolve with extra observers attached for this run only
func (e *Engine) evolve(ctx context.Context, initial *Population, stop StoppingCondition, runObservers ...Observer) (*Population, error) {
	if initial == nil || stop == nil {
		return nil, fmt.Errorf("%w: initial population and stopping condition are required", ErrInvalidConfig)
	}
	if e.config.EliteCount > initial.Limit() {
		return nil, fmt.Errorf("%w: %d with limit %d", ErrInvalidEliteCount, e.config.EliteCount, initial.Limit())
	}

	e.runObservers = runObservers
	defer func() { e.runObservers = nil }()

	e.runID = uuid.New()
	e.state = StateEvolving
	e.generation = 0
	e.history = e.history[:0]
	e.startedAt = time.Now()
	e.currentPool = initial

	log := e.logger.With("run_id", e.runID.String())
	log.Info("evolution started",
		"population", initial.Len(),
		"limit", initial.Limit(),
		"elite", e.config.EliteCount,
		"crossover_rate", e.config.CrossoverRate,
		"mutation_rate", e.config.MutationRate,
	)

	e.evaluate(initial)

	for {
		if err := ctx.Err(); err != nil {
			e.state = StateCancelled
			log.Warn("evolution cancelled", "generation", e.generation, "error", err)
			return e.currentPool, err
		}

		next, reconciled, err := e.nextGeneration(e.currentPool)
		if err != nil {
			e.state = StateTerminated
			log.Error("evolution aborted", "generation", e.generation, "error", err)
			return nil, err
		}

		e.currentPool = next
		e.generation++
		report := e.record(next, reconciled)
		log.Debug("generation complete",
			"generation", report.Generation,
			"best", report.Stats.Best,
			"average", report.Stats.Average,
			"worst", report.Stats.Worst,
			"reconciled", report.Reconciled,
		)

		if stop.IsSatisfied(next) {
			e.state = StateTerminated
			log.Info("evolution terminated",
				"generations", e.generation,
				"best", report.Stats.Best,
				"elapsed", report.Elapsed,
			)
			return next, nil
		}
	}
}

// NextGeneration builds one generation from current without advancing the engine's counter
func (e *Engine) NextGeneration(current *Population) (*Population, error) {
	next, _, err := e.nextGeneration(current)
	return next, err
}

// nextGeneration creates the next generation of chromosomes
func (e *Engine) nextGeneration(current *Population) (*Population, int, error) {
	// Preserve elite solutions (best performers)
	next, err := current.NextGeneration(e.config.EliteCount)
	if err != nil {
		return nil, 0, err
	}
	eliteCount := next.Len()

	// Generate new offspring to fill the pool
	for !next.Full() {
		pair, err := e.selection.Select(current, e.rng)
		if err != nil {
			return nil, 0, err
		}

		if e.rng.Float64() < e.config.CrossoverRate {
			pair, err = e.crossover.Crossover(pair.First, pair.Second, e.rng)
			if err != nil {
				return nil, 0, err
			}
		}

		// Both mutation draws happen even if the second offspring does not fit
		if pair.First, err = e.maybeMutate(pair.First); err != nil {
			return nil, 0, err
		}
		if pair.Second, err = e.maybeMutate(pair.Second); err != nil {
			return nil, 0, err
		}

		if err := next.Add(pair.First); err != nil {
			return nil, 0, err
		}
		if !next.Full() {
			if err := next.Add(pair.Second); err != nil {
				return nil, 0, err
			}
		}
	}

	reconciled := 0
	if e.config.ReconcileFitness {
		for i := eliteCount; i < next.Len(); i++ {
			if ReconcileFitness(next.At(i), current) {
				reconciled++
			}
		}
	}

	e.evaluate(next)

	return next, reconciled, nil
}

func (e *Engine) maybeMutate(c Chromosome) (Chromosome, error) {
	if e.rng.Float64() >= e.config.MutationRate {
		return c, nil
	}
	return e.mutation.Mutate(c, e.rng)
}

// evaluate resolves every fitness in pop, fanning out to Parallelism workers
// The objective draws no randomness, so evaluation order cannot affect reproducibility
func (e *Engine) evaluate(pop *Population) {
	if e.config.Parallelism <= 1 {
		for c := range pop.All() {
			c.Fitness()
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.config.Parallelism)
	for c := range pop.All() {
		if _, ok := c.CachedFitness(); ok {
			continue
		}
		g.Go(func() error {
			c.Fitness()
			return nil
		})
	}
	_ = g.Wait()
}

// record appends the generation report to history and notifies observers
func (e *Engine) record(pop *Population, reconciled int) GenerationReport {
	report := GenerationReport{
		RunID:      e.runID,
		Generation: e.generation,
		Stats:      pop.Stats(),
		Reconciled: reconciled,
		Elapsed:    time.Since(e.startedAt),
	}
	e.history = append(e.history, report)
	for _, o := range e.observers {
		o.OnGeneration(report)
	}
	for _, o := range e.runObservers {
		o.OnGeneration(report)
	}
	return report
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Generation returns the number of generations evolved in the current or last run
func (e *Engine) Generation() int {
	return e.generation
}

// RunID identifies the current or last run
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// GetHistory returns the reports of the current or last run
func (e *Engine) GetHistory() []GenerationReport {
	return append([]GenerationReport(nil), e.history...)
}

// GetBest returns the fittest chromosome of the latest population
func (e *Engine) GetBest() (Chromosome, error) {
	if e.currentPool == nil {
		return nil, ErrEmptyPopulation
	}
	return e.currentPool.Fittest()
}
