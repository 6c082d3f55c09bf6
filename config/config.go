// Package config loads evolution run settings from TOML files
package config

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/evolution/genetic"
	"github.com/lixenwraith/evolution/parameter"
)

var validate = validator.New()

// Selection kinds
const (
	SelectionTournament = "tournament"
	SelectionRoulette   = "roulette"
)

// Crossover kinds
const (
	CrossoverOnePoint = "one_point"
	CrossoverNPoint   = "n_point"
	CrossoverUniform  = "uniform"
	CrossoverOrdered  = "ordered"
)

// Config is a complete run description
type Config struct {
	// Population is the population limit, constant across generations
	Population int `toml:"population" validate:"gte=2"`
	// Seed drives the run's random source, 0 draws a random seed
	Seed        uint64               `toml:"seed"`
	PersistPath string               `toml:"persist_path"`
	Engine      genetic.EngineConfig `toml:"engine"`
	Selection   SelectionConfig      `toml:"selection"`
	Crossover   CrossoverConfig      `toml:"crossover"`
	Stopping    StoppingConfig       `toml:"stopping"`
}

// SelectionConfig picks the selection policy
type SelectionConfig struct {
	Kind           string `toml:"kind" validate:"oneof=tournament roulette"`
	TournamentSize int    `toml:"tournament_size" validate:"gte=1"`
}

// CrossoverConfig picks the crossover policy
type CrossoverConfig struct {
	Kind           string  `toml:"kind" validate:"oneof=one_point n_point uniform ordered"`
	Points         int     `toml:"points" validate:"gte=1"`
	MixProbability float64 `toml:"mix_probability" validate:"gte=0,lte=1"`
}

// StoppingConfig enables stopping conditions; the run ends when any enabled one is satisfied
// Zero values disable a condition
type StoppingConfig struct {
	MaxGenerations  int    `toml:"max_generations" validate:"gte=0"`
	Elapsed         int64  `toml:"elapsed" validate:"gte=0"`
	Unit            string `toml:"unit"`
	StagnationLimit int    `toml:"stagnation_limit" validate:"gte=0"`
}

// Default returns the configuration used for keys absent from a file
func Default() Config {
	return Config{
		Population:  parameter.GAPoolSize,
		PersistPath: parameter.GeneticPersistencePath,
		Engine:      genetic.DefaultConfig(),
		Selection: SelectionConfig{
			Kind:           SelectionTournament,
			TournamentSize: parameter.GATournamentSize,
		},
		Crossover: CrossoverConfig{
			Kind:           CrossoverOnePoint,
			Points:         parameter.GACrossoverPoints,
			MixProbability: parameter.GACrossoverMixProbability,
		},
		// No criterion enabled: StoppingCondition falls back to parameter.GAMaxGenerations
		Stopping: StoppingConfig{
			Unit: genetic.Seconds.String(),
		},
	}
}

// Load reads and validates a TOML file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", genetic.ErrInvalidConfig, err)
	}
	if c.Engine.EliteCount > c.Population {
		return fmt.Errorf("%w: elite count %d exceeds population %d",
			genetic.ErrInvalidEliteCount, c.Engine.EliteCount, c.Population)
	}
	if _, err := genetic.ParseTimeUnit(c.Stopping.Unit); err != nil {
		return err
	}
	return nil
}

// Source returns the run's random source
func (c Config) Source() *rand.Rand {
	return genetic.NewSource(c.Seed)
}

// SelectionPolicy builds the configured selection
func (c Config) SelectionPolicy() (genetic.SelectionPolicy, error) {
	switch c.Selection.Kind {
	case SelectionTournament:
		return &genetic.TournamentSelection{Arity: c.Selection.TournamentSize}, nil
	case SelectionRoulette:
		return &genetic.RouletteSelection{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown selection %q", genetic.ErrInvalidConfig, c.Selection.Kind)
	}
}

// CrossoverPolicy builds the configured crossover for genes of type T
func CrossoverPolicy[T comparable](c Config) (genetic.CrossoverPolicy, error) {
	switch c.Crossover.Kind {
	case CrossoverOnePoint:
		return &genetic.OnePointCrossover[T]{}, nil
	case CrossoverNPoint:
		return &genetic.NPointCrossover[T]{Points: c.Crossover.Points}, nil
	case CrossoverUniform:
		return &genetic.UniformCrossover[T]{MixProbability: c.Crossover.MixProbability}, nil
	case CrossoverOrdered:
		return &genetic.OrderedCrossover[T]{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown crossover %q", genetic.ErrInvalidConfig, c.Crossover.Kind)
	}
}

// StoppingCondition builds a fresh condition from the enabled stopping settings
// Conditions are stateful, so every run needs its own
func (c Config) StoppingCondition() (genetic.StoppingCondition, error) {
	var conditions []genetic.StoppingCondition

	if c.Stopping.MaxGenerations > 0 {
		g, err := genetic.NewFixedGenerationCount(c.Stopping.MaxGenerations)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, g)
	}

	if c.Stopping.Elapsed > 0 {
		unit, err := genetic.ParseTimeUnit(c.Stopping.Unit)
		if err != nil {
			return nil, err
		}
		f, err := genetic.NewFixedElapsedTime(c.Stopping.Elapsed, unit)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, f)
	}

	if c.Stopping.StagnationLimit > 0 {
		s, err := genetic.NewFitnessStagnation(c.Stopping.StagnationLimit)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, s)
	}

	switch len(conditions) {
	case 0:
		g, err := genetic.NewFixedGenerationCount(parameter.GAMaxGenerations)
		if err != nil {
			return nil, err
		}
		return g, nil
	case 1:
		return conditions[0], nil
	default:
		return genetic.AnyOf(conditions...), nil
	}
}
