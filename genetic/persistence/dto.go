package persistence

import (
	"fmt"

	"github.com/lixenwraith/evolution/genetic"
)

// Encoding names stored in snapshots
const (
	EncodingBinary    = "binary"
	EncodingRandomKey = "random_key"
)

// PopulationDTO is the serializable population state
type PopulationDTO struct {
	Generation int            `toml:"generation"`
	Limit      int            `toml:"limit"`
	Encoding   string         `toml:"encoding"`
	Candidates []CandidateDTO `toml:"candidates"`
}

// CandidateDTO is a serializable chromosome
// Binary genes are stored as 0/1 floats
type CandidateDTO struct {
	Genes     []float64 `toml:"genes"`
	Score     float64   `toml:"score"`
	Evaluated bool      `toml:"evaluated"`
}

// FromPopulation converts a population of binary or random-key chromosomes to a DTO
// Unevaluated chromosomes are stored without a score and are not evaluated here
func FromPopulation(pop *genetic.Population, generation int) (PopulationDTO, error) {
	if pop == nil {
		return PopulationDTO{}, nil
	}

	dto := PopulationDTO{
		Generation: generation,
		Limit:      pop.Limit(),
		Candidates: make([]CandidateDTO, 0, pop.Len()),
	}

	for c := range pop.All() {
		var encoding string
		var genes []float64

		switch v := c.(type) {
		case *genetic.BinaryChromosome:
			encoding = EncodingBinary
			bits := v.Genes()
			genes = make([]float64, len(bits))
			for i, b := range bits {
				genes[i] = float64(b)
			}
		case *genetic.RandomKeyChromosome:
			encoding = EncodingRandomKey
			genes = v.Genes()
		default:
			return PopulationDTO{}, fmt.Errorf("%w: cannot persist %T", genetic.ErrUnsupportedChromosome, c)
		}

		if dto.Encoding == "" {
			dto.Encoding = encoding
		} else if dto.Encoding != encoding {
			return PopulationDTO{}, fmt.Errorf("%w: mixed %s and %s chromosomes", genetic.ErrUnsupportedChromosome, dto.Encoding, encoding)
		}

		score, ok := c.CachedFitness()
		dto.Candidates = append(dto.Candidates, CandidateDTO{
			Genes:     genes,
			Score:     score,
			Evaluated: ok,
		})
	}

	return dto, nil
}

// ToBinaryPopulation rebuilds binary chromosomes scored by evaluator
// Stored scores are adopted so restored chromosomes are not re-evaluated
func (dto PopulationDTO) ToBinaryPopulation(evaluator genetic.EvaluatorFunc[int]) (*genetic.Population, error) {
	if err := dto.expect(EncodingBinary); err != nil {
		return nil, err
	}
	return dto.rebuild(func(genes []float64) (genetic.Chromosome, error) {
		bits := make([]int, len(genes))
		for i, g := range genes {
			bits[i] = int(g)
			if float64(bits[i]) != g {
				return nil, fmt.Errorf("%w: binary gene %d is %v", genetic.ErrInvalidRepresentation, i, g)
			}
		}
		c, err := genetic.NewBinaryChromosome(bits, evaluator)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// ToRandomKeyPopulation rebuilds random-key chromosomes scored by evaluator
func (dto PopulationDTO) ToRandomKeyPopulation(evaluator genetic.EvaluatorFunc[float64]) (*genetic.Population, error) {
	if err := dto.expect(EncodingRandomKey); err != nil {
		return nil, err
	}
	return dto.rebuild(func(genes []float64) (genetic.Chromosome, error) {
		c, err := genetic.NewRandomKeyChromosome(genes, evaluator)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

func (dto PopulationDTO) expect(encoding string) error {
	// An empty snapshot carries no encoding
	if dto.Encoding != encoding && len(dto.Candidates) > 0 {
		return fmt.Errorf("%w: snapshot holds %q, want %q", genetic.ErrUnsupportedChromosome, dto.Encoding, encoding)
	}
	return nil
}

func (dto PopulationDTO) rebuild(build func(genes []float64) (genetic.Chromosome, error)) (*genetic.Population, error) {
	limit := dto.Limit
	if limit <= 0 {
		limit = len(dto.Candidates)
	}
	pop, err := genetic.NewPopulation(limit)
	if err != nil {
		return nil, err
	}

	for i, cd := range dto.Candidates {
		c, err := build(cd.Genes)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		if cd.Evaluated {
			c.AdoptFitness(cd.Score)
		}
		if err := pop.Add(c); err != nil {
			return nil, err
		}
	}

	return pop, nil
}
