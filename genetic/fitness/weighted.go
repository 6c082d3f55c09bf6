package fitness

import (
	"slices"

	"github.com/lixenwraith/evolution/genetic"
)

// Weighted combines terms into a single objective: the weighted sum of normalized term values
// Terms without an evaluator are skipped, a nil Normalize passes the raw value through
func Weighted[T any](terms ...Term[T]) genetic.EvaluatorFunc[T] {
	terms = slices.DeleteFunc(slices.Clone(terms), func(t Term[T]) bool { return t.Evaluate == nil })
	return func(genes []T) float64 {
		var fitness float64
		for _, term := range terms {
			fitness += term.Weight * term.score(genes)
		}
		return fitness
	}
}

// Breakdown evaluates each term separately, keyed by term name, without weights
func Breakdown[T any](genes []T, terms ...Term[T]) map[string]float64 {
	result := make(map[string]float64, len(terms))
	for _, term := range terms {
		if term.Evaluate == nil {
			continue
		}
		result[term.Name] = term.score(genes)
	}
	return result
}
