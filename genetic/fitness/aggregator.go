package fitness

import "github.com/lixenwraith/evolution/genetic"

// Term is one weighted component of a combined objective
type Term[T any] struct {
	Name      string
	Weight    float64
	Evaluate  genetic.EvaluatorFunc[T]
	Normalize NormalizeFunc
}

// score evaluates the term, normalized when a normalizer is set
func (t Term[T]) score(genes []T) float64 {
	raw := t.Evaluate(genes)
	if t.Normalize == nil {
		return raw
	}
	return t.Normalize(raw)
}

// NormalizeFunc maps a raw objective value into [0, 1]
type NormalizeFunc func(raw float64) float64

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func zero(float64) float64 { return 0 }

// NormalizeLinear maps [lo, hi] onto [0, 1], clamping outside values
// An empty or inverted range scores everything 0
func NormalizeLinear(lo, hi float64) NormalizeFunc {
	span := hi - lo
	if span <= 0 {
		return zero
	}
	return func(raw float64) float64 {
		return clamp01((raw - lo) / span)
	}
}

// NormalizeInverse scores costs: 1 / (1 + raw/scale), 1 at zero cost
// A non-positive scale is treated as 1
func NormalizeInverse(scale float64) NormalizeFunc {
	if scale <= 0 {
		scale = 1
	}
	return func(raw float64) float64 {
		return 1 / (1 + raw/scale)
	}
}

// NormalizeCap scores raw/ceiling, clamped to [0, 1]
func NormalizeCap(ceiling float64) NormalizeFunc {
	if ceiling <= 0 {
		return zero
	}
	return func(raw float64) float64 {
		return clamp01(raw / ceiling)
	}
}
