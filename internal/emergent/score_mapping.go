package emergent

import "math"

// ScoreMapping reduces child consideration scores into a single score.
//
// Unary mappings (reverse, inverse, sigmoids, range remaps) read the first
// score and treat a missing score as 0. No mapping clamps its output.
type ScoreMapping interface {
	Map(scores []Scalar) Scalar
}

// MappingFunc adapts a function to the ScoreMapping interface.
type MappingFunc func(scores []Scalar) Scalar

// Map implements ScoreMapping.
func (f MappingFunc) Map(scores []Scalar) Scalar { return f(scores) }

// UnaryFunc adapts a single-score function to the ScoreMapping interface.
type UnaryFunc func(score Scalar) Scalar

// Map implements ScoreMapping.
func (f UnaryFunc) Map(scores []Scalar) Scalar { return f(first(scores)) }

func first(scores []Scalar) Scalar {
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

// MapConstant ignores its input and returns a fixed score.
type MapConstant Scalar

// Map implements ScoreMapping.
func (c MapConstant) Map([]Scalar) Scalar { return Scalar(c) }

var (
	// MapIdentity returns the first score unchanged.
	MapIdentity ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return x })

	// MapReverse returns 1 - x. Inputs are expected in [0, 1].
	MapReverse ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return 1 - x })

	// MapInverse returns 1 / x.
	MapInverse ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return 1 / x })

	// MapFastSigmoid returns x / (1 + |x|).
	MapFastSigmoid ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return x / (1 + math.Abs(x)) })

	// MapApproxSigmoid returns x / sqrt(1 + x^2).
	MapApproxSigmoid ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return x / math.Sqrt(1+x*x) })

	// MapRelu returns max(x, 0).
	MapRelu ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return math.Max(x, 0) })

	// MapSoftplus returns ln(1 + e^x).
	MapSoftplus ScoreMapping = UnaryFunc(func(x Scalar) Scalar { return math.Log1p(math.Exp(x)) })

	// MapProduct multiplies all scores. The empty product is 1.
	MapProduct ScoreMapping = MappingFunc(func(scores []Scalar) Scalar {
		result := Scalar(1)
		for _, s := range scores {
			result *= s
		}
		return result
	})

	// MapSum adds all scores. The empty sum is 0.
	MapSum ScoreMapping = MappingFunc(func(scores []Scalar) Scalar {
		var result Scalar
		for _, s := range scores {
			result += s
		}
		return result
	})

	// MapMin returns the smallest score, or 0 when there are none.
	MapMin ScoreMapping = MappingFunc(func(scores []Scalar) Scalar {
		if len(scores) == 0 {
			return 0
		}
		result := scores[0]
		for _, s := range scores[1:] {
			result = math.Min(result, s)
		}
		return result
	})

	// MapMax returns the largest score, or 0 when there are none.
	MapMax ScoreMapping = MappingFunc(func(scores []Scalar) Scalar {
		if len(scores) == 0 {
			return 0
		}
		result := scores[0]
		for _, s := range scores[1:] {
			result = math.Max(result, s)
		}
		return result
	})
)

// RangeMapping linearly remaps the first score from [FromMin, FromMax] to
// [ToMin, ToMax]. Values outside the source range extrapolate.
type RangeMapping struct {
	FromMin, FromMax Scalar
	ToMin, ToMax     Scalar
}

// Map implements ScoreMapping.
func (r RangeMapping) Map(scores []Scalar) Scalar {
	factor := (first(scores) - r.FromMin) / (r.FromMax - r.FromMin)
	return factor*(r.ToMax-r.ToMin) + r.ToMin
}

type chainedMapping struct{ first, second ScoreMapping }

func (c chainedMapping) Map(scores []Scalar) Scalar {
	return c.second.Map([]Scalar{c.first.Map(scores)})
}

// Chain applies first to the input scores, then second to that result.
func Chain(first, second ScoreMapping) ScoreMapping {
	return chainedMapping{first: first, second: second}
}
