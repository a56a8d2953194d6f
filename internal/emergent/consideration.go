package emergent

// Scalar is the score type produced by considerations.
type Scalar = float64

// Consideration scores memory. Scores are recomputed on every call.
type Consideration[M any] interface {
	Score(memory *M) Scalar
}

// ConsiderationFunc adapts a function to the Consideration interface.
type ConsiderationFunc[M any] func(memory *M) Scalar

// Score implements Consideration.
func (f ConsiderationFunc[M]) Score(memory *M) Scalar { return f(memory) }

// ConstConsideration is a Consideration with a fixed score.
type ConstConsideration[M any] Scalar

// Score implements Consideration.
func (c ConstConsideration[M]) Score(*M) Scalar { return Scalar(c) }

type conditionConsideration[M any] struct {
	condition          Condition[M]
	positive, negative Scalar
}

func (c conditionConsideration[M]) Score(memory *M) Scalar {
	if c.condition.Validate(memory) {
		return c.positive
	}
	return c.negative
}

// FromCondition scores positive when the condition passes and negative
// otherwise.
func FromCondition[M any](c Condition[M], positive, negative Scalar) Consideration[M] {
	return conditionConsideration[M]{condition: c, positive: positive, negative: negative}
}

// FromConditionUnit scores 1 when the condition passes and 0 otherwise.
func FromConditionUnit[M any](c Condition[M]) Consideration[M] {
	return FromCondition(c, 1, 0)
}

type mappedConsideration[M any] struct {
	mapping  ScoreMapping
	children []Consideration[M]
}

func (c mappedConsideration[M]) Score(memory *M) Scalar {
	scores := make([]Scalar, len(c.children))
	for i, child := range c.children {
		scores[i] = child.Score(memory)
	}
	return c.mapping.Map(scores)
}

// Mapped scores every child in order, then reduces the scores with mapping.
// Mapped considerations nest, so scoring expressions evaluate bottom-up.
func Mapped[M any](mapping ScoreMapping, children ...Consideration[M]) Consideration[M] {
	return mappedConsideration[M]{
		mapping:  mapping,
		children: append([]Consideration[M](nil), children...),
	}
}

// Product multiplies child scores. The empty product is 1.
func Product[M any](children ...Consideration[M]) Consideration[M] {
	return Mapped(MapProduct, children...)
}

// Sum adds child scores. The empty sum is 0.
func Sum[M any](children ...Consideration[M]) Consideration[M] {
	return Mapped(MapSum, children...)
}

// Min picks the smallest child score, or 0 without children.
func Min[M any](children ...Consideration[M]) Consideration[M] {
	return Mapped(MapMin, children...)
}

// Max picks the largest child score, or 0 without children.
func Max[M any](children ...Consideration[M]) Consideration[M] {
	return Mapped(MapMax, children...)
}

// Reverse scores 1 - x for the child's score x.
func Reverse[M any](child Consideration[M]) Consideration[M] {
	return Mapped(MapReverse, child)
}

// Remap passes a single child's score through mapping.
func Remap[M any](child Consideration[M], mapping ScoreMapping) Consideration[M] {
	return Mapped(mapping, child)
}
