package emergent

// Condition answers a boolean question about memory.
type Condition[M any] interface {
	Validate(memory *M) bool
}

// ConditionFunc adapts a function to the Condition interface.
type ConditionFunc[M any] func(memory *M) bool

// Validate implements Condition.
func (f ConditionFunc[M]) Validate(memory *M) bool { return f(memory) }

// ConstCondition is a Condition with a fixed answer.
type ConstCondition[M any] bool

// Validate implements Condition.
func (c ConstCondition[M]) Validate(*M) bool { return bool(c) }

// Always returns a Condition that always passes.
func Always[M any]() Condition[M] { return ConstCondition[M](true) }

// Never returns a Condition that never passes.
func Never[M any]() Condition[M] { return ConstCondition[M](false) }

type notCondition[M any] struct{ inner Condition[M] }

func (c notCondition[M]) Validate(memory *M) bool { return !c.inner.Validate(memory) }

// Not inverts a Condition.
func Not[M any](c Condition[M]) Condition[M] { return notCondition[M]{inner: c} }

type allCondition[M any] []Condition[M]

func (c allCondition[M]) Validate(memory *M) bool {
	for _, cond := range c {
		if !cond.Validate(memory) {
			return false
		}
	}
	return true
}

// All passes when every condition passes, short-circuiting in order.
// An empty All passes.
func All[M any](conditions ...Condition[M]) Condition[M] {
	return allCondition[M](append([]Condition[M](nil), conditions...))
}

type anyCondition[M any] []Condition[M]

func (c anyCondition[M]) Validate(memory *M) bool {
	for _, cond := range c {
		if cond.Validate(memory) {
			return true
		}
	}
	return false
}

// Any passes when at least one condition passes, short-circuiting in order.
// An empty Any fails.
func Any[M any](conditions ...Condition[M]) Condition[M] {
	return anyCondition[M](append([]Condition[M](nil), conditions...))
}

// BoundKind describes how a CountBound compares.
type BoundKind int

const (
	// Unbounded accepts any count.
	Unbounded BoundKind = iota
	// Exclusive rejects counts equal to the bound value.
	Exclusive
	// Inclusive accepts counts equal to the bound value.
	Inclusive
)

// CountBound is one end of the accepted range of a Count condition.
type CountBound struct {
	Kind  BoundKind
	Value int
}

// NoBound returns an open bound.
func NoBound() CountBound { return CountBound{} }

// InclusiveBound returns a bound that accepts n itself.
func InclusiveBound(n int) CountBound { return CountBound{Kind: Inclusive, Value: n} }

// ExclusiveBound returns a bound that rejects n itself.
func ExclusiveBound(n int) CountBound { return CountBound{Kind: Exclusive, Value: n} }

func (b CountBound) lower(count int) bool {
	switch b.Kind {
	case Exclusive:
		return count > b.Value
	case Inclusive:
		return count >= b.Value
	default:
		return true
	}
}

func (b CountBound) upper(count int) bool {
	switch b.Kind {
	case Exclusive:
		return count < b.Value
	case Inclusive:
		return count <= b.Value
	default:
		return true
	}
}

type countCondition[M any] struct {
	lower, upper CountBound
	conditions   []Condition[M]
}

func (c countCondition[M]) Validate(memory *M) bool {
	var count int
	for _, cond := range c.conditions {
		if cond.Validate(memory) {
			count++
		}
	}
	return c.lower.lower(count) && c.upper.upper(count)
}

// Count passes when the number of passing conditions lies within
// [lower, upper], where each end may be unbounded, inclusive or exclusive.
// Every condition is evaluated.
func Count[M any](lower, upper CountBound, conditions ...Condition[M]) Condition[M] {
	return countCondition[M]{
		lower:      lower,
		upper:      upper,
		conditions: append([]Condition[M](nil), conditions...),
	}
}

type thresholdCondition[M any] struct {
	consideration Consideration[M]
	threshold     Scalar
}

func (c thresholdCondition[M]) Validate(memory *M) bool {
	return c.consideration.Score(memory) > c.threshold
}

// Threshold passes when the consideration scores strictly above threshold.
func Threshold[M any](c Consideration[M], threshold Scalar) Condition[M] {
	return thresholdCondition[M]{consideration: c, threshold: threshold}
}
