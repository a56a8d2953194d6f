package emergent

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
)

// StateSelector picks the winning index out of the scores of every
// registered state, in registration order. It returns -1 when there is no
// winner.
type StateSelector func(scores []Scalar) int

// SelectMax picks the highest score. Ties go to the earliest state and NaN
// scores never win.
func SelectMax(scores []Scalar) int {
	return selectBest(scores, func(candidate, best Scalar) bool { return candidate > best })
}

// SelectMin picks the lowest score. Ties go to the earliest state and NaN
// scores never win.
func SelectMin(scores []Scalar) int {
	return selectBest(scores, func(candidate, best Scalar) bool { return candidate < best })
}

// SelectClosestTo picks the score nearest to target. Ties go to the
// earliest state and NaN scores never win.
func SelectClosestTo(target Scalar) StateSelector {
	return func(scores []Scalar) int {
		distances := make([]Scalar, len(scores))
		for i, s := range scores {
			distances[i] = math.Abs(s - target)
		}
		return SelectMin(distances)
	}
}

func selectBest(scores []Scalar, better func(candidate, best Scalar) bool) int {
	winner := -1
	for i, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		if winner < 0 || better(s, scores[winner]) {
			winner = i
		}
	}
	return winner
}

// ScoredState is one state's score from a Reasoner evaluation.
type ScoredState[K comparable] struct {
	ID    K
	Score Scalar
}

// Reasoner is a utility decision maker: the state whose consideration
// scores best becomes active.
//
// On Decide, unless the active task is locked, every consideration is
// scored and the selector (SelectMax by default) picks the winner. If the
// winner is the active state, the active task's own Decide runs instead.
type Reasoner[M any, K comparable] struct {
	registry[M, K]
	considerations []Consideration[M]
	selector       StateSelector
	initial        func(memory *M) (K, bool)
}

var _ DecisionMaker[struct{}, string] = (*Reasoner[struct{}, string])(nil)

// Scores evaluates every consideration in registration order.
func (r *Reasoner[M, K]) Scores(memory *M) []ScoredState[K] {
	scored := make([]ScoredState[K], len(r.states))
	for i, state := range r.states {
		scored[i] = ScoredState[K]{ID: state.id, Score: r.considerations[i].Score(memory)}
	}
	return scored
}

func (r *Reasoner[M, K]) winner(memory *M) int {
	scores := make([]Scalar, len(r.considerations))
	for i, c := range r.considerations {
		scores[i] = c.Score(memory)
	}
	return r.selector(scores)
}

// Decide implements Task.
func (r *Reasoner[M, K]) Decide(memory *M) {
	if !r.hasActive || r.locked(memory) {
		return
	}
	if i := r.winner(memory); i >= 0 && i != r.active {
		r.activateIndex(i, memory, false)
		return
	}
	r.forward(memory)
}

// Activated implements Task by force-activating the initial state. Without
// an initial state the scoring winner is activated, or the first registered
// state when nothing scores.
func (r *Reasoner[M, K]) Activated(memory *M) {
	if len(r.states) == 0 {
		return
	}
	if r.initial != nil {
		if id, ok := r.initial(memory); ok {
			if i, ok := r.index[id]; ok {
				r.activateIndex(i, memory, true)
				return
			}
		}
	}
	i := r.winner(memory)
	if i < 0 {
		i = 0
	}
	r.activateIndex(i, memory, true)
}

// Tick implements DecisionMaker.
func (r *Reasoner[M, K]) Tick(memory *M) {
	r.Decide(memory)
	r.Update(memory)
}

// ReasonerBuilder assembles an immutable Reasoner. Registration errors are
// collected and the first one is reported by Build. Each Build returns an
// independent Reasoner.
type ReasonerBuilder[M any, K comparable] struct {
	reg            registry[M, K]
	considerations []Consideration[M]
	selector       StateSelector
	initial        func(memory *M) (K, bool)
	initialID      *K
	err            error
}

// NewReasoner starts building a Reasoner.
func NewReasoner[M any, K comparable]() *ReasonerBuilder[M, K] {
	return &ReasonerBuilder[M, K]{reg: newRegistry[M, K]("Reasoner"), selector: SelectMax}
}

// State registers a state with its task and consideration.
func (b *ReasonerBuilder[M, K]) State(id K, task Task[M], consideration Consideration[M]) *ReasonerBuilder[M, K] {
	if b.err != nil {
		return b
	}
	if consideration == nil {
		b.err = fmt.Errorf("reasoner state %v: %w", id, ErrNilConsideration)
		return b
	}
	if err := b.reg.add(id, task); err != nil {
		b.err = err
		return b
	}
	b.considerations = append(b.considerations, consideration)
	return b
}

// Initial sets a fixed state activated when the reasoner itself is
// activated as a nested task.
func (b *ReasonerBuilder[M, K]) Initial(id K) *ReasonerBuilder[M, K] {
	b.initialID = &id
	b.initial = func(*M) (K, bool) { return id, true }
	return b
}

// InitialFunc sets a strategy choosing the state activated when the
// reasoner itself is activated. Returning false, or an unknown id, falls
// back to the scoring winner.
func (b *ReasonerBuilder[M, K]) InitialFunc(f func(memory *M) (K, bool)) *ReasonerBuilder[M, K] {
	b.initialID = nil
	b.initial = f
	return b
}

// Selector replaces the default SelectMax.
func (b *ReasonerBuilder[M, K]) Selector(s StateSelector) *ReasonerBuilder[M, K] {
	if s != nil {
		b.selector = s
	}
	return b
}

// Logger enables debug logging of activations and lock vetoes.
func (b *ReasonerBuilder[M, K]) Logger(l *slog.Logger) *ReasonerBuilder[M, K] {
	b.reg.logger = l
	return b
}

// Build validates the registrations and returns the Reasoner.
func (b *ReasonerBuilder[M, K]) Build() (*Reasoner[M, K], error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.initialID != nil && !b.reg.has(*b.initialID) {
		return nil, fmt.Errorf("reasoner initial state %v: %w", *b.initialID, ErrUnknownState)
	}
	return &Reasoner[M, K]{
		registry:       b.reg.clone(),
		considerations: slices.Clone(b.considerations),
		selector:       b.selector,
		initial:        b.initial,
	}, nil
}
