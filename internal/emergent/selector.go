package emergent

import (
	"fmt"
	"log/slog"
	"slices"
)

// Picker chooses one id out of the available ones, which are passed in
// registration order and are never empty.
type Picker[K comparable] interface {
	Pick(available []K) K
}

// PickerFunc adapts a function to the Picker interface.
type PickerFunc[K comparable] func(available []K) K

// Pick implements Picker.
func (f PickerFunc[K]) Pick(available []K) K { return f(available) }

// PickFirst picks the earliest registered available state.
func PickFirst[K comparable]() Picker[K] {
	return PickerFunc[K](func(available []K) K { return available[0] })
}

// PickLast picks the latest registered available state.
func PickLast[K comparable]() Picker[K] {
	return PickerFunc[K](func(available []K) K { return available[len(available)-1] })
}

// PickNth picks the nth available state, clamped to the last one.
func PickNth[K comparable](n int) Picker[K] {
	return PickerFunc[K](func(available []K) K {
		return available[max(0, min(n, len(available)-1))]
	})
}

// Selector activates one of the states whose condition passes, as chosen
// by its Picker (PickFirst by default).
//
// On Decide, unless the active task is locked, the available states are
// collected in registration order. When none is available, or the pick is
// the active state, the active task's own Decide runs instead.
type Selector[M any, K comparable] struct {
	registry[M, K]
	conditions []Condition[M]
	picker     Picker[K]
}

var _ DecisionMaker[struct{}, string] = (*Selector[struct{}, string])(nil)

func (s *Selector[M, K]) pick(memory *M) (int, bool) {
	var available []K
	for i, c := range s.conditions {
		if c.Validate(memory) {
			available = append(available, s.states[i].id)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	i, ok := s.index[s.picker.Pick(available)]
	return i, ok
}

// Decide implements Task.
func (s *Selector[M, K]) Decide(memory *M) {
	if !s.hasActive || s.locked(memory) {
		return
	}
	if i, ok := s.pick(memory); ok && i != s.active {
		s.activateIndex(i, memory, false)
		return
	}
	s.forward(memory)
}

// Activated implements Task by force-activating the picked state, or the
// first registered state when none is available.
func (s *Selector[M, K]) Activated(memory *M) {
	if len(s.states) == 0 {
		return
	}
	i, ok := s.pick(memory)
	if !ok {
		i = 0
	}
	s.activateIndex(i, memory, true)
}

// Tick implements DecisionMaker.
func (s *Selector[M, K]) Tick(memory *M) {
	s.Decide(memory)
	s.Update(memory)
}

// SelectorBuilder assembles an immutable Selector. Each Build returns an
// independent Selector.
type SelectorBuilder[M any, K comparable] struct {
	reg        registry[M, K]
	conditions []Condition[M]
	picker     Picker[K]
	err        error
}

// NewSelector starts building a Selector.
func NewSelector[M any, K comparable]() *SelectorBuilder[M, K] {
	return &SelectorBuilder[M, K]{reg: newRegistry[M, K]("Selector"), picker: PickFirst[K]()}
}

// State registers a state with its task and availability condition.
func (b *SelectorBuilder[M, K]) State(id K, task Task[M], condition Condition[M]) *SelectorBuilder[M, K] {
	if b.err != nil {
		return b
	}
	if condition == nil {
		b.err = fmt.Errorf("selector state %v: %w", id, ErrNilCondition)
		return b
	}
	if err := b.reg.add(id, task); err != nil {
		b.err = err
		return b
	}
	b.conditions = append(b.conditions, condition)
	return b
}

// Picker replaces the default PickFirst.
func (b *SelectorBuilder[M, K]) Picker(p Picker[K]) *SelectorBuilder[M, K] {
	if p != nil {
		b.picker = p
	}
	return b
}

// Logger enables debug logging of activations and lock vetoes.
func (b *SelectorBuilder[M, K]) Logger(l *slog.Logger) *SelectorBuilder[M, K] {
	b.reg.logger = l
	return b
}

// Build returns the Selector, or the first registration error.
func (b *SelectorBuilder[M, K]) Build() (*Selector[M, K], error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Selector[M, K]{registry: b.reg.clone(), conditions: slices.Clone(b.conditions), picker: b.picker}, nil
}
