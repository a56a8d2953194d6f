package emergent

import (
	"fmt"
	"log/slog"
	"slices"
)

// Change is an outgoing transition of a Machinery state: when Condition
// passes, the machinery moves to the state To.
type Change[M any, K comparable] struct {
	To        K
	Condition Condition[M]
}

// To builds a Change.
func To[M any, K comparable](id K, condition Condition[M]) Change[M, K] {
	return Change[M, K]{To: id, Condition: condition}
}

// Machinery is a finite state machine. Nesting a Machinery as the task of
// another decision maker's state yields a hierarchical state machine.
//
// On Decide, unless the active task is locked, the active state's changes
// are scanned in registration order and the first passing one is taken.
// When nothing is taken, or the target is the active state or is not
// registered, the active task's own Decide runs instead.
type Machinery[M any, K comparable] struct {
	registry[M, K]
	changes [][]Change[M, K]
	initial int
}

var _ DecisionMaker[struct{}, string] = (*Machinery[struct{}, string])(nil)

// Decide implements Task.
func (m *Machinery[M, K]) Decide(memory *M) {
	if !m.hasActive || m.locked(memory) {
		return
	}
	for _, change := range m.changes[m.active] {
		if !change.Condition.Validate(memory) {
			continue
		}
		if i, ok := m.index[change.To]; ok && i != m.active {
			m.activateIndex(i, memory, false)
			return
		}
		break
	}
	m.forward(memory)
}

// Activated implements Task by resetting to the initial state, re-running
// its Activated hook even when it is already active.
func (m *Machinery[M, K]) Activated(memory *M) {
	if len(m.states) == 0 {
		return
	}
	m.activateIndex(m.initial, memory, true)
}

// Tick implements DecisionMaker.
func (m *Machinery[M, K]) Tick(memory *M) {
	m.Decide(memory)
	m.Update(memory)
}

// Initial returns the state the machinery resets to when activated.
func (m *Machinery[M, K]) Initial() (K, bool) {
	if len(m.states) == 0 {
		var zero K
		return zero, false
	}
	return m.states[m.initial].id, true
}

// MachineryBuilder assembles an immutable Machinery. Registration errors
// are collected and the first one is reported by Build. Each Build returns
// an independent Machinery, so a builder may keep registering afterwards.
type MachineryBuilder[M any, K comparable] struct {
	reg        registry[M, K]
	changes    [][]Change[M, K]
	initial    K
	hasInitial bool
	err        error
}

// NewMachinery starts building a Machinery.
func NewMachinery[M any, K comparable]() *MachineryBuilder[M, K] {
	return &MachineryBuilder[M, K]{reg: newRegistry[M, K]("Machinery")}
}

// State registers a state with its task and ordered outgoing changes.
// The first registered state is the initial state unless Initial is set.
func (b *MachineryBuilder[M, K]) State(id K, task Task[M], changes ...Change[M, K]) *MachineryBuilder[M, K] {
	if b.err != nil {
		return b
	}
	for _, change := range changes {
		if change.Condition == nil {
			b.err = fmt.Errorf("machinery change %v -> %v: %w", id, change.To, ErrNilCondition)
			return b
		}
	}
	if err := b.reg.add(id, task); err != nil {
		b.err = err
		return b
	}
	b.changes = append(b.changes, append([]Change[M, K](nil), changes...))
	return b
}

// Initial sets the state activated when the machinery itself is activated
// as a nested task.
func (b *MachineryBuilder[M, K]) Initial(id K) *MachineryBuilder[M, K] {
	b.initial, b.hasInitial = id, true
	return b
}

// Logger enables debug logging of activations and lock vetoes.
func (b *MachineryBuilder[M, K]) Logger(l *slog.Logger) *MachineryBuilder[M, K] {
	b.reg.logger = l
	return b
}

// Build validates the registrations and returns the Machinery.
func (b *MachineryBuilder[M, K]) Build() (*Machinery[M, K], error) {
	if b.err != nil {
		return nil, b.err
	}
	m := &Machinery[M, K]{registry: b.reg.clone(), changes: slices.Clone(b.changes)}
	if b.hasInitial {
		i, ok := b.reg.index[b.initial]
		if !ok {
			return nil, fmt.Errorf("machinery initial state %v: %w", b.initial, ErrUnknownState)
		}
		m.initial = i
	}
	return m, nil
}
