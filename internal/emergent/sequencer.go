package emergent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type step[M any] struct {
	condition Condition[M]
	task      Task[M]
}

// Sequencer runs tasks one after another. Each Decide advances to the next
// step whose condition passes, unless the current task is locked, in which
// case the current task's own Decide runs.
//
// Without Continuity the sequence finishes as soon as the next step's
// condition fails; with it, failing steps are skipped. A Looped sequence
// wraps around to the first step. A finished sequence stays finished until
// it is activated again.
type Sequencer[M any] struct {
	steps      []step[M]
	active     int
	hasActive  bool
	finished   bool
	looped     bool
	continuity bool
	logger     *slog.Logger
}

var _ Task[struct{}] = (*Sequencer[struct{}])(nil)

// ActiveIndex returns the index of the running step.
func (s *Sequencer[M]) ActiveIndex() (int, bool) { return s.active, s.hasActive }

// Finished reports whether the sequence ran out of steps.
func (s *Sequencer[M]) Finished() bool { return s.finished }

func (s *Sequencer[M]) next(memory *M) (int, bool) {
	n := len(s.steps)
	limit := n - s.active - 1
	if s.looped {
		limit = n
	}
	for offset := 1; offset <= limit; offset++ {
		i := (s.active + offset) % n
		if s.steps[i].condition.Validate(memory) {
			return i, true
		}
		if !s.continuity {
			break
		}
	}
	return 0, false
}

func (s *Sequencer[M]) enter(i int, memory *M) {
	if s.logger != nil {
		s.logger.LogAttrs(context.Background(), slog.LevelDebug, "[Sequencer] activate", slog.Int("to", i))
	}
	s.active, s.hasActive = i, true
	s.steps[i].task.Activated(memory)
}

// Decide implements Task.
func (s *Sequencer[M]) Decide(memory *M) {
	if !s.hasActive {
		return
	}
	current := s.steps[s.active].task
	if current.IsLocked(memory) {
		current.Decide(memory)
		return
	}
	i, ok := s.next(memory)
	switch {
	case !ok:
		s.hasActive, s.finished = false, true
		if s.logger != nil {
			s.logger.Debug("[Sequencer] finished")
		}
	case i != s.active:
		s.enter(i, memory)
	default:
		current.Decide(memory)
	}
}

// Activated implements Task by restarting at the first passing step.
func (s *Sequencer[M]) Activated(memory *M) {
	s.hasActive, s.finished = false, false
	for i, st := range s.steps {
		if st.condition.Validate(memory) {
			s.enter(i, memory)
			return
		}
	}
	s.finished = true
}

// Update implements Task.
func (s *Sequencer[M]) Update(memory *M) {
	if s.hasActive {
		s.steps[s.active].task.Update(memory)
	}
}

// Tick calls Decide then Update.
func (s *Sequencer[M]) Tick(memory *M) {
	s.Decide(memory)
	s.Update(memory)
}

// IsLocked implements Task by delegating to the running step.
func (s *Sequencer[M]) IsLocked(memory *M) bool {
	return s.hasActive && s.steps[s.active].task.IsLocked(memory)
}

// SequencerBuilder assembles an immutable Sequencer.
type SequencerBuilder[M any] struct {
	s   Sequencer[M]
	err error
}

// NewSequencer starts building a Sequencer.
func NewSequencer[M any]() *SequencerBuilder[M] {
	return &SequencerBuilder[M]{}
}

// Step appends a task guarded by a condition.
func (b *SequencerBuilder[M]) Step(condition Condition[M], task Task[M]) *SequencerBuilder[M] {
	if b.err != nil {
		return b
	}
	switch {
	case condition == nil:
		b.err = fmt.Errorf("sequencer step %d: %w", len(b.s.steps), ErrNilCondition)
	case task == nil:
		b.err = fmt.Errorf("sequencer step %d: %w", len(b.s.steps), ErrNilTask)
	default:
		b.s.steps = append(b.s.steps, step[M]{condition: condition, task: task})
	}
	return b
}

// Looped makes the sequence wrap around after the last step.
func (b *SequencerBuilder[M]) Looped(v bool) *SequencerBuilder[M] {
	b.s.looped = v
	return b
}

// Continuity makes the sequence skip steps whose condition fails.
func (b *SequencerBuilder[M]) Continuity(v bool) *SequencerBuilder[M] {
	b.s.continuity = v
	return b
}

// Logger enables debug logging of step changes.
func (b *SequencerBuilder[M]) Logger(l *slog.Logger) *SequencerBuilder[M] {
	b.s.logger = l
	return b
}

// Build returns the Sequencer, or the first registration error.
func (b *SequencerBuilder[M]) Build() (*Sequencer[M], error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.s
	s.steps = slices.Clone(b.s.steps)
	return &s, nil
}
