package emergent

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type branch[M any] struct {
	condition Condition[M]
	task      Task[M]
	active    bool
}

// Parallelizer runs every task whose condition passes at the same time.
//
// On Decide, inactive branches whose condition passes are activated. Active
// branches whose condition fails are dropped unless locked; the rest run
// their own Decide. Update reaches every active branch in order.
type Parallelizer[M any] struct {
	branches []branch[M]
	logger   *slog.Logger
}

var _ Task[struct{}] = (*Parallelizer[struct{}])(nil)

// Active reports which branches are running, in registration order.
func (p *Parallelizer[M]) Active() []bool {
	active := make([]bool, len(p.branches))
	for i, b := range p.branches {
		active[i] = b.active
	}
	return active
}

// Decide implements Task.
func (p *Parallelizer[M]) Decide(memory *M) {
	for i := range p.branches {
		b := &p.branches[i]
		passes := b.condition.Validate(memory)
		switch {
		case b.active && !passes && !b.task.IsLocked(memory):
			b.active = false
			p.debug("drop", i)
		case b.active:
			b.task.Decide(memory)
		case passes:
			b.active = true
			p.debug("activate", i)
			b.task.Activated(memory)
		}
	}
}

// Activated implements Task by dropping every branch and starting the
// ones whose condition passes.
func (p *Parallelizer[M]) Activated(memory *M) {
	for i := range p.branches {
		p.branches[i].active = false
	}
	p.Decide(memory)
}

// Update implements Task.
func (p *Parallelizer[M]) Update(memory *M) {
	for _, b := range p.branches {
		if b.active {
			b.task.Update(memory)
		}
	}
}

// Tick calls Decide then Update.
func (p *Parallelizer[M]) Tick(memory *M) {
	p.Decide(memory)
	p.Update(memory)
}

// IsLocked implements Task: any locked running branch locks the whole.
func (p *Parallelizer[M]) IsLocked(memory *M) bool {
	for _, b := range p.branches {
		if b.active && b.task.IsLocked(memory) {
			return true
		}
	}
	return false
}

func (p *Parallelizer[M]) debug(msg string, i int) {
	if p.logger != nil {
		p.logger.LogAttrs(context.Background(), slog.LevelDebug, "[Parallelizer] "+msg, slog.Int("branch", i))
	}
}

// ParallelizerBuilder assembles an immutable Parallelizer.
type ParallelizerBuilder[M any] struct {
	p   Parallelizer[M]
	err error
}

// NewParallelizer starts building a Parallelizer.
func NewParallelizer[M any]() *ParallelizerBuilder[M] {
	return &ParallelizerBuilder[M]{}
}

// Branch appends a task guarded by a condition.
func (b *ParallelizerBuilder[M]) Branch(condition Condition[M], task Task[M]) *ParallelizerBuilder[M] {
	if b.err != nil {
		return b
	}
	switch {
	case condition == nil:
		b.err = fmt.Errorf("parallelizer branch %d: %w", len(b.p.branches), ErrNilCondition)
	case task == nil:
		b.err = fmt.Errorf("parallelizer branch %d: %w", len(b.p.branches), ErrNilTask)
	default:
		b.p.branches = append(b.p.branches, branch[M]{condition: condition, task: task})
	}
	return b
}

// Logger enables debug logging of branch changes.
func (b *ParallelizerBuilder[M]) Logger(l *slog.Logger) *ParallelizerBuilder[M] {
	b.p.logger = l
	return b
}

// Build returns the Parallelizer, or the first registration error.
func (b *ParallelizerBuilder[M]) Build() (*Parallelizer[M], error) {
	if b.err != nil {
		return nil, b.err
	}
	p := b.p
	p.branches = slices.Clone(b.p.branches)
	return &p, nil
}
