// Package btree runs go-behaviortree trees as decision maker tasks.
//
// A Tree owns a behavior tree built once at construction. Leaves reach the
// memory of the current call through a Binding, which only holds it for the
// duration of Tree.Update.
package btree

import (
	"errors"
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/joeycumines/go-emergent/internal/emergent"
)

// ErrUnbound is returned by leaves ticked outside of Tree.Update.
var ErrUnbound = errors.New("btree: leaf ticked without memory")

// Binding gives leaves access to the memory of the current tick.
type Binding[M any] struct {
	memory *M
}

// Leaf builds a leaf node running fn against the bound memory.
func (b *Binding[M]) Leaf(fn func(memory *M) bt.Status) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if b.memory == nil {
			return bt.Failure, ErrUnbound
		}
		return fn(b.memory), nil
	})
}

// Do builds a leaf node that runs fn and succeeds.
func (b *Binding[M]) Do(fn func(memory *M)) bt.Node {
	return b.Leaf(func(memory *M) bt.Status {
		fn(memory)
		return bt.Success
	})
}

// Check builds a leaf node that succeeds when the condition passes and
// fails otherwise.
func (b *Binding[M]) Check(c emergent.Condition[M]) bt.Node {
	return b.Leaf(func(memory *M) bt.Status {
		if c.Validate(memory) {
			return bt.Success
		}
		return bt.Failure
	})
}

// Tree is an emergent.Task that ticks a behavior tree on every Update.
type Tree[M any] struct {
	binding Binding[M]
	root    bt.Node
	status  bt.Status
	ticked  bool
	locking bool
	logger  *slog.Logger
}

var _ emergent.Task[struct{}] = (*Tree[struct{}])(nil)

// New builds a Tree. build receives the binding to create leaves with and
// returns the root node.
func New[M any](build func(b *Binding[M]) bt.Node) *Tree[M] {
	t := &Tree[M]{logger: slog.Default()}
	t.root = build(&t.binding)
	return t
}

// LockWhileRunning makes the tree veto transitions while its last tick
// reported bt.Running.
func (t *Tree[M]) LockWhileRunning() *Tree[M] {
	t.locking = true
	return t
}

// Logger sets the logger used to report tick errors.
func (t *Tree[M]) Logger(l *slog.Logger) *Tree[M] {
	if l != nil {
		t.logger = l
	}
	return t
}

// Status returns the result of the last tick since activation.
func (t *Tree[M]) Status() (bt.Status, bool) { return t.status, t.ticked }

// IsLocked implements emergent.Task.
func (t *Tree[M]) IsLocked(*M) bool {
	return t.locking && t.ticked && t.status == bt.Running
}

// Activated implements emergent.Task by forgetting the last status.
func (t *Tree[M]) Activated(*M) {
	t.ticked = false
}

// Decide implements emergent.Task. Trees make their decisions while ticking.
func (t *Tree[M]) Decide(*M) {}

// Update implements emergent.Task by ticking the root once. Tick errors
// are logged and count as bt.Failure.
func (t *Tree[M]) Update(memory *M) {
	t.binding.memory = memory
	defer func() { t.binding.memory = nil }()
	status, err := t.root.Tick()
	if err != nil {
		t.logger.Warn("[btree] tick error", "error", err)
		status = bt.Failure
	}
	t.status, t.ticked = status, true
}

// Done passes once the tree's last tick succeeded.
func Done[M any](t *Tree[M]) emergent.Condition[M] {
	return emergent.ConditionFunc[M](func(*M) bool {
		return t.ticked && t.status == bt.Success
	})
}

// Failed passes once the tree's last tick failed.
func Failed[M any](t *Tree[M]) emergent.Condition[M] {
	return emergent.ConditionFunc[M](func(*M) bool {
		return t.ticked && t.status == bt.Failure
	})
}
