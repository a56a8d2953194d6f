package emergent

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

// DecisionMaker selects and runs one active Task out of a set of states
// keyed by K. Every DecisionMaker is itself a Task, which is how networks
// nest: activating a nested DecisionMaker resets it to its initial state.
type DecisionMaker[M any, K comparable] interface {
	Task[M]

	// ActiveState returns the active state id, and false before the first
	// activation.
	ActiveState() (K, bool)

	// Activate makes id the active state and calls its task's Activated
	// hook. Unless forced, activating the already active id does nothing.
	// Unknown ids are ignored. Activate reports whether an activation
	// happened. It does not consult locks.
	Activate(id K, memory *M, forced bool) bool

	// Tick calls Decide then Update.
	Tick(memory *M)
}

// ActivePath follows active states down through nested decision makers
// sharing the same id type, outermost first.
func ActivePath[M any, K comparable](dm DecisionMaker[M, K]) []K {
	var path []K
	for dm != nil {
		id, ok := dm.ActiveState()
		if !ok {
			break
		}
		path = append(path, id)
		nested, _ := dm.(interface{ ActiveTask() (Task[M], bool) })
		if nested == nil {
			break
		}
		task, _ := nested.ActiveTask()
		dm, _ = task.(DecisionMaker[M, K])
	}
	return path
}

type registered[M any, K comparable] struct {
	id   K
	task Task[M]
}

// registry is the plumbing shared by keyed decision makers: ordered state
// storage, membership-checked activation, lock queries and forwarding.
type registry[M any, K comparable] struct {
	kind      string
	states    []registered[M, K]
	index     map[K]int
	active    int
	hasActive bool
	logger    *slog.Logger
}

func newRegistry[M any, K comparable](kind string) registry[M, K] {
	return registry[M, K]{kind: kind, index: make(map[K]int)}
}

// clone copies the registrations so a builder can keep registering
// without reaching into what it already built.
func (r *registry[M, K]) clone() registry[M, K] {
	c := *r
	c.states = slices.Clone(r.states)
	c.index = maps.Clone(r.index)
	return c
}

func (r *registry[M, K]) add(id K, task Task[M]) error {
	if task == nil {
		return fmt.Errorf("%s state %v: %w", r.kind, id, ErrNilTask)
	}
	if _, ok := r.index[id]; ok {
		return fmt.Errorf("%s state %v: %w", r.kind, id, ErrDuplicateState)
	}
	r.index[id] = len(r.states)
	r.states = append(r.states, registered[M, K]{id: id, task: task})
	return nil
}

func (r *registry[M, K]) has(id K) bool {
	_, ok := r.index[id]
	return ok
}

// ActiveState returns the active state id, and false before the first
// activation.
func (r *registry[M, K]) ActiveState() (K, bool) {
	if !r.hasActive {
		var zero K
		return zero, false
	}
	return r.states[r.active].id, true
}

// ActiveTask returns the task of the active state.
func (r *registry[M, K]) ActiveTask() (Task[M], bool) {
	if !r.hasActive {
		return nil, false
	}
	return r.states[r.active].task, true
}

// Activate implements DecisionMaker.
func (r *registry[M, K]) Activate(id K, memory *M, forced bool) bool {
	i, ok := r.index[id]
	if !ok {
		r.debug("ignoring activation of unknown state", slog.Any("to", id))
		return false
	}
	return r.activateIndex(i, memory, forced)
}

func (r *registry[M, K]) activateIndex(i int, memory *M, forced bool) bool {
	if !forced && r.hasActive && r.active == i {
		return false
	}
	if r.logger != nil {
		attrs := []slog.Attr{slog.Any("to", r.states[i].id), slog.Bool("forced", forced)}
		if r.hasActive {
			attrs = append(attrs, slog.Any("from", r.states[r.active].id))
		}
		r.logger.LogAttrs(context.Background(), slog.LevelDebug, "["+r.kind+"] activate", attrs...)
	}
	r.active, r.hasActive = i, true
	r.states[i].task.Activated(memory)
	return true
}

// locked reports whether the active task vetoes leaving its state.
func (r *registry[M, K]) locked(memory *M) bool {
	if !r.hasActive {
		return false
	}
	if r.states[r.active].task.IsLocked(memory) {
		r.debug("transition vetoed by lock", slog.Any("state", r.states[r.active].id))
		return true
	}
	return false
}

// IsLocked implements Task by delegating to the active task.
func (r *registry[M, K]) IsLocked(memory *M) bool {
	if !r.hasActive {
		return false
	}
	return r.states[r.active].task.IsLocked(memory)
}

// forward runs the active task's own decision logic.
func (r *registry[M, K]) forward(memory *M) {
	if r.hasActive {
		r.states[r.active].task.Decide(memory)
	}
}

// Update implements Task by updating the active task only.
func (r *registry[M, K]) Update(memory *M) {
	if r.hasActive {
		r.states[r.active].task.Update(memory)
	}
}

// Len returns the number of registered states.
func (r *registry[M, K]) Len() int { return len(r.states) }

func (r *registry[M, K]) debug(msg string, attrs ...slog.Attr) {
	if r.logger != nil {
		r.logger.LogAttrs(context.Background(), slog.LevelDebug, "["+r.kind+"] "+msg, attrs...)
	}
}
