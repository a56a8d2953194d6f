package planner

import (
	"fmt"
	"slices"
	"sync"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"
)

// ActionRegistry provides thread-safe storage for planning actions, so one
// registry can be shared by agents ticking on different goroutines.
type ActionRegistry struct {
	mu      sync.RWMutex
	actions map[string]*Action
}

// NewActionRegistry creates a new empty action registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{actions: make(map[string]*Action)}
}

// Register adds actions, replacing existing actions with the same name.
func (r *ActionRegistry) Register(actions ...*Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range actions {
		r.actions[a.Name] = a
	}
}

// Get retrieves an action by name, or nil.
func (r *ActionRegistry) Get(name string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Names returns the registered action names, sorted.
func (r *ActionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns all registered actions sorted by name, which keeps planning
// reproducible.
func (r *ActionRegistry) All() []pabtpkg.IAction {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]pabtpkg.IAction, 0, len(names))
	for _, name := range names {
		if a, ok := r.actions[name]; ok {
			result = append(result, a)
		}
	}
	return result
}

var _ pabtpkg.IAction = (*Action)(nil)

// Action is a planning action: precondition groups (AND within a group,
// OR across groups), the effects it achieves, and the node performing it.
type Action struct {
	Name       string
	conditions []pabtpkg.IConditions
	effects    pabtpkg.Effects
	node       bt.Node
}

// NewAction creates an Action. It panics if node is nil.
func NewAction(name string, conditions []pabtpkg.IConditions, effects pabtpkg.Effects, node bt.Node) *Action {
	if node == nil {
		panic(fmt.Sprintf("planner.NewAction: node parameter cannot be nil (action=%s)", name))
	}
	return &Action{
		Name:       name,
		conditions: conditions,
		effects:    effects,
		node:       node,
	}
}

// Conditions implements pabtpkg.IAction.
func (a *Action) Conditions() []pabtpkg.IConditions { return a.conditions }

// Effects implements pabtpkg.IAction.
func (a *Action) Effects() pabtpkg.Effects { return a.effects }

// Node implements pabtpkg.IAction.
func (a *Action) Node() bt.Node { return a.node }

// String returns the action name.
func (a *Action) String() string { return a.Name }

var (
	_ pabtpkg.Effect    = (*Effect)(nil)
	_ pabtpkg.Condition = (*Cond)(nil)
)

// Effect is a key/value pair an action establishes on the blackboard.
type Effect struct {
	key   string
	value any
}

// NewEffect creates an Effect.
func NewEffect(key string, value any) *Effect {
	return &Effect{key: key, value: value}
}

// Key implements pabtpkg.Effect.
func (e *Effect) Key() any { return e.key }

// Value implements pabtpkg.Effect.
func (e *Effect) Value() any { return e.value }

// Cond is a pabtpkg.Condition on one blackboard key backed by a function.
// See exprcond.Match for expression based conditions.
type Cond struct {
	key   string
	match func(value any) bool
}

// NewCond creates a Cond.
func NewCond(key string, match func(value any) bool) *Cond {
	return &Cond{key: key, match: match}
}

// Equals matches values equal to want.
func Equals(key string, want any) *Cond {
	return NewCond(key, func(value any) bool { return value == want })
}

// Key implements pabtpkg.Condition.
func (c *Cond) Key() any { return c.key }

// Match implements pabtpkg.Condition.
func (c *Cond) Match(value any) bool {
	return c.match != nil && c.match(value)
}
