// Package planner plans and runs goal-directed behavior with go-pabt
// (planning and acting using behavior trees) over a memory.Blackboard.
//
// Actions declare preconditions and effects on blackboard keys. A Task
// expands a plan for its goals on activation and ticks it on every update,
// refining it whenever a condition fails:
//
//	actions := planner.NewActionRegistry()
//	state := planner.NewState(actions)
//	actions.Register(planner.NewAction("buy-ticket", nil,
//		pabtpkg.Effects{planner.NewEffect("hasTicket", true)},
//		state.Do(func(bb *memory.Blackboard) { bb.Set("hasTicket", true) })))
//	task := planner.NewTask(state, pabtpkg.IConditions{planner.Equals("hasTicket", true)})
package planner

import (
	"errors"
	"fmt"
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-emergent/internal/memory"
)

var _ pabtpkg.IState = (*State)(nil)

// ErrUnbound is returned when the state is queried outside of a Task call.
var ErrUnbound = errors.New("planner: state used without a bound blackboard")

// State implements pabtpkg.IState over the blackboard of the current call.
// It normalizes variable keys to blackboard strings and offers the actions
// of its registry whose effects could satisfy a failed condition.
type State struct {
	bb      *memory.Blackboard
	actions *ActionRegistry
}

// NewState creates a State offering the given actions.
func NewState(actions *ActionRegistry) *State {
	if actions == nil {
		actions = NewActionRegistry()
	}
	return &State{actions: actions}
}

// bind attaches the blackboard for the duration of a call and returns the
// function detaching it.
func (s *State) bind(bb *memory.Blackboard) func() {
	s.bb = bb
	return func() { s.bb = nil }
}

// Variable implements pabtpkg.IState.
//
// Missing keys yield (nil, nil).
func (s *State) Variable(key any) (any, error) {
	if s.bb == nil {
		return nil, ErrUnbound
	}
	name, err := keyString(key)
	if err != nil {
		return nil, err
	}
	return s.bb.Get(name), nil
}

func keyString(key any) (string, error) {
	switch k := key.(type) {
	case nil:
		return "", errors.New("planner: variable key cannot be nil")
	case string:
		return k, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", k), nil
	case fmt.Stringer:
		return k.String(), nil
	default:
		return "", fmt.Errorf("planner: unsupported key type: %T", key)
	}
}

// Actions implements pabtpkg.IState. It returns, in name order, the
// registered actions with an effect on the failed condition's key whose
// value the condition matches. A nil condition returns every action.
func (s *State) Actions(failed pabtpkg.Condition) ([]pabtpkg.IAction, error) {
	all := s.actions.All()
	if failed == nil {
		return all, nil
	}
	var relevant []pabtpkg.IAction
	for _, action := range all {
		if hasRelevantEffect(action, failed) {
			relevant = append(relevant, action)
		}
	}
	slog.Debug("[planner] actions for failed condition",
		"key", failed.Key(),
		"relevant", len(relevant))
	return relevant, nil
}

func hasRelevantEffect(action pabtpkg.IAction, failed pabtpkg.Condition) bool {
	for _, effect := range action.Effects() {
		if effect != nil && effect.Key() == failed.Key() && failed.Match(effect.Value()) {
			return true
		}
	}
	return false
}

// Leaf builds an action node running fn against the bound blackboard.
func (s *State) Leaf(fn func(bb *memory.Blackboard) bt.Status) bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		if s.bb == nil {
			return bt.Failure, ErrUnbound
		}
		return fn(s.bb), nil
	})
}

// Do builds an action node that runs fn and succeeds.
func (s *State) Do(fn func(bb *memory.Blackboard)) bt.Node {
	return s.Leaf(func(bb *memory.Blackboard) bt.Status {
		fn(bb)
		return bt.Success
	})
}
