package planner

import (
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-emergent/internal/emergent"
	"github.com/joeycumines/go-emergent/internal/memory"
)

var _ emergent.Task[memory.Blackboard] = (*Task)(nil)

// Task pursues goals with a plan built fresh on every activation. Goals are
// alternatives: any one satisfied group completes the task.
//
// The task is locked while its plan is running, so a parent decision maker
// will not switch away mid plan. Planning or tick errors are logged and
// leave the task failed.
type Task struct {
	state  *State
	goals  []pabtpkg.IConditions
	node   bt.Node
	status bt.Status
	ticked bool
	logger *slog.Logger
}

// NewTask creates a Task for the given goal groups.
func NewTask(state *State, goals ...pabtpkg.IConditions) *Task {
	return &Task{state: state, goals: goals, logger: slog.Default()}
}

// Logger sets the logger used to report planning errors.
func (t *Task) Logger(l *slog.Logger) *Task {
	if l != nil {
		t.logger = l
	}
	return t
}

// Status returns the result of the last tick since activation.
func (t *Task) Status() (bt.Status, bool) { return t.status, t.ticked }

// Activated implements emergent.Task by building a new plan.
func (t *Task) Activated(bb *memory.Blackboard) {
	defer t.state.bind(bb)()
	t.ticked = false
	plan, err := pabtpkg.INew(t.state, t.goals)
	if err != nil {
		t.logger.Error("[planner] failed to create plan", "error", err)
		t.node, t.status, t.ticked = nil, bt.Failure, true
		return
	}
	t.node = plan.Node()
}

// Decide implements emergent.Task. Plans refine themselves while ticking.
func (t *Task) Decide(*memory.Blackboard) {}

// Update implements emergent.Task by ticking the plan once.
func (t *Task) Update(bb *memory.Blackboard) {
	if t.node == nil {
		return
	}
	defer t.state.bind(bb)()
	status, err := t.node.Tick()
	if err != nil {
		t.logger.Warn("[planner] plan tick error", "error", err)
		status = bt.Failure
	}
	t.status, t.ticked = status, true
}

// IsLocked implements emergent.Task.
func (t *Task) IsLocked(*memory.Blackboard) bool {
	return t.ticked && t.status == bt.Running
}

// Done passes once the task's plan reached its goal.
func Done(t *Task) emergent.Condition[memory.Blackboard] {
	return emergent.ConditionFunc[memory.Blackboard](func(*memory.Blackboard) bool {
		return t.ticked && t.status == bt.Success
	})
}

// Failed passes once the task's plan failed.
func Failed(t *Task) emergent.Condition[memory.Blackboard] {
	return emergent.ConditionFunc[memory.Blackboard](func(*memory.Blackboard) bool {
		return t.ticked && t.status == bt.Failure
	})
}
