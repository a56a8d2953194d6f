package emergent

// Task is a unit of behavior bound to a single state id.
//
// All hooks receive the caller's memory for the duration of the call only.
// Embed BaseTask to implement only the hooks you need.
type Task[M any] interface {
	// IsLocked reports whether the task vetoes transitions away from its
	// state. It is evaluated on demand, never cached.
	IsLocked(memory *M) bool

	// Activated is called exactly once whenever the task's state becomes
	// active, including forced activations.
	Activated(memory *M)

	// Decide is called on a decide tick when the owning decision maker did
	// not change state during that tick. Nested decision makers run their
	// own decision logic here.
	Decide(memory *M)

	// Update is called on every update tick while the task is active.
	Update(memory *M)
}

// BaseTask provides no-op implementations of every Task hook.
// Tasks can embed it and override only what they need.
type BaseTask[M any] struct{}

var _ Task[struct{}] = BaseTask[struct{}]{}

// IsLocked returns false.
func (BaseTask[M]) IsLocked(*M) bool { return false }

// Activated does nothing.
func (BaseTask[M]) Activated(*M) {}

// Decide does nothing.
func (BaseTask[M]) Decide(*M) {}

// Update does nothing.
func (BaseTask[M]) Update(*M) {}

// NoTask returns a task that does nothing, for states where the agent idles.
func NoTask[M any]() Task[M] { return BaseTask[M]{} }

// TaskFuncs is a Task assembled from optional closures, one per hook.
// A nil field behaves like the BaseTask hook.
type TaskFuncs[M any] struct {
	Locked     func(memory *M) bool
	OnActivate func(memory *M)
	OnDecide   func(memory *M)
	OnUpdate   func(memory *M)
}

var _ Task[struct{}] = (*TaskFuncs[struct{}])(nil)

// IsLocked implements Task.
func (t *TaskFuncs[M]) IsLocked(memory *M) bool {
	if t.Locked == nil {
		return false
	}
	return t.Locked(memory)
}

// Activated implements Task.
func (t *TaskFuncs[M]) Activated(memory *M) {
	if t.OnActivate != nil {
		t.OnActivate(memory)
	}
}

// Decide implements Task.
func (t *TaskFuncs[M]) Decide(memory *M) {
	if t.OnDecide != nil {
		t.OnDecide(memory)
	}
}

// Update implements Task.
func (t *TaskFuncs[M]) Update(memory *M) {
	if t.OnUpdate != nil {
		t.OnUpdate(memory)
	}
}
