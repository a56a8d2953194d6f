/*
Package emergent implements composable decision makers for agent behavior.

# Concepts

  - Task: a unit of behavior bound to a state id. Tasks get activated, decide
    and update hooks, and may veto transitions away from themselves by
    reporting that they are locked.
  - Condition: a boolean question about memory, used by Machinery transitions.
  - Consideration: a scalar score over memory, used by Reasoner states.
  - ScoreMapping: reduces child consideration scores into one score.
  - Memory: a caller-owned value passed by pointer into every call. The engine
    never inspects it and never keeps a reference to it between calls.

# Decision makers

Machinery is a finite state machine: the first transition of the active state
whose condition passes wins. Reasoner is a utility selector: the state with the
highest consideration score wins, ties going to the state registered first.
Selector, Sequencer and Parallelizer cover the remaining classic shapes.

Every decision maker is also a Task, so a whole network can be registered as
the task of a state in another network. That is the only hierarchy mechanism.
When a nested decision maker is activated it resets to its initial state.

# Ticking

Hosts drive a top-level decision maker with Decide and Update (or Tick, which
calls both in that order). Decide may run at a lower frequency than Update.
A top-level decision maker must be activated explicitly before the first tick:

	m, err := emergent.NewMachinery[Memory, string]().
		State("idle", idleTask, emergent.To("walk", hasTarget)).
		State("walk", walkTask, emergent.To("idle", arrived)).
		Build()
	if err != nil {
		return err
	}
	m.Activate("idle", &memory, true)
	for range frames {
		m.Tick(&memory)
	}

Until the first activation every operation is a safe no-op.

# Failure model

Ticks never fail. Unknown ids passed to Activate are ignored, an exhausted
transition list keeps the current state, and an empty Reasoner does nothing.
Construction is the only fallible phase: builders report registration errors
from Build.
*/
package emergent
