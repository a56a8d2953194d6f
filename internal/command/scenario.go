package command

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/joeycumines/go-emergent/internal/emergent"
	"github.com/joeycumines/go-emergent/internal/example/commute"
	"github.com/joeycumines/go-emergent/internal/example/guard"
	"github.com/joeycumines/go-emergent/internal/example/hunger"
	"github.com/joeycumines/go-emergent/internal/example/villager"
	"github.com/joeycumines/go-emergent/internal/example/wanderer"
	"github.com/joeycumines/go-emergent/internal/memory"
)

// agent is a running scenario: a top-level decision maker plus its world.
type agent interface {
	Decide()
	Update()
	Path() []string
	Describe() string
}

// scenario creates a fresh, activated agent.
type scenario struct {
	description string
	create      func(logger *slog.Logger) (agent, error)
}

var scenarios = map[string]scenario{
	"wanderer": {"State machine walking a square", newWanderer},
	"villager": {"Utility reasoner balancing needs", newVillager},
	"guard":    {"Hierarchical machine patrolling, then fighting", newGuard},
	"commute":  {"Machine with a planned commute over a blackboard", newCommute},
	"hunger":   {"Level of detail selector over a data table", newHunger},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decisionAgent drives a top-level DecisionMaker. The world hook, when set,
// runs before every update. Path labels ids with label, or fmt.Sprint.
type decisionAgent[M any, K comparable] struct {
	dm       emergent.DecisionMaker[M, K]
	memory   *M
	world    func(memory *M)
	describe func(memory *M) string
	label    func(id K) string
}

func (a *decisionAgent[M, K]) Decide() { a.dm.Decide(a.memory) }

func (a *decisionAgent[M, K]) Update() {
	if a.world != nil {
		a.world(a.memory)
	}
	a.dm.Update(a.memory)
}

func (a *decisionAgent[M, K]) Path() []string {
	ids := emergent.ActivePath(a.dm)
	path := make([]string, len(ids))
	for i, id := range ids {
		if a.label != nil {
			path[i] = a.label(id)
		} else {
			path[i] = fmt.Sprint(id)
		}
	}
	return path
}

func (a *decisionAgent[M, K]) Describe() string { return a.describe(a.memory) }

func start[M any, K comparable](a *decisionAgent[M, K], initial K) (agent, error) {
	if !a.dm.Activate(initial, a.memory, true) {
		return nil, fmt.Errorf("unknown initial state %v", initial)
	}
	return a, nil
}

func newWanderer(logger *slog.Logger) (agent, error) {
	m, err := wanderer.New(logger)
	if err != nil {
		return nil, err
	}
	return start(&decisionAgent[wanderer.Memory, string]{
		dm:       m,
		memory:   new(wanderer.Memory),
		describe: (*wanderer.Memory).String,
	}, wanderer.ChangeDirection)
}

func newVillager(logger *slog.Logger) (agent, error) {
	r, err := villager.New(logger)
	if err != nil {
		return nil, err
	}
	return start(&decisionAgent[villager.Memory, string]{
		dm: r,
		memory: &villager.Memory{
			Hunger:             0.5,
			DistanceToFood:     0.9,
			DistanceToTrees:    0.5,
			WoodNeeded:         0.6,
			DistanceToOpponent: 1,
			OpponentStrength:   0.2,
		},
		describe: (*villager.Memory).String,
	}, villager.Idle)
}

// guardPlayerTick is the update tick on which the player shows up.
const guardPlayerTick = 6

func newGuard(logger *slog.Logger) (agent, error) {
	g, err := guard.New(logger)
	if err != nil {
		return nil, err
	}
	var ticks int
	return start(&decisionAgent[guard.Memory, string]{
		dm:     g.Root,
		memory: &guard.Memory{Waypoints: []int{3, -3}, PlayerPosition: 5},
		world: func(m *guard.Memory) {
			ticks++
			if ticks == guardPlayerTick {
				m.Player = guard.Found
			}
		},
		describe: (*guard.Memory).String,
	}, guard.Patrol)
}

func newCommute(logger *slog.Logger) (agent, error) {
	m, err := commute.New(logger)
	if err != nil {
		return nil, err
	}
	bb := new(memory.Blackboard)
	commute.SetHour(bb, commute.DayStart-1)
	return start(&decisionAgent[memory.Blackboard, string]{
		dm:       m,
		memory:   bb,
		world:    commute.Advance,
		describe: commute.Describe,
	}, commute.Home)
}

func newHunger(logger *slog.Logger) (agent, error) {
	lod, err := hunger.New(logger)
	if err != nil {
		return nil, err
	}
	return start(&decisionAgent[hunger.Memory, int]{
		dm:       lod,
		memory:   hunger.NewMemory(),
		world:    hunger.Advance,
		describe: hunger.Describe,
		label:    hunger.LevelName,
	}, hunger.Background)
}
