// Package guard is a hierarchical state machine: a guard patrols between
// waypoints until it finds the player, then fights until the player is
// lost. Patrol and Combat are machines nested in the root machine, and the
// attack itself is a behavior tree.
package guard

import (
	"fmt"
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/joeycumines/go-emergent/internal/btree"
	"github.com/joeycumines/go-emergent/internal/emergent"
)

// State ids.
const (
	Patrol              = "patrol"
	FindWaypoint        = "find-waypoint"
	WalkTowardsWaypoint = "walk-towards-waypoint"
	Combat              = "combat"
	WalkTowardsPlayer   = "walk-towards-player"
	AttackPlayer        = "attack-player"
)

// Player is whether the guard knows where the player is.
type Player int

const (
	NotFound Player = iota
	Found
)

func (p Player) String() string {
	if p == Found {
		return "found"
	}
	return "not-found"
}

// Memory is the guard's view of a one dimensional corridor.
type Memory struct {
	Position       int
	Waypoints      []int
	NextWaypoint   int
	Target         int
	HasTarget      bool
	Player         Player
	PlayerPosition int
	Swings         int
	Hits           int
}

func (m *Memory) String() string {
	return fmt.Sprintf("pos=%d target=%d player=%s@%d hits=%d", m.Position, m.Target, m.Player, m.PlayerPosition, m.Hits)
}

func stepTowards(from, to int) int {
	switch {
	case from < to:
		return from + 1
	case from > to:
		return from - 1
	default:
		return from
	}
}

func inReach(m *Memory) bool {
	d := m.Position - m.PlayerPosition
	return d >= -1 && d <= 1
}

type findWaypoint struct{ emergent.BaseTask[Memory] }

func (findWaypoint) Activated(m *Memory) {
	if len(m.Waypoints) == 0 {
		return
	}
	m.Target = m.Waypoints[m.NextWaypoint%len(m.Waypoints)]
	m.NextWaypoint = (m.NextWaypoint + 1) % len(m.Waypoints)
	m.HasTarget = true
}

type walkTowardsWaypoint struct{ emergent.BaseTask[Memory] }

func (walkTowardsWaypoint) Update(m *Memory) {
	m.Position = stepTowards(m.Position, m.Target)
	if m.Position == m.Target {
		m.HasTarget = false
	}
}

type walkTowardsPlayer struct{ emergent.BaseTask[Memory] }

func (walkTowardsPlayer) Update(m *Memory) {
	if !inReach(m) {
		m.Position = stepTowards(m.Position, m.PlayerPosition)
	}
}

// newAttack swings twice, then hits, while the player stays in reach.
func newAttack(logger *slog.Logger) *btree.Tree[Memory] {
	return btree.New(func(b *btree.Binding[Memory]) bt.Node {
		return bt.New(bt.Sequence,
			b.Check(emergent.ConditionFunc[Memory](inReach)),
			b.Leaf(func(m *Memory) bt.Status {
				m.Swings++
				if m.Swings < 2 {
					return bt.Running
				}
				m.Swings = 0
				m.Hits++
				return bt.Success
			}),
		)
	}).LockWhileRunning().Logger(logger)
}

// Guard is the root machine together with its nested machines.
type Guard struct {
	Root   *emergent.Machinery[Memory, string]
	Patrol *emergent.Machinery[Memory, string]
	Combat *emergent.Machinery[Memory, string]
	Attack *btree.Tree[Memory]
}

// New builds the guard. The host activates Patrol on Root.
func New(logger *slog.Logger) (*Guard, error) {
	hasTarget := emergent.ConditionFunc[Memory](func(m *Memory) bool { return m.HasTarget })
	reach := emergent.ConditionFunc[Memory](inReach)
	found := emergent.ConditionFunc[Memory](func(m *Memory) bool { return m.Player == Found })

	patrol, err := emergent.NewMachinery[Memory, string]().
		State(FindWaypoint, findWaypoint{}, emergent.To[Memory](WalkTowardsWaypoint, hasTarget)).
		State(WalkTowardsWaypoint, walkTowardsWaypoint{}, emergent.To(FindWaypoint, emergent.Not[Memory](hasTarget))).
		Initial(FindWaypoint).
		Logger(logger).
		Build()
	if err != nil {
		return nil, fmt.Errorf("patrol: %w", err)
	}

	attack := newAttack(logger)
	combat, err := emergent.NewMachinery[Memory, string]().
		State(WalkTowardsPlayer, walkTowardsPlayer{}, emergent.To[Memory](AttackPlayer, reach)).
		State(AttackPlayer, attack, emergent.To(WalkTowardsPlayer, emergent.Not[Memory](reach))).
		Initial(WalkTowardsPlayer).
		Logger(logger).
		Build()
	if err != nil {
		return nil, fmt.Errorf("combat: %w", err)
	}

	root, err := emergent.NewMachinery[Memory, string]().
		State(Patrol, patrol, emergent.To[Memory](Combat, found)).
		State(Combat, combat, emergent.To(Patrol, emergent.Not[Memory](found))).
		Logger(logger).
		Build()
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	return &Guard{Root: root, Patrol: patrol, Combat: combat, Attack: attack}, nil
}
