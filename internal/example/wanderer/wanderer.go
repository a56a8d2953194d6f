// Package wanderer is a flat state machine: an agent that changes
// direction, walks two turns, waits one turn, and repeats.
package wanderer

import (
	"fmt"
	"log/slog"

	"github.com/joeycumines/go-emergent/internal/emergent"
)

// State ids.
const (
	ChangeDirection = "change-direction"
	Move            = "move"
	Wait            = "wait"
)

// Direction is a compass heading.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Clockwise returns the next heading, turning right.
func (d Direction) Clockwise() Direction { return (d + 1) % 4 }

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Memory is the wanderer's state.
type Memory struct {
	X, Y      int
	Direction Direction
	Turns     int
}

func (m *Memory) String() string {
	return fmt.Sprintf("pos=(%d,%d) dir=%s turns=%d", m.X, m.Y, m.Direction, m.Turns)
}

func (m *Memory) step() {
	switch m.Direction {
	case North:
		m.Y++
	case East:
		m.X++
	case South:
		m.Y--
	case West:
		m.X--
	}
}

type changeDirection struct{ emergent.BaseTask[Memory] }

func (changeDirection) Activated(m *Memory) { m.Direction = m.Direction.Clockwise() }

type move struct{ emergent.BaseTask[Memory] }

func (move) Activated(m *Memory) { m.Turns = 2 }

func (move) Update(m *Memory) {
	m.step()
	m.Turns--
}

type wait struct{ emergent.BaseTask[Memory] }

func (wait) Activated(m *Memory) { m.Turns = 1 }

func (wait) Update(m *Memory) { m.Turns-- }

func outOfTurns() emergent.Condition[Memory] {
	return emergent.ConditionFunc[Memory](func(m *Memory) bool { return m.Turns <= 0 })
}

// New builds the wanderer's machine. The host activates ChangeDirection.
func New(logger *slog.Logger) (*emergent.Machinery[Memory, string], error) {
	return emergent.NewMachinery[Memory, string]().
		State(ChangeDirection, changeDirection{}, emergent.To(Move, emergent.Always[Memory]())).
		State(Move, move{}, emergent.To(Wait, outOfTurns())).
		State(Wait, wait{}, emergent.To(ChangeDirection, outOfTurns())).
		Logger(logger).
		Build()
}
