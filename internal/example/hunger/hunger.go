// Package hunger runs an agent's hunger at two levels of detail. In view,
// hunger grows on every update. Out of view nothing is simulated, and the
// missed growth is estimated in one step when the agent comes back.
package hunger

import (
	"fmt"
	"log/slog"

	"github.com/joeycumines/go-emergent/internal/emergent"
	"github.com/joeycumines/go-emergent/internal/memory"
)

// Levels of detail.
const (
	Background = iota
	Foreground
)

// Row names.
const (
	RowClock  = "clock"
	RowHunger = "hunger"
	RowSince  = "since"
)

const (
	// Rate is the hunger gained per tick.
	Rate = 0.05
	// Period is the number of ticks spent in and out of view.
	Period = 4
)

// Memory is the agent's data table together with its level of detail.
type Memory = emergent.LodMemory[memory.DataTable[float64]]

// NewMemory returns a memory at clock 0, out of view.
func NewMemory() *Memory {
	m := &Memory{Level: Background}
	m.Memory.Set(RowClock, 0)
	m.Memory.Set(RowHunger, 0)
	return m
}

// Clock returns the current tick.
func Clock(m *Memory) float64 {
	v, _ := m.Memory.Get(RowClock)
	return v
}

// Hunger returns the current hunger.
func Hunger(m *Memory) float64 {
	v, _ := m.Memory.Get(RowHunger)
	return v
}

// Advance moves the clock one tick. The agent is in view during every
// other Period.
func Advance(m *Memory) {
	clock := Clock(m) + 1
	m.Memory.Set(RowClock, clock)
	m.Level = Background
	if int(clock)/Period%2 == 1 {
		m.Level = Foreground
	}
}

// LevelName names a level of detail.
func LevelName(level int) string {
	switch level {
	case Background:
		return "background"
	case Foreground:
		return "foreground"
	default:
		return fmt.Sprintf("level-%d", level)
	}
}

// Describe renders the memory for logs.
func Describe(m *Memory) string {
	return fmt.Sprintf("clock=%.0f hunger=%.2f view=%s", Clock(m), Hunger(m), LevelName(m.Level))
}

// background remembers when the agent left view.
type background struct{ emergent.BaseTask[Memory] }

func (background) Activated(m *Memory) { m.Memory.Set(RowSince, Clock(m)) }

// foreground catches up on missed hunger, then grows it every update.
type foreground struct{ emergent.BaseTask[Memory] }

func (foreground) Activated(m *Memory) {
	since, ok := m.Memory.Get(RowSince)
	if !ok {
		return
	}
	m.Memory.With(RowHunger, func(h *float64) { *h += (Clock(m) - since) * Rate })
	m.Memory.Remove(RowSince)
}

func (foreground) Update(m *Memory) {
	m.Memory.With(RowHunger, func(h *float64) { *h += Rate })
}

// New builds the level of detail selector. The host activates Background.
func New(logger *slog.Logger) (*emergent.Selector[Memory, int], error) {
	return emergent.NewLod[memory.DataTable[float64]]().
		Level(background{}).
		Level(foreground{}).
		Logger(logger).
		Build()
}
