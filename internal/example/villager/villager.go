// Package villager is a utility reasoner: a villager weighs eating,
// gathering wood and fighting, and does whatever scores best.
package villager

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/joeycumines/go-emergent/internal/emergent"
)

// State ids.
const (
	Idle           = "idle"
	GatherFood     = "gather-food"
	GatherWood     = "gather-wood"
	AttackOpponent = "attack-opponent"
)

// Memory holds normalized [0, 1] needs and distances.
type Memory struct {
	Hunger             float64
	DistanceToFood     float64
	DistanceToTrees    float64
	WoodNeeded         float64
	DistanceToOpponent float64
	OpponentStrength   float64
}

func (m *Memory) String() string {
	return fmt.Sprintf("hunger=%.2f food=%.2f trees=%.2f wood=%.2f opponent=%.2f strength=%.2f",
		m.Hunger, m.DistanceToFood, m.DistanceToTrees, m.WoodNeeded, m.DistanceToOpponent, m.OpponentStrength)
}

func field(f func(m *Memory) float64) emergent.Consideration[Memory] {
	return emergent.ConsiderationFunc[Memory](f)
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// idle lets hunger grow.
type idle struct{ emergent.BaseTask[Memory] }

func (idle) Update(m *Memory) { m.Hunger = clamp01(m.Hunger + 0.1) }

// gatherFood walks towards food and eats once there.
type gatherFood struct{ emergent.BaseTask[Memory] }

func (gatherFood) Update(m *Memory) {
	if m.DistanceToFood > 0 {
		m.DistanceToFood = clamp01(m.DistanceToFood - 0.25)
		return
	}
	m.Hunger = clamp01(m.Hunger - 0.5)
}

// gatherWood walks towards trees and chops once there.
type gatherWood struct{ emergent.BaseTask[Memory] }

func (gatherWood) Update(m *Memory) {
	if m.DistanceToTrees > 0 {
		m.DistanceToTrees = clamp01(m.DistanceToTrees - 0.25)
		return
	}
	m.WoodNeeded = clamp01(m.WoodNeeded - 0.5)
}

// attackOpponent closes in and then wears the opponent down. A beaten
// opponent retreats out of reach.
type attackOpponent struct{ emergent.BaseTask[Memory] }

func (attackOpponent) Update(m *Memory) {
	if m.DistanceToOpponent > 0 {
		m.DistanceToOpponent = clamp01(m.DistanceToOpponent - 0.5)
		return
	}
	m.OpponentStrength = clamp01(m.OpponentStrength - 0.5)
	if m.OpponentStrength == 0 {
		m.DistanceToOpponent = 1
	}
	m.Hunger = clamp01(m.Hunger + 0.1)
}

// New builds the villager's reasoner. The host activates Idle.
//
// Scores:
//
//	idle             0.001
//	gather food      hunger * (1 - distance to food)
//	gather wood      wood needed * (1 - distance to trees)
//	attack opponent  (1 - distance to opponent) + opponent strength
func New(logger *slog.Logger) (*emergent.Reasoner[Memory, string], error) {
	return emergent.NewReasoner[Memory, string]().
		State(Idle, idle{}, emergent.ConstConsideration[Memory](0.001)).
		State(GatherFood, gatherFood{}, emergent.Product(
			field(func(m *Memory) float64 { return m.Hunger }),
			emergent.Reverse(field(func(m *Memory) float64 { return m.DistanceToFood })),
		)).
		State(GatherWood, gatherWood{}, emergent.Product(
			field(func(m *Memory) float64 { return m.WoodNeeded }),
			emergent.Reverse(field(func(m *Memory) float64 { return m.DistanceToTrees })),
		)).
		State(AttackOpponent, attackOpponent{}, emergent.Sum(
			emergent.Reverse(field(func(m *Memory) float64 { return m.DistanceToOpponent })),
			field(func(m *Memory) float64 { return m.OpponentStrength }),
		)).
		Logger(logger).
		Build()
}
