// Package commute combines a state machine with goal-directed planning: a
// worker rests at home at night, plans a tram commute by day, and works
// until nightfall. Transitions are expr-lang conditions over a blackboard.
package commute

import (
	"fmt"
	"log/slog"

	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-emergent/internal/emergent"
	"github.com/joeycumines/go-emergent/internal/exprcond"
	"github.com/joeycumines/go-emergent/internal/memory"
	"github.com/joeycumines/go-emergent/internal/planner"
)

// State ids.
const (
	Home    = "home"
	Commute = "commute"
	Work    = "work"
)

// Blackboard keys.
const (
	KeyHour        = "hour"
	KeyTime        = "time"
	KeyHasTicket   = "hasTicket"
	KeyAtWorkplace = "atWorkplace"
	KeyWorked      = "worked"
	KeyTickets     = "ticketsBought"
)

// Day hours are [DayStart, DayEnd).
const (
	DayStart = 8
	DayEnd   = 18
)

// Advance moves the clock one hour forward and updates the time of day.
func Advance(bb *memory.Blackboard) {
	hour, _ := memory.Value[int](bb, KeyHour)
	SetHour(bb, (hour+1)%24)
}

// SetHour sets the clock and the matching time of day.
func SetHour(bb *memory.Blackboard, hour int) {
	bb.Set(KeyHour, hour)
	if hour >= DayStart && hour < DayEnd {
		bb.Set(KeyTime, "day")
	} else {
		bb.Set(KeyTime, "night")
	}
}

// Describe summarizes the blackboard for display.
func Describe(bb *memory.Blackboard) string {
	hour, _ := memory.Value[int](bb, KeyHour)
	worked, _ := memory.Value[int](bb, KeyWorked)
	return fmt.Sprintf("hour=%02d time=%s ticket=%t atWork=%t worked=%d",
		hour, bb.String(KeyTime), bb.Bool(KeyHasTicket), bb.Bool(KeyAtWorkplace), worked)
}

// Actions returns the planning actions of a commute.
func Actions(state *planner.State) []*planner.Action {
	return []*planner.Action{
		planner.NewAction("buy-ticket",
			nil,
			pabtpkg.Effects{planner.NewEffect(KeyHasTicket, true)},
			state.Do(func(bb *memory.Blackboard) {
				bb.Set(KeyHasTicket, true)
				tickets, _ := memory.Value[int](bb, KeyTickets)
				bb.Set(KeyTickets, tickets+1)
			}),
		),
		planner.NewAction("ride-tram",
			[]pabtpkg.IConditions{{exprcond.MustMatch(KeyHasTicket, `value == true`)}},
			pabtpkg.Effects{planner.NewEffect(KeyAtWorkplace, true)},
			state.Do(func(bb *memory.Blackboard) {
				bb.Set(KeyHasTicket, false)
				bb.Set(KeyAtWorkplace, true)
			}),
		),
	}
}

type home struct{ emergent.BaseTask[memory.Blackboard] }

func (home) Activated(bb *memory.Blackboard) { bb.Set(KeyAtWorkplace, false) }

type work struct{ emergent.BaseTask[memory.Blackboard] }

func (work) Update(bb *memory.Blackboard) {
	worked, _ := memory.Value[int](bb, KeyWorked)
	bb.Set(KeyWorked, worked+1)
}

// New builds the worker's machine. The host activates Home.
func New(logger *slog.Logger) (*emergent.Machinery[memory.Blackboard, string], error) {
	leave, err := exprcond.NewCondition(`time == "day" && atWorkplace != true`)
	if err != nil {
		return nil, err
	}
	night, err := exprcond.NewCondition(`time == "night"`)
	if err != nil {
		return nil, err
	}

	actions := planner.NewActionRegistry()
	state := planner.NewState(actions)
	actions.Register(Actions(state)...)
	travel := planner.NewTask(state, pabtpkg.IConditions{exprcond.MustMatch(KeyAtWorkplace, `value == true`)})
	if logger != nil {
		travel.Logger(logger)
	}

	return emergent.NewMachinery[memory.Blackboard, string]().
		State(Home, home{}, emergent.To[memory.Blackboard](Commute, leave)).
		State(Commute, travel, emergent.To(Work, planner.Done(travel))).
		State(Work, work{}, emergent.To[memory.Blackboard](Home, night)).
		Logger(logger).
		Build()
}
