package emergent

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMachineryBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := NewMachinery[testMemory, string]().
		State("a", rec("a")).
		State("a", rec("a")).
		Build()
	require.ErrorIs(t, err, ErrDuplicateState)

	_, err = NewMachinery[testMemory, string]().State("a", nil).Build()
	require.ErrorIs(t, err, ErrNilTask)

	_, err = NewMachinery[testMemory, string]().
		State("a", rec("a"), Change[testMemory, string]{To: "b"}).
		Build()
	require.ErrorIs(t, err, ErrNilCondition)

	_, err = NewMachinery[testMemory, string]().State("a", rec("a")).Initial("missing").Build()
	require.ErrorIs(t, err, ErrUnknownState)

	// Dangling change targets are legal
	_, err = NewMachinery[testMemory, string]().
		State("a", rec("a"), To("missing", Always[testMemory]())).
		Build()
	require.NoError(t, err)
}

func TestMachineryBuilderReuse(t *testing.T) {
	t.Parallel()

	b := NewMachinery[testMemory, string]().State("a", rec("a"))
	first, err := b.Build()
	require.NoError(t, err)
	b.State("b", rec("b"), To[testMemory]("a", flag("back")))
	second, err := b.Build()
	require.NoError(t, err)

	mem := newTestMemory()
	require.False(t, first.Activate("b", mem, true))
	require.Equal(t, 1, first.Len())
	_, ok := first.ActiveState()
	require.False(t, ok)

	require.True(t, second.Activate("b", mem, true))
	mem.flags["back"] = true
	second.Decide(mem)
	require.Equal(t, "a", active(second))
	require.Equal(t, 2, second.Len())
}

func TestMachineryInertBeforeActivation(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"), To("b", Always[testMemory]())).
		State("b", rec("b")).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()

	m.Tick(mem)
	require.Empty(t, mem.events)
	require.False(t, m.IsLocked(mem))
	_, ok := m.ActiveState()
	require.False(t, ok)

	// Unknown ids are ignored
	require.False(t, m.Activate("missing", mem, true))
	_, ok = m.ActiveState()
	require.False(t, ok)
}

func TestMachineryActivate(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().State("a", rec("a")).State("b", rec("b")).Build()
	require.NoError(t, err)
	mem := newTestMemory()

	require.True(t, m.Activate("a", mem, false))
	require.Equal(t, []string{"a.activated"}, mem.take())

	// Same id without force is a no-op
	require.False(t, m.Activate("a", mem, false))
	require.Empty(t, mem.take())

	// Forced re-entry re-runs the hook
	require.True(t, m.Activate("a", mem, true))
	require.Equal(t, []string{"a.activated"}, mem.take())

	// Activate does not consult locks
	mem.locked["a"] = true
	require.True(t, m.Activate("b", mem, false))
	require.Equal(t, "b", active(m))
}

func TestMachineryFirstMatchWins(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"),
			To("b", Always[testMemory]()),
			To("c", Always[testMemory]()),
		).
		State("b", rec("b")).
		State("c", rec("c")).
		Build()
	require.NoError(t, err)

	for range 5 {
		mem := newTestMemory()
		m.Activate("a", mem, true)
		m.Decide(mem)
		require.Equal(t, "b", active(m))
		require.Equal(t, []string{"a.activated", "b.activated"}, mem.events)
	}
}

func TestMachineryDecideForwarding(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"),
			To("a", flag("self")),
			To("missing", flag("dangling")),
			To("b", flag("go")),
		).
		State("b", rec("b")).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()
	m.Activate("a", mem, true)
	mem.take()

	// Exhausted change list keeps the state and forwards
	m.Decide(mem)
	require.Equal(t, "a", active(m))
	require.Equal(t, []string{"a.decide"}, mem.take())

	// Self transition is a no-op that forwards
	mem.flags["self"] = true
	mem.flags["go"] = true
	m.Decide(mem)
	require.Equal(t, "a", active(m))
	require.Equal(t, []string{"a.decide"}, mem.take())

	// A dangling first match is inert
	mem.flags["self"] = false
	mem.flags["dangling"] = true
	m.Decide(mem)
	require.Equal(t, "a", active(m))
	require.Equal(t, []string{"a.decide"}, mem.take())

	mem.flags["dangling"] = false
	m.Decide(mem)
	require.Equal(t, "b", active(m))
	require.Equal(t, []string{"b.activated"}, mem.take())
}

func TestMachineryLockVeto(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"), To("b", Always[testMemory]())).
		State("b", rec("b")).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()
	m.Activate("a", mem, true)
	mem.take()

	mem.locked["a"] = true
	for range 3 {
		m.Decide(mem)
		require.Equal(t, "a", active(m))
	}
	require.Empty(t, mem.take())
	require.True(t, m.IsLocked(mem))

	mem.locked["a"] = false
	m.Decide(mem)
	require.Equal(t, "b", active(m))
}

func TestMachineryTickOrder(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"), To("b", flag("go"))).
		State("b", rec("b")).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()
	m.Activate("a", mem, true)
	mem.take()

	m.Tick(mem)
	require.Equal(t, []string{"a.decide", "a.update"}, mem.take())

	mem.flags["go"] = true
	m.Tick(mem)
	require.Equal(t, []string{"b.activated", "b.update"}, mem.take())

	// Update never changes the active state
	mem.flags["go"] = false
	m.Update(mem)
	m.Update(mem)
	require.Equal(t, []string{"b.update", "b.update"}, mem.take())
}

func TestMachineryNestedReset(t *testing.T) {
	t.Parallel()

	inner, err := NewMachinery[testMemory, string]().
		State("b1", rec("b1"), To("b2", flag("next"))).
		State("b2", rec("b2")).
		Build()
	require.NoError(t, err)
	root, err := NewMachinery[testMemory, string]().
		State("A", rec("A"), To("B", flag("combat"))).
		State("B", inner, To("A", Not(flag("combat")))).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()
	root.Activate("A", mem, true)
	mem.take()

	mem.flags["combat"] = true
	root.Decide(mem)
	require.Equal(t, "B", active(root))
	require.Equal(t, "b1", active(inner))
	require.Equal(t, []string{"b1.activated"}, mem.take())

	// The nested machinery decides on its own while the root stays
	mem.flags["next"] = true
	root.Decide(mem)
	require.Equal(t, "b2", active(inner))
	require.Equal(t, []string{"b2.activated"}, mem.take())

	mem.flags["combat"] = false
	root.Decide(mem)
	require.Equal(t, "A", active(root))
	require.Equal(t, "b2", active(inner))

	// Re-entry starts over at the initial sub-state
	mem.flags["combat"] = true
	mem.take()
	root.Decide(mem)
	require.Equal(t, "b1", active(inner))
	require.Equal(t, []string{"b1.activated"}, mem.take())

	root.Update(mem)
	require.Equal(t, []string{"b1.update"}, mem.take())

	// Locks propagate up through the nested machinery
	mem.locked["b1"] = true
	mem.flags["combat"] = false
	root.Decide(mem)
	require.Equal(t, "B", active(root))
}

func TestMachineryExplicitInitial(t *testing.T) {
	t.Parallel()

	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a")).
		State("b", rec("b")).
		Initial("b").
		Build()
	require.NoError(t, err)
	id, ok := m.Initial()
	require.True(t, ok)
	require.Equal(t, "b", id)

	mem := newTestMemory()
	m.Activated(mem)
	m.Activated(mem)
	require.Equal(t, []string{"b.activated", "b.activated"}, mem.events)
}

func TestMachineryLogsActivations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, err := NewMachinery[testMemory, string]().
		State("a", rec("a"), To("b", Always[testMemory]())).
		State("b", rec("b")).
		Logger(logger).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()

	m.Activate("a", mem, true)
	mem.locked["a"] = true
	m.Decide(mem)

	out := buf.String()
	require.Contains(t, out, "[Machinery] activate")
	require.Contains(t, out, "to=a")
	require.Contains(t, out, "forced=true")
	require.Contains(t, out, "transition vetoed by lock")
}

func TestActivePath(t *testing.T) {
	t.Parallel()

	leaf, err := NewReasoner[testMemory, string]().State("x", rec("x"), score("x")).Build()
	require.NoError(t, err)
	inner, err := NewMachinery[testMemory, string]().State("b", leaf).Build()
	require.NoError(t, err)
	root, err := NewMachinery[testMemory, string]().
		State("a", rec("a"), To("nest", flag("nest"))).
		State("nest", inner).
		Build()
	require.NoError(t, err)
	mem := newTestMemory()

	require.Empty(t, ActivePath[testMemory, string](root))

	root.Activate("a", mem, true)
	require.Equal(t, []string{"a"}, ActivePath[testMemory, string](root))

	mem.flags["nest"] = true
	root.Decide(mem)
	require.Equal(t, []string{"nest", "b", "x"}, ActivePath[testMemory, string](root))
}
