package emergent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newFlagSelector(t *testing.T, picker Picker[string]) *Selector[testMemory, string] {
	t.Helper()
	s, err := NewSelector[testMemory, string]().
		State("a", rec("a"), flag("a")).
		State("b", rec("b"), flag("b")).
		State("c", rec("c"), flag("c")).
		Picker(picker).
		Build()
	require.NoError(t, err)
	return s
}

func TestPickers(t *testing.T) {
	t.Parallel()

	ids := []string{"x", "y", "z"}
	require.Equal(t, "x", PickFirst[string]().Pick(ids))
	require.Equal(t, "z", PickLast[string]().Pick(ids))
	require.Equal(t, "y", PickNth[string](1).Pick(ids))
	require.Equal(t, "z", PickNth[string](7).Pick(ids))
	require.Equal(t, "x", PickNth[string](-1).Pick(ids))
}

func TestSelectorPicksAvailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		picker Picker[string]
		want   string
	}{
		{"default", nil, "b"},
		{"first", PickFirst[string](), "b"},
		{"last", PickLast[string](), "c"},
		{"func", PickerFunc[string](func(ids []string) string { return ids[len(ids)/2] }), "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFlagSelector(t, tt.picker)
			mem := newTestMemory()
			s.Activate("a", mem, true)
			mem.flags["b"] = true
			mem.flags["c"] = true
			s.Decide(mem)
			require.Equal(t, tt.want, active(s))
		})
	}
}

func TestSelectorKeepsStateWhenNothingAvailable(t *testing.T) {
	t.Parallel()

	s := newFlagSelector(t, nil)
	mem := newTestMemory()
	s.Activate("b", mem, true)
	mem.take()

	s.Decide(mem)
	require.Equal(t, "b", active(s))
	require.Equal(t, []string{"b.decide"}, mem.take())
}

func TestSelectorLockVeto(t *testing.T) {
	t.Parallel()

	s := newFlagSelector(t, nil)
	mem := newTestMemory()
	s.Activate("c", mem, true)
	mem.flags["a"] = true
	mem.locked["c"] = true
	s.Decide(mem)
	require.Equal(t, "c", active(s))

	mem.locked["c"] = false
	s.Decide(mem)
	require.Equal(t, "a", active(s))
}

func TestSelectorActivated(t *testing.T) {
	t.Parallel()

	s := newFlagSelector(t, nil)
	mem := newTestMemory()

	// Nothing available: first registered state
	s.Activated(mem)
	require.Equal(t, "a", active(s))

	mem.flags["c"] = true
	s.Activated(mem)
	require.Equal(t, "c", active(s))
	require.Equal(t, []string{"a.activated", "c.activated"}, mem.events)
}

func TestSelectorBuilderReuse(t *testing.T) {
	t.Parallel()

	b := NewSelector[testMemory, string]().State("a", rec("a"), flag("a"))
	first, err := b.Build()
	require.NoError(t, err)
	b.State("b", rec("b"), flag("b"))

	mem := newTestMemory()
	mem.flags["b"] = true
	first.Activated(mem)
	first.Decide(mem)
	require.Equal(t, "a", active(first))
	require.False(t, first.Activate("b", mem, true))
}

func TestSelectorBuildErrors(t *testing.T) {
	t.Parallel()

	_, err := NewSelector[testMemory, string]().State("a", rec("a"), nil).Build()
	require.ErrorIs(t, err, ErrNilCondition)

	_, err = NewSelector[testMemory, string]().State("a", nil, flag("a")).Build()
	require.ErrorIs(t, err, ErrNilTask)
}
