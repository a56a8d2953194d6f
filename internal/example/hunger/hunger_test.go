package hunger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var levels []int
	for range 2 * Period {
		Advance(m)
		levels = append(levels, m.Level)
	}
	require.Equal(t, []int{0, 0, 0, 1, 1, 1, 1, 0}, levels)
	require.Equal(t, float64(2*Period), Clock(m))
}

func TestBackgroundEstimateMatchesSimulation(t *testing.T) {
	t.Parallel()

	lod, err := New(nil)
	require.NoError(t, err)
	m := NewMemory()
	require.True(t, lod.Activate(Background, m, true))

	visited := map[int]bool{}
	for range 4 * Period {
		lod.Decide(m)
		Advance(m)
		lod.Update(m)

		id, _ := lod.ActiveState()
		visited[id] = true
		if id == Foreground {
			require.InDelta(t, Clock(m)*Rate, Hunger(m), 1e-9, Describe(m))
			require.False(t, m.Memory.Has(RowSince))
		}
	}
	require.True(t, visited[Background])
	require.True(t, visited[Foreground])
}

func TestBackgroundDoesNotSimulate(t *testing.T) {
	t.Parallel()

	lod, err := New(nil)
	require.NoError(t, err)
	m := NewMemory()
	lod.Activate(Background, m, true)
	for range Period - 1 {
		lod.Tick(m)
		Advance(m)
	}
	require.Zero(t, Hunger(m))
	since, ok := m.Memory.Get(RowSince)
	require.True(t, ok)
	require.Zero(t, since)
}

func TestLevelName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "background", LevelName(Background))
	require.Equal(t, "foreground", LevelName(Foreground))
	require.Equal(t, "level-5", LevelName(5))
}
