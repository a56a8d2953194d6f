package guard

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-emergent/internal/emergent"
)

func newGuard(t *testing.T) (*Guard, *Memory) {
	t.Helper()
	g, err := New(nil)
	require.NoError(t, err)
	mem := &Memory{Waypoints: []int{3, -3}, PlayerPosition: 10}
	g.Root.Activate(Patrol, mem, true)
	return g, mem
}

func path(g *Guard) []string {
	return emergent.ActivePath[Memory, string](g.Root)
}

func TestGuardPatrols(t *testing.T) {
	t.Parallel()

	g, mem := newGuard(t)
	require.Equal(t, []string{Patrol, FindWaypoint}, path(g))
	require.Equal(t, 3, mem.Target)

	for range 3 {
		g.Root.Tick(mem)
	}
	require.Equal(t, []string{Patrol, WalkTowardsWaypoint}, path(g))
	require.Equal(t, 3, mem.Position)
	require.False(t, mem.HasTarget)

	g.Root.Tick(mem)
	require.Equal(t, []string{Patrol, FindWaypoint}, path(g))
	require.Equal(t, -3, mem.Target)
}

func TestGuardEntersCombatAtInitialSubState(t *testing.T) {
	t.Parallel()

	g, mem := newGuard(t)
	mem.PlayerPosition = 5
	g.Root.Tick(mem)
	g.Root.Tick(mem)
	require.Equal(t, 2, mem.Position)

	mem.Player = Found
	g.Root.Decide(mem)
	require.Equal(t, []string{Combat, WalkTowardsPlayer}, path(g))

	// Close in
	g.Root.Tick(mem)
	g.Root.Tick(mem)
	require.Equal(t, []string{Combat, WalkTowardsPlayer}, path(g))
	require.Equal(t, 4, mem.Position)

	// In reach: the attack starts its first swing
	g.Root.Tick(mem)
	require.Equal(t, []string{Combat, AttackPlayer}, path(g))
	require.True(t, g.Root.IsLocked(mem))

	// Losing the player waits for the swing to land
	mem.Player = NotFound
	g.Root.Tick(mem)
	require.Equal(t, Combat, path(g)[0])
	require.Equal(t, 1, mem.Hits)

	g.Root.Decide(mem)
	require.Equal(t, Patrol, path(g)[0])
	require.Equal(t, FindWaypoint, path(g)[1])

	// Combat was left in AttackPlayer but restarts at its initial sub-state
	id, _ := g.Combat.ActiveState()
	require.Equal(t, AttackPlayer, id)
	mem.Player = Found
	g.Root.Decide(mem)
	require.Equal(t, []string{Combat, WalkTowardsPlayer}, path(g))
}

func TestGuardAttackLogsToGuardLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	g, err := New(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	// Without memory the attack's leaves fail to tick
	g.Attack.Update(nil)
	require.Contains(t, buf.String(), "[btree] tick error")
}
