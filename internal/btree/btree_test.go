package btree

import (
	"bytes"
	"log/slog"
	"testing"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-emergent/internal/emergent"
)

type agent struct {
	ammo    int
	shots   int
	reloads int
}

func hasAmmo() emergent.Condition[agent] {
	return emergent.ConditionFunc[agent](func(a *agent) bool { return a.ammo > 0 })
}

func newShooter() *Tree[agent] {
	return New(func(b *Binding[agent]) bt.Node {
		return bt.New(bt.Selector,
			bt.New(bt.Sequence,
				b.Check(hasAmmo()),
				b.Do(func(a *agent) {
					a.ammo--
					a.shots++
				}),
			),
			b.Leaf(func(a *agent) bt.Status {
				a.reloads++
				if a.reloads%2 == 1 {
					return bt.Running
				}
				a.ammo = 2
				return bt.Success
			}),
		)
	})
}

func TestTreeTicksOnUpdate(t *testing.T) {
	t.Parallel()

	tree := newShooter()
	a := &agent{ammo: 1}

	_, ok := tree.Status()
	require.False(t, ok)

	tree.Update(a)
	status, ok := tree.Status()
	require.True(t, ok)
	require.Equal(t, bt.Success, status)
	require.Equal(t, 1, a.shots)

	// Out of ammo: reload takes two ticks
	tree.Update(a)
	status, _ = tree.Status()
	require.Equal(t, bt.Running, status)
	tree.Update(a)
	status, _ = tree.Status()
	require.Equal(t, bt.Success, status)
	require.Equal(t, 2, a.ammo)

	// Decide is a no-op and activation forgets the status
	tree.Decide(a)
	tree.Activated(a)
	_, ok = tree.Status()
	require.False(t, ok)
}

func TestTreeLocksWhileRunning(t *testing.T) {
	t.Parallel()

	plain := newShooter()
	locking := newShooter().LockWhileRunning()
	a, b := &agent{}, &agent{}

	plain.Update(a)
	locking.Update(b)
	require.False(t, plain.IsLocked(a))
	require.True(t, locking.IsLocked(b))

	locking.Update(b)
	require.False(t, locking.IsLocked(b))
}

func TestTreeAsMachineryState(t *testing.T) {
	t.Parallel()

	tree := newShooter().LockWhileRunning()
	m, err := emergent.NewMachinery[agent, string]().
		State("fight", tree,
			emergent.To("flee", Failed(tree)),
			emergent.To("idle", Done(tree)),
		).
		State("idle", emergent.NoTask[agent]()).
		State("flee", emergent.NoTask[agent]()).
		Build()
	require.NoError(t, err)

	a := &agent{}
	m.Activate("fight", a, true)

	// Reloading: locked, stays in fight even though nothing else blocks it
	m.Tick(a)
	id, _ := m.ActiveState()
	require.Equal(t, "fight", id)
	require.True(t, m.IsLocked(a))

	m.Tick(a)
	m.Tick(a)
	id, _ = m.ActiveState()
	require.Equal(t, "idle", id)
}

func TestLeafOutsideUpdateFails(t *testing.T) {
	t.Parallel()

	var leaf bt.Node
	var buf bytes.Buffer
	tree := New(func(b *Binding[agent]) bt.Node {
		leaf = b.Do(func(*agent) {})
		return bt.New(func([]bt.Node) (bt.Status, error) {
			return bt.Failure, ErrUnbound
		})
	}).Logger(slog.New(slog.NewTextHandler(&buf, nil)))

	status, err := leaf.Tick()
	require.ErrorIs(t, err, ErrUnbound)
	require.Equal(t, bt.Failure, status)

	tree.Update(&agent{})
	status, _ = tree.Status()
	require.Equal(t, bt.Failure, status)
	require.Contains(t, buf.String(), "[btree] tick error")
}
