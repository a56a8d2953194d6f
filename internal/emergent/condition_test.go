package emergent

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConditionCombinators(t *testing.T) {
	t.Parallel()

	yes, no := Always[testMemory](), Never[testMemory]()
	m := newTestMemory()

	require.True(t, yes.Validate(m))
	require.False(t, no.Validate(m))
	require.True(t, Not(no).Validate(m))

	// Empty All passes, empty Any fails
	require.True(t, All[testMemory]().Validate(m))
	require.False(t, Any[testMemory]().Validate(m))

	require.True(t, All(yes, yes).Validate(m))
	require.False(t, All(yes, no).Validate(m))
	require.True(t, Any(no, yes).Validate(m))
	require.False(t, Any(no, no).Validate(m))
}

func TestAllShortCircuits(t *testing.T) {
	t.Parallel()

	var calls int
	counted := ConditionFunc[testMemory](func(*testMemory) bool {
		calls++
		return true
	})
	m := newTestMemory()

	require.False(t, All(Never[testMemory](), counted).Validate(m))
	require.True(t, Any(Always[testMemory](), counted).Validate(m))
	require.Zero(t, calls)
}

func TestCount(t *testing.T) {
	t.Parallel()

	yes, no := Always[testMemory](), Never[testMemory]()
	m := newTestMemory()
	twoOfThree := []Condition[testMemory]{yes, no, yes}

	tests := []struct {
		name         string
		lower, upper CountBound
		want         bool
	}{
		{"unbounded", NoBound(), NoBound(), true},
		{"inclusive lower met", InclusiveBound(2), NoBound(), true},
		{"exclusive lower equal", ExclusiveBound(2), NoBound(), false},
		{"inclusive upper equal", NoBound(), InclusiveBound(2), true},
		{"exclusive upper equal", NoBound(), ExclusiveBound(2), false},
		{"exactly two", InclusiveBound(2), InclusiveBound(2), true},
		{"exactly one", InclusiveBound(1), InclusiveBound(1), false},
		{"between one and three exclusive", ExclusiveBound(1), ExclusiveBound(3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Count(tt.lower, tt.upper, twoOfThree...).Validate(m))
		})
	}
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	m := newTestMemory()
	m.scores["x"] = 0.5

	require.True(t, Threshold(score("x"), 0.4).Validate(m))
	// Strictly greater than
	require.False(t, Threshold(score("x"), 0.5).Validate(m))
}
