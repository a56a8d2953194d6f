package emergent

import "log/slog"

// LodMemory wraps a memory with the level of detail an agent runs at.
type LodMemory[M any] struct {
	Level  int
	Memory M
}

// LodBuilder assembles a Selector that runs one task per level of detail,
// switching whenever LodMemory.Level changes. Levels are numbered from 0 in
// registration order. A Level outside the registered range keeps the active
// level running.
type LodBuilder[M any] struct {
	levels []Task[LodMemory[M]]
	logger *slog.Logger
}

// NewLod starts building a level of detail selector.
func NewLod[M any]() *LodBuilder[M] {
	return &LodBuilder[M]{}
}

// Level registers the task run at the next level.
func (b *LodBuilder[M]) Level(task Task[LodMemory[M]]) *LodBuilder[M] {
	b.levels = append(b.levels, task)
	return b
}

// Logger enables debug logging of level changes.
func (b *LodBuilder[M]) Logger(l *slog.Logger) *LodBuilder[M] {
	b.logger = l
	return b
}

// Build returns a Selector keyed by level.
func (b *LodBuilder[M]) Build() (*Selector[LodMemory[M], int], error) {
	sb := NewSelector[LodMemory[M], int]().Picker(PickFirst[int]()).Logger(b.logger)
	for level, task := range b.levels {
		sb.State(level, task, ConditionFunc[LodMemory[M]](func(m *LodMemory[M]) bool {
			return m.Level == level
		}))
	}
	s, err := sb.Build()
	if err != nil {
		return nil, err
	}
	s.kind = "Lod"
	return s, nil
}
