package emergent

type testMemory struct {
	events []string
	flags  map[string]bool
	scores map[string]Scalar
	locked map[string]bool
}

func newTestMemory() *testMemory {
	return &testMemory{
		flags:  make(map[string]bool),
		scores: make(map[string]Scalar),
		locked: make(map[string]bool),
	}
}

func (m *testMemory) take() []string {
	events := m.events
	m.events = nil
	return events
}

// recorder appends every hook invocation to the memory's event log.
type recorder struct{ name string }

func rec(name string) *recorder { return &recorder{name: name} }

func (r *recorder) IsLocked(m *testMemory) bool { return m.locked[r.name] }
func (r *recorder) Activated(m *testMemory)     { m.events = append(m.events, r.name+".activated") }
func (r *recorder) Decide(m *testMemory)        { m.events = append(m.events, r.name+".decide") }
func (r *recorder) Update(m *testMemory)        { m.events = append(m.events, r.name+".update") }

func flag(name string) Condition[testMemory] {
	return ConditionFunc[testMemory](func(m *testMemory) bool { return m.flags[name] })
}

func score(name string) Consideration[testMemory] {
	return ConsiderationFunc[testMemory](func(m *testMemory) Scalar { return m.scores[name] })
}

func active(dm DecisionMaker[testMemory, string]) string {
	id, ok := dm.ActiveState()
	if !ok {
		return "<none>"
	}
	return id
}
