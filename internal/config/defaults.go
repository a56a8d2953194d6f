package config

import (
	"maps"
	"slices"
	"strconv"
	"time"
)

// Global option keys.
const (
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
	KeyLogSource     = "log.source"
	KeyExprCacheSize = "expr.cache-size"
)

// SectionRun configures the run command.
const SectionRun = "run"

// Option keys of SectionRun.
const (
	RunScenario    = "scenario"
	RunTicks       = "ticks"
	RunDecideEvery = "decide-every"
	RunInterval    = "interval"
	RunSeed        = "seed"
)

var defaultOptions = []Option{
	{Key: KeyLogLevel, Default: "info", Env: "EMERGENT_LOG_LEVEL", Help: "Log level: debug, info, warn, error"},
	{Key: KeyLogFormat, Default: "auto", Env: "EMERGENT_LOG_FORMAT", Help: "Log format: text, json, auto"},
	{Key: KeyLogFile, Env: "EMERGENT_LOG_FILE", Help: "Log file, stderr when unset"},
	{Key: KeyLogSource, Type: Bool, Default: "false", Help: "Add source locations to log records"},
	{Key: KeyExprCacheSize, Type: Int, Default: "1000", Help: "Compiled expressions kept in cache"},

	{Section: SectionRun, Key: RunScenario, Env: "EMERGENT_SCENARIO", Help: "Scenario run when none is named"},
	{Section: SectionRun, Key: RunTicks, Type: Int, Default: "8", Help: "Update ticks per run"},
	{Section: SectionRun, Key: RunDecideEvery, Type: Int, Default: "1", Help: "Decide once every N update ticks"},
	{Section: SectionRun, Key: RunInterval, Type: Duration, Default: "0s", Help: "Wall clock time between ticks"},
	{Section: SectionRun, Key: RunSeed, Env: "EMERGENT_RUN_SEED", Help: "Fixed run id instead of a random one"},
}

// Default returns the schema of every emergent option.
func Default() *Schema {
	s, err := NewSchema(defaultOptions...)
	if err != nil {
		panic(err)
	}
	return s
}

// RunOptions are the resolved settings of the run command.
type RunOptions struct {
	Scenario    string
	Ticks       int
	DecideEvery int
	Interval    time.Duration
	Seed        string
}

// RunOptions resolves the [run] section of c, which may be nil. Counts
// that are not positive fall back to their defaults, and a negative
// interval means no pacing.
func (s *Schema) RunOptions(c *Config) RunOptions {
	positive := func(key string) int {
		if n := s.Int(c, SectionRun, key); n > 0 {
			return n
		}
		o, _ := s.Lookup(SectionRun, key)
		n, _ := strconv.Atoi(o.Default)
		return n
	}
	return RunOptions{
		Scenario:    s.Value(c, SectionRun, RunScenario),
		Ticks:       positive(RunTicks),
		DecideEvery: positive(RunDecideEvery),
		Interval:    max(0, s.Duration(c, SectionRun, RunInterval)),
		Seed:        s.Value(c, SectionRun, RunSeed),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
