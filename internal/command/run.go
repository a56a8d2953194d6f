package command

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joeycumines/go-emergent/internal/config"
	"github.com/joeycumines/go-emergent/internal/exprcond"
)

// RunCommand simulates a scenario and prints the active state path per tick.
type RunCommand struct {
	*BaseCommand
	config      *config.Config
	ticks       int
	decideEvery int
	interval    time.Duration
	seed        string
	logLevel    string
	logFormat   string
	logFile     string
}

// NewRunCommand creates a new run command.
func NewRunCommand(cfg *config.Config) *RunCommand {
	if cfg == nil {
		cfg = config.New()
	}
	return &RunCommand{
		BaseCommand: NewBaseCommand(
			"run",
			"Simulate a decision making scenario",
			"run [options] <"+strings.Join(scenarioNames(), "|")+">",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the run command.
func (c *RunCommand) SetupFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.ticks, "ticks", 0, "Number of update ticks (default from run.ticks)")
	fs.IntVar(&c.decideEvery, "decide-every", 0, "Decide once every N update ticks (default from run.decide-every)")
	fs.DurationVar(&c.interval, "interval", 0, "Wall clock time between ticks (default from run.interval)")
	fs.StringVar(&c.seed, "seed", "", "Fixed run id (default from run.seed, else random)")
	fs.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "", "Log format: text, json, auto")
	fs.StringVar(&c.logFile, "log-file", "", "Write logs to this file instead of stderr")
}

// Execute runs the scenario.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	schema := config.Default()
	opts := schema.RunOptions(c.config)

	name := opts.Scenario
	switch len(args) {
	case 0:
	case 1:
		name = args[0]
	default:
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args[1:])
		return fmt.Errorf("unexpected arguments")
	}
	if name == "" {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("no scenario given")
	}
	sc, ok := scenarios[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "Unknown scenario: %s (available: %s)\n", name, strings.Join(scenarioNames(), ", "))
		return fmt.Errorf("unknown scenario: %s", name)
	}

	if c.ticks > 0 {
		opts.Ticks = c.ticks
	}
	if c.decideEvery > 0 {
		opts.DecideEvery = c.decideEvery
	}
	if c.interval > 0 {
		opts.Interval = c.interval
	}
	runID := c.seed
	if runID == "" {
		runID = opts.Seed
	}
	if runID == "" {
		runID = uuid.NewString()
	}

	lc, err := resolveLogConfig(c.logFile, c.logLevel, c.logFormat, c.config)
	if err != nil {
		return err
	}
	defer lc.Close()
	logger := lc.newLogger(stderr).With("run", runID, "scenario", name)

	if size := schema.Int(c.config, "", config.KeyExprCacheSize); size > 0 {
		exprcond.SetCacheSize(size)
	}

	a, err := sc.create(logger)
	if err != nil {
		return fmt.Errorf("failed to create scenario %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(stdout, "run %s scenario=%s ticks=%d decide-every=%d\n", runID, name, opts.Ticks, opts.DecideEvery)
	printTick(stdout, 0, ' ', a)

	var pace <-chan time.Time
	if opts.Interval > 0 {
		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()
		pace = ticker.C
	}
	for tick := 1; tick <= opts.Ticks; tick++ {
		if pace != nil {
			<-pace
		}
		mark := byte(' ')
		if (tick-1)%opts.DecideEvery == 0 {
			a.Decide()
			mark = '*'
		}
		a.Update()
		printTick(stdout, tick, mark, a)
	}

	size, hits, misses := exprcond.CacheStats()
	logger.Info("run complete", "ticks", opts.Ticks, "expr_cache_size", size, "expr_cache_hits", hits, "expr_cache_misses", misses)
	return nil
}

// printTick writes one line: tick number, decide marker, active path and a
// memory summary.
func printTick(w io.Writer, tick int, mark byte, a agent) {
	_, _ = fmt.Fprintf(w, "%4d%c %-36s %s\n", tick, mark, strings.Join(a.Path(), "/"), a.Describe())
}
