package command

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joeycumines/go-emergent/internal/config"
)

// HelpCommand displays help information for commands.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates a new help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand(
			"help",
			"Display help information for commands",
			"help [command]",
		),
		registry: registry,
	}
}

// Execute displays help information.
func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, "emergent - composable decision makers for simulated agents")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Usage: emergent <command> [options] [args...]")
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Available commands:")

		w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
		for _, name := range c.registry.List() {
			if cmd, err := c.registry.Get(name); err == nil {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, cmd.Description())
			}
		}
		_, _ = fmt.Fprintln(w, "")
		_, _ = fmt.Fprintln(w, "Scenarios:")
		for _, name := range scenarioNames() {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", name, scenarios[name].description)
		}
		_ = w.Flush()

		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Use 'emergent help <command>' for more information about a specific command (includes flags).")
		return nil
	}

	// Show help for a specific command
	cmdName := args[0]
	cmd, err := c.registry.Get(cmdName)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", cmdName)
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Command: %s\n", cmd.Name())
	_, _ = fmt.Fprintf(stdout, "Description: %s\n", cmd.Description())
	_, _ = fmt.Fprintf(stdout, "Usage: %s\n", cmd.Usage())

	// Show command-specific flags (if any) by invoking SetupFlags on a temporary FlagSet
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	buf := &bytes.Buffer{}
	fs.SetOutput(buf)
	cmd.SetupFlags(fs)
	// PrintDefaults writes any defined flags to the FlagSet output
	fs.PrintDefaults()
	if buf.Len() > 0 {
		_, _ = fmt.Fprintln(stdout, "")
		_, _ = fmt.Fprintln(stdout, "Flags:")
		_, _ = fmt.Fprint(stdout, buf.String())
	}

	return nil
}

// VersionCommand displays version information.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates a new version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand(
			"version",
			"Display version information",
			"version",
		),
		version: version,
	}
}

// Execute displays version information.
func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	_, _ = fmt.Fprintf(stdout, "emergent version %s\n", c.version)
	return nil
}

// ConfigCommand shows and edits configuration options.
type ConfigCommand struct {
	*BaseCommand
	config *config.Config
	schema *config.Schema
	path   string
}

// NewConfigCommand creates a new config command. Values set through it are
// written to the file at path, or to config.Path when path is empty.
func NewConfigCommand(cfg *config.Config, path string) *ConfigCommand {
	if cfg == nil {
		cfg = config.New()
	}
	return &ConfigCommand{
		BaseCommand: NewBaseCommand(
			"config",
			"Show and edit configuration options",
			"config [validate | schema | <name> [value]]",
		),
		config: cfg,
		schema: config.Default(),
		path:   path,
	}
}

// Execute shows every option, validates, or gets or sets one option.
func (c *ConfigCommand) Execute(args []string, stdout, stderr io.Writer) error {
	switch {
	case len(args) == 0:
		return c.show(stdout)
	case len(args) == 1 && args[0] == "validate":
		return c.validate(stdout)
	case len(args) == 1 && args[0] == "schema":
		return c.schema.WriteHelp(stdout)
	case len(args) > 2:
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("unexpected arguments: %v", args[2:])
	}

	o, ok := c.schema.Find(args[0])
	if !ok {
		_, _ = fmt.Fprintln(stderr, "Use 'emergent config schema' to list options.")
		return fmt.Errorf("%w: %s", config.ErrUnknownOption, args[0])
	}
	if len(args) == 1 {
		value, source := c.schema.Resolve(c.config, o)
		_, _ = fmt.Fprintf(stdout, "%s %s (%s)\n", o.Name(), value, source)
		return nil
	}

	value := args[1]
	if err := c.schema.Check(o.Section, o.Key, value); err != nil {
		return err
	}
	path := c.path
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	if err := config.WriteValue(path, o.Section, o.Key, value); err != nil {
		return err
	}
	c.config.Set(o.Section, o.Key, value)
	_, _ = fmt.Fprintf(stdout, "Set %s = %s in %s\n", o.Name(), value, path)
	return nil
}

// show lists every option with its effective value and where it came from.
func (c *ConfigCommand) show(stdout io.Writer) error {
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVALUE\tSOURCE")
	for _, o := range c.schema.Options() {
		value, source := c.schema.Resolve(c.config, o)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", o.Name(), value, source)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(c.config.Warnings) > 0 {
		_, _ = fmt.Fprintln(stdout, "\nWarnings:")
		for _, warning := range c.config.Warnings {
			_, _ = fmt.Fprintf(stdout, "  - %s\n", warning)
		}
	}
	return nil
}

func (c *ConfigCommand) validate(stdout io.Writer) error {
	issues := c.schema.Validate(c.config)
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(stdout, "Configuration is valid.")
		return nil
	}
	_, _ = fmt.Fprintf(stdout, "Configuration has %d issue(s):\n", len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(stdout, "  - %s\n", issue)
	}
	return fmt.Errorf("invalid configuration")
}

// InitCommand writes a configuration file holding every option at its
// default.
type InitCommand struct {
	*BaseCommand
	force    bool
	scenario string
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{
		BaseCommand: NewBaseCommand(
			"init",
			"Create the configuration file",
			"init [options]",
		),
		scenario: "wanderer",
	}
}

// SetupFlags configures the flags for the init command.
func (c *InitCommand) SetupFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file")
	fs.StringVar(&c.scenario, "scenario", c.scenario, "Scenario run when none is named")
}

// Execute writes the configuration file.
func (c *InitCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		_, _ = fmt.Fprintf(stderr, "unexpected arguments: %v\n", args)
		return fmt.Errorf("unexpected arguments")
	}
	path, err := config.Path()
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !c.force {
		_, _ = fmt.Fprintf(stdout, "Configuration already exists at: %s\n", path)
		_, _ = fmt.Fprintln(stdout, "Use -force to overwrite it")
		return nil
	}
	if _, ok := scenarios[c.scenario]; !ok {
		return fmt.Errorf("unknown scenario: %s", c.scenario)
	}

	schema := config.Default()
	if err := config.WriteFile(path, []byte(schema.Template())); err != nil {
		return err
	}
	if err := config.WriteValue(path, config.SectionRun, config.RunScenario, c.scenario); err != nil {
		return err
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	for _, warning := range cfg.Warnings {
		_, _ = fmt.Fprintf(stderr, "Warning: %s\n", warning)
	}
	_, _ = fmt.Fprintf(stdout, "Initialized emergent configuration at: %s\n", path)
	_, _ = fmt.Fprintf(stdout, "Default scenario: %s\n", schema.RunOptions(cfg).Scenario)
	return nil
}
