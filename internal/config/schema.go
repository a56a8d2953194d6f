package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// ErrUnknownOption is returned for options no schema declares.
var ErrUnknownOption = errors.New("unknown option")

// Type is the value type of an option.
type Type int

const (
	String Type = iota
	Bool
	Int
	Duration
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Duration:
		return "duration"
	default:
		return "string"
	}
}

func (t Type) check(value string) error {
	var err error
	switch t {
	case Bool:
		_, err = strconv.ParseBool(value)
	case Int:
		_, err = strconv.Atoi(value)
	case Duration:
		_, err = time.ParseDuration(value)
	}
	if err != nil {
		return fmt.Errorf("expected %s, got %q", t, value)
	}
	return nil
}

// Option declares one configuration option.
type Option struct {
	// Section is "" for global options.
	Section string
	Key     string
	Type    Type
	Default string
	// Env names the environment variable overriding the option, if any.
	Env  string
	Help string
}

// Name is the option's name on the command line: the key for global
// options and "section.key" otherwise.
func (o Option) Name() string {
	if o.Section == "" {
		return o.Key
	}
	return o.Section + "." + o.Key
}

// Source tells where a resolved value came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

type optionKey struct{ section, key string }

// Schema is the set of known options.
type Schema struct {
	options []Option
	index   map[optionKey]int
}

// NewSchema builds a schema. Two options sharing a name are an error.
func NewSchema(options ...Option) (*Schema, error) {
	s := &Schema{index: make(map[optionKey]int, len(options))}
	for _, o := range options {
		if _, ok := s.Find(o.Name()); ok {
			return nil, fmt.Errorf("option %s declared twice", o.Name())
		}
		s.index[optionKey{o.Section, o.Key}] = len(s.options)
		s.options = append(s.options, o)
	}
	return s, nil
}

// Options returns every option in declaration order.
func (s *Schema) Options() []Option {
	return append([]Option(nil), s.options...)
}

// Lookup returns the option key of section.
func (s *Schema) Lookup(section, key string) (Option, bool) {
	i, ok := s.index[optionKey{section, key}]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Find returns the option with the given Name.
func (s *Schema) Find(name string) (Option, bool) {
	if o, ok := s.Lookup("", name); ok {
		return o, true
	}
	if section, key, ok := strings.Cut(name, "."); ok {
		return s.Lookup(section, key)
	}
	return Option{}, false
}

// Check validates one value of the file.
func (s *Schema) Check(section, key, value string) error {
	o, ok := s.Lookup(section, key)
	if !ok {
		if section == "" {
			return fmt.Errorf("%w %q", ErrUnknownOption, key)
		}
		return fmt.Errorf("%w %q in [%s]", ErrUnknownOption, key, section)
	}
	if err := o.Type.check(value); err != nil {
		return fmt.Errorf("%s: %w", o.Name(), err)
	}
	return nil
}

// Validate checks every value of c, in name order.
func (s *Schema) Validate(c *Config) []string {
	var issues []string
	check := func(section string, values map[string]string) {
		for _, key := range sortedKeys(values) {
			if err := s.Check(section, key, values[key]); err != nil {
				issues = append(issues, err.Error())
			}
		}
	}
	check("", c.Global)
	for _, section := range sortedKeys(c.Sections) {
		check(section, c.Sections[section])
	}
	return issues
}

// Resolve returns the effective value of o: its environment variable, then
// the value in c, then its default. c may be nil.
func (s *Schema) Resolve(c *Config, o Option) (string, Source) {
	if o.Env != "" {
		if v, ok := os.LookupEnv(o.Env); ok {
			return v, SourceEnv
		}
	}
	if v, ok := c.Get(o.Section, o.Key); ok {
		return v, SourceFile
	}
	return o.Default, SourceDefault
}

// Value returns the effective value of key in section, or "" when the
// option is unknown.
func (s *Schema) Value(c *Config, section, key string) string {
	o, ok := s.Lookup(section, key)
	if !ok {
		return ""
	}
	v, _ := s.Resolve(c, o)
	return v
}

// Int returns the effective value of an integer option, falling back to
// its default when the value does not parse.
func (s *Schema) Int(c *Config, section, key string) int {
	o, _ := s.Lookup(section, key)
	v, _ := s.Resolve(c, o)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	n, _ := strconv.Atoi(o.Default)
	return n
}

// Bool returns the effective value of a boolean option, falling back to
// its default when the value does not parse.
func (s *Schema) Bool(c *Config, section, key string) bool {
	o, _ := s.Lookup(section, key)
	v, _ := s.Resolve(c, o)
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	b, _ := strconv.ParseBool(o.Default)
	return b
}

// Duration returns the effective value of a duration option, falling back
// to its default when the value does not parse.
func (s *Schema) Duration(c *Config, section, key string) time.Duration {
	o, _ := s.Lookup(section, key)
	v, _ := s.Resolve(c, o)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	d, _ := time.ParseDuration(o.Default)
	return d
}

// WriteHelp writes a reference of every option.
func (s *Schema) WriteHelp(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tDEFAULT\tENV\tDESCRIPTION")
	for _, o := range s.options {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", o.Name(), o.Type, o.Default, o.Env, o.Help)
	}
	return tw.Flush()
}

// Template renders a configuration file holding every option at its
// default. Options without a default are commented out.
func (s *Schema) Template() string {
	var b strings.Builder
	b.WriteString("# emergent configuration\n")
	b.WriteString("# One option per line: <key> <value>\n")
	section := ""
	for _, o := range s.options {
		if o.Section != section {
			section = o.Section
			fmt.Fprintf(&b, "\n[%s]\n", section)
		}
		b.WriteString("\n# " + o.Help)
		if o.Env != "" {
			b.WriteString(" (env " + o.Env + ")")
		}
		b.WriteString("\n")
		if o.Default == "" {
			b.WriteString("#")
		}
		b.WriteString(formatOption(o.Key, o.Default) + "\n")
	}
	return b.String()
}
