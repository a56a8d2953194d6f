// Package config loads and edits the emergent configuration file.
//
// The file holds one option per line, the key followed by its value.
// Options before the first section header are global; the [run] section
// configures the run command:
//
//	log.level debug
//	expr.cache-size 500
//
//	[run]
//	scenario guard
//	ticks 16
//
// Every line is checked against the Schema while loading. Problems become
// warnings rather than errors, so a stale option never blocks a run.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Config is a parsed configuration file.
type Config struct {
	// Global holds the options above the first section header.
	Global map[string]string
	// Sections holds the options of each [section], by section name.
	Sections map[string]map[string]string
	// Warnings lists the problems found while loading, by line.
	Warnings []string
}

// New returns an empty Config.
func New() *Config {
	return &Config{
		Global:   make(map[string]string),
		Sections: make(map[string]map[string]string),
	}
}

// Get returns the value of key in section, "" being the global block.
func (c *Config) Get(section, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	if section == "" {
		v, ok := c.Global[key]
		return v, ok
	}
	v, ok := c.Sections[section][key]
	return v, ok
}

// Set stores the value of key in section, "" being the global block.
func (c *Config) Set(section, key, value string) {
	if section == "" {
		c.Global[key] = value
		return
	}
	if c.Sections[section] == nil {
		c.Sections[section] = make(map[string]string)
	}
	c.Sections[section][key] = value
}

// Load reads the file at Path. A missing file yields an empty Config.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile reads the file at path. A missing file yields an empty Config
// and a symlink is an error.
func LoadFile(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if fi.Mode()&fs.ModeSymlink != 0 {
		return nil, fmt.Errorf("config %s: symlinks are not allowed", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a configuration from r and checks it against Default.
func Parse(r io.Reader) (*Config, error) {
	return parse(r, Default())
}

func parse(r io.Reader, schema *Schema) (*Config, error) {
	c := New()
	section := ""
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if name, ok := sectionHeader(line); ok {
			section = name
			if section != "" && c.Sections[section] == nil {
				c.Sections[section] = make(map[string]string)
			}
			continue
		}
		key, value := splitOption(line)
		c.Set(section, key, value)
		if err := schema.Check(section, key, value); err != nil {
			c.warn(n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return c, nil
}

func (c *Config) warn(line int, err error) {
	msg := fmt.Sprintf("line %d: %v", line, err)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[config] " + msg)
}

// sectionHeader parses a "[name]" line.
func sectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}

// splitOption splits an option line at the first blank.
func splitOption(line string) (key, value string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func formatOption(key, value string) string {
	if value == "" {
		return key
	}
	return key + " " + value
}
