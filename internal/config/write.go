package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// WriteFile replaces the file at path with data, creating its directory.
// Readers never observe a partially written file.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return atomicWriteFile(path, data, 0o644)
}

// WriteValue sets key in section of the file at path, "" being the global
// block. An existing line for the key is replaced in place. Otherwise the
// line goes after the last option of the section, and a missing section is
// appended. Comments and every other line are kept.
func WriteValue(path, section, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	var lines []string
	if s := strings.TrimRight(string(data), "\n"); s != "" {
		lines = strings.Split(s, "\n")
	}
	lines = setOption(lines, section, key, formatOption(key, value))
	return WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"))
}

func setOption(lines []string, section, key, option string) []string {
	current := ""
	seen := section == ""
	insert, firstHeader := -1, -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := sectionHeader(trimmed); ok {
			if firstHeader < 0 {
				firstHeader = i
			}
			current = name
			if current == section {
				seen = true
				insert = i + 1
			}
			continue
		}
		if current != section || trimmed == "" || trimmed[0] == '#' {
			continue
		}
		if k, _ := splitOption(trimmed); k == key {
			lines[i] = option
			return lines
		}
		insert = i + 1
	}
	switch {
	case !seen:
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		return append(lines, "["+section+"]", option)
	case insert >= 0:
		return slices.Insert(lines, insert, option)
	case firstHeader >= 0:
		// Global block without options.
		return slices.Insert(lines, firstHeader, option, "")
	default:
		return append(lines, option)
	}
}
