package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `# comment
log.level debug
log.file   /tmp/emergent.log

[run]
	scenario   guard
ticks 12
`
	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(c.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", c.Warnings)
	}
	for _, tc := range []struct{ section, key, want string }{
		{"", KeyLogLevel, "debug"},
		{"", KeyLogFile, "/tmp/emergent.log"},
		{SectionRun, RunScenario, "guard"},
		{SectionRun, RunTicks, "12"},
	} {
		if got, ok := c.Get(tc.section, tc.key); !ok || got != tc.want {
			t.Errorf("Get(%q, %q) = %q, %v; want %q", tc.section, tc.key, got, ok, tc.want)
		}
	}
	if _, ok := c.Get("", RunTicks); ok {
		t.Errorf("section option leaked into the global block")
	}
}

func TestParseWarnings(t *testing.T) {
	t.Parallel()

	input := "bogus 1\nexpr.cache-size lots\n[run]\ninterval soon\nlog.level debug\n[extra]\nfoo bar\n"
	c, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{
		`line 1: unknown option "bogus"`,
		`line 2: expr.cache-size: expected int, got "lots"`,
		`line 4: run.interval: expected duration, got "soon"`,
		`line 5: unknown option "log.level" in [run]`,
		`line 7: unknown option "foo" in [extra]`,
	}
	if got := strings.Join(c.Warnings, "\n"); got != strings.Join(want, "\n") {
		t.Fatalf("warnings:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}
	// Unknown values are still kept.
	if v, _ := c.Get("extra", "foo"); v != "bar" {
		t.Errorf("extra.foo = %q", v)
	}
}

func TestParseEmptySectionReturnsToGlobal(t *testing.T) {
	t.Parallel()

	c, err := Parse(strings.NewReader("[run]\nticks 3\n[]\nlog.level warn\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := c.Get("", KeyLogLevel); v != "warn" {
		t.Fatalf("log.level = %q", v)
	}
}

func TestGetOnNilConfig(t *testing.T) {
	t.Parallel()

	var c *Config
	if _, ok := c.Get("", KeyLogLevel); ok {
		t.Fatal("nil config reported a value")
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	c, err := LoadFile(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if len(c.Global) != 0 || len(c.Sections) != 0 {
		t.Fatalf("missing file yielded values: %+v", c)
	}

	path := filepath.Join(dir, "config")
	if err := os.WriteFile(path, []byte("[run]\nscenario villager\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if v, _ := c.Get(SectionRun, RunScenario); v != "villager" {
		t.Fatalf("run.scenario = %q", v)
	}

	link := filepath.Join(dir, "link")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if _, err := LoadFile(link); err == nil || !strings.Contains(err.Error(), "symlinks are not allowed") {
		t.Fatalf("expected symlink error, got %v", err)
	}
}

func TestLoadUsesPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("log.format json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(PathEnv, path)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := c.Get("", KeyLogFormat); v != "json" {
		t.Fatalf("log.format = %q", v)
	}
}
