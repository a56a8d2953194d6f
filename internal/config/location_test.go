package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestPathEnvOverride(t *testing.T) {
	t.Setenv(PathEnv, "/tmp/custom-config")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != "/tmp/custom-config" {
		t.Fatalf("expected override path, got %q", got)
	}
}

func TestPathDefault(t *testing.T) {
	dir := t.TempDir()
	homeVar := "HOME"
	if runtime.GOOS == "windows" {
		homeVar = "USERPROFILE"
	}
	t.Setenv(homeVar, dir)
	t.Setenv(PathEnv, "")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if want := filepath.Join(dir, ".emergent", "config"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
