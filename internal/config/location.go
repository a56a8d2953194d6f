package config

import (
	"os"
	"path/filepath"
)

// PathEnv overrides the location of the configuration file.
const PathEnv = "EMERGENT_CONFIG"

// Path returns the configuration file location: $EMERGENT_CONFIG when set,
// else ~/.emergent/config.
func Path() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".emergent", "config"), nil
}
