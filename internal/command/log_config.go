package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/joeycumines/go-emergent/internal/config"
)

// logConfig holds resolved logging configuration for the run command.
type logConfig struct {
	level   slog.Level
	format  string         // "text", "json" or "auto"
	source  bool           // add source locations
	logFile io.WriteCloser // nil if logging to stderr
}

// Close releases the log file, if any.
func (lc logConfig) Close() error {
	if lc.logFile == nil {
		return nil
	}
	return lc.logFile.Close()
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence; config values (with their env overrides) are
// used when flags are empty. cfg may be nil. The caller must Close the
// returned logConfig.
func resolveLogConfig(flagPath, flagLevel, flagFormat string, cfg *config.Config) (logConfig, error) {
	schema := config.Default()
	lc := logConfig{source: schema.Bool(cfg, "", config.KeyLogSource)}

	resolveStr := func(key string) string {
		return schema.Value(cfg, "", key)
	}

	// Resolve log level: flag → config → "info".
	levelStr := flagLevel
	if levelStr == "" {
		levelStr = resolveStr(config.KeyLogLevel)
	}
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	// Resolve log format: flag → config → "auto".
	lc.format = strings.ToLower(flagFormat)
	if lc.format == "" {
		lc.format = strings.ToLower(resolveStr(config.KeyLogFormat))
	}
	switch lc.format {
	case "text", "json", "auto":
	case "":
		lc.format = "auto"
	default:
		return lc, fmt.Errorf("invalid log format: %s", lc.format)
	}

	// Resolve log path: flag → config → "".
	logPath := flagPath
	if logPath == "" {
		logPath = resolveStr(config.KeyLogFile)
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}

	return lc, nil
}

// newLogger builds the logger described by lc. Logs go to the log file when
// one is configured, otherwise to stderr. The auto format picks text for
// terminals and JSON for everything else.
func (lc logConfig) newLogger(stderr io.Writer) *slog.Logger {
	w := stderr
	if lc.logFile != nil {
		w = lc.logFile
	}
	opts := &slog.HandlerOptions{Level: lc.level, AddSource: lc.source}
	format := lc.format
	if format == "auto" {
		format = "json"
		if isTerminal(w) {
			format = "text"
		}
	}
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
