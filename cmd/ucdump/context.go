package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/handiism/ucdump/internal/config"
	"github.com/handiism/ucdump/internal/convert"
	"github.com/handiism/ucdump/internal/logging"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
}

// pathFlags are the per-command overrides shared by convert, scan and watch.
type pathFlags struct {
	cacheDir  string
	outputDir string
}

type commandContext struct {
	flags *globalFlags
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// configPath returns the --config value or the per-user default.
func (c *commandContext) configPath() (string, error) {
	if path := strings.TrimSpace(c.flags.configPath); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

// loadSettings resolves settings from file, environment and flags, in that
// order of increasing precedence, then normalizes and validates them.
func (c *commandContext) loadSettings(paths pathFlags, override func(*config.Settings)) (*config.Settings, error) {
	path, err := c.configPath()
	if err != nil {
		return nil, fmt.Errorf("determine config path: %w", err)
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(paths.cacheDir); v != "" {
		settings.CacheDir = v
	}
	if v := strings.TrimSpace(paths.outputDir); v != "" {
		settings.OutputDir = v
	}
	if v := strings.TrimSpace(c.flags.logLevel); v != "" {
		settings.LogLevel = v
	}
	if v := strings.TrimSpace(c.flags.logFormat); v != "" {
		settings.LogFormat = v
	}
	if override != nil {
		override(settings)
	}

	if err := settings.Normalize(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// logger builds the run-scoped logger for settings.
func (c *commandContext) logger(settings *config.Settings, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
		Writer: w,
	})
	if err != nil {
		return nil, err
	}
	logger, _ = logging.WithRunID(logger)
	return logger, nil
}

// progressPrinter returns a callback writing progress events to w. Verbose
// events are dropped unless --verbose is set. Workers report concurrently, so
// writes are serialized.
func (c *commandContext) progressPrinter(w io.Writer) func(convert.ProgressEvent) {
	verbose := c.flags.verbose
	var mu sync.Mutex
	return func(event convert.ProgressEvent) {
		if event.Level == convert.LevelVerbose && !verbose {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, progressPrefix(event.Level)+event.Message)
	}
}

func progressPrefix(level convert.ProgressLevel) string {
	switch level {
	case convert.LevelError:
		return "✗ "
	case convert.LevelWarning:
		return "! "
	case convert.LevelSuccess:
		return "✓ "
	case convert.LevelInfo:
		return "› "
	default:
		return "  "
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
