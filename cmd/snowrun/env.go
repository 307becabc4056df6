package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/snowrun/internal/config"
	"github.com/vovakirdan/snowrun/internal/core"
	"github.com/vovakirdan/snowrun/internal/registry"
	"github.com/vovakirdan/snowrun/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagInput      string
)

// session holds what a local run needs and must be closed after use.
type session struct {
	store   *storage.Store
	logFile *os.File
	env     registry.Env
}

// runtimeConfig reads the terminal size and the global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// gameConfig loads the YAML config and applies the command line overrides.
func gameConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			return cfg, fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}
	switch flagInput {
	case "":
	case "keyboard", "touch":
		cfg.Input.Source = flagInput
	default:
		return cfg, fmt.Errorf("unknown input source %q (want keyboard or touch)", flagInput)
	}
	return cfg, nil
}

// openLog opens the log file under ~/.snowrun. Writing to stderr would
// corrupt the alternate screen, so a missing home directory discards logs.
func openLog() (*os.File, *log.Logger) {
	var (
		w    io.Writer = io.Discard
		file *os.File
	)
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".snowrun")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join(dir, "snowrun.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				w, file = f, f
			}
		}
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "snowrun",
	})
	return file, logger
}

// openSession loads the config, opens the database and the log file.
// The game still works without a database; preferences are then kept in memory.
func openSession() (*session, error) {
	cfg, err := gameConfig()
	if err != nil {
		return nil, err
	}

	logFile, logger := openLog()
	s := &session{logFile: logFile}
	s.env = registry.Env{Config: cfg, Logger: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("database unavailable, using in-memory preferences", "path", flagDBPath, "error", err)
		s.env.Prefs = storage.NewMemPrefs()
		return s, nil
	}
	s.store = store
	s.env.Prefs = store
	s.env.History = store
	return s, nil
}

// Close releases the database and the log file.
func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.logFile != nil {
		s.logFile.Close()
	}
}
