package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/ether-engine/internal/config"
	"github.com/jwebster45206/ether-engine/internal/logger"
	internalstorage "github.com/jwebster45206/ether-engine/internal/storage"
	"github.com/jwebster45206/ether-engine/pkg/content"
	"github.com/jwebster45206/ether-engine/pkg/meta"
	"github.com/jwebster45206/ether-engine/pkg/state"
	"github.com/jwebster45206/ether-engine/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// consoleLogger writes to LOG_FILE when set. The terminal belongs to the UI.
func consoleLogger(cfg *config.Config) (*slog.Logger, func()) {
	path := os.Getenv("LOG_FILE")
	if path == "" {
		return discardLogger(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return discardLogger(), func() {}
	}
	return logger.New(f, cfg), func() { _ = f.Close() }
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log, closeLog := consoleLogger(cfg)
	defer closeLog()

	lib, err := content.Default()
	if cfg.ContentDir != "" {
		lib, err = content.LoadDir(cfg.ContentDir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load content: %v\n", err)
		os.Exit(1)
	}

	st, err := internalstorage.Open(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = st.Close() }()

	newEngine := func() *state.Engine {
		e := state.NewEngine(lib, log)
		if cfg.RunSeed != 0 {
			e = e.WithSeed(cfg.RunSeed)
		}
		return e
	}
	j := &journal{}

	startRun := func() *session {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meta.Save(ctx, st, meta.Load(ctx, st, log).RunStarted()); err != nil {
			log.Warn("Failed to save meta progress", "error", err)
		}
		j.add("A new run begins.")
		return newSession(uuid.New(), state.NewStore(newEngine()), st, j)
	}

	var s *session
	if resume := os.Getenv("RESUME_RUN"); resume != "" {
		s, err = resumeRun(resume, st, newEngine(), j)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to resume run: %v\n", err)
			os.Exit(1)
		}
	} else {
		s = startRun()
	}

	p := tea.NewProgram(NewConsoleUI(s, startRun),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func resumeRun(idStr string, st storage.Storage, engine *state.Engine, j *journal) (*session, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", idStr, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	gs, err := st.LoadRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, fmt.Errorf("run %s not found", id)
	}
	j.add("Resumed run %s.", id)
	return newSession(id, state.NewStoreFrom(engine, gs), st, j), nil
}
